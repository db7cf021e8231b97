package typehint

import (
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
)

// tupleStrategy covers the three tuple shapes: empty Tuple[()], fixed
// Tuple[int, str] and variadic Tuple[int, ...]. The ... marker is folded
// into the variadic flag and never becomes a child.
type tupleStrategy struct{}

func (tupleStrategy) build(c *Cache, t *TypeHint) (*TypeHint, error) {
	args := t.args
	switch {
	case len(args) == 0:
		t.empty = true
		return t, nil
	case len(args) == 2 && args[1] == hint.Ellipsis:
		t.variadic = true
		args = args[:1]
	}
	for _, a := range args {
		if a == hint.Ellipsis {
			return nil, errors.Unsupported(t.String(), "... is only valid as the second of two tuple arguments")
		}
	}

	children, err := c.wrapAll(args)
	if err != nil {
		return nil, err
	}
	t.args = args
	t.children = children
	t.justOrigin = t.variadic && children[0].ignorable
	return t, nil
}

func (tupleStrategy) branchLe(t, branch *TypeHint) bool {
	if le, ok := foldOrigin(t, branch); ok {
		return le
	}
	if branch.kind != t.kind {
		return false
	}

	switch {
	case t.empty || branch.empty:
		return t.empty && branch.empty
	case t.variadic:
		return branch.variadic && t.children[0].IsSubtype(branch.children[0])
	case branch.variadic:
		elem := branch.children[0]
		for _, c := range t.children {
			if !c.IsSubtype(elem) {
				return false
			}
		}
		return true
	}
	return leChildren(t.children, branch.children)
}

func (tupleStrategy) equal(t, other *TypeHint) bool {
	return t.empty == other.empty &&
		t.variadic == other.variadic &&
		equalChildren(t.children, other.children)
}

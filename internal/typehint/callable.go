package typehint

import (
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
)

// callableStrategy covers Callable[[params...], ret] and Callable[..., ret].
// Children are the parameter hints followed by the return hint.
type callableStrategy struct{}

func (callableStrategy) build(c *Cache, t *TypeHint) (*TypeHint, error) {
	var params []hint.Hint
	switch p := t.args[0].(type) {
	case hint.EllipsisType:
		t.anyParams = true
	case hint.Params:
		params = p
	default:
		return nil, errors.Unsupported(t.String(), "callable parameters must be a bracketed list or ...")
	}

	all := make([]hint.Hint, 0, len(params)+1)
	all = append(all, params...)
	all = append(all, t.args[1])
	children, err := c.wrapAll(all)
	if err != nil {
		return nil, err
	}
	t.children = children
	t.justOrigin = t.anyParams && t.Return().ignorable
	return t, nil
}

// branchLe is contravariant in parameters and covariant in the return. A
// branch declared with ... skips the parameter check; an ignorable branch
// return skips the return check.
func (callableStrategy) branchLe(t, branch *TypeHint) bool {
	if le, ok := foldOrigin(t, branch); ok {
		return le
	}
	if branch.kind != t.kind {
		return false
	}

	if !branch.anyParams {
		if t.anyParams {
			return false
		}
		mine, theirs := t.Params(), branch.Params()
		if len(mine) != len(theirs) {
			return false
		}
		for i := range mine {
			if !theirs[i].IsSubtype(mine[i]) {
				return false
			}
		}
	}

	if branch.Return().ignorable {
		return true
	}
	return t.Return().IsSubtype(branch.Return())
}

func (callableStrategy) equal(t, other *TypeHint) bool {
	return t.anyParams == other.anyParams && equalChildren(t.children, other.children)
}

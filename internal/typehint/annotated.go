package typehint

import (
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
	"github.com/orizon-lang/hintkit/internal/value"
)

// annotatedStrategy covers Annotated[T, meta...]. The only child is T;
// metadata objects are kept aside and compared by value. Nested Annotated
// hints are flattened into one.
type annotatedStrategy struct{}

func (annotatedStrategy) build(c *Cache, t *TypeHint) (*TypeHint, error) {
	inner, meta := t.args[0], append([]any(nil), t.args[1:]...)
	for {
		s, ok := inner.(*hint.Subscript)
		if !ok || s.Sign != hint.SignAnnotated || len(s.Args) < 2 {
			break
		}
		meta = append(append([]any(nil), s.Args[1:]...), meta...)
		inner = s.Args[0]
	}

	child, err := c.Wrap(inner)
	if err != nil {
		return nil, err
	}
	t.children = []*TypeHint{child}
	t.metadata = meta
	t.origin = child.origin
	return t, nil
}

func (t *TypeHint) bare() *TypeHint { return t.children[0] }

// isSubtype unwraps covariantly: Annotated[T, m] <= other whenever T <=
// other, and an annotated member of other can also match with metadata
func (annotatedStrategy) isSubtype(t, other *TypeHint) bool {
	if t.bare().IsSubtype(other) {
		return true
	}
	for _, b := range other.branches() {
		if b.kind == registry.KindAnnotated && t.isSubtypeBranch(b) {
			return true
		}
	}
	return false
}

func (annotatedStrategy) branchLe(t, branch *TypeHint) bool {
	if branch.kind != registry.KindAnnotated {
		return t.bare().IsSubtype(branch)
	}
	return t.bare().IsSubtype(branch.bare()) && equalMetadata(t.metadata, branch.metadata)
}

func (annotatedStrategy) equal(t, other *TypeHint) bool {
	return t.bare().Equal(other.bare()) && equalMetadata(t.metadata, other.metadata)
}

// equalMetadata compares metadata by value. value.Equal recovers from
// panicking caller-supplied equality and reports it as unequal.
func equalMetadata(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !value.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

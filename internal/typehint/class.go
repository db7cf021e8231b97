package typehint

import (
	"github.com/orizon-lang/hintkit/internal/hint"
)

// classStrategy covers plain classes and the origin-only fallbacks (Any,
// unbounded type variables)
type classStrategy struct{}

func (classStrategy) build(_ *Cache, t *TypeHint) (*TypeHint, error) {
	t.args = nil
	t.justOrigin = true
	t.ignorable = t.origin == hint.Object
	return t, nil
}

func (classStrategy) branchLe(t, branch *TypeHint) bool {
	le, _ := foldOrigin(t, branch)
	return le
}

func (classStrategy) equal(t, other *TypeHint) bool {
	return t.origin == other.origin
}

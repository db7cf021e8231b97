package typehint

import (
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
)

// strategy implements one hint kind
type strategy interface {
	// build derives children and shape flags for a freshly classified node.
	// It may return a different node when the hint normalizes to one.
	build(c *Cache, t *TypeHint) (*TypeHint, error)

	// branchLe reports t <= branch for a single non-union branch
	branchLe(t, branch *TypeHint) bool

	// equal compares two nodes of this kind that are not both just an origin
	equal(t, other *TypeHint) bool
}

// subtyper is implemented by strategies that replace the default
// any-branch lifting of branchLe
type subtyper interface {
	isSubtype(t, other *TypeHint) bool
}

var strategies map[registry.Kind]strategy

func init() {
	strategies = map[registry.Kind]strategy{
		registry.KindClass:     classStrategy{},
		registry.KindGeneric1:  genericStrategy{},
		registry.KindGeneric2:  genericStrategy{},
		registry.KindGeneric3:  genericStrategy{},
		registry.KindTuple:     tupleStrategy{},
		registry.KindCallable:  callableStrategy{},
		registry.KindLiteral:   literalStrategy{},
		registry.KindAnnotated: annotatedStrategy{},
		registry.KindUnion:     unionStrategy{},
	}
}

// classLe is the origin inclusion test every just-an-origin comparison folds
// to. Besides subclassing it admits the upward numeric tower: int (and so
// bool) is accepted by float, and int and float by complex. The tower never
// runs downward.
func classLe(sub, super *hint.Class) bool {
	if super == hint.Object {
		return true
	}
	if sub == nil || super == nil {
		return false
	}
	if sub.IsSubclass(super) {
		return true
	}
	switch super {
	case hint.Float:
		return sub.IsSubclass(hint.Int)
	case hint.Complex:
		return sub.IsSubclass(hint.Int) || sub.IsSubclass(hint.Float)
	}
	return false
}

// foldOrigin settles every comparison that involves a just-an-origin node.
// Against such a branch only the origins matter. A just-an-origin t accepts
// everything its origin does, so it never fits a branch with arguments; bare
// Tuple and Callable carry no children for the kind's own rule to inspect.
// ok is false when both sides have arguments and the kind's rule decides.
func foldOrigin(t, branch *TypeHint) (le, ok bool) {
	if branch.justOrigin {
		return classLe(t.origin, branch.origin), true
	}
	if t.justOrigin {
		return false, true
	}
	return false, false
}

func allIgnorable(ts []*TypeHint) bool {
	for _, t := range ts {
		if !t.ignorable {
			return false
		}
	}
	return true
}

// Package typehint normalizes raw type hints into TypeHint nodes and decides
// the subtype partial order between them.
//
// Nodes are created through a Cache, which guarantees one node per distinct
// raw hint: wrapping the same hint twice yields the same pointer. Every node
// carries a kind selected by the registry, and the kind selects the strategy
// answering "is this node <= that branch" for a single non-union branch.
// IsSubtype lifts the strategies to unions: a node is a subtype of a union
// when it is a subtype of at least one of its members.
package typehint

import (
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
)

// TypeHint is a normalized, immutable type hint
type TypeHint struct {
	cache    *Cache
	raw      hint.Hint
	kind     registry.Kind
	origin   *hint.Class
	args     []hint.Hint
	children []*TypeHint
	strategy strategy

	justOrigin bool
	ignorable  bool
	degenerate bool

	// tuple shape
	variadic bool
	empty    bool

	// callable shape; params are children[:len-1], the return is the last child
	anyParams bool

	// literal values and annotated metadata
	values   []any
	metadata []any
}

// Ordering is the partial-order relation between two hints
type Ordering int

const (
	OrderIncomparable Ordering = iota
	OrderLess
	OrderEqual
	OrderGreater
)

// String returns the string representation of an Ordering
func (o Ordering) String() string {
	switch o {
	case OrderLess:
		return "<"
	case OrderEqual:
		return "=="
	case OrderGreater:
		return ">"
	default:
		return "<>"
	}
}

// Hint returns the raw hint this node was built from
func (t *TypeHint) Hint() hint.Hint { return t.raw }

// Kind returns the kind tag selected at construction
func (t *TypeHint) Kind() registry.Kind { return t.kind }

// Origin returns the unparametrized runtime class, nil for unions and
// literals
func (t *TypeHint) Origin() *hint.Class { return t.origin }

// Args returns the cleansed subscription arguments
func (t *TypeHint) Args() []hint.Hint { return t.args }

// Children returns the wrapped child hints. Literal nodes have none.
func (t *TypeHint) Children() []*TypeHint { return t.children }

// Len returns the number of children
func (t *TypeHint) Len() int { return len(t.children) }

// IsJustOrigin reports whether every argument is ignorable, so comparisons
// reduce to the origin class
func (t *TypeHint) IsJustOrigin() bool { return t.justOrigin }

// IsIgnorable reports whether the hint accepts every value
func (t *TypeHint) IsIgnorable() bool { return t.ignorable }

// IsDegenerate reports whether the origin cannot be used in instance checks
func (t *TypeHint) IsDegenerate() bool { return t.degenerate }

// IsVariadic reports whether a tuple hint repeats its single element type
func (t *TypeHint) IsVariadic() bool { return t.variadic }

// IsEmptyTuple reports whether the hint is the empty tuple Tuple[()]
func (t *TypeHint) IsEmptyTuple() bool { return t.empty }

// AcceptsAnyArgs reports whether a callable hint was declared with ...
func (t *TypeHint) AcceptsAnyArgs() bool { return t.anyParams }

// Params returns a callable's parameter hints
func (t *TypeHint) Params() []*TypeHint {
	if t.kind != registry.KindCallable || len(t.children) == 0 {
		return nil
	}
	return t.children[:len(t.children)-1]
}

// Return returns a callable's return hint
func (t *TypeHint) Return() *TypeHint {
	if t.kind != registry.KindCallable || len(t.children) == 0 {
		return nil
	}
	return t.children[len(t.children)-1]
}

// Values returns a literal's member values
func (t *TypeHint) Values() []any { return t.values }

// Metadata returns an annotated hint's metadata objects
func (t *TypeHint) Metadata() []any { return t.metadata }

// String renders the raw hint
func (t *TypeHint) String() string { return hint.Repr(t.raw) }

// branches returns the disjuncts other is compared through
func (t *TypeHint) branches() []*TypeHint {
	if t.kind == registry.KindUnion {
		return t.children
	}
	return []*TypeHint{t}
}

// IsSubtype reports whether every value accepted by t is accepted by other.
// Results are memoized per pair in the owning cache.
func (t *TypeHint) IsSubtype(other *TypeHint) bool {
	if t == other {
		return true
	}
	if v, ok := t.cache.lookupSubtype(t, other); ok {
		return v
	}

	var result bool
	if s, ok := t.strategy.(subtyper); ok {
		result = s.isSubtype(t, other)
	} else {
		result = anyBranch(t, other)
	}

	t.cache.storeSubtype(t, other, result)
	return result
}

// anyBranch is the default lifting of a single-branch predicate to unions
func anyBranch(t, other *TypeHint) bool {
	for _, b := range other.branches() {
		if t.isSubtypeBranch(b) {
			return true
		}
	}
	return false
}

// isSubtypeBranch applies t's strategy against one non-union branch
func (t *TypeHint) isSubtypeBranch(branch *TypeHint) bool {
	if branch.ignorable {
		return true
	}
	return t.strategy.branchLe(t, branch)
}

// IsSupertype reports whether other is a subtype of t
func (t *TypeHint) IsSupertype(other *TypeHint) bool { return other.IsSubtype(t) }

// Le is t <= other
func (t *TypeHint) Le(other *TypeHint) bool { return t.IsSubtype(other) }

// Lt is t < other
func (t *TypeHint) Lt(other *TypeHint) bool { return t.IsSubtype(other) && !t.Equal(other) }

// Ge is t >= other
func (t *TypeHint) Ge(other *TypeHint) bool { return other.IsSubtype(t) }

// Gt is t > other
func (t *TypeHint) Gt(other *TypeHint) bool { return other.IsSubtype(t) && !t.Equal(other) }

// Equal reports structural equality. Hints that are both just an origin are
// equal when their origins are, so List, List[Any] and list compare equal.
func (t *TypeHint) Equal(other *TypeHint) bool {
	if t == other {
		return true
	}
	if other == nil {
		return false
	}
	if t.justOrigin && other.justOrigin {
		return t.origin == other.origin
	}
	if t.kind != other.kind {
		return false
	}
	return t.strategy.equal(t, other)
}

// Ne is !Equal
func (t *TypeHint) Ne(other *TypeHint) bool { return !t.Equal(other) }

// Order relates t to other. Operands that are not *TypeHint are reported as
// ErrIncomparable.
func (t *TypeHint) Order(other any) (Ordering, error) {
	o, ok := other.(*TypeHint)
	if !ok || o == nil {
		return OrderIncomparable, errors.Incomparable(other)
	}

	le, ge := t.IsSubtype(o), o.IsSubtype(t)
	switch {
	case le && ge:
		return OrderEqual, nil
	case le:
		return OrderLess, nil
	case ge:
		return OrderGreater, nil
	}
	return OrderIncomparable, nil
}

// equalChildren compares children pairwise in declaration order
func equalChildren(a, b []*TypeHint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// leChildren checks children pairwise in declaration order
func leChildren(a, b []*TypeHint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].IsSubtype(b[i]) {
			return false
		}
	}
	return true
}

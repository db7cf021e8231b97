package typehint

import (
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
)

// unionStrategy covers Union[...], Optional[T] and X | Y.
//
// Construction normalizes the members: nested unions are flattened, literal
// members are merged into one literal, literal values already accepted by
// another member are dropped, and members subsumed by another member are
// removed. A union left with a single member wraps to that member. After
// normalization no member is <= another, which keeps equality exact.
type unionStrategy struct{}

func (unionStrategy) build(c *Cache, t *TypeHint) (*TypeHint, error) {
	args := t.args
	if s, ok := t.raw.(*hint.Subscript); ok && s.Sign == hint.SignOptional {
		args = []hint.Hint{args[0], nil}
	}

	wrapped, err := c.wrapAll(args)
	if err != nil {
		return nil, err
	}

	var members []*TypeHint
	var literals []any
	for _, m := range flattenUnion(wrapped, nil) {
		if m.kind == registry.KindLiteral {
			for _, v := range m.values {
				literals = appendValue(literals, v)
			}
			continue
		}
		members = append(members, m)
	}

	if len(literals) > 0 {
		var kept []any
		for _, v := range literals {
			if !acceptedByAny(c, v, members) {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			lit, err := c.Wrap(hint.Literal(kept...))
			if err != nil {
				return nil, err
			}
			members = append(members, lit)
		}
	}

	members = dropSubsumed(members)
	if len(members) == 1 {
		return members[0], nil
	}

	t.children = members
	return t, nil
}

func flattenUnion(ts []*TypeHint, into []*TypeHint) []*TypeHint {
	for _, t := range ts {
		if t.kind == registry.KindUnion {
			into = flattenUnion(t.children, into)
			continue
		}
		into = append(into, t)
	}
	return into
}

func acceptedByAny(c *Cache, v any, members []*TypeHint) bool {
	for _, m := range members {
		if c.valueBranchLe(v, m) {
			return true
		}
	}
	return false
}

// dropSubsumed removes every member <= another member. Of several equal
// members the first is kept.
func dropSubsumed(members []*TypeHint) []*TypeHint {
	kept := make([]*TypeHint, 0, len(members))
	for i, m := range members {
		subsumed := false
		for j, o := range members {
			if i == j {
				continue
			}
			if m.IsSubtype(o) && (j < i || !o.IsSubtype(m)) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, m)
		}
	}
	return kept
}

// isSubtype holds when every member is <= other
func (unionStrategy) isSubtype(t, other *TypeHint) bool {
	for _, m := range t.children {
		if !m.IsSubtype(other) {
			return false
		}
	}
	return true
}

// branchLe is never reached: IsSubtype routes unions through isSubtype
func (unionStrategy) branchLe(t, _ *TypeHint) bool {
	panic("typehint: single-branch comparison invoked on union " + t.String())
}

// equal is set equality over the normalized members
func (unionStrategy) equal(t, other *TypeHint) bool {
	if len(t.children) != len(other.children) {
		return false
	}
	for _, m := range t.children {
		found := false
		for _, o := range other.children {
			if m.Equal(o) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

package typehint

import (
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
	"github.com/orizon-lang/hintkit/internal/value"
)

// literalStrategy covers Literal[v1, v2, ...]. Arguments are values, not
// hints, so a literal node has no children. Nested literals are flattened
// and duplicate values dropped.
type literalStrategy struct{}

func (literalStrategy) build(_ *Cache, t *TypeHint) (*TypeHint, error) {
	t.values = flattenLiteral(t.args, nil)
	return t, nil
}

func flattenLiteral(args []hint.Hint, into []any) []any {
	for _, a := range args {
		if s, ok := a.(*hint.Subscript); ok && s.Sign == hint.SignLiteral {
			into = flattenLiteral(s.Args, into)
			continue
		}
		into = appendValue(into, value.Normalize(a))
	}
	return into
}

func appendValue(values []any, v any) []any {
	if containsValue(values, v) {
		return values
	}
	return append(values, v)
}

func containsValue(values []any, v any) bool {
	for _, x := range values {
		if value.Equal(x, v) {
			return true
		}
	}
	return false
}

// isSubtype checks each value on its own, so Literal[1, 'a'] is a subtype
// of Union[int, str] even though neither member accepts both values
func (literalStrategy) isSubtype(t, other *TypeHint) bool {
	for _, v := range t.values {
		if !t.cache.valueLe(v, other) {
			return false
		}
	}
	return true
}

func (literalStrategy) branchLe(t, branch *TypeHint) bool {
	for _, v := range t.values {
		if !t.cache.valueBranchLe(v, branch) {
			return false
		}
	}
	return true
}

// equal is set equality over the values
func (literalStrategy) equal(t, other *TypeHint) bool {
	if len(t.values) != len(other.values) {
		return false
	}
	for _, v := range t.values {
		if !containsValue(other.values, v) {
			return false
		}
	}
	return true
}

// valueLe reports whether the single value v is accepted by other
func (c *Cache) valueLe(v any, other *TypeHint) bool {
	for _, b := range other.branches() {
		if c.valueBranchLe(v, b) {
			return true
		}
	}
	return false
}

// valueBranchLe compares one literal value against one branch: by
// containment when the branch is a literal, otherwise by treating the
// value's runtime class as a plain class hint
func (c *Cache) valueBranchLe(v any, branch *TypeHint) bool {
	if branch.ignorable {
		return true
	}
	if branch.kind == registry.KindLiteral {
		return containsValue(branch.values, v)
	}
	cls, err := c.Wrap(value.ClassOf(v))
	if err != nil {
		return false
	}
	return cls.IsSubtype(branch)
}

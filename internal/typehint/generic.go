package typehint

// genericStrategy covers isinstanceable containers subscripted by one, two
// or three arguments, e.g. List[int], Dict[str, int], Generator[int, None, None]
type genericStrategy struct{}

func (genericStrategy) build(c *Cache, t *TypeHint) (*TypeHint, error) {
	children, err := c.wrapAll(t.args)
	if err != nil {
		return nil, err
	}
	t.children = children
	t.justOrigin = allIgnorable(children)
	return t, nil
}

// branchLe requires the same kind, subclassed origins and pairwise <=
// children. Arity mismatches answer false.
func (genericStrategy) branchLe(t, branch *TypeHint) bool {
	if le, ok := foldOrigin(t, branch); ok {
		return le
	}
	if branch.kind != t.kind || !classLe(t.origin, branch.origin) {
		return false
	}
	return leChildren(t.children, branch.children)
}

func (genericStrategy) equal(t, other *TypeHint) bool {
	return t.origin == other.origin && equalChildren(t.children, other.children)
}

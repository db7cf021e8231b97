package typehint

import (
	"sync"

	"github.com/orizon-lang/hintkit/internal/cli"
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
)

type pair struct {
	sub, super *TypeHint
}

// Cache owns every TypeHint it creates and the memoized subtype results
// between them. Entries live as long as the cache. A Cache is safe for
// concurrent use; two goroutines racing to wrap the same new hint may both
// build it, and the first insert wins.
type Cache struct {
	reg  *registry.Registry
	warn cli.Warner

	mu    sync.RWMutex
	hints map[string]*TypeHint

	subMu    sync.RWMutex
	subtypes map[pair]bool
}

// NewCache creates a cache classifying hints with reg and reporting
// degenerate origins to warn. Nil arguments select the default registry and
// a discarding logger.
func NewCache(reg *registry.Registry, warn cli.Warner) *Cache {
	if reg == nil {
		reg = registry.Default()
	}
	if warn == nil {
		warn = cli.Discard()
	}
	return &Cache{
		reg:      reg,
		warn:     warn,
		hints:    make(map[string]*TypeHint),
		subtypes: make(map[pair]bool),
	}
}

var defaultCache = NewCache(nil, nil)

// Default returns the process-wide cache
func Default() *Cache { return defaultCache }

// Wrap wraps h with the default cache
func Wrap(h hint.Hint) (*TypeHint, error) { return defaultCache.Wrap(h) }

// MustWrap is Wrap that panics on error
func MustWrap(h hint.Hint) *TypeHint {
	t, err := Wrap(h)
	if err != nil {
		panic(err)
	}
	return t
}

// Registry returns the registry used for classification
func (c *Cache) Registry() *registry.Registry { return c.reg }

// Len returns the number of cached hints
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hints)
}

// Wrap returns the node for h, building and caching it on first use. A
// *TypeHint is returned unchanged.
func (c *Cache) Wrap(h hint.Hint) (*TypeHint, error) {
	if t, ok := h.(*TypeHint); ok {
		return t, nil
	}

	key := hint.Key(h)
	c.mu.RLock()
	t, ok := c.hints[key]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := c.build(h)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.hints[key]; ok {
		return existing, nil
	}
	c.hints[key] = t
	return t, nil
}

func (c *Cache) wrapAll(hs []hint.Hint) ([]*TypeHint, error) {
	out := make([]*TypeHint, len(hs))
	for i, h := range hs {
		t, err := c.Wrap(h)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// build classifies h and hands it to the kind's strategy
func (c *Cache) build(h hint.Hint) (*TypeHint, error) {
	cls := c.reg.Classify(h)
	repr := hint.Repr(h)

	if cls.Gated {
		return nil, errors.UnsupportedVersion(repr, cls.Requires, c.reg.Target().String())
	}

	if cls.Kind == registry.KindUnsupported {
		if tv, ok := h.(*hint.TypeVar); ok && tv.Bound != nil {
			return c.Wrap(tv.Bound)
		}
		if cls.Origin == nil {
			if cls.Typing {
				return nil, errors.Unsupported(repr, cls.Reason)
			}
			return nil, errors.Unclassifiable(repr, cls.Reason)
		}
		// Any and unbounded type variables accept everything and compare as
		// their origin
		cls.Kind = registry.KindClass
	}

	t := &TypeHint{
		cache:    c,
		raw:      h,
		kind:     cls.Kind,
		origin:   cls.Origin,
		args:     cls.Args,
		strategy: strategies[cls.Kind],
	}

	if cls.Bare() {
		t.justOrigin = true
		t.anyParams = cls.Kind == registry.KindCallable
		c.checkOrigin(t)
		return t, nil
	}
	if cls.Entry != nil && !cls.Entry.CheckArity(len(cls.Args)) {
		return nil, errors.Arity(repr, cls.Entry.ArityText(), len(cls.Args))
	}

	built, err := t.strategy.build(c, t)
	if err != nil {
		return nil, err
	}
	if built == t {
		c.checkOrigin(t)
	}
	return built, nil
}

// checkOrigin downgrades a node whose origin cannot back an instance check
func (c *Cache) checkOrigin(t *TypeHint) {
	if t.origin == nil || t.origin.Instanceable() {
		return
	}
	t.degenerate = true
	c.warn.Warn("%s", errors.DegenerateOrigin(t.String(), t.origin.QualName()).Message)
}

func (c *Cache) lookupSubtype(sub, super *TypeHint) (bool, bool) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	v, ok := c.subtypes[pair{sub, super}]
	return v, ok
}

func (c *Cache) storeSubtype(sub, super *TypeHint, v bool) {
	c.subMu.Lock()
	c.subtypes[pair{sub, super}] = v
	c.subMu.Unlock()
}

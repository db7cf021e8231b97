// Package hintkit orders type hints by the subhint relation and checks
// runtime values against them.
//
// Hints are raw hint.Hint values, usually produced by hint.Parse. A Checker
// wraps them into memoized typehint.TypeHint nodes for ordering queries and
// compiles them into check fragments for bearability queries. The package
// level functions use a process-wide Checker.
package hintkit

import (
	"sync"

	"github.com/orizon-lang/hintkit/internal/arena"
	"github.com/orizon-lang/hintkit/internal/checkeval"
	"github.com/orizon-lang/hintkit/internal/cli"
	"github.com/orizon-lang/hintkit/internal/codegen"
	"github.com/orizon-lang/hintkit/internal/config"
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/typehint"
	"github.com/orizon-lang/hintkit/internal/value"
)

// ErrUnbearable matches errors returned by DieIfUnbearable
var ErrUnbearable = errors.ErrUnbearable

// compiled is a generated fragment and its parsed program
type compiled struct {
	frag *codegen.Fragment
	prog *checkeval.Program
}

// Checker answers ordering and bearability queries. It is safe for
// concurrent use.
type Checker struct {
	cache *typehint.Cache
	gen   *codegen.Generator
	log   *cli.Logger

	mu    sync.RWMutex
	progs map[string]*compiled
}

// NewChecker creates a checker over cache and gen. Nil arguments select the
// process-wide cache and a default generator.
func NewChecker(cache *typehint.Cache, gen *codegen.Generator) *Checker {
	if cache == nil {
		cache = typehint.Default()
	}
	if gen == nil {
		gen = codegen.NewGenerator(codegen.DefaultOptions(), cache.Registry(), nil)
	}
	return &Checker{
		cache: cache,
		gen:   gen,
		log:   cli.Discard(),
		progs: make(map[string]*compiled),
	}
}

// FromConfig builds a checker with its own cache, registry and arena pool
// as described by cfg. Warnings and debug output go to log.
func FromConfig(cfg *config.Config, log *cli.Logger) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = cli.Discard()
	}
	c := NewChecker(
		typehint.NewCache(reg, log),
		codegen.NewGenerator(cfg.CodegenOptions(), reg, arena.NewPool()),
	)
	c.log = log
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultChecker *Checker
)

// Default returns the process-wide checker
func Default() *Checker {
	defaultOnce.Do(func() { defaultChecker = NewChecker(nil, nil) })
	return defaultChecker
}

// Cache returns the wrapper cache
func (c *Checker) Cache() *typehint.Cache { return c.cache }

// Generator returns the check generator
func (c *Checker) Generator() *codegen.Generator { return c.gen }

// Wrap wraps h into its TypeHint
func (c *Checker) Wrap(h hint.Hint) (*typehint.TypeHint, error) {
	return c.cache.Wrap(h)
}

// IsSubhint reports whether every value satisfying sub satisfies super
func (c *Checker) IsSubhint(sub, super hint.Hint) (bool, error) {
	a, b, err := c.wrapPair(sub, super)
	if err != nil {
		return false, err
	}
	return a.IsSubtype(b), nil
}

// IsEqual reports whether a and b describe the same set of values
func (c *Checker) IsEqual(a, b hint.Hint) (bool, error) {
	x, y, err := c.wrapPair(a, b)
	if err != nil {
		return false, err
	}
	return x.Equal(y), nil
}

// Order returns the partial-order relation between a and b
func (c *Checker) Order(a, b hint.Hint) (typehint.Ordering, error) {
	x, y, err := c.wrapPair(a, b)
	if err != nil {
		return typehint.OrderIncomparable, err
	}
	return x.Order(y)
}

func (c *Checker) wrapPair(a, b hint.Hint) (*typehint.TypeHint, *typehint.TypeHint, error) {
	x, err := c.cache.Wrap(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := c.cache.Wrap(b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// GenerateCheck returns the check fragment for h against the configured
// root pith. Fragments are memoized per hint.
func (c *Checker) GenerateCheck(h hint.Hint) (*codegen.Fragment, error) {
	p, err := c.compile(h)
	if err != nil {
		return nil, err
	}
	return p.frag, nil
}

func (c *Checker) compile(h hint.Hint) (*compiled, error) {
	key := hint.Key(h)

	c.mu.RLock()
	p, ok := c.progs[key]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	frag, err := c.gen.Generate(h)
	if err != nil {
		return nil, err
	}
	prog, err := checkeval.Compile(frag.Code)
	if err != nil {
		return nil, err
	}
	c.log.Debug("compiled check for %s: %s", hint.Repr(h), frag.Code)

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.progs[key]; ok {
		return p, nil
	}
	p = &compiled{frag: frag, prog: prog}
	c.progs[key] = p
	return p, nil
}

// IsBearable reports whether v satisfies h
func (c *Checker) IsBearable(v any, h hint.Hint) (bool, error) {
	p, err := c.compile(h)
	if err != nil {
		return false, err
	}
	return p.prog.Eval(checkeval.Bindings{p.frag.Pith: v}, p.frag.Refs)
}

// DieIfUnbearable returns an error matching ErrUnbearable when v does not
// satisfy h
func (c *Checker) DieIfUnbearable(v any, h hint.Hint) error {
	ok, err := c.IsBearable(v, h)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Unbearable(value.Repr(v), hint.Repr(h))
	}
	return nil
}

// Parse parses a hint written in typing syntax against the builtin namespace
func Parse(src string) (hint.Hint, error) { return hint.Parse(src) }

// Wrap wraps h with the process-wide checker
func Wrap(h hint.Hint) (*typehint.TypeHint, error) { return Default().Wrap(h) }

// IsSubhint reports whether sub is a subhint of super
func IsSubhint(sub, super hint.Hint) (bool, error) { return Default().IsSubhint(sub, super) }

// IsEqual reports whether a and b are equal hints
func IsEqual(a, b hint.Hint) (bool, error) { return Default().IsEqual(a, b) }

// Order returns the partial-order relation between a and b
func Order(a, b hint.Hint) (typehint.Ordering, error) { return Default().Order(a, b) }

// GenerateCheck returns the check fragment for h
func GenerateCheck(h hint.Hint) (*codegen.Fragment, error) { return Default().GenerateCheck(h) }

// IsBearable reports whether v satisfies h
func IsBearable(v any, h hint.Hint) (bool, error) { return Default().IsBearable(v, h) }

// DieIfUnbearable returns an error when v does not satisfy h
func DieIfUnbearable(v any, h hint.Hint) error { return Default().DieIfUnbearable(v, h) }

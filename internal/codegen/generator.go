// Package codegen compiles raw type hints into boolean check fragments.
//
// The generator walks a hint tree breadth first without recursion. Its queue
// lives in a single buffer checked out of the arena; the buffer interleaves
// metadata markers with the hints of the generation each marker describes.
// A marker records the indentation and the pith expression (the expression
// reaching the value under test) shared by the hints that follow it. Every
// visited hint replaces its own placeholder in the accumulated code with a
// fragment that may contain placeholders for its children.
package codegen

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/hintkit/internal/arena"
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
)

// Options control the shape of generated code
type Options struct {
	// PithRoot is the expression naming the root value under test
	PithRoot string

	// Indent is added once per nesting level
	Indent string

	// QueueCapacity bounds the number of markers and hints one traversal
	// may enqueue
	QueueCapacity int

	// NumericTower lets float checks accept int and complex checks accept
	// int and float
	NumericTower bool
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		PithRoot:      "pith",
		Indent:        "    ",
		QueueCapacity: 256,
	}
}

// Fragment is generated check code for one hint
type Fragment struct {
	Hint hint.Hint
	Code string
	Pith string
	Refs *TypeRefs
}

// meta is the metadata marker shared by one generation of queued hints
type meta struct {
	indent string
	pith   string
}

// node is a queued hint and the id of the placeholder it replaces
type node struct {
	hint hint.Hint
	id   int
}

// Generator produces check fragments. It is safe for concurrent use.
type Generator struct {
	opts  Options
	reg   *registry.Registry
	pool  *arena.Pool
	metas *arena.FreeList[meta]
}

// NewGenerator creates a generator. Nil reg and pool select the defaults.
func NewGenerator(opts Options, reg *registry.Registry, pool *arena.Pool) *Generator {
	if reg == nil {
		reg = registry.Default()
	}
	if pool == nil {
		pool = arena.Default()
	}
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = DefaultOptions().QueueCapacity
	}
	if opts.PithRoot == "" {
		opts.PithRoot = DefaultOptions().PithRoot
	}
	return &Generator{
		opts:  opts,
		reg:   reg,
		pool:  pool,
		metas: arena.NewFreeList[meta](),
	}
}

// Options returns the generator options
func (g *Generator) Options() Options { return g.opts }

// Pool returns the arena queue buffers are borrowed from
func (g *Generator) Pool() *arena.Pool { return g.pool }

// OutstandingMarkers returns the number of metadata markers not yet released
func (g *Generator) OutstandingMarkers() int { return g.metas.Outstanding() }

// Generate compiles h against the configured root pith with fresh refs
func (g *Generator) Generate(h hint.Hint) (*Fragment, error) {
	return g.GenerateFor(h, g.opts.PithRoot, NewTypeRefs())
}

// GenerateFor compiles h against pith, registering classes in refs
func (g *Generator) GenerateFor(h hint.Hint, pith string, refs *TypeRefs) (*Fragment, error) {
	code, err := g.traverse(h, pith, refs)
	if err != nil {
		return nil, err
	}
	return &Fragment{Hint: h, Code: code, Pith: pith, Refs: refs}, nil
}

func placeholder(id int) string {
	return fmt.Sprintf("\x00%d\x00", id)
}

// walk is the state of one traversal
type walk struct {
	g      *Generator
	root   hint.Hint
	refs   *TypeRefs
	queue  *arena.List
	head   int
	tail   int
	nextID int
	cur    *meta
}

// traverse runs the breadth-first walk. The queue buffer and every marker
// still held are released on all exit paths.
func (g *Generator) traverse(h hint.Hint, pith string, refs *TypeRefs) (string, error) {
	queue, err := g.pool.Acquire(g.opts.QueueCapacity)
	if err != nil {
		return "", err
	}
	w := &walk{g: g, root: h, refs: refs, queue: queue}
	defer w.release()

	rootID := w.newID()
	if err := w.pushGeneration("", pith, node{hint: h, id: rootID}); err != nil {
		return "", err
	}
	code := placeholder(rootID)

	for w.head < w.tail {
		item := queue.Get(w.head)
		w.head++

		switch x := item.(type) {
		case *meta:
			if w.cur != nil {
				g.metas.Put(w.cur)
			}
			w.cur = x
		case node:
			frag, err := w.visit(x)
			if err != nil {
				return "", err
			}
			code = strings.Replace(code, placeholder(x.id), frag, 1)
		default:
			panic(fmt.Sprintf("codegen: unexpected queue item %T", item))
		}
	}
	return code, nil
}

func (w *walk) release() {
	if w.cur != nil {
		w.g.metas.Put(w.cur)
		w.cur = nil
	}
	for i := w.head; i < w.tail; i++ {
		if m, ok := w.queue.Get(i).(*meta); ok {
			w.g.metas.Put(m)
		}
	}
	w.queue.Clear()
	w.g.pool.Release(w.queue)
}

func (w *walk) newID() int {
	id := w.nextID
	w.nextID++
	return id
}

// pushGeneration enqueues a marker followed by the hints it describes
func (w *walk) pushGeneration(indent, pith string, nodes ...node) error {
	if w.tail+1+len(nodes) > w.queue.Cap() {
		return errors.QueueExhausted(w.queue.Cap(), hint.Repr(w.root))
	}

	m := w.g.metas.Get()
	m.indent, m.pith = indent, pith
	w.queue.Set(w.tail, m)
	w.tail++
	for _, n := range nodes {
		w.queue.Set(w.tail, n)
		w.tail++
	}
	return nil
}

// child reserves a placeholder for h
func (w *walk) child(h hint.Hint) (node, string) {
	n := node{hint: h, id: w.newID()}
	return n, placeholder(n.id)
}

// classify rejects hints no rule can generate code for
func (w *walk) classify(h hint.Hint) (registry.Classification, error) {
	cls := w.g.reg.Classify(h)
	repr := hint.Repr(h)

	if cls.Gated {
		return cls, errors.UnsupportedVersion(repr, cls.Requires, w.g.reg.Target().String())
	}
	if cls.Kind == registry.KindUnsupported {
		if cls.Ignorable() {
			return cls, nil
		}
		if _, ok := h.(*hint.TypeVar); ok && cls.Bound != nil {
			return cls, nil
		}
		if cls.Typing {
			return cls, errors.Unsupported(repr, cls.Reason)
		}
		return cls, errors.Unclassifiable(repr, cls.Reason)
	}
	if cls.Kind == registry.KindClass && !cls.Origin.Instanceable() {
		return cls, errors.Unsupported(repr, "class is not usable in instance checks")
	}
	if cls.Entry != nil && !cls.Bare() && !cls.Entry.CheckArity(len(cls.Args)) {
		return cls, errors.Arity(repr, cls.Entry.ArityText(), len(cls.Args))
	}
	return cls, nil
}

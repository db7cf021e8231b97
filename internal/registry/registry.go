// Package registry classifies raw type hints into the kind tags that select
// a comparison strategy and a code generation rule.
//
// Classification is a pure function of the hint's shape, consulting a static
// table keyed by typing sign. Each sign records the language level that
// introduced it; a registry built for an older target reports newer signs as
// unsupported.
package registry

import (
	"fmt"
	"sort"

	semver "github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/hintkit/internal/hint"
)

// Kind is the discriminator computed from a hint's runtime shape
type Kind int

const (
	KindUnsupported Kind = iota
	KindClass
	KindGeneric1
	KindGeneric2
	KindGeneric3
	KindTuple
	KindCallable
	KindLiteral
	KindAnnotated
	KindUnion
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindClass:
		return "class"
	case KindGeneric1:
		return "generic1"
	case KindGeneric2:
		return "generic2"
	case KindGeneric3:
		return "generic3"
	case KindTuple:
		return "tuple"
	case KindCallable:
		return "callable"
	case KindLiteral:
		return "literal"
	case KindAnnotated:
		return "annotated"
	case KindUnion:
		return "union"
	default:
		return "invalid"
	}
}

// IsGeneric reports whether k is an N-argument isinstanceable generic
func (k Kind) IsGeneric() bool {
	return k == KindGeneric1 || k == KindGeneric2 || k == KindGeneric3
}

// Unbounded marks an entry without a maximum argument count
const Unbounded = -1

// Language levels gating signs
const (
	DefaultTarget  = "3.12.0"
	BaselineLevel  = "3.7.0"
	LiteralLevel   = "3.8.0"
	AnnotatedLevel = "3.9.0"
	UnionOpLevel   = "3.10.0"
)

// Entry describes one typing sign
type Entry struct {
	Sign    hint.Sign
	Kind    Kind
	Origin  *hint.Class
	MinArgs int
	MaxArgs int
	Since   *semver.Version
}

// CheckArity reports whether n arguments are acceptable
func (e *Entry) CheckArity(n int) bool {
	if n < e.MinArgs {
		return false
	}
	return e.MaxArgs == Unbounded || n <= e.MaxArgs
}

// ArityText renders the accepted argument count for messages
func (e *Entry) ArityText() string {
	switch {
	case e.MaxArgs == Unbounded:
		return fmt.Sprintf("at least %d", e.MinArgs)
	case e.MinArgs == e.MaxArgs:
		return fmt.Sprintf("exactly %d", e.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", e.MinArgs, e.MaxArgs)
	}
}

type tableRow struct {
	sign     hint.Sign
	kind     Kind
	origin   *hint.Class
	min, max int
	since    string
}

// table is the static sign registry. Rows with KindUnsupported are typing
// attributes that are valid hints only in their bare form.
func table() []tableRow {
	return []tableRow{
		{hint.SignAny, KindUnsupported, hint.Object, 0, 0, BaselineLevel},
		{hint.SignUnion, KindUnion, nil, 1, Unbounded, BaselineLevel},
		{hint.SignOptional, KindUnion, nil, 1, 1, BaselineLevel},
		{hint.SignTuple, KindTuple, hint.TupleT, 0, Unbounded, BaselineLevel},
		{hint.SignCallable, KindCallable, hint.CallableT, 2, 2, BaselineLevel},
		{hint.SignLiteral, KindLiteral, nil, 1, Unbounded, LiteralLevel},
		{hint.SignAnnotated, KindAnnotated, nil, 2, Unbounded, AnnotatedLevel},

		{hint.SignList, KindGeneric1, hint.List, 1, 1, BaselineLevel},
		{hint.SignSet, KindGeneric1, hint.SetT, 1, 1, BaselineLevel},
		{hint.SignFrozenSet, KindGeneric1, hint.FrozenSet, 1, 1, BaselineLevel},
		{hint.SignType, KindGeneric1, hint.Type, 1, 1, BaselineLevel},
		{hint.SignSequence, KindGeneric1, hint.Sequence, 1, 1, BaselineLevel},
		{hint.SignMutableSequence, KindGeneric1, hint.MutableSequence, 1, 1, BaselineLevel},
		{hint.SignAbstractSet, KindGeneric1, hint.AbstractSet, 1, 1, BaselineLevel},
		{hint.SignMutableSet, KindGeneric1, hint.MutableSet, 1, 1, BaselineLevel},
		{hint.SignIterable, KindGeneric1, hint.Iterable, 1, 1, BaselineLevel},
		{hint.SignIterator, KindGeneric1, hint.Iterator, 1, 1, BaselineLevel},
		{hint.SignCollection, KindGeneric1, hint.Collection, 1, 1, BaselineLevel},
		{hint.SignContainer, KindGeneric1, hint.Container, 1, 1, BaselineLevel},
		{hint.SignReversible, KindGeneric1, hint.Reversible, 1, 1, BaselineLevel},

		{hint.SignDict, KindGeneric2, hint.Dict, 2, 2, BaselineLevel},
		{hint.SignMapping, KindGeneric2, hint.Mapping, 2, 2, BaselineLevel},
		{hint.SignMutableMapping, KindGeneric2, hint.MutableMapping, 2, 2, BaselineLevel},

		{hint.SignGenerator, KindGeneric3, hint.Generator, 3, 3, BaselineLevel},
		{hint.SignCoroutine, KindGeneric3, hint.Coroutine, 3, 3, BaselineLevel},
	}
}

// Registry maps typing signs to entries for one target language level
type Registry struct {
	target  *semver.Version
	unionOp *semver.Version
	entries map[hint.Sign]*Entry
}

// New creates a registry for the target language level
func New(target string) (*Registry, error) {
	tv, err := semver.NewVersion(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target version %q: %w", target, err)
	}

	r := &Registry{
		target:  tv,
		unionOp: semver.MustParse(UnionOpLevel),
		entries: make(map[hint.Sign]*Entry),
	}
	for _, row := range table() {
		r.entries[row.sign] = &Entry{
			Sign:    row.sign,
			Kind:    row.kind,
			Origin:  row.origin,
			MinArgs: row.min,
			MaxArgs: row.max,
			Since:   semver.MustParse(row.since),
		}
	}
	return r, nil
}

var defaultRegistry = mustNew(DefaultTarget)

func mustNew(target string) *Registry {
	r, err := New(target)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the registry for DefaultTarget
func Default() *Registry { return defaultRegistry }

// Target returns the target language level
func (r *Registry) Target() *semver.Version { return r.target }

// Lookup returns the entry for sign
func (r *Registry) Lookup(sign hint.Sign) (*Entry, bool) {
	e, ok := r.entries[sign]
	return e, ok
}

// Entries returns every entry ordered by sign
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sign < out[j].Sign })
	return out
}

// Classification is the result of classifying one raw hint
type Classification struct {
	Kind Kind

	// Entry is the sign entry for typing-namespace hints, nil otherwise
	Entry *Entry

	// Origin is the unparametrized runtime class when known
	Origin *hint.Class

	// Args are the subscription arguments, nil for bare hints
	Args []hint.Hint

	// Typing is set for hints importable from the typing namespace
	Typing bool

	// Bound is the hint an unsupported typing hint reduces to, if any
	Bound hint.Hint

	// Reason explains an unsupported classification
	Reason string

	// Gated is set when the target language level rejected the hint;
	// Requires then names the level that would accept it
	Gated    bool
	Requires string
}

// Bare reports whether the hint is an unsubscripted container sign
func (c Classification) Bare() bool {
	return c.Args == nil && c.Kind != KindClass && c.Kind != KindUnsupported
}

// Classify computes the kind of h. It never fails: hints no strategy
// applies to are reported as KindUnsupported with a reason.
func (r *Registry) Classify(h hint.Hint) Classification {
	switch x := h.(type) {
	case nil:
		return Classification{Kind: KindClass, Origin: hint.NoneType}

	case *hint.Class:
		return Classification{Kind: KindClass, Origin: x}

	case hint.Sign:
		e, ok := r.entries[x]
		if !ok {
			return Classification{Reason: fmt.Sprintf("unknown typing sign %d", int(x))}
		}
		c := Classification{Kind: e.Kind, Entry: e, Origin: e.Origin, Typing: true}
		switch e.Kind {
		case KindUnsupported:
			c.Reason = "bare typing attribute"
		case KindUnion, KindLiteral, KindAnnotated:
			c.Kind = KindUnsupported
			c.Reason = e.Sign.String() + " must be subscripted"
		}
		return c

	case *hint.Subscript:
		e, ok := r.entries[x.Sign]
		if !ok || e.Kind == KindUnsupported {
			return Classification{Typing: true, Reason: x.Sign.String() + " is not subscriptable"}
		}
		if r.target.LessThan(e.Since) {
			return Classification{Typing: true, Entry: e, Gated: true, Requires: e.Since.String(), Reason: "requires " + e.Since.String()}
		}
		if x.Operator && r.target.LessThan(r.unionOp) {
			return Classification{Typing: true, Entry: e, Gated: true, Requires: r.unionOp.String(), Reason: "requires " + r.unionOp.String()}
		}
		return Classification{Kind: e.Kind, Entry: e, Origin: e.Origin, Args: x.Args, Typing: true}

	case *hint.TypeVar:
		c := Classification{Typing: true, Reason: "type variable", Bound: x.Bound}
		if x.Bound == nil {
			c.Origin = hint.Object
		}
		return c
	}

	return Classification{Reason: fmt.Sprintf("%T is not a type hint", h)}
}

// Classify classifies h against the default registry
func Classify(h hint.Hint) Classification {
	return defaultRegistry.Classify(h)
}

// IsVersionGated reports whether an unsupported classification was caused by
// the target language level
func (c Classification) IsVersionGated() bool {
	return c.Gated
}

// Ignorable reports whether the hint constrains nothing: Any, object or an
// unbounded type variable
func (c Classification) Ignorable() bool {
	if c.Origin != hint.Object {
		return false
	}
	return c.Kind == KindClass || (c.Kind == KindUnsupported && c.Typing)
}

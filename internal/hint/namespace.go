package hint

import (
	"sort"
	"sync"
)

// Namespace resolves names appearing in textual hints.
type Namespace struct {
	mu    sync.RWMutex
	names map[string]Hint
}

// classSigns maps subscriptable classes to the sign their subscription
// produces, so list[int] and collections.abc.Sequence[int] mean List[int]
// and Sequence[int].
var classSigns map[*Class]Sign

// signClasses is the inverse of classSigns for signs that have a class.
var signClasses map[Sign]*Class

func init() {
	classSigns = map[*Class]Sign{
		List:            SignList,
		Dict:            SignDict,
		SetT:            SignSet,
		FrozenSet:       SignFrozenSet,
		TupleT:          SignTuple,
		Type:            SignType,
		Sequence:        SignSequence,
		MutableSequence: SignMutableSequence,
		Mapping:         SignMapping,
		MutableMapping:  SignMutableMapping,
		AbstractSet:     SignAbstractSet,
		MutableSet:      SignMutableSet,
		Iterable:        SignIterable,
		Iterator:        SignIterator,
		Collection:      SignCollection,
		Container:       SignContainer,
		Reversible:      SignReversible,
		Generator:       SignGenerator,
		Coroutine:       SignCoroutine,
		CallableT:       SignCallable,
	}
	signClasses = make(map[Sign]*Class, len(classSigns))
	for c, s := range classSigns {
		signClasses[s] = c
	}
}

// SignOfClass returns the sign a subscription of c produces.
func SignOfClass(c *Class) (Sign, bool) {
	s, ok := classSigns[c]
	return s, ok
}

// ClassOfSign returns the runtime class behind a container sign.
func ClassOfSign(s Sign) (*Class, bool) {
	c, ok := signClasses[s]
	return c, ok
}

// NewNamespace creates a namespace preloaded with builtins, the typing
// module and collections.abc.
func NewNamespace() *Namespace {
	ns := &Namespace{names: make(map[string]Hint)}

	for _, c := range Builtins() {
		switch c.Module {
		case ModuleBuiltins:
			ns.names[c.Name] = c
			ns.names[ModuleBuiltins+"."+c.Name] = c
		case ModuleABC:
			ns.names[ModuleABC+"."+c.Name] = c
		}
	}
	for _, s := range Signs() {
		ns.names[s.String()] = s
		ns.names[ModuleTyping+"."+s.String()] = s
	}

	return ns
}

var (
	defaultNamespace     *Namespace
	defaultNamespaceOnce sync.Once
)

// DefaultNamespace returns the process-wide namespace used by Parse.
func DefaultNamespace() *Namespace {
	defaultNamespaceOnce.Do(func() {
		defaultNamespace = NewNamespace()
	})
	return defaultNamespace
}

// Define binds name to h, replacing any previous binding.
func (ns *Namespace) Define(name string, h Hint) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.names[name] = h
}

// DefineClass binds the class under its qualified name and, when the module
// is empty or builtins, its bare name.
func (ns *Namespace) DefineClass(c *Class) {
	ns.Define(c.QualName(), c)
	if c.Module != "" {
		ns.Define(c.Module+"."+c.Name, c)
	}
}

// Lookup resolves name.
func (ns *Namespace) Lookup(name string) (Hint, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	h, ok := ns.names[name]
	return h, ok
}

// Names returns every bound name, sorted.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	out := make([]string, 0, len(ns.names))
	for n := range ns.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

package hint

import (
	"sync"
)

// Module names used for builtin classes.
const (
	ModuleBuiltins = "builtins"
	ModuleABC      = "collections.abc"
	ModuleTyping   = "typing"
)

// Class is a runtime class: the thing instance checks are performed against.
// Classes form a multiple-inheritance hierarchy through Bases.
type Class struct {
	Module string
	Name   string
	Bases  []*Class

	// opaque classes cannot be used in instance checks
	opaque bool

	mroOnce sync.Once
	mro     []*Class
}

// NewClass creates a class deriving from bases, or from object when no base
// is given.
func NewClass(module, name string, bases ...*Class) *Class {
	if len(bases) == 0 && Object != nil {
		bases = []*Class{Object}
	}

	return &Class{Module: module, Name: name, Bases: bases}
}

// NewOpaqueClass creates a class that cannot be used in instance checks.
// Hints reducing to such a class degrade to identity comparison.
func NewOpaqueClass(module, name string) *Class {
	c := NewClass(module, name)
	c.opaque = true

	return c
}

// QualName returns the module-qualified name, without a module for builtins.
func (c *Class) QualName() string {
	if c == nil {
		return "<nil>"
	}
	if c.Module == ModuleBuiltins || c.Module == "" {
		return c.Name
	}

	return c.Module + "." + c.Name
}

func (c *Class) String() string { return c.QualName() }

// Instanceable reports whether the class may appear in an instance check.
func (c *Class) Instanceable() bool {
	return c != nil && !c.opaque
}

// MRO returns the linearized ancestors of c, c first. Duplicates reached
// through diamond inheritance appear once, at their first position.
func (c *Class) MRO() []*Class {
	if c == nil {
		return nil
	}

	c.mroOnce.Do(func() {
		seen := make(map[*Class]bool)
		var walk func(k *Class)
		walk = func(k *Class) {
			if seen[k] {
				return
			}
			seen[k] = true
			c.mro = append(c.mro, k)
			for _, b := range k.Bases {
				walk(b)
			}
		}
		walk(c)
	})

	return c.mro
}

// IsSubclass reports whether c is other or derives from it.
func (c *Class) IsSubclass(other *Class) bool {
	if c == nil || other == nil {
		return false
	}
	if c == other || other == Object {
		return true
	}

	for _, k := range c.MRO() {
		if k == other {
			return true
		}
	}

	return false
}

// ====== Builtin classes ======

var (
	Object *Class

	Hashable   *Class
	Iterable   *Class
	Container  *Class
	Sized      *Class
	Awaitable  *Class
	CallableT  *Class
	Collection *Class
	Reversible *Class

	Sequence        *Class
	MutableSequence *Class
	AbstractSet     *Class
	MutableSet      *Class
	Mapping         *Class
	MutableMapping  *Class
	Iterator        *Class
	Generator       *Class
	Coroutine       *Class

	Int       *Class
	Bool      *Class
	Float     *Class
	Complex   *Class
	Str       *Class
	Bytes     *Class
	List      *Class
	TupleT    *Class
	Dict      *Class
	SetT      *Class
	FrozenSet *Class
	Type      *Class
	NoneType  *Class
	Function  *Class
)

func init() {
	Object = &Class{Module: ModuleBuiltins, Name: "object"}

	abc := func(name string, bases ...*Class) *Class { return NewClass(ModuleABC, name, bases...) }
	Hashable = abc("Hashable")
	Iterable = abc("Iterable")
	Container = abc("Container")
	Sized = abc("Sized")
	Awaitable = abc("Awaitable")
	CallableT = abc("Callable")
	Collection = abc("Collection", Sized, Iterable, Container)
	Reversible = abc("Reversible", Iterable)
	Sequence = abc("Sequence", Reversible, Collection)
	MutableSequence = abc("MutableSequence", Sequence)
	AbstractSet = abc("Set", Collection)
	MutableSet = abc("MutableSet", AbstractSet)
	Mapping = abc("Mapping", Collection)
	MutableMapping = abc("MutableMapping", Mapping)
	Iterator = abc("Iterator", Iterable)
	Generator = abc("Generator", Iterator)
	Coroutine = abc("Coroutine", Awaitable)

	builtin := func(name string, bases ...*Class) *Class { return NewClass(ModuleBuiltins, name, bases...) }
	Int = builtin("int", Hashable)
	Bool = builtin("bool", Int)
	Float = builtin("float", Hashable)
	Complex = builtin("complex", Hashable)
	Str = builtin("str", Sequence, Hashable)
	Bytes = builtin("bytes", Sequence, Hashable)
	List = builtin("list", MutableSequence)
	TupleT = builtin("tuple", Sequence, Hashable)
	Dict = builtin("dict", MutableMapping)
	SetT = builtin("set", MutableSet)
	FrozenSet = builtin("frozenset", AbstractSet, Hashable)
	Type = builtin("type", CallableT, Hashable)
	NoneType = builtin("NoneType", Hashable)
	Function = builtin("function", CallableT, Hashable)
}

// Builtins returns every predefined class.
func Builtins() []*Class {
	return []*Class{
		Object, Hashable, Iterable, Container, Sized, Awaitable, CallableT,
		Collection, Reversible, Sequence, MutableSequence, AbstractSet,
		MutableSet, Mapping, MutableMapping, Iterator, Generator, Coroutine,
		Int, Bool, Float, Complex, Str, Bytes, List, TupleT, Dict, SetT,
		FrozenSet, Type, NoneType, Function,
	}
}

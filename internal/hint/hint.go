// Package hint models raw type hints as supplied by callers: runtime classes,
// typing signs, subscriptions of signs, type variables and the few marker
// values (Ellipsis, parameter lists) that only appear as subscription
// arguments.
//
// A raw hint is any Go value. Most are built from the types in this package;
// nil stands for the None hint, and arbitrary values appear as Literal
// members or Annotated metadata. Interpreting a raw hint is the job of the
// registry package.
package hint

import (
	"fmt"
	"strings"
)

// Hint is a raw, non-normalized type hint.
type Hint = any

// Sign identifies a typing-namespace constructor such as List or Union.
// A bare Sign is itself a valid hint (the unsubscripted attribute).
type Sign int

const (
	SignInvalid Sign = iota
	SignAny
	SignUnion
	SignOptional
	SignTuple
	SignCallable
	SignLiteral
	SignAnnotated
	SignList
	SignDict
	SignSet
	SignFrozenSet
	SignType
	SignSequence
	SignMutableSequence
	SignMapping
	SignMutableMapping
	SignAbstractSet
	SignMutableSet
	SignIterable
	SignIterator
	SignCollection
	SignContainer
	SignReversible
	SignGenerator
	SignCoroutine
)

var signNames = map[Sign]string{
	SignAny:             "Any",
	SignUnion:           "Union",
	SignOptional:        "Optional",
	SignTuple:           "Tuple",
	SignCallable:        "Callable",
	SignLiteral:         "Literal",
	SignAnnotated:       "Annotated",
	SignList:            "List",
	SignDict:            "Dict",
	SignSet:             "Set",
	SignFrozenSet:       "FrozenSet",
	SignType:            "Type",
	SignSequence:        "Sequence",
	SignMutableSequence: "MutableSequence",
	SignMapping:         "Mapping",
	SignMutableMapping:  "MutableMapping",
	SignAbstractSet:     "AbstractSet",
	SignMutableSet:      "MutableSet",
	SignIterable:        "Iterable",
	SignIterator:        "Iterator",
	SignCollection:      "Collection",
	SignContainer:       "Container",
	SignReversible:      "Reversible",
	SignGenerator:       "Generator",
	SignCoroutine:       "Coroutine",
}

// String returns the typing attribute name of the sign
func (s Sign) String() string {
	if name, ok := signNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sign(%d)", int(s))
}

// Signs returns every valid sign.
func Signs() []Sign {
	out := make([]Sign, 0, len(signNames))
	for s := SignAny; s <= SignCoroutine; s++ {
		out = append(out, s)
	}
	return out
}

// Subscript is a sign subscripted by arguments, e.g. List[int].
// Operator marks a union spelled with the | operator.
type Subscript struct {
	Sign     Sign
	Args     []Hint
	Operator bool
}

// EllipsisType is the type of the ... marker.
type EllipsisType struct{}

// Ellipsis marks variadic tuples and any-parameter callables.
var Ellipsis = EllipsisType{}

func (EllipsisType) String() string { return "..." }

// Params is the bracketed parameter list of a Callable hint.
type Params []Hint

// TypeVar is a type variable, optionally bounded.
type TypeVar struct {
	Name  string
	Bound Hint
}

// NewTypeVar creates a type variable. A nil bound leaves it unbounded.
func NewTypeVar(name string, bound Hint) *TypeVar {
	return &TypeVar{Name: name, Bound: bound}
}

// ====== Constructors ======

// Of subscripts sign with args.
func Of(sign Sign, args ...Hint) *Subscript {
	if args == nil {
		args = []Hint{}
	}
	return &Subscript{Sign: sign, Args: args}
}

func ListOf(h Hint) *Subscript { return Of(SignList, h) }
func SequenceOf(h Hint) *Subscript { return Of(SignSequence, h) }
func DictOf(k, v Hint) *Subscript { return Of(SignDict, k, v) }
func MappingOf(k, v Hint) *Subscript { return Of(SignMapping, k, v) }
func Union(hs ...Hint) *Subscript { return Of(SignUnion, hs...) }
func Optional(h Hint) *Subscript { return Of(SignOptional, h) }
func Tuple(hs ...Hint) *Subscript { return Of(SignTuple, hs...) }
func EmptyTuple() *Subscript { return Of(SignTuple) }
func VarTuple(h Hint) *Subscript { return Of(SignTuple, h, Ellipsis) }
func Literal(values ...any) *Subscript { return Of(SignLiteral, values...) }
func CallableAny(ret Hint) *Subscript { return Of(SignCallable, Ellipsis, ret) }
func Annotated(h Hint, meta ...any) *Subscript {
	return Of(SignAnnotated, append([]Hint{h}, meta...)...)
}

// Callable builds Callable[[params...], ret].
func Callable(params []Hint, ret Hint) *Subscript {
	return Of(SignCallable, Params(params), ret)
}

// UnionOp builds a union spelled with the | operator.
func UnionOp(hs ...Hint) *Subscript {
	s := Of(SignUnion, hs...)
	s.Operator = true
	return s
}

// ====== Representation ======

// Repr renders a hint in typing syntax.
func Repr(h Hint) string {
	var b strings.Builder
	writeRepr(&b, h, false)
	return b.String()
}

// Key renders a hint into a string that identifies it: two hints with the
// same key are the same hint. Unlike Repr, classes are always
// module-qualified, user classes also carry their identity, and opaque
// values carry their dynamic type.
func Key(h Hint) string {
	var b strings.Builder
	writeRepr(&b, h, true)
	return b.String()
}

func writeRepr(b *strings.Builder, h Hint, key bool) {
	switch x := h.(type) {
	case nil:
		b.WriteString("None")
	case *Class:
		if key {
			b.WriteString(x.Module + "." + x.Name)
			if x.Module != ModuleBuiltins && x.Module != ModuleABC {
				fmt.Fprintf(b, "@%p", x)
			}
		} else {
			b.WriteString(x.QualName())
		}
	case Sign:
		b.WriteString(x.String())
	case *Subscript:
		if x.Operator && x.Sign == SignUnion {
			for i, a := range x.Args {
				if i > 0 {
					b.WriteString(" | ")
				}
				writeRepr(b, a, key)
			}
			return
		}
		b.WriteString(x.Sign.String())
		b.WriteByte('[')
		if len(x.Args) == 0 {
			b.WriteString("()")
		}
		literal := x.Sign == SignLiteral
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if literal || (x.Sign == SignAnnotated && i > 0) {
				b.WriteString(valueRepr(a, key))
				continue
			}
			writeRepr(b, a, key)
		}
		b.WriteByte(']')
	case EllipsisType:
		b.WriteString("...")
	case Params:
		b.WriteByte('[')
		for i, a := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, a, key)
		}
		b.WriteByte(']')
	case *TypeVar:
		b.WriteString("~" + x.Name)
		if key && x.Bound != nil {
			b.WriteByte('<')
			writeRepr(b, x.Bound, key)
			b.WriteByte('>')
		}
	case fmt.Stringer:
		if key {
			fmt.Fprintf(b, "%T(%s)", x, x.String())
		} else {
			b.WriteString(x.String())
		}
	default:
		b.WriteString(valueRepr(h, key))
	}
}

// ValueRepr renders a literal value the way it is spelled inside a hint.
func ValueRepr(v any) string { return valueRepr(v, false) }

func valueRepr(v any, key bool) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return fmt.Sprintf("%q", x)
	case []byte:
		return fmt.Sprintf("b%q", string(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32, float64:
		return formatFloat(x)
	}
	if key {
		return fmt.Sprintf("%T(%#v)", v, v)
	}
	return fmt.Sprintf("%v", v)
}

func formatFloat(f any) string {
	s := fmt.Sprintf("%v", f)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Package value defines the runtime values generated checks inspect and
// maps each of them to its runtime class.
//
// Go values stand in for runtime objects: integers are int, floats float64,
// strings str, []any list, Tuple tuple, maps dict, Set set, functions
// function, *Object instances of user classes and *hint.Class type objects.
package value

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/orizon-lang/hintkit/internal/hint"
)

// Tuple is an immutable sequence value.
type Tuple []any

// Set is an unordered collection value keyed by the element's key string.
type Set map[string]any

// FrozenSet is an immutable Set.
type FrozenSet map[string]any

// Object is an instance of a user class. Attrs are informational only.
type Object struct {
	Class *hint.Class
	Attrs map[string]any
}

// NewObject creates an instance of c.
func NewObject(c *hint.Class) *Object {
	return &Object{Class: c, Attrs: map[string]any{}}
}

// Func is a callable value.
type Func func(args ...any) any

// NewSet builds a set from items.
func NewSet(items ...any) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[hint.Key(Normalize(it))] = Normalize(it)
	}
	return s
}

// ClassOf returns the runtime class of v.
func ClassOf(v any) *hint.Class {
	switch x := v.(type) {
	case nil:
		return hint.NoneType
	case bool:
		return hint.Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return hint.Int
	case float32, float64:
		return hint.Float
	case complex64, complex128:
		return hint.Complex
	case string:
		return hint.Str
	case []byte:
		return hint.Bytes
	case []any:
		return hint.List
	case Tuple:
		return hint.TupleT
	case map[string]any, map[any]any:
		return hint.Dict
	case Set:
		return hint.SetT
	case FrozenSet:
		return hint.FrozenSet
	case *Object:
		if x.Class == nil {
			return hint.Object
		}
		return x.Class
	case *hint.Class:
		return hint.Type
	case Func:
		return hint.Function
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		return hint.Function
	}
	return hint.Object
}

// IsInstance reports whether v is an instance of c.
func IsInstance(v any, c *hint.Class) bool {
	return ClassOf(v).IsSubclass(c)
}

// Normalize folds Go numeric widths onto int, float64 and complex128 so that
// equal runtime values compare equal.
func Normalize(v any) any {
	switch x := v.(type) {
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	case float32:
		return float64(x)
	case complex64:
		return complex128(x)
	}
	return v
}

// Equaler is implemented by values carrying their own equality.
type Equaler interface {
	Equal(other any) bool
}

// Equal compares two values by value. A panic raised by a caller-supplied
// Equal method, or by comparing uncomparable values, reports not equal.
func Equal(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()

	a, b = Normalize(a), Normalize(b)
	if e, ok := a.(Equaler); ok {
		return e.Equal(b)
	}

	switch x := a.(type) {
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case []any:
		y, ok := b.([]any)
		return ok && equalSlices(x, y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalSlices(x, y)
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return a == b
}

func equalSlices(x, y []any) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}

// Len returns the length of a sized value.
func Len(v any) (int, error) {
	switch x := v.(type) {
	case string:
		return len([]rune(x)), nil
	case []byte:
		return len(x), nil
	case []any:
		return len(x), nil
	case Tuple:
		return len(x), nil
	case map[string]any:
		return len(x), nil
	case map[any]any:
		return len(x), nil
	case Set:
		return len(x), nil
	case FrozenSet:
		return len(x), nil
	}
	return 0, fmt.Errorf("object of type %s has no len()", ClassOf(v))
}

// Index returns v[i] for indexable sequences.
func Index(v any, i int) (any, error) {
	n, err := Len(v)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%s index %d out of range", ClassOf(v), i)
	}

	switch x := v.(type) {
	case string:
		return string([]rune(x)[i]), nil
	case []byte:
		return int(x[i]), nil
	case []any:
		return x[i], nil
	case Tuple:
		return x[i], nil
	}
	return nil, fmt.Errorf("%s object is not subscriptable", ClassOf(v))
}

// Repr renders a value for messages.
func Repr(v any) string {
	switch x := v.(type) {
	case *Object:
		return fmt.Sprintf("<%s object>", x.Class)
	case *hint.Class:
		return fmt.Sprintf("<class %s>", x.QualName())
	case []any:
		return reprSeq("[", x, "]")
	case Tuple:
		if len(x) == 1 {
			return "(" + Repr(x[0]) + ",)"
		}
		return reprSeq("(", x, ")")
	case Func:
		return "<function>"
	}
	return hint.ValueRepr(v)
}

func reprSeq(open string, items []any, close string) string {
	var buf bytes.Buffer
	buf.WriteString(open)
	for i, it := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(Repr(it))
	}
	buf.WriteString(close)
	return buf.String()
}

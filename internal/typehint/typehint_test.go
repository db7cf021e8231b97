package typehint

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/orizon-lang/hintkit/internal/cli"
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
)

func wrap(t *testing.T, h hint.Hint) *TypeHint {
	t.Helper()
	th, err := Wrap(h)
	if err != nil {
		t.Fatalf("Wrap(%s): %v", hint.Repr(h), err)
	}
	return th
}

func parse(t *testing.T, src string) *TypeHint {
	t.Helper()
	h, err := hint.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return wrap(t, h)
}

func TestSubtypeScenarios(t *testing.T) {
	tests := []struct {
		sub, super string
		want       bool
	}{
		// numeric tower runs upward only
		{"int", "float", true},
		{"float", "int", false},
		{"bool", "float", true},
		{"float", "complex", true},
		{"complex", "float", false},

		{"List[int]", "Sequence[int]", true},
		{"Sequence[int]", "List[int]", false},
		{"List[int]", "list", true},
		{"list", "List[int]", false},
		{"List[bool]", "Sequence[float]", true},
		{"Dict[str, int]", "Mapping[str, float]", true},
		{"Dict[str, int]", "Mapping[int, int]", false},

		{"Tuple[int, str]", "Tuple[Union[int, str], ...]", true},
		{"Tuple[Union[int, str], ...]", "Tuple[int, str]", false},
		{"Tuple[int, ...]", "Tuple[int]", false},
		{"Tuple[int]", "Tuple[int, ...]", true},
		{"Tuple[int, int]", "Tuple[int]", false},
		{"Tuple[()]", "Tuple[()]", true},
		{"Tuple[()]", "tuple", true},
		{"Tuple[()]", "Tuple[int, ...]", false},
		{"Tuple[int, ...]", "Tuple[()]", false},
		{"Tuple[int, ...]", "Tuple[float, ...]", true},
		{"Tuple[int, str]", "Sequence", true},

		// parameters are contravariant: the wider parameter type makes the subhint (DESIGN.md decision 1)
		{"Callable[[Sequence], int]", "Callable[[list], int]", true},
		{"Callable[[list], int]", "Callable[[Sequence], int]", false},
		{"Callable[[float, Sequence[str]], int]", "Callable[[int, List[str]], int]", true},
		{"Callable[[int], int]", "Callable[..., int]", true},
		{"Callable[..., int]", "Callable[[int], int]", false},
		{"Callable[[int], bool]", "Callable[[int], int]", true},
		{"Callable[[int], int]", "Callable[[int], bool]", false},
		{"Callable[[int], int]", "Callable[[int], Any]", true},
		{"Callable[[int], int]", "Callable[[int, int], int]", false},

		// a bare sign accepts every parametrization of its kind
		{"Callable", "Callable[..., bool]", false},
		{"Callable[..., bool]", "Callable", true},
		{"Callable", "Callable[[], Any]", false},
		{"Callable[[], Any]", "Callable", true},
		{"Callable", "Callable[..., Any]", true},
		{"Callable[..., Any]", "Callable", true},
		{"Tuple", "Tuple[int, ...]", false},
		{"Tuple[int, ...]", "Tuple", true},
		{"tuple", "Tuple[int, ...]", false},
		{"Tuple", "Tuple[()]", false},
		{"Tuple", "Tuple[Any, ...]", true},
		{"List", "List[int]", false},

		{"Union[int, str]", "Union[str, int, list]", true},
		{"Union[int, str, list]", "Union[int, str]", false},
		{"int", "Optional[int]", true},
		{"None", "Optional[int]", true},
		{"Optional[int]", "int", false},

		{"Literal[1, 2]", "Literal[2, 1, 3]", true},
		{"Literal[1, 3]", "Literal[1, 2]", false},
		{"Literal[1]", "int", true},
		{"Literal[1]", "float", true},
		{"Literal['a']", "int", false},
		{"Literal[1, 'a']", "Union[int, str]", true},
		{"Literal[True]", "Literal[1]", false},

		{"Annotated[int, 'm']", "int", true},
		{"int", "Annotated[int, 'm']", false},
		{"Annotated[int, 'm']", "Annotated[float, 'm']", true},
		{"Annotated[int, 'm']", "Annotated[int, 'n']", false},
		{"Annotated[int, 'm']", "Annotated[int, 'm', 'n']", false},
		{"Annotated[Union[int, str], 'm']", "Union[int, str]", true},

		{"int", "Any", true},
		{"Any", "int", false},
		{"Any", "object", true},
		{"List[int]", "List[Any]", true},
		{"List[Any]", "List[int]", false},
	}

	for _, tt := range tests {
		t.Run(tt.sub+" <= "+tt.super, func(t *testing.T) {
			sub, super := parse(t, tt.sub), parse(t, tt.super)
			if got := sub.IsSubtype(super); got != tt.want {
				t.Errorf("%s <= %s = %v, want %v", tt.sub, tt.super, got, tt.want)
			}
			if got := super.IsSupertype(sub); got != tt.want {
				t.Errorf("%s >= %s = %v, want %v", tt.super, tt.sub, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"List[Any]", "list", true},
		{"List", "list", true},
		{"Any", "object", true},
		{"Tuple[Any, ...]", "tuple", true},
		{"Callable[..., Any]", "collections.abc.Callable", true},
		{"Union[int, bool]", "int", true},
		{"Union[int, str]", "Union[str, int]", true},
		{"Union[int, float]", "float", true},
		{"Union[Literal[1], Literal[2]]", "Literal[2, 1]", true},
		{"Union[Literal[1, 'a'], int]", "Union[Literal['a'], int]", true},
		{"Literal[1, 1, 2]", "Literal[1, 2]", true},
		{"Optional[int]", "Union[None, int]", true},
		{"Union[int, Any]", "Any", true},
		{"Annotated[Annotated[int, 'a'], 'b']", "Annotated[int, 'a', 'b']", true},
		{"Tuple[int]", "Tuple[int, ...]", false},
		{"List[int]", "List", false},
		{"Annotated[int, 'm']", "int", false},
		{"Callable[..., int]", "Callable[[], int]", false},
		{"Callable", "Callable[..., Any]", true},
		{"Callable", "Callable[[], Any]", false},
		{"Tuple", "Tuple[Any, ...]", true},
		{"Tuple", "Tuple[int, ...]", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" == "+tt.b, func(t *testing.T) {
			a, b := parse(t, tt.a), parse(t, tt.b)
			if got := a.Equal(b); got != tt.want {
				t.Errorf("%s == %s = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := b.Equal(a); got != tt.want {
				t.Errorf("%s == %s = %v, want %v", tt.b, tt.a, got, tt.want)
			}
			if got := a.Ne(b); got == tt.want {
				t.Errorf("%s != %s = %v", tt.a, tt.b, got)
			}
		})
	}
}

func TestComparisonOperators(t *testing.T) {
	i, f := parse(t, "int"), parse(t, "float")

	if !i.Lt(f) || !i.Le(f) || i.Gt(f) || i.Ge(f) {
		t.Error("int must be strictly below float")
	}
	if !f.Gt(i) || !f.Ge(i) {
		t.Error("float must be strictly above int")
	}
	if i.Lt(i) || !i.Le(i) || i.Gt(i) {
		t.Error("int must not be strictly related to itself")
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		a, b string
		want Ordering
	}{
		{"int", "float", OrderLess},
		{"float", "int", OrderGreater},
		{"List[int]", "List[Any]", OrderLess},
		{"Union[str, int]", "Union[int, str]", OrderEqual},
		{"int", "str", OrderIncomparable},
	}

	for _, tt := range tests {
		got, err := parse(t, tt.a).Order(parse(t, tt.b))
		if err != nil {
			t.Fatalf("Order(%s, %s): %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("Order(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	_, err := parse(t, "int").Order(42)
	if !stderrors.Is(err, errors.ErrIncomparable) {
		t.Errorf("Order with a non-hint operand error = %v, want INCOMPARABLE", err)
	}
	_, err = parse(t, "int").Order(hint.Int)
	if !stderrors.Is(err, errors.ErrIncomparable) {
		t.Errorf("Order with a raw hint error = %v, want INCOMPARABLE", err)
	}
}

func TestShape(t *testing.T) {
	t.Run("Tuple", func(t *testing.T) {
		v := parse(t, "Tuple[int, ...]")
		if !v.IsVariadic() || v.Len() != 1 || v.Kind() != registry.KindTuple {
			t.Errorf("variadic tuple shape: variadic=%v len=%d kind=%v", v.IsVariadic(), v.Len(), v.Kind())
		}
		if len(v.Args()) != 1 {
			t.Errorf("... must be stripped from args, got %d args", len(v.Args()))
		}
		if e := parse(t, "Tuple[()]"); !e.IsEmptyTuple() || e.IsJustOrigin() {
			t.Error("Tuple[()] must be an empty, non-origin tuple")
		}
	})

	t.Run("Callable", func(t *testing.T) {
		c := parse(t, "Callable[[int, str], bool]")
		if len(c.Params()) != 2 || c.Return() != parse(t, "bool") {
			t.Errorf("callable params=%d return=%v", len(c.Params()), c.Return())
		}
		if !parse(t, "Callable[..., int]").AcceptsAnyArgs() {
			t.Error("Callable[..., int] accepts any arguments")
		}
		bare := parse(t, "Callable")
		if !bare.AcceptsAnyArgs() || bare.Return() != nil || len(bare.Params()) != 0 {
			t.Errorf("bare Callable: anyArgs=%v return=%v params=%d", bare.AcceptsAnyArgs(), bare.Return(), len(bare.Params()))
		}
	})

	t.Run("Literal", func(t *testing.T) {
		l := parse(t, "Literal[1, 'a', 1]")
		if l.Len() != 0 {
			t.Error("literal values must not be wrapped as children")
		}
		if len(l.Values()) != 2 {
			t.Errorf("Values() = %v, want two distinct values", l.Values())
		}
	})

	t.Run("Annotated", func(t *testing.T) {
		a := parse(t, "Annotated[List[int], 'x', 'y']")
		if a.Origin() != hint.List || len(a.Metadata()) != 2 {
			t.Errorf("annotated origin=%v metadata=%v", a.Origin(), a.Metadata())
		}
	})

	t.Run("TypeVar", func(t *testing.T) {
		bounded := wrap(t, hint.NewTypeVar("N", hint.Int))
		if bounded != wrap(t, hint.Int) {
			t.Error("a bounded type variable wraps to its bound")
		}
		if !wrap(t, hint.NewTypeVar("T", nil)).IsIgnorable() {
			t.Error("an unbounded type variable is ignorable")
		}
		if !parse(t, "List[int]").IsSubtype(wrap(t, hint.ListOf(hint.NewTypeVar("T", nil)))) {
			t.Error("List[int] <= List[T]")
		}
	})

	t.Run("JustOrigin", func(t *testing.T) {
		for _, src := range []string{"int", "List", "List[Any]", "Dict[Any, object]", "Tuple", "Callable"} {
			if !parse(t, src).IsJustOrigin() {
				t.Errorf("%s should be just an origin", src)
			}
		}
		for _, src := range []string{"List[int]", "Tuple[()]", "Literal[1]", "Union[int, str]"} {
			if parse(t, src).IsJustOrigin() {
				t.Errorf("%s should not be just an origin", src)
			}
		}
	})
}

func TestWrapErrors(t *testing.T) {
	c := NewCache(nil, nil)
	tests := []struct {
		name string
		hint hint.Hint
		want error
	}{
		{"integer", 42, errors.ErrClassification},
		{"ellipsis", hint.Ellipsis, errors.ErrClassification},
		{"bare union", hint.SignUnion, errors.ErrUnsupported},
		{"list arity", hint.Of(hint.SignList, hint.Int, hint.Str), errors.ErrArity},
		{"dict arity", hint.Of(hint.SignDict, hint.Int), errors.ErrArity},
		{"generator arity", hint.Of(hint.SignGenerator, hint.Int), errors.ErrArity},
		{"empty union", hint.Union(), errors.ErrArity},
		{"misplaced ellipsis", hint.Tuple(hint.Ellipsis, hint.Int), errors.ErrUnsupported},
		{"callable params", hint.Of(hint.SignCallable, hint.Int, hint.Int), errors.ErrUnsupported},
		{"nested bad child", hint.ListOf(hint.ListOf(42)), errors.ErrClassification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Wrap(tt.hint)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("Wrap(%s) error = %v, want %v", hint.Repr(tt.hint), err, tt.want)
			}
		})
	}
}

func TestVersionGatedWrap(t *testing.T) {
	reg, err := registry.New("3.8.0")
	if err != nil {
		t.Fatal(err)
	}
	c := NewCache(reg, nil)

	_, err = c.Wrap(hint.Annotated(hint.Int, "m"))
	if !stderrors.Is(err, errors.ErrVersion) {
		t.Fatalf("error = %v, want UNSUPPORTED_VERSION", err)
	}
	if !strings.Contains(err.Error(), "3.9.0") {
		t.Errorf("error %q should name the required level", err)
	}
	if _, err := c.Wrap(hint.Literal(1)); err != nil {
		t.Errorf("Literal is available on 3.8: %v", err)
	}
}

func TestDegenerateOriginWarning(t *testing.T) {
	var buf bytes.Buffer
	c := NewCache(nil, cli.NewLoggerTo(&buf, false, false))
	opaque := hint.NewOpaqueClass("ext", "Proxy")

	th, err := c.Wrap(hint.ListOf(opaque))
	if err != nil {
		t.Fatalf("degenerate origins must not fail wrapping: %v", err)
	}
	if !th.Children()[0].IsDegenerate() {
		t.Error("child should be marked degenerate")
	}
	if !strings.Contains(buf.String(), "ext.Proxy") {
		t.Errorf("missing warning, log = %q", buf.String())
	}

	before := strings.Count(buf.String(), "[WARN]")
	if _, err := c.Wrap(opaque); err != nil {
		t.Fatal(err)
	}
	if after := strings.Count(buf.String(), "[WARN]"); after != before {
		t.Error("warning must be emitted once per construction, not per wrap")
	}

	own, _ := c.Wrap(opaque)
	obj, _ := c.Wrap(hint.Object)
	if !own.IsSubtype(obj) || obj.IsSubtype(own) {
		t.Error("degenerate classes still compare below object")
	}
}

func TestUnionSinglePredicatePanics(t *testing.T) {
	u := parse(t, "Union[int, str]")
	defer func() {
		if recover() == nil {
			t.Error("single-branch comparison on a union must panic")
		}
	}()
	u.strategy.branchLe(u, parse(t, "int"))
}

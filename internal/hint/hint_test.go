package hint

import (
	"testing"
)

func TestClassSubclass(t *testing.T) {
	tests := []struct {
		name  string
		sub   *Class
		super *Class
		want  bool
	}{
		{"reflexive", Int, Int, true},
		{"everything is an object", Dict, Object, true},
		{"bool is an int", Bool, Int, true},
		{"int is not a bool", Int, Bool, false},
		{"list is a sequence", List, Sequence, true},
		{"list is a collection", List, Collection, true},
		{"tuple is a sequence", TupleT, Sequence, true},
		{"tuple is not mutable", TupleT, MutableSequence, false},
		{"dict is a mapping", Dict, Mapping, true},
		{"str is iterable", Str, Iterable, true},
		{"frozenset is not mutable", FrozenSet, MutableSet, false},
		{"function is callable", Function, CallableT, true},
		{"int is not float", Int, Float, false},
		{"nil never subclasses", nil, Object, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.IsSubclass(tt.super); got != tt.want {
				t.Errorf("%v.IsSubclass(%v) = %v, want %v", tt.sub, tt.super, got, tt.want)
			}
		})
	}
}

func TestClassMRO(t *testing.T) {
	base := NewClass("app", "Base")
	left := NewClass("app", "Left", base)
	right := NewClass("app", "Right", base)
	diamond := NewClass("app", "Diamond", left, right)

	mro := diamond.MRO()
	seen := map[*Class]int{}
	for _, c := range mro {
		seen[c]++
	}
	if seen[base] != 1 || seen[Object] != 1 {
		t.Errorf("diamond ancestors repeated: %v", mro)
	}
	if mro[0] != diamond {
		t.Errorf("MRO must start with the class itself, got %v", mro[0])
	}
	if !diamond.IsSubclass(base) {
		t.Error("diamond should subclass its shared base")
	}
}

func TestOpaqueClass(t *testing.T) {
	c := NewOpaqueClass("app", "Proxy")
	if c.Instanceable() {
		t.Error("opaque class must not be instanceable")
	}
	if !Int.Instanceable() {
		t.Error("int must be instanceable")
	}
}

func TestRepr(t *testing.T) {
	user := NewClass("app.models", "User")
	tests := []struct {
		hint Hint
		want string
	}{
		{Int, "int"},
		{nil, "None"},
		{SignAny, "Any"},
		{ListOf(Int), "List[int]"},
		{DictOf(Str, ListOf(user)), "Dict[str, List[app.models.User]]"},
		{VarTuple(Int), "Tuple[int, ...]"},
		{EmptyTuple(), "Tuple[()]"},
		{Callable([]Hint{Int, Str}, Bool), "Callable[[int, str], bool]"},
		{CallableAny(SignAny), "Callable[..., Any]"},
		{Literal(1, "a", true, nil), `Literal[1, "a", True, None]`},
		{Annotated(Int, "meta", 2.0), `Annotated[int, "meta", 2.0]`},
		{UnionOp(Int, Str), "int | str"},
		{Sequence, "collections.abc.Sequence"},
		{NewTypeVar("T", nil), "~T"},
	}

	for _, tt := range tests {
		if got := Repr(tt.hint); got != tt.want {
			t.Errorf("Repr() = %q, want %q", got, tt.want)
		}
	}
}

func TestKeyDistinguishes(t *testing.T) {
	a := NewClass("pkg.a", "Thing")
	b := NewClass("pkg.b", "Thing")

	if Key(ListOf(a)) == Key(ListOf(b)) {
		t.Error("same-named classes from different modules must have distinct keys")
	}
	if Key(ListOf(Int)) != Key(ListOf(Int)) {
		t.Error("structurally identical hints must share a key")
	}
	if Key(Literal(1)) == Key(Literal(true)) {
		t.Error("Literal[1] and Literal[True] must differ")
	}
	if Key(Union(Int, Str)) == Key(UnionOp(Int, Str)) {
		t.Error("operator unions keep a distinct key")
	}
	if Key(NewTypeVar("T", Int)) == Key(NewTypeVar("T", Str)) {
		t.Error("type variables with different bounds must differ")
	}
}

func TestKeyIdentity(t *testing.T) {
	a := NewClass("app", "User")
	b := NewClass("app", "User")
	if Key(a) == Key(b) {
		t.Error("distinct user classes must not share a key")
	}
	if Key(a) != Key(a) {
		t.Error("a class key must be stable")
	}
	if Key(Int) != "builtins.int" {
		t.Errorf("Key(int) = %q", Key(Int))
	}
}

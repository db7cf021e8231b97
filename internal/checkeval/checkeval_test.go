package checkeval

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/value"
)

var refs = MapResolver{
	"INT":  hint.Int,
	"STR":  hint.Str,
	"LIST": hint.List,
	"TUP":  hint.TupleT,
	"NONE": hint.NoneType,
}

func TestCompile(t *testing.T) {
	prog, err := Compile("isinstance(v, (INT, STR)) and len(v[0][1]) == -2 or not True")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := &OrExpr{Items: []Expr{
		&AndExpr{Items: []Expr{
			&IsInstanceExpr{Pith: &PithExpr{Name: "v"}, Refs: []string{"INT", "STR"}},
			&EqExpr{Left: &LenExpr{Pith: &PithExpr{Name: "v", Indexes: []int{0, 1}}}, Right: &ConstExpr{Value: -2}},
		}},
		&NotExpr{X: &ConstExpr{Value: true}},
	}}
	if diff := cmp.Diff(want, prog.Root()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"INT", "STR"}, prog.Refs()); diff != "" {
		t.Errorf("refs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"v"}, prog.Vars()); diff != "" {
		t.Errorf("vars mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"isinstance(v INT)",
		"len(3)",
		"v[",
		"v[x]",
		"(True",
		"True True",
		"and",
		"v == ",
		"'open",
		"- True",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Compile(src)
			if !stderrors.Is(err, errors.ErrCheckSyntax) {
				t.Errorf("Compile(%q) error = %v, want CHECK_SYNTAX", src, err)
			}
		})
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		src   string
		value any
		want  bool
	}{
		{"isinstance(v, INT)", 5, true},
		{"isinstance(v, INT)", "oops", false},
		{"isinstance(v, INT)", true, true},
		{"isinstance(v, (STR, NONE))", nil, true},
		{"isinstance(v, LIST) and (len(v) == 0 or isinstance(v[0], STR))", []any{}, true},
		{"isinstance(v, LIST) and (len(v) == 0 or isinstance(v[0], STR))", []any{"a", 1}, true},
		{"isinstance(v, LIST) and (len(v) == 0 or isinstance(v[0], STR))", []any{1}, false},
		{"isinstance(v, TUP) and len(v) == 2 and isinstance(v[1], STR)", value.Tuple{1, "x"}, true},
		{"isinstance(v, TUP) and len(v) == 2 and isinstance(v[1], STR)", value.Tuple{1}, false},
		{"isinstance(v, STR) and v == \"a\" or isinstance(v, INT) and v == 1", 1, true},
		{"isinstance(v, INT) and v == 1", true, false},
		{"v == b\"xy\"", []byte("xy"), true},
		{"v == 1.5", 1.5, true},
		{"v == None", nil, true},
		{"not v", []any{}, true},
		{"v", "", false},
		{"v[-1] == 3", []any{1, 2, 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := MustCompile(tt.src).Eval(Bindings{"v": tt.value}, refs)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		b    Bindings
		r    Resolver
	}{
		{"unbound", "isinstance(w, INT)", Bindings{"v": 1}, refs},
		{"unresolved", "isinstance(v, FLOAT)", Bindings{"v": 1}, refs},
		{"no resolver", "isinstance(v, INT)", Bindings{"v": 1}, nil},
		{"index out of range", "v[3] == 1", Bindings{"v": []any{1}}, refs},
		{"not indexable", "v[0] == 1", Bindings{"v": 1}, refs},
		{"no len", "len(v) == 0", Bindings{"v": 1}, refs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MustCompile(tt.src).Eval(tt.b, tt.r)
			if !stderrors.Is(err, errors.ErrCheckEval) {
				t.Errorf("error = %v, want CHECK_EVAL", err)
			}
		})
	}
}

func TestShortCircuit(t *testing.T) {
	// the right operand would fail if evaluated
	prog := MustCompile("len(v) == 0 or v[0] == 1")
	ok, err := prog.Eval(Bindings{"v": []any{}}, refs)
	if err != nil || !ok {
		t.Errorf("Eval = %v, %v; want true, nil", ok, err)
	}
}

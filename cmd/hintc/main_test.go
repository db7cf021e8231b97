package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/orizon-lang/hintkit/internal/hint"
)

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func newTestEnv(t *testing.T) (*env, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	e, err := newEnv("", false, false, out, out)
	if err != nil {
		t.Fatal(err)
	}
	return e, out
}

const hintSetYAML = `classes:
  - name: app.User
  - name: app.Admin
    bases: [app.User]
hints:
  admin: app.Admin
  ids: List[int]
  pair: Tuple[int, str]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompare(t *testing.T) {
	out, _, code := runCLI(t, "compare", "List[int]", "Sequence[int]")
	if code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	want := "List[int] <= Sequence[int]: True\n" +
		"Sequence[int] <= List[int]: False\n" +
		"List[int] == Sequence[int]: False\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("compare output mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderAndEqual(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"order", "bool", "int"}, "bool < int\n"},
		{[]string{"order", "int", "str"}, "int <> str\n"},
		{[]string{"order", "Callable", "Callable[..., bool]"}, "Callable > Callable[..., bool]\n"},
		{[]string{"order", "Tuple[int, ...]", "Tuple"}, "Tuple[int, ...] < Tuple\n"},
		{[]string{"order", "Optional[int]", "Union[None, int]"}, "Optional[int] == Union[None, int]\n"},
		{[]string{"equal", "Union[int, bool]", "int"}, "True\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, errOut, code := runCLI(t, tt.args...)
			if code != exitOK {
				t.Fatalf("exit code %d: %s", code, errOut)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestMatrix(t *testing.T) {
	out, _, code := runCLI(t, "matrix", "bool", "int", "str")
	if code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	want := "<=   | bool | int | str\n" +
		"bool | Y    | Y   | .  \n" +
		"int  | .    | Y   | .  \n" +
		"str  | .    | .   | Y  \n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestGen(t *testing.T) {
	out, _, code := runCLI(t, "gen", "-pith", "value", "int")
	if code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	want := "isinstance(value, __hint_type_0)\n# __hint_type_0 = int\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("gen mismatch (-want +got):\n%s", diff)
	}
}

func TestGenFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hints.yaml", hintSetYAML)

	out, errOut, code := runCLI(t, "gen", "-file", path)
	if code != exitOK {
		t.Fatalf("exit code %d: %s", code, errOut)
	}
	for _, want := range []string{"# admin: app.Admin", "# ids: List[int]", "# pair: Tuple[int, str]", "app.Admin"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "# admin") > strings.Index(out, "# pair") {
		t.Error("results must follow sorted name order")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		hint, value string
		code        int
		prefix      string
	}{
		{"List[int]", "[1, 2]", exitOK, "PASS"},
		{"List[int]", `["a"]`, exitFail, "FAIL"},
		{"Tuple[int, str]", "!tuple [1, a]", exitOK, "PASS"},
		{"Optional[str]", "null", exitOK, "PASS"},
		{"Dict[str, int]", "{a: 1}", exitOK, "PASS"},
	}

	for _, tt := range tests {
		t.Run(tt.hint+" "+tt.value, func(t *testing.T) {
			out, errOut, code := runCLI(t, "check", tt.hint, tt.value)
			if code != tt.code {
				t.Fatalf("exit code %d, want %d: %s", code, tt.code, errOut)
			}
			if !strings.HasPrefix(out, tt.prefix) {
				t.Errorf("output = %q", out)
			}
		})
	}
}

func TestErrorsAndUsage(t *testing.T) {
	if _, _, code := runCLI(t); code != exitUsage {
		t.Errorf("no args exit code %d", code)
	}
	if _, _, code := runCLI(t, "bogus"); code != exitUsage {
		t.Errorf("unknown subcommand exit code %d", code)
	}
	if _, _, code := runCLI(t, "compare", "int"); code != exitUsage {
		t.Errorf("short compare exit code %d", code)
	}
	_, errOut, code := runCLI(t, "compare", "Lisst[int]", "int")
	if code != exitFail || !strings.Contains(errOut, "HINT_SYNTAX") {
		t.Errorf("syntax error: code %d, stderr %q", code, errOut)
	}
	out, _, code := runCLI(t, "help", "gen")
	if code != exitOK || !strings.Contains(out, "hintc gen -file") {
		t.Errorf("help gen: code %d, out %q", code, out)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hintkit.yaml", "target_version: \"3.7.0\"\ncodegen:\n  pith_root: arg\n")

	_, errOut, code := runCLI(t, "-config", path, "compare", "Literal[1]", "int")
	if code != exitFail || !strings.Contains(errOut, "UNSUPPORTED_VERSION") {
		t.Errorf("Literal under 3.7: code %d, stderr %q", code, errOut)
	}

	out, _, code := runCLI(t, "-config", path, "gen", "str")
	if code != exitOK || !strings.HasPrefix(out, "isinstance(arg,") {
		t.Errorf("gen with config: code %d, out %q", code, out)
	}

	bad := writeFile(t, dir, "bad.yaml", "codegen:\n  queue_capacity: 2\n")
	if _, errOut, code := runCLI(t, "-config", bad, "version"); code != exitFail || !strings.Contains(errOut, "INVALID_CONFIG") {
		t.Errorf("bad config: code %d, stderr %q", code, errOut)
	}
}

func TestArenaStats(t *testing.T) {
	out, _, code := runCLI(t, "arena-stats")
	if code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("want header and one bucket, got:\n%s", out)
	}
	fields := strings.Fields(lines[1])
	if diff := cmp.Diff([]string{"256", "1", "1", "5", "5", "0"}, fields); diff != "" {
		t.Errorf("bucket row mismatch (-want +got):\n%s", diff)
	}
}

func TestVersion(t *testing.T) {
	out, _, code := runCLI(t, "version", "-json")
	if code != exitOK || !strings.Contains(out, `"tool": "hintc"`) {
		t.Errorf("version -json: code %d, out %q", code, out)
	}
}

func TestEvalLine(t *testing.T) {
	e, _ := newTestEnv(t)

	tests := []struct {
		line string
		want string
	}{
		{"bool <= int", "True"},
		{"int < int", "False"},
		{"int >= bool", "True"},
		{"Literal['<='] == Literal['<=']", "True"},
		{"int | str != Union[str, int]", "False"},
		{":gen Optional[int]", "isinstance(pith, (__hint_type_0, __hint_type_1))"},
		{":check List[int] [1, 2]", "True"},
		{":check int | str 1.5", "False"},
		{":order List[int] Sequence[int]", "<"},
		{":class app.Base", "defined app.Base"},
		{":class app.Child app.Base", "defined app.Child"},
		{"app.Child <= app.Base", "True"},
	}

	for _, tt := range tests {
		got, err := e.evalLine(tt.line)
		if err != nil {
			t.Errorf("evalLine(%q) error: %v", tt.line, err)
			continue
		}
		if got != tt.want {
			t.Errorf("evalLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}

	if _, err := e.evalLine(":quit"); err != errQuit {
		t.Errorf(":quit error = %v", err)
	}
	if _, err := e.evalLine(":nope"); err == nil {
		t.Error("unknown commands must fail")
	}
	if _, err := e.evalLine(":class app.Orphan app.Missing"); err == nil {
		t.Error("unknown bases must fail")
	}
}

func TestSplitHintValue(t *testing.T) {
	tests := []struct {
		in         string
		hint, rest string
		ok         bool
	}{
		{"int 5", "int", "5", true},
		{"Dict[str, int] {a: 1}", "Dict[str, int]", "{a: 1}", true},
		{"int | None null", "int | None", "null", true},
		{"Literal['a b'] 'a b'", "Literal['a b']", "'a b'", true},
		{"int", "", "", false},
	}

	for _, tt := range tests {
		h, rest, ok := splitHintValue(tt.in)
		if h != tt.hint || rest != tt.rest || ok != tt.ok {
			t.Errorf("splitHintValue(%q) = %q, %q, %v", tt.in, h, rest, ok)
		}
	}
}

func TestParseHintSet(t *testing.T) {
	set, err := parseHintSet([]byte(hintSetYAML))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"admin", "ids", "pair"}, set.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	bad := []string{
		"hints: {}\n",
		"classes:\n  - name: User\nhints:\n  a: int\n",
		"classes:\n  - name: app.A\n    bases: [app.Missing]\nhints:\n  a: int\n",
		"classes:\n  - name: app.P\n    opaque: true\n    bases: [app.P]\nhints:\n  a: int\n",
	}
	for _, src := range bad {
		if _, err := parseHintSet([]byte(src)); err == nil {
			t.Errorf("parseHintSet(%q) succeeded", src)
		}
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hints.yaml", "hints:\n  a: int\n")
	e, out := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- e.watch(ctx, path, ready) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watch never armed")
	}
	if !strings.Contains(out.String(), "regenerated 1 checks") {
		t.Fatalf("initial generation missing:\n%s", out.String())
	}

	writeFile(t, dir, "hints.yaml", "hints:\n  a: int\n  b: List[str]\n")

	deadline := time.After(5 * time.Second)
	for !strings.Contains(out.String(), "regenerated 2 checks") {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("change not picked up:\n%s", out.String())
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch returned %v", err)
	}
}

func TestFileWatcherClose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hints.yaml", "hints:\n  a: int\n")
	fw, err := newFileWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}

	// closing the watcher ends the change stream whichever channel
	// fsnotify shuts first
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-fw.Changes():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("change channel still open after Close")
		}
	}
}

func TestSyntaxCaret(t *testing.T) {
	_, err := hint.Parse("Dict[str, Lisst[int]]")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	want := "    Dict[str, Lisst[int]]\n              ^"
	if got := syntaxCaret(err); got != want {
		t.Errorf("syntaxCaret =\n%s\nwant\n%s", got, want)
	}
	if got := syntaxCaret(os.ErrNotExist); got != "" {
		t.Errorf("non-syntax errors render nothing, got %q", got)
	}
}

package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/orizon-lang/hintkit/internal/cli"
	"github.com/orizon-lang/hintkit/internal/codegen"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/typehint"
	"github.com/orizon-lang/hintkit/internal/value"
)

// wrapArgs parses and wraps every argument
func (e *env) wrapArgs(srcs []string) ([]*typehint.TypeHint, error) {
	out := make([]*typehint.TypeHint, len(srcs))
	for i, src := range srcs {
		h, err := e.parse(src)
		if err != nil {
			return nil, err
		}
		t, err := e.checker.Wrap(h)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func runCompare(e *env, args []string) int {
	if len(args) != 2 {
		return e.usageError("compare", fmt.Errorf("compare takes exactly two hints"))
	}
	ts, err := e.wrapArgs(args)
	if err != nil {
		return e.fail(err)
	}
	a, b := ts[0], ts[1]
	e.printf("%s <= %s: %s\n", a, b, e.verdict(a.IsSubtype(b)))
	e.printf("%s <= %s: %s\n", b, a, e.verdict(b.IsSubtype(a)))
	e.printf("%s == %s: %s\n", a, b, e.verdict(a.Equal(b)))
	return exitOK
}

func runEqual(e *env, args []string) int {
	if len(args) != 2 {
		return e.usageError("equal", fmt.Errorf("equal takes exactly two hints"))
	}
	ts, err := e.wrapArgs(args)
	if err != nil {
		return e.fail(err)
	}
	e.printf("%s\n", e.verdict(ts[0].Equal(ts[1])))
	return exitOK
}

func runOrder(e *env, args []string) int {
	if len(args) != 2 {
		return e.usageError("order", fmt.Errorf("order takes exactly two hints"))
	}
	ts, err := e.wrapArgs(args)
	if err != nil {
		return e.fail(err)
	}
	o, err := ts[0].Order(ts[1])
	if err != nil {
		return e.fail(err)
	}
	e.printf("%s %s %s\n", ts[0], e.blue(o.String()), ts[1])
	return exitOK
}

// runMatrix prints one row per hint; a cell is marked when the row hint is
// a subhint of the column hint
func runMatrix(e *env, args []string) int {
	if err := cli.ValidateArgs(args, 2, "hintc matrix H1 H2 [H3...]"); err != nil {
		return e.usageError("matrix", err)
	}
	ts, err := e.wrapArgs(args)
	if err != nil {
		return e.fail(err)
	}
	e.printf("%s", renderMatrix(ts))
	return exitOK
}

func renderMatrix(ts []*typehint.TypeHint) string {
	labels := make([]string, len(ts))
	first := runewidth.StringWidth("<=")
	for i, t := range ts {
		labels[i] = t.String()
		if w := runewidth.StringWidth(labels[i]); w > first {
			first = w
		}
	}
	widths := make([]int, len(ts))
	for i, l := range labels {
		widths[i] = runewidth.StringWidth(l)
	}

	var b strings.Builder
	b.WriteString(runewidth.FillRight("<=", first))
	for i, l := range labels {
		b.WriteString(" | ")
		b.WriteString(runewidth.FillRight(l, widths[i]))
	}
	b.WriteString("\n")

	for i, row := range ts {
		b.WriteString(runewidth.FillRight(labels[i], first))
		for j, col := range ts {
			mark := "."
			if row.IsSubtype(col) {
				mark = "Y"
			}
			b.WriteString(" | ")
			b.WriteString(runewidth.FillRight(mark, widths[j]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func runGen(e *env, args []string) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	pith := fs.String("pith", e.cfg.Codegen.PithRoot, "root pith expression")
	file := fs.String("file", "", "YAML hint set to generate")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *file != "" {
		if fs.NArg() != 0 {
			return e.usageError("gen", fmt.Errorf("gen -file takes no hint arguments"))
		}
		set, err := loadHintSet(*file)
		if err != nil {
			return e.fail(err)
		}
		results, err := generateSet(e, set)
		if err != nil {
			return e.fail(err)
		}
		for _, r := range results {
			e.printFragment(r.Name, r.Fragment)
		}
		return exitOK
	}

	if fs.NArg() != 1 {
		return e.usageError("gen", fmt.Errorf("gen takes exactly one hint"))
	}
	h, err := e.parse(fs.Arg(0))
	if err != nil {
		return e.fail(err)
	}
	frag, err := e.checker.Generator().GenerateFor(h, *pith, codegen.NewTypeRefs())
	if err != nil {
		return e.fail(err)
	}
	e.printFragment("", frag)
	return exitOK
}

func (e *env) printFragment(name string, frag *codegen.Fragment) {
	if name != "" {
		e.printf("# %s: %s\n", name, hint.Repr(frag.Hint))
	}
	e.printf("%s\n", frag.Code)
	for _, ref := range frag.Refs.Names() {
		c, _ := frag.Refs.Resolve(ref)
		e.printf("%s %s = %s\n", e.blue("#"), ref, c.QualName())
	}
}

func runCheck(e *env, args []string) int {
	if len(args) != 2 {
		return e.usageError("check", fmt.Errorf("check takes a hint and a value"))
	}
	h, err := e.parse(args[0])
	if err != nil {
		return e.fail(err)
	}
	v, err := value.Decode(args[1])
	if err != nil {
		return e.fail(err)
	}

	ok, err := e.checker.IsBearable(v, h)
	if err != nil {
		return e.fail(err)
	}
	if !ok {
		e.printf("%s %s is not a %s\n", e.red("FAIL"), value.Repr(v), hint.Repr(h))
		return exitFail
	}
	e.printf("%s %s is a %s\n", e.green("PASS"), value.Repr(v), hint.Repr(h))
	return exitOK
}

var sampleHints = []string{
	"int",
	"Optional[List[str]]",
	"Dict[str, Tuple[int, ...]]",
	"Union[int, float, Literal['a', 'b']]",
	"Tuple[int, Annotated[str, 'name'], Callable[..., None]]",
}

func runArenaStats(e *env, args []string) int {
	srcs := args
	if len(srcs) == 0 {
		srcs = sampleHints
	}
	for _, src := range srcs {
		h, err := e.parse(src)
		if err != nil {
			return e.fail(err)
		}
		if _, err := e.checker.GenerateCheck(h); err != nil {
			return e.fail(err)
		}
		e.log.Info("generated %s", src)
	}

	e.printf("%-10s %8s %8s %10s %10s %12s\n", "capacity", "created", "free", "acquired", "released", "outstanding")
	for _, info := range e.checker.Generator().Pool().Stats() {
		e.printf("%-10d %8d %8d %10d %10d %12d\n",
			info.Capacity, info.Created, info.FreeBuffers, info.Acquired, info.Released, info.Outstanding)
	}
	return exitOK
}

func runVersion(e *env, args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	jsonOutput := fs.Bool("json", false, "output version in JSON format")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	cli.PrintVersion(e.out, toolName, *jsonOutput)
	return exitOK
}

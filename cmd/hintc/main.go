// Package main provides hintc, the command line front end for hintkit.
// It parses global options, builds a checker from the configuration and
// routes to one subcommand handler per operation.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/orizon-lang/hintkit"
	"github.com/orizon-lang/hintkit/internal/cli"
	"github.com/orizon-lang/hintkit/internal/config"
	"github.com/orizon-lang/hintkit/internal/hint"
)

const toolName = "hintc"

// Exit codes
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// env is the state shared by every subcommand
type env struct {
	cfg     *config.Config
	log     *cli.Logger
	checker *hintkit.Checker
	ns      *hint.Namespace
	out     io.Writer
	errOut  io.Writer
	color   bool
}

func (e *env) parse(src string) (hint.Hint, error) {
	return e.ns.Parse(src)
}

func (e *env) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.out, format, args...)
}

type command struct {
	info cli.CommandInfo
	run  func(e *env, args []string) int
}

var commands []command

func init() {
	commands = []command{
		{cli.CommandInfo{Name: "compare", Usage: "hintc compare A B", Description: "Report A <= B, B <= A and equality",
			Examples: []string{"hintc compare 'List[int]' 'Sequence[int]'"}}, runCompare},
		{cli.CommandInfo{Name: "equal", Usage: "hintc equal A B", Description: "Report whether two hints are equal",
			Examples: []string{"hintc equal 'Optional[int]' 'Union[int, None]'"}}, runEqual},
		{cli.CommandInfo{Name: "order", Usage: "hintc order A B", Description: "Print the partial-order relation",
			Examples: []string{"hintc order bool int"}}, runOrder},
		{cli.CommandInfo{Name: "matrix", Usage: "hintc matrix H1 H2 [H3...]", Description: "Print a subhint matrix",
			Examples: []string{"hintc matrix bool int float 'Union[int, str]'"}}, runMatrix},
		{cli.CommandInfo{Name: "gen", Usage: "hintc gen [-pith NAME] HINT | hintc gen -file HINTS.yaml", Description: "Generate check code",
			Examples: []string{"hintc gen -pith arg 'Tuple[int, str]'", "hintc gen -file hints.yaml"}}, runGen},
		{cli.CommandInfo{Name: "check", Usage: "hintc check HINT VALUE", Description: "Check a YAML value against a hint",
			Examples: []string{"hintc check 'List[int]' '[1, 2]'", "hintc check 'Tuple[int, str]' '!tuple [1, a]'"}}, runCheck},
		{cli.CommandInfo{Name: "repl", Usage: "hintc repl [-history FILE]", Description: "Start an interactive session"}, runRepl},
		{cli.CommandInfo{Name: "watch", Usage: "hintc watch HINTS.yaml", Description: "Regenerate checks when a hint set changes",
			Examples: []string{"hintc watch hints.yaml"}}, runWatch},
		{cli.CommandInfo{Name: "arena-stats", Usage: "hintc arena-stats [HINT...]", Description: "Generate checks and print arena pool statistics"}, runArenaStats},
		{cli.CommandInfo{Name: "version", Usage: "hintc version [-json]", Description: "Print version information"}, runVersion},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(toolName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "configuration file (YAML)")
	verbose := fs.Bool("v", false, "verbose logging")
	debug := fs.Bool("debug", false, "debug logging")
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr)
		return exitUsage
	}

	sub, subArgs := rest[0], rest[1:]
	switch sub {
	case "help", "-h", "--help":
		if len(subArgs) > 0 {
			if cmd, ok := lookup(subArgs[0]); ok {
				cli.PrintCommandUsage(stdout, toolName, cmd.info)
				return exitOK
			}
		}
		usage(stdout)
		return exitOK
	}

	cmd, ok := lookup(sub)
	if !ok {
		fmt.Fprintf(stderr, "unknown subcommand: %s\n", sub)
		usage(stderr)
		return exitUsage
	}

	e, err := newEnv(*configPath, *verbose, *debug, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFail
	}
	e.log.Debug("running %s with target %s", sub, e.cfg.TargetVersion)

	return cmd.run(e, subArgs)
}

func newEnv(configPath string, verbose, debug bool, stdout, stderr io.Writer) (*env, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	log := cli.NewLoggerTo(stderr, verbose || cfg.Log.Verbose, debug || cfg.Log.Debug)
	checker, err := hintkit.FromConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		log.Info("loaded configuration from %s", configPath)
	}

	return &env{
		cfg:     cfg,
		log:     log,
		checker: checker,
		ns:      hint.NewNamespace(),
		out:     stdout,
		errOut:  stderr,
		color:   colorEnabled(stdout),
	}, nil
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.info.Name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer) {
	infos := make([]cli.CommandInfo, len(commands))
	for i, c := range commands {
		infos[i] = c.info
	}
	cli.PrintUsage(w, toolName, infos)
}

// fail reports err and returns the failure exit code
func (e *env) fail(err error) int {
	e.log.Error("%v", err)
	if caret := syntaxCaret(err); caret != "" {
		fmt.Fprintln(e.errOut, caret)
	}
	return exitFail
}

// usageError prints the command usage line and returns the usage exit code
func (e *env) usageError(name string, err error) int {
	fmt.Fprintln(e.errOut, err)
	if cmd, ok := lookup(name); ok {
		fmt.Fprintf(e.errOut, "Usage: %s\n", cmd.info.Usage)
	}
	return exitUsage
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/orizon-lang/hintkit/internal/cli"
	"github.com/orizon-lang/hintkit/internal/value"
)

const (
	historyFile = ".hintc_history"
	prompt      = "hint> "
)

// errQuit ends a session
var errQuit = errors.New("quit")

func runRepl(e *env, args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	home, _ := os.UserHomeDir()
	histPath := fs.String("history", filepath.Join(home, historyFile), "history file path")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(*histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(*histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			ln.Close()
			os.Exit(130)
		}
	}()

	info := cli.GetVersionInfo()
	e.printf("hintc v%s\nType :help for help, :quit to exit\n\n", info.Version)

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			e.printf("\n")
			return exitOK
		}
		if err != nil {
			return e.fail(err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		out, err := e.evalLine(line)
		if errors.Is(err, errQuit) {
			return exitOK
		}
		if err != nil {
			fmt.Fprintln(e.out, e.red("Error: "+err.Error()))
			continue
		}
		e.printf("%s\n", out)
	}
}

// relational operators, longest first so "<=" wins over "<"
var replOps = []string{"<=", ">=", "==", "!=", "<", ">"}

// evalLine evaluates one session line: a comparison "A op B" or a command
func (e *env) evalLine(line string) (string, error) {
	if strings.HasPrefix(line, ":") {
		return e.evalCommand(line)
	}

	for _, op := range replOps {
		i := indexTopLevel(line, " "+op+" ")
		if i < 0 {
			continue
		}
		ts, err := e.wrapArgs([]string{strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+len(op)+2:])})
		if err != nil {
			return "", err
		}
		a, b := ts[0], ts[1]
		var ok bool
		switch op {
		case "<=":
			ok = a.Le(b)
		case ">=":
			ok = a.Ge(b)
		case "==":
			ok = a.Equal(b)
		case "!=":
			ok = a.Ne(b)
		case "<":
			ok = a.Lt(b)
		case ">":
			ok = a.Gt(b)
		}
		return e.verdict(ok), nil
	}

	ts, err := e.wrapArgs([]string{line})
	if err != nil {
		return "", err
	}
	t := ts[0]
	return fmt.Sprintf("%s (kind %s, origin %v)", t, t.Kind(), t.Origin()), nil
}

func (e *env) evalCommand(line string) (string, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case ":quit", ":q", ":exit":
		return "", errQuit
	case ":help", ":h":
		return replHelp, nil
	case ":gen":
		if rest == "" {
			return "", fmt.Errorf("usage: :gen HINT")
		}
		h, err := e.parse(rest)
		if err != nil {
			return "", err
		}
		frag, err := e.checker.GenerateCheck(h)
		if err != nil {
			return "", err
		}
		return frag.Code, nil
	case ":check":
		src, val, ok := splitHintValue(rest)
		if !ok {
			return "", fmt.Errorf("usage: :check HINT VALUE")
		}
		h, err := e.parse(src)
		if err != nil {
			return "", err
		}
		v, err := value.Decode(val)
		if err != nil {
			return "", err
		}
		bearable, err := e.checker.IsBearable(v, h)
		if err != nil {
			return "", err
		}
		return e.verdict(bearable), nil
	case ":order":
		a, b, ok := splitHintValue(rest)
		if !ok {
			return "", fmt.Errorf("usage: :order A B")
		}
		ts, err := e.wrapArgs([]string{a, b})
		if err != nil {
			return "", err
		}
		o, err := ts[0].Order(ts[1])
		if err != nil {
			return "", err
		}
		return o.String(), nil
	case ":class":
		return e.defineClass(rest)
	}
	return "", fmt.Errorf("unknown command %s, type :help", cmd)
}

// defineClass handles ":class module.Name [base...]"
func (e *env) defineClass(rest string) (string, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", fmt.Errorf("usage: :class module.Name [base...]")
	}
	set := &HintSet{ns: e.ns}
	c, err := set.defineClass(ClassSpec{Name: fields[0], Bases: fields[1:]})
	if err != nil {
		return "", err
	}
	e.ns.DefineClass(c)
	return "defined " + c.QualName(), nil
}

const replHelp = `Comparisons:
  A <= B, A < B, A >= B, A > B, A == B, A != B
Commands:
  :gen HINT              Show generated check code
  :check HINT VALUE      Check a YAML value against a hint
  :order A B             Show the partial-order relation
  :class mod.Name [B..]  Define a user class
  :help, :h              Show this help
  :quit, :q, :exit       Exit`

// indexTopLevel finds sep outside brackets and quotes
func indexTopLevel(s, sep string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		case c == '\'' || c == '"':
			quote = c
			continue
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			return i
		}
	}
	return -1
}

// splitHintValue splits "HINT REST" at the first top-level space that does
// not sit inside a union or argument list
func splitHintValue(s string) (string, string, bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			depth--
		case c == ' ' && depth == 0:
			head := strings.TrimSpace(s[:i])
			tail := strings.TrimSpace(s[i:])
			if head == "" || tail == "" {
				continue
			}
			if strings.HasSuffix(head, "|") || strings.HasPrefix(tail, "|") {
				continue
			}
			return head, tail, true
		}
	}
	return "", "", false
}

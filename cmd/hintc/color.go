package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// colorEnabled reports whether w is a terminal that should receive ANSI
// colors. NO_COLOR disables them.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (e *env) paint(code, s string) string {
	if !e.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (e *env) green(s string) string { return e.paint("32", s) }
func (e *env) red(s string) string   { return e.paint("31", s) }
func (e *env) blue(s string) string  { return e.paint("94", s) }

// verdict renders a boolean answer
func (e *env) verdict(ok bool) string {
	if ok {
		return e.green("True")
	}
	return e.red("False")
}

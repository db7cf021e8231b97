package main

import (
	stderrors "errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/orizon-lang/hintkit/internal/errors"
)

// syntaxCaret renders the source of a hint syntax error with a caret under
// the failing offset. It returns "" for other errors.
func syntaxCaret(err error) string {
	var se *errors.StandardError
	if !stderrors.As(err, &se) || se.Code != errors.CodeHintSyntax {
		return ""
	}
	src, _ := se.Context["source"].(string)
	offset, ok := se.Context["offset"].(int)
	if !ok || strings.ContainsRune(src, '\n') {
		return ""
	}
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}

	// pad by display width so wide runes keep the caret aligned
	pad := runewidth.StringWidth(src[:offset])
	return "    " + src + "\n    " + strings.Repeat(" ", pad) + "^"
}

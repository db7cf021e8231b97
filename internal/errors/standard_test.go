package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestStandardErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"arity", Arity("List", "1", 2), ErrArity, true},
		{"unclassifiable", Unclassifiable("5", "not a hint"), ErrClassification, true},
		{"unsupported is not unclassifiable", Unsupported("Foo", "bar"), ErrClassification, false},
		{"wrapped", fmt.Errorf("wrap: %w", QueueExhausted(8, "List[int]")), ErrQueueExhausted, true},
		{"different category", InvalidCapacity(0), ErrArity, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestStandardErrorCaller(t *testing.T) {
	err := Arity("Dict", "2", 1)
	if !strings.Contains(err.Caller, "TestStandardErrorCaller") {
		t.Errorf("Caller = %q, want the calling test function", err.Caller)
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "[ARITY:HINT_ARITY]") {
		t.Errorf("Error() = %q, want category prefix", msg)
	}
	if err.Context["got"] != 1 {
		t.Errorf("Context[got] = %v, want 1", err.Context["got"])
	}
}

// Package errors provides standardized error messaging for hintkit
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryClassification ErrorCategory = "CLASSIFICATION"
	CategoryArity          ErrorCategory = "ARITY"
	CategoryOrigin         ErrorCategory = "ORIGIN"
	CategoryArena          ErrorCategory = "ARENA"
	CategoryCapacity       ErrorCategory = "CAPACITY"
	CategoryComparison     ErrorCategory = "COMPARISON"
	CategoryParse          ErrorCategory = "PARSE"
	CategoryCheck          ErrorCategory = "CHECK"
	CategoryConfig         ErrorCategory = "CONFIG"
)

// Error codes
const (
	CodeUnclassifiable     = "UNCLASSIFIABLE_HINT"
	CodeUnsupported        = "UNSUPPORTED_HINT"
	CodeUnsupportedVersion = "UNSUPPORTED_VERSION"
	CodeArity              = "HINT_ARITY"
	CodeDegenerateOrigin   = "DEGENERATE_ORIGIN"
	CodeInvalidCapacity    = "INVALID_CAPACITY"
	CodeForeignBuffer      = "FOREIGN_BUFFER"
	CodeDoubleRelease      = "DOUBLE_RELEASE"
	CodeUseAfterRelease    = "USE_AFTER_RELEASE"
	CodeQueueExhausted     = "QUEUE_EXHAUSTED"
	CodeIncomparable       = "INCOMPARABLE"
	CodeHintSyntax         = "HINT_SYNTAX"
	CodeCheckSyntax        = "CHECK_SYNTAX"
	CodeCheckEval          = "CHECK_EVAL"
	CodeUnbearable         = "UNBEARABLE"
	CodeInvalidConfig      = "INVALID_CONFIG"
)

// Sentinels for errors.Is. Matching is by category and code; message and
// context are ignored.
var (
	ErrClassification = &StandardError{Category: CategoryClassification, Code: CodeUnclassifiable}
	ErrUnsupported    = &StandardError{Category: CategoryClassification, Code: CodeUnsupported}
	ErrVersion        = &StandardError{Category: CategoryClassification, Code: CodeUnsupportedVersion}
	ErrArity          = &StandardError{Category: CategoryArity, Code: CodeArity}
	ErrInvalidCap     = &StandardError{Category: CategoryArena, Code: CodeInvalidCapacity}
	ErrQueueExhausted = &StandardError{Category: CategoryCapacity, Code: CodeQueueExhausted}
	ErrIncomparable   = &StandardError{Category: CategoryComparison, Code: CodeIncomparable}
	ErrHintSyntax     = &StandardError{Category: CategoryParse, Code: CodeHintSyntax}
	ErrCheckSyntax    = &StandardError{Category: CategoryCheck, Code: CodeCheckSyntax}
	ErrCheckEval      = &StandardError{Category: CategoryCheck, Code: CodeCheckEval}
	ErrUnbearable     = &StandardError{Category: CategoryCheck, Code: CodeUnbearable}
	ErrInvalidConfig  = &StandardError{Category: CategoryConfig, Code: CodeInvalidConfig}
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// Is reports whether target carries the same category and code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}

	return e.Category == t.Category && e.Code == t.Code
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return newStandardError(2, category, code, message, context)
}

func newStandardError(skip int, category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(skip)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Common error constructors
func Unclassifiable(hint string, reason string) *StandardError {
	return newStandardError(2, CategoryClassification, CodeUnclassifiable,
		fmt.Sprintf("Type hint %s not interpretable: %s", hint, reason),
		map[string]interface{}{"hint": hint, "reason": reason})
}

func Unsupported(hint string, reason string) *StandardError {
	return newStandardError(2, CategoryClassification, CodeUnsupported,
		fmt.Sprintf("Type hint %s unsupported: %s", hint, reason),
		map[string]interface{}{"hint": hint, "reason": reason})
}

func UnsupportedVersion(hint, since, target string) *StandardError {
	return newStandardError(2, CategoryClassification, CodeUnsupportedVersion,
		fmt.Sprintf("Type hint %s requires language level >= %s (target %s)", hint, since, target),
		map[string]interface{}{"hint": hint, "since": since, "target": target})
}

func Arity(hint string, want string, got int) *StandardError {
	return newStandardError(2, CategoryArity, CodeArity,
		fmt.Sprintf("Type hint %s expects %s argument(s), got %d", hint, want, got),
		map[string]interface{}{"hint": hint, "want": want, "got": got})
}

func DegenerateOrigin(hint string, origin string) *StandardError {
	return newStandardError(2, CategoryOrigin, CodeDegenerateOrigin,
		fmt.Sprintf("Type hint %s origin %s not usable in instance checks", hint, origin),
		map[string]interface{}{"hint": hint, "origin": origin})
}

func InvalidCapacity(capacity int) *StandardError {
	return newStandardError(2, CategoryArena, CodeInvalidCapacity,
		fmt.Sprintf("Invalid buffer capacity %d", capacity),
		map[string]interface{}{"capacity": capacity})
}

func ForeignBuffer(details string) *StandardError {
	return newStandardError(2, CategoryArena, CodeForeignBuffer,
		fmt.Sprintf("Release of unrecognized buffer: %s", details),
		map[string]interface{}{"details": details})
}

func DoubleRelease(details string) *StandardError {
	return newStandardError(2, CategoryArena, CodeDoubleRelease,
		fmt.Sprintf("Buffer released twice: %s", details),
		map[string]interface{}{"details": details})
}

func UseAfterRelease(operation string) *StandardError {
	return newStandardError(2, CategoryArena, CodeUseAfterRelease,
		fmt.Sprintf("Buffer used after release in %s", operation),
		map[string]interface{}{"operation": operation})
}

func QueueExhausted(capacity int, hint string) *StandardError {
	return newStandardError(2, CategoryCapacity, CodeQueueExhausted,
		fmt.Sprintf("Type hint %s exceeds traversal queue capacity %d", hint, capacity),
		map[string]interface{}{"capacity": capacity, "hint": hint})
}

func Incomparable(operand interface{}) *StandardError {
	return newStandardError(2, CategoryComparison, CodeIncomparable,
		fmt.Sprintf("Cannot compare type hint with %T", operand),
		map[string]interface{}{"operand": fmt.Sprintf("%T", operand)})
}

func HintSyntax(src string, offset int, message string) *StandardError {
	return newStandardError(2, CategoryParse, CodeHintSyntax,
		fmt.Sprintf("Syntax error in %q at offset %d: %s", src, offset, message),
		map[string]interface{}{"source": src, "offset": offset})
}

func CheckSyntax(offset int, message string) *StandardError {
	return newStandardError(2, CategoryCheck, CodeCheckSyntax,
		fmt.Sprintf("Check fragment syntax error at offset %d: %s", offset, message),
		map[string]interface{}{"offset": offset})
}

func CheckEval(message string) *StandardError {
	return newStandardError(2, CategoryCheck, CodeCheckEval,
		fmt.Sprintf("Check evaluation failed: %s", message), nil)
}

func Unbearable(value string, hint string) *StandardError {
	return newStandardError(2, CategoryCheck, CodeUnbearable,
		fmt.Sprintf("Value %s violates type hint %s", value, hint),
		map[string]interface{}{"value": value, "hint": hint})
}

func InvalidConfig(field, message string) *StandardError {
	return newStandardError(2, CategoryConfig, CodeInvalidConfig,
		fmt.Sprintf("Invalid configuration %s: %s", field, message),
		map[string]interface{}{"field": field})
}

package reflow

import "fmt"

// ErrorKind discriminates the three ways Reflow can fail.
type ErrorKind int

const (
	// ErrMalformedChunk means the chunk's source map does not cover every
	// plain-text offset of its Text.
	ErrMalformedChunk ErrorKind = iota
	// ErrZeroWidthBudget means ReflowConfig.MaxLineLength is not positive.
	ErrZeroWidthBudget
	// ErrInternalInvariant means a wrapped line is wider than the budget
	// while re-tokenizing it yields more than one token. This is a safety
	// net; it does not fire on valid input. The paragraph's token sequence
	// as a whole is not re-checked.
	ErrInternalInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedChunk:
		return "MalformedChunk"
	case ErrZeroWidthBudget:
		return "ZeroWidthBudget"
	case ErrInternalInvariant:
		return "InternalInvariant"
	default:
		return "Unknown"
	}
}

// ReflowError is the error type returned by Reflow and ReflowInner.
type ReflowError struct {
	Kind    ErrorKind
	Message string
}

func (e *ReflowError) Error() string {
	return fmt.Sprintf("reflow: %s: %s", e.Kind, e.Message)
}

func malformedChunkError(format string, args ...any) *ReflowError {
	return &ReflowError{Kind: ErrMalformedChunk, Message: fmt.Sprintf(format, args...)}
}

func zeroWidthBudgetError() *ReflowError {
	return &ReflowError{Kind: ErrZeroWidthBudget, Message: "max_line_length must be a positive number of columns"}
}

func internalInvariantError(format string, args ...any) *ReflowError {
	return &ReflowError{Kind: ErrInternalInvariant, Message: fmt.Sprintf(format, args...)}
}

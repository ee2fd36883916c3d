package parser

import "fmt"

// Reason categorizes why a JSONPath query failed to parse, for callers that
// want more than an error string to work with — editor tooling and linters
// built on this library, for example.
type Reason uint8

const (
	// ReasonSyntax indicates a token or sequence of tokens the grammar does
	// not allow at that position.
	ReasonSyntax Reason = iota
	// ReasonFunctionValidation indicates a function extension rejected its
	// arguments at parse time.
	ReasonFunctionValidation
	// ReasonNonSingularQuery indicates a function argument required a
	// singular query but received one that can select more than one node.
	// Parse reports invalid function arguments with ReasonFunctionValidation
	// and non-singular comparables with ReasonSyntax; no path through Parse
	// returns ReasonNonSingularQuery.
	ReasonNonSingularQuery
	// ReasonInternal indicates a lower-level error, such as an integer
	// literal that could not be parsed, surfaced without further
	// classification.
	ReasonInternal
)

// String returns a human-readable name for r.
func (r Reason) String() string {
	switch r {
	case ReasonSyntax:
		return "syntax"
	case ReasonFunctionValidation:
		return "function validation"
	case ReasonNonSingularQuery:
		return "non-singular query"
	case ReasonInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is returned for JSONPath parse failures. Every Error satisfies
// `errors.Is(err, ErrPathParse)`; callers that want the Reason and position
// of a failure can recover it with `errors.As(err, &parserErr)`.
type Error struct {
	// Reason categorizes the failure.
	Reason Reason
	// Pos is the zero-based byte offset into the query string where the
	// failure was detected.
	Pos int
	err error
}

// newError creates an [Error] with msg wrapped by [ErrPathParse] and
// annotated with tok's position.
func newError(tok token, reason Reason, msg string) *Error {
	return &Error{
		Reason: reason,
		Pos:    tok.pos,
		err:    fmt.Errorf("%w: %v at position %v", ErrPathParse, msg, tok.pos+1),
	}
}

// Error returns e's message. It implements the error interface.
func (e *Error) Error() string {
	return e.err.Error()
}

// Unwrap returns the error e wraps, so that `errors.Is(e, ErrPathParse)`
// succeeds.
func (e *Error) Unwrap() error {
	return e.err
}

package jsonpath

import (
	"fmt"

	"github.com/theory/jsonpath/parser"
)

// ErrPathParse errors are returned when a JSONPath query fails to parse. It
// is the same value as [parser.ErrPathParse], so that `errors.Is(err, ErrPathParse)` matches
// parse errors returned from this package.
var ErrPathParse = parser.ErrPathParse

// AtMostOneError is returned by [NodeList.AtMostOne] and
// [LocatedNodeList.AtMostOne] when a list holds more than one node.
type AtMostOneError struct {
	// count is the number of nodes found.
	count int
}

// Error implements the error interface.
func (e *AtMostOneError) Error() string {
	return fmt.Sprintf("jsonpath: expected at most one result but found %v", e.count)
}

// ExactlyOneError is returned by [NodeList.ExactlyOne] and
// [LocatedNodeList.ExactlyOne] when a list does not hold exactly one node.
type ExactlyOneError struct {
	// empty is true when the list held no nodes.
	empty bool
	// count is the number of nodes found when more than one was found.
	count int
}

// Error implements the error interface.
func (e *ExactlyOneError) Error() string {
	if e.empty {
		return "jsonpath: expected exactly one result but found none"
	}
	return fmt.Sprintf("jsonpath: expected exactly one result but found %v", e.count)
}

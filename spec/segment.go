package spec

import (
	"strings"
)

// Segment represents a single segment as defined in [RFC 9535 Section 1.4.2],
// consisting of a list of [Selector] values.
//
// [RFC 9535 Section 1.4.2]: https://www.rfc-editor.org/rfc/rfc9535.html#name-segments
type Segment struct {
	selectors  []Selector
	descendant bool
}

// Child creates and returns a [Segment] that uses sel to select values from a
// JSON object or array.
func Child(sel ...Selector) *Segment {
	return &Segment{selectors: sel}
}

// Descendant creates and returns a [Segment] that uses sel to select values
// from a JSON object or array or any of its descendant objects and arrays.
func Descendant(sel ...Selector) *Segment {
	return &Segment{selectors: sel, descendant: true}
}

// Selectors returns s's [Selector] values.
func (s *Segment) Selectors() []Selector {
	return s.selectors
}

// String returns a string representation of seg. A [Child] [Segment]
// formats as:
//
//	[<selectors>]
//
// A [Descendant] [Segment] formats as:
//
//	..[<selectors>]
func (s *Segment) String() string {
	buf := new(strings.Builder)
	if s.descendant {
		buf.WriteString("..")
	}
	buf.WriteByte('[')
	for i, sel := range s.selectors {
		if i > 0 {
			buf.WriteByte(',')
		}
		sel.writeTo(buf)
	}
	buf.WriteByte(']')
	return buf.String()
}

// Select selects and returns values from current or root, for each of s's
// selectors. Defined by the [Selector] interface.
func (s *Segment) Select(current, root any) []any {
	ret := make([]any, 0, len(s.selectors))
	for _, sel := range s.selectors {
		ret = append(ret, sel.Select(current, root)...)
	}
	if s.descendant {
		ret = append(ret, s.descend(current, root)...)
	}
	return ret
}

// SelectLocated selects and returns values as [LocatedNode] values from
// current or root for each of seg's selectors. Defined by the [Selector]
// interface.
func (s *Segment) SelectLocated(current, root any, parent NormalizedPath) []*LocatedNode {
	ret := []*LocatedNode{}
	for _, sel := range s.selectors {
		ret = append(ret, sel.SelectLocated(current, root, parent)...)
	}
	if s.descendant {
		ret = append(ret, s.descendLocated(current, root, parent)...)
	}
	return ret
}

// eachChild calls visit with the value of each array element or object
// member of current, in order. Does nothing if current is neither.
func eachChild(current any, visit func(v any)) {
	if arr, ok := current.([]any); ok {
		for _, v := range arr {
			visit(v)
		}
		return
	}
	if _, vals, ok := objectEntries(current); ok {
		for _, v := range vals {
			visit(v)
		}
	}
}

// descend recursively executes [Segment.Select] for each value in current
// and/or root and its descendants and returns the results.
func (s *Segment) descend(current, root any) []any {
	ret := []any{}
	eachChild(current, func(v any) {
		ret = append(ret, s.Select(v, root)...)
	})
	return ret
}

// descendLocated recursively executes [Segment.SelectLocated] for each value
// in current and/or root and its descendants and returns the results.
func (s *Segment) descendLocated(current, root any, parent NormalizedPath) []*LocatedNode {
	ret := []*LocatedNode{}
	if arr, ok := current.([]any); ok {
		for i, v := range arr {
			ret = append(ret, s.SelectLocated(v, root, append(parent.Clone(), Index(i)))...)
		}
		return ret
	}
	if keys, vals, ok := objectEntries(current); ok {
		for i, k := range keys {
			ret = append(ret, s.SelectLocated(vals[i], root, append(parent.Clone(), Name(k)))...)
		}
	}
	return ret
}

// isSingular returns true if the segment selects at most one node. Defined by
// the [Selector] interface.
func (s *Segment) isSingular() bool {
	if s.descendant || len(s.selectors) != 1 {
		return false
	}
	return s.selectors[0].isSingular()
}

// IsDescendant returns true if the segment is a [Descendant] selector that
// recursively select the children of a JSON value.
func (s *Segment) IsDescendant() bool { return s.descendant }

// Package spec defines the abstract syntax tree produced by parsing an RFC
// 9535 JSONPath query and the evaluation logic that walks it against a
// decoded JSON value. Selectors ([Name], [Index], [SliceSelector],
// [WildcardSelector], [FilterSelector]) compose into [Segment]s, which
// compose into a [PathQuery]; function extensions used inside filter
// expressions are described by [FuncExtension] and resolved through a
// [github.com/theory/jsonpath/registry.Registry] at parse time.
package spec

import "strings"

// PathQuery represents a JSONPath expression.
type PathQuery struct {
	segments []*Segment
	root     bool
}

// Query returns a new query consisting of segments.
func Query(root bool, segments ...*Segment) *PathQuery {
	return &PathQuery{root: root, segments: segments}
}

// Segments returns q's Segments.
func (q *PathQuery) Segments() []*Segment {
	return q.segments
}

// String returns a string representation of q.
func (q *PathQuery) String() string {
	buf := new(strings.Builder)
	if q.root {
		buf.WriteRune('$')
	} else {
		buf.WriteRune('@')
	}
	for _, s := range q.segments {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// pipeSegments threads an initial value through segs, feeding each
// segment's output back in as the next segment's input via step. Shared by
// Select and SelectLocated, which differ only in the node representation
// (raw value vs. [LocatedNode]) and how step invokes the segment.
func pipeSegments[T any](segs []*Segment, init T, step func(T, *Segment) []T) []T {
	res := []T{init}
	for _, seg := range segs {
		next := []T{}
		for _, v := range res {
			next = append(next, step(v, seg)...)
		}
		res = next
	}
	return res
}

// Select selects q.segments from current or root and returns the result.
// Returns just input if q has no segments. Defined by the [Selector]
// interface.
func (q *PathQuery) Select(current, root any) []any {
	start := current
	if q.root {
		start = root
	}
	return pipeSegments(q.segments, start, func(v any, seg *Segment) []any {
		return seg.Select(v, root)
	})
}

// SelectLocated selects q.segments from current or root and returns the
// results as [LocatedNode] values bearing their normalized paths.
func (q *PathQuery) SelectLocated(current, root any) []*LocatedNode {
	start := &LocatedNode{Path: NormalizedPath{}, Node: current}
	if q.root {
		start.Node = root
	}
	return pipeSegments(q.segments, start, func(v *LocatedNode, seg *Segment) []*LocatedNode {
		return seg.SelectLocated(v.Node, root, v.Path)
	})
}

// isSingular returns true if q always returns a singular value. Defined by
// the [Selector] interface.
func (q *PathQuery) isSingular() bool {
	for _, s := range q.segments {
		if s.descendant {
			return false
		}
		if !s.isSingular() {
			return false
		}
	}
	return true
}

// Singular returns a singularQuery variant of q if q [isSingular] returns true.
func (q *PathQuery) Singular() *SingularQueryExpr {
	if q.isSingular() {
		return singular(q)
	}

	return nil
}

// Expression returns a singularQuery variant of q if q [isSingular] returns
// true, and otherwise returns a NodesQueryExpr.
func (q *PathQuery) Expression() FuncExprArg {
	if q.isSingular() {
		return singular(q)
	}

	return NodesQuery(q)
}

// singular is a utility function that converts q to a singularQuery.
func singular(q *PathQuery) *SingularQueryExpr {
	selectors := make([]Selector, len(q.segments))
	for i, s := range q.segments {
		selectors[i] = s.selectors[0]
	}
	return &SingularQueryExpr{selectors: selectors, relative: !q.root}
}

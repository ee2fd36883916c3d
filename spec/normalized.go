package spec

import (
	"cmp"
	"strings"
)

// NormalSelector represents a single selector in a normalized path.
// Implemented by [Name] and [Index].
type NormalSelector interface {
	// writeNormalizedTo writes n to buf formatted as a [normalized path] element.
	//
	// [normalized path]: https://www.rfc-editor.org/rfc/rfc9535#section-2.7
	writeNormalizedTo(buf *strings.Builder)
}

// NormalizedPath represents a normalized path identifying a single value in a
// JSON query argument, as [defined by RFC 9535].
//
// [defined by RFC 9535]: https://www.rfc-editor.org/rfc/rfc9535#name-normalized-paths
type NormalizedPath []NormalSelector

// Normalized creates and returns a new NormalizedPath consisting of sel.
func Normalized(sel ...NormalSelector) NormalizedPath {
	return NormalizedPath(sel)
}

// String returns the string representation of np.
func (np NormalizedPath) String() string {
	buf := new(strings.Builder)
	buf.WriteRune('$')
	for _, e := range np {
		e.writeNormalizedTo(buf)
	}
	return buf.String()
}

// selectorRank orders a normalized-path element's type for [NormalizedPath.Compare]:
// an Index always sorts before a Name.
func selectorRank(s NormalSelector) int {
	if _, ok := s.(Index); ok {
		return 0
	}
	return 1
}

// Compare compares np to np2 and returns -1 if np is less than np2, 1 if it's
// greater than np2, and 0 if they're equal. Indexes are always considered
// less than names.
func (np NormalizedPath) Compare(np2 NormalizedPath) int {
	for i := range np {
		if i >= len(np2) {
			return 1
		}

		a, b := np[i], np2[i]
		if ra, rb := selectorRank(a), selectorRank(b); ra != rb {
			return cmp.Compare(ra, rb)
		}

		switch v1 := a.(type) {
		case Name:
			if x := cmp.Compare(v1, b.(Name)); x != 0 {
				return x
			}
		case Index:
			if x := cmp.Compare(v1, b.(Index)); x != 0 {
				return x
			}
		}
	}

	if len(np2) > len(np) {
		return -1
	}
	return 0
}

// MarshalText marshals np into text. It implements [encoding.TextMarshaler].
func (np NormalizedPath) MarshalText() ([]byte, error) {
	return []byte(np.String()), nil
}

// Clone returns a copy of np with its own backing array, so that appending
// to the copy cannot alias or corrupt np.
func (np NormalizedPath) Clone() NormalizedPath {
	return append(make(NormalizedPath, 0, len(np)), np...)
}

// LocatedNode pairs a value with its location within the JSON query argument
// from which it was selected.
type LocatedNode struct {
	// Node is the value selected from a JSON query argument.
	Node any `json:"node"`

	// Path is the normalized path that uniquely identifies the location of
	// Node in a JSON query argument.
	Path NormalizedPath `json:"path"`
}

// newLocatedNode creates and returns a new [LocatedNode]. It makes a copy of path.
func newLocatedNode(path NormalizedPath, node any) *LocatedNode {
	return &LocatedNode{
		Path: NormalizedPath(append(make([]NormalSelector, 0, len(path)), path...)),
		Node: node,
	}
}

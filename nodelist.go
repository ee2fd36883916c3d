package jsonpath

import (
	"iter"
	"slices"

	"github.com/theory/jsonpath/spec"
)

// NodeList is a list of nodes selected by a JSONPath query, as returned by
// [Path.Select].
type NodeList []any

// All returns an iterator over the nodes in list.
func (list NodeList) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, node := range list {
			if !yield(node) {
				return
			}
		}
	}
}

// Get returns the node at index i of list, and false if i is out of range.
func (list NodeList) Get(i int) (any, bool) {
	if i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

// First returns the first node in list, and false if list is empty.
func (list NodeList) First() (any, bool) {
	return list.Get(0)
}

// Last returns the last node in list, and false if list is empty.
func (list NodeList) Last() (any, bool) {
	return list.Get(len(list) - 1)
}

// AtMostOne returns the sole node in list. Returns an [AtMostOneError] if
// list contains more than one node. Returns nil and no error if list is
// empty.
func (list NodeList) AtMostOne() (any, error) {
	switch len(list) {
	case 0:
		return nil, nil
	case 1:
		return list[0], nil
	default:
		return nil, &AtMostOneError{len(list)}
	}
}

// ExactlyOne returns the sole node in list. Returns an [ExactlyOneError] if
// list is empty or contains more than one node.
func (list NodeList) ExactlyOne() (any, error) {
	switch len(list) {
	case 1:
		return list[0], nil
	case 0:
		return nil, &ExactlyOneError{empty: true}
	default:
		return nil, &ExactlyOneError{count: len(list)}
	}
}

// LocatedNodeList is a list of nodes selected by a JSONPath query paired
// with their normalized paths, as returned by [Path.SelectLocated].
type LocatedNodeList []*spec.LocatedNode

// All returns an iterator over the [spec.LocatedNode] values in list.
func (list LocatedNodeList) All() iter.Seq[*spec.LocatedNode] {
	return func(yield func(*spec.LocatedNode) bool) {
		for _, node := range list {
			if !yield(node) {
				return
			}
		}
	}
}

// Nodes returns an iterator over the nodes in list, without their paths.
func (list LocatedNodeList) Nodes() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, node := range list {
			if !yield(node.Node) {
				return
			}
		}
	}
}

// Paths returns an iterator over the normalized paths of the nodes in
// list.
func (list LocatedNodeList) Paths() iter.Seq[spec.NormalizedPath] {
	return func(yield func(spec.NormalizedPath) bool) {
		for _, node := range list {
			if !yield(node.Path) {
				return
			}
		}
	}
}

// Get returns the [spec.LocatedNode] at index i of list, and false if i is
// out of range.
func (list LocatedNodeList) Get(i int) (*spec.LocatedNode, bool) {
	if i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

// First returns the first [spec.LocatedNode] in list, and false if list is
// empty.
func (list LocatedNodeList) First() (*spec.LocatedNode, bool) {
	return list.Get(0)
}

// Last returns the last [spec.LocatedNode] in list, and false if list is
// empty.
func (list LocatedNodeList) Last() (*spec.LocatedNode, bool) {
	return list.Get(len(list) - 1)
}

// AtMostOne returns the sole [spec.LocatedNode] in list. Returns an
// [AtMostOneError] if list contains more than one node. Returns nil and no
// error if list is empty.
func (list LocatedNodeList) AtMostOne() (*spec.LocatedNode, error) {
	switch len(list) {
	case 0:
		return nil, nil
	case 1:
		return list[0], nil
	default:
		return nil, &AtMostOneError{len(list)}
	}
}

// ExactlyOne returns the sole [spec.LocatedNode] in list. Returns an
// [ExactlyOneError] if list is empty or contains more than one node.
func (list LocatedNodeList) ExactlyOne() (*spec.LocatedNode, error) {
	switch len(list) {
	case 1:
		return list[0], nil
	case 0:
		return nil, &ExactlyOneError{empty: true}
	default:
		return nil, &ExactlyOneError{count: len(list)}
	}
}

// Clone returns a copy of list with its own backing array, so that
// modifying the copy, or appending to it, cannot alias or corrupt list.
func (list LocatedNodeList) Clone() LocatedNodeList {
	return append(make(LocatedNodeList, 0, len(list)), list...)
}

// Deduplicate removes duplicate nodes from list, preserving the position of
// the first occurrence of each. Two nodes are considered duplicates when
// they share the same normalized path. It modifies and returns the slice
// underlying list, zeroing the elements beyond the returned length so they
// can be garbage collected.
func (list LocatedNodeList) Deduplicate() LocatedNodeList {
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, node := range list {
		key := node.Path.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, node)
	}

	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}

	return out
}

// Sort sorts list in place by the [spec.NormalizedPath.Compare] order of
// its nodes' paths.
func (list LocatedNodeList) Sort() {
	slices.SortFunc(list, func(a, b *spec.LocatedNode) int {
		return a.Path.Compare(b.Path)
	})
}

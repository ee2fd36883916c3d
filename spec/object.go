package spec

import "sort"

// OrderedObject is implemented by external JSON object representations that
// can report their own member iteration order. The wildcard selector,
// descendant segments, and the filter selector all consult this interface
// before falling back to a deterministic but alphabetical iteration of a
// bare map[string]any, since Go's native map type cannot recover the order
// in which a document declared its members.
//
// [github.com/theory/jsonpath/ordered.Object] is a ready-to-use
// implementation that preserves true document order when JSON is decoded
// with [github.com/theory/jsonpath/ordered.Unmarshal].
type OrderedObject interface {
	// Keys returns the object's member names in iteration order.
	Keys() []string
	// Value returns the value stored under key, and whether key is present.
	Value(key string) (any, bool)
}

// objectEntries returns the keys and values of val, in the iteration order
// this library guarantees for it, when val is a JSON object. The second
// return value is false when val is not a recognized object representation.
//
//   - If val implements [OrderedObject], its own Keys order is used.
//   - If val is a map[string]any, keys are sorted lexicographically, since
//     that's the only order Go's map type can deterministically offer.
func objectEntries(val any) (keys []string, vals []any, ok bool) {
	switch v := val.(type) {
	case OrderedObject:
		keys = v.Keys()
		vals = make([]any, len(keys))
		for i, k := range keys {
			vals[i], _ = v.Value(k)
		}
		return keys, vals, true
	case map[string]any:
		keys = make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals = make([]any, len(keys))
		for i, k := range keys {
			vals[i] = v[k]
		}
		return keys, vals, true
	default:
		return nil, nil, false
	}
}

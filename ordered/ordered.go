// Package ordered provides an insertion-order-preserving JSON object type
// and a decoder that reconstructs a source document's own member order,
// giving callers a concrete way to satisfy [github.com/theory/jsonpath/spec.OrderedObject]
// when the document-declared order of object members matters to a query.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a JSON object representation that preserves the order in which
// its members were added, whether by [Object.Set] or by [Unmarshal]
// decoding a JSON document. It implements
// [github.com/theory/jsonpath/spec.OrderedObject].
type Object struct {
	keys []string
	vals map[string]any
}

// New returns a new, empty Object.
func New() *Object {
	return &Object{keys: []string{}, vals: map[string]any{}}
}

// Set stores val under key, appending key to the end of o's key order if
// it's not already present, and returns o for chaining.
func (o *Object) Set(key string, val any) *Object {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
	return o
}

// Keys returns o's member names in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Value returns the value stored under key, and whether key is present in
// o.
func (o *Object) Value(key string) (any, bool) {
	val, ok := o.vals[key]
	return val, ok
}

// Len returns the number of members in o.
func (o *Object) Len() int {
	return len(o.keys)
}

// MarshalJSON encodes o as a JSON object, writing its members in o's
// iteration order. It implements [json.Marshaler].
func (o *Object) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(o.vals[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal parses data as a JSON document and returns the decoded value.
// Every JSON object in the document, at any depth, decodes into an *Object
// that preserves the member order declared in data, rather than the
// unordered map[string]any that [json.Unmarshal] would produce. JSON
// arrays decode into []any and scalars decode into the same Go types
// [json.Unmarshal] uses.
func Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	val, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("ordered: unexpected trailing data after top-level value")
	}
	return val, nil
}

// decodeValue reads and decodes the next JSON value from dec.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

// decodeToken decodes the value introduced by tok, reading further tokens
// from dec if tok opens an object or array.
func decodeToken(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		// string, float64, json.Number, bool, or nil.
		return tok, nil
	}

	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		return decodeArray(dec)
	default:
		return nil, fmt.Errorf("ordered: unexpected delimiter %q", delim)
	}
}

// decodeObject decodes a JSON object from dec, whose opening '{' has
// already been consumed, into an order-preserving *Object.
func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("ordered: expected object key, found %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// decodeArray decodes a JSON array from dec, whose opening '[' has already
// been consumed, into a []any.
func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

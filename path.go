// Package jsonpath implements RFC 9535 JSONPath query expressions.
package jsonpath

import (
	"github.com/theory/jsonpath/parser"
	"github.com/theory/jsonpath/registry"
	"github.com/theory/jsonpath/spec"
)

// Path represents a [RFC 9535] JSONPath query.
//
// [RFC 9535]: https://www.rfc-editor.org/rfc/rfc9535.html
type Path struct {
	q *spec.PathQuery
}

// New creates and returns a new Path consisting of q.
func New(q *spec.PathQuery) *Path {
	return &Path{q: q}
}

// String returns a string representation of p.
func (p *Path) String() string {
	return p.q.String()
}

// Query returns p's root Query.
func (p *Path) Query() *spec.PathQuery {
	return p.q
}

// Select executes the p query against input and returns the results.
func (p *Path) Select(input any) NodeList {
	return NodeList(p.q.Select(nil, input))
}

// SelectLocated executes the p query against input and returns the results
// as a list of nodes paired with their normalized paths.
func (p *Path) SelectLocated(input any) LocatedNodeList {
	return LocatedNodeList(p.q.SelectLocated(nil, input))
}

// MarshalText marshals p into text. It implements [encoding.TextMarshaler].
func (p *Path) MarshalText() ([]byte, error) {
	return []byte(p.q.String()), nil
}

// UnmarshalText parses text as a JSONPath query and stores the result in p,
// using the default function extension [registry.Registry]. It implements
// [encoding.TextUnmarshaler].
func (p *Path) UnmarshalText(text []byte) error {
	q, err := parser.Parse(registry.New(), string(text))
	if err != nil {
		return err
	}
	p.q = q
	return nil
}

// MarshalBinary marshals p into text. It implements
// [encoding.BinaryMarshaler].
func (p *Path) MarshalBinary() ([]byte, error) {
	return p.MarshalText()
}

// UnmarshalBinary parses data as a JSONPath query and stores the result in
// p, using the default function extension [registry.Registry]. It
// implements [encoding.BinaryUnmarshaler].
func (p *Path) UnmarshalBinary(data []byte) error {
	return p.UnmarshalText(data)
}

// Option configures a [Parser] created by [NewParser].
type Option func(*Parser)

// WithRegistry configures a [Parser] to use reg to resolve function
// extensions referenced by filter expressions, instead of the default
// registry returned by [registry.New].
func WithRegistry(reg *registry.Registry) Option {
	return func(p *Parser) {
		p.reg = reg
	}
}

// Parser parses JSONPath strings into [Path] values. Use [NewParser] to
// create a Parser configured with a custom function extension [Option],
// or the package-level [Parse] and [MustParse] functions to parse with
// the default configuration.
type Parser struct {
	reg *registry.Registry
}

// NewParser creates a new Parser. By default it resolves function
// extensions via the registry returned by [registry.New]; pass
// [WithRegistry] to use a different one.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.reg == nil {
		p.reg = registry.New()
	}
	return p
}

// Parse parses path, a JSONPath query string, into a [Path]. Returns an
// error satisfying `errors.Is(err, ErrPathParse)` on parse failure.
func (p *Parser) Parse(path string) (*Path, error) {
	q, err := parser.Parse(p.reg, path)
	if err != nil {
		return nil, err
	}
	return New(q), nil
}

// MustParse parses path, a JSONPath query string, into a [Path]. It panics
// on parse failure.
func (p *Parser) MustParse(path string) *Path {
	path2, err := p.Parse(path)
	if err != nil {
		panic(err)
	}
	return path2
}

// Parse parses path, a JSONPath query string, into a [Path], using the
// default function extension [registry.Registry]. Returns an error
// satisfying `errors.Is(err, ErrPathParse)` on parse failure.
func Parse(path string) (*Path, error) {
	return NewParser().Parse(path)
}

// MustParse parses path, a JSONPath query string, into a [Path], using the
// default function extension [registry.Registry]. It panics on parse
// failure.
func MustParse(path string) *Path {
	return NewParser().MustParse(path)
}

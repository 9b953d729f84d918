// Package fielddef reads field definition files, which name the regex
// literal each form field is validated against:
//
//	# comment
//	field passport_us = /^(?:[A-Z][0-9]{8}|[0-9]{9}|[A-Z][0-9]{7})$/ "US passport";
//	field pan_in = /^[A-Z]{5}[0-9]{4}[A-Z]$/;
package fielddef

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coregx/incregex/pattern"
)

// ErrDuplicate indicates a field defined twice in one file.
var ErrDuplicate = errors.New("duplicate field")

var defLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Regex", Pattern: `/(?:\\.|\[(?:\\.|[^\]\\\n])*\]|[^/\\\n\[])+/[a-z]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[;=]`},
})

type file struct {
	Decls []*decl `parser:"@@*"`
}

type decl struct {
	Pos         lexer.Position
	Name        string `parser:"'field' @Ident '='"`
	Literal     string `parser:"@Regex"`
	Description string `parser:"@String? ';'"`
}

var parser = participle.MustBuild[file](
	participle.Lexer(defLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// Field is one field definition.
type Field struct {
	Name        string
	Pattern     pattern.Pattern
	Description string

	// Pos is where the definition starts.
	Pos lexer.Position
}

// Error reports a definition that parsed but is not usable.
type Error struct {
	Pos   lexer.Position
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: field %q: %v", e.Pos, e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Set is an immutable collection of fields keyed by name.
type Set struct {
	fields map[string]Field
}

// Parse reads definitions from r. name is used in error positions.
//
// Each regex literal must be well formed and carry known flags; its source
// is not compiled here, so a bad source surfaces when the field is first
// validated.
func Parse(name string, r io.Reader) (*Set, error) {
	f, err := parser.Parse(name, r)
	if err != nil {
		return nil, err
	}
	return newSet(f)
}

// ParseString is Parse for in-memory definitions.
func ParseString(name, src string) (*Set, error) {
	f, err := parser.ParseString(name, src)
	if err != nil {
		return nil, err
	}
	return newSet(f)
}

// Load reads the definition file at path.
func Load(path string) (*Set, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fielddef: %w", err)
	}
	defer fh.Close()
	return Parse(path, fh)
}

func newSet(f *file) (*Set, error) {
	s := &Set{fields: make(map[string]Field, len(f.Decls))}
	for _, d := range f.Decls {
		if prev, ok := s.fields[d.Name]; ok {
			return nil, &Error{
				Pos:   d.Pos,
				Field: d.Name,
				Err:   fmt.Errorf("%w, first defined at %s", ErrDuplicate, prev.Pos),
			}
		}
		p, err := pattern.ParseLiteral(d.Literal)
		if err != nil {
			return nil, &Error{Pos: d.Pos, Field: d.Name, Err: err}
		}
		s.fields[d.Name] = Field{
			Name:        d.Name,
			Pattern:     p,
			Description: d.Description,
			Pos:         d.Pos,
		}
	}
	return s, nil
}

// Lookup returns the field called name.
func (s *Set) Lookup(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Names returns the field names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Fields returns the fields sorted by name.
func (s *Set) Fields() []Field {
	names := s.Names()
	out := make([]Field, len(names))
	for i, name := range names {
		out[i] = s.fields[name]
	}
	return out
}

// Len returns the number of fields.
func (s *Set) Len() int {
	return len(s.fields)
}

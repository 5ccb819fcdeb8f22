package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// CatalogFile is the parse tree of an .fxcat catalog.
//
//	# comment
//	effect blur "Gaussian Blur" {
//		radius: float [0, 64] = 4;
//		center: xy = (0.5, 0.5);
//		invert: bool = false;
//	}
type CatalogFile struct {
	Effects []*EffectDecl `parser:"@@*"`
}

// EffectDecl is one effect block.
type EffectDecl struct {
	Name   string       `parser:"\"effect\" @Ident"`
	Label  string       `parser:"@String?"`
	Params []*ParamDecl `parser:"\"{\" @@* \"}\""`
}

// ParamDecl is one parameter line.
type ParamDecl struct {
	Name    string     `parser:"@Ident \":\""`
	Type    string     `parser:"@( \"float\" | \"int\" | \"bool\" | \"xy\" | \"string\" )"`
	Range   *RangeDecl `parser:"@@?"`
	Default *ValueDecl `parser:"( \"=\" @@ )? \";\""`
}

// RangeDecl is an inclusive [min, max] bound.
type RangeDecl struct {
	Min float64 `parser:"\"[\" @Number \",\""`
	Max float64 `parser:"@Number \"]\""`
}

// ValueDecl is a default value literal.
type ValueDecl struct {
	Pair   *PairDecl `parser:"  @@"`
	Number *float64  `parser:"| @Number"`
	Bool   *string   `parser:"| @( \"true\" | \"false\" )"`
	Text   *string   `parser:"| @String"`
}

// PairDecl is an (x, y) literal.
type PairDecl struct {
	X float64 `parser:"\"(\" @Number \",\""`
	Y float64 `parser:"@Number \")\""`
}

// Parser reads .fxcat catalogs.
type Parser struct {
	parser *participle.Parser[CatalogFile]
}

// NewParser creates a new catalog parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[CatalogFile](
		participle.Lexer(CatalogLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a catalog from a reader
func (p *Parser) Parse(r io.Reader) (*Catalog, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return file.Catalog()
}

// ParseString parses a catalog from a string
func (p *Parser) ParseString(input string) (*Catalog, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return file.Catalog()
}

// ParseFile parses a catalog from a file path
func (p *Parser) ParseFile(filename string) (*Catalog, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Catalog converts the parse tree into a Catalog, filling in type defaults.
func (f *CatalogFile) Catalog() (*Catalog, error) {
	c := NewCatalog()
	for _, e := range f.Effects {
		spec := EffectSpec{Name: e.Name, Label: e.Label}
		for _, d := range e.Params {
			p, err := d.spec()
			if err != nil {
				return nil, fmt.Errorf("effect %s: %w", e.Name, err)
			}
			if _, dup := spec.Param(p.Name); dup {
				return nil, fmt.Errorf("effect %s: duplicate parameter %q", e.Name, p.Name)
			}
			spec.Params = append(spec.Params, p)
		}
		c.Add(spec)
	}
	return c, nil
}

func (d *ParamDecl) spec() (ParamSpec, error) {
	p := ParamSpec{Name: d.Name, Type: ParamType(d.Type), Min: 0, Max: 1}
	if d.Range != nil {
		if d.Range.Max < d.Range.Min {
			return p, fmt.Errorf("parameter %s: range [%g, %g] is inverted", d.Name, d.Range.Min, d.Range.Max)
		}
		p.Min, p.Max = d.Range.Min, d.Range.Max
	}

	v := d.Default
	switch p.Type {
	case ParamFloat:
		p.Default = p.Min
		if v != nil && v.Number != nil {
			p.Default = *v.Number
		}
	case ParamInt:
		p.Default = int(p.Min)
		if v != nil && v.Number != nil {
			p.Default = int(*v.Number)
		}
	case ParamBool:
		p.Default = false
		if v != nil && v.Bool != nil {
			p.Default = *v.Bool == "true"
		}
	case ParamXY:
		p.Default = [2]float64{0.5, 0.5}
		if v != nil && v.Pair != nil {
			p.Default = [2]float64{v.Pair.X, v.Pair.Y}
		}
	case ParamString:
		p.Default = ""
		if v != nil && v.Text != nil {
			p.Default = *v.Text
		}
	}
	if v != nil && !v.matches(p.Type) {
		return p, fmt.Errorf("parameter %s: default does not match type %s", d.Name, p.Type)
	}
	return p, nil
}

func (v *ValueDecl) matches(t ParamType) bool {
	switch t {
	case ParamFloat, ParamInt:
		return v.Number != nil
	case ParamBool:
		return v.Bool != nil
	case ParamXY:
		return v.Pair != nil
	case ParamString:
		return v.Text != nil
	}
	return false
}

// LoadFile reads a catalog, choosing the format by extension: .sexp files
// are s-expressions, everything else is the .fxcat grammar.
func LoadFile(path string) (*Catalog, error) {
	if strings.EqualFold(filepath.Ext(path), ".sexp") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		return ParseSexp(string(data))
	}

	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}

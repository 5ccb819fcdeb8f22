package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/sexp"
)

// ParseSexp reads a catalog written as s-expressions:
//
//	(effect blur
//	  (label Gaussian Blur)
//	  (param radius float (range 0 64) (default 4))
//	  (param center xy (default 0.5 0.5)))
//
// Top-level forms other than effect are ignored, as are a wrapping
// (catalog ...) form's non-effect children.
func ParseSexp(input string) (*Catalog, error) {
	forms, err := sexp.ParseString(input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	c := NewCatalog()
	for _, form := range forms {
		if err := collectEffects(c, form); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func collectEffects(c *Catalog, form sexp.Sexp) error {
	items := children(form)
	if len(items) == 0 {
		return nil
	}
	switch atom(items[0]) {
	case "catalog":
		for _, child := range items[1:] {
			if err := collectEffects(c, child); err != nil {
				return err
			}
		}
	case "effect":
		spec, err := effectFromSexp(items)
		if err != nil {
			return err
		}
		c.Add(spec)
	}
	return nil
}

func effectFromSexp(items []sexp.Sexp) (EffectSpec, error) {
	if len(items) < 2 || !items[1].IsLeaf() {
		return EffectSpec{}, fmt.Errorf("effect form needs a name")
	}
	spec := EffectSpec{Name: atom(items[1])}

	for _, item := range items[2:] {
		fields := children(item)
		if len(fields) == 0 {
			continue
		}
		switch atom(fields[0]) {
		case "label":
			spec.Label = joinAtoms(fields[1:])
		case "param":
			p, err := paramFromSexp(fields)
			if err != nil {
				return spec, fmt.Errorf("effect %s: %w", spec.Name, err)
			}
			spec.Params = append(spec.Params, p)
		}
	}
	return spec, nil
}

func paramFromSexp(fields []sexp.Sexp) (ParamSpec, error) {
	if len(fields) < 3 {
		return ParamSpec{}, fmt.Errorf("param form needs a name and type")
	}
	d := &ParamDecl{Name: atom(fields[1]), Type: atom(fields[2])}
	switch ParamType(d.Type) {
	case ParamFloat, ParamInt, ParamBool, ParamXY, ParamString:
	default:
		return ParamSpec{}, fmt.Errorf("parameter %s: unknown type %q", d.Name, d.Type)
	}

	for _, opt := range fields[3:] {
		kv := children(opt)
		if len(kv) == 0 {
			continue
		}
		args := kv[1:]
		switch atom(kv[0]) {
		case "range":
			if len(args) != 2 {
				return ParamSpec{}, fmt.Errorf("parameter %s: range needs min and max", d.Name)
			}
			lo, err1 := strconv.ParseFloat(atom(args[0]), 64)
			hi, err2 := strconv.ParseFloat(atom(args[1]), 64)
			if err1 != nil || err2 != nil {
				return ParamSpec{}, fmt.Errorf("parameter %s: bad range", d.Name)
			}
			d.Range = &RangeDecl{Min: lo, Max: hi}
		case "default":
			v, err := valueFromAtoms(ParamType(d.Type), args)
			if err != nil {
				return ParamSpec{}, fmt.Errorf("parameter %s: %w", d.Name, err)
			}
			d.Default = v
		}
	}
	return d.spec()
}

func valueFromAtoms(t ParamType, args []sexp.Sexp) (*ValueDecl, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty default")
	}
	switch t {
	case ParamFloat, ParamInt:
		f, err := strconv.ParseFloat(atom(args[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", atom(args[0]))
		}
		return &ValueDecl{Number: &f}, nil
	case ParamBool:
		b := atom(args[0])
		if b != "true" && b != "false" {
			return nil, fmt.Errorf("bad bool %q", b)
		}
		return &ValueDecl{Bool: &b}, nil
	case ParamXY:
		if len(args) != 2 {
			return nil, fmt.Errorf("xy default needs two numbers")
		}
		x, err1 := strconv.ParseFloat(atom(args[0]), 64)
		y, err2 := strconv.ParseFloat(atom(args[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("bad xy default")
		}
		return &ValueDecl{Pair: &PairDecl{X: x, Y: y}}, nil
	default:
		s := joinAtoms(args)
		return &ValueDecl{Text: &s}, nil
	}
}

// children flattens a list form into its elements. Atoms have none.
func children(s sexp.Sexp) []sexp.Sexp {
	var out []sexp.Sexp
	for cur := s; cur != nil && !cur.IsLeaf(); cur = cur.Tail() {
		if cur.LeafCount() == 0 {
			break
		}
		head := cur.Head()
		if head == nil {
			break
		}
		out = append(out, head)
	}
	return out
}

func atom(s sexp.Sexp) string {
	if s == nil || !s.IsLeaf() {
		return ""
	}
	if sym, ok := s.(sexp.Symbol); ok {
		return strings.Trim(string(sym), `"`)
	}
	return strings.Trim(fmt.Sprint(s), `"`)
}

func joinAtoms(items []sexp.Sexp) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, atom(it))
	}
	return strings.Join(parts, " ")
}

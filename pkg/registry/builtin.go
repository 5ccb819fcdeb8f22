package registry

import (
	_ "embed"
	"sync"
)

//go:embed builtin.fxcat
var builtinSource string

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
)

// Builtin returns the catalog compiled into the binary. The returned
// catalog is shared; use Merge into a fresh catalog before modifying.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		p, err := NewParser()
		if err != nil {
			panic(err)
		}
		c, err := p.ParseString(builtinSource)
		if err != nil {
			panic("registry: builtin catalog: " + err.Error())
		}
		builtinCatalog = c
	})
	return builtinCatalog
}

// Load returns the builtin catalog extended with the effects in path.
// An empty path returns a copy of the builtin catalog.
func Load(path string) (*Catalog, error) {
	c := NewCatalog()
	c.Merge(Builtin())
	if path == "" {
		return c, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	c.Merge(extra)
	return c, nil
}

// Package schema generates JSON schemas for scout configuration kinds.
package schema

import (
	"encoding/json"
	"fmt"
	"path"
	"reflect"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ModulePath is the import path of the scout module.
const ModulePath = "github.com/macropower/scout"

// Generator reflects a JSON schema from a Go value.
type Generator struct {
	value    any
	id       string
	packages []string
}

// GeneratorOpt is a functional option for configuring a [Generator].
type GeneratorOpt func(*Generator)

// WithID sets the schema's $id.
func WithID(id string) GeneratorOpt {
	return func(g *Generator) {
		g.id = id
	}
}

// WithComments uses the Go doc comments of the given package directories as
// descriptions. Directories are relative to the module root, which must be
// the working directory.
func WithComments(packages ...string) GeneratorOpt {
	return func(g *Generator) {
		g.packages = packages
	}
}

// NewGenerator creates a new [Generator] for v.
func NewGenerator(v any, opts ...GeneratorOpt) *Generator {
	g := &Generator{value: v}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns the indented JSON schema.
func (g *Generator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		Namer:          qualifiedName,
	}

	for _, pkg := range g.packages {
		err := r.AddGoComments(ModulePath, "./"+path.Clean(pkg))
		if err != nil {
			return nil, fmt.Errorf("add go comments for %s: %w", pkg, err)
		}
	}

	s := r.Reflect(g.value)
	if g.id != "" {
		s.ID = jsonschema.ID(g.id)
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}

// qualifiedName prefixes generic type names such as Config with their
// package name, so definitions from different packages do not collide.
func qualifiedName(t reflect.Type) string {
	if t.Name() != "Config" {
		return ""
	}

	return cases.Title(language.Und).String(path.Base(t.PkgPath())) + t.Name()
}

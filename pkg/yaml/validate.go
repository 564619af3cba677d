package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Validator checks decoded documents against a JSON schema.
type Validator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

// NewValidator compiles the JSON schema in schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{
		schema:  schema,
		printer: message.NewPrinter(language.English),
	}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data against the schema. A violation is returned as an
// [*Error] for the most specific failing node: its Path points at that node
// and its message is that node's alone, not the whole cause tree.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	leaf := deepest(verr)

	return NewError(
		errors.New(leaf.ErrorKind.LocalizedString(v.printer)),
		WithPath(toPath(leaf.InstanceLocation)),
	)
}

// deepest returns the cause with the longest instance location, preferring
// causes over their parents at equal depth.
func deepest(verr *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := verr

	for _, cause := range verr.Causes {
		c := deepest(cause)
		if len(c.InstanceLocation) >= len(best.InstanceLocation) {
			best = c
		}
	}

	return best
}

// toPath converts a JSON pointer style location to a [*yaml.Path]. Numeric
// segments are sequence indexes.
func toPath(location []string) *yaml.Path {
	b := NewPathBuilder().Root()

	for _, seg := range location {
		if i, err := strconv.ParseUint(seg, 10, 0); err == nil {
			b = b.Index(uint(i))

			continue
		}

		b = b.Child(seg)
	}

	return b.Build()
}

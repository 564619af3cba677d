// Package yaml wraps [github.com/goccy/go-yaml] for scout's configuration
// documents.
//
// Decoding errors, schema violations and semantic errors found after decoding
// are all reported as [*Error], which points at a YAML path or token and can
// render the offending lines of the source document.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// encodeOptions are used for every document scout writes, so that generated
// and merged files share one layout.
var encodeOptions = []yaml.EncodeOption{
	yaml.Indent(2),
	yaml.IndentSequence(true),
}

// Unmarshal decodes the first document in data into v. An empty document
// leaves v untouched. Syntax and type errors are returned as an [*Error]
// that carries the offending token and data as its source.
func Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.AllowDuplicateMapKey())

	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var syntaxErr yaml.Error
	if !errors.As(err, &syntaxErr) {
		return err //nolint:wrapcheck // Not a positional error.
	}

	return NewError(errors.New(syntaxErr.GetMessage()),
		WithToken(syntaxErr.GetToken()),
		WithSource(data),
	)
}

// Marshal encodes v with scout's YAML layout.
func Marshal(v any) ([]byte, error) {
	return yaml.MarshalWithOptions(v, encodeOptions...) //nolint:wrapcheck // Callers add context.
}

// Write encodes v to w with scout's YAML layout.
func Write(w io.Writer, v any) error {
	b, err := Marshal(v)
	if err != nil {
		return err
	}

	_, err = w.Write(b)

	return err //nolint:wrapcheck // Callers add context.
}

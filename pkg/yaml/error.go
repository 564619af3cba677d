package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

// NewPathBuilder returns a builder for YAML paths such as `$.rules[0].agents`.
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is a configuration error located in a YAML document, either by the
// [*yaml.Path] of the offending node or by the [*token.Token] the parser
// stopped at. With a Source it renders the surrounding lines.
type Error struct {
	Err     error
	Path    *yaml.Path
	Token   *token.Token
	Source  []byte
	Colored bool
}

// ErrorOpt sets a field of an [Error].
type ErrorOpt func(e *Error)

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Annotate applies opts to the [*Error] wrapped by err. Other errors are
// returned unchanged. Messages of wrappers created with [fmt.Errorf] are
// fixed when they are created, so annotate before wrapping.
func Annotate(err error, opts ...ErrorOpt) error {
	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	for _, opt := range opts {
		opt(yamlErr)
	}

	return err
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

// WithSource sets the document the error refers to. An existing source is
// kept, so the innermost document wins when errors are annotated twice.
func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		if e.Source == nil {
			e.Source = source
		}
	}
}

// WithColor enables ANSI colors in the rendered source.
func WithColor(colored bool) ErrorOpt {
	return func(e *Error) {
		e.Colored = colored
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}

	tk := e.locate()
	if tk == nil {
		if e.Path == nil {
			return e.Err.Error()
		}

		return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
	}

	var pp printer.Printer

	return fmt.Sprintf("[%d:%d] %v:\n%s",
		tk.Position.Line, tk.Position.Column, e.Err,
		pp.PrintErrorToken(tk, e.Colored),
	)
}

// locate returns the token to render, or nil when the error cannot be
// placed in the source.
func (e *Error) locate() *token.Token {
	if e.Token != nil {
		return e.Token
	}

	if e.Path == nil || len(e.Source) == 0 {
		return nil
	}

	file, err := parser.ParseBytes(e.Source, 0)
	if err == nil {
		var tk *token.Token

		tk, err = tokenAt(file, e.Path)
		if err == nil {
			return tk
		}
	}

	slog.Debug("could not place error in source",
		slog.String("path", e.Path.String()),
		slog.Any("error", err),
	)

	return nil
}

// tokenAt returns the token for path in file. For mapping values it returns
// the key, which reads better in an error than the value does.
func tokenAt(file *ast.File, path *yaml.Path) (*token.Token, error) {
	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter by path: %w", err)
	}

	p := path.String()

	i := strings.LastIndexAny(p, ".[")
	if i <= 0 || p[i] == '[' {
		// Root or sequence element: there is no key.
		return node.GetToken(), nil
	}

	parentPath, err := yaml.PathString(p[:i])
	if err != nil {
		return node.GetToken(), nil //nolint:nilerr // Fall back to the value.
	}

	parent, err := parentPath.FilterFile(file)
	if err != nil {
		return node.GetToken(), nil //nolint:nilerr // Fall back to the value.
	}

	mapping, ok := parent.(*ast.MappingNode)
	if !ok {
		return node.GetToken(), nil
	}

	key := p[i+1:]
	for _, mv := range mapping.Values {
		if mv.Key.String() == key {
			return mv.Key.GetToken(), nil
		}
	}

	return node.GetToken(), nil
}

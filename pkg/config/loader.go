package config

import (
	"github.com/macropower/scout/api"
	"github.com/macropower/scout/api/v1beta1"
	"github.com/macropower/scout/pkg/yaml"
)

// Validator checks an untyped document, usually against a JSON schema.
type Validator interface {
	Validate(data any) error
}

// validatable is implemented by objects with checks beyond the schema, such
// as compiling expressions or resolving agent references.
type validatable interface {
	Validate() error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
	colored   bool
}

// WithValidator replaces the kind's default validator.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithColor enables ANSI colors in the source lines of errors.
func WithColor(colored bool) LoaderOpt {
	return func(o *loaderOptions) {
		o.colored = colored
	}
}

// Loader turns one document into a validated object of kind T.
type Loader[T v1beta1.Object] struct {
	newFunc   func() T
	validator Validator
	data      []byte
	colored   bool
}

// NewLoaderFromBytes creates a [Loader] for data. newFunc returns an empty
// object of the kind, such as configs.New.
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	validator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	o := loaderOptions{validator: validator}
	for _, opt := range opts {
		opt(&o)
	}

	return &Loader[T]{
		newFunc:   newFunc,
		validator: o.validator,
		data:      data,
		colored:   o.colored,
	}
}

// NewLoaderFromFile creates a [Loader] for the file at path. A missing file
// is reported with an error matching [fs.ErrNotExist].
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	validator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Keep fs errors matchable.
	}

	return NewLoaderFromBytes(data, newFunc, validator, opts...), nil
}

// LoadFile reads, validates and decodes the file at path in one step.
//
//nolint:ireturn // T is the caller's concrete kind.
func LoadFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	validator Validator,
	opts ...LoaderOpt,
) (T, error) {
	l, err := NewLoaderFromFile(path, newFunc, validator, opts...)
	if err != nil {
		var zero T

		return zero, err
	}

	return l.Load()
}

// Validate checks the document against the validator without decoding it
// into T.
func (l *Loader[T]) Validate() error {
	var doc any

	err := yaml.Unmarshal(l.data, &doc)
	if err == nil && l.validator != nil {
		err = l.validator.Validate(doc)
	}

	return l.WrapError(err)
}

// Load validates the document, decodes it into T, fills defaults and runs
// the object's own validation.
//
//nolint:ireturn // T is the caller's concrete kind.
func (l *Loader[T]) Load() (T, error) {
	var zero T

	err := l.Validate()
	if err != nil {
		return zero, err
	}

	obj := l.newFunc()

	err = yaml.Unmarshal(l.data, obj)
	if err != nil {
		return zero, l.WrapError(err)
	}

	obj.EnsureDefaults()

	if v, ok := any(obj).(validatable); ok {
		err = v.Validate()
		if err != nil {
			return zero, l.WrapError(err)
		}
	}

	return obj, nil
}

// WrapError points err at this loader's document when it carries a YAML
// path or token. Use it for errors found after loading, such as when a
// project config is layered over the global config.
func (l *Loader[T]) WrapError(err error) error {
	if err == nil {
		return nil
	}

	return yaml.Annotate(err, yaml.WithSource(l.data), yaml.WithColor(l.colored))
}

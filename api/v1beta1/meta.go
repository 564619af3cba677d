// Package v1beta1 contains the v1beta1 API types for scout configuration.
package v1beta1

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all scout configuration kinds.
const APIVersion = "scout.jacobcolvin.com/v1beta1"

// ValidAPIVersions contains all valid API versions.
var ValidAPIVersions = []string{APIVersion}

// TypeMeta identifies the kind of a configuration document.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// NewTypeMeta returns a [TypeMeta] of the given kind at the current [APIVersion].
func NewTypeMeta(kind string) TypeMeta {
	return TypeMeta{
		APIVersion: APIVersion,
		Kind:       kind,
	}
}

// GetAPIVersion returns the API version.
func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

// GetKind returns the kind.
func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Object is the interface that all config types implement.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of a
// generated schema to the given values. It panics if either property is
// missing, since that means the type does not embed [TypeMeta].
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	restrictToConsts(jss, "apiVersion", "API Version", apiVersions)
	restrictToConsts(jss, "kind", "Kind", kinds)
}

func restrictToConsts(jss *jsonschema.Schema, property, title string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(fmt.Sprintf("%s property not found in schema", property))
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	jss.Properties.Set(property, prop)
}

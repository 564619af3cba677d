// Package projectconfigs provides the ProjectConfig type, a per-repository
// overlay of the global scout configuration.
package projectconfigs

import (
	"fmt"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/scout/api"
	"github.com/macropower/scout/api/v1beta1"
	"github.com/macropower/scout/pkg/invoke"
	"github.com/macropower/scout/pkg/registry"
	"github.com/macropower/scout/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen --kind project

// Kind is the kind of project configuration documents.
const Kind = "ProjectConfig"

var (
	// FileNames contains the valid names for project configuration files,
	// relative to the project directory.
	FileNames = []string{
		".scout.yaml",
		filepath.Join(".claude", "scout.yaml"),
	}

	//go:embed projectconfigs.v1beta1.json
	projectSchemaJSON []byte

	// DefaultValidator validates project configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/projectconfigs.v1beta1.json", projectSchemaJSON)

	// ValidKinds contains the valid kind values for project configurations.
	ValidKinds = []string{Kind}

	// Compile-time interface checks.
	_ v1beta1.Object = (*ProjectConfig)(nil)
)

// ProjectConfig adds agents and rules to the global configuration for one
// project, and may replace its invoke command.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type ProjectConfig struct {
	Registry *registry.Registry `json:",inline" yaml:",inline"`
	// Invoke replaces the global invoke command inside this project.
	Invoke           *invoke.Config `json:"invoke,omitempty" jsonschema:"title=Invoke"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new, empty [ProjectConfig].
func New() *ProjectConfig {
	return &ProjectConfig{
		TypeMeta: v1beta1.NewTypeMeta(Kind),
		Registry: &registry.Registry{},
	}
}

// EnsureDefaults initializes nil fields. Project configs never receive the
// built-in agents, since they are layered over the global config.
func (c *ProjectConfig) EnsureDefaults() {
	if c.Registry == nil {
		c.Registry = &registry.Registry{}
	}
}

// Validate checks everything that can be checked without the global config.
// Agent references are resolved when the project is layered over it.
func (c *ProjectConfig) Validate() error {
	if c.Registry != nil {
		err := c.Registry.Compile()
		if err != nil {
			return err //nolint:wrapcheck // Loaders annotate the located error.
		}
	}

	if c.Invoke != nil {
		err := c.Invoke.Compile()
		if err != nil {
			return yaml.NewError(
				fmt.Errorf("invalid invoke config: %w", err),
				yaml.WithPath(yaml.NewPathBuilder().Root().Child("invoke").Build()),
			)
		}
	}

	return nil
}

func (c ProjectConfig) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// Find searches for a project config file in targetPath and each of its
// parents. It returns an empty path when there is none.
func Find(targetPath string) (string, error) {
	path, err := api.FindConfigFile(targetPath, FileNames)
	if err != nil {
		return "", fmt.Errorf("find project config: %w", err)
	}

	return path, nil
}

// ProjectDir returns the project directory a config file at path belongs to.
func ProjectDir(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == ".claude" {
		return filepath.Dir(dir)
	}

	return dir
}

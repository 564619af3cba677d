// Package configs provides the global Configuration type for scout.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/scout/api"
	"github.com/macropower/scout/api/v1beta1"
	"github.com/macropower/scout/api/v1beta1/projectconfigs"
	"github.com/macropower/scout/pkg/invoke"
	"github.com/macropower/scout/pkg/registry"
	"github.com/macropower/scout/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen --kind config

// Kind is the kind of global configuration documents.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates global configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config is the global scout configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	Registry *registry.Registry `json:",inline" yaml:",inline"`
	// Invoke configures the command launched for the suggested agent.
	Invoke           *invoke.Config `json:"invoke,omitempty" jsonschema:"title=Invoke"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates an empty [Config]. Decoding into it and calling
// [Config.EnsureDefaults] yields a complete configuration.
func New() *Config {
	return &Config{
		TypeMeta: v1beta1.NewTypeMeta(Kind),
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	c := New()
	c.EnsureDefaults()

	return c
}

// EnsureDefaults fills missing sections with the built-in agents, rules and
// invoke command.
func (c *Config) EnsureDefaults() {
	if c.Registry == nil {
		c.Registry = &registry.Registry{}
	}

	c.Registry.EnsureDefaults()

	if c.Invoke == nil {
		c.Invoke = invoke.NewConfig()
	}
}

// Validate compiles the registry and the invoke command.
func (c *Config) Validate() error {
	if c.Registry != nil {
		err := c.Registry.Validate()
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

// WithProject returns a new validated [Config] with the project's agents and
// rules layered over c, and the project's invoke command, if any, replacing
// the global one. Errors point into the project document.
func (c *Config) WithProject(p *projectconfigs.ProjectConfig) (*Config, error) {
	merged := &Config{
		TypeMeta: c.TypeMeta,
		Registry: c.Registry.Merge(p.Registry),
		Invoke:   c.Invoke,
	}

	if p.Invoke != nil {
		merged.Invoke = p.Invoke
	}

	err := merged.Validate()
	if err != nil {
		return nil, err
	}

	return merged, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := yaml.Marshal(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to path unless a file already exists there.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// DefaultYAML returns the embedded default config.yaml.
func DefaultYAML() []byte {
	return defaultConfigYAML
}

// Schema returns the embedded JSON schema.
func Schema() []byte {
	return schemaJSON
}

// WriteDefault writes the embedded default config.yaml to path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the global configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}

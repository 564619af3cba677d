// Package policies provides the Policy type, which records the project
// directories whose scout configuration may be loaded.
package policies

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/scout/api"
	"github.com/macropower/scout/api/v1beta1"
	"github.com/macropower/scout/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen --kind policy

// Kind is the kind of policy documents.
const Kind = "Policy"

var (
	//go:embed policy.yaml
	defaultPolicyYAML []byte

	//go:embed policies.v1beta1.json
	policySchemaJSON []byte

	// ValidKinds contains the valid kind values for policy configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates policy configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/policies.v1beta1.json", policySchemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Policy)(nil)
)

// TrustedProject is a project directory whose config may be loaded.
type TrustedProject struct {
	// Path is the absolute path to a trusted directory.
	Path string `json:"path" jsonschema:"title=Path,minLength=1"`
}

// ProjectsPolicyConfig controls handling of project configuration files
// (.scout.yaml or .claude/scout.yaml).
type ProjectsPolicyConfig struct {
	// Trust lists projects whose configs are loaded without prompting.
	// NOTE: You can also use `--trust` or `--no-trust` flags to control this behavior.
	Trust []*TrustedProject `json:"trust,omitempty" jsonschema:"title=Trust"`
}

// Policy is the trust policy file.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Policy struct {
	// Projects controls handling of project configuration files.
	Projects         *ProjectsPolicyConfig `json:"projects,omitempty" jsonschema:"title=Projects"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new [Policy] that trusts nothing.
func New() *Policy {
	p := &Policy{
		TypeMeta: v1beta1.NewTypeMeta(Kind),
	}
	p.EnsureDefaults()

	return p
}

// EnsureDefaults initializes nil fields to their default values.
func (p *Policy) EnsureDefaults() {
	if p.Projects == nil {
		p.Projects = &ProjectsPolicyConfig{}
	}
	if p.Projects.Trust == nil {
		p.Projects.Trust = []*TrustedProject{}
	}
}

// IsTrusted reports whether projectPath is in the trust list.
func (p *Policy) IsTrusted(projectPath string) bool {
	if p.Projects == nil {
		return false
	}

	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return false
	}

	return slices.ContainsFunc(p.Projects.Trust, func(tp *TrustedProject) bool {
		return tp != nil && filepath.Clean(tp.Path) == absPath
	})
}

// TrustProject adds projectPath to the trust list and saves the list to the
// policy file at policyPath, keeping the file's comments. The policy file is
// created from the default when it does not exist yet.
func (p *Policy) TrustProject(projectPath, policyPath string) error {
	if p.IsTrusted(projectPath) {
		return nil
	}

	p.EnsureDefaults()

	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	p.Projects.Trust = append(p.Projects.Trust, &TrustedProject{Path: absPath})

	err = api.WriteIfNotExists(policyPath, defaultPolicyYAML)
	if err != nil {
		return fmt.Errorf("create policy: %w", err)
	}

	data, err := api.ReadFile(policyPath)
	if err != nil {
		return fmt.Errorf("read policy: %w", err)
	}

	merged, err := yaml.SetRootKeys(data, struct {
		Projects *ProjectsPolicyConfig `json:"projects"`
	}{
		Projects: p.Projects,
	})
	if err != nil {
		return fmt.Errorf("merge projects section: %w", err)
	}

	err = os.WriteFile(policyPath, merged, 0o600)
	if err != nil {
		return fmt.Errorf("write policy: %w", err)
	}

	return nil
}

func (p Policy) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// WriteDefault writes the embedded default policy.yaml to path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultPolicyYAML, force, "policy")
	if err != nil {
		return fmt.Errorf("write default policy: %w", err)
	}

	return nil
}

// GetPath returns the path to the policy file.
func GetPath() string {
	return api.GetConfigPath("policy.yaml")
}

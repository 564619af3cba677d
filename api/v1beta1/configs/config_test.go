package configs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/api/v1beta1/configs"
	"github.com/macropower/scout/api/v1beta1/projectconfigs"
	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/config"
	"github.com/macropower/scout/pkg/invoke"
	"github.com/macropower/scout/pkg/registry"
	"github.com/macropower/scout/pkg/rule"
	"github.com/macropower/scout/pkg/yaml"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := configs.New()

	assert.Equal(t, "scout.jacobcolvin.com/v1beta1", cfg.GetAPIVersion())
	assert.Equal(t, "Configuration", cfg.GetKind())
	assert.Nil(t, cfg.Registry)
	assert.Nil(t, cfg.Invoke)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := configs.Default()
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.Registry.IDs(), 17)
	assert.Len(t, cfg.Registry.Rules, 10)
	assert.Equal(t, "claude", cfg.Invoke.Command)
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	cfg := &configs.Config{
		Registry: &registry.Registry{
			Agents: map[string]*agent.Agent{"a": agent.MustNew(1)},
			Rules:  []*rule.Rule{},
		},
	}

	cfg.EnsureDefaults()

	assert.Len(t, cfg.Registry.Agents, 1)
	assert.Empty(t, cfg.Registry.Rules)
	require.NotNil(t, cfg.Invoke)
	assert.Equal(t, "claude", cfg.Invoke.Command)
}

func TestDefaultConfigYAML(t *testing.T) {
	t.Parallel()

	loader := config.NewLoaderFromBytes(configs.DefaultYAML(), configs.New, configs.DefaultValidator)
	require.NoError(t, loader.Validate())

	cfg, err := loader.Load()
	require.NoError(t, err)

	// The embedded file mirrors the built-in tables.
	want := registry.Default()
	assert.Equal(t, want.IDs(), cfg.Registry.IDs())

	for _, id := range want.IDs() {
		wantAgent, _ := want.Get(id)
		gotAgent, ok := cfg.Registry.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, wantAgent.Priority, gotAgent.Priority, id)
		assert.Equal(t, wantAgent.Icon, gotAgent.Icon, id)
		assert.Equal(t, wantAgent.Description, gotAgent.Description, id)
		assert.Equal(t, wantAgent.Triggers, gotAgent.Triggers, id)
	}

	require.Len(t, cfg.Registry.Rules, len(want.Rules))

	for i, rl := range want.Rules {
		assert.Equal(t, rl.Pattern, cfg.Registry.Rules[i].Pattern)
		assert.Equal(t, rl.Agents, cfg.Registry.Rules[i].Agents)
	}

	argv, err := cfg.Invoke.Argv(invoke.Data{Agent: "nextjs-architect", Task: "add a route"})
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "code", "--agent", "nextjs-architect", "--task", "add a route"}, argv)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		wantPath string
	}{
		"defaults": {
			input: "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: Configuration\n",
		},
		"custom registry": {
			input: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: Configuration
agents:
  go-gopher: {priority: 70, triggers: [golang]}
rules:
  - match: files.exists(f, pathExt(f) == ".go")
    agents: [go-gopher]
`,
		},
		"unknown agent": {
			input: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: Configuration
agents:
  go-gopher: {priority: 70}
rules:
  - pattern: .*\.go$
    agents: [go-gophr]
`,
			wantPath: "$.rules[0].agents[0]",
		},
		"bad invoke template": {
			input: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: Configuration
invoke:
  command: claude
  args: ["{{ .Agent"]
`,
			wantPath: "$.invoke",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			loader := config.NewLoaderFromBytes([]byte(tc.input), configs.New, configs.DefaultValidator)
			require.NoError(t, loader.Validate())

			_, err := loader.Load()
			if tc.wantPath == "" {
				require.NoError(t, err)

				return
			}

			var yamlErr *yaml.Error
			require.ErrorAs(t, err, &yamlErr)
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}

func TestSchemaRejects(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"wrong kind":        "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: Policy\n",
		"wrong api version": "apiVersion: kat.jacobcolvin.com/v1beta1\nkind: Configuration\n",
		"unknown field":     "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: Configuration\nprofiles: {}\n",
		"string priority":   "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: Configuration\nagents:\n  a: {priority: high}\n",
		"empty rule agents": "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: Configuration\nrules:\n  - pattern: x\n    agents: []\n",
	}

	for name, input := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			loader := config.NewLoaderFromBytes([]byte(input), configs.New, configs.DefaultValidator)
			require.Error(t, loader.Validate())
		})
	}
}

func TestConfig_WithProject(t *testing.T) {
	t.Parallel()

	global := configs.Default()
	require.NoError(t, global.Validate())

	customInvoke, err := invoke.Parse("my-runner {{ .Agent }}")
	require.NoError(t, err)

	project := projectconfigs.New()
	project.Registry = &registry.Registry{
		Agents: map[string]*agent.Agent{
			"go-gopher": agent.MustNew(70, agent.WithTriggers("golang")),
		},
		Rules: []*rule.Rule{
			{Pattern: `.*\.go$`, Agents: []string{"go-gopher", "typescript-guardian"}},
		},
	}
	project.Invoke = customInvoke
	require.NoError(t, project.Validate())

	merged, err := global.WithProject(project)
	require.NoError(t, err)

	assert.Len(t, merged.Registry.IDs(), 18)
	assert.Equal(t, `.*\.go$`, merged.Registry.Rules[0].Pattern)
	assert.Equal(t, "my-runner", merged.Invoke.Command)

	// The global config is unchanged.
	assert.Len(t, global.Registry.IDs(), 17)
	assert.Equal(t, "claude", global.Invoke.Command)

	bad := projectconfigs.New()
	bad.Registry = &registry.Registry{
		Rules: []*rule.Rule{{Pattern: `.*\.go$`, Agents: []string{"go-gopher"}}},
	}
	require.NoError(t, bad.Validate())

	_, err = global.WithProject(bad)
	require.ErrorIs(t, err, registry.ErrUnknownAgent)
}

func TestConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	b, err := configs.Default().MarshalYAML()
	require.NoError(t, err)

	loader := config.NewLoaderFromBytes(b, configs.New, configs.DefaultValidator)
	require.NoError(t, loader.Validate())

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Registry.IDs(), 17)
}

func TestConfig_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scout", "config.yaml")

	require.NoError(t, configs.Default().Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Configuration")

	// Existing files are left alone.
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o600))
	require.NoError(t, configs.Default().Write(path))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, configs.WriteDefault(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configs.DefaultYAML(), data)
}

//nolint:paralleltest // Sets environment variables.
func TestGetPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, "/xdg/scout/config.yaml", configs.GetPath())
}

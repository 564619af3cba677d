package projectconfigs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/api/v1beta1/projectconfigs"
	"github.com/macropower/scout/pkg/config"
	"github.com/macropower/scout/pkg/yaml"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := projectconfigs.New()

	assert.Equal(t, "ProjectConfig", cfg.GetKind())
	require.NotNil(t, cfg.Registry)
	assert.Empty(t, cfg.Registry.Agents)
	assert.Nil(t, cfg.Invoke)
}

func TestProjectConfig_Load(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input         string
		wantSchemaErr bool
		wantPath      string
		wantAgents    int
		wantRules     int
	}{
		"rules only": {
			input: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: ProjectConfig
rules:
  - pattern: .*\.go$
    agents: [typescript-guardian]
`,
			wantRules: 1,
		},
		"agents and invoke": {
			input: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: ProjectConfig
agents:
  go-gopher: {priority: 70, icon: 🐹, triggers: [golang, go.mod]}
invoke:
  command: my-runner
  args: ["{{ .Agent }}"]
`,
			wantAgents: 1,
		},
		"no built-in defaults": {
			input:      "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: ProjectConfig\n",
			wantAgents: 0,
			wantRules:  0,
		},
		"global kind": {
			input:         "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: Configuration\n",
			wantSchemaErr: true,
		},
		"bad cel rule": {
			input: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: ProjectConfig
rules:
  - match: files.size() +
    agents: [typescript-guardian]
`,
			wantPath: "$.rules[0].match",
		},
		"empty invoke command": {
			input: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: ProjectConfig
invoke:
  command: ""
`,
			wantSchemaErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			loader := config.NewLoaderFromBytes([]byte(tc.input), projectconfigs.New, projectconfigs.DefaultValidator)

			err := loader.Validate()
			if tc.wantSchemaErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			cfg, err := loader.Load()
			if tc.wantPath != "" {
				var yamlErr *yaml.Error
				require.ErrorAs(t, err, &yamlErr)
				assert.Equal(t, tc.wantPath, yamlErr.Path.String())

				return
			}

			require.NoError(t, err)
			assert.Len(t, cfg.Registry.Agents, tc.wantAgents)
			assert.Len(t, cfg.Registry.Rules, tc.wantRules)
		})
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "web", "src")
	require.NoError(t, os.MkdirAll(sub, 0o700))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".claude"), 0o700))

	path := filepath.Join(root, ".claude", "scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: ProjectConfig\n"), 0o600))

	got, err := projectconfigs.Find(sub)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, root, projectconfigs.ProjectDir(got))

	// A dotfile in the project root wins over the .claude directory.
	dotfile := filepath.Join(root, ".scout.yaml")
	require.NoError(t, os.WriteFile(dotfile, []byte("kind: ProjectConfig\n"), 0o600))

	got, err = projectconfigs.Find(sub)
	require.NoError(t, err)
	assert.Equal(t, dotfile, got)
	assert.Equal(t, root, projectconfigs.ProjectDir(got))
}

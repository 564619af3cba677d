package policy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/api/v1beta1/configs"
	"github.com/macropower/scout/api/v1beta1/policies"
	"github.com/macropower/scout/pkg/policy"
	"github.com/macropower/scout/pkg/registry"
)

const projectConfig = `apiVersion: scout.jacobcolvin.com/v1beta1
kind: ProjectConfig
agents:
  go-gopher: {priority: 70, triggers: [golang]}
rules:
  - pattern: .*\.go$
    agents: [go-gopher]
invoke:
  command: my-runner
  args: ["{{ .Agent }}"]
`

type mockTrustPrompter struct {
	err      error
	decision policy.TrustDecision
	calls    int
}

func (m *mockTrustPrompter) Prompt(_ context.Context, _, _ string) (policy.TrustDecision, error) {
	m.calls++

	return m.decision, m.err
}

func setupProject(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return dir
}

func globalConfig(t *testing.T) *configs.Config {
	t.Helper()

	cfg := configs.Default()
	require.NoError(t, cfg.Validate())

	return cfg
}

func TestTrustManager_Apply(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		prompter    *mockTrustPrompter
		trusted     bool
		mode        policy.TrustMode
		wantApplied bool
		wantPrompts int
		wantSaved   bool
	}{
		"no trust flag": {
			mode: policy.TrustModeSkip,
		},
		"trust flag": {
			mode:        policy.TrustModeAllow,
			wantApplied: true,
			wantSaved:   true,
		},
		"already trusted": {
			mode:        policy.TrustModePrompt,
			trusted:     true,
			prompter:    &mockTrustPrompter{},
			wantApplied: true,
		},
		"prompt allow": {
			mode:        policy.TrustModePrompt,
			prompter:    &mockTrustPrompter{decision: policy.TrustDecisionAllow},
			wantApplied: true,
			wantPrompts: 1,
			wantSaved:   true,
		},
		"prompt skip": {
			mode:        policy.TrustModePrompt,
			prompter:    &mockTrustPrompter{decision: policy.TrustDecisionSkip},
			wantPrompts: 1,
		},
		"not interactive": {
			mode:        policy.TrustModePrompt,
			prompter:    &mockTrustPrompter{err: policy.ErrNotInteractive},
			wantPrompts: 1,
		},
		"no prompter": {
			mode: policy.TrustModePrompt,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			projectDir := setupProject(t, ".scout.yaml", projectConfig)
			policyPath := filepath.Join(t.TempDir(), "policy.yaml")

			pol := policies.New()
			if tc.trusted {
				pol.Projects.Trust = append(pol.Projects.Trust, &policies.TrustedProject{Path: projectDir})
			}

			var prompter policy.TrustPrompter
			if tc.prompter != nil {
				prompter = tc.prompter
			}

			global := globalConfig(t)
			tm := policy.NewTrustManager(pol, policyPath, false)

			got, err := tm.Apply(t.Context(), global, filepath.Join(projectDir), prompter, tc.mode)
			require.NoError(t, err)

			if tc.wantApplied {
				assert.Len(t, got.Registry.IDs(), 18)
				assert.Equal(t, "my-runner", got.Invoke.Command)
			} else {
				assert.Same(t, global, got)
			}

			if tc.prompter != nil {
				assert.Equal(t, tc.wantPrompts, tc.prompter.calls)
			}

			_, statErr := os.Stat(policyPath)
			assert.Equal(t, tc.wantSaved, statErr == nil)
			assert.Equal(t, tc.wantSaved || tc.trusted, pol.IsTrusted(projectDir))
		})
	}
}

func TestTrustManager_ApplyClaudeDir(t *testing.T) {
	t.Parallel()

	projectDir := setupProject(t, filepath.Join(".claude", "scout.yaml"), projectConfig)
	sub := filepath.Join(projectDir, "cmd", "app")
	require.NoError(t, os.MkdirAll(sub, 0o700))

	pol := policies.New()
	tm := policy.NewTrustManager(pol, filepath.Join(t.TempDir(), "policy.yaml"), false)

	got, err := tm.Apply(t.Context(), globalConfig(t), sub, nil, policy.TrustModeAllow)
	require.NoError(t, err)
	assert.Len(t, got.Registry.IDs(), 18)

	// The project root is trusted, not the .claude directory.
	assert.True(t, pol.IsTrusted(projectDir))
}

func TestTrustManager_ApplyNoProject(t *testing.T) {
	t.Parallel()

	global := globalConfig(t)
	tm := policy.NewTrustManager(nil, filepath.Join(t.TempDir(), "policy.yaml"), false)

	prompter := &mockTrustPrompter{}

	got, err := tm.Apply(t.Context(), global, t.TempDir(), prompter, policy.TrustModePrompt)
	require.NoError(t, err)
	assert.Same(t, global, got)
	assert.Zero(t, prompter.calls)
}

func TestTrustManager_ApplyErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content  string
		mode     policy.TrustMode
		prompter policy.TrustPrompter
		wantErr  error
		errMsg   string
	}{
		"unknown agent in project rule": {
			content: `apiVersion: scout.jacobcolvin.com/v1beta1
kind: ProjectConfig
rules:
  - pattern: .*\.go$
    agents: [go-gopher]
`,
			mode:    policy.TrustModeAllow,
			wantErr: registry.ErrUnknownAgent,
			errMsg:  "agents: [go-gopher]",
		},
		"schema violation": {
			content: "apiVersion: scout.jacobcolvin.com/v1beta1\nkind: ProjectConfig\nprofiles: {}\n",
			mode:    policy.TrustModeAllow,
			errMsg:  "load project config",
		},
		"prompt failure": {
			content:  projectConfig,
			mode:     policy.TrustModePrompt,
			prompter: &mockTrustPrompter{err: errors.New("boom")},
			errMsg:   "prompt: boom",
		},
		"unknown mode": {
			content: projectConfig,
			mode:    policy.TrustMode(42),
			wantErr: policy.ErrUnknownTrustMode,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			projectDir := setupProject(t, ".scout.yaml", tc.content)
			tm := policy.NewTrustManager(nil, filepath.Join(t.TempDir(), "policy.yaml"), false)

			_, err := tm.Apply(t.Context(), globalConfig(t), projectDir, tc.prompter, tc.mode)
			require.Error(t, err)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
			if tc.errMsg != "" {
				assert.ErrorContains(t, err, tc.errMsg)
			}
		})
	}
}

package invoke_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/pkg/invoke"
)

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	baseEnv := []string{
		"PATH=/usr/bin:/bin",
		"HOME=/home/test",
		"ANTHROPIC_MODEL=opus",
		"SECRET_TOKEN=hunter2",
		"EDITOR=vi",
	}

	tcs := map[string]struct {
		cfg     *invoke.Config
		data    invoke.Data
		want    string
		wantErr error
	}{
		"argv is not shell interpreted": {
			cfg: &invoke.Config{
				Command:  "echo",
				Args:     []string{"{{ .Agent }}"},
				TaskArgs: []string{"{{ .Task }}"},
			},
			data: invoke.Data{Agent: "redis-cache-optimizer", Task: "$(id); `whoami`"},
			want: "redis-cache-optimizer $(id); `whoami`\n",
		},
		"agent and task in environment": {
			cfg: &invoke.Config{
				Command: "sh",
				Args:    []string{"-c", `printf '%s|%s' "$SCOUT_AGENT" "$SCOUT_TASK"`},
			},
			data: invoke.Data{Agent: "neo4j-graph-specialist", Task: "model users"},
			want: "neo4j-graph-specialist|model users",
		},
		"env filtering": {
			cfg: &invoke.Config{
				Command: "sh",
				Args:    []string{"-c", `printf '%s|%s|%s|%s' "$ANTHROPIC_MODEL" "$SECRET_TOKEN" "$MY_EDITOR" "$STATIC"`},
				EnvFrom: []*invoke.CallerRef{{Pattern: "^ANTHROPIC_"}},
				Env: []invoke.EnvVar{
					{Name: "MY_EDITOR", ValueFrom: &invoke.CallerRef{Name: "EDITOR"}},
					{Name: "STATIC", Value: "on"},
				},
			},
			data: invoke.Data{Agent: "a"},
			want: "opus||vi|on",
		},
		"failing command": {
			cfg: &invoke.Config{
				Command: "sh",
				Args:    []string{"-c", "exit 3"},
			},
			data:    invoke.Data{Agent: "a"},
			wantErr: invoke.ErrCommandExecution,
		},
		"missing executable": {
			cfg:     &invoke.Config{Command: "scout-definitely-not-installed"},
			data:    invoke.Data{Agent: "a"},
			wantErr: invoke.ErrCommandExecution,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.NoError(t, tc.cfg.Compile())

			var stdout, stderr bytes.Buffer

			r := invoke.NewRunner(
				invoke.WithBaseEnv(baseEnv),
				invoke.WithStdio(strings.NewReader(""), &stdout, &stderr),
				invoke.WithDir(t.TempDir()),
			)

			err := r.Run(t.Context(), tc.cfg, tc.data)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, stdout.String())
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Parallel()

	got := invoke.ParseEnv([]string{"A=1", "B=x=y", "BROKEN"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, got)
}

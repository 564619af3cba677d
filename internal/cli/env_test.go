package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantLogFormat string
		wantFiles     []string
		wantInvoke    bool
		args          []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"SCOUT_LOG_LEVEL":  "debug",
				"SCOUT_LOG_FORMAT": "json",
				"SCOUT_INVOKE":     "true",
			},
			args:          []string{},
			wantLogLevel:  "debug",
			wantLogFormat: "json",
			wantFiles:     []string{},
			wantInvoke:    true,
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"SCOUT_LOG_LEVEL":  "debug",
				"SCOUT_LOG_FORMAT": "json",
			},
			args:          []string{"--log-level", "error", "--log-format", "text"},
			wantLogLevel:  "error",
			wantLogFormat: "text",
			wantFiles:     []string{},
		},
		"list flags are split on commas": {
			envVars: map[string]string{
				"SCOUT_FILE": "src/app/page.tsx, schema.prisma",
			},
			args:          []string{},
			wantLogLevel:  "info",
			wantLogFormat: "text",
			wantFiles:     []string{"src/app/page.tsx", "schema.prisma"},
		},
		"invalid values keep the default": {
			envVars: map[string]string{
				"SCOUT_INVOKE": "sometimes",
			},
			args:          []string{},
			wantLogLevel:  "info",
			wantLogFormat: "text",
			wantFiles:     []string{},
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "info", // Default value.
			wantLogFormat: "text", // Default value.
			wantFiles:     []string{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			// Parse flags (this triggers environment variable binding).
			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)

			files, err := cmd.Flags().GetStringArray("file")
			require.NoError(t, err)
			assert.Equal(t, tc.wantFiles, files)

			invoke, err := cmd.Flags().GetBool("invoke")
			require.NoError(t, err)
			assert.Equal(t, tc.wantInvoke, invoke)
		})
	}
}

// Test that flag usage strings are updated to include environment variable names.
func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$SCOUT_LOG_LEVEL")

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Contains(t, configFlag.Usage, "$SCOUT_CONFIG")

	outputFlag := cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Contains(t, outputFlag.Usage, "$SCOUT_OUTPUT")
}

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars sets cobra command flags from environment variables named
// SCOUT_<FLAG_NAME>, where the flag name is uppercased and dashes become
// underscores:
//   - Flag "log-level" becomes environment variable "SCOUT_LOG_LEVEL"
//   - Flag "invoke" becomes environment variable "SCOUT_INVOKE"
//   - Flag "file" becomes environment variable "SCOUT_FILE", a comma separated list
//
// Arguments take precedence over environment variables, which take precedence
// over default values. Flag usage descriptions are updated to show the
// environment variable name.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(bindFlagToEnv)
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)
}

func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	var err error

	// Slice flags append on Set, so replace their defaults instead.
	if sv, isSlice := flag.Value.(pflag.SliceValue); isSlice {
		err = sv.Replace(splitList(envValue))
	} else {
		err = flag.Value.Set(envValue)
	}

	if err != nil {
		// Keep the default value.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name.
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")

	return strings.ToUpper(cmdName + "_" + envName)
}

func splitList(s string) []string {
	var out []string

	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}

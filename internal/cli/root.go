package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/scout/pkg/log"
	"github.com/macropower/scout/pkg/policy"
	"github.com/macropower/scout/pkg/telemetry"
)

const (
	cmdName = "scout"
	cmdDesc = `Suggest the specialized agent best suited to a prompt and the files it touches.`
	cmdLong = cmdDesc + `

The prompt is read from the arguments, or from stdin when there are none.
A prompt whose first word names a subcommand, such as "agents" or "mcp",
runs that subcommand instead; put "--" before it or pass it on stdin.`
)

type RootArgs struct {
	shutdown telemetry.ShutdownFunc

	LogLevel      string
	LogFormat     string
	ConfigPath    string
	TraceExporter string
	OTLPEndpoint  string
	OTLPInsecure  bool
	Trust         bool
	NoTrust       bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the scout configuration file")
	cmd.PersistentFlags().
		StringVar(&ra.TraceExporter, "trace-exporter", "none",
			fmt.Sprintf("Trace exporter, one of: %s", telemetry.AllExporters))
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint (host:port) for the otlp trace exporter")
	cmd.PersistentFlags().
		BoolVar(&ra.OTLPInsecure, "otlp-insecure", false, "Disable TLS for the OTLP connection")
	cmd.PersistentFlags().
		BoolVar(&ra.Trust, "trust", false, "Trust the project configuration without prompting")
	cmd.PersistentFlags().
		BoolVar(&ra.NoTrust, "no-trust", false, "Ignore the project configuration without prompting")

	cmd.MarkFlagsMutuallyExclusive("trust", "no-trust")

	err := cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	completions := map[string][]string{
		"log-format":     log.AllFormats,
		"log-level":      log.AllLevels,
		"trace-exporter": telemetry.AllExporters,
	}
	for flag, values := range completions {
		err = cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp),
		)
		if err != nil {
			panic(err)
		}
	}
}

// TrustMode returns the [policy.TrustMode] selected by the trust flags.
func (ra *RootArgs) TrustMode() policy.TrustMode {
	switch {
	case ra.Trust:
		return policy.TrustModeAllow
	case ra.NoTrust:
		return policy.TrustModeSkip
	}

	return policy.TrustModePrompt
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	suggestArgs := NewSuggestArgs(args)

	cmd := &cobra.Command{
		Use:                cmdName + " [prompt...]",
		Short:              cmdDesc,
		Long:               cmdLong,
		Example:            cmdExamples,
		Args:               cobra.ArbitraryArgs,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
		RunE: func(cmd *cobra.Command, prompt []string) error {
			return runSuggest(cmd, suggestArgs, prompt)
		},
	}

	args.AddFlags(cmd)
	suggestArgs.AddFlags(cmd)

	cmd.AddCommand(
		NewAgentsCmd(args),
		NewMCPCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		logger := slog.New(logHandler)
		slog.SetDefault(logger)

		ctx := log.NewContext(cmd.Context(), logger)

		shutdown, err := telemetry.Setup(ctx, telemetry.Config{
			Writer:   cmd.ErrOrStderr(),
			Exporter: ra.TraceExporter,
			Endpoint: ra.OTLPEndpoint,
			Insecure: ra.OTLPInsecure,
		})
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		ra.shutdown = shutdown
		cmd.SetContext(ctx)

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.shutdown == nil {
			return nil
		}

		err := ra.shutdown(context.WithoutCancel(cmd.Context()))
		if err != nil {
			return fmt.Errorf("shutdown telemetry: %w", err)
		}

		return nil
	}
}

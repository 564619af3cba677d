package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/macropower/scout/api/v1beta1/configs"
	"github.com/macropower/scout/api/v1beta1/policies"
	"github.com/macropower/scout/pkg/invoke"
	"github.com/macropower/scout/pkg/log"
	"github.com/macropower/scout/pkg/present"
	"github.com/macropower/scout/pkg/suggest"
)

const (
	cmdExamples = `  # Suggest agents for a prompt:
  scout "add a prisma migration for the users table"

  # Read the prompt from stdin, as a prompt hook would:
  echo 'fix the flaky vitest suite' | scout

  # Prompts starting with a subcommand name need "--" or stdin:
  scout -- agents for the prisma schema
  echo 'mcp tool registration for the search api' | scout

  # Include the files the task touches:
  scout "refactor this" -f src/app/page.tsx -f src/styles.css

  # Machine readable output:
  scout -o json "dockerize the redis cache"

  # Launch the primary agent with the prompt as its task:
  scout --invoke "build a websocket chat server"

  # Choose among the suggestions, then copy the command:
  scout --pick --copy "animate the dialog with framer motion"`

	// Legacy switch for auto invoking, honored in addition to --invoke.
	autoInvokeEnv = "AUTO_INVOKE_AGENT"

	// Characters trimmed from words before treating them as paths.
	pathTrimChars = "\"'`,;:()[]{}<>"
)

type SuggestArgs struct {
	*RootArgs

	Output        string
	InvokeCommand string
	Files         []string
	Invoke        bool
	Pick          bool
	Copy          bool
	WriteConfig   bool
	Force         bool
	ShowConfig    bool
}

func NewSuggestArgs(rootArgs *RootArgs) *SuggestArgs {
	return &SuggestArgs{
		RootArgs: rootArgs,
	}
}

func (sa *SuggestArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sa.Output, "output", "o", string(present.FormatText),
		fmt.Sprintf("Output format, one of: %s", present.AllFormats))
	cmd.Flags().StringArrayVarP(&sa.Files, "file", "f", nil, "File related to the prompt (repeatable)")
	cmd.Flags().BoolVar(&sa.Invoke, "invoke", false, "Launch the primary agent with the prompt as its task")
	cmd.Flags().StringVar(&sa.InvokeCommand, "invoke-command", "",
		`Command that launches agents, e.g. "claude code --agent {{.Agent}}"`)
	cmd.Flags().BoolVar(&sa.Pick, "pick", false, "Choose among the suggested agents interactively")
	cmd.Flags().BoolVar(&sa.Copy, "copy", false, "Copy the chosen agent's command to the clipboard")
	cmd.Flags().BoolVar(&sa.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&sa.Force, "force", false, "With --write-config, back up and replace existing files")
	cmd.Flags().BoolVar(&sa.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(present.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func runSuggest(cmd *cobra.Command, sa *SuggestArgs, args []string) error {
	ctx := cmd.Context()
	logger := log.WithContext(ctx)

	if sa.WriteConfig {
		return writeConfig(sa)
	}

	format, err := present.GetFormat(sa.Output)
	if err != nil {
		return fmt.Errorf("invalid --output: %w", err)
	}

	cfg, err := loadConfig(ctx, sa.RootArgs, cmd.ErrOrStderr(), TrustPrompter{})
	if err != nil {
		return err
	}

	if sa.InvokeCommand != "" {
		cfg.Invoke, err = invoke.Parse(sa.InvokeCommand)
		if err != nil {
			return fmt.Errorf("invalid --invoke-command: %w", err)
		}
	}

	if sa.ShowConfig {
		return showConfig(cmd.OutOrStdout(), cfg)
	}

	prompt, err := readPrompt(cmd, args)
	if err != nil {
		return err
	}

	presenter := present.New(
		present.WithFormat(format),
		present.WithInvokeConfig(cfg.Invoke),
		present.WithColor(format == present.FormatText && isTerminal(cmd.OutOrStdout())),
	)

	if strings.TrimSpace(prompt) == "" && len(sa.Files) == 0 {
		return presenter.RenderNoContext(cmd.OutOrStdout())
	}

	files := append(pathsIn(prompt), sa.Files...)

	logger.DebugContext(ctx, "suggesting agents",
		slog.Int("prompt.length", len(prompt)),
		slog.Any("files", files),
	)

	res := suggest.New(cfg.Registry).Suggest(ctx, prompt, files)

	err = presenter.Render(cmd.OutOrStdout(), res)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if !res.Found() || !sa.Pick && !sa.Copy && !sa.shouldInvoke() {
		return nil
	}

	chosen := res.Candidates[0]
	if sa.Pick {
		chosen, err = pickAgent(ctx, res)
		if err != nil {
			return err
		}
	}

	line, err := cfg.Invoke.CommandLine(invoke.Data{Agent: chosen.Agent, Icon: chosen.Icon})
	if err != nil {
		return fmt.Errorf("build command: %w", err)
	}

	if sa.Copy {
		err = clipboard.WriteAll(line)
		if err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}

		logger.InfoContext(ctx, "copied command to clipboard", slog.String("command", line))
	}

	if !sa.shouldInvoke() {
		if sa.Pick && !sa.Copy {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
			if err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}

		return nil
	}

	runner := invoke.NewRunner(invoke.WithStdio(os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr()))

	err = runner.Run(ctx, cfg.Invoke, invoke.Data{
		Agent: chosen.Agent,
		Task:  strings.TrimSpace(prompt),
		Icon:  chosen.Icon,
	})
	if err != nil {
		return fmt.Errorf("invoke %s: %w", chosen.Agent, err)
	}

	return nil
}

func (sa *SuggestArgs) shouldInvoke() bool {
	return sa.Invoke || os.Getenv(autoInvokeEnv) == "true"
}

// readPrompt returns the joined arguments, or stdin when there are none and
// stdin is not a terminal.
func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		return "", nil
	}

	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	return string(b), nil
}

// pathsIn returns the words of prompt that look like paths and exist on disk.
func pathsIn(prompt string) []string {
	var paths []string

	for word := range strings.FieldsSeq(prompt) {
		word = strings.Trim(word, pathTrimChars)
		if !strings.ContainsAny(word, `/\`) {
			continue
		}

		_, err := os.Stat(word)
		if err == nil {
			paths = append(paths, word)
		}
	}

	return paths
}

func writeConfig(sa *SuggestArgs) error {
	err := configs.WriteDefault(sa.configPath(), sa.Force)
	if err != nil {
		return err
	}

	err = policies.WriteDefault(policies.GetPath(), sa.Force)
	if err != nil {
		return err
	}

	return nil
}

func showConfig(w io.Writer, cfg *configs.Config) error {
	b, err := cfg.MarshalYAML()
	if err != nil {
		return err
	}

	if !isTerminal(w) {
		_, err = w.Write(b)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		return nil
	}

	err = quick.Highlight(w, string(b), "yaml", "terminal256", "monokai")
	if err != nil {
		return fmt.Errorf("highlight config: %w", err)
	}

	return nil
}

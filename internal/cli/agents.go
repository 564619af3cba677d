package cli

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/registry"
)

func NewAgentsCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents [id]",
		Short: "List the available agents, or show one agent and the rules that imply it",
		Example: `  # List agents by priority:
  scout agents

  # Show one agent:
  scout agents prisma-database-architect`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return agentCompletions(registry.Default()), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx, ra, cmd.ErrOrStderr(), TrustPrompter{})
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return listAgents(cmd.OutOrStdout(), cfg.Registry)
			}

			return showAgent(cmd.OutOrStdout(), cfg.Registry, args[0])
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func agentCompletions(reg *registry.Registry) []cobra.Completion {
	completions := make([]cobra.Completion, 0, len(reg.Agents))
	for _, id := range reg.IDs() {
		a, _ := reg.Get(id)
		completions = append(completions, cobra.CompletionWithDesc(id, a.Description))
	}

	return completions
}

// byPriority returns the agents ordered by descending priority, then ID.
func byPriority(reg *registry.Registry) []*agent.Agent {
	agents := make([]*agent.Agent, 0, len(reg.Agents))
	for _, id := range reg.IDs() {
		a, _ := reg.Get(id)
		agents = append(agents, a)
	}

	slices.SortStableFunc(agents, func(a, b *agent.Agent) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	return agents
}

func listAgents(w io.Writer, reg *registry.Registry) error {
	var b strings.Builder

	for _, a := range byPriority(reg) {
		fmt.Fprintf(&b, "%s %-36s %3d  %s\n", a.Icon, a.ID(), a.Priority, a.Description)
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

func showAgent(w io.Writer, reg *registry.Registry, id string) error {
	a, ok := reg.Get(id)
	if !ok {
		if hint := reg.Suggest(id); hint != "" {
			return fmt.Errorf("%w %q (did you mean %q?)", registry.ErrUnknownAgent, id, hint)
		}

		return fmt.Errorf("%w %q", registry.ErrUnknownAgent, id)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", a.Icon, a.ID())
	if a.Description != "" {
		fmt.Fprintf(&b, "  %s\n", a.Description)
	}

	fmt.Fprintf(&b, "\nPriority: %d\n", a.Priority)

	if len(a.Triggers) > 0 {
		b.WriteString("\nTriggers:\n")
		for _, t := range a.Triggers {
			fmt.Fprintf(&b, "  • %s\n", t)
		}
	}

	rules := reg.RulesFor(id)
	if len(rules) > 0 {
		b.WriteString("\nFile rules:\n")
		for _, rl := range rules {
			fmt.Fprintf(&b, "  • %s\n", rl)
		}
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

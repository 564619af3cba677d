package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/macropower/scout/pkg/policy"
	"github.com/macropower/scout/pkg/suggest"
)

// TrustPrompter asks about project trust with an interactive huh form.
type TrustPrompter struct{}

// Prompt displays a CLI prompt asking the user about project trust.
func (TrustPrompter) Prompt(ctx context.Context, projectDir, configPath string) (policy.TrustDecision, error) {
	if !isTerminal(os.Stdin) {
		return policy.TrustDecisionSkip, policy.ErrNotInteractive
	}

	var decision string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Project Configuration Found").
				Description(fmt.Sprintf(
					"A project configuration was found at:\n%s\n\n"+
						"Project directory:\n%s\n\n"+
						"This project wants to define custom agents, file rules and the command that launches agents.\n"+
						"Do you trust this project?",
					configPath,
					projectDir,
				)),

			huh.NewSelect[string]().
				Options(
					huh.NewOption("Trust (add to trusted projects)", "trust"),
					huh.NewOption("Skip (use global config only)", "skip"),
				).
				Value(&decision),
		),
	).WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return policy.TrustDecisionSkip, fmt.Errorf("run trust prompt: %w", err)
	}

	if decision == "trust" {
		return policy.TrustDecisionAllow, nil
	}

	return policy.TrustDecisionSkip, nil
}

// pickAgent lets the user choose among the suggested agents. Without a
// terminal, or with a single candidate, the primary agent is returned.
func pickAgent(ctx context.Context, res *suggest.Result) (suggest.Candidate, error) {
	if len(res.Candidates) == 1 || !isTerminal(os.Stdin) {
		return res.Candidates[0], nil
	}

	options := make([]huh.Option[int], 0, len(res.Candidates))
	for i, c := range res.Candidates {
		options = append(options, huh.NewOption(fmt.Sprintf("%s %s (%d)", c.Icon, c.Agent, c.Priority), i))
	}

	var picked int

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which agent should handle this?").
				Options(options...).
				Value(&picked),
		),
	).WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return suggest.Candidate{}, fmt.Errorf("run agent picker: %w", err)
	}

	return res.Candidates[picked], nil
}

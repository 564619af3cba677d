// Package policy decides whether a project's scout configuration may be
// loaded, and layers trusted project configuration over the global one.
package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/macropower/scout/api/v1beta1/configs"
	"github.com/macropower/scout/api/v1beta1/policies"
	"github.com/macropower/scout/api/v1beta1/projectconfigs"
	"github.com/macropower/scout/pkg/config"
	"github.com/macropower/scout/pkg/log"
)

// TrustMode controls how project configuration trust is handled.
type TrustMode int

// TrustDecision represents the user's choice when prompted about an untrusted project.
type TrustDecision int

const (
	// TrustModePrompt prompts the user interactively (default).
	TrustModePrompt TrustMode = iota
	// TrustModeAllow trusts project configs without prompting (--trust).
	TrustModeAllow
	// TrustModeSkip skips project configs without prompting (--no-trust).
	TrustModeSkip
)

const ( //nolint:grouper // Separate iota sequences require separate const blocks.
	// TrustDecisionSkip means the user chose to skip loading the project config.
	TrustDecisionSkip TrustDecision = iota
	// TrustDecisionAllow means the user trusts the project and wants to add it to the trust list.
	TrustDecisionAllow
)

var (
	// ErrNotInteractive is returned when a trust prompt is needed but the
	// terminal is not interactive. The project config is skipped.
	ErrNotInteractive = errors.New("terminal is not interactive")

	// ErrUnknownTrustMode is returned for invalid [TrustMode] values.
	ErrUnknownTrustMode = errors.New("unknown trust mode")
)

// TrustPrompter asks the user whether to trust a project configuration.
type TrustPrompter interface {
	// Prompt returns the user's [TrustDecision], or [ErrNotInteractive].
	Prompt(ctx context.Context, projectDir, configPath string) (TrustDecision, error)
}

// TrustManager handles trust decisions for project configurations.
type TrustManager struct {
	policy     *policies.Policy
	policyPath string
	colored    bool
}

// NewTrustManager creates a new [TrustManager]. Newly trusted projects are
// saved to the policy file at policyPath.
func NewTrustManager(pol *policies.Policy, policyPath string, colored bool) *TrustManager {
	if pol == nil {
		pol = policies.New()
	}

	return &TrustManager{
		policy:     pol,
		policyPath: policyPath,
		colored:    colored,
	}
}

// Apply returns global with the trusted project config for targetPath
// layered over it. When there is no project config, or it is not trusted,
// global is returned unchanged.
func (m *TrustManager) Apply(
	ctx context.Context,
	global *configs.Config,
	targetPath string,
	prompter TrustPrompter,
	mode TrustMode,
) (*configs.Config, error) {
	projectCfgPath, err := projectconfigs.Find(targetPath)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	if projectCfgPath == "" {
		return global, nil
	}

	logger := log.WithContext(ctx).With(slog.String("path", projectCfgPath))

	trusted, err := m.ensureTrusted(ctx, logger, projectconfigs.ProjectDir(projectCfgPath), projectCfgPath, prompter, mode)
	if err != nil {
		return nil, err
	}

	if !trusted {
		return global, nil
	}

	loader, err := config.NewLoaderFromFile(
		projectCfgPath,
		projectconfigs.New,
		projectconfigs.DefaultValidator,
		config.WithColor(m.colored),
	)
	if err != nil {
		return nil, fmt.Errorf("create project loader: %w", err)
	}

	project, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load project config %q: %w", projectCfgPath, err)
	}

	merged, err := global.WithProject(project)
	if err != nil {
		return nil, fmt.Errorf("apply project config %q: %w", projectCfgPath, loader.WrapError(err))
	}

	logger.DebugContext(ctx, "loaded project configuration")

	return merged, nil
}

func (m *TrustManager) ensureTrusted(
	ctx context.Context,
	logger *slog.Logger,
	projectDir, projectCfgPath string,
	prompter TrustPrompter,
	mode TrustMode,
) (bool, error) {
	switch mode {
	case TrustModeSkip:
		logger.InfoContext(ctx, "skipping project config (--no-trust)")

		return false, nil

	case TrustModeAllow:
		logger.InfoContext(ctx, "trusting project config (--trust)")
		m.trust(ctx, logger, projectDir)

		return true, nil

	case TrustModePrompt:
		if m.policy.IsTrusted(projectDir) {
			return true, nil
		}

		if prompter == nil {
			logger.WarnContext(ctx, "skipping untrusted project config (no prompter)")

			return false, nil
		}

		decision, err := prompter.Prompt(ctx, projectDir, projectCfgPath)
		if errors.Is(err, ErrNotInteractive) {
			logger.WarnContext(ctx, "skipping untrusted project config (non-interactive)",
				slog.String("hint", "run scout interactively to trust this project, or use --trust/--no-trust flags"),
			)

			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("prompt: %w", err)
		}

		if decision == TrustDecisionSkip {
			logger.InfoContext(ctx, "skipping untrusted project config")

			return false, nil
		}

		m.trust(ctx, logger, projectDir)

		return true, nil
	}

	return false, fmt.Errorf("%w: %d", ErrUnknownTrustMode, mode)
}

func (m *TrustManager) trust(ctx context.Context, logger *slog.Logger, projectDir string) {
	err := m.policy.TrustProject(projectDir, m.policyPath)
	if err != nil {
		logger.WarnContext(ctx, "could not save trusted project", slog.Any("error", err))
	}
}

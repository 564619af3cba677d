package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/term"

	"github.com/macropower/scout/api/v1beta1/configs"
	"github.com/macropower/scout/api/v1beta1/policies"
	"github.com/macropower/scout/pkg/config"
	"github.com/macropower/scout/pkg/log"
	"github.com/macropower/scout/pkg/policy"
)

// configPath returns the configuration file in use.
func (ra *RootArgs) configPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return configs.GetPath()
}

// loadConfig loads the global configuration and layers the trusted project
// configuration of the working directory over it. A missing global file
// yields the built-in defaults.
func loadConfig(
	ctx context.Context,
	ra *RootArgs,
	stderr io.Writer,
	prompter policy.TrustPrompter,
) (*configs.Config, error) {
	logger := log.WithContext(ctx)
	colored := isTerminal(stderr)
	path := ra.configPath()

	cfg, err := config.LoadFile(path, configs.New, configs.DefaultValidator, config.WithColor(colored))
	if errors.Is(err, fs.ErrNotExist) {
		logger.DebugContext(ctx, "no configuration file, using defaults")

		cfg = configs.Default()
		err = cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	pol, policyPath, err := loadPolicy(colored)
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	tm := policy.NewTrustManager(pol, policyPath, colored)

	cfg, err = tm.Apply(ctx, cfg, wd, prompter, ra.TrustMode())
	if err != nil {
		return nil, fmt.Errorf("project config: %w", err)
	}

	return cfg, nil
}

func loadPolicy(colored bool) (*policies.Policy, string, error) {
	path := policies.GetPath()

	pol, err := config.LoadFile(path, policies.New, policies.DefaultValidator, config.WithColor(colored))
	if errors.Is(err, fs.ErrNotExist) {
		return policies.New(), path, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("invalid policy %q: %w", path, err)
	}

	return pol, path, nil
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f any) bool {
	file, ok := f.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd())) //nolint:gosec // File descriptors fit in an int.
}

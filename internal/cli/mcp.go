package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/scout/pkg/log"
	"github.com/macropower/scout/pkg/mcp"
	"github.com/macropower/scout/pkg/present"
	"github.com/macropower/scout/pkg/suggest"
)

type MCPArgs struct {
	*RootArgs

	Address string
	Watch   bool
}

func NewMCPArgs(rootArgs *RootArgs) *MCPArgs {
	return &MCPArgs{
		RootArgs: rootArgs,
	}
}

func (ma *MCPArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ma.Address, "address", "", "Serve streamable HTTP at this address instead of stdio")
	cmd.Flags().BoolVarP(&ma.Watch, "watch", "w", false, "Reload the configuration when the file changes")
}

func NewMCPCmd(rootArgs *RootArgs) *cobra.Command {
	ma := NewMCPArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve agent suggestions over the Model Context Protocol",
		Long: `Serve agent suggestions over the Model Context Protocol.

Project configurations are never prompted for, since stdin carries the
protocol. Trust a project beforehand, or pass --trust.`,
		Example: `  # Serve on stdio:
  scout mcp

  # Serve streamable HTTP and reload on config changes:
  scout mcp --address localhost:8080 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd.Context(), ma, cmd.ErrOrStderr())
		},
	}

	ma.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runMCP(ctx context.Context, ma *MCPArgs, stderr io.Writer) error {
	load := func(ctx context.Context) (*mcp.Snapshot, error) {
		cfg, err := loadConfig(ctx, ma.RootArgs, stderr, nil)
		if err != nil {
			return nil, err
		}

		return mcp.NewSnapshot(
			suggest.New(cfg.Registry),
			present.New(present.WithInvokeConfig(cfg.Invoke)),
		), nil
	}

	snap, err := load(ctx)
	if err != nil {
		return err
	}

	var opts []mcp.ServerOpt
	if ma.Address != "" {
		opts = append(opts, mcp.WithAddress(ma.Address))
	}

	srv := mcp.NewServer(snap, opts...)

	if ma.Watch {
		path := ma.configPath()

		err = srv.Watch(ctx, path, load)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}

		log.WithContext(ctx).DebugContext(ctx, "watching configuration", slog.String("path", path))
	}

	err = srv.Serve(ctx)
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}

	return nil
}

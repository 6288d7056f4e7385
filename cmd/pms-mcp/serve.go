package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ggoodman/pms-mcp/connector"
	"github.com/ggoodman/pms-mcp/internal/config"
	"github.com/ggoodman/pms-mcp/internal/logctx"
	"github.com/ggoodman/pms-mcp/mcp"
	"github.com/ggoodman/pms-mcp/mcpservice"
	"github.com/ggoodman/pms-mcp/pms"
	"github.com/ggoodman/pms-mcp/stdio"
	"github.com/spf13/cobra"
)

const instructions = `Tools search a property-management system. Arguments are validated before any request is sent:
dates use YYYY-MM-DD, timestamps use ISO 8601, id filters take one id or a comma separated list,
and 0/1 flags must be sent as 0 or 1. A rejected argument is reported with its name and the reason.`

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			return serve(cmd.Context(), envFile, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func loadConfig(envFile string) (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, envFile string, in io.Reader, out, errOut io.Writer) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	level, _ := cfg.SlogLevel()
	log := logctx.Decorate(slog.New(slog.NewJSONHandler(errOut, &slog.HandlerOptions{Level: level})))

	client := pms.NewFromConfig(cfg, log)
	srv := mcpservice.NewServer(
		mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "pms-mcp", Title: "Property management", Version: version}),
		mcpservice.WithInstructions(instructions),
		mcpservice.WithToolsCapability(connector.NewToolsContainer(client)),
	)

	h := stdio.NewHandler(srv, stdio.WithIO(in, out), stdio.WithLogger(log))
	log.InfoContext(ctx, "serve.start", slog.String("base_url", cfg.BaseURL), slog.String("session_id", h.SessionID()))

	if err := h.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.InfoContext(ctx, "serve.stop")
	return nil
}

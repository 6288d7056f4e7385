package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pms-mcp",
		Short:         "MCP connector for the property-management API",
		Long:          "pms-mcp exposes reservation, unit and amenity search tools to MCP clients over stdio.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env-file", "", "dotenv file to load before reading the environment (default .env if present)")

	root.AddCommand(newServeCmd(), newCheckCmd(), newToolsCmd())
	return root
}

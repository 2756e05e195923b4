package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mcpforge/mcpforge/internal/buildtool"
	"github.com/mcpforge/mcpforge/internal/ops"
	"github.com/mcpforge/mcpforge/internal/settings"
	"github.com/mcpforge/mcpforge/internal/tools"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mcpforge-mcp: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, logLevel string

	cmd := &cobra.Command{
		Use:   "mcpforge-mcp",
		Short: "MCP server that creates, builds, and installs MCP servers",
		Long: `mcpforge-mcp serves three tools over stdio: create-server scaffolds a new
MCP server project, build-server runs its ecosystem build tool, and
install-server registers the built server in the Claude Desktop
configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, logLevel)
		},
	}
	cmd.Flags().StringVar(&configPath, "config-path", "", "Claude Desktop config file (default: platform path)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

func serve(configPath, logLevel string) error {
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	if configPath != "" {
		cfg.ConfigPath = configPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// stdout belongs to the MCP transport; all logging goes to stderr.
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "mcpforge"})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}

	svc := ops.New(logger, buildtool.ExecRunner{}, cfg.ConfigPath, cfg.DefaultLanguage)

	s := server.NewMCPServer(
		"mcpforge",
		version,
		server.WithToolCapabilities(true),
	)
	tools.RegisterAll(s, svc)

	logger.Info("serving stdio", "version", version)
	return server.ServeStdio(s)
}

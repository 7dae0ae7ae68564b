package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/corbat-tech/corbat-mcp/internal/config"
	"github.com/corbat-tech/corbat-mcp/internal/logging"
	corbatserver "github.com/corbat-tech/corbat-mcp/internal/server"
)

// loadConfig is a package-level var to allow test injection.
var loadConfig = config.Load

func newRootCmd() *cobra.Command {
	var plain bool

	root := &cobra.Command{
		Use:   "corbat-mcp",
		Short: "Corbat: coding standards MCP server",
		Long: `Corbat serves coding-standard profiles, task guardrails and a searchable
standards corpus to AI coding assistants over the Model Context Protocol.

Run "corbat-mcp serve" from your MCP client configuration. The other
commands run the same tools locally and print the result.`,
		Version:       corbatserver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("corbat-mcp v{{.Version}}\n")
	root.PersistentFlags().BoolVar(&plain, "plain", false, "print raw markdown even on a terminal")

	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
		newContextCmd(&plain),
		newSearchCmd(&plain),
		newProfilesCmd(&plain),
		newCallCmd(&plain),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			s, cleanup, err := corbatserver.New(cfg, logger)
			defer cleanup()
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			// Graceful shutdown on interrupt.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("Server stopped")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "corbat-mcp v%s\n", corbatserver.Version)
		},
	}
}

func newContextCmd(plain *bool) *cobra.Command {
	var dir, profileID string

	cmd := &cobra.Command{
		Use:   "context <task>",
		Short: "Print the standards context for a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs := map[string]interface{}{"task": strings.Join(args, " ")}
			if dir != "" {
				callArgs["project_dir"] = absPath(dir)
			}
			if profileID != "" {
				callArgs["profile"] = profileID
			}
			return runTool(cmd, *plain, "get_context", callArgs)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "project directory used for stack detection and .corbat.json")
	cmd.Flags().StringVarP(&profileID, "profile", "p", "", "profile id to use")
	return cmd
}

func newSearchCmd(plain *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the standards documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, *plain, "search", map[string]interface{}{
				"query": strings.Join(args, " "),
				"limit": float64(limit),
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

func newProfilesCmd(plain *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [id]",
		Short: "List profiles, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs := map[string]interface{}{}
			if len(args) == 1 {
				callArgs["profile_id"] = args[0]
			}
			return runTool(cmd, *plain, "profiles", callArgs)
		},
	}
}

func newCallCmd(plain *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Invoke a tool by name with JSON arguments",
		Example: `  corbat-mcp call health
  corbat-mcp call validate '{"code": "func f() {}", "task_type": "BUGFIX"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs := map[string]interface{}{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &callArgs); err != nil {
					return fmt.Errorf("parsing arguments: %w", err)
				}
			}
			return runTool(cmd, *plain, args[0], callArgs)
		},
	}
}

// setup loads configuration and installs the default logger. Logs go to
// stderr; stdout belongs to the MCP transport.
func setup() (*config.Config, *logging.AppLogger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Writer: os.Stderr})
	logging.SetDefault(logger)
	return cfg, logger, nil
}

// runTool builds the components, calls the named tool and prints its text.
// A tool error result becomes a command error.
func runTool(cmd *cobra.Command, plain bool, name string, args map[string]interface{}) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	c, cleanup, err := corbatserver.Build(cfg, logger)
	defer cleanup()
	if err != nil {
		return err
	}

	result, err := c.Tools.Call(cmd.Context(), name, args)
	if err != nil {
		return err
	}

	text := resultText(result)
	if result.IsError {
		return errors.New(text)
	}
	return render(cmd.OutOrStdout(), text, plain)
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func absPath(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

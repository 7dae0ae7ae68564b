// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on
// interfaces. No business logic lives here, only wiring.
package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/corbat-tech/corbat-mcp/internal/config"
	"github.com/corbat-tech/corbat-mcp/internal/logging"
	"github.com/corbat-tech/corbat-mcp/internal/profile"
	"github.com/corbat-tech/corbat-mcp/internal/prompts"
	"github.com/corbat-tech/corbat-mcp/internal/resilience"
	"github.com/corbat-tech/corbat-mcp/internal/resources"
	"github.com/corbat-tech/corbat-mcp/internal/standards"
	"github.com/corbat-tech/corbat-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Components are the wired dependencies shared by the MCP server and
// the CLI subcommands.
type Components struct {
	Config    *config.Config
	Logger    *logging.AppLogger
	Profiles  *profile.Store
	Standards *standards.Index
	Tools     *tools.Registry
	Resources *resources.Handler
}

// Build creates every component from cfg. The returned cleanup function
// closes the standards index; it is always non-nil and safe to call even
// when Build fails.
func Build(cfg *config.Config, logger *logging.AppLogger) (*Components, func(), error) {
	if logger == nil {
		logger = logging.Discard()
	}

	// --- Shared dependencies ---

	retry := resilience.DefaultFilePolicy()

	store := profile.NewStore(profile.StoreOptions{
		TemplatesDir:     cfg.TemplatesDir(),
		CustomDir:        cfg.CustomDir(),
		DefaultProfileID: cfg.DefaultProfile,
		Cache:            profile.NewCache(cfg.CacheTTL, profile.SystemClock{}, profile.DefaultCacheSize),
		RetryPolicy:      &retry,
		Logger:           logger.With("component", "profiles"),
	})

	index, err := standards.NewIndex(standards.Options{
		Root:        cfg.StandardsDir,
		TTL:         cfg.CacheTTL,
		RetryPolicy: &retry,
		Logger:      logger.With("component", "standards"),
	})
	if err != nil {
		return nil, noop, fmt.Errorf("creating standards index: %w", err)
	}
	cleanup := func() {
		if err := index.Close(); err != nil {
			logger.Warn("Closing standards index failed", "err", err)
		}
	}

	// --- Tools ---

	errs := tools.ErrorPolicy{Verbose: cfg.VerboseErrors}
	registry := tools.NewRegistry(logger.With("component", "tools"),
		tools.NewGetContextTool(store, errs),
		tools.NewValidateTool(store, errs),
		tools.NewSearchTool(index, errs),
		tools.NewProfilesTool(store, errs),
		tools.NewHealthTool(store, index, tools.HealthInfo{
			Version:      Version,
			Environment:  cfg.Environment,
			ProfilesDir:  cfg.ProfilesDir,
			StandardsDir: cfg.StandardsDir,
			CacheTTL:     cfg.CacheTTL,
			StartedAt:    time.Now(),
		}, nil),
	)

	return &Components{
		Config:    cfg,
		Logger:    logger,
		Profiles:  store,
		Standards: index,
		Tools:     registry,
		Resources: resources.NewHandler(store, index),
	}, cleanup, nil
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered. The returned cleanup function must be called on
// shutdown (typically via defer).
func New(cfg *config.Config, logger *logging.AppLogger) (*server.MCPServer, func(), error) {
	c, cleanup, err := Build(cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"corbat",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	c.Tools.Register(s)

	// --- Register prompts ---

	implementPrompt := prompts.NewImplementPrompt()
	s.AddPrompt(implementPrompt.Definition(), implementPrompt.Handle)

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	// --- Register resources ---

	c.Resources.Register(s)

	c.Logger.Info("Server ready",
		"version", Version,
		"environment", cfg.Environment,
		"profiles_dir", cfg.ProfilesDir,
		"standards_dir", cfg.StandardsDir,
		"tools", len(c.Tools.Names()),
	)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used when nothing was opened.
func noop() {}

// serverInstructions returns the system-level instructions that tell the
// AI when and how to use corbat.
func serverInstructions() string {
	return `You have access to Corbat, a coding standards MCP server.

## WHEN TO USE CORBAT

Call get_context BEFORE writing or changing code. Pass the task in plain
language and the project root as project_dir. The response tells you:
- The task type (FEATURE, BUGFIX, REFACTOR or TEST)
- The profile in force: architecture layers, naming conventions, quality thresholds
- MUST and AVOID guardrails for the task type
- Project rules from .corbat.json, when the project has one
- The workflow to follow: Clarify, Plan, Build, Verify, Review

Follow the guardrails. When they conflict with a user instruction, ask.

## OTHER TOOLS

- validate: returns a review checklist for code. Nothing is executed; walk
  through the checklist yourself and report each item.
- search: keyword search over the standards documents. Use it to cite the
  standard behind a recommendation.
- profiles: list profiles, or show one in full with profile_id.
- health: server diagnostics. Use it when a tool reports missing profiles.

## PROMPTS

- corbat-implement: get_context, implement, then validate.
- corbat-review: validate the given code and report against the checklist.`
}

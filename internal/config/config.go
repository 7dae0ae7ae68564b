// Package config loads corbat-mcp runtime configuration.
//
// Values come from the process environment (optionally seeded from a
// .env file). Each environment (production, development, test) carries
// its own defaults for cache TTL, log level and error verbosity; explicit
// CORBAT_* variables always win over those defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// AppName is used for XDG directory names.
const AppName = "corbat"

// Environment variable names.
const (
	EnvProfilesDir    = "CORBAT_PROFILES_DIR"
	EnvStandardsDir   = "CORBAT_STANDARDS_DIR"
	EnvDefaultProfile = "CORBAT_DEFAULT_PROFILE"
	EnvCacheTTLMs     = "CORBAT_CACHE_TTL_MS"
	EnvLogLevel       = "CORBAT_LOG_LEVEL"
	EnvVerboseErrors  = "CORBAT_VERBOSE_ERRORS"
	EnvEnvironment    = "CORBAT_ENV"
	EnvNodeEnv        = "NODE_ENV"
)

// Environment names.
const (
	Production  = "production"
	Development = "development"
	Test        = "test"
)

// DefaultProfileID is the global fallback profile.
const DefaultProfileID = "java-spring-backend"

// Config holds the resolved runtime configuration.
type Config struct {
	Environment    string
	ProfilesDir    string
	StandardsDir   string
	DefaultProfile string
	CacheTTL       time.Duration
	LogLevel       string
	VerboseErrors  bool
}

// TemplatesDir is where shipped profiles live.
func (c *Config) TemplatesDir() string {
	return filepath.Join(c.ProfilesDir, "templates")
}

// CustomDir is where user profiles that shadow templates live.
func (c *Config) CustomDir() string {
	return filepath.Join(c.ProfilesDir, "custom")
}

// envDefaults are the per-environment defaults.
type envDefaults struct {
	cacheTTL      time.Duration
	logLevel      string
	verboseErrors bool
}

var environmentDefaults = map[string]envDefaults{
	Production:  {cacheTTL: 5 * time.Minute, logLevel: "info", verboseErrors: false},
	Development: {cacheTTL: 5 * time.Second, logLevel: "debug", verboseErrors: true},
	Test:        {cacheTTL: 0, logLevel: "warn", verboseErrors: true},
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// lookupEnv is a package-level var so tests can supply a fake environment.
var lookupEnv = os.LookupEnv

// Load reads .env (if present) and the environment, applying
// environment-specific defaults.
func Load() (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()
	return FromEnv(lookupEnv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	env := normalizeEnvironment(firstNonEmpty(get(EnvEnvironment), get(EnvNodeEnv)))
	defaults := environmentDefaults[env]

	cfg := &Config{
		Environment:    env,
		ProfilesDir:    resolveDir(get(EnvProfilesDir), "profiles"),
		StandardsDir:   resolveDir(get(EnvStandardsDir), "standards"),
		DefaultProfile: firstNonEmpty(get(EnvDefaultProfile), DefaultProfileID),
		CacheTTL:       defaults.cacheTTL,
		LogLevel:       defaults.logLevel,
		VerboseErrors:  defaults.verboseErrors,
	}

	if raw := get(EnvCacheTTLMs); raw != "" {
		ms, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, newError(EnvCacheTTLMs, raw, "must be an integer number of milliseconds")
		}
		if ms < 0 {
			return nil, newError(EnvCacheTTLMs, raw, "must not be negative")
		}
		cfg.CacheTTL = time.Duration(ms) * time.Millisecond
	}

	if raw := get(EnvLogLevel); raw != "" {
		level := strings.ToLower(raw)
		if !validLogLevels[level] {
			return nil, newError(EnvLogLevel, raw, "must be one of debug, info, warn, error")
		}
		cfg.LogLevel = level
	}

	if raw := get(EnvVerboseErrors); raw != "" {
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, newError(EnvVerboseErrors, raw, "must be a boolean")
		}
		cfg.VerboseErrors = v
	}

	return cfg, nil
}

// normalizeEnvironment maps free-form environment names to the three
// known ones. Anything unrecognised is treated as production.
func normalizeEnvironment(s string) string {
	switch strings.ToLower(s) {
	case "dev", Development:
		return Development
	case "testing", Test:
		return Test
	default:
		return Production
	}
}

// resolveDir picks the explicit directory, then ./<name> when present,
// then $XDG_DATA_HOME/corbat/<name>.
func resolveDir(explicit, name string) string {
	if explicit != "" {
		return filepath.Clean(explicit)
	}
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		if abs, err := filepath.Abs(name); err == nil {
			return abs
		}
		return name
	}
	return filepath.Join(xdg.DataHome, AppName, name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

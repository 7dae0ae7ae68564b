package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corbat-tech/corbat-mcp/internal/config"
)

// useTestConfig points the CLI at a temp profiles/standards tree.
func useTestConfig(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Environment:    config.Test,
		ProfilesDir:    filepath.Join(root, "profiles"),
		StandardsDir:   filepath.Join(root, "standards"),
		DefaultProfile: "java-spring-backend",
		LogLevel:       "error",
	}

	files := map[string]string{
		filepath.Join(cfg.TemplatesDir(), "java-spring-backend.yaml"): "name: Java Spring Backend\n",
		filepath.Join(cfg.TemplatesDir(), "go-service.yaml"):          "name: Go Service\n",
		filepath.Join(cfg.StandardsDir, "messaging", "kafka.md"):      "# Kafka\n\nKafka retries need backoff.\n",
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup: mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: write: %v", err)
		}
	}

	orig := loadConfig
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	t.Cleanup(func() { loadConfig = orig })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "corbat-mcp v") {
		t.Errorf("output = %q", out)
	}
}

func TestContextCmd(t *testing.T) {
	useTestConfig(t)

	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "go.mod"), []byte("module x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "context", "--dir", project, "Fix", "the", "login", "crash")
	if err != nil {
		t.Fatalf("context error: %v", err)
	}
	for _, want := range []string{"**Task type**: BUGFIX", "`go-service`", "## Workflow"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestSearchCmd(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "search", "kafka", "--limit", "5")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.Contains(out, "## 1. Kafka") {
		t.Errorf("output:\n%s", out)
	}
}

func TestProfilesCmd(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "profiles")
	if err != nil {
		t.Fatalf("profiles error: %v", err)
	}
	if !strings.Contains(out, "# Profiles (2)") {
		t.Errorf("output:\n%s", out)
	}

	_, err = execute(t, "profiles", "missing")
	if err == nil || !strings.Contains(err.Error(), `"missing" not found`) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCallCmd(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "call", "validate", `{"code": "x := 1", "task_type": "TEST"}`)
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if !strings.Contains(out, "## Review Checklist (TEST)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestCallCmd_Errors(t *testing.T) {
	useTestConfig(t)

	if _, err := execute(t, "call", "nope"); err == nil || !strings.Contains(err.Error(), "valid tools are") {
		t.Errorf("unknown tool error = %v", err)
	}
	if _, err := execute(t, "call", "health", "{bad"); err == nil || !strings.Contains(err.Error(), "parsing arguments") {
		t.Errorf("bad json error = %v", err)
	}
}

func TestRender_PlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, "# Title", false); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if buf.String() != "# Title\n" {
		t.Errorf("render = %q, want raw markdown", buf.String())
	}
}

package stack

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte{}, 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
}

func TestDetect_SingleMarkers(t *testing.T) {
	tests := []struct {
		file     string
		wantKey  string
		wantLang string
		wantTool string
	}{
		{"pom.xml", "java-spring", "Java", "Maven"},
		{"build.gradle.kts", "kotlin-spring", "Kotlin", "Gradle"},
		{"build.gradle", "java-spring", "Java", "Gradle"},
		{"go.mod", "go", "Go", "Go modules"},
		{"Cargo.toml", "rust", "Rust", "Cargo"},
		{"pyproject.toml", "python", "Python", "pyproject"},
		{"requirements.txt", "python", "Python", "pip"},
		{"Billing.Api.csproj", "csharp-dotnet", "C#", "dotnet"},
		{"Gemfile", "ruby", "Ruby", "Bundler"},
		{"composer.json", "php", "PHP", "Composer"},
		{"tsconfig.json", "typescript", "TypeScript", "npm"},
		{"package.json", "nodejs", "JavaScript", "npm"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.file)

			got := Detect(dir)
			if got == nil {
				t.Fatal("Detect() = nil, want a result")
			}
			if got.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", got.Key, tt.wantKey)
			}
			if got.Language != tt.wantLang {
				t.Errorf("Language = %q, want %q", got.Language, tt.wantLang)
			}
			if got.BuildTool != tt.wantTool {
				t.Errorf("BuildTool = %q, want %q", got.BuildTool, tt.wantTool)
			}
			if got.MatchedFile != tt.file {
				t.Errorf("MatchedFile = %q, want %q", got.MatchedFile, tt.file)
			}
		})
	}
}

func TestDetect_PomBeatsPackageJSON(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "package.json", "pom.xml")

	got := Detect(dir)
	if got == nil {
		t.Fatal("Detect() = nil")
	}
	if got.MatchedFile != "pom.xml" {
		t.Errorf("MatchedFile = %q, want pom.xml", got.MatchedFile)
	}
	if got.Framework != "Spring Boot" {
		t.Errorf("Framework = %q, want Spring Boot", got.Framework)
	}
}

func TestDetect_TypeScriptBeatsPlainNode(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "package.json", "tsconfig.json")

	got := Detect(dir)
	if got == nil || got.Key != "typescript" {
		t.Errorf("Detect() = %+v, want typescript", got)
	}
}

func TestDetect_NoMarkers(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "README.md", "main.c")

	if got := Detect(dir); got != nil {
		t.Errorf("Detect() = %+v, want nil", got)
	}
}

func TestDetect_IgnoresDirectoriesAndNesting(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "pom.xml"), 0o755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "service")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, sub, "go.mod")

	if got := Detect(dir); got != nil {
		t.Errorf("Detect() = %+v, want nil", got)
	}
}

func TestDetect_UnreadableOrEmptyDir(t *testing.T) {
	if got := Detect(filepath.Join(t.TempDir(), "missing")); got != nil {
		t.Errorf("Detect(missing) = %+v, want nil", got)
	}
	if got := Detect(""); got != nil {
		t.Errorf("Detect(\"\") = %+v, want nil", got)
	}
}

func TestDetect_RecomputesEachCall(t *testing.T) {
	dir := t.TempDir()
	if got := Detect(dir); got != nil {
		t.Fatalf("first Detect() = %+v, want nil", got)
	}
	touch(t, dir, "go.mod")
	if got := Detect(dir); got == nil || got.Key != "go" {
		t.Errorf("second Detect() = %+v, want go", got)
	}
}

func TestResult_String(t *testing.T) {
	r := &Result{Language: "Java", Framework: "Spring Boot", BuildTool: "Maven"}
	if got := r.String(); got != "Java / Spring Boot (Maven)" {
		t.Errorf("String() = %q", got)
	}
	var nilResult *Result
	if got := nilResult.String(); got != "" {
		t.Errorf("nil String() = %q, want empty", got)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != 10 {
		t.Errorf("len(Keys()) = %d, want 10: %v", len(keys), keys)
	}
	if keys[0] != "java-spring" {
		t.Errorf("Keys()[0] = %q, want java-spring", keys[0])
	}
}

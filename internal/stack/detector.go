// Package stack infers a project's language, framework and build tool
// from marker files in its root directory.
package stack

import (
	"os"
	"strings"
)

// Result describes a detected stack. Framework and BuildTool may be empty.
type Result struct {
	Key         string
	Language    string
	Framework   string
	BuildTool   string
	MatchedFile string
}

// String returns a compact human-readable form, e.g. "Java / Spring Boot (Maven)".
func (r *Result) String() string {
	if r == nil {
		return ""
	}
	s := r.Language
	if r.Framework != "" {
		s += " / " + r.Framework
	}
	if r.BuildTool != "" {
		s += " (" + r.BuildTool + ")"
	}
	return s
}

type marker struct {
	// file is an exact name, or "*.ext" to match any file with that suffix.
	file      string
	key       string
	language  string
	framework string
	buildTool string
}

// markers is ordered by detection priority: the first present marker wins.
var markers = []marker{
	{"pom.xml", "java-spring", "Java", "Spring Boot", "Maven"},
	{"build.gradle.kts", "kotlin-spring", "Kotlin", "Spring Boot", "Gradle"},
	{"build.gradle", "java-spring", "Java", "Spring Boot", "Gradle"},
	{"go.mod", "go", "Go", "", "Go modules"},
	{"Cargo.toml", "rust", "Rust", "", "Cargo"},
	{"pyproject.toml", "python", "Python", "", "pyproject"},
	{"requirements.txt", "python", "Python", "", "pip"},
	{"*.csproj", "csharp-dotnet", "C#", ".NET", "dotnet"},
	{"Gemfile", "ruby", "Ruby", "", "Bundler"},
	{"composer.json", "php", "PHP", "", "Composer"},
	{"tsconfig.json", "typescript", "TypeScript", "Node.js", "npm"},
	{"package.json", "nodejs", "JavaScript", "Node.js", "npm"},
}

// Detect returns the stack for projectDir, or nil when no marker file is
// present or the directory cannot be read. Only the top level is inspected.
func Detect(projectDir string) *Result {
	if projectDir == "" {
		return nil
	}
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil
	}

	files := make([]string, 0, len(entries))
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, e.Name())
		present[e.Name()] = true
	}

	for _, m := range markers {
		matched := ""
		if suffix, ok := strings.CutPrefix(m.file, "*"); ok {
			for _, f := range files {
				if strings.HasSuffix(f, suffix) {
					matched = f
					break
				}
			}
		} else if present[m.file] {
			matched = m.file
		}

		if matched != "" {
			return &Result{
				Key:         m.key,
				Language:    m.language,
				Framework:   m.framework,
				BuildTool:   m.buildTool,
				MatchedFile: matched,
			}
		}
	}
	return nil
}

// Keys lists every stack key the detector can produce, in table order
// without duplicates.
func Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range markers {
		if !seen[m.key] {
			seen[m.key] = true
			keys = append(keys, m.key)
		}
	}
	return keys
}

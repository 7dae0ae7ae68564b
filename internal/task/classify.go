// Package task classifies free-text task descriptions and renders the
// guardrails and workflow that go with each category.
package task

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Category is the coarse kind of work a task describes.
type Category string

const (
	Feature  Category = "FEATURE"
	Bugfix   Category = "BUGFIX"
	Refactor Category = "REFACTOR"
	Test     Category = "TEST"
)

// Categories returns every category in classification priority order.
func Categories() []Category {
	return []Category{Bugfix, Refactor, Test, Feature}
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case Feature, Bugfix, Refactor, Test:
		return true
	}
	return false
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid task type %q: must be one of %s", s, categoryNames())
	}
	return c, nil
}

func categoryNames() string {
	names := make([]string, 0, 4)
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// Classification is the outcome of Classify.
type Classification struct {
	Category        Category
	MatchedKeywords []string
}

// keywords maps each category to the words that signal it, checked in
// Categories() order. Stricter guardrails come first so a task that
// mentions both a fix and a refactor gets the bug-fix treatment.
//
// A keyword matches at the start of a word: "fix" finds "fixes" but not
// "prefix". Bare "error" is left out; only phrases reporting one count.
var keywords = map[Category][]string{
	Bugfix: {
		"fix", "bug", "crash", "broken", "issue", "not working",
		"fails", "failing", "exception", "regression", "incorrect", "wrong",
		"an error", "error when", "error on", "error in", "throws",
	},
	Refactor: {
		"refactor", "restructure", "reorganize", "clean up", "cleanup",
		"simplify", "extract", "rename", "technical debt", "tech debt",
	},
	Test: {
		"test", "testing", "coverage", "unit test", "integration test", "e2e",
	},
	Feature: {
		"create", "add", "implement", "build", "new", "develop", "feature",
	},
}

// Keywords returns a copy of the keyword list for c.
func Keywords(c Category) []string {
	return append([]string(nil), keywords[c]...)
}

// Classify picks the first category, in priority order, with any keyword
// present in text. Text with no known keyword is a FEATURE.
func Classify(text string) Classification {
	lower := strings.ToLower(norm.NFKC.String(text))

	for _, c := range Categories() {
		if matched := matchKeywords(lower, keywords[c]); len(matched) > 0 {
			return Classification{Category: c, MatchedKeywords: matched}
		}
	}
	return Classification{Category: Feature, MatchedKeywords: []string{}}
}

// matchKeywords returns the keywords found in text, in table order.
func matchKeywords(text string, words []string) []string {
	var matched []string
	for _, w := range words {
		if containsWordPrefix(text, w) {
			matched = append(matched, w)
		}
	}
	return matched
}

// containsWordPrefix reports whether w occurs in text where it is not
// preceded by a letter or digit.
func containsWordPrefix(text, w string) bool {
	for off := 0; ; {
		i := strings.Index(text[off:], w)
		if i < 0 {
			return false
		}
		at := off + i
		if at == 0 {
			return true
		}
		r, _ := utf8.DecodeLastRuneInString(text[:at])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
		off = at + 1
	}
}

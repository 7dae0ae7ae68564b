package profile

import (
	"context"
	"path/filepath"
	"testing"
)

// The shipped templates must all load and validate, and every stack
// mapping must point at one of them.
func TestShippedTemplates(t *testing.T) {
	templates := filepath.Join("..", "..", "profiles", "templates")
	s := NewStore(StoreOptions{TemplatesDir: templates, DefaultProfileID: "java-spring-backend"})
	ctx := context.Background()

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(summaries) < 6 {
		t.Fatalf("got %d shipped profiles, want at least 6", len(summaries))
	}
	for _, sum := range summaries {
		if _, err := s.Load(ctx, sum.ID); err != nil {
			t.Errorf("Load(%s) error: %v", sum.ID, err)
		}
	}

	for key, id := range DefaultStackProfiles() {
		ok, err := s.Exists(ctx, id)
		if err != nil || !ok {
			t.Errorf("stack %s maps to %s, which is not shipped", key, id)
		}
	}
}

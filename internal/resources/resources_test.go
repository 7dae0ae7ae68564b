package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corbat-tech/corbat-mcp/internal/profile"
	"github.com/corbat-tech/corbat-mcp/internal/standards"
)

type fakeProfiles struct {
	summaries []profile.Summary
	profiles  map[string]*profile.Profile
}

func (f *fakeProfiles) List(context.Context) ([]profile.Summary, error) {
	return f.summaries, nil
}

func (f *fakeProfiles) Load(_ context.Context, id string) (*profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, &profile.NotFoundError{ID: id}
	}
	return p, nil
}

type fakeStandards struct {
	docs map[string][]standards.Document
}

func (f *fakeStandards) Categories(context.Context) ([]string, error) {
	return []string{"messaging", "testing"}, nil
}

func (f *fakeStandards) DocumentsByCategory(_ context.Context, c string) ([]standards.Document, error) {
	return f.docs[c], nil
}

func newTestHandler() *Handler {
	p := profile.NewDefaultProfile()
	p.ID = "go-service"
	p.Name = "Go Service"

	return NewHandler(
		&fakeProfiles{
			summaries: []profile.Summary{{ID: "go-service", Name: "Go Service", Source: profile.SourceTemplate}},
			profiles:  map[string]*profile.Profile{"go-service": p},
		},
		&fakeStandards{docs: map[string][]standards.Document{
			"messaging": {
				{Category: "messaging", Title: "Kafka", Body: "Use idempotent consumers.\n"},
				{Category: "messaging", Title: "RabbitMQ", Body: "Durable queues."},
			},
			"testing": {{Category: "testing", Title: "Unit Testing", Body: "Arrange, act, assert."}},
		}},
	)
}

func read(t *testing.T, fn func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("read %s: %v", uri, err)
	}
	if len(contents) != 1 {
		t.Fatalf("read %s: got %d contents, want 1", uri, len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("read %s: content is %T", uri, contents[0])
	}
	return tc
}

func TestHandleProfiles(t *testing.T) {
	h := newTestHandler()
	got := read(t, h.HandleProfiles, "corbat://profiles")

	if got.MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", got.MIMEType)
	}
	var summaries []profile.Summary
	if err := json.Unmarshal([]byte(got.Text), &summaries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "go-service" {
		t.Errorf("summaries = %+v", summaries)
	}
}

func TestHandleProfile(t *testing.T) {
	h := newTestHandler()
	got := read(t, h.HandleProfile, "corbat://profiles/go-service")

	if got.URI != "corbat://profiles/go-service" {
		t.Errorf("URI = %s", got.URI)
	}
	if got.MIMEType != "application/yaml" {
		t.Errorf("MIMEType = %s, want application/yaml", got.MIMEType)
	}
	if !strings.Contains(got.Text, "name: Go Service") || !strings.Contains(got.Text, "type: hexagonal") {
		t.Errorf("unexpected YAML:\n%s", got.Text)
	}
}

func TestHandleProfile_Unknown(t *testing.T) {
	h := newTestHandler()
	got := read(t, h.HandleProfile, "corbat://profiles/nope")

	if got.MIMEType != "text/plain" || !strings.HasPrefix(got.Text, "Error: ") {
		t.Errorf("expected error resource, got %s: %s", got.MIMEType, got.Text)
	}
}

func TestHandleStandards(t *testing.T) {
	h := newTestHandler()
	got := read(t, h.HandleStandards, "corbat://standards")

	var views []categoryView
	if err := json.Unmarshal([]byte(got.Text), &views); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d categories, want 2", len(views))
	}
	if views[0].URI != "corbat://standards/messaging" {
		t.Errorf("URI = %s", views[0].URI)
	}
	if strings.Join(views[0].Documents, ",") != "Kafka,RabbitMQ" {
		t.Errorf("Documents = %v", views[0].Documents)
	}
}

func TestHandleStandardsCategory(t *testing.T) {
	h := newTestHandler()
	got := read(t, h.HandleStandardsCategory, "corbat://standards/messaging")

	if got.MIMEType != "text/markdown" {
		t.Errorf("MIMEType = %s", got.MIMEType)
	}
	for _, want := range []string{"# Standards: messaging", "## Kafka", "idempotent consumers", "## RabbitMQ"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("missing %q in\n%s", want, got.Text)
		}
	}

	empty := read(t, h.HandleStandardsCategory, "corbat://standards/unknown")
	if !strings.Contains(empty.Text, `no standards in category "unknown"`) {
		t.Errorf("unexpected text: %s", empty.Text)
	}
}

func TestLastSegment(t *testing.T) {
	tests := []struct {
		uri, base, want string
	}{
		{"corbat://profiles/go-service", "corbat://profiles", "go-service"},
		{"corbat://profiles/go-service/", "corbat://profiles", "go-service"},
		{"corbat://profiles", "corbat://profiles", ""},
		{"corbat://standards/x", "corbat://profiles", ""},
	}
	for _, tt := range tests {
		if got := lastSegment(tt.uri, tt.base); got != tt.want {
			t.Errorf("lastSegment(%q, %q) = %q, want %q", tt.uri, tt.base, got, tt.want)
		}
	}
}

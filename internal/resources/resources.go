// Package resources implements the corbat MCP resources.
//
// Resources expose read-only data the host can attach as context:
// profiles as JSON and YAML, and standards grouped by category.
// They use URI-based addressing (corbat://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/corbat-tech/corbat-mcp/internal/profile"
	"github.com/corbat-tech/corbat-mcp/internal/standards"
)

const (
	profilesURI  = "corbat://profiles"
	standardsURI = "corbat://standards"
)

// ProfileSource is the profile access resources need.
type ProfileSource interface {
	List(ctx context.Context) ([]profile.Summary, error)
	Load(ctx context.Context, id string) (*profile.Profile, error)
}

// StandardsSource is the standards access resources need.
type StandardsSource interface {
	Categories(ctx context.Context) ([]string, error)
	DocumentsByCategory(ctx context.Context, category string) ([]standards.Document, error)
}

// Handler manages corbat resource endpoints.
type Handler struct {
	profiles  ProfileSource
	standards StandardsSource
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(profiles ProfileSource, standards StandardsSource) *Handler {
	return &Handler{profiles: profiles, standards: standards}
}

// Register adds every resource and resource template to s.
func (h *Handler) Register(s *server.MCPServer) {
	s.AddResource(h.ProfilesResource(), h.HandleProfiles)
	s.AddResourceTemplate(h.ProfileTemplate(), h.HandleProfile)
	s.AddResource(h.StandardsResource(), h.HandleStandards)
	s.AddResourceTemplate(h.StandardsTemplate(), h.HandleStandardsCategory)
}

// ProfilesResource returns the MCP resource definition for the profile list.
func (h *Handler) ProfilesResource() mcp.Resource {
	return mcp.NewResource(
		profilesURI,
		"Corbat Profiles",
		mcp.WithResourceDescription("Every installed profile with its id, name, description and source"),
		mcp.WithMIMEType("application/json"),
	)
}

// ProfileTemplate returns the MCP resource template for a single profile.
func (h *Handler) ProfileTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		profilesURI+"/{id}",
		"Corbat Profile",
		mcp.WithTemplateDescription("One profile as YAML, with defaults applied"),
		mcp.WithTemplateMIMEType("application/yaml"),
	)
}

// StandardsResource returns the MCP resource definition for the category list.
func (h *Handler) StandardsResource() mcp.Resource {
	return mcp.NewResource(
		standardsURI,
		"Corbat Standards",
		mcp.WithResourceDescription("Standards categories with their document titles"),
		mcp.WithMIMEType("application/json"),
	)
}

// StandardsTemplate returns the MCP resource template for one category.
func (h *Handler) StandardsTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		standardsURI+"/{category}",
		"Corbat Standards Category",
		mcp.WithTemplateDescription("Every standards document in a category, concatenated as markdown"),
		mcp.WithTemplateMIMEType("text/markdown"),
	)
}

// HandleProfiles returns the profile summaries as JSON.
func (h *Handler) HandleProfiles(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summaries, err := h.profiles.List(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling profiles: %w", err)
	}
	return textResource(req.Params.URI, "application/json", string(data)), nil
}

// HandleProfile returns one profile as YAML.
func (h *Handler) HandleProfile(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := lastSegment(req.Params.URI, profilesURI)
	if id == "" {
		return errorResource(req.Params.URI, "missing profile id"), nil
	}

	p, err := h.profiles.Load(ctx, id)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	data, err := profile.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling profile %s: %w", id, err)
	}
	return textResource(req.Params.URI, "application/yaml", string(data)), nil
}

type categoryView struct {
	Name      string   `json:"name"`
	URI       string   `json:"uri"`
	Documents []string `json:"documents"`
}

// HandleStandards returns the standards categories as JSON.
func (h *Handler) HandleStandards(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cats, err := h.standards.Categories(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		docs, err := h.standards.DocumentsByCategory(ctx, c)
		if err != nil {
			return errorResource(req.Params.URI, err.Error()), nil
		}
		titles := make([]string, 0, len(docs))
		for _, d := range docs {
			titles = append(titles, d.Title)
		}
		views = append(views, categoryView{Name: c, URI: standardsURI + "/" + c, Documents: titles})
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling standards: %w", err)
	}
	return textResource(req.Params.URI, "application/json", string(data)), nil
}

// HandleStandardsCategory returns a category's documents as one markdown text.
func (h *Handler) HandleStandardsCategory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	category := lastSegment(req.Params.URI, standardsURI)
	if category == "" {
		return errorResource(req.Params.URI, "missing category"), nil
	}

	docs, err := h.standards.DocumentsByCategory(ctx, category)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if len(docs) == 0 {
		return errorResource(req.Params.URI, fmt.Sprintf("no standards in category %q", category)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Standards: %s\n", category)
	for _, d := range docs {
		fmt.Fprintf(&b, "\n---\n\n## %s\n\n", d.Title)
		b.WriteString(strings.TrimSpace(d.Body))
		b.WriteString("\n")
	}
	return textResource(req.Params.URI, "text/markdown", b.String()), nil
}

// lastSegment returns the part of uri after base + "/".
func lastSegment(uri, base string) string {
	rest, ok := strings.CutPrefix(uri, base+"/")
	if !ok {
		return ""
	}
	return strings.Trim(rest, "/")
}

func textResource(uri, mime, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mime,
			Text:     text,
		},
	}
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return textResource(uri, "text/plain", fmt.Sprintf("Error: %s", message))
}

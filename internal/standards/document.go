package standards

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/corbat-tech/corbat-mcp/internal/resilience"
)

// GeneralCategory holds documents placed directly in the standards root.
const GeneralCategory = "general"

// markdownExtensions are the file types indexed.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Document is one loaded markdown file.
type Document struct {
	Category string
	Title    string
	Path     string
	Body     string
}

// docFrontmatter is the optional YAML header of a standards document.
type docFrontmatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,omitempty"`
}

// fingerprint summarises the corpus so a refresh can tell whether any
// file was added, removed or modified.
type fingerprint struct {
	files  int
	latest time.Time
}

// fsReader adapts an fs.FS to resilience.FileReader.
type fsReader struct {
	fsys fs.FS
}

func (r fsReader) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(r.fsys, name)
}

// isMarkdown reports whether name has an indexed extension.
func isMarkdown(name string) bool {
	return markdownExtensions[strings.ToLower(path.Ext(name))]
}

// categoryFor derives the category from the first directory component.
func categoryFor(rel string) string {
	dir, _, found := strings.Cut(rel, "/")
	if !found {
		return GeneralCategory
	}
	return strings.ToLower(dir)
}

// walkMarkdown calls fn for every markdown file under fsys. A missing
// root yields no files.
func walkMarkdown(fsys fs.FS, fn func(rel string, d fs.DirEntry) error) error {
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !isMarkdown(d.Name()) {
			return nil
		}
		return fn(p, d)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadDocuments reads every markdown file, retrying transient errors.
func loadDocuments(ctx context.Context, fsys fs.FS, policy resilience.Policy) ([]Document, error) {
	reader := fsReader{fsys: fsys}
	var docs []Document

	err := walkMarkdown(fsys, func(rel string, _ fs.DirEntry) error {
		data, err := resilience.ReadFile(ctx, policy, reader, rel)
		if err != nil {
			return err
		}
		docs = append(docs, parseDocument(rel, data))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// computeFingerprint counts markdown files and finds the newest mtime.
func computeFingerprint(fsys fs.FS) (fingerprint, error) {
	var fp fingerprint
	err := walkMarkdown(fsys, func(_ string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}
		fp.files++
		if info.ModTime().After(fp.latest) {
			fp.latest = info.ModTime()
		}
		return nil
	})
	return fp, err
}

// parseDocument builds a Document from raw file content. The title comes
// from frontmatter, then the first level-one heading, then the filename.
// A heading used as the title is removed from the body so search does not
// count it twice.
func parseDocument(rel string, data []byte) Document {
	var matter docFrontmatter
	body := data
	if rest, err := frontmatter.Parse(bytes.NewReader(data), &matter); err == nil {
		body = rest
	}

	title := strings.TrimSpace(matter.Title)
	if title == "" {
		title, body = cutFirstHeading(body)
	}
	if title == "" {
		base := path.Base(rel)
		title = strings.TrimSuffix(base, path.Ext(base))
	}

	return Document{
		Category: categoryFor(rel),
		Title:    title,
		Path:     rel,
		Body:     string(body),
	}
}

// cutFirstHeading returns the first level-one heading and the body with
// that line removed. The body is unchanged when there is no heading.
func cutFirstHeading(body []byte) (string, []byte) {
	rest := body
	for len(rest) > 0 {
		line, next, _ := bytes.Cut(rest, []byte("\n"))
		if h, ok := strings.CutPrefix(strings.TrimSpace(string(line)), "# "); ok {
			start := len(body) - len(rest)
			out := make([]byte, 0, len(body)-len(line))
			out = append(out, body[:start]...)
			out = append(out, bytes.TrimLeft(next, "\r\n")...)
			return strings.TrimSpace(h), out
		}
		rest = next
	}
	return "", body
}

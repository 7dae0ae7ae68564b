package standards

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func corpus() fstest.MapFS {
	return fstest.MapFS{
		"messaging/kafka.md": {
			Data:    []byte("# Kafka Event Streaming\n\nUse Kafka consumers with idempotent handlers.\nConfigure Kafka retries and dead-letter topics.\n"),
			ModTime: baseTime,
		},
		"messaging/rabbitmq.md": {
			Data:    []byte("---\ntitle: RabbitMQ Queues\n---\n\nPrefer durable queues. Kafka is better for event logs.\n"),
			ModTime: baseTime,
		},
		"Testing/unit-testing.md": {
			Data:    []byte("# Unit Testing\n\nFollow arrange-act-assert.\n"),
			ModTime: baseTime,
		},
		"architecture/hexagonal.md": {
			Data:    []byte("Ports and adapters keep the domain isolated.\n"),
			ModTime: baseTime,
		},
		"README.md": {
			Data:    []byte("# Standards\n\nIndex of coding standards.\n"),
			ModTime: baseTime,
		},
		"messaging/notes.txt": {
			Data:    []byte("kafka kafka kafka"),
			ModTime: baseTime,
		},
	}
}

func newTestIndex(t *testing.T, fsys fstest.MapFS, ttl time.Duration, now func() time.Time) *Index {
	t.Helper()
	idx, err := NewIndex(Options{FS: fsys, TTL: ttl, Now: now})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSearch_Kafka(t *testing.T) {
	idx := newTestIndex(t, corpus(), time.Minute, nil)

	results, err := idx.Search(context.Background(), "kafka")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Title hit (2) + two body hits beats one body hit. The heading that
	// became the title is not counted again as body text.
	assert.Equal(t, "Kafka Event Streaming", results[0].Title)
	assert.Equal(t, "messaging", results[0].Category)
	assert.Equal(t, 4, results[0].Score)
	assert.Equal(t, "RabbitMQ Queues", results[1].Title)
	assert.Equal(t, 1, results[1].Score)

	found := false
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Title+r.Category), "kafka") {
			found = true
		}
	}
	assert.True(t, found, "expected a result whose title or category mentions kafka")
	assert.Contains(t, strings.ToLower(results[0].Snippet), "kafka")
}

func TestSearch_NoResults(t *testing.T) {
	idx := newTestIndex(t, corpus(), time.Minute, nil)

	results, err := idx.Search(context.Background(), "xyznonexistent123")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := newTestIndex(t, corpus(), time.Minute, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := idx.Search(context.Background(), q)
		assert.True(t, errors.Is(err, ErrInvalidQuery), "query %q: err = %v", q, err)
	}
}

func TestSearch_MultiTokenAndTieBreak(t *testing.T) {
	fsys := fstest.MapFS{
		"b/beta.md":  {Data: []byte("# Beta\n\nlogging\n"), ModTime: baseTime},
		"a/zeta.md":  {Data: []byte("# Zeta\n\nlogging\n"), ModTime: baseTime},
		"a/alpha.md": {Data: []byte("# Alpha\n\nlogging\n"), ModTime: baseTime},
		"c/both.md":  {Data: []byte("# Logging Metrics\n\nlogging and metrics\n"), ModTime: baseTime},
	}
	idx := newTestIndex(t, fsys, time.Minute, nil)

	results, err := idx.Search(context.Background(), "Logging METRICS logging")
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Each token: one title hit (2) plus one body hit.
	// The repeated "logging" token is counted once.
	assert.Equal(t, "Logging Metrics", results[0].Title)
	assert.Equal(t, 6, results[0].Score)

	var order []string
	for _, r := range results[1:] {
		order = append(order, r.Category+"/"+r.Title)
	}
	assert.Equal(t, []string{"a/Alpha", "a/Zeta", "b/Beta"}, order)
}

func TestSearch_Idempotent(t *testing.T) {
	idx := newTestIndex(t, corpus(), time.Minute, nil)
	ctx := context.Background()

	first, err := idx.Search(ctx, "kafka")
	require.NoError(t, err)
	require.NoError(t, idx.Build(ctx))
	require.NoError(t, idx.Build(ctx))
	second, err := idx.Search(ctx, "kafka")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCategoriesAndDocuments(t *testing.T) {
	idx := newTestIndex(t, corpus(), time.Minute, nil)
	ctx := context.Background()

	cats, err := idx.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"architecture", "general", "messaging", "testing"}, cats)

	docs, err := idx.DocumentsByCategory(ctx, "Messaging")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Kafka Event Streaming", docs[0].Title)
	assert.Equal(t, "RabbitMQ Queues", docs[1].Title)
	assert.NotContains(t, docs[1].Body, "title:", "frontmatter should be stripped")

	arch, err := idx.DocumentsByCategory(ctx, "architecture")
	require.NoError(t, err)
	require.Len(t, arch, 1)
	assert.Equal(t, "hexagonal", arch[0].Title, "falls back to filename stem")

	unknown, err := idx.DocumentsByCategory(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestStats(t *testing.T) {
	idx := newTestIndex(t, corpus(), time.Minute, nil)

	s, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, s.Documents)
	assert.Equal(t, 4, s.Categories)
	assert.False(t, s.BuiltAt.IsZero())
}

func TestEnsureFresh_ZeroTTLPicksUpChanges(t *testing.T) {
	fsys := corpus()
	idx := newTestIndex(t, fsys, 0, nil)
	ctx := context.Background()

	results, err := idx.Search(ctx, "graphql")
	require.NoError(t, err)
	assert.Empty(t, results)

	fsys["api/graphql.md"] = &fstest.MapFile{Data: []byte("# GraphQL\n\nSchema first.\n"), ModTime: baseTime.Add(time.Hour)}

	results, err = idx.Search(ctx, "graphql")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "api", results[0].Category)
}

func TestEnsureFresh_RespectsTTL(t *testing.T) {
	now := baseTime
	clock := func() time.Time { return now }

	fsys := corpus()
	idx := newTestIndex(t, fsys, time.Minute, clock)
	ctx := context.Background()

	_, err := idx.Search(ctx, "kafka")
	require.NoError(t, err)

	fsys["api/graphql.md"] = &fstest.MapFile{Data: []byte("# GraphQL\n"), ModTime: baseTime.Add(time.Hour)}

	results, err := idx.Search(ctx, "graphql")
	require.NoError(t, err)
	assert.Empty(t, results, "within TTL the index is not rebuilt")

	now = now.Add(time.Minute)
	results, err = idx.Search(ctx, "graphql")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestNewIndex_RealDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "messaging")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kafka.md"), []byte("# Kafka\n\nPartitions.\n"), 0o644))

	idx, err := NewIndex(Options{Root: root})
	require.NoError(t, err)
	defer idx.Close()

	results, err := idx.Search(context.Background(), "kafka")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(root, "messaging", "kafka.md"), results[0].Path)
	assert.Equal(t, root, idx.Root())
}

func TestNewIndex_MissingRoot(t *testing.T) {
	idx, err := NewIndex(Options{Root: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	defer idx.Close()

	cats, err := idx.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestSnippet(t *testing.T) {
	body := strings.Repeat("lorem ipsum ", 30) + "the Kafka consumer " + strings.Repeat("dolor sit ", 30)
	s := snippet(body, []string{"kafka"})

	assert.True(t, strings.HasPrefix(s, "..."))
	assert.True(t, strings.HasSuffix(s, "..."))
	assert.Contains(t, s, "Kafka consumer")
	assert.LessOrEqual(t, len(s), 2*snippetRadius+6)

	assert.Equal(t, "short body", snippet("short\n\nbody", []string{"nomatch"}))
}

func TestParseDocument_HeadingTitleLeavesBody(t *testing.T) {
	d := parseDocument("messaging/kafka.md", []byte("intro\n# Kafka Kafka\n\nUse Kafka.\n"))
	assert.Equal(t, "Kafka Kafka", d.Title)
	assert.Equal(t, "intro\nUse Kafka.\n", d.Body)

	fm := parseDocument("x/a.md", []byte("---\ntitle: From Matter\n---\n# Heading\n"))
	assert.Contains(t, fm.Body, "# Heading", "frontmatter title keeps the heading in the body")
}

func TestSearch_TitleHeadingCountedOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"messaging/kafka.md": {Data: []byte("# Kafka Kafka\n\nUse Kafka, Kafka and Kafka.\n"), ModTime: baseTime},
	}
	idx := newTestIndex(t, fsys, time.Minute, nil)

	results, err := idx.Search(context.Background(), "kafka")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2*2+3, results[0].Score)
}

func TestParseDocument_Titles(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		data string
		want string
		cat  string
	}{
		{"frontmatter wins", "x/a.md", "---\ntitle: From Matter\n---\n# Heading\n", "From Matter", "x"},
		{"first h1", "x/b.md", "intro\n## Sub\n# Main Title\n", "Main Title", "x"},
		{"filename stem", "x/c-doc.md", "no headings here", "c-doc", "x"},
		{"root file is general", "top.md", "# Top\n", "Top", GeneralCategory},
		{"nested keeps first dir", "Deep/inner/d.md", "# D\n", "D", "deep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseDocument(tt.rel, []byte(tt.data))
			assert.Equal(t, tt.want, d.Title)
			assert.Equal(t, tt.cat, d.Category)
		})
	}
}

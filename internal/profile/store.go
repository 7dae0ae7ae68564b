package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/corbat-tech/corbat-mcp/internal/logging"
	"github.com/corbat-tech/corbat-mcp/internal/resilience"
	"github.com/corbat-tech/corbat-mcp/internal/stack"
)

// profileExtensions are tried in order for each directory.
var profileExtensions = []string{".yaml", ".yml"}

// FileSystem is the filesystem access the store needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

// OSFileSystem reads from the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error)       { return os.ReadFile(path) }
func (OSFileSystem) Stat(path string) (fs.FileInfo, error)      { return os.Stat(path) }
func (OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }

// DefaultStackProfiles maps detected stack keys to shipped profile ids.
// Stacks without an entry fall back to the configured default.
func DefaultStackProfiles() map[string]string {
	return map[string]string{
		"java-spring":   "java-spring-backend",
		"kotlin-spring": "kotlin-spring-backend",
		"go":            "go-service",
		"python":        "python-service",
		"csharp-dotnet": "csharp-dotnet",
		"typescript":    "nodejs-backend",
		"nodejs":        "nodejs-backend",
	}
}

// ResolutionRule records which rule picked the profile.
type ResolutionRule string

const (
	ResolvedExplicit ResolutionRule = "explicit"
	ResolvedStack    ResolutionRule = "stack"
	ResolvedDefault  ResolutionRule = "default"
)

// Resolution explains how Resolve chose a profile.
type Resolution struct {
	Rule      ResolutionRule
	ProfileID string
	Stack     *stack.Result
}

// StoreOptions configures a Store. Zero values get sensible defaults.
type StoreOptions struct {
	TemplatesDir     string
	CustomDir        string
	DefaultProfileID string
	StackProfiles    map[string]string
	Cache            *Cache
	RetryPolicy      *resilience.Policy
	FileSystem       FileSystem
	Logger           *logging.AppLogger
}

// Store loads profiles from the templates and custom directories.
type Store struct {
	templatesDir  string
	customDir     string
	defaultID     string
	stackProfiles map[string]string
	cache         *Cache
	policy        resilience.Policy
	fs            FileSystem
	logger        *logging.AppLogger
}

// NewStore creates a Store.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		templatesDir:  opts.TemplatesDir,
		customDir:     opts.CustomDir,
		defaultID:     opts.DefaultProfileID,
		stackProfiles: opts.StackProfiles,
		cache:         opts.Cache,
		fs:            opts.FileSystem,
		logger:        opts.Logger,
	}
	if s.stackProfiles == nil {
		s.stackProfiles = DefaultStackProfiles()
	}
	if s.cache == nil {
		s.cache = NewCache(5*time.Minute, SystemClock{}, DefaultCacheSize)
	}
	if opts.RetryPolicy != nil {
		s.policy = *opts.RetryPolicy
	} else {
		s.policy = resilience.DefaultFilePolicy()
	}
	if s.fs == nil {
		s.fs = OSFileSystem{}
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// DefaultProfileID returns the configured fallback id.
func (s *Store) DefaultProfileID() string {
	return s.defaultID
}

// Cache exposes the underlying cache (used by health reporting).
func (s *Store) Cache() *Cache {
	return s.cache
}

// Resolve picks exactly one profile: the explicit id when given, else the
// profile mapped to the detected stack when it exists, else the default.
func (s *Store) Resolve(ctx context.Context, explicitID string, detected *stack.Result) (*Profile, Resolution, error) {
	if id := strings.TrimSpace(explicitID); id != "" {
		p, err := s.Load(ctx, id)
		if err != nil {
			return nil, Resolution{}, err
		}
		return p, Resolution{Rule: ResolvedExplicit, ProfileID: id, Stack: detected}, nil
	}

	if detected != nil {
		if id, ok := s.stackProfiles[detected.Key]; ok {
			exists, err := s.Exists(ctx, id)
			if err != nil {
				return nil, Resolution{}, err
			}
			if exists {
				p, err := s.Load(ctx, id)
				if err != nil {
					return nil, Resolution{}, err
				}
				return p, Resolution{Rule: ResolvedStack, ProfileID: id, Stack: detected}, nil
			}
			s.logger.Debug("Stack profile not installed, using default",
				"stack", detected.Key, "profile", id)
		}
	}

	p, err := s.Load(ctx, s.defaultID)
	if err != nil {
		return nil, Resolution{}, err
	}
	return p, Resolution{Rule: ResolvedDefault, ProfileID: s.defaultID, Stack: detected}, nil
}

// Exists reports whether a profile file for id is present.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, _, _, err := s.locate(ctx, id)
	if errors.Is(err, ErrProfileNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Load returns the profile for id, from cache when the entry is fresh and
// the file is unchanged, otherwise by reading and parsing the file.
func (s *Store) Load(ctx context.Context, id string) (*Profile, error) {
	path, info, _, err := s.locate(ctx, id)
	if err != nil {
		return nil, err
	}

	mtime := info.ModTime()
	if p, ok := s.cache.Get(id, path, mtime); ok {
		return p, nil
	}

	start := time.Now()
	data, err := resilience.ReadFile(ctx, s.policy, s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", id, err)
	}

	p, err := Parse(id, data)
	if err != nil {
		s.logger.Warn("Profile rejected", "id", id, "path", path, "err", err)
		return nil, err
	}

	s.cache.Put(id, p, path, mtime)
	s.logger.LogPerformance("profile load "+id, start)
	return p, nil
}

// List returns a summary of every profile, custom entries shadowing
// templates with the same id, sorted by id. A profile that fails to load
// is still listed, with the error as its description.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	sources := make(map[string]Source)

	for _, d := range []struct {
		dir    string
		source Source
	}{
		{s.templatesDir, SourceTemplate},
		{s.customDir, SourceCustom},
	} {
		ids, err := s.scan(d.dir)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			sources[id] = d.source
		}
	}

	ids := sortedKeys(sources)
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		sum := Summary{ID: id, Source: sources[id]}
		p, err := s.Load(ctx, id)
		if err != nil {
			s.logger.Warn("Listing profile that failed to load", "id", id, "err", err)
			sum.Name = id
			sum.Description = "error: " + err.Error()
		} else {
			sum.Name = p.Name
			sum.Description = p.Description
		}
		out = append(out, sum)
	}
	return out, nil
}

// Count returns how many profiles are installed.
func (s *Store) Count(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Invalidate drops id from the cache.
func (s *Store) Invalidate(id string) {
	s.cache.Invalidate(id)
}

// Purge empties the cache.
func (s *Store) Purge() {
	s.cache.Purge()
}

// locate finds the file for id, preferring the custom directory.
func (s *Store) locate(ctx context.Context, id string) (string, fs.FileInfo, Source, error) {
	if !validID(id) {
		return "", nil, "", &NotFoundError{ID: id}
	}

	for _, d := range []struct {
		dir    string
		source Source
	}{
		{s.customDir, SourceCustom},
		{s.templatesDir, SourceTemplate},
	} {
		if d.dir == "" {
			continue
		}
		for _, ext := range profileExtensions {
			path := filepath.Join(d.dir, id+ext)
			info, err := resilience.DoValue(ctx, s.policy, func() (fs.FileInfo, error) {
				return s.fs.Stat(path)
			})
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return "", nil, "", fmt.Errorf("checking profile %q: %w", id, err)
			}
			if info.IsDir() {
				continue
			}
			return path, info, d.source, nil
		}
	}
	return "", nil, "", &NotFoundError{ID: id}
}

// scan lists profile ids in dir. A missing directory yields none.
func (s *Store) scan(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning profiles in %s: %w", dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !slices.Contains(profileExtensions, ext) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// validID rejects ids that could escape the profile directories.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

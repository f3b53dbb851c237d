// Package catalog discovers quiz JSON files under the data directory,
// groups them by top-level folder and resolves user-supplied paths back
// to real files without letting anyone wander out of the tree.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mcqhub/mcq/internal/domain/question"
)

// ErrPathRejected reports a quiz path that does not resolve to a JSON
// file inside the data directory. Handlers turn it into a redirect to
// the catalog page.
var ErrPathRejected = errors.New("quiz path rejected")

// DefaultGroup collects files sitting directly in the data directory.
const DefaultGroup = "General"

// DefaultQuizFile is loaded for the trainer when no override is
// configured.
const DefaultQuizFile = "questions.json"

// Entry is one playable quiz file.
type Entry struct {
	Name    string // file stem shown in the catalog
	RelPath string // slash-separated path relative to the data directory
}

// Group is a folder's worth of entries.
type Group struct {
	Name    string
	Entries []Entry
}

// Catalog serves quiz files from one data directory.
type Catalog struct {
	dataDir      string
	mistakesName string
	defaultFile  string

	mu       sync.RWMutex
	defaults []question.Question
}

// New roots a catalog at dataDir. Files named mistakesName are never
// listed. defaultFile names the trainer's question file relative to
// dataDir; empty means DefaultQuizFile. Call Reload to actually load it.
func New(dataDir, mistakesName, defaultFile string) (*Catalog, error) {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if defaultFile == "" {
		defaultFile = DefaultQuizFile
	}
	return &Catalog{dataDir: abs, mistakesName: mistakesName, defaultFile: defaultFile}, nil
}

// Reload reads the default quiz file. The catalog stays usable when it
// is missing or broken; the trainer just has nothing to serve.
func (c *Catalog) Reload() error {
	qs, err := c.Load(c.defaultFile)
	if err != nil {
		c.mu.Lock()
		c.defaults = nil
		c.mu.Unlock()
		return fmt.Errorf("load default quiz %q: %w", c.defaultFile, err)
	}
	c.mu.Lock()
	c.defaults = qs
	c.mu.Unlock()
	return nil
}

// DefaultQuestions returns the trainer's question set as of the last
// Reload. Callers must not mutate the returned slice.
func (c *Catalog) DefaultQuestions() []question.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults
}

// Groups walks the data directory and returns every quiz file grouped
// by its top-level folder, both levels sorted case-insensitively. Files
// at the root land in DefaultGroup.
func (c *Catalog) Groups() ([]Group, error) {
	byGroup := make(map[string][]Entry)
	err := filepath.WalkDir(c.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if strings.EqualFold(d.Name(), c.mistakesName) {
			return nil
		}
		rel, err := filepath.Rel(c.dataDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		group := DefaultGroup
		if segs := strings.SplitN(rel, "/", 2); len(segs) > 1 {
			group = segs[0]
		}
		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		byGroup[group] = append(byGroup[group], Entry{Name: name, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk data directory: %w", err)
	}

	groups := make([]Group, 0, len(byGroup))
	for name, entries := range byGroup {
		sort.Slice(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
		})
		groups = append(groups, Group{Name: name, Entries: entries})
	}
	sort.Slice(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})
	return groups, nil
}

// Resolve turns a user-supplied relative path into an absolute file path
// after checking it stays inside the data directory, carries a .json
// extension and names a regular file. Everything else is ErrPathRejected.
func (c *Catalog) Resolve(rel string) (string, error) {
	target := filepath.Join(c.dataDir, filepath.FromSlash(rel))
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathRejected, rel)
	}
	if !strings.EqualFold(filepath.Ext(resolved), ".json") {
		return "", fmt.Errorf("%w: %s", ErrPathRejected, rel)
	}
	inside, err := filepath.Rel(c.dataDir, resolved)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathRejected, rel)
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrPathRejected, rel)
	}
	return resolved, nil
}

// Load resolves rel and returns its questions in canonical form.
func (c *Catalog) Load(rel string) ([]question.Question, error) {
	path, err := c.Resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse quiz file %s: %w", rel, err)
	}
	return question.Normalize(doc)
}

// AllQuestions concatenates every catalog file in group order, skipping
// files that fail to load. It backs the all-topics practice page.
func (c *Catalog) AllQuestions() []question.Question {
	groups, err := c.Groups()
	if err != nil {
		return nil
	}
	var out []question.Question
	for _, g := range groups {
		for _, e := range g.Entries {
			qs, err := c.Load(e.RelPath)
			if err != nil {
				continue
			}
			out = append(out, qs...)
		}
	}
	return out
}

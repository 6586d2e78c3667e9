// Package filesystem loads chapters from Markdown and MDX files on disk.
//
// Chapters live under <root>/chapters. A slug such as "part1/ch2" is
// looked up as chapters/part1/ch2.mdx, .md, part1/ch2/index.mdx and
// part1/ch2/index.md, in that order. Short slugs may be mapped to longer
// file names (part0/ch0 to part0/ch0-preface).
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/logger"
	"github.com/semiconbook/chaptermap/internal/mdx"
)

// Ensure Source implements the interfaces.
var (
	_ driven.ContentSource  = (*Source)(nil)
	_ driven.ContentWatcher = (*Source)(nil)
)

// ChaptersDir is the directory under the content root holding chapters.
const ChaptersDir = "chapters"

// DefaultSlugMap maps short chapter slugs to their file names.
var DefaultSlugMap = map[string]string{
	"part0/ch0": "part0/ch0-preface",
	"part1/ch1": "part1/ch1-Crystal-Structures",
	"part1/ch2": "part1/ch2-Quantum-Energy-Band",
	"part1/ch3": "part1/ch3-Statistics-Thermal-Equilibrium",
	"part3/ch4": "part3/ch4-Carrier-Transport",
}

var extensions = []string{".mdx", ".md"}

// Source reads chapters from a content directory.
type Source struct {
	root    string
	slugMap map[string]string
	reverse map[string]string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// Option configures a Source.
type Option func(*Source)

// WithSlugMap replaces the default slug map.
func WithSlugMap(m map[string]string) Option {
	return func(s *Source) {
		s.slugMap = m
	}
}

// New creates a source rooted at the content directory root.
func New(root string, opts ...Option) *Source {
	s := &Source{root: root, slugMap: DefaultSlugMap}
	for _, opt := range opts {
		opt(s)
	}
	s.reverse = make(map[string]string, len(s.slugMap))
	for short, file := range s.slugMap {
		s.reverse[file] = short
	}
	return s
}

// Root returns the content directory.
func (s *Source) Root() string {
	return s.root
}

func (s *Source) chaptersDir() string {
	return filepath.Join(s.root, ChaptersDir)
}

// candidates returns the files that may hold slug, in lookup order.
func (s *Source) candidates(slug string) []string {
	mapped := slug
	if m, ok := s.slugMap[slug]; ok {
		mapped = m
	}
	base := filepath.Join(s.chaptersDir(), filepath.FromSlash(mapped))
	out := make([]string, 0, 2*len(extensions))
	for _, ext := range extensions {
		out = append(out, base+ext)
	}
	for _, ext := range extensions {
		out = append(out, filepath.Join(base, "index"+ext))
	}
	return out
}

// Get returns the document for a slug.
func (s *Source) Get(ctx context.Context, slug string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") {
		return nil, fmt.Errorf("slug %q: %w", slug, domain.ErrInvalidInput)
	}

	for _, path := range s.candidates(slug) {
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		logger.Debug("chapter %s loaded from %s", slug, path)
		return mdx.ParseDocument(slug, path, raw), nil
	}
	return nil, fmt.Errorf("%s: %w", slug, domain.ErrDocumentNotFound)
}

// List returns every chapter under the content directory. Index files use
// their directory as slug; mapped file names are reported by short slug.
func (s *Source) List(ctx context.Context) ([]domain.ChapterRef, error) {
	dir := s.chaptersDir()
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	var refs []domain.ChapterRef
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != dir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		slug, ok := s.slugFor(path)
		if !ok {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		doc := mdx.ParseDocument(slug, path, raw)
		refs = append(refs, refFor(doc))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// slugFor maps a chapter file to its slug.
func (s *Source) slugFor(path string) (string, bool) {
	ext := filepath.Ext(path)
	if !isMarkdown(ext) {
		return "", false
	}
	rel, err := filepath.Rel(s.chaptersDir(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, ext))
	if rel == "index" {
		return "", false
	}
	rel = strings.TrimSuffix(rel, "/index")
	if short, ok := s.reverse[rel]; ok {
		return short, true
	}
	return rel, true
}

func refFor(doc *domain.Document) domain.ChapterRef {
	part, chapter, _ := strings.Cut(doc.Slug, "/")
	return domain.ChapterRef{
		Slug:    doc.Slug,
		Title:   doc.Title(),
		Part:    part,
		Chapter: chapter,
		Tags:    doc.Tags(),
	}
}

func isMarkdown(ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/mdx"
)

// Ensure ContentStore implements the interfaces.
var (
	_ driven.ContentSource  = (*ContentStore)(nil)
	_ driven.ContentWatcher = (*ContentStore)(nil)
)

// ContentStore holds chapter sources in memory.
// Put and Remove notify active watchers.
type ContentStore struct {
	mu       sync.RWMutex
	docs     map[string]*domain.Document
	watchers []chan domain.ContentChange
}

// NewContentStore creates an empty content store.
func NewContentStore() *ContentStore {
	return &ContentStore{docs: make(map[string]*domain.Document)}
}

// Put parses raw chapter source and stores it under slug.
func (s *ContentStore) Put(slug string, raw []byte) *domain.Document {
	doc := mdx.ParseDocument(slug, "memory://"+slug, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.docs[slug]
	s.docs[slug] = doc

	typ := domain.ChangeCreated
	if existed {
		typ = domain.ChangeUpdated
	}
	s.notify(domain.ContentChange{Type: typ, Slug: slug, Path: doc.Path})
	return doc
}

// Remove deletes a chapter.
func (s *ContentStore) Remove(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[slug]; !ok {
		return
	}
	delete(s.docs, slug)
	s.notify(domain.ContentChange{Type: domain.ChangeDeleted, Slug: slug, Path: "memory://" + slug})
}

// notify delivers change without blocking; slow watchers miss it.
// Callers hold s.mu.
func (s *ContentStore) notify(change domain.ContentChange) {
	for _, w := range s.watchers {
		select {
		case w <- change:
		default:
		}
	}
}

// Get returns the document for a slug.
func (s *ContentStore) Get(_ context.Context, slug string) (*domain.Document, error) {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return nil, fmt.Errorf("empty slug: %w", domain.ErrInvalidInput)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[slug]
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, domain.ErrDocumentNotFound)
	}
	return doc, nil
}

// List returns every chapter, by slug.
func (s *ContentStore) List(_ context.Context) ([]domain.ChapterRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]domain.ChapterRef, 0, len(s.docs))
	for slug, doc := range s.docs {
		part, chapter, _ := strings.Cut(slug, "/")
		refs = append(refs, domain.ChapterRef{
			Slug: slug, Title: doc.Title(), Part: part, Chapter: chapter, Tags: doc.Tags(),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Slug < refs[j].Slug })
	return refs, nil
}

// Watch emits Put and Remove changes until ctx is cancelled.
func (s *ContentStore) Watch(ctx context.Context) (<-chan domain.ContentChange, error) {
	ch := make(chan domain.ContentChange, 16)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/logger"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("content source closed")

// Watch emits chapter changes until ctx is cancelled. New directories are
// watched as they appear.
func (s *Source) Watch(ctx context.Context) (<-chan domain.ContentChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	dir := s.chaptersDir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", dir)
		}
		return nil, fmt.Errorf("root path error: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(w, dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.watcher = w

	changes := make(chan domain.ContentChange)
	go s.loop(ctx, w, changes)
	return changes, nil
}

func (s *Source) loop(ctx context.Context, w *fsnotify.Watcher, changes chan<- domain.ContentChange) {
	defer close(changes)
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(filepath.Base(event.Name)) {
					if err := addTree(w, event.Name); err != nil {
						logger.Warn("watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			change := s.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("content watcher: %v", err)
		}
	}
}

// handleFsEvent converts a filesystem event into a chapter change.
// Directories, hidden files and non-Markdown files yield nil.
func (s *Source) handleFsEvent(event fsnotify.Event) *domain.ContentChange {
	rel, err := filepath.Rel(s.chaptersDir(), event.Name)
	if err != nil || isHidden(rel) {
		return nil
	}
	slug, ok := s.slugFor(event.Name)
	if !ok {
		return nil
	}

	var typ domain.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		typ = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		typ = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		typ = domain.ChangeDeleted
	default:
		return nil
	}
	if typ != domain.ChangeDeleted {
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
	}
	return &domain.ContentChange{Type: typ, Slug: slug, Path: event.Name}
}

// addTree watches dir and every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Close stops any active watcher. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

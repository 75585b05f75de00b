// Package filesystem reads documents from a local directory and watches it
// for changes with fsnotify.
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

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/extractors"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// MaxFileSize skips files larger than this many bytes.
const MaxFileSize = 50 << 20

// Source walks and watches a directory tree. Hidden files and directories
// are skipped, as are files whose MIME type is not accepted.
type Source struct {
	root    string
	accepts map[string]bool

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// Option configures a Source.
type Option func(*Source)

// WithMIMETypes restricts the source to the given MIME types.
func WithMIMETypes(types []string) Option {
	return func(s *Source) {
		s.accepts = make(map[string]bool, len(types))
		for _, t := range types {
			s.accepts[t] = true
		}
	}
}

// New creates a source rooted at root. Root may also be a single file.
func New(root string, opts ...Option) *Source {
	s := &Source{root: filepath.Clean(root)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory being read.
func (s *Source) Root() string {
	return s.root
}

// Scan emits every accepted file under the root.
func (s *Source) Scan(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		info, err := os.Stat(s.root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				errs <- fmt.Errorf("directory %s does not exist: %w", s.root, domain.ErrNotFound)
				return
			}
			errs <- fmt.Errorf("stat %s: %w", s.root, err)
			return
		}

		if !info.IsDir() {
			if doc, ok := s.read(s.root); ok {
				select {
				case docs <- doc:
				case <-ctx.Done():
					errs <- ctx.Err()
				}
			}
			return
		}

		err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping %s: %v", path, err)
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if path != s.root && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			doc, ok := s.read(path)
			if !ok {
				return nil
			}
			select {
			case docs <- doc:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- err
		}
	}()

	return docs, errs
}

// Watch reports created, updated and deleted files until ctx is done.
// Directories created after Watch starts are watched as well.
func (s *Source) Watch(ctx context.Context) (<-chan domain.Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := s.addTree(watcher, s.root); err != nil {
		watcher.Close()
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		watcher.Close()
		return nil, errors.New("filesystem: source closed")
	}
	s.watcher = watcher
	s.mu.Unlock()

	changes := make(chan domain.Change)
	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				s.Close()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) && isDir(event.Name) && !isHidden(filepath.Base(event.Name)) {
					if err := s.addTree(watcher, event.Name); err != nil {
						logger.Warn("watching %s: %v", event.Name, err)
					}
					continue
				}
				change := s.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					s.Close()
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops the watcher.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// handleFsEvent maps an fsnotify event to a change, or nil when the event
// is ignored.
func (s *Source) handleFsEvent(event fsnotify.Event) *domain.Change {
	if isHidden(filepath.Base(event.Name)) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if !s.accepted(extractors.DetectMIMEType(event.Name)) {
			return nil
		}
		return &domain.Change{
			Type:     domain.ChangeDeleted,
			Document: domain.RawDocument{URI: event.Name, MIMEType: extractors.DetectMIMEType(event.Name)},
		}

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if isDir(event.Name) {
			return nil
		}
		doc, ok := s.read(event.Name)
		if !ok {
			return nil
		}
		changeType := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.Change{Type: changeType, Document: doc}
	}

	return nil
}

// read loads an accepted file. Unreadable or oversized files are skipped.
func (s *Source) read(path string) (domain.RawDocument, bool) {
	mimeType := extractors.DetectMIMEType(path)
	if !s.accepted(mimeType) {
		return domain.RawDocument{}, false
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("skipping %s: %v", path, err)
		return domain.RawDocument{}, false
	}
	if info.Size() > MaxFileSize {
		logger.Warn("skipping %s: larger than %d bytes", path, MaxFileSize)
		return domain.RawDocument{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return domain.RawDocument{}, false
	}

	return domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  content,
		Metadata: map[string]any{
			"source":   "filesystem",
			"modified": info.ModTime().UTC(),
		},
	}, true
}

func (s *Source) accepted(mimeType string) bool {
	return s.accepts == nil || s.accepts[mimeType]
}

// addTree watches dir and every non-hidden directory below it.
func (s *Source) addTree(watcher *fsnotify.Watcher, dir string) error {
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
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

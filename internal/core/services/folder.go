package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure FolderSync implements the interface.
var _ driving.FolderService = (*FolderSync)(nil)

// FolderSync mirrors a folder into the document service. Documents are
// matched to files by URI.
type FolderSync struct {
	docs    driving.DocumentService
	sources driven.SourceFactory
}

// NewFolderSync creates a folder sync that opens sources with the factory.
func NewFolderSync(docs driving.DocumentService, sources driven.SourceFactory) *FolderSync {
	return &FolderSync{docs: docs, sources: sources}
}

// Sync uploads new files under root. Files whose URI is already uploaded
// are skipped.
func (f *FolderSync) Sync(ctx context.Context, root string) (*domain.SyncReport, error) {
	source := f.sources(absPath(root))
	defer source.Close()
	logger.Section("Sync " + source.Root())

	known, err := f.knownURIs(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.SyncReport{Failed: make(map[string]string)}
	docs, errs := source.Scan(ctx)
	for raw := range docs {
		if _, ok := known[raw.URI]; ok {
			report.Skipped++
			continue
		}
		doc, err := f.docs.Ingest(ctx, &raw)
		if err != nil {
			logger.Warn("ingest %s: %v", raw.URI, err)
			report.Failed[raw.URI] = err.Error()
			continue
		}
		known[raw.URI] = doc.ID
		report.Ingested = append(report.Ingested, doc.ID)
	}

	var scanErr error
	for err := range errs {
		scanErr = errors.Join(scanErr, err)
	}
	if scanErr != nil {
		return report, fmt.Errorf("scan %s: %w", source.Root(), scanErr)
	}

	logger.Info("Synced %s: %d ingested, %d skipped, %d failed",
		source.Root(), len(report.Ingested), report.Skipped, len(report.Failed))
	return report, nil
}

// Watch applies changes under root until ctx is cancelled. It returns nil
// when ctx ends the watch.
func (f *FolderSync) Watch(ctx context.Context, root string, onChange func(domain.Change, error)) error {
	source := f.sources(absPath(root))
	defer source.Close()

	changes, err := source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", source.Root(), err)
	}
	logger.Info("Watching %s", source.Root())

	for change := range changes {
		err := f.Apply(ctx, change)
		if err != nil {
			logger.Warn("%s %s: %v", change.Type, change.Document.URI, err)
		}
		if onChange != nil {
			onChange(change, err)
		}
	}
	return nil
}

// Apply brings the document store in line with one file change. An updated
// file replaces its previous upload.
func (f *FolderSync) Apply(ctx context.Context, change domain.Change) error {
	known, err := f.knownURIs(ctx)
	if err != nil {
		return err
	}
	existing, uploaded := known[change.Document.URI]

	switch change.Type {
	case domain.ChangeDeleted:
		if !uploaded {
			return nil
		}
		return f.docs.Delete(ctx, existing)

	case domain.ChangeCreated, domain.ChangeUpdated:
		if uploaded {
			if err := f.docs.Delete(ctx, existing); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("replace %s: %w", existing, err)
			}
		}
		raw := change.Document
		_, err := f.docs.Ingest(ctx, &raw)
		return err

	default:
		return fmt.Errorf("change type %q: %w", change.Type, domain.ErrInvalidInput)
	}
}

// knownURIs maps the URI of every uploaded document to its ID.
func (f *FolderSync) knownURIs(ctx context.Context) (map[string]string, error) {
	docs, err := f.docs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	known := make(map[string]string, len(docs))
	for _, doc := range docs {
		if doc.URI != "" {
			known[doc.URI] = doc.ID
		}
	}
	return known, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure AnswerLog implements the interface.
var _ driven.AnswerLog = (*AnswerLog)(nil)

// AnswerLog is an in-memory implementation of driven.AnswerLog.
type AnswerLog struct {
	mu      sync.RWMutex
	records []domain.AnswerRecord
}

// NewAnswerLog creates a new in-memory answer log.
func NewAnswerLog() *AnswerLog {
	return &AnswerLog{}
}

// Record stores a record.
func (l *AnswerLog) Record(_ context.Context, rec *domain.AnswerRecord) error {
	if rec == nil {
		return domain.ErrInvalidInput
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, *rec)
	return nil
}

// List returns records matching the filter, newest first.
func (l *AnswerLog) List(_ context.Context, filter domain.HistoryFilter) ([]domain.AnswerRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []domain.AnswerRecord
	// Walk backwards so equal timestamps list the latest record first.
	for i := len(l.records) - 1; i >= 0; i-- {
		rec := l.records[i]
		if filter.DocumentID != "" && rec.DocumentID != filter.DocumentID {
			continue
		}
		if filter.Username != "" && rec.Username != filter.Username {
			continue
		}
		result = append(result, rec)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Count returns the number of records for a document.
func (l *AnswerLog) Count(_ context.Context, documentID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, rec := range l.records {
		if rec.DocumentID == documentID {
			n++
		}
	}
	return n, nil
}

// DeleteForDocument removes every record of a document.
func (l *AnswerLog) DeleteForDocument(_ context.Context, documentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.records[:0]
	for _, rec := range l.records {
		if rec.DocumentID != documentID {
			kept = append(kept, rec)
		}
	}
	l.records = kept
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DefaultUsername is recorded for questions asked without a user.
const DefaultUsername = "anonymous"

// DocumentService ingests documents, answers questions about them and
// keeps the answer log.
type DocumentService struct {
	docStore   driven.DocumentStore
	answerLog  driven.AnswerLog
	extractors driven.ExtractorRegistry
	qa         driving.QAService
	summariser *Summariser
	async      bool
	now        func() time.Time

	wg sync.WaitGroup
}

// DocumentOption configures a DocumentService.
type DocumentOption func(*DocumentService)

// WithSummariser enables AI summaries.
func WithSummariser(s *Summariser) DocumentOption {
	return func(d *DocumentService) { d.summariser = s }
}

// WithAsyncProcessing runs processing and summarising in the background.
func WithAsyncProcessing(async bool) DocumentOption {
	return func(d *DocumentService) { d.async = async }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) DocumentOption {
	return func(d *DocumentService) { d.now = now }
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	answerLog driven.AnswerLog,
	extractors driven.ExtractorRegistry,
	qa driving.QAService,
	opts ...DocumentOption,
) *DocumentService {
	s := &DocumentService{
		docStore:   docStore,
		answerLog:  answerLog,
		extractors: extractors,
		qa:         qa,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest extracts text, stores the document and processes it. Processing
// and summary failures are logged and degrade the summary; they never
// fail the upload.
func (s *DocumentService) Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("ingest: %w", domain.ErrInvalidInput)
	}
	logger.Section("Ingest")

	doc, err := s.extractors.Extract(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", raw.URI, err)
	}

	now := s.now()
	doc.ID = uuid.New().String()
	doc.URI = raw.URI
	if doc.Title == "" {
		doc.Title = titleFromURI(raw.URI)
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	logger.Info("Stored %s (%q, %d characters)", doc.ID, doc.Title, len(doc.Content))

	stored := *doc
	if s.async {
		s.wg.Add(1)
		go func(doc domain.Document) {
			defer s.wg.Done()
			s.process(context.WithoutCancel(ctx), &doc)
		}(stored)
		return &stored, nil
	}

	s.process(ctx, doc)
	return doc, nil
}

// Reprocess clears every tier and processes the stored content again.
func (s *DocumentService) Reprocess(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if err := s.qa.ClearDocument(ctx, documentID); err != nil {
		logger.Warn("Clearing %s before reprocessing: %v", documentID, err)
	}

	s.process(ctx, doc)
	return doc, nil
}

// process runs tier processing then summarising, and writes the summary back.
func (s *DocumentService) process(ctx context.Context, doc *domain.Document) {
	summary := BasicSummary(doc.Content)

	if _, err := s.qa.ProcessDocument(ctx, doc.ID, doc.Content); err != nil {
		logger.Warn("Processing %s failed, document kept with basic summary: %v", doc.ID, err)
	} else if s.summariser == nil {
		logger.Debug("No summariser, %s kept with basic summary", doc.ID)
	} else if ai, err := s.summariser.Summarise(ctx, doc.Content); err != nil {
		logger.Warn("Summarising %s failed: %v", doc.ID, err)
	} else {
		summary = ai
	}

	doc.Summary = summary
	doc.UpdatedAt = s.now()
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Error("Saving summary of %s: %v", doc.ID, err)
	}
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetDetails returns display metadata for a document.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	questions, err := s.answerLog.Count(ctx, documentID)
	if err != nil {
		logger.Debug("Counting questions for %s: %v", documentID, err)
	}

	return &driving.DocumentDetails{
		ID:            doc.ID,
		Title:         doc.Title,
		URI:           doc.URI,
		Summary:       doc.Summary,
		ContentLength: len([]rune(doc.Content)),
		Questions:     questions,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		Metadata:      flattenMetadata(doc.Metadata),
	}, nil
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Delete clears the document from every tier and removes it with its answer log.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}

	var errs []error
	if err := s.qa.ClearDocument(ctx, documentID); err != nil {
		errs = append(errs, err)
	}
	if err := s.answerLog.DeleteForDocument(ctx, documentID); err != nil {
		errs = append(errs, fmt.Errorf("delete answer log: %w", err))
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		errs = append(errs, fmt.Errorf("delete document: %w", err))
	}
	return errors.Join(errs...)
}

// Ask answers a question and records it. Failures to record are logged.
// Questions about unknown documents get the not-found answer and are not
// recorded.
func (s *DocumentService) Ask(
	ctx context.Context, documentID, question, username string,
) (*domain.AnswerRecord, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty: %w", domain.ErrInvalidInput)
	}
	if username == "" {
		username = DefaultUsername
	}

	logger.Section("Ask")
	answer, known, err := s.answer(ctx, documentID, question)
	if err != nil {
		return nil, err
	}

	rec := &domain.AnswerRecord{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Username:   username,
		Question:   question,
		Answer:     answer.Text,
		Tier:       answer.Tier,
		Degraded:   answer.Degraded,
		CreatedAt:  s.now(),
	}
	if !known {
		return rec, nil
	}
	if err := s.answerLog.Record(ctx, rec); err != nil {
		logger.Warn("Recording answer for %s: %v", documentID, err)
	}
	return rec, nil
}

// answer asks the tiers about a stored document. An unknown document gets
// the fixed not-found answer without reaching the tiers, and known is false.
func (s *DocumentService) answer(
	ctx context.Context, documentID, question string,
) (answer *domain.Answer, known bool, err error) {
	_, err = s.docStore.GetDocument(ctx, documentID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Warn("Question about unknown document %s", documentID)
		return &domain.Answer{Text: MessageNotFound, Degraded: true}, false, nil
	case err != nil:
		return nil, false, err
	}
	answer, err = s.qa.AnswerQuestion(ctx, documentID, question)
	return answer, err == nil, err
}

// History lists logged answers, newest first.
func (s *DocumentService) History(
	ctx context.Context, filter domain.HistoryFilter,
) ([]domain.AnswerRecord, error) {
	return s.answerLog.List(ctx, filter)
}

// Wait blocks until background processing has finished.
func (s *DocumentService) Wait() {
	s.wg.Wait()
}

func titleFromURI(uri string) string {
	if uri == "" {
		return "Untitled"
	}
	base := filepath.Base(uri)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// flattenMetadata renders metadata values as strings for display.
func flattenMetadata(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.askdoc/data/askdoc.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdoc", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "askdoc.db")

	// WAL lets background processing write while questions are answered.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// AnswerLog returns an AnswerLog interface backed by this store.
func (s *Store) AnswerLog() driven.AnswerLog {
	return &answerLog{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, uri, title, content, summary, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			content = excluded.content,
			summary = excluded.summary,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.URI, doc.Title, doc.Content, doc.Summary,
		string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, uri, title, content, summary, metadata, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// DeleteDocument removes a document.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// ListDocuments returns all documents, newest first.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, uri, title, content, summary, metadata, created_at, updated_at
		FROM documents ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w: %w", domain.ErrStorage, err)
	}

	return docs, nil
}

// ==================== Answer Log ====================

// answerLog implements driven.AnswerLog.
type answerLog struct {
	store *Store
}

var _ driven.AnswerLog = (*answerLog)(nil)

// Record stores a question and answer.
func (s *answerLog) Record(ctx context.Context, rec *domain.AnswerRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO query_logs (id, document_id, username, question, answer, tier, degraded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.DocumentID, rec.Username, rec.Question, rec.Answer,
		string(rec.Tier), rec.Degraded, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording answer: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// List returns records matching the filter, newest first.
func (s *answerLog) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.AnswerRecord, error) {
	query := `SELECT id, document_id, username, question, answer, tier, degraded, created_at FROM query_logs`

	var where []string
	var args []any
	if filter.DocumentID != "" {
		where = append(where, "document_id = ?")
		args = append(args, filter.DocumentID)
	}
	if filter.Username != "" {
		where = append(where, "username = ?")
		args = append(args, filter.Username)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying answers: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var records []domain.AnswerRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.AnswerRecord
		var tier string
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.Username, &rec.Question,
			&rec.Answer, &tier, &rec.Degraded, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		rec.Tier = domain.Tier(tier)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating answers: %w: %w", domain.ErrStorage, err)
	}

	return records, nil
}

// Count returns the number of records for a document.
func (s *answerLog) Count(ctx context.Context, documentID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM query_logs WHERE document_id = ?", documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting answers: %w: %w", domain.ErrStorage, err)
	}
	return n, nil
}

// DeleteForDocument removes every record of a document.
func (s *answerLog) DeleteForDocument(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM query_logs WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting answers: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a single document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string

	if err := row.Scan(&doc.ID, &doc.URI, &doc.Title, &doc.Content, &doc.Summary,
		&metadataJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w: %w", domain.ErrStorage, err)
	}

	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}

	return &doc, nil
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// now is replaced in tests.
var now = time.Now

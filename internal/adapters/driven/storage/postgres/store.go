// Package postgres implements the vector store on PostgreSQL with the
// pgvector extension, using the lib/pq driver.
//
// Ranking uses the exact cosine distance operator (<=>) over the chunks
// of one document. No approximate index is created.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// DefaultTable is the chunk table name.
const DefaultTable = "document_chunks"

// Config configures the PostgreSQL vector store.
type Config struct {
	// DSN is the lib/pq connection string (required).
	DSN string

	// Table overrides the chunk table name.
	Table string

	// Dimensions is the vector column size (default 1536).
	Dimensions int
}

// VectorStore stores chunk embeddings in a pgvector column.
type VectorStore struct {
	db    *sql.DB
	table string
	dims  int
}

// NewVectorStore connects, then creates the extension, table and index if missing.
func NewVectorStore(ctx context.Context, cfg Config) (*VectorStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres: %w: DSN is required", domain.ErrNotConfigured)
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.DefaultEmbeddingDimensions
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w: %w", domain.ErrStorage, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w: %w", domain.ErrStorage, err)
	}

	s := &VectorStore{db: db, table: cfg.Table, dims: cfg.Dimensions}
	for _, stmt := range schemaStatements(s.table, s.dims) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w: %w", domain.ErrStorage, err)
		}
	}

	return s, nil
}

// schemaStatements returns the DDL for the chunk table.
func schemaStatements(table string, dims int) []string {
	quoted := pq.QuoteIdentifier(table)
	index := pq.QuoteIdentifier("idx_" + table + "_document_id")
	return []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			document_id VARCHAR(255) NOT NULL,
			chunk_text TEXT NOT NULL,
			chunk_embedding vector(%d),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, quoted, dims),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(document_id)", index, quoted),
	}
}

// Store inserts one row per chunk in a single transaction.
func (s *VectorStore) Store(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dims {
			return fmt.Errorf("saving chunk: %w: embedding has %d dimensions, column has %d",
				domain.ErrStorage, len(chunk.Embedding), s.dims)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (document_id, chunk_text, chunk_embedding) VALUES ($1, $2, $3::vector)",
		pq.QuoteIdentifier(s.table)))
	if err != nil {
		return fmt.Errorf("preparing statement: %w: %w", domain.ErrStorage, err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, documentID, chunk.Content, vectorLiteral(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk: %w: %w", domain.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Query orders the document's chunks by cosine distance, ties by id.
func (s *VectorStore) Query(ctx context.Context, documentID string, embedding []float32, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, document_id, chunk_text, chunk_embedding::text, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY chunk_embedding <=> $2::vector, id
		LIMIT $3
	`, pq.QuoteIdentifier(s.table)), documentID, vectorLiteral(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	position := 0
	for rows.Next() {
		var id int64
		var literal sql.NullString
		var createdAt pq.NullTime
		chunk := domain.Chunk{Position: position}
		if err := rows.Scan(&id, &chunk.DocumentID, &chunk.Content, &literal, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w: %w", domain.ErrStorage, err)
		}
		chunk.ID = strconv.FormatInt(id, 10)
		chunk.CreatedAt = createdAt.Time
		if literal.Valid {
			if chunk.Embedding, err = parseVector(literal.String); err != nil {
				return nil, fmt.Errorf("decoding embedding: %w: %w", domain.ErrStorage, err)
			}
		}
		chunks = append(chunks, chunk)
		position++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w: %w", domain.ErrStorage, err)
	}

	return chunks, nil
}

// Clear deletes every chunk of the document.
func (s *VectorStore) Clear(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE document_id = $1", pq.QuoteIdentifier(s.table)), documentID)
	if err != nil {
		return fmt.Errorf("clearing chunks: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *VectorStore) Close() error {
	return s.db.Close()
}

// vectorLiteral renders a pgvector text literal such as "[0.1,-2,3.5]".
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*10 + 2)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// parseVector decodes a pgvector text literal.
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("malformed vector %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []float32{}, nil
	}

	parts := strings.Split(body, ",")
	v := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("malformed vector element %q: %w", p, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/rank"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore on the document_chunks table.
// Embeddings are stored as float32 blobs and ranked in process, which keeps
// the search exact without a vector extension.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Store inserts one row per chunk in a single transaction.
func (s *vectorStore) Store(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (chunk_id, document_id, chunk_text, position, chunk_embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w: %w", domain.ErrStorage, err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		createdAt := chunk.CreatedAt
		if createdAt.IsZero() {
			createdAt = now()
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, documentID, chunk.Content,
			chunk.Position, float32SliceToBytes(chunk.Embedding), createdAt); err != nil {
			return fmt.Errorf("saving chunk: %w: %w", domain.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Query ranks every chunk of the document by cosine distance.
func (s *vectorStore) Query(ctx context.Context, documentID string, embedding []float32, k int) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, chunk_text, position, chunk_embedding, created_at
		FROM document_chunks WHERE document_id = ?
		ORDER BY id
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		var createdAt sql.NullTime
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Position, &blob, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w: %w", domain.ErrStorage, err)
		}
		chunk.Embedding = bytesToFloat32Slice(blob)
		chunk.CreatedAt = createdAt.Time
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w: %w", domain.ErrStorage, err)
	}

	return rank.TopK(chunks, embedding, k), nil
}

// Clear deletes every chunk of the document.
func (s *vectorStore) Clear(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM document_chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("clearing chunks: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Close is a no-op; the shared database is closed by Store.Close.
func (s *vectorStore) Close() error {
	return nil
}

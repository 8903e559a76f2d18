package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
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

	"github.com/custodia-labs/docuchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to all
// persistence interfaces through facet types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docuchat/data/docuchat.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docuchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docuchat.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// ChatStore returns a ChatStore interface backed by this store.
func (s *Store) ChatStore() driven.ChatStore {
	return &chatStore{store: s}
}

// FeedbackStore returns a FeedbackStore interface backed by this store.
func (s *Store) FeedbackStore() driven.FeedbackStore {
	return &feedbackStore{store: s}
}

// QueryStore returns a QueryStore interface backed by this store.
func (s *Store) QueryStore() driven.QueryStore {
	return &queryStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
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

// SaveChunks stores all chunks of one uploaded file atomically.
func (d *documentStore) SaveChunks(ctx context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (file_id, chunk_id, file_name, chunk_text, embedding, is_archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, chunk_id) DO UPDATE SET
			file_name = excluded.file_name,
			chunk_text = excluded.chunk_text,
			embedding = excluded.embedding,
			is_archived = excluded.is_archived
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range chunks {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			c.FileID, c.ChunkID, c.FileName, c.Text,
			embeddingToBlob(c.Embedding), c.IsArchived, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("saving chunk %s/%d: %w", c.FileID, c.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// GetChunk retrieves a chunk by key.
func (d *documentStore) GetChunk(ctx context.Context, key domain.ChunkKey) (*domain.DocumentChunk, error) {
	row := d.store.db.QueryRowContext(ctx, `
		SELECT file_id, chunk_id, file_name, chunk_text, embedding, is_archived, created_at
		FROM document_chunks WHERE file_id = ? AND chunk_id = ?
	`, key.FileID, key.ChunkID)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chunk %s/%d: %w", key.FileID, key.ChunkID, domain.ErrNotFound)
		}
		return nil, err
	}
	return chunk, nil
}

// GetChunks retrieves all chunks of a file ordered by position.
func (d *documentStore) GetChunks(ctx context.Context, fileID string) ([]domain.DocumentChunk, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT file_id, chunk_id, file_name, chunk_text, embedding, is_archived, created_at
		FROM document_chunks WHERE file_id = ?
		ORDER BY chunk_id
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// ListDocuments returns one rollup per ingested file, oldest first.
func (d *documentStore) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT file_id, file_name, COUNT(*), MAX(is_archived), MIN(created_at)
		FROM document_chunks
		GROUP BY file_id
		ORDER BY MIN(created_at), file_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var infos []domain.DocumentInfo
	for rows.Next() {
		var info domain.DocumentInfo
		var archived int
		var createdAt sql.NullTime
		if err := rows.Scan(&info.FileID, &info.FileName, &info.TotalChunks, &archived, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		info.IsArchived = archived != 0
		if createdAt.Valid {
			info.CreatedAt = createdAt.Time
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// SetArchived toggles the archived flag on every chunk of a file.
func (d *documentStore) SetArchived(ctx context.Context, fileID string, archived bool) error {
	res, err := d.store.db.ExecContext(ctx, `
		UPDATE document_chunks SET is_archived = ? WHERE file_id = ?
	`, archived, fileID)
	if err != nil {
		return fmt.Errorf("updating archived flag: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return nil
}

// ListUnarchivedChunks returns every live chunk in file/position order.
func (d *documentStore) ListUnarchivedChunks(ctx context.Context) ([]domain.DocumentChunk, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT file_id, chunk_id, file_name, chunk_text, embedding, is_archived, created_at
		FROM document_chunks WHERE is_archived = 0
		ORDER BY created_at, file_id, chunk_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// scanner abstracts sql.Row and sql.Rows for chunk scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(row scanner) (*domain.DocumentChunk, error) {
	var chunk domain.DocumentChunk
	var blob []byte
	var archived int
	var createdAt sql.NullTime
	if err := row.Scan(&chunk.FileID, &chunk.ChunkID, &chunk.FileName,
		&chunk.Text, &blob, &archived, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	chunk.Embedding = blobToEmbedding(blob)
	chunk.IsArchived = archived != 0
	if createdAt.Valid {
		chunk.CreatedAt = createdAt.Time
	}
	return &chunk, nil
}

func collectChunks(rows *sql.Rows) ([]domain.DocumentChunk, error) {
	var chunks []domain.DocumentChunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	return chunks, rows.Err()
}

// embeddingToBlob encodes a vector as little-endian float32 bytes.
func embeddingToBlob(embedding []float32) []byte {
	buf := make([]byte, len(embedding)*4)
	for i, f := range embedding {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// blobToEmbedding decodes little-endian float32 bytes into a vector.
func blobToEmbedding(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

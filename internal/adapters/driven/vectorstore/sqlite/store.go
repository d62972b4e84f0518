package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/boardsense/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
)

var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store scoped to a single board.
type Store struct {
	db      *sql.DB
	path    string
	boardID string
}

// NewStore creates a vector store for the given board at the specified data
// directory. If dataDir is empty, defaults to ~/.boardsense/data/index.db.
func NewStore(dataDir, boardID string) (*Store, error) {
	if boardID == "" {
		return nil, domain.ErrInvalidInput
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".boardsense", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:      db,
		path:    dbPath,
		boardID: boardID,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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

// Add inserts an entry into the index.
func (s *Store) Add(ctx context.Context, entry domain.IndexEntry) error {
	if entry.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, board_id, name, shape_id, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			shape_id = excluded.shape_id,
			embedding = excluded.embedding
	`, entry.ID, s.boardID, entry.Name, entry.ShapeID, float32SliceToBytes(entry.Embedding))

	if err != nil {
		return fmt.Errorf("adding entry: %w", err)
	}
	return nil
}

// Remove deletes an entry by its unique ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE board_id = ? AND id = ?", s.boardID, id)
	if err != nil {
		return fmt.Errorf("removing entry: %w", err)
	}
	return nil
}

// RemoveByShape deletes every entry whose shape ID matches and returns the
// number removed.
func (s *Store) RemoveByShape(ctx context.Context, shapeID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE board_id = ? AND shape_id = ?", s.boardID, shapeID)
	if err != nil {
		return 0, fmt.Errorf("removing entries by shape: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed entries: %w", err)
	}
	return int(n), nil
}

// Search returns the topK entries most similar to the query vector, ranked
// by descending cosine similarity. Ties break on entry ID for determinism.
func (s *Store) Search(ctx context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(all))
	for _, entry := range all {
		hits = append(hits, driven.VectorHit{
			Entry:      entry,
			Similarity: cosineSimilarity(query, entry.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Entry.ID < hits[j].Entry.ID
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// All returns every live entry for this board.
func (s *Store) All(ctx context.Context) ([]domain.IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, shape_id, embedding
		FROM entries WHERE board_id = ?
	`, s.boardID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.IndexEntry
		var embeddingBlob []byte
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.ShapeID, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entry.Embedding = bytesToFloat32Slice(embeddingBlob)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

// Save flushes the WAL to the main database file. Individual writes are
// already durable, so this is a checkpoint rather than a commit.
func (s *Store) Save(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)"); err != nil {
		return fmt.Errorf("checkpointing: %w", err)
	}
	return nil
}

// Purge deletes every entry for this board.
func (s *Store) Purge(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE board_id = ?", s.boardID)
	if err != nil {
		return fmt.Errorf("purging entries: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
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

// cosineSimilarity computes the cosine similarity of two vectors. Mismatched
// lengths and zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
)

// errDeliberate is the injected failure used across the service tests.
var errDeliberate = errors.New("deliberate failure")

// --- Mock implementations shared by the service tests ---

// mockCanvas implements driven.Canvas backed by a mutable shape list.
type mockCanvas struct {
	mu       sync.Mutex
	notes    []domain.TextNote
	bounds   map[string]domain.Bounds
	notesErr error

	exportPNG []byte
	exportErr error
	exported  []string

	selected []string
	centred  []domain.Point2D

	subscribers []chan<- struct{}
}

func newMockCanvas() *mockCanvas {
	return &mockCanvas{bounds: make(map[string]domain.Bounds)}
}

// setNote upserts a note with a 100x50 bounding box centred on center.
func (m *mockCanvas) setNote(id, text string, center domain.Point2D) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bounds[id] = domain.Bounds{X: center.X - 50, Y: center.Y - 25, W: 100, H: 50}
	for i := range m.notes {
		if m.notes[i].ShapeID == id {
			m.notes[i].Text = text
			m.notes[i].Center = center
			return
		}
	}
	m.notes = append(m.notes, domain.TextNote{ShapeID: id, Text: text, Center: center})
}

func (m *mockCanvas) removeNote(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.bounds, id)
	for i := range m.notes {
		if m.notes[i].ShapeID == id {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return
		}
	}
}

func (m *mockCanvas) TextNotes(_ context.Context) ([]domain.TextNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notesErr != nil {
		return nil, m.notesErr
	}
	out := make([]domain.TextNote, len(m.notes))
	copy(out, m.notes)
	return out, nil
}

func (m *mockCanvas) ShapeBounds(_ context.Context, shapeID string) (domain.Bounds, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bounds[shapeID]
	if !ok {
		return domain.Bounds{}, domain.ErrNotFound
	}
	return b, nil
}

func (m *mockCanvas) Select(_ context.Context, shapeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = append(m.selected, shapeID)
	return nil
}

func (m *mockCanvas) CenterOn(_ context.Context, p domain.Point2D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.centred = append(m.centred, p)
	return nil
}

func (m *mockCanvas) ExportImage(_ context.Context, shapeIDs []string, _ domain.Bounds) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	m.exported = append([]string(nil), shapeIDs...)
	if m.exportPNG != nil {
		return m.exportPNG, nil
	}
	return []byte("png-bytes"), nil
}

func (m *mockCanvas) Subscribe(ch chan<- struct{}) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, ch)
	return func() {}
}

func (m *mockCanvas) Close() error { return nil }

// mockVectorStore implements driven.VectorStore in memory with cosine
// ranking replaced by insertion-order dot product over stored vectors.
type mockVectorStore struct {
	mu      sync.Mutex
	entries []domain.IndexEntry

	addErr    error
	removeErr error
	searchErr error
	saveErr   error
	saves     int
	purges    int
}

func (m *mockVectorStore) Add(_ context.Context, entry domain.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockVectorStore) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockVectorStore) RemoveByShape(_ context.Context, shapeID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return 0, m.removeErr
	}
	kept := m.entries[:0]
	removed := 0
	for _, e := range m.entries {
		if e.ShapeID == shapeID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed, nil
}

func (m *mockVectorStore) Search(_ context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	hits := make([]driven.VectorHit, 0, len(m.entries))
	for _, e := range m.entries {
		var dot float64
		for i := 0; i < len(query) && i < len(e.Embedding); i++ {
			dot += float64(query[i]) * float64(e.Embedding[i])
		}
		hits = append(hits, driven.VectorHit{Entry: e, Similarity: dot})
	}
	// Insertion-stable selection sort by descending similarity.
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			if hits[j].Similarity > hits[i].Similarity {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
	}
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *mockVectorStore) All(_ context.Context) ([]domain.IndexEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.IndexEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *mockVectorStore) Save(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	return nil
}

func (m *mockVectorStore) Purge(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.purges++
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

func (m *mockVectorStore) entriesByShape(shapeID string) []domain.IndexEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.IndexEntry
	for _, e := range m.entries {
		if e.ShapeID == shapeID {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockVectorStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// mockEmbedder implements driven.EmbeddingService with a configurable
// per-text vector table and failure injection.
type mockEmbedder struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	failTexts map[string]error
	failFirst int // fail this many calls before succeeding
	calls     int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:   make(map[string][]float32),
		failTexts: make(map[string]error),
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failFirst > 0 {
		m.failFirst--
		return nil, errDeliberate
	}
	if err, ok := m.failTexts[text]; ok {
		return nil, err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	// Stable pseudo-vector derived from the text length.
	return []float32{float32(len(text)), 1, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockCompleter implements driven.ChatCompleter.
type mockCompleter struct {
	reply    string
	err      error
	received []domain.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockCompleter) Chat(_ context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.received = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockCompleter) ModelName() string { return "mock-chat" }
func (m *mockCompleter) Close() error      { return nil }

// mockConfig implements driven.ConfigStore over a plain map.
type mockConfig struct {
	values map[string]any
}

func newMockConfig() *mockConfig {
	return &mockConfig{values: make(map[string]any)}
}

func (m *mockConfig) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfig) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfig) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfig) GetFloat(key string) float64 {
	if v, ok := m.values[key].(float64); ok {
		return v
	}
	return 0
}

func (m *mockConfig) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfig) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfig) Save() error  { return nil }
func (m *mockConfig) Load() error  { return nil }
func (m *mockConfig) Path() string { return "" }

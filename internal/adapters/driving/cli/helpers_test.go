package cli

import (
	"context"
	"strings"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
	"github.com/custodia-labs/boardsense/internal/core/services"
)

// mockRetrieval returns canned matches.
type mockRetrieval struct {
	matches []domain.Match
	err     error
}

func (m *mockRetrieval) Retrieve(_ context.Context, _ string, topK int) ([]domain.Match, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.matches) > topK {
		return m.matches[:topK], nil
	}
	return m.matches, nil
}

func (m *mockRetrieval) JumpTo(_ context.Context, _ string) (*domain.Match, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.matches) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.matches[0], nil
}

func (m *mockRetrieval) FocalPoint(matches []domain.Match) domain.Point2D {
	points := make([]domain.Point2D, len(matches))
	for i, match := range matches {
		points[i] = match.Center
	}
	return domain.MedianPoint(points)
}

// mockIndexer records calls and reports a fixed status.
type mockIndexer struct {
	enqueued []domain.Snapshot
	synced   []domain.Snapshot
	purged   int
	syncErr  error
	status   driving.IndexerStatus
}

func (m *mockIndexer) Enqueue(snapshot domain.Snapshot) {
	m.enqueued = append(m.enqueued, snapshot)
}

func (m *mockIndexer) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockIndexer) SyncOnce(_ context.Context, snapshot domain.Snapshot) error {
	if m.syncErr != nil {
		return m.syncErr
	}
	m.synced = append(m.synced, snapshot)
	return nil
}

func (m *mockIndexer) Purge(_ context.Context) error {
	m.purged++
	return nil
}

func (m *mockIndexer) Status() driving.IndexerStatus {
	return m.status
}

// mockCLICanvas serves fixed notes.
type mockCLICanvas struct {
	notes []domain.TextNote
	err   error
}

func (m *mockCLICanvas) TextNotes(_ context.Context) ([]domain.TextNote, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.notes, nil
}

func (m *mockCLICanvas) ShapeBounds(_ context.Context, shapeID string) (domain.Bounds, error) {
	for _, note := range m.notes {
		if note.ShapeID == shapeID {
			return domain.BoundsAround(note.Center, 100, 50), nil
		}
	}
	return domain.Bounds{}, domain.ErrNotFound
}

func (m *mockCLICanvas) Select(_ context.Context, _ string) error { return nil }

func (m *mockCLICanvas) CenterOn(_ context.Context, _ domain.Point2D) error { return nil }

func (m *mockCLICanvas) ExportImage(_ context.Context, _ []string, _ domain.Bounds) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (m *mockCLICanvas) Subscribe(_ chan<- struct{}) func() { return func() {} }
func (m *mockCLICanvas) Close() error                       { return nil }

// mockCLIConfig is an in-memory config store.
type mockCLIConfig struct {
	values map[string]any
}

func newMockCLIConfig() *mockCLIConfig {
	return &mockCLIConfig{values: make(map[string]any)}
}

func (m *mockCLIConfig) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockCLIConfig) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockCLIConfig) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockCLIConfig) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (m *mockCLIConfig) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockCLIConfig) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockCLIConfig) Save() error { return nil }
func (m *mockCLIConfig) Load() error { return nil }
func (m *mockCLIConfig) Path() string {
	return "/tmp/boardsense-test/config.toml"
}

// setupTestServices installs mock services and returns a cleanup function
// restoring the previous wiring.
func setupTestServices() func() {
	oldConfig := configStore
	oldCanvas := boardCanvas
	oldIndexer := indexerService
	oldRetrieval := retrievalService
	oldChat := chatService
	oldCapture := captureService

	configStore = newMockCLIConfig()
	boardCanvas = &mockCLICanvas{
		notes: []domain.TextNote{
			{ShapeID: "shape:1", Text: "budget draft", Center: domain.Point2D{X: 100, Y: 100}},
			{ShapeID: "shape:2", Text: "launch plan", Center: domain.Point2D{X: 500, Y: 100}},
		},
	}
	indexerService = &mockIndexer{}
	retrievalService = &mockRetrieval{
		matches: []domain.Match{
			{
				Entry:      domain.IndexEntry{ID: "e1", Name: "budget draft", ShapeID: "shape:1"},
				Similarity: 0.91,
				Center:     domain.Point2D{X: 100, Y: 100},
			},
		},
	}
	chatService = &mockCLIChat{reply: "done"}
	captureService = services.NewCapture(boardCanvas, 0, 0)

	return func() {
		configStore = oldConfig
		boardCanvas = oldCanvas
		indexerService = oldIndexer
		retrievalService = oldRetrieval
		chatService = oldChat
		captureService = oldCapture
	}
}

// mockCLIChat echoes a canned reply and records what it was given.
type mockCLIChat struct {
	reply         string
	searchContext string
	image         string
}

func (m *mockCLIChat) Respond(_ context.Context, history []domain.ChatMessage, searchContext, imageDataURL string) (string, error) {
	if len(history) == 0 {
		return "", domain.ErrInvalidInput
	}
	m.searchContext = searchContext
	m.image = imageDataURL
	if strings.TrimSpace(m.reply) == "" {
		return "No response.", nil
	}
	return m.reply, nil
}

var (
	_ driving.RetrievalService = (*mockRetrieval)(nil)
	_ driving.Indexer          = (*mockIndexer)(nil)
	_ driving.ChatService      = (*mockCLIChat)(nil)
	_ driven.Canvas            = (*mockCLICanvas)(nil)
	_ driven.ConfigStore       = (*mockCLIConfig)(nil)
)

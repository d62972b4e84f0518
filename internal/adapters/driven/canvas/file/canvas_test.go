package file

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

// writeBoard writes a board document with the given shapes.
func writeBoard(t *testing.T, path string, shapes []boardShape) {
	t.Helper()

	data, err := json.Marshal(boardDocument{Shapes: shapes})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

// newTestCanvas creates a canvas over a board file in a temp directory.
func newTestCanvas(t *testing.T, shapes []boardShape) *Canvas {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.json")
	writeBoard(t, path, shapes)

	canvas, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, canvas.Close())
	})
	return canvas
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCanvas_TextNotes(t *testing.T) {
	canvas := newTestCanvas(t, []boardShape{
		{ID: "shape:1", Type: "text", Text: "  hello  ", X: 0, Y: 0, W: 100, H: 50},
		{ID: "shape:2", Type: "text", Text: "world", X: 200, Y: 0, W: 100, H: 50},
		{ID: "shape:3", Type: "text", Text: "   ", X: 400, Y: 0, W: 100, H: 50},
		{ID: "shape:4", Type: "rect", X: 600, Y: 0, W: 100, H: 50},
	})

	notes, err := canvas.TextNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)

	assert.Equal(t, "shape:1", notes[0].ShapeID)
	assert.Equal(t, "hello", notes[0].Text)
	assert.Equal(t, domain.Point2D{X: 50, Y: 25}, notes[0].Center)
	assert.Equal(t, "world", notes[1].Text)
}

func TestCanvas_TextNotes_MissingFile(t *testing.T) {
	canvas, err := New(filepath.Join(t.TempDir(), "board.json"))
	require.NoError(t, err)
	defer canvas.Close()

	_, err = canvas.TextNotes(context.Background())
	assert.ErrorIs(t, err, domain.ErrCanvasUnavailable)
}

func TestCanvas_ShapeBounds(t *testing.T) {
	canvas := newTestCanvas(t, []boardShape{
		{ID: "shape:1", Type: "text", Text: "hello", X: 10, Y: 20, W: 100, H: 50},
	})

	bounds, err := canvas.ShapeBounds(context.Background(), "shape:1")
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{X: 10, Y: 20, W: 100, H: 50}, bounds)

	_, err = canvas.ShapeBounds(context.Background(), "shape:missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCanvas_SelectAndCenterOn(t *testing.T) {
	canvas := newTestCanvas(t, []boardShape{
		{ID: "shape:1", Type: "text", Text: "hello", X: 0, Y: 0, W: 100, H: 50},
	})
	ctx := context.Background()

	require.NoError(t, canvas.Select(ctx, "shape:1"))
	assert.Equal(t, "shape:1", canvas.Selected())

	err := canvas.Select(ctx, "shape:missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, ok := canvas.Viewport()
	assert.False(t, ok)

	require.NoError(t, canvas.CenterOn(ctx, domain.Point2D{X: 50, Y: 25}))
	p, ok := canvas.Viewport()
	assert.True(t, ok)
	assert.Equal(t, domain.Point2D{X: 50, Y: 25}, p)
}

func TestCanvas_ExportImage(t *testing.T) {
	canvas := newTestCanvas(t, []boardShape{
		{ID: "shape:1", Type: "text", Text: "hello", X: 10, Y: 10, W: 100, H: 50},
		{ID: "shape:2", Type: "text", Text: "skip me", X: 200, Y: 10, W: 100, H: 50},
	})

	data, err := canvas.ExportImage(context.Background(),
		[]string{"shape:1"}, domain.Bounds{X: 0, Y: 0, W: 320, H: 240})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestCanvas_ExportImage_InvalidBounds(t *testing.T) {
	canvas := newTestCanvas(t, nil)

	_, err := canvas.ExportImage(context.Background(),
		[]string{"shape:1"}, domain.Bounds{W: 0, H: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCanvas_Subscribe_NotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	writeBoard(t, path, nil)

	canvas, err := New(path)
	require.NoError(t, err)
	defer canvas.Close()

	ch := make(chan struct{}, 1)
	unsubscribe := canvas.Subscribe(ch)
	defer unsubscribe()

	writeBoard(t, path, []boardShape{
		{ID: "shape:1", Type: "text", Text: "hello", X: 0, Y: 0, W: 100, H: 50},
	})

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestCanvas_Subscribe_UnsubscribeStopsNotifications(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	writeBoard(t, path, nil)

	canvas, err := New(path)
	require.NoError(t, err)
	defer canvas.Close()

	ch := make(chan struct{}, 1)
	unsubscribe := canvas.Subscribe(ch)
	unsubscribe()

	canvas.notify()

	select {
	case <-ch:
		t.Fatal("unsubscribed channel should not receive")
	default:
	}
}

func TestCanvas_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	writeBoard(t, path, nil)

	canvas, err := New(path)
	require.NoError(t, err)

	require.NoError(t, canvas.Close())
	assert.NoError(t, canvas.Close())
}

package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// Ensure Canvas implements the interface.
var _ driven.Canvas = (*Canvas)(nil)

// maxImageDim caps rendered image dimensions. Larger capture regions are
// clamped rather than rejected.
const maxImageDim = 4096

// Canvas reads board state from a JSON document on disk.
type Canvas struct {
	path string

	mu          sync.RWMutex
	subscribers map[chan<- struct{}]struct{}
	selected    string
	viewport    domain.Point2D
	hasViewport bool
	closed      bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// boardDocument is the on-disk board format.
type boardDocument struct {
	Shapes []boardShape `json:"shapes"`
}

// boardShape is one shape record in the board document.
type boardShape struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// New creates a canvas backed by the board document at path. The document
// does not need to exist yet; the adapter watches its directory so editor
// saves (including atomic rename saves) are picked up.
func New(path string) (*Canvas, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	c := &Canvas{
		path:        path,
		subscribers: make(map[chan<- struct{}]struct{}),
		watcher:     watcher,
		done:        make(chan struct{}),
	}

	go c.watch()

	return c, nil
}

// watch forwards board file events to subscribers until the watcher closes.
func (c *Canvas) watch() {
	defer close(c.done)

	base := filepath.Base(c.path)
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("canvas: board file event: %s", event.Op)
			c.notify()

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("canvas: watcher error: %v", err)
		}
	}
}

// notify signals all subscribers without blocking. A subscriber with a full
// channel already has a pending notification, which is enough.
func (c *Canvas) notify() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for ch := range c.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// load reads and parses the board document.
func (c *Canvas) load() (*boardDocument, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: board file %s", domain.ErrCanvasUnavailable, c.path)
		}
		return nil, fmt.Errorf("reading board file: %w", err)
	}

	var doc boardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing board file: %w", err)
	}
	return &doc, nil
}

// TextNotes returns text-bearing shapes with trimmed text and page-space
// bounding-box centers.
func (c *Canvas) TextNotes(ctx context.Context) ([]domain.TextNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := c.load()
	if err != nil {
		return nil, err
	}

	var notes []domain.TextNote //nolint:prealloc // text shape count unknown
	for _, shape := range doc.Shapes {
		text := strings.TrimSpace(shape.Text)
		if text == "" {
			continue
		}
		notes = append(notes, domain.TextNote{
			ShapeID: shape.ID,
			Text:    text,
			Center:  shape.bounds().Center(),
		})
	}
	return notes, nil
}

// ShapeBounds returns the current page-space bounding box of a shape.
func (c *Canvas) ShapeBounds(ctx context.Context, shapeID string) (domain.Bounds, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bounds{}, err
	}

	doc, err := c.load()
	if err != nil {
		return domain.Bounds{}, err
	}

	for _, shape := range doc.Shapes {
		if shape.ID == shapeID {
			return shape.bounds(), nil
		}
	}
	return domain.Bounds{}, domain.ErrNotFound
}

// Select marks a shape as selected.
func (c *Canvas) Select(ctx context.Context, shapeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.ShapeBounds(ctx, shapeID); err != nil {
		return err
	}

	c.mu.Lock()
	c.selected = shapeID
	c.mu.Unlock()
	return nil
}

// CenterOn centres the viewport on a page-space point.
func (c *Canvas) CenterOn(ctx context.Context, p domain.Point2D) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.viewport = p
	c.hasViewport = true
	c.mu.Unlock()
	return nil
}

// Selected returns the currently selected shape ID, or empty if none.
func (c *Canvas) Selected() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Viewport returns the last viewport center and whether one has been set.
func (c *Canvas) Viewport() (domain.Point2D, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewport, c.hasViewport
}

// ExportImage rasterises the given shapes, clipped to bounds, to a PNG.
func (c *Canvas) ExportImage(ctx context.Context, shapeIDs []string, bounds domain.Bounds) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bounds.W <= 0 || bounds.H <= 0 {
		return nil, domain.ErrInvalidInput
	}

	doc, err := c.load()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(shapeIDs))
	for _, id := range shapeIDs {
		wanted[id] = true
	}

	width := min(int(bounds.W), maxImageDim)
	height := min(int(bounds.H), maxImageDim)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, shape := range doc.Shapes {
		if !wanted[shape.ID] {
			continue
		}
		drawNote(img, shape, bounds)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// Subscribe registers a channel for change notifications.
func (c *Canvas) Subscribe(ch chan<- struct{}) func() {
	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, ch)
		c.mu.Unlock()
	}
}

// Close stops the watcher and releases resources.
func (c *Canvas) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	err := c.watcher.Close()
	<-c.done
	return err
}

// bounds returns the shape's page-space bounding box.
func (s boardShape) bounds() domain.Bounds {
	return domain.Bounds{X: s.X, Y: s.Y, W: s.W, H: s.H}
}

// Note rendering colours.
var (
	noteFill   = color.RGBA{R: 255, G: 249, B: 196, A: 255}
	noteBorder = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// drawNote renders one note rectangle with its text into img. Page-space
// coordinates are translated relative to the capture region origin.
func drawNote(img *image.RGBA, shape boardShape, region domain.Bounds) {
	x0 := int(shape.X - region.X)
	y0 := int(shape.Y - region.Y)
	x1 := x0 + int(shape.W)
	y1 := y0 + int(shape.H)

	rect := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}

	draw.Draw(img, rect, image.NewUniform(noteFill), image.Point{}, draw.Src)

	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.Set(x, rect.Min.Y, noteBorder)
		img.Set(x, rect.Max.Y-1, noteBorder)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.Set(rect.Min.X, y, noteBorder)
		img.Set(rect.Max.X-1, y, noteBorder)
	}

	drawText(img, strings.TrimSpace(shape.Text), x0+4, y0+4)
}

// drawText renders text line by line starting at the given pixel position.
func drawText(img *image.RGBA, text string, x, y int) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()

	for i, line := range strings.Split(text, "\n") {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(x),
				Y: fixed.I(y + face.Metrics().Ascent.Ceil() + i*lineHeight),
			},
		}
		d.DrawString(line)
	}
}

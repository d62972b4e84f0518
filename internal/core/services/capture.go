package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// Default capture region dimensions in page-space units.
const (
	DefaultCaptureWidth  = 2560.0
	DefaultCaptureHeight = 1440.0
)

// Capture renders a bounded screenshot of the canvas region around a set
// of matched positions. Bounding the region keeps unrelated distant board
// content out of the image and bounds the payload sent to the vision
// model.
type Capture struct {
	canvas driven.Canvas
	width  float64
	height float64
}

// NewCapture creates a capture service with the given region size.
// Non-positive dimensions fall back to the defaults.
func NewCapture(canvas driven.Canvas, width, height float64) *Capture {
	if width <= 0 {
		width = DefaultCaptureWidth
	}
	if height <= 0 {
		height = DefaultCaptureHeight
	}
	return &Capture{canvas: canvas, width: width, height: height}
}

// Capture computes the per-axis median focal point of the positions,
// builds a fixed-size region centred on it, and rasterises every shape
// whose page bounds lie fully within the region to a base64 PNG data URL.
// Returns empty string when no positions are given or no shapes qualify -
// no screenshot is attached in that case.
func (c *Capture) Capture(ctx context.Context, positions []domain.Point2D) (string, error) {
	if len(positions) == 0 {
		return "", nil
	}

	focal := domain.MedianPoint(positions)
	region := domain.BoundsAround(focal, c.width, c.height)
	logger.Debug("Capture region %.0fx%.0f centred on (%.1f, %.1f)", c.width, c.height, focal.X, focal.Y)

	notes, err := c.canvas.TextNotes(ctx)
	if err != nil {
		return "", fmt.Errorf("enumerate shapes: %w", err)
	}

	var ids []string
	for _, note := range notes {
		bounds, err := c.canvas.ShapeBounds(ctx, note.ShapeID)
		if err != nil {
			continue
		}
		if region.Contains(bounds) {
			ids = append(ids, note.ShapeID)
		}
	}
	if len(ids) == 0 {
		logger.Debug("No shapes fully within capture region")
		return "", nil
	}

	// Exactly the qualifying shapes are rendered, not the raw viewport.
	png, err := c.canvas.ExportImage(ctx, ids, region)
	if err != nil {
		return "", fmt.Errorf("export region: %w", err)
	}

	logger.Info("Captured %d shapes (%d bytes)", len(ids), len(png))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

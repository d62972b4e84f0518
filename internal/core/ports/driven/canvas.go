package driven

import (
	"context"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

// Canvas is the capability provider for the drawing surface. The editor
// itself (rendering, tools, undo) is out of scope; this port exposes only
// what the semantic layer needs: text-bearing shapes with page-space
// bounds, change notifications, viewport navigation and bounded raster
// export.
type Canvas interface {
	// TextNotes returns the current text-bearing shapes with trimmed text
	// and page-space bounding-box centers. Shapes with no text content are
	// not returned.
	TextNotes(ctx context.Context) ([]domain.TextNote, error)

	// ShapeBounds returns the current page-space bounding box of a shape.
	// Returns domain.ErrNotFound if the shape no longer exists.
	ShapeBounds(ctx context.Context, shapeID string) (domain.Bounds, error)

	// Select marks a shape as selected.
	Select(ctx context.Context, shapeID string) error

	// CenterOn centres the viewport on a page-space point.
	CenterOn(ctx context.Context, p domain.Point2D) error

	// ExportImage rasterises the given shapes, clipped to bounds, to an
	// encoded image (PNG).
	ExportImage(ctx context.Context, shapeIDs []string, bounds domain.Bounds) ([]byte, error)

	// Subscribe registers a channel that receives a notification whenever
	// the canvas content may have changed. Notifications are coalesced;
	// receivers must re-read the canvas state. The returned function
	// unsubscribes.
	Subscribe(ch chan<- struct{}) (unsubscribe func())

	// Close releases resources.
	Close() error
}

package domain

import "strings"

// TextNote is a text-bearing canvas shape observed during one observation
// cycle. It is ephemeral: derived from the canvas each time the board
// changes and never persisted.
type TextNote struct {
	// ShapeID identifies the originating canvas shape.
	ShapeID string

	// Text is the trimmed text content. Always non-empty for tracked notes.
	Text string

	// Center is the page-space center of the shape's bounding box.
	Center Point2D
}

// NoteState is the tracked state of one note inside a snapshot.
type NoteState struct {
	Text   string
	Center Point2D
}

// Snapshot maps shape IDs to their observed state. A snapshot represents
// the full set of tracked notes at one observation cycle.
type Snapshot map[string]NoteState

// Equal reports whether two snapshots track the same notes with the same
// text and positions. A count difference alone is a change (covers
// deletions).
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for id, state := range s {
		prev, ok := other[id]
		if !ok {
			return false
		}
		if state.Text != prev.Text || state.Center.X != prev.Center.X || state.Center.Y != prev.Center.Y {
			return false
		}
	}
	return true
}

// Notes returns the snapshot contents as TextNotes in unspecified order.
func (s Snapshot) Notes() []TextNote {
	notes := make([]TextNote, 0, len(s))
	for id, state := range s {
		notes = append(notes, TextNote{ShapeID: id, Text: state.Text, Center: state.Center})
	}
	return notes
}

// SnapshotFromNotes builds a snapshot from observed notes, dropping notes
// whose trimmed text is empty.
func SnapshotFromNotes(notes []TextNote) Snapshot {
	snap := make(Snapshot, len(notes))
	for _, n := range notes {
		text := strings.TrimSpace(n.Text)
		if text == "" {
			continue
		}
		snap[n.ShapeID] = NoteState{Text: text, Center: n.Center}
	}
	return snap
}

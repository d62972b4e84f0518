package domain

import "strings"

// DefaultClusterThreshold is the maximum centroid distance, in page-space
// units, at which a note joins an existing cluster.
const DefaultClusterThreshold = 200.0

// Cluster is a spatially-grouped set of notes whose combined text becomes
// one semantic unit. Clusters are rebuilt from scratch on every indexing
// pass and never persisted.
type Cluster struct {
	// Members are the notes in join order.
	Members []TextNote

	// Centroid is the unweighted arithmetic mean of member centers,
	// recomputed on every membership change.
	Centroid Point2D
}

// NewCluster opens a singleton cluster at the note's center.
func NewCluster(note TextNote) *Cluster {
	return &Cluster{
		Members:  []TextNote{note},
		Centroid: note.Center,
	}
}

// Add appends a note and recomputes the centroid as the mean of all member
// centers.
func (c *Cluster) Add(note TextNote) {
	c.Members = append(c.Members, note)

	var sumX, sumY float64
	for _, m := range c.Members {
		sumX += m.Center.X
		sumY += m.Center.Y
	}
	n := float64(len(c.Members))
	c.Centroid = Point2D{X: sumX / n, Y: sumY / n}
}

// CombinedText concatenates the trimmed member texts with single spaces, in
// member order. Empty texts are dropped. A cluster whose combined text is
// empty produces no index activity.
func (c *Cluster) CombinedText() string {
	parts := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// Representative returns the ID of the cluster's first member, which keys
// the cluster's index entry.
func (c *Cluster) Representative() string {
	if len(c.Members) == 0 {
		return ""
	}
	return c.Members[0].ShapeID
}

// ShapeIDs returns the IDs of all member shapes in join order.
func (c *Cluster) ShapeIDs() []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ShapeID
	}
	return ids
}

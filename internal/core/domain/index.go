package domain

// IndexEntry is one persisted record in the semantic search store.
//
// Invariant: for any representative shape ID that currently participates in
// a non-empty cluster, at most one live entry exists. The synchroniser
// removes every entry associated with a cluster's member shapes before
// writing the cluster's new entry.
type IndexEntry struct {
	// ID is a globally unique identifier generated per write.
	ID string `json:"id"`

	// Name is the cluster's combined text.
	Name string `json:"name"`

	// Embedding is the vector for Name.
	Embedding []float32 `json:"embedding"`

	// ShapeID is the ID of the cluster's representative (first) member.
	ShapeID string `json:"shapeId"`
}

// Match is one retrieval result: an index entry together with its
// similarity to the query and the live position of its originating shape.
type Match struct {
	// Entry is the matched index entry.
	Entry IndexEntry

	// Similarity is the cosine similarity to the query (0-1).
	Similarity float64

	// Center is the shape's current page-space center, read live at
	// retrieval time since notes may have moved after indexing.
	Center Point2D
}

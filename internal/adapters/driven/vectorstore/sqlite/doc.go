// Package sqlite provides a SQLite-backed vector store for the semantic
// index. Embeddings are stored as little-endian float32 blobs and searched
// with brute-force cosine similarity, which is comfortably fast for the
// entry counts a single board produces.
package sqlite

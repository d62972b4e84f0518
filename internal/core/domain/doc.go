// Package domain contains the core business entities for the whiteboard
// semantic layer: text notes observed on a canvas, spatial clusters of
// those notes, persisted embedding index entries, and chat messages.
//
// Domain types have no dependencies on adapters or external services.
package domain

// Package file provides a Canvas adapter backed by a board document on
// disk. The editor writes the document; this adapter reads it, watches it
// for changes and rasterises regions of it on demand. Selection and
// viewport state live in memory since the editor owns the real viewport.
package file

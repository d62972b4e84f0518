// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the canvas capability provider, the embedding
// and chat completion providers, the vector index store, and configuration.
//
// Implementations live in internal/adapters/driven.
package driven

// Package services contains the core pipeline of the whiteboard semantic
// layer: observing canvas changes, clustering notes spatially, keeping the
// embedding index in sync, retrieving ranked canvas locations for queries,
// capturing bounded screenshots and orchestrating grounded chat.
package services

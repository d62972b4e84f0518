package services

import (
	"sort"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// BuildClusters groups a snapshot's notes into spatial clusters.
//
// Notes are visited in lexicographic shape-ID order so that clustering is
// deterministic for a given snapshot. Each note joins the first open
// cluster whose centroid lies strictly within threshold of the note's
// center (first-match, not nearest-match); otherwise it opens a new
// singleton cluster. Single-pass greedy, O(n*k) for k clusters formed -
// fine for the handful of notes a board region carries. The result is an
// accepted approximation, not a globally optimal clustering.
func BuildClusters(snapshot domain.Snapshot, threshold float64) []*domain.Cluster {
	if threshold <= 0 {
		threshold = domain.DefaultClusterThreshold
	}

	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var clusters []*domain.Cluster
	for _, id := range ids {
		state := snapshot[id]
		note := domain.TextNote{ShapeID: id, Text: state.Text, Center: state.Center}

		joined := false
		for _, c := range clusters {
			if domain.Distance(c.Centroid, note.Center) < threshold {
				c.Add(note)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, domain.NewCluster(note))
		}
	}

	logger.Debug("Clustered %d notes into %d clusters (threshold %.0f)", len(snapshot), len(clusters), threshold)
	return clusters
}

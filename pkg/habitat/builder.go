package habitat

import (
	"github.com/ritzau/ecolink/pkg/dataset"
	"github.com/ritzau/ecolink/pkg/logging"
)

// Build folds dataset rows into a graph, in order. Later rows overwrite
// both the corridor between the same pair and the attributes of the
// habitats they mention. Values are not range checked.
func Build(records []dataset.Record) *Graph {
	logger := logging.New("habitat")
	g := NewGraph()

	selfLoops := 0
	for _, rec := range records {
		src := g.node(rec.Source.Name)
		dst := g.node(rec.Destination.Name)

		if !g.setEdge(src, dst, rec.Distance, rec.Risk) {
			selfLoops++
		}

		setAttributes(src, rec.Source)
		setAttributes(dst, rec.Destination)
	}

	if selfLoops > 0 {
		logger.Warn("ignored corridors that start and end at the same habitat", "count", selfLoops)
	}
	logger.Debug("graph built", "rows", len(records), "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g
}

func setAttributes(n *Node, ep dataset.Endpoint) {
	n.Latitude = ep.Latitude
	n.Longitude = ep.Longitude
	n.State = ep.State
}

// Package corridor answers corridor queries: resolve two habitat names,
// reduce the graph to its minimum spanning forest and walk the tree path
// between them.
package corridor

import (
	"context"
	"fmt"

	"github.com/ritzau/ecolink/pkg/habitat"
	"github.com/ritzau/ecolink/pkg/logging"
	"github.com/ritzau/ecolink/pkg/mst"
	"github.com/ritzau/ecolink/pkg/resolve"
)

// Segment is one traversed corridor, oriented in travel direction
type Segment struct {
	Source           string  `json:"source"`
	Destination      string  `json:"destination"`
	Distance         float64 `json:"distance"`
	Risk             int     `json:"risk"`
	SourceState      string  `json:"source_state"`
	DestinationState string  `json:"destination_state"`
	SourceFull       string  `json:"source_full"`
	DestinationFull  string  `json:"destination_full"`
}

// Location holds the attributes of a habitat on the path
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	State     string  `json:"state"`
}

// Corridor is the recommended route between two habitats
type Corridor struct {
	Path          []Segment           `json:"path"`
	Nodes         map[string]Location `json:"nodes"`
	TotalDistance float64             `json:"total_distance"`
	TotalRisk     int                 `json:"total_risk"`
}

// Service answers corridor queries against an immutable graph. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	graph    *habitat.Graph
	resolver *resolve.Resolver
}

// NewService creates a query service over g. g must not be modified afterwards.
func NewService(g *habitat.Graph) *Service {
	return &Service{
		graph:    g,
		resolver: resolve.New(g.Names()),
	}
}

// Graph returns the graph the service queries
func (s *Service) Graph() *habitat.Graph { return s.graph }

// Find returns the corridor between two user-typed habitat names. The route
// is restricted to the minimum spanning forest, so it follows trunk
// corridors even where G has a shorter detour.
func (s *Service) Find(ctx context.Context, source, destination string) (*Corridor, error) {
	if source == "" || destination == "" {
		return nil, ErrBadRequest
	}
	logger := logging.WithContext(ctx, logging.New("corridor"))

	src, ok := s.resolver.Resolve(source)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, source)
	}
	dst, ok := s.resolver.Resolve(destination)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, destination)
	}
	logger.Debug("resolved habitats", "source", src, "destination", dst)

	forest := mst.Reduce(s.graph)
	if !forest.Contains(src) || !forest.Contains(dst) {
		return nil, fmt.Errorf("%w: %q or %q not in spanning forest", ErrNoPath, src, dst)
	}

	names, weight, ok := forest.Path(src, dst)
	if !ok {
		return nil, fmt.Errorf("%w: %q and %q are not connected", ErrNoPath, src, dst)
	}

	c, err := s.assemble(names)
	if err != nil {
		return nil, err
	}
	logger.Info("corridor found",
		"source", src,
		"destination", dst,
		"hops", len(c.Path),
		"distance", c.TotalDistance,
		"weight", weight,
	)
	return c, nil
}

// assemble reads segment and node attributes from the full graph
func (s *Service) assemble(names []string) (*Corridor, error) {
	c := &Corridor{
		Path:  make([]Segment, 0, len(names)),
		Nodes: make(map[string]Location, len(names)),
	}

	for _, name := range names {
		n, ok := s.graph.Node(name)
		if !ok {
			return nil, fmt.Errorf("path habitat %q missing from graph", name)
		}
		c.Nodes[name] = Location{
			Latitude:  n.Latitude,
			Longitude: n.Longitude,
			State:     n.DisplayState(),
		}
	}

	for i := 1; i < len(names); i++ {
		u, v := names[i-1], names[i]
		e, ok := s.graph.Edge(u, v)
		if !ok {
			return nil, fmt.Errorf("path corridor %q-%q missing from graph", u, v)
		}
		us, vs := c.Nodes[u].State, c.Nodes[v].State
		c.Path = append(c.Path, Segment{
			Source:           u,
			Destination:      v,
			Distance:         e.Distance,
			Risk:             e.Risk,
			SourceState:      us,
			DestinationState: vs,
			SourceFull:       fmt.Sprintf("%s (%s)", u, us),
			DestinationFull:  fmt.Sprintf("%s (%s)", v, vs),
		})
		c.TotalDistance += e.Distance
		c.TotalRisk += e.Risk
	}

	return c, nil
}

package corridor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/ecolink/pkg/dataset"
	"github.com/ritzau/ecolink/pkg/habitat"
)

func endpoint(name, state string, lat, lon float64) dataset.Endpoint {
	return dataset.Endpoint{Name: name, Latitude: lat, Longitude: lon, State: state}
}

func newTestService() *Service {
	a := endpoint("A", "Assam", 26.5, 93.1)
	b := endpoint("B", "Bihar", 25.6, 85.1)
	c := endpoint("C", "", 22.3, 80.6)
	x := endpoint("X", "Kerala", 9.5, 77.1)
	y := endpoint("Y", "Kerala", 11.9, 76.1)

	return NewService(habitat.Build([]dataset.Record{
		{Source: a, Destination: b, Distance: 10, Risk: 1},
		{Source: b, Destination: c, Distance: 10, Risk: 1},
		{Source: a, Destination: c, Distance: 5, Risk: 4},
		{Source: x, Destination: y, Distance: 40, Risk: 2},
	}))
}

func TestFindFollowsSpanningTree(t *testing.T) {
	svc := newTestService()

	got, err := svc.Find(context.Background(), "a", "c")
	require.NoError(t, err)

	require.Len(t, got.Path, 2)
	assert.Equal(t, Segment{
		Source:           "A",
		Destination:      "B",
		Distance:         10,
		Risk:             1,
		SourceState:      "Assam",
		DestinationState: "Bihar",
		SourceFull:       "A (Assam)",
		DestinationFull:  "B (Bihar)",
	}, got.Path[0])
	assert.Equal(t, "B", got.Path[1].Source)
	assert.Equal(t, "C", got.Path[1].Destination)
	assert.Equal(t, "Unknown", got.Path[1].DestinationState)
	assert.Equal(t, "C (Unknown)", got.Path[1].DestinationFull)

	// The direct A-C corridor is shorter but riskier, and not in the tree
	assert.Equal(t, 20.0, got.TotalDistance)
	assert.Equal(t, 2, got.TotalRisk)

	require.Len(t, got.Nodes, 3)
	assert.Equal(t, Location{Latitude: 26.5, Longitude: 93.1, State: "Assam"}, got.Nodes["A"])
	assert.Equal(t, "Unknown", got.Nodes["C"].State)
}

func TestFindReverseDirection(t *testing.T) {
	got, err := newTestService().Find(context.Background(), "C", "A")
	require.NoError(t, err)

	require.Len(t, got.Path, 2)
	assert.Equal(t, "C", got.Path[0].Source)
	assert.Equal(t, "B", got.Path[0].Destination)
	assert.Equal(t, "A", got.Path[1].Destination)
}

func TestFindSameHabitat(t *testing.T) {
	got, err := newTestService().Find(context.Background(), "b", "B")
	require.NoError(t, err)

	assert.NotNil(t, got.Path)
	assert.Empty(t, got.Path)
	assert.Len(t, got.Nodes, 1)
	assert.Zero(t, got.TotalDistance)
	assert.Zero(t, got.TotalRisk)
}

func TestFindEqualWeightCycle(t *testing.T) {
	x := endpoint("X", "Assam", 26.5, 93.1)
	y := endpoint("Y", "Assam", 26.7, 91.0)
	z := endpoint("Z", "Bihar", 27.3, 84.2)
	w := endpoint("W", "Bihar", 25.6, 85.1)
	svc := NewService(habitat.Build([]dataset.Record{
		{Source: x, Destination: y, Distance: 10, Risk: 1},
		{Source: z, Destination: w, Distance: 10, Risk: 1},
		{Source: x, Destination: z, Distance: 10, Risk: 1},
		{Source: y, Destination: w, Distance: 10, Risk: 1},
	}))

	got, err := svc.Find(context.Background(), "Z", "W")
	require.NoError(t, err)

	var hops []string
	for _, s := range got.Path {
		hops = append(hops, s.Source+"->"+s.Destination)
	}
	assert.Equal(t, []string{"Z->X", "X->Y", "Y->W"}, hops)
	assert.Equal(t, 30.0, got.TotalDistance)
	assert.Equal(t, 3, got.TotalRisk)
	assert.Len(t, got.Nodes, 4)
}

func TestFindErrors(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name        string
		source      string
		destination string
		wantErr     error
		wantStatus  int
		wantMessage string
	}{
		{"missing source", "", "A", ErrBadRequest, http.StatusBadRequest, MsgBadRequest},
		{"missing destination", "A", "", ErrBadRequest, http.StatusBadRequest, MsgBadRequest},
		{"unknown destination", "A", "Atlantis", ErrNodeNotFound, http.StatusNotFound, MsgNodeNotFound},
		{"unknown source", "Zz", "A", ErrNodeNotFound, http.StatusNotFound, MsgNodeNotFound},
		{"different components", "A", "Y", ErrNoPath, http.StatusNotFound, MsgNoPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Find(context.Background(), tt.source, tt.destination)
			assert.Nil(t, got)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantStatus, StatusCode(err))
			assert.Equal(t, tt.wantMessage, Message(err))
		})
	}
}

func TestStatusCodeUnknownError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, MsgInternal, Message(err))
	assert.Equal(t, http.StatusOK, StatusCode(nil))
}

func TestFindConcurrent(t *testing.T) {
	svc := newTestService()

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src, dst := "A", "C"
			if i%2 == 1 {
				src, dst = "x", "y"
			}
			c, err := svc.Find(context.Background(), src, dst)
			if err != nil {
				errs <- err
				return
			}
			if len(c.Path) == 0 {
				errs <- fmt.Errorf("empty path for %s-%s", src, dst)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

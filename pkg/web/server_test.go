package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/ecolink/pkg/corridor"
	"github.com/ritzau/ecolink/pkg/dataset"
	"github.com/ritzau/ecolink/pkg/habitat"
)

const testCSV = `Source,Destination,Distance (km),Risk Level,Source_Latitude,Source_Longitude,Source_State,Destination_Latitude,Destination_Longitude,Destination_State
A,B,10,1,26.5,93.1,Assam,25.6,85.1,Bihar
B,C,10,1,25.6,85.1,Bihar,22.3,80.6,Madhya Pradesh
A,C,5,4,26.5,93.1,Assam,22.3,80.6,Madhya Pradesh
Periyar,Eravikulam,60,2,9.5,77.1,Kerala,10.2,77.0,Kerala
`

// MockFinder is a mock implementation of CorridorFinder
type MockFinder struct {
	Corridor *corridor.Corridor
	Err      error
}

func (m *MockFinder) Find(ctx context.Context, source, destination string) (*corridor.Corridor, error) {
	return m.Corridor, m.Err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	records, err := dataset.Parse(strings.NewReader(testCSV), "test.csv")
	require.NoError(t, err)

	s, err := NewServer(corridor.NewService(habitat.Build(records)), Options{CORS: true})
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestGetCorridor(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/get_corridor?source=a&destination=c")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Path []struct {
			Source           string  `json:"source"`
			Destination      string  `json:"destination"`
			Distance         float64 `json:"distance"`
			Risk             int     `json:"risk"`
			SourceState      string  `json:"source_state"`
			DestinationState string  `json:"destination_state"`
			SourceFull       string  `json:"source_full"`
			DestinationFull  string  `json:"destination_full"`
		} `json:"path"`
		Nodes map[string]struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			State     string  `json:"state"`
		} `json:"nodes"`
		TotalDistance float64 `json:"total_distance"`
		TotalRisk     int     `json:"total_risk"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Path, 2)
	assert.Equal(t, "A", body.Path[0].Source)
	assert.Equal(t, "B", body.Path[0].Destination)
	assert.Equal(t, "B", body.Path[1].Source)
	assert.Equal(t, "C", body.Path[1].Destination)
	assert.Equal(t, "B (Bihar)", body.Path[1].SourceFull)
	assert.Equal(t, "C (Madhya Pradesh)", body.Path[1].DestinationFull)
	assert.Equal(t, 20.0, body.TotalDistance)
	assert.Equal(t, 2, body.TotalRisk)

	require.Len(t, body.Nodes, 3)
	assert.Equal(t, 26.5, body.Nodes["A"].Latitude)
	assert.Equal(t, "Bihar", body.Nodes["B"].State)
}

func TestGetCorridorErrors(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{"no params", "/get_corridor", http.StatusBadRequest, "Missing source or destination"},
		{"empty destination", "/get_corridor?source=A&destination=", http.StatusBadRequest, "Missing source or destination"},
		{"unknown destination", "/get_corridor?source=A&destination=Atlantis", http.StatusNotFound, "Sanctuary not found. Check spelling."},
		{"disconnected", "/get_corridor?source=periyar&destination=A", http.StatusNotFound, "No path found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec))
		})
	}
}

func TestGetCorridorInternalError(t *testing.T) {
	s, err := NewServer(&MockFinder{Err: errors.New("boom")}, Options{})
	require.NoError(t, err)

	rec := get(t, s.Handler(), "/get_corridor?source=a&destination=b")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeError(t, rec))
}

func TestGetRiskInfo(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/get_risk_info")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]struct {
		Description string            `json:"description"`
		Factors     map[string]string `json:"factors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body, 4)
	for _, key := range []string{"1", "2", "3", "4"} {
		level, ok := body[key]
		require.True(t, ok, key)
		assert.NotEmpty(t, level.Description)
		assert.Len(t, level.Factors, 4)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/get_risk_info")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodOptions, "/get_corridor", nil)
	req.Header.Set("Origin", "http://example.org")
	req.Header.Set("Access-Control-Request-Method", "GET")
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusNoContent, pre.Code)
	assert.Contains(t, pre.Header().Get("Access-Control-Allow-Methods"), "GET")

	s, err := NewServer(&MockFinder{}, Options{CORS: false})
	require.NoError(t, err)
	rec = get(t, s.Handler(), "/get_risk_info")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticAssets(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "EcoLink")

	rec = get(t, h, "/map.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "get_corridor")

	rec = get(t, h, "/nope.txt")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("custom front-end"), 0o644))

	s, err := NewServer(&MockFinder{}, Options{StaticDir: dir})
	require.NoError(t, err)

	rec := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "custom front-end")

	_, err = NewServer(&MockFinder{}, Options{StaticDir: filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

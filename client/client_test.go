package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
)

func TestTileClient_FetchBuildsURLAndBounds(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := NewTileClient(&config.TilesConfig{URLTemplate: srv.URL + "/{z}/{x}/{y}.png", Timeout: time.Second})
	tile, err := c.Fetch(context.Background(), 18.427406, -66.070267, 19)
	require.NoError(t, err)

	assert.Equal(t, "/19/165922/234832.png", gotPath)
	assert.Equal(t, 165922, tile.X)
	assert.Equal(t, 234832, tile.Y)
	assert.Equal(t, []byte("png-bytes"), tile.Data)
	assert.Equal(t, "image/png", tile.ContentType)
	assert.Equal(t, geo.TileBounds(165922, 234832, 19), tile.Bounds)
}

func TestTileClient_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewTileClient(&config.TilesConfig{URLTemplate: srv.URL + "/{z}/{x}/{y}"})
	_, err := c.Fetch(context.Background(), 0, 0, 1)
	assert.ErrorIs(t, err, ErrTileFetch)
}

func TestTileClient_URL(t *testing.T) {
	c := NewTileClient(&config.TilesConfig{URLTemplate: "https://t/vt?x={x}&y={y}&z={z}"})
	assert.Equal(t, "https://t/vt?x=3&y=5&z=7", c.URL(3, 5, 7))
}

const insightsBody = `{
	"name": "buildings/abc",
	"center": {"latitude": 18.4274, "longitude": -66.0702},
	"boundingBox": {"sw": {"latitude": 18.4273, "longitude": -66.0703}, "ne": {"latitude": 18.4275, "longitude": -66.0701}},
	"imageryQuality": "HIGH",
	"solarPotential": {
		"wholeRoofStats": {"areaMeters2": 120.5},
		"roofSegmentStats": [
			{"pitchDegrees": 20.1, "azimuthDegrees": 180, "stats": {"areaMeters2": 60}},
			{"pitchDegrees": 25.4, "azimuthDegrees": 0, "stats": {"areaMeters2": 60.5}}
		]
	}
}`

func TestSolarClient_FindClosest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/buildingInsights:findClosest", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "18.427406", q.Get("location.latitude"))
		assert.Equal(t, "-66.070267", q.Get("location.longitude"))
		assert.Equal(t, "HIGH", q.Get("requiredQuality"))
		assert.Equal(t, "k", q.Get("key"))
		_, _ = w.Write([]byte(insightsBody))
	}))
	defer srv.Close()

	c := NewSolarClient(&config.SolarConfig{APIKey: "k", BaseURL: srv.URL + "/v1/"})
	insights, err := c.FindClosest(context.Background(), 18.427406, -66.070267, "")
	require.NoError(t, err)
	require.NotNil(t, insights.SolarPotential)

	assert.Equal(t, 120.5, insights.SolarPotential.WholeRoofStats.AreaMeters2)
	require.Len(t, insights.SolarPotential.RoofSegmentStats, 2)
	assert.Equal(t, 25.4, insights.SolarPotential.RoofSegmentStats[1].PitchDegrees)
	assert.Equal(t, 18.4274, insights.Center.Lat)
	assert.Equal(t, -66.0701, insights.BoundingBox.NE.Lng)
}

func TestSolarClient_ErrorCategories(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrBuildingNotFound},
		{http.StatusForbidden, ErrQuotaExceeded},
		{http.StatusTooManyRequests, ErrQuotaExceeded},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := NewSolarClient(&config.SolarConfig{APIKey: "k", BaseURL: srv.URL})
		_, err := c.FindClosest(context.Background(), 1, 2, "")
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
		srv.Close()
	}
}

func TestSolarClient_OtherStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewSolarClient(&config.SolarConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.FindClosest(context.Background(), 1, 2, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBuildingNotFound)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "500")
}

func TestSolarClient_NoKey(t *testing.T) {
	c := NewSolarClient(&config.SolarConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.FindClosest(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, ErrSolarNotConfigured)
}

func TestSolarClient_DataLayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dataLayers:get", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("radiusMeters"))
		assert.Equal(t, "FULL_LAYERS", r.URL.Query().Get("view"))
		_, _ = w.Write([]byte(`{"imageryQuality":"HIGH","dsmUrl":"d","rgbUrl":"r","maskUrl":"m","annualFluxUrl":"f"}`))
	}))
	defer srv.Close()

	c := NewSolarClient(&config.SolarConfig{APIKey: "k", BaseURL: srv.URL})
	layers, err := c.DataLayers(context.Background(), 1, 2, 50)
	require.NoError(t, err)
	assert.Equal(t, &DataLayers{ImageryQuality: "HIGH", DSMURL: "d", RGBURL: "r", MaskURL: "m", AnnualFluxURL: "f"}, layers)
}

const overpassBody = `{
	"version": 0.6,
	"osm3s": {"timestamp_osm_base": "2024-01-01T00:00:00Z"},
	"elements": [
		{"type": "way", "id": 200, "nodes": [11, 12, 13, 14, 11], "tags": {"building": "house"}},
		{"type": "way", "id": 100, "nodes": [1, 2, 3, 4, 1], "tags": {"building": "yes"}},
		{"type": "way", "id": 300, "nodes": [1, 2, 3], "tags": {"building": "roof"}},
		{"type": "node", "id": 1, "lat": 18.0000, "lon": -66.0000},
		{"type": "node", "id": 2, "lat": 18.0000, "lon": -65.9998},
		{"type": "node", "id": 3, "lat": 18.0002, "lon": -65.9998},
		{"type": "node", "id": 4, "lat": 18.0002, "lon": -66.0000},
		{"type": "node", "id": 11, "lat": 18.0010, "lon": -66.0000},
		{"type": "node", "id": 12, "lat": 18.0010, "lon": -65.9998},
		{"type": "node", "id": 13, "lat": 18.0012, "lon": -65.9998},
		{"type": "node", "id": 14, "lat": 18.0012, "lon": -66.0000}
	]
}`

func overpassServer(t *testing.T, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(query), "building")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestOverpassClient_BuildingAtContaining(t *testing.T) {
	srv := overpassServer(t, overpassBody)
	defer srv.Close()

	c := NewOverpassClient(&config.OverpassConfig{Endpoint: srv.URL, Radius: 30, Timeout: time.Second})
	fp, err := c.BuildingAt(context.Background(), 18.0011, -65.9999)
	require.NoError(t, err)

	assert.Equal(t, int64(200), fp.WayID)
	assert.Equal(t, "house", fp.Tags["building"])
	assert.Len(t, fp.Polygon, 5)
	assert.Equal(t, fp.Polygon[0], fp.Polygon[4])
}

func TestOverpassClient_BuildingAtNearest(t *testing.T) {
	srv := overpassServer(t, overpassBody)
	defer srv.Close()

	c := NewOverpassClient(&config.OverpassConfig{Endpoint: srv.URL, Radius: 30, Timeout: time.Second})
	fp, err := c.BuildingAt(context.Background(), 17.9999, -65.9999)
	require.NoError(t, err)
	assert.Equal(t, int64(100), fp.WayID)
	assert.Greater(t, fp.Polygon.AreaSquareMeters(), 0.0)
}

func TestOverpassClient_NoFootprint(t *testing.T) {
	srv := overpassServer(t, `{"version":0.6,"osm3s":{"timestamp_osm_base":"2024-01-01T00:00:00Z"},"elements":[]}`)
	defer srv.Close()

	c := NewOverpassClient(&config.OverpassConfig{Endpoint: srv.URL, Radius: 30, Timeout: time.Second})
	_, err := c.BuildingAt(context.Background(), 18, -66)
	assert.ErrorIs(t, err, ErrNoFootprint)
}

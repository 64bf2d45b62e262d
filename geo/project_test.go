package geo

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Linearity(t *testing.T) {
	bbox := BoundingBox{North: 1, South: 0, East: 1, West: 0}

	out, err := Project([]image.Point{{X: 50, Y: 50}, {X: 0, Y: 0}, {X: 100, Y: 100}}, bbox, 100, 100)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, LatLng{Lat: 0.5, Lng: 0.5}, out[0])
	assert.Equal(t, LatLng{Lat: 1, Lng: 0}, out[1])
	assert.Equal(t, LatLng{Lat: 0, Lng: 1}, out[2])
	assert.Equal(t, out[0], out[3])
}

func TestProject_InvalidBoundingBox(t *testing.T) {
	poly := []image.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}

	_, err := Project(poly, BoundingBox{North: 0, South: 1, East: 1, West: 0}, 10, 10)
	assert.ErrorIs(t, err, ErrInvalidBoundingBox)

	_, err = Project(poly, BoundingBox{North: 1, South: 0, East: 0, West: 0}, 10, 10)
	assert.ErrorIs(t, err, ErrInvalidBoundingBox)
}

func TestProject_InvalidImageSize(t *testing.T) {
	_, err := Project([]image.Point{{X: 1, Y: 1}}, BoundingBox{North: 1, East: 1}, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidImageSize)
}

func TestProject_PreservesOrder(t *testing.T) {
	bbox := TileBounds(165922, 234832, 19)
	poly := []image.Point{{X: 10, Y: 10}, {X: 200, Y: 12}, {X: 190, Y: 240}, {X: 15, Y: 230}}

	out, err := Project(poly, bbox, 256, 256)
	require.NoError(t, err)
	require.Len(t, out, len(poly)+1)

	assert.Greater(t, out[1].Lng, out[0].Lng)
	assert.Less(t, out[2].Lat, out[1].Lat)
	for _, p := range out {
		assert.True(t, bbox.Contains(p))
	}
}

func TestPolygonRingRoundTrip(t *testing.T) {
	p := Polygon{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}, {Lat: 5, Lng: 2}, {Lat: 1, Lng: 2}}
	ring := p.Ring()

	assert.Equal(t, 2.0, ring[0][0])
	assert.Equal(t, 1.0, ring[0][1])
	assert.Equal(t, p, PolygonFromRing(ring))
	assert.Equal(t, p, PolygonFromRing(ring[:3]))
}

func TestPolygonArea(t *testing.T) {
	// 约 0.0001° 见方，赤道附近约 11.1m x 11.1m
	p := Polygon{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.0001},
		{Lat: 0.0001, Lng: 0.0001},
		{Lat: 0.0001, Lng: 0},
		{Lat: 0, Lng: 0},
	}
	assert.InDelta(t, 123.6, p.AreaSquareMeters(), 2.0)
	assert.Equal(t, 0.0, Polygon{{Lat: 0, Lng: 0}}.AreaSquareMeters())
}

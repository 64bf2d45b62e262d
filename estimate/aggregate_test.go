package estimate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segmentsWithPitch(pitches ...float64) []Segment {
	out := make([]Segment, len(pitches))
	for i, p := range pitches {
		out[i] = Segment{ID: i + 1, PitchDegrees: p}
	}
	return out
}

func nSegments(n int) []Segment {
	return segmentsWithPitch(make([]float64, n)...)
}

func TestComplexityFactor(t *testing.T) {
	assert.Equal(t, 1.0, ComplexityFactor(0))
	assert.Equal(t, 1.0, ComplexityFactor(5))
	assert.Equal(t, 1.05, ComplexityFactor(6))
	assert.Equal(t, 1.05, ComplexityFactor(15))
	assert.Equal(t, 1.10, ComplexityFactor(16))
}

func TestAggregate_WasteTiers(t *testing.T) {
	e := Aggregate(nSegments(3), 1000)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.InDelta(t, 1.15, e.WasteFactor, 1e-12)
	assert.Equal(t, 1150.00, e.Rounded().EstimatedMaterialSqft)

	e = Aggregate(nSegments(8), 1000)
	assert.InDelta(t, 1.2075, e.WasteFactor, 1e-12)
	assert.Equal(t, 1.2075, e.Rounded().WasteFactor)
	assert.Equal(t, 1207.5, e.Rounded().EstimatedMaterialSqft)

	e = Aggregate(nSegments(20), 1000)
	assert.InDelta(t, 1.265, e.WasteFactor, 1e-12)
	assert.Equal(t, 1265.0, e.Rounded().EstimatedMaterialSqft)
}

func TestAggregate_MaxPitch(t *testing.T) {
	e := Aggregate(segmentsWithPitch(12.5, 33.1, 20), 500)
	assert.Equal(t, 33.1, e.MaxPitchDegrees)
	assert.Equal(t, 3, e.SegmentCount)

	e = Aggregate(nil, 500)
	assert.Zero(t, e.MaxPitchDegrees)
	assert.Equal(t, 1.15, e.WasteFactor)
}

func TestAggregate_NoData(t *testing.T) {
	for _, area := range []float64{0, -1, math.NaN()} {
		e := Aggregate(segmentsWithPitch(12.5, 33.1, 20, 8), area)
		assert.Equal(t, StatusNoData, e.Status)
		assert.Zero(t, e.SurfaceAreaSqft)
		assert.Zero(t, e.EstimatedMaterialSqft)
		assert.Equal(t, 33.1, e.MaxPitchDegrees)
		assert.Equal(t, 4, e.SegmentCount)
		assert.Equal(t, 1.15, e.WasteFactor)
	}

	e := Aggregate(nSegments(20), 0)
	assert.InDelta(t, 1.265, e.WasteFactor, 1e-12)
	assert.Zero(t, e.EstimatedMaterialSqft)
}

func TestManualEstimate(t *testing.T) {
	e := ManualEstimate(1000)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, ManualFactor, e.WasteFactor)
	assert.InDelta(t, 1200.0, e.EstimatedMaterialSqft, 1e-9)

	assert.Equal(t, StatusNoData, ManualEstimate(0).Status)
}

func TestRounded_OnlyAtBoundary(t *testing.T) {
	e := Aggregate(nil, 123.456789)
	assert.Equal(t, 123.456789, e.SurfaceAreaSqft)
	assert.Equal(t, 123.46, e.Rounded().SurfaceAreaSqft)
	assert.Equal(t, 141.98, e.Rounded().EstimatedMaterialSqft)
}

func TestSegmentsFromRecords(t *testing.T) {
	raw := `[
		{"pitchDegrees": 22.46, "azimuthDegrees": 181.94, "stats": {"areaMeters2": 52.3},
		 "center": {"latitude": 18.4274, "longitude": -66.0702},
		 "boundingBox": {"sw": {"latitude": 18.4273, "longitude": -66.0703}, "ne": {"latitude": 18.4275, "longitude": -66.0701}}},
		{"pitchDegrees": 5.04, "azimuthDegrees": 1.96, "stats": {"areaMeters2": 10}}
	]`
	var records []SegmentRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &records))

	segs := SegmentsFromRecords(records)
	require.Len(t, segs, 2)

	assert.Equal(t, 1, segs[0].ID)
	assert.Equal(t, 22.5, segs[0].PitchDegrees)
	assert.Equal(t, 181.9, segs[0].AzimuthDegrees)
	assert.Equal(t, 562.95, segs[0].AreaSqft)
	assert.Equal(t, 18.4274, segs[0].Center.Lat)
	assert.Equal(t, -66.0701, segs[0].BoundingBox.NE.Lng)

	assert.Equal(t, 2, segs[1].ID)
	assert.Equal(t, 5.0, segs[1].PitchDegrees)
	assert.Equal(t, 2.0, segs[1].AzimuthDegrees)
	assert.Equal(t, 107.64, segs[1].AreaSqft)
}

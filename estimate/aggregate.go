// Package estimate 屋顶几何汇总与材料用量估算
package estimate

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// SqftPerSquareMeter 平方米到平方英尺
	SqftPerSquareMeter = 10.7639
	// BaseWaste 基础损耗系数
	BaseWaste = 1.15
	// ManualFactor 手绘或 OSM 平面轮廓的修正系数
	ManualFactor = 1.20
)

const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
)

// LatLng 经纬度
type LatLng struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// BoundingBox 西南、东北两个角点
type BoundingBox struct {
	SW LatLng `json:"sw"`
	NE LatLng `json:"ne"`
}

// Segment 一个屋顶面
type Segment struct {
	ID             int         `json:"id"`
	AzimuthDegrees float64     `json:"azimuth"`
	PitchDegrees   float64     `json:"pitch"`
	AreaSqft       float64     `json:"area_sqft"`
	Center         LatLng      `json:"center"`
	BoundingBox    BoundingBox `json:"bounding_box"`
}

// MaterialEstimate 材料估算结果
type MaterialEstimate struct {
	SurfaceAreaSqft       float64 `json:"geometric_surface_area_sqft"`
	MaxPitchDegrees       float64 `json:"max_pitch_degrees"`
	SegmentCount          int     `json:"roof_segments_count"`
	WasteFactor           float64 `json:"recommended_waste_factor"`
	EstimatedMaterialSqft float64 `json:"estimated_material_needed_sqft"`
	Status                string  `json:"-"`
}

// ComplexityFactor 屋顶面数量对应的复杂度系数
func ComplexityFactor(segments int) float64 {
	switch {
	case segments > 15:
		return 1.10
	case segments > 5:
		return 1.05
	default:
		return 1.0
	}
}

// Aggregate 汇总屋顶面并计算含损耗的材料面积
//
// wholeRoofAreaSqft 不大于 0 时面积和材料用量为 0，状态为 StatusNoData，坡度与损耗系数照常返回。
func Aggregate(segments []Segment, wholeRoofAreaSqft float64) MaterialEstimate {
	maxPitch := 0.0
	if len(segments) > 0 {
		pitches := make([]float64, len(segments))
		for i, s := range segments {
			pitches[i] = s.PitchDegrees
		}
		maxPitch = floats.Max(pitches)
	}

	waste := BaseWaste * ComplexityFactor(len(segments))
	if wholeRoofAreaSqft <= 0 || math.IsNaN(wholeRoofAreaSqft) {
		return MaterialEstimate{
			MaxPitchDegrees: maxPitch,
			SegmentCount:    len(segments),
			WasteFactor:     waste,
			Status:          StatusNoData,
		}
	}

	return MaterialEstimate{
		SurfaceAreaSqft:       wholeRoofAreaSqft,
		MaxPitchDegrees:       maxPitch,
		SegmentCount:          len(segments),
		WasteFactor:           waste,
		EstimatedMaterialSqft: wholeRoofAreaSqft * waste,
		Status:                StatusSuccess,
	}
}

// ManualEstimate 平面轮廓估算，使用固定修正系数而不是复杂度分级
func ManualEstimate(footprintSqft float64) MaterialEstimate {
	if footprintSqft <= 0 || math.IsNaN(footprintSqft) {
		return MaterialEstimate{Status: StatusNoData}
	}
	return MaterialEstimate{
		SurfaceAreaSqft:       footprintSqft,
		WasteFactor:           ManualFactor,
		EstimatedMaterialSqft: footprintSqft * ManualFactor,
		Status:                StatusSuccess,
	}
}

// Rounded 输出前统一保留两位小数
func (e MaterialEstimate) Rounded() MaterialEstimate {
	e.SurfaceAreaSqft = Round(e.SurfaceAreaSqft, 2)
	e.MaxPitchDegrees = Round(e.MaxPitchDegrees, 2)
	e.WasteFactor = Round(e.WasteFactor, 4)
	e.EstimatedMaterialSqft = Round(e.EstimatedMaterialSqft, 2)
	return e
}

// Round 四舍五入到指定小数位
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

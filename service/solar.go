package service

import (
	"context"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/client"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/estimate"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

const (
	solarNote  = "Area represents 3D surface including slope. Waste factor adds buffer for parapets and overlap."
	noDataNote = "No solar roof data available for this location."
)

// SolarAPI Google Solar API
type SolarAPI interface {
	FindClosest(ctx context.Context, lat, lng float64, quality string) (*client.BuildingInsights, error)
	DataLayers(ctx context.Context, lat, lng, radius float64) (*client.DataLayers, error)
}

// SolarService 基于 Solar 屋顶面数据的材料估算
type SolarService struct {
	api         SolarAPI
	cache       Cache
	layerRadius float64
}

func NewSolarService(api SolarAPI, cache Cache, layerRadius float64) *SolarService {
	return &SolarService{
		api:         api,
		cache:       cache,
		layerRadius: layerRadius,
	}
}

// Insights 查询最近建筑并生成估算
func (s *SolarService) Insights(ctx context.Context, lat, lng float64) (*model.EstimateResponse, bool, error) {
	key := solarKeyPrefix + utils.CoordKey(lat, lng, 6)
	return cached(ctx, s.cache, key, func() (*model.EstimateResponse, error) {
		insights, err := s.api.FindClosest(ctx, lat, lng, "")
		if err != nil {
			return nil, err
		}
		return EstimateFromInsights(insights), nil
	})
}

// Layers 数据图层地址，radius <= 0 时使用配置值
func (s *SolarService) Layers(ctx context.Context, lat, lng, radius float64) (*model.LayersResponse, error) {
	if radius <= 0 {
		radius = s.layerRadius
	}
	layers, err := s.api.DataLayers(ctx, lat, lng, radius)
	if err != nil {
		return nil, err
	}
	return &model.LayersResponse{
		Status:         estimate.StatusSuccess,
		ImageryQuality: layers.ImageryQuality,
		AnnualFluxURL:  layers.AnnualFluxURL,
		MaskURL:        layers.MaskURL,
		DSMURL:         layers.DSMURL,
		RGBURL:         layers.RGBURL,
	}, nil
}

// EstimateFromInsights 没有 solarPotential 时返回 no_data
func EstimateFromInsights(insights *client.BuildingInsights) *model.EstimateResponse {
	var records []estimate.SegmentRecord
	var areaM2 float64
	if insights.SolarPotential != nil {
		records = insights.SolarPotential.RoofSegmentStats
		areaM2 = insights.SolarPotential.WholeRoofStats.AreaMeters2
	}

	resp := Estimate(records, areaM2)
	bbox := insights.BoundingBox
	center := insights.Center
	resp.BoundingBox = &bbox
	resp.Center = &center
	return resp
}

// Estimate 对原始屋顶面记录做汇总
func Estimate(records []estimate.SegmentRecord, wholeRoofAreaM2 float64) *model.EstimateResponse {
	segments := estimate.SegmentsFromRecords(records)
	est := estimate.Aggregate(segments, estimate.SquareMetersToSqft(wholeRoofAreaM2)).Rounded()

	note := solarNote
	if est.Status == estimate.StatusNoData {
		note = noDataNote
	}

	return &model.EstimateResponse{
		Status:   est.Status,
		Metrics:  est,
		Segments: segments,
		Note:     note,
	}
}

package model

import (
	"github.com/paulmach/orb/geojson"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/estimate"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
)

// MaskRequest 掩码矢量化请求；给出 lat/lng/zoom 或 bounding_box 时输出经纬度
type MaskRequest struct {
	Mask        [][]int          `json:"mask" validate:"required,min=1"`
	Probability [][]float32      `json:"probability,omitempty"`
	Epsilon     *float64         `json:"epsilon,omitempty" validate:"omitempty,gte=0"`
	ClassID     int              `json:"class_id" validate:"gte=0"`
	Lat         *float64         `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng         *float64         `json:"lng,omitempty" validate:"omitempty,longitude"`
	Zoom        *int             `json:"zoom,omitempty" validate:"omitempty,min=0,max=23"`
	BoundingBox *geo.BoundingBox `json:"bounding_box,omitempty"`
}

// TileInfo 瓦片坐标与地理范围
type TileInfo struct {
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Zoom   int             `json:"zoom"`
	Bounds geo.BoundingBox `json:"bounds"`
}

// TraceResult 矢量化结果
type TraceResult struct {
	MD5       string                     `json:"md5,omitempty"`
	Width     int                        `json:"width"`
	Height    int                        `json:"height"`
	Tile      *TileInfo                  `json:"tile,omitempty"`
	Features  *geojson.FeatureCollection `json:"features"`
	Timestamp int64                      `json:"timestamp"`
}

// SegmentStat 交互分割得到的一个屋顶面
type SegmentStat struct {
	BoundingPolygon []geo.LatLng `json:"boundingPolygon"`
	AreaPixels      float64      `json:"area_pixels"`
	AreaSqft        float64      `json:"area_sqft"`
}

// SegmentResponse 与前端地图约定的格式
type SegmentResponse struct {
	RoofSegmentStats []SegmentStat `json:"roofSegmentStats"`
	Tile             TileInfo      `json:"tile"`
}

// EstimateRequest 直接提交 Solar 屋顶面数据
type EstimateRequest struct {
	Segments        []estimate.SegmentRecord `json:"segments"`
	WholeRoofAreaM2 float64                  `json:"whole_roof_area_m2" validate:"gte=0"`
}

// EstimateResponse 材料估算
type EstimateResponse struct {
	Status      string                    `json:"status"`
	Metrics     estimate.MaterialEstimate `json:"metrics"`
	Segments    []estimate.Segment        `json:"segments"`
	BoundingBox *estimate.BoundingBox     `json:"bounding_box,omitempty"`
	Center      *estimate.LatLng          `json:"center,omitempty"`
	Note        string                    `json:"note"`
}

// LayersResponse Solar 数据图层地址
type LayersResponse struct {
	Status         string `json:"status"`
	ImageryQuality string `json:"imagery_quality,omitempty"`
	AnnualFluxURL  string `json:"annual_flux_url"`
	MaskURL        string `json:"mask_url"`
	DSMURL         string `json:"dsm_url"`
	RGBURL         string `json:"rgb_url"`
}

// FootprintResponse OSM 建筑轮廓与平面估算
type FootprintResponse struct {
	Status   string                     `json:"status"`
	WayID    int64                      `json:"way_id"`
	Features *geojson.FeatureCollection `json:"features"`
	Metrics  estimate.MaterialEstimate  `json:"metrics"`
	Note     string                     `json:"note"`
}

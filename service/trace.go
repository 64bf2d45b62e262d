package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/feature"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

// TraceService 将调用方提交的掩码转换为 GeoJSON
type TraceService struct {
	epsilon   float64
	noiseArea float64
}

func NewTraceService(cfg *config.VectorizeConfig) *TraceService {
	return &TraceService{
		epsilon:   cfg.Epsilon,
		noiseArea: cfg.NoiseArea,
	}
}

// Trace 矢量化掩码；请求带瓦片上下文时输出经纬度坐标
func (s *TraceService) Trace(req *model.MaskRequest) (*model.TraceResult, error) {
	mask, err := maskFromRows(req.Mask)
	if err != nil {
		return nil, model.Wrap(http.StatusBadRequest, "掩码格式错误", err)
	}

	var prob *vectorize.ProbabilityMap
	if len(req.Probability) > 0 {
		prob, err = vectorize.ProbabilityMapFromRows(req.Probability)
		if err == nil {
			err = vectorize.CheckDimensions(mask, prob)
		}
		if err != nil {
			return nil, model.Wrap(http.StatusBadRequest, "概率图与掩码尺寸不一致", err)
		}
	}

	tile, err := tileContext(req)
	if err != nil {
		return nil, model.Wrap(http.StatusBadRequest, "瓦片范围无效", err)
	}

	epsilon := s.epsilon
	if req.Epsilon != nil {
		epsilon = *req.Epsilon
	}

	polygons := vectorize.VectorizeWithThreshold(mask, epsilon, s.noiseArea)
	items := feature.ItemsFromPolygons(polygons, prob)

	if tile != nil {
		for i := range items {
			items[i].Geo, err = geo.Project(items[i].Points, tile.Bounds, mask.Width, mask.Height)
			if err != nil {
				return nil, model.Wrap(http.StatusBadRequest, "坐标转换失败", err)
			}
		}
	}

	return &model.TraceResult{
		Width:     mask.Width,
		Height:    mask.Height,
		Tile:      tile,
		Features:  feature.Encode(items, req.ClassID),
		Timestamp: time.Now().Unix(),
	}, nil
}

// maskFromRows 非零值视为前景
func maskFromRows(rows [][]int) (*vectorize.Mask, error) {
	if len(rows) == 0 {
		return vectorize.NewMask(0, 0), nil
	}
	width := len(rows[0])
	m := vectorize.NewMask(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", vectorize.ErrDimensionMismatch, y, len(row), width)
		}
		for x, v := range row {
			if v != 0 {
				m.Pix[y*width+x] = 1
			}
		}
	}
	return m, nil
}

// tileContext 显式 bounding_box 优先，其次 lat/lng/zoom
func tileContext(req *model.MaskRequest) (*model.TileInfo, error) {
	if req.BoundingBox != nil {
		if err := req.BoundingBox.Validate(); err != nil {
			return nil, err
		}
		return &model.TileInfo{Bounds: *req.BoundingBox}, nil
	}
	if req.Lat == nil || req.Lng == nil || req.Zoom == nil {
		return nil, nil
	}

	x, y := geo.LatLngToTile(*req.Lat, *req.Lng, *req.Zoom)
	bounds := geo.TileBounds(x, y, *req.Zoom)
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &model.TileInfo{X: x, Y: y, Zoom: *req.Zoom, Bounds: bounds}, nil
}

package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/client"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/estimate"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/imagery"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/segment"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

// TileFetcher 按坐标获取瓦片
type TileFetcher interface {
	Fetch(ctx context.Context, lat, lng float64, zoom int) (*client.Tile, error)
	DefaultZoom() int
}

// InteractiveService 点击地图后对所在瓦片做泛洪分割
type InteractiveService struct {
	tiles     TileFetcher
	segmenter *segment.Segmenter
	cache     Cache
}

func NewInteractiveService(tiles TileFetcher, segmenter *segment.Segmenter, cache Cache) *InteractiveService {
	return &InteractiveService{
		tiles:     tiles,
		segmenter: segmenter,
		cache:     cache,
	}
}

// Segment zoom <= 0 时使用默认缩放级别；没有找到区域时 RoofSegmentStats 为空
func (s *InteractiveService) Segment(ctx context.Context, lat, lng float64, zoom int) (*model.SegmentResponse, bool, error) {
	if zoom <= 0 {
		zoom = s.tiles.DefaultZoom()
	}

	key := segmentKeyPrefix + utils.CoordKey(lat, lng, 6, zoom)
	return cached(ctx, s.cache, key, func() (*model.SegmentResponse, error) {
		return s.segment(ctx, lat, lng, zoom)
	})
}

func (s *InteractiveService) segment(ctx context.Context, lat, lng float64, zoom int) (*model.SegmentResponse, error) {
	tile, err := s.tiles.Fetch(ctx, lat, lng, zoom)
	if err != nil {
		return nil, err
	}

	img, _, err := imagery.Decode(tile.Data)
	if err != nil {
		return nil, model.Wrap(http.StatusBadGateway, "瓦片图像无法解码", fmt.Errorf("%w: %v", client.ErrTileFetch, err))
	}

	resp := &model.SegmentResponse{
		RoofSegmentStats: []model.SegmentStat{},
		Tile:             model.TileInfo{X: tile.X, Y: tile.Y, Zoom: tile.Zoom, Bounds: tile.Bounds},
	}

	region, ok := s.segmenter.Region(img)
	if !ok || len(region.Points) < 3 {
		utils.Logger.Info("no region found around seed",
			zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Int("zoom", zoom))
		return resp, nil
	}

	b := img.Bounds()
	polygon, err := geo.Project(region.Points, tile.Bounds, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	resp.RoofSegmentStats = append(resp.RoofSegmentStats, model.SegmentStat{
		BoundingPolygon: polygon,
		AreaPixels:      region.AreaPixels,
		AreaSqft:        estimate.Round(estimate.SquareMetersToSqft(polygon.AreaSquareMeters()), 2),
	})

	utils.Logger.Info("interactive segment found",
		zap.Int("tile_x", tile.X),
		zap.Int("tile_y", tile.Y),
		zap.Int("vertices", len(region.Points)),
		zap.Float64("area_pixels", region.AreaPixels))

	return resp, nil
}

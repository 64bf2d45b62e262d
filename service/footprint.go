package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/client"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/estimate"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/feature"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

const footprintNote = "Area is the 2D building outline from OpenStreetMap. A fixed 20% factor covers slope and overlap."

// FootprintFinder 查询坐标处的建筑轮廓
type FootprintFinder interface {
	BuildingAt(ctx context.Context, lat, lng float64) (*client.Footprint, error)
}

// FootprintService Solar 无数据时的平面轮廓估算
type FootprintService struct {
	finder FootprintFinder
}

func NewFootprintService(finder FootprintFinder) *FootprintService {
	return &FootprintService{finder: finder}
}

func (s *FootprintService) Footprint(ctx context.Context, lat, lng float64) (*model.FootprintResponse, error) {
	fp, err := s.finder.BuildingAt(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	areaSqft := estimate.SquareMetersToSqft(fp.Polygon.AreaSquareMeters())
	est := estimate.ManualEstimate(areaSqft).Rounded()

	utils.Logger.Info("building footprint found",
		zap.Int64("way_id", fp.WayID),
		zap.Int("vertices", len(fp.Polygon)),
		zap.Float64("area_sqft", est.SurfaceAreaSqft))

	return &model.FootprintResponse{
		Status:   est.Status,
		WayID:    fp.WayID,
		Features: feature.EncodeGeo([]geo.Polygon{fp.Polygon}, feature.RoofClassID),
		Metrics:  est,
		Note:     footprintNote,
	}, nil
}

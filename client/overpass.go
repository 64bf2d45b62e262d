package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/serjvanilla/go-overpass"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
)

var ErrNoFootprint = errors.New("no building footprint found")

// Footprint OSM 建筑轮廓
type Footprint struct {
	WayID   int64
	Polygon geo.Polygon
	Tags    map[string]string
}

// OverpassClient 通过 Overpass 查询 OSM 建筑轮廓
type OverpassClient struct {
	client  overpass.Client
	radius  float64
	timeout time.Duration
}

func NewOverpassClient(cfg *config.OverpassConfig) *OverpassClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	parallel := cfg.MaxParallel
	if parallel <= 0 {
		parallel = 2
	}
	httpClient := &http.Client{
		Timeout: timeout,
	}
	return &OverpassClient{
		client:  overpass.NewWithSettings(cfg.Endpoint, parallel, httpClient),
		radius:  cfg.Radius,
		timeout: timeout,
	}
}

// BuildingAt 返回包含坐标的建筑轮廓；没有包含关系时取质心最近的一个
func (c *OverpassClient) BuildingAt(ctx context.Context, lat, lng float64) (*Footprint, error) {
	query := fmt.Sprintf(`
		[out:json][timeout:%d];
		way["building"](around:%f,%f,%f);
		out body;
		>;
		out skel qt;
	`, int(c.timeout.Seconds()), c.radius, lat, lng)

	result, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	footprints := buildingFootprints(result)
	if len(footprints) == 0 {
		return nil, ErrNoFootprint
	}

	return pickFootprint(footprints, orb.Point{lng, lat}), nil
}

// query go-overpass 不接受 context，超时由 http.Client 控制
func (c *OverpassClient) query(ctx context.Context, query string) (*overpass.Result, error) {
	type reply struct {
		result overpass.Result
		err    error
	}
	done := make(chan reply, 1)
	go func() {
		result, err := c.client.Query(query)
		done <- reply{result, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("overpass query cancelled: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", r.err)
		}
		return &r.result, nil
	}
}

// buildingFootprints 只保留闭合且至少三个顶点的 way，按 ID 排序
func buildingFootprints(result *overpass.Result) []Footprint {
	ids := make([]int64, 0, len(result.Ways))
	for id := range result.Ways {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []Footprint
	for _, id := range ids {
		way := result.Ways[id]
		if len(way.Nodes) < 4 {
			continue
		}

		ring := make(orb.Ring, 0, len(way.Nodes))
		for _, node := range way.Nodes {
			if node == nil {
				continue
			}
			ring = append(ring, orb.Point{node.Lon, node.Lat})
		}
		if len(ring) < 4 || !ring.Closed() {
			continue
		}

		out = append(out, Footprint{
			WayID:   id,
			Polygon: geo.PolygonFromRing(ring),
			Tags:    way.Tags,
		})
	}
	return out
}

func pickFootprint(footprints []Footprint, at orb.Point) *Footprint {
	for i := range footprints {
		if planar.PolygonContains(orb.Polygon{footprints[i].Polygon.Ring()}, at) {
			return &footprints[i]
		}
	}

	best := 0
	bestDist := -1.0
	for i := range footprints {
		centroid, _ := planar.CentroidArea(orb.Polygon{footprints[i].Polygon.Ring()})
		d := orbgeo.Distance(centroid, at)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return &footprints[best]
}

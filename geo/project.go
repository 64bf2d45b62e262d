package geo

import (
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// LatLng 地理坐标
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Polygon 闭合的地理多边形，最后一个点与第一个点相同
type Polygon []LatLng

// Project 将瓦片像素坐标多边形线性映射到经纬度
//
// 这是单瓦片内的线性（等距矩形）近似，不是 Mercator 反投影。
// 高缩放级别下单个瓦片只有几百米，误差可以接受；跨度更大的区域不应使用。
func Project(polygon []image.Point, bbox BoundingBox, width, height int) (Polygon, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImageSize, width, height)
	}
	if len(polygon) == 0 {
		return Polygon{}, nil
	}

	lngSpan := bbox.East - bbox.West
	latSpan := bbox.North - bbox.South

	out := make(Polygon, 0, len(polygon)+1)
	for _, p := range polygon {
		out = append(out, LatLng{
			Lat: bbox.North - (float64(p.Y)/float64(height))*latSpan,
			Lng: bbox.West + (float64(p.X)/float64(width))*lngSpan,
		})
	}
	out = append(out, out[0])

	return out, nil
}

// Ring 转换为 orb.Ring，坐标顺序为 [lng, lat]
func (p Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, len(p))
	for i, ll := range p {
		ring[i] = orb.Point{ll.Lng, ll.Lat}
	}
	return ring
}

// PolygonFromRing 从 [lng, lat] 环构造多边形，未闭合时自动闭合
func PolygonFromRing(ring orb.Ring) Polygon {
	out := make(Polygon, 0, len(ring)+1)
	for _, pt := range ring {
		out = append(out, LatLng{Lat: pt.Lat(), Lng: pt.Lon()})
	}
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

// AreaSquareMeters 球面面积（平方米）
func (p Polygon) AreaSquareMeters() float64 {
	if len(p) < 4 {
		return 0
	}
	return math.Abs(orbgeo.Area(orb.Polygon{p.Ring()}))
}

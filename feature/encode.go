// Package feature 将多边形编码为 GeoJSON
package feature

import (
	"image"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

// RoofClassID 屋顶类别
const RoofClassID = 1

// Item 一个待编码的多边形，Geo 非空时优先使用地理坐标
type Item struct {
	Points     []image.Point
	Geo        geo.Polygon
	Confidence float64
	AreaPixels float64
}

// ItemsFromPolygons 由矢量化结果构造编码条目，prob 为空时置信度为 1.0
func ItemsFromPolygons(polygons []vectorize.Polygon, prob *vectorize.ProbabilityMap) []Item {
	items := make([]Item, 0, len(polygons))
	for _, p := range polygons {
		items = append(items, Item{
			Points:     p.Points,
			Confidence: vectorize.MeanConfidence(prob, p.Footprint),
			AreaPixels: p.AreaPixels,
		})
	}
	return items
}

// Encode 每个条目生成一个 Polygon Feature，环首尾闭合
func Encode(items []Item, classID int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, item := range items {
		var ring orb.Ring
		if len(item.Geo) > 0 {
			ring = closeRing(item.Geo.Ring())
		} else {
			ring = pixelRing(item.Points)
		}

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["class_id"] = classID
		f.Properties["confidence"] = item.Confidence
		f.Properties["area_pixels"] = item.AreaPixels
		fc.Append(f)
	}
	return fc
}

// EncodeGeo 编码地理多边形，坐标为 [lng, lat]
func EncodeGeo(polygons []geo.Polygon, classID int) *geojson.FeatureCollection {
	items := make([]Item, 0, len(polygons))
	for _, p := range polygons {
		items = append(items, Item{Geo: p, Confidence: 1.0})
	}
	return Encode(items, classID)
}

func pixelRing(points []image.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{float64(p.X), float64(p.Y)})
	}
	return closeRing(ring)
}

func closeRing(ring orb.Ring) orb.Ring {
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

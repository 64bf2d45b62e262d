package vectorize

import (
	"image"
)

// NoiseAreaThreshold 面积小于该值（平方像素）的轮廓视为噪声
const NoiseAreaThreshold = 100.0

// DefaultEpsilon 默认简化容差（像素）
const DefaultEpsilon = 2.0

// Polygon 掩码中的一个屋顶区域
type Polygon struct {
	Points     []image.Point // 简化后的顶点，隐式闭合
	AreaPixels float64       // 简化前轮廓的鞋带面积
	Footprint  []int         // 区域像素下标，用于计算置信度
}

// Vectorize 提取外轮廓、过滤噪声并简化
func Vectorize(mask *Mask, epsilon float64) []Polygon {
	return VectorizeWithThreshold(mask, epsilon, NoiseAreaThreshold)
}

// VectorizeWithThreshold 同 Vectorize，噪声阈值可配置
func VectorizeWithThreshold(mask *Mask, epsilon, minArea float64) []Polygon {
	if mask.Empty() {
		return []Polygon{}
	}

	contours := TraceExternal(mask)
	polygons := make([]Polygon, 0, len(contours))

	for _, c := range contours {
		area := ShoelaceArea(c.Points)
		if area < minArea {
			continue
		}

		points := SimplifyRing(c.Points, epsilon)
		if len(points) < 3 {
			continue
		}

		polygons = append(polygons, Polygon{
			Points:     points,
			AreaPixels: area,
			Footprint:  c.Footprint,
		})
	}

	return polygons
}

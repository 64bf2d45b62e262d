package vectorize

import (
	"image"

	"gocv.io/x/gocv"
)

// ShoelaceArea 多边形面积（鞋带公式），少于 3 个点返回 0
func ShoelaceArea(points []image.Point) float64 {
	if len(points) < 3 {
		return 0
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()
	return gocv.ContourArea(pv)
}

// Perimeter 折线长度，closed 为 true 时包含最后一点回到起点的边
func Perimeter(points []image.Point, closed bool) float64 {
	if len(points) < 2 {
		return 0
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()
	return gocv.ArcLength(pv, closed)
}

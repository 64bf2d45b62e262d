package vectorize

import (
	"image"

	"gocv.io/x/gocv"
)

// Simplify Ramer-Douglas-Peucker 折线简化
//
// 保留首尾两点，以及到弦的垂直距离大于 epsilon 的顶点。输出保持输入顺序。
func Simplify(points []image.Point, epsilon float64) []image.Point {
	return approxPoly(points, epsilon, false)
}

// SimplifyRing 同 Simplify，按闭合轮廓处理，首尾不再固定
func SimplifyRing(points []image.Point, epsilon float64) []image.Point {
	return approxPoly(points, epsilon, true)
}

func approxPoly(points []image.Point, epsilon float64, closed bool) []image.Point {
	if len(points) < 3 || epsilon < 0 {
		out := make([]image.Point, len(points))
		copy(out, points)
		return out
	}

	curve := gocv.NewPointVectorFromPoints(points)
	defer curve.Close()

	approx := gocv.ApproxPolyDP(curve, epsilon, closed)
	defer approx.Close()

	return approx.ToPoints()
}

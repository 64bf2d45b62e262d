package vectorize

import (
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// Contour 一个连通前景区域的外边界
type Contour struct {
	Points    []image.Point // 链压缩后的边界点，隐式闭合
	Footprint []int         // 区域内所有像素的下标 (y*width + x)
}

// TraceExternal 提取所有 8 连通前景区域的外轮廓
//
// 只返回外轮廓：孔洞被忽略，位于其他区域孔洞内部的区域也会被丢弃，
// 结果中不存在嵌套多边形。输出按区域起点的光栅顺序排列。
func TraceExternal(m *Mask) []Contour {
	if m.Empty() {
		return nil
	}

	src, err := m.ToMat()
	if err != nil {
		return nil
	}
	defer src.Close()

	labels, footprints, err := components(&src)
	if err != nil || len(footprints) < 2 {
		return nil
	}

	found := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		points := found.At(i).ToPoints()
		if len(points) == 0 {
			continue
		}
		label := labels[points[0].Y*m.Width+points[0].X]
		if label <= 0 || int(label) >= len(footprints) {
			continue
		}
		contours = append(contours, Contour{Points: points, Footprint: footprints[label]})
	}

	sort.Slice(contours, func(i, j int) bool {
		return contours[i].Footprint[0] < contours[j].Footprint[0]
	})
	return contours
}

// components 8 连通标记，返回逐像素标签和每个标签的像素下标（光栅顺序），标签 0 为背景
func components(src *gocv.Mat) ([]int32, [][]int, error) {
	labelMat := gocv.NewMat()
	defer labelMat.Close()

	n := gocv.ConnectedComponents(*src, &labelMat)
	raw, err := labelMat.DataPtrInt32()
	if err != nil {
		return nil, nil, err
	}
	labels := make([]int32, len(raw))
	copy(labels, raw)

	footprints := make([][]int, n)
	for idx, label := range labels {
		if label > 0 && int(label) < n {
			footprints[label] = append(footprints[label], idx)
		}
	}
	return labels, footprints, nil
}

// KeepLargest 返回面积最大的轮廓
func KeepLargest(contours []Contour) (Contour, bool) {
	if len(contours) == 0 {
		return Contour{}, false
	}

	maxArea := 0.0
	maxIndex := 0
	for i := range contours {
		area := ShoelaceArea(contours[i].Points)
		if area > maxArea {
			maxArea = area
			maxIndex = i
		}
	}

	return contours[maxIndex], true
}

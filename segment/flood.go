// Package segment 基于种子点的交互式屋顶区域分割
package segment

import (
	"image"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

// Config 泛洪分割参数
type Config struct {
	Kernel       int     // 高斯核大小，奇数
	Tolerance    int     // 每通道容差
	EpsilonRatio float64 // 简化容差 = 比例 * 周长
	Connectivity int     // 4 或 8
}

// DefaultConfig 默认参数
func DefaultConfig() Config {
	return Config{
		Kernel:       5,
		Tolerance:    15,
		EpsilonRatio: 0.02,
		Connectivity: 4,
	}
}

// Segmenter 以图像中心为种子的泛洪分割器
type Segmenter struct {
	cfg Config
}

// New 创建分割器，非法参数回退为默认值
func New(cfg Config) *Segmenter {
	def := DefaultConfig()
	if cfg.Kernel <= 0 {
		cfg.Kernel = def.Kernel
	}
	if cfg.Kernel%2 == 0 {
		cfg.Kernel++
	}
	if cfg.Tolerance < 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.EpsilonRatio <= 0 {
		cfg.EpsilonRatio = def.EpsilonRatio
	}
	if cfg.Connectivity != 4 && cfg.Connectivity != 8 {
		cfg.Connectivity = def.Connectivity
	}
	return &Segmenter{cfg: cfg}
}

// Config 当前参数
func (s *Segmenter) Config() Config {
	return s.cfg
}

// Segment 返回包含图像中心的区域的简化多边形，没有结果时返回空切片
func (s *Segmenter) Segment(img image.Image) []image.Point {
	poly, ok := s.Region(img)
	if !ok || len(poly.Points) < 3 {
		return []image.Point{}
	}
	return poly.Points
}

// Region 同 Segment，同时返回简化前的面积和像素集合
func (s *Segmenter) Region(img image.Image) (vectorize.Polygon, bool) {
	if img == nil || img.Bounds().Empty() {
		return vectorize.Polygon{}, false
	}

	blurred, err := blur(img, s.cfg.Kernel)
	if err != nil || blurred.width == 0 || blurred.height == 0 {
		return vectorize.Polygon{}, false
	}
	mask := s.floodFill(blurred, blurred.width/2, blurred.height/2)

	best, ok := vectorize.KeepLargest(vectorize.TraceExternal(mask))
	if !ok {
		return vectorize.Polygon{}, false
	}

	epsilon := s.cfg.EpsilonRatio * vectorize.Perimeter(best.Points, true)
	return vectorize.Polygon{
		Points:     vectorize.SimplifyRing(best.Points, epsilon),
		AreaPixels: vectorize.ShoelaceArea(best.Points),
		Footprint:  best.Footprint,
	}, true
}

// floodFill 固定范围泛洪：与种子颜色比较，而不是与相邻像素比较
func (s *Segmenter) floodFill(img *rgbImage, sx, sy int) *vectorize.Mask {
	mask := vectorize.NewMask(img.width, img.height)

	seed := img.pix[(sy*img.width+sx)*3 : (sy*img.width+sx)*3+3]
	tol := s.cfg.Tolerance
	within := func(idx int) bool {
		for c := 0; c < 3; c++ {
			d := int(img.pix[idx*3+c]) - int(seed[c])
			if d < -tol || d > tol {
				return false
			}
		}
		return true
	}

	neighbours := []image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	if s.cfg.Connectivity == 8 {
		neighbours = append(neighbours, image.Point{X: 1, Y: 1}, image.Point{X: 1, Y: -1},
			image.Point{X: -1, Y: 1}, image.Point{X: -1, Y: -1})
	}

	start := sy*img.width + sx
	mask.Pix[start] = 1
	stack := []int{start}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%img.width, idx/img.width
		for _, d := range neighbours {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= img.width || ny >= img.height {
				continue
			}
			nidx := ny*img.width + nx
			if mask.Pix[nidx] != 0 || !within(nidx) {
				continue
			}
			mask.Pix[nidx] = 1
			stack = append(stack, nidx)
		}
	}

	return mask
}

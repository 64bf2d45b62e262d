// Package inference 屋顶分割模型推理：预处理、ONNX 运行和后处理
package inference

import (
	"image"
	"math"

	"github.com/nfnt/resize"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

// Model 输出与输入图像同尺寸的前景概率图
type Model interface {
	Predict(img image.Image) (*vectorize.ProbabilityMap, error)
	Close()
}

// Preprocess 缩放到 size x size，转为 CHW 顺序的 RGB float32，范围 [0,1]
func Preprocess(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	b := resized.Bounds()

	plane := size * size
	data := make([]float32, 3*plane)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, _ := resized.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*size + x
			data[i] = float32(r>>8) / 255.0
			data[plane+i] = float32(g>>8) / 255.0
			data[2*plane+i] = float32(bl>>8) / 255.0
		}
	}
	return data
}

// Postprocess 对 logits 取 sigmoid，再用最近邻缩放回原图尺寸
func Postprocess(logits []float32, size, width, height int) *vectorize.ProbabilityMap {
	prob := make([]float32, size*size)
	for i := range prob {
		if i < len(logits) {
			prob[i] = Sigmoid(logits[i])
		}
	}

	out := vectorize.NewProbabilityMap(width, height)
	for y := 0; y < height; y++ {
		sy := nearest(y, height, size)
		for x := 0; x < width; x++ {
			sx := nearest(x, width, size)
			out.Prob[y*width+x] = prob[sy*size+sx]
		}
	}
	return out
}

// Sigmoid 1 / (1 + e^-x)
func Sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

// nearest 目标下标 dst（共 dstN 个）对应的源下标（共 srcN 个）
func nearest(dst, dstN, srcN int) int {
	s := int(math.Floor(float64(dst) * float64(srcN) / float64(dstN)))
	if s >= srcN {
		s = srcN - 1
	}
	return s
}

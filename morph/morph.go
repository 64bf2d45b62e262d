// Package morph 基于 OpenCV 的掩码形态学处理
package morph

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

// MaskProcessor 模型输出掩码的形态学清理
type MaskProcessor struct {
	kernelSize int
}

func NewMaskProcessor(kernelSize int) *MaskProcessor {
	return &MaskProcessor{kernelSize: kernelSize}
}

// Clean 先开运算去掉孤立噪点，再闭运算填补细小缝隙；kernelSize < 2 时原样返回
func (mp *MaskProcessor) Clean(mask *vectorize.Mask) *vectorize.Mask {
	if mask.Empty() || mp.kernelSize < 2 {
		return mask
	}

	src, err := mask.ToMat()
	if err != nil {
		return mask
	}
	defer src.Close()

	optimized := mp.MorphologyOptimize(&src, mp.kernelSize)
	defer optimized.Close()

	return vectorize.MaskFromMat(&optimized)
}

// MorphologyOptimize 开运算 + 闭运算
func (mp *MaskProcessor) MorphologyOptimize(mask *gocv.Mat, kernelSize int) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: kernelSize, Y: kernelSize})
	defer kernel.Close()

	opened := gocv.NewMat()
	gocv.MorphologyEx(*mask, &opened, gocv.MorphOpen, kernel)

	closed := gocv.NewMat()
	gocv.MorphologyEx(opened, &closed, gocv.MorphClose, kernel)
	opened.Close()

	return closed
}

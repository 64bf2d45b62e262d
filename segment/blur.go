package segment

import (
	"image"

	"gocv.io/x/gocv"
)

// rgbImage 紧凑的三通道像素缓冲，通道顺序与 Mat 一致 (B, G, R)
type rgbImage struct {
	width  int
	height int
	pix    []uint8
}

// blur 高斯模糊，sigma 由核大小推导，边界按 reflect101 处理
func blur(img image.Image, ksize int) (*rgbImage, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	if ksize > 1 {
		gocv.GaussianBlur(src, &dst, image.Point{X: ksize, Y: ksize}, 0, 0, gocv.BorderReflect101)
	} else {
		src.CopyTo(&dst)
	}

	return &rgbImage{
		width:  dst.Cols(),
		height: dst.Rows(),
		pix:    dst.ToBytes(),
	}, nil
}

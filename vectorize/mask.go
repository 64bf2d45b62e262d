// Package vectorize 将二值掩码转换为简化后的多边形
package vectorize

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var ErrDimensionMismatch = errors.New("mask dimension mismatch")

// DefaultThreshold 概率图二值化阈值，严格大于
const DefaultThreshold = 0.5

// Mask 行优先存储的二值掩码，非零即前景
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask 创建空掩码
func NewMask(width, height int) *Mask {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// MaskFromRows 从二维数组构造掩码，行长度不一致时返回错误
func MaskFromRows(rows [][]uint8) (*Mask, error) {
	if len(rows) == 0 {
		return NewMask(0, 0), nil
	}
	width := len(rows[0])
	m := NewMask(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, y, len(row), width)
		}
		copy(m.Pix[y*width:], row)
	}
	return m, nil
}

// Empty 掩码没有任何像素
func (m *Mask) Empty() bool {
	return m == nil || m.Width == 0 || m.Height == 0 || len(m.Pix) < m.Width*m.Height
}

// At 越界返回 false
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set 设置像素
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if on {
		m.Pix[y*m.Width+x] = 1
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// Count 前景像素数
func (m *Mask) Count() int {
	if m.Empty() {
		return 0
	}
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// ToMat 转为前景 255、背景 0 的单通道 Mat，调用方负责 Close
func (m *Mask) ToMat() (gocv.Mat, error) {
	data := make([]byte, m.Width*m.Height)
	for i, v := range m.Pix[:len(data)] {
		if v != 0 {
			data[i] = 255
		}
	}
	return gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8U, data)
}

// MaskFromMat 单通道 Mat 中大于 127 的像素为前景
func MaskFromMat(mat *gocv.Mat) *Mask {
	out := NewMask(mat.Cols(), mat.Rows())
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			if mat.GetUCharAt(y, x) > 127 {
				out.Pix[y*out.Width+x] = 1
			}
		}
	}
	return out
}

// ProbabilityMap 与掩码同尺寸的前景概率 [0,1]
type ProbabilityMap struct {
	Width  int
	Height int
	Prob   []float32
}

// NewProbabilityMap 创建概率图
func NewProbabilityMap(width, height int) *ProbabilityMap {
	return &ProbabilityMap{
		Width:  width,
		Height: height,
		Prob:   make([]float32, width*height),
	}
}

// ProbabilityMapFromRows 从二维数组构造概率图
func ProbabilityMapFromRows(rows [][]float32) (*ProbabilityMap, error) {
	if len(rows) == 0 {
		return NewProbabilityMap(0, 0), nil
	}
	width := len(rows[0])
	p := NewProbabilityMap(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, y, len(row), width)
		}
		copy(p.Prob[y*width:], row)
	}
	return p, nil
}

// Threshold 概率 > threshold 的像素置为前景
func Threshold(p *ProbabilityMap, threshold float32) *Mask {
	m := NewMask(p.Width, p.Height)
	for i, v := range p.Prob {
		if v > threshold {
			m.Pix[i] = 1
		}
	}
	return m
}

// CheckDimensions 校验掩码与概率图尺寸一致
func CheckDimensions(m *Mask, p *ProbabilityMap) error {
	if p == nil {
		return nil
	}
	if m.Width != p.Width || m.Height != p.Height {
		return fmt.Errorf("%w: mask %dx%d, probability %dx%d",
			ErrDimensionMismatch, m.Width, m.Height, p.Width, p.Height)
	}
	return nil
}

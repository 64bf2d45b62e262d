package geo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoundingBox = errors.New("invalid bounding box")
	ErrInvalidImageSize   = errors.New("invalid image size")
)

// BoundingBox 瓦片地理边界（度）
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Validate 检查 north > south 且 east > west，不处理跨越 ±180° 的情况
func (b BoundingBox) Validate() error {
	if b.North <= b.South {
		return fmt.Errorf("%w: north %.8f <= south %.8f", ErrInvalidBoundingBox, b.North, b.South)
	}
	if b.East <= b.West {
		return fmt.Errorf("%w: east %.8f <= west %.8f", ErrInvalidBoundingBox, b.East, b.West)
	}
	return nil
}

// Contains 判断点是否在边界框内
func (b BoundingBox) Contains(p LatLng) bool {
	return p.Lat <= b.North && p.Lat >= b.South &&
		p.Lng <= b.East && p.Lng >= b.West
}

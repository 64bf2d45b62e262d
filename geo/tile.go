package geo

import (
	"math"
)

// MaxLatitude Web Mercator 可表示的最大纬度
const MaxLatitude = 85.05112878

// LatLngToTile 将经纬度转换为 slippy-map 瓦片索引
//
// 仅在 |lat| < MaxLatitude 时有意义。超出范围时不做截断，直接返回公式结果：
// y 可能为负数或 >= 2^zoom，在 ±90° 时 tan 发散，结果为极值。
func LatLngToTile(lat, lng float64, zoom int) (x, y int) {
	n := math.Exp2(float64(zoom))
	latRad := lat * math.Pi / 180

	x = int(math.Floor((lng + 180) / 360 * n))
	y = int(math.Floor((1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n))
	return x, y
}

// TileToLatLng 返回瓦片 (x, y) 西北角的经纬度
func TileToLatLng(x, y, zoom int) (lat, lng float64) {
	n := math.Exp2(float64(zoom))

	lng = float64(x)/n*360 - 180
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y)/n)))
	lat = latRad * 180 / math.Pi
	return lat, lng
}

// TileBounds 计算瓦片的地理边界框
func TileBounds(x, y, zoom int) BoundingBox {
	north, west := TileToLatLng(x, y, zoom)
	south, east := TileToLatLng(x+1, y+1, zoom)

	return BoundingBox{
		North: north,
		South: south,
		East:  east,
		West:  west,
	}
}

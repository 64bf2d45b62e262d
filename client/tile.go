// Package client 访问外部服务：地图瓦片、Google Solar API 和 Overpass
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
)

var ErrTileFetch = errors.New("tile fetch failed")

// maxTileBytes 单个瓦片最大字节数
const maxTileBytes = 8 << 20

// Tile 一张卫星瓦片及其地理范围
type Tile struct {
	X           int
	Y           int
	Zoom        int
	Data        []byte
	ContentType string
	Bounds      geo.BoundingBox
}

// TileClient 按 {z}/{x}/{y} 模板下载瓦片，只尝试一次
type TileClient struct {
	httpClient  *http.Client
	urlTemplate string
	userAgent   string
	zoom        int
}

func NewTileClient(cfg *config.TilesConfig) *TileClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TileClient{
		httpClient:  &http.Client{Timeout: timeout},
		urlTemplate: cfg.URLTemplate,
		userAgent:   cfg.UserAgent,
		zoom:        cfg.Zoom,
	}
}

// DefaultZoom 未指定缩放级别时使用的级别
func (c *TileClient) DefaultZoom() int {
	return c.zoom
}

// URL 替换模板中的 {z} {x} {y}
func (c *TileClient) URL(x, y, zoom int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(c.urlTemplate)
}

// Fetch 下载包含 (lat, lng) 的瓦片
func (c *TileClient) Fetch(ctx context.Context, lat, lng float64, zoom int) (*Tile, error) {
	x, y := geo.LatLngToTile(lat, lng, zoom)
	url := c.URL(x, y, zoom)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTileFetch, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for tile %d/%d/%d", ErrTileFetch, resp.StatusCode, zoom, x, y)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTileBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTileFetch, err)
	}

	return &Tile{
		X:           x,
		Y:           y,
		Zoom:        zoom,
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Bounds:      geo.TileBounds(x, y, zoom),
	}, nil
}

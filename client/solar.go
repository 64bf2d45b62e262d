package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/estimate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrBuildingNotFound   = errors.New("building not found at this location")
	ErrQuotaExceeded      = errors.New("api key invalid or quota exceeded")
	ErrSolarNotConfigured = errors.New("solar api key not configured")
)

// WholeRoofStats 整屋顶统计，面积为含坡度的三维表面积
type WholeRoofStats struct {
	AreaMeters2       float64 `json:"areaMeters2"`
	GroundAreaMeters2 float64 `json:"groundAreaMeters2"`
}

// SolarPotential buildingInsights.solarPotential 中用到的部分
type SolarPotential struct {
	WholeRoofStats   WholeRoofStats           `json:"wholeRoofStats"`
	RoofSegmentStats []estimate.SegmentRecord `json:"roofSegmentStats"`
}

// BuildingInsights buildingInsights:findClosest 响应
type BuildingInsights struct {
	Name           string               `json:"name"`
	Center         estimate.LatLng      `json:"center"`
	BoundingBox    estimate.BoundingBox `json:"boundingBox"`
	ImageryQuality string               `json:"imageryQuality"`
	SolarPotential *SolarPotential      `json:"solarPotential"`
}

// DataLayers dataLayers:get 响应中的图层地址
type DataLayers struct {
	ImageryQuality string `json:"imageryQuality"`
	DSMURL         string `json:"dsmUrl"`
	RGBURL         string `json:"rgbUrl"`
	MaskURL        string `json:"maskUrl"`
	AnnualFluxURL  string `json:"annualFluxUrl"`
}

// SolarClient Google Solar API 客户端
type SolarClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	quality    string
}

func NewSolarClient(cfg *config.SolarConfig) *SolarClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	quality := cfg.Quality
	if quality == "" {
		quality = "HIGH"
	}
	return &SolarClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		quality:    quality,
	}
}

// FindClosest 查询距离坐标最近的建筑，quality 为空时使用配置值
func (c *SolarClient) FindClosest(ctx context.Context, lat, lng float64, quality string) (*BuildingInsights, error) {
	if quality == "" {
		quality = c.quality
	}
	params := c.locationParams(lat, lng)
	params.Set("requiredQuality", quality)

	var insights BuildingInsights
	if err := c.get(ctx, "/buildingInsights:findClosest", params, &insights); err != nil {
		return nil, err
	}
	return &insights, nil
}

// DataLayers 查询半径 radius 米内的 GeoTIFF 图层地址
func (c *SolarClient) DataLayers(ctx context.Context, lat, lng, radius float64) (*DataLayers, error) {
	params := c.locationParams(lat, lng)
	params.Set("radiusMeters", strconv.FormatFloat(radius, 'f', -1, 64))
	params.Set("view", "FULL_LAYERS")
	params.Set("requiredQuality", c.quality)

	var layers DataLayers
	if err := c.get(ctx, "/dataLayers:get", params, &layers); err != nil {
		return nil, err
	}
	return &layers, nil
}

func (c *SolarClient) locationParams(lat, lng float64) url.Values {
	params := url.Values{}
	params.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("key", c.apiKey)
	return params
}

func (c *SolarClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrSolarNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build solar request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("solar request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrBuildingNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		return ErrQuotaExceeded
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("solar api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode solar response: %w", err)
	}
	return nil
}

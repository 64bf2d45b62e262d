package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/estimate"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

const (
	settingTaxRate     = "tax_rate"
	settingWasteFactor = "waste_factor"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrNoQuoteArea    = errors.New("material_sqft or area_sqft is required")
)

// PricingStore 产品与设置存储
type PricingStore interface {
	ListProducts(ctx context.Context, activeOnly bool) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*model.Product, error)
	ListSettings(ctx context.Context) ([]model.Setting, error)
	UpdateSetting(ctx context.Context, key, value string) (*model.Setting, error)
}

type PricingService struct {
	store PricingStore
}

func NewPricingService(store PricingStore) *PricingService {
	return &PricingService{store: store}
}

// Bundle 前端使用的价格表
func (s *PricingService) Bundle(ctx context.Context) (*model.PricingBundle, error) {
	products, err := s.store.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}

	bundle := &model.PricingBundle{
		Pricing: make(map[string]model.PriceEntry, len(products)),
		Config:  settingValues(settings),
	}
	for _, p := range products {
		bundle.Pricing[p.Slug] = model.PriceEntry{
			Name:        p.Name,
			Price:       p.Price,
			Unit:        p.Unit,
			Description: p.Description,
		}
	}
	return bundle, nil
}

// Quote 按当前价格表计算报价
func (s *PricingService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.Quote, error) {
	bundle, err := s.Bundle(ctx)
	if err != nil {
		return nil, err
	}
	return BuildQuote(bundle, req)
}

// BuildQuote 主产品按面积计价，附加项 sqft 单位按面积、flat 单位按次；税率取 tax_rate
func BuildQuote(bundle *model.PricingBundle, req *model.QuoteRequest) (*model.Quote, error) {
	materialSqft := req.MaterialSqft
	if materialSqft <= 0 {
		if req.AreaSqft <= 0 {
			return nil, model.Wrap(http.StatusBadRequest, "请提供屋顶面积", ErrNoQuoteArea)
		}
		waste, ok := bundle.Config[settingWasteFactor]
		if !ok || waste <= 0 {
			waste = estimate.BaseWaste
		}
		materialSqft = req.AreaSqft * waste
	}

	quote := &model.Quote{
		MaterialSqft: estimate.Round(materialSqft, 2),
		Lines:        make([]model.QuoteLine, 0, len(req.Addons)+1),
		TaxRate:      bundle.Config[settingTaxRate],
	}

	for _, slug := range append([]string{req.Product}, req.Addons...) {
		entry, ok := bundle.Pricing[slug]
		if !ok {
			return nil, model.Wrap(http.StatusBadRequest, fmt.Sprintf("产品不存在: %s", slug), fmt.Errorf("%w: %s", ErrUnknownProduct, slug))
		}

		quantity := 1.0
		if entry.Unit == model.UnitSqft {
			quantity = materialSqft
		}
		amount := estimate.Round(quantity*entry.Price, 2)

		quote.Lines = append(quote.Lines, model.QuoteLine{
			Slug:      slug,
			Name:      entry.Name,
			Unit:      entry.Unit,
			Quantity:  estimate.Round(quantity, 2),
			UnitPrice: entry.Price,
			Amount:    amount,
		})
		quote.Subtotal += amount
	}

	quote.Subtotal = estimate.Round(quote.Subtotal, 2)
	quote.Tax = estimate.Round(quote.Subtotal*quote.TaxRate, 2)
	quote.Total = estimate.Round(quote.Subtotal+quote.Tax, 2)
	return quote, nil
}

func (s *PricingService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.ListProducts(ctx, false)
}

func (s *PricingService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *PricingService) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	p, err := s.store.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	utils.Logger.Info("product created", zap.String("slug", p.Slug), zap.Float64("price", p.Price))
	return p, nil
}

func (s *PricingService) UpdateProduct(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error) {
	return s.store.UpdateProduct(ctx, id, req)
}

func (s *PricingService) DeleteProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	utils.Logger.Info("product deleted", zap.String("slug", p.Slug))
	return p, nil
}

func (s *PricingService) ListSettings(ctx context.Context) ([]model.Setting, error) {
	return s.store.ListSettings(ctx)
}

func (s *PricingService) UpdateSetting(ctx context.Context, key string, value float64) (*model.Setting, error) {
	return s.store.UpdateSetting(ctx, key, strconv.FormatFloat(value, 'f', -1, 64))
}

// settingValues 无法解析为数字的设置被忽略
func settingValues(settings []model.Setting) map[string]float64 {
	out := make(map[string]float64, len(settings))
	for _, st := range settings {
		v, err := strconv.ParseFloat(st.Value, 64)
		if err != nil {
			utils.Logger.Warn("ignoring non-numeric setting", zap.String("key", st.Key), zap.String("value", st.Value))
			continue
		}
		out[st.Key] = v
	}
	return out
}

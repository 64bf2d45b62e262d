package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
)

type fakeStore struct {
	products []model.Product
	settings []model.Setting
	updated  map[string]string
}

func (s *fakeStore) ListProducts(_ context.Context, activeOnly bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range s.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) GetProduct(_ context.Context, id int64) (*model.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, model.NewError(http.StatusNotFound, "not found")
}

func (s *fakeStore) CreateProduct(_ context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	p := model.Product{ID: int64(len(s.products) + 1), Slug: req.Slug, Name: req.Name, Unit: req.Unit, Price: *req.Price, Active: true}
	s.products = append(s.products, p)
	return &p, nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, id int64, _ *model.UpdateProductRequest) (*model.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *fakeStore) DeleteProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *fakeStore) ListSettings(context.Context) ([]model.Setting, error) {
	return s.settings, nil
}

func (s *fakeStore) UpdateSetting(_ context.Context, key, value string) (*model.Setting, error) {
	if s.updated == nil {
		s.updated = make(map[string]string)
	}
	s.updated[key] = value
	return &model.Setting{Key: key, Value: value}, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: []model.Product{
			{ID: 1, Slug: "silicone", Name: "Silicone", Unit: model.UnitSqft, Price: 2.5, Active: true},
			{ID: 2, Slug: "pressure_wash", Name: "Pressure wash", Unit: model.UnitFlat, Price: 150, Active: true},
			{ID: 3, Slug: "gutter", Name: "Gutter", Unit: model.UnitSqft, Price: 0.1, Active: true},
			{ID: 4, Slug: "legacy", Name: "Legacy", Unit: model.UnitSqft, Price: 9, Active: false},
		},
		settings: []model.Setting{
			{Key: "tax_rate", Value: "0.115"},
			{Key: "waste_factor", Value: "1.2"},
			{Key: "label", Value: "not a number"},
		},
	}
}

func TestPricingService_Bundle(t *testing.T) {
	svc := NewPricingService(newFakeStore())

	bundle, err := svc.Bundle(context.Background())
	require.NoError(t, err)
	assert.Len(t, bundle.Pricing, 3)
	assert.NotContains(t, bundle.Pricing, "legacy")
	assert.Equal(t, 2.5, bundle.Pricing["silicone"].Price)
	assert.Equal(t, map[string]float64{"tax_rate": 0.115, "waste_factor": 1.2}, bundle.Config)
}

func TestPricingService_Quote(t *testing.T) {
	svc := NewPricingService(newFakeStore())

	quote, err := svc.Quote(context.Background(), &model.QuoteRequest{
		MaterialSqft: 1000,
		Product:      "silicone",
		Addons:       []string{"pressure_wash", "gutter"},
	})
	require.NoError(t, err)
	require.Len(t, quote.Lines, 3)

	assert.Equal(t, 2500.0, quote.Lines[0].Amount)
	assert.Equal(t, 1.0, quote.Lines[1].Quantity)
	assert.Equal(t, 150.0, quote.Lines[1].Amount)
	assert.Equal(t, 100.0, quote.Lines[2].Amount)
	assert.Equal(t, 2750.0, quote.Subtotal)
	assert.Equal(t, 316.25, quote.Tax)
	assert.Equal(t, 3066.25, quote.Total)
}

func TestBuildQuote_AreaTimesWaste(t *testing.T) {
	bundle := &model.PricingBundle{
		Pricing: map[string]model.PriceEntry{"silicone": {Price: 2, Unit: model.UnitSqft}},
		Config:  map[string]float64{"waste_factor": 1.2},
	}

	quote, err := BuildQuote(bundle, &model.QuoteRequest{AreaSqft: 500, Product: "silicone"})
	require.NoError(t, err)
	assert.Equal(t, 600.0, quote.MaterialSqft)
	assert.Equal(t, 1200.0, quote.Total)

	delete(bundle.Config, "waste_factor")
	quote, err = BuildQuote(bundle, &model.QuoteRequest{AreaSqft: 1000, Product: "silicone"})
	require.NoError(t, err)
	assert.Equal(t, 1150.0, quote.MaterialSqft)
	assert.Zero(t, quote.Tax)
}

func TestBuildQuote_Errors(t *testing.T) {
	bundle := &model.PricingBundle{
		Pricing: map[string]model.PriceEntry{"silicone": {Price: 2, Unit: model.UnitSqft}},
		Config:  map[string]float64{},
	}

	_, err := BuildQuote(bundle, &model.QuoteRequest{Product: "silicone"})
	assert.ErrorIs(t, err, ErrNoQuoteArea)
	assert.Equal(t, http.StatusBadRequest, model.StatusOf(err))

	_, err = BuildQuote(bundle, &model.QuoteRequest{MaterialSqft: 10, Product: "silicone", Addons: []string{"legacy"}})
	assert.ErrorIs(t, err, ErrUnknownProduct)
	assert.Equal(t, http.StatusBadRequest, model.StatusOf(err))
}

func TestPricingService_UpdateSettingFormatsValue(t *testing.T) {
	store := newFakeStore()
	svc := NewPricingService(store)

	s, err := svc.UpdateSetting(context.Background(), "tax_rate", 0.105)
	require.NoError(t, err)
	assert.Equal(t, "0.105", s.Value)
	assert.Equal(t, "0.105", store.updated["tax_rate"])
}

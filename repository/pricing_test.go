package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
)

// 需要 PostgreSQL：ROOF_TEST_DATABASE_DSN=postgres://... go test ./repository
func newTestRepository(t *testing.T) *PricingRepository {
	t.Helper()
	dsn := os.Getenv("ROOF_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("ROOF_TEST_DATABASE_DSN not set")
	}

	db, err := Open(&config.DatabaseConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `DROP TABLE IF EXISTS products, settings`)
	require.NoError(t, err)

	repo := NewPricingRepository(db)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Seed(ctx))
	return repo
}

func TestPricingRepository_Seed(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	products, err := repo.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, products, len(DefaultProducts))

	// 重复执行不会再次写入
	require.NoError(t, repo.Seed(ctx))
	products, err = repo.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, products, len(DefaultProducts))

	settings, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "tax_rate", settings[0].Key)
}

func TestPricingRepository_ProductCRUD(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	price := 2.25
	created, err := repo.CreateProduct(ctx, &model.CreateProductRequest{Slug: "primer", Name: "Primer", Unit: model.UnitSqft, Price: &price})
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = repo.CreateProduct(ctx, &model.CreateProductRequest{Slug: "primer", Name: "Again", Unit: model.UnitSqft, Price: &price})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	active := false
	updated, err := repo.UpdateProduct(ctx, created.ID, &model.UpdateProductRequest{Active: &active})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "Primer", updated.Name)

	activeOnly, err := repo.ListProducts(ctx, true)
	require.NoError(t, err)
	for _, p := range activeOnly {
		assert.NotEqual(t, "primer", p.Slug)
	}

	deleted, err := repo.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = repo.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPricingRepository_UpdateSetting(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	s, err := repo.UpdateSetting(ctx, "tax_rate", "0.1")
	require.NoError(t, err)
	assert.Equal(t, "0.1", s.Value)

	_, err = repo.UpdateSetting(ctx, "missing", "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

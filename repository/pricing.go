// Package repository PostgreSQL 存储
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateSlug = errors.New("product slug already exists")
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	slug        TEXT UNIQUE NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	unit        TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	label      TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DefaultProducts 空库时写入的产品
var DefaultProducts = []model.Product{
	{Slug: "silicona", Name: "Silicona 100%", Description: "Sellado premium reflectivo", Unit: model.UnitSqft, Price: 4.50},
	{Slug: "danosa", Name: "Danosa", Description: "Membrana asfáltica", Unit: model.UnitSqft, Price: 3.50},
	{Slug: "danosa_removal", Name: "Remoción Danosa (por capa)", Description: "Cargo adicional por capa removida", Unit: model.UnitSqft, Price: 1.00},
	{Slug: "cisterna", Name: "Cisterna", Description: "Manejo y movimiento de cisterna", Unit: model.UnitFlat, Price: 150.00},
	{Slug: "placas_solares", Name: "Placas Solares", Description: "Remoción y desmontaje de placas solares", Unit: model.UnitFlat, Price: 1000.00},
	{Slug: "ac", Name: "Aire Acondicionado", Description: "Manejo de unidad de aire acondicionado", Unit: model.UnitFlat, Price: 200.00},
}

// DefaultSettings 空库时写入的设置
var DefaultSettings = []model.Setting{
	{Key: "tax_rate", Value: "0.115", Label: "Tasa de IVU (11.5%)"},
	{Key: "waste_factor", Value: "1.15", Label: "Factor de desperdicio (15%)"},
}

// Open 连接数据库
func Open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

type PricingRepository struct {
	db *sqlx.DB
}

func NewPricingRepository(db *sqlx.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// Migrate 建表
func (r *PricingRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate pricing schema: %w", err)
	}
	return nil
}

// Seed 表为空时写入默认产品和设置
func (r *PricingRepository) Seed(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if count == 0 {
		for _, p := range DefaultProducts {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO products (slug, name, description, unit, price)
				VALUES (:slug, :name, :description, :unit, :price)`, p); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Slug, err)
			}
		}
	}

	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM settings`); err != nil {
		return err
	}
	if count == 0 {
		for _, s := range DefaultSettings {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO settings (key, value, label) VALUES (:key, :value, :label)`, s); err != nil {
				return fmt.Errorf("failed to seed setting %s: %w", s.Key, err)
			}
		}
	}

	return tx.Commit()
}

// ListProducts activeOnly 为 true 时只返回启用的产品
func (r *PricingRepository) ListProducts(ctx context.Context, activeOnly bool) ([]model.Product, error) {
	query := `SELECT * FROM products ORDER BY id`
	if activeOnly {
		query = `SELECT * FROM products WHERE active ORDER BY id`
	}

	products := []model.Product{}
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *PricingRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PricingRepository) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM products WHERE slug = $1`, slug); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PricingRepository) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	var p model.Product
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO products (slug, name, description, unit, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		req.Slug, req.Name, req.Description, req.Unit, *req.Price)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

// UpdateProduct 只更新非 nil 字段
func (r *PricingRepository) UpdateProduct(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error) {
	var p model.Product
	err := r.db.GetContext(ctx, &p, `
		UPDATE products SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			unit = COALESCE($4, unit),
			price = COALESCE($5, price),
			active = COALESCE($6, active),
			updated_at = now()
		WHERE id = $1
		RETURNING *`,
		id, req.Name, req.Description, req.Unit, req.Price, req.Active)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PricingRepository) DeleteProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	if err := r.db.GetContext(ctx, &p, `DELETE FROM products WHERE id = $1 RETURNING *`, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PricingRepository) ListSettings(ctx context.Context) ([]model.Setting, error) {
	settings := []model.Setting{}
	if err := r.db.SelectContext(ctx, &settings, `SELECT * FROM settings ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// UpdateSetting 只能更新已存在的键
func (r *PricingRepository) UpdateSetting(ctx context.Context, key, value string) (*model.Setting, error) {
	var s model.Setting
	err := r.db.GetContext(ctx, &s, `
		UPDATE settings SET value = $2, updated_at = now()
		WHERE key = $1
		RETURNING *`, key, value)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

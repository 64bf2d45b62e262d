package model

import "time"

const (
	UnitSqft = "sqft"
	UnitFlat = "flat"
)

// Product 报价产品或附加服务
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Unit        string    `db:"unit" json:"unit"`
	Price       float64   `db:"price" json:"price"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Setting 报价参数，值以字符串保存
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	Label     string    `db:"label" json:"label"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateProductRequest 新建产品
type CreateProductRequest struct {
	Slug        string   `json:"slug" validate:"required,max=64"`
	Name        string   `json:"name" validate:"required,max=128"`
	Description string   `json:"description" validate:"max=512"`
	Unit        string   `json:"unit" validate:"required,oneof=sqft flat"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

// UpdateProductRequest 部分更新，nil 字段保持不变
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=128"`
	Description *string  `json:"description" validate:"omitempty,max=512"`
	Unit        *string  `json:"unit" validate:"omitempty,oneof=sqft flat"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Active      *bool    `json:"active"`
}

// UpdateSettingRequest 更新设置值
type UpdateSettingRequest struct {
	Value *float64 `json:"value" validate:"required"`
}

// PriceEntry 前端报价表中的一项
type PriceEntry struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
}

// PricingBundle 有效产品价格和数值设置
type PricingBundle struct {
	Pricing map[string]PriceEntry `json:"pricing"`
	Config  map[string]float64    `json:"config"`
}

// QuoteRequest 报价请求；MaterialSqft 为空时用 AreaSqft 乘以 waste_factor
type QuoteRequest struct {
	MaterialSqft float64  `json:"material_sqft" validate:"gte=0"`
	AreaSqft     float64  `json:"area_sqft" validate:"gte=0"`
	Product      string   `json:"product" validate:"required"`
	Addons       []string `json:"addons" validate:"dive,required"`
}

// QuoteLine 报价明细
type QuoteLine struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

// Quote 报价结果，金额保留两位小数
type Quote struct {
	MaterialSqft float64     `json:"material_sqft"`
	Lines        []QuoteLine `json:"lines"`
	Subtotal     float64     `json:"subtotal"`
	TaxRate      float64     `json:"tax_rate"`
	Tax          float64     `json:"tax"`
	Total        float64     `json:"total"`
}

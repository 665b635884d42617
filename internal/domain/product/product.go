package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	SKU           string          `json:"sku" gorm:"uniqueIndex;not null"`
	Name          string          `json:"name" gorm:"not null"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderBy values accepted by the list filter.
const (
	OrderByName      = "name"
	OrderByPriceAsc  = "price_asc"
	OrderByPriceDesc = "price_desc"
)

// Filter narrows and pages a product listing.
type Filter struct {
	Name     string
	OrderBy  string
	Page     int
	PageSize int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize clamps pagination to sane bounds.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
}

func (f *Filter) Offset() int { return (f.Page - 1) * f.PageSize }

package cart

import (
	"time"

	"github.com/example/ec-shop/internal/domain/product"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Items     []Item    `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Item struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	CartID    int64            `json:"cart_id" gorm:"index;not null"`
	ProductID int64            `json:"product_id" gorm:"not null"`
	Quantity  int              `json:"quantity" gorm:"not null"`
	Product   *product.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Snapshot is an ephemeral read of a cart with product details resolved
// and the total derived. It is what checkout consumes; it is never stored.
type Snapshot struct {
	Items []SnapshotItem  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type SnapshotItem struct {
	CartItemID  int64           `json:"cart_item_id"`
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// SnapshotOf flattens a loaded cart into a Snapshot. Lines whose product
// row has gone missing are skipped rather than invented.
func SnapshotOf(c *Cart) *Snapshot {
	snap := &Snapshot{Items: []SnapshotItem{}, Total: decimal.Zero}
	if c == nil {
		return snap
	}
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		snap.Items = append(snap.Items, SnapshotItem{
			CartItemID:  item.ID,
			ProductID:   item.ProductID,
			Name:        item.Product.Name,
			Description: item.Product.Description,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
		})
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		snap.Total = snap.Total.Add(lineTotal)
	}
	return snap
}

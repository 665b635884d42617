package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownProductID marks an order line whose product metadata could not be
// recovered from the payment session. Recording the line with a sentinel is
// preferred over dropping a paid item.
const UnknownProductID int64 = -1

// UnknownUserID marks an order whose originating session carried no buyer
// metadata. An orphan order beats a silently dropped payment.
const UnknownUserID = "unknown"

const PaymentMethodCard = "card"

type Order struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	UserID        string          `json:"user_id" gorm:"index;not null"`
	Items         []Item          `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Currency      string          `json:"currency" gorm:"not null"`
	PaymentMethod string          `json:"payment_method"`
	// PaymentToken is the gateway checkout-session id. It is the natural
	// dedup key for webhook replays and carries a unique constraint.
	PaymentToken  string    `json:"payment_token" gorm:"uniqueIndex"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Item struct {
	ID        int64 `json:"id" gorm:"primaryKey"`
	OrderID   int64 `json:"order_id" gorm:"index;not null"`
	ProductID int64 `json:"product_id" gorm:"not null"`
	Quantity  int   `json:"quantity" gorm:"not null"`
	// UnitPrice is frozen at reconciliation time from the gateway's
	// minor-unit amount, independent of later catalog price changes.
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
}

// ItemsTotal sums quantity*unitPrice over the lines. It may legitimately
// differ from TotalAmount when the gateway applied discounts or taxes.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is an anonymous, session-scoped collection of line items.
// Its ID is a random UUID so carts cannot be enumerated.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem is one (product, quantity) line. There is at most one line per
// product in a cart.
type CartItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	CartID    string  `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int     `json:"quantity" gorm:"not null;default:1"`
}

// TotalPrice is the live line total (current product price × quantity).
func (ci CartItem) TotalPrice() decimal.Decimal {
	return ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// GrandTotal sums the live totals of every line.
func (c Cart) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

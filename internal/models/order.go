package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the immutable record of a completed checkout. It outlives the
// cart that produced it.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        *string     `json:"user_id" gorm:"type:varchar(36);index"`
	User          *User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	FirstName     string      `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName      string      `json:"last_name" gorm:"type:varchar(100);not null"`
	Email         string      `json:"email" gorm:"type:varchar(254);not null;index"`
	Address       string      `json:"address" gorm:"type:varchar(255);not null"`
	City          string      `json:"city" gorm:"type:varchar(100);not null"`
	Postcode      string      `json:"postcode" gorm:"type:varchar(20);not null"`
	Paid          bool        `json:"paid" gorm:"not null;default:false"`
	CharityChoice *string     `json:"charity_choice" gorm:"type:varchar(100)"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderItem is one product line of an order. Price is the snapshot taken at
// checkout and is never re-derived from the catalog. Products referenced by
// an order item cannot be deleted.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   string          `json:"-" gorm:"type:varchar(36);not null;index"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product   Product         `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null;default:1"`
}

// LineTotal is snapshot price × quantity.
func (oi OrderItem) LineTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// Total sums the snapshot line totals.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// IsLinked reports whether the order belongs to a user account.
func (o Order) IsLinked() bool {
	return o.UserID != nil && *o.UserID != ""
}

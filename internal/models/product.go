package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories and sub-categories offered by the store.
const (
	CategoryPreteen = "preteen"
	CategoryTeen    = "teen"

	SubCategoryTops    = "tops"
	SubCategoryBottoms = "bottoms"
	SubCategoryDresses = "dresses"
	SubCategorySets    = "sets"
)

// Product represents a product in the store.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Description   string          `json:"description" validate:"omitempty,max=2000"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL      string          `json:"image_url" gorm:"type:varchar(1024)" validate:"omitempty,max=1024"`
	ModelImageURL string          `json:"model_image_url" gorm:"type:varchar(1024)" validate:"omitempty,max=1024"`
	Category      string          `json:"category" gorm:"type:varchar(50);index" validate:"required,oneof=preteen teen"`
	SubCategory   string          `json:"sub_category" gorm:"type:varchar(50);default:tops" validate:"omitempty,oneof=tops bottoms dresses sets"`
	IsNewArrival  bool            `json:"is_new_arrival" gorm:"default:false"`
	IsFeatured    bool            `json:"is_featured" gorm:"default:false"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductFilter narrows a catalog listing. Zero values mean "any".
type ProductFilter struct {
	Category    string
	SubCategory string
	NewArrival  bool
	Featured    bool
}

// internal/models/region.go
package models

type Region struct {
	BaseModel
	Name     string `json:"name" gorm:"size:100;not null"`
	Code     string `json:"code" gorm:"size:10;not null;uniqueIndex"`
	Currency string `json:"currency" gorm:"size:3;not null"`
	IsActive bool   `json:"is_active" gorm:"not null;index"`

	ProductPricings []ProductPricing `json:"product_pricings,omitempty" gorm:"foreignKey:RegionID"`
}

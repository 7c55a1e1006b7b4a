// internal/models/product.go
package models

type Product struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null;index"`
	Description string `json:"description" gorm:"type:text"`
	SKU         string `json:"sku" gorm:"size:100;not null;uniqueIndex"`
	ImageURL    string `json:"image_url" gorm:"size:500"`
	IsActive    bool   `json:"is_active" gorm:"not null;index"`

	// Relationships
	ProductAttributes []ProductAttribute `json:"product_attributes,omitempty" gorm:"foreignKey:ProductID"`
	ProductPricings   []ProductPricing   `json:"product_pricings,omitempty" gorm:"foreignKey:ProductID"`
}

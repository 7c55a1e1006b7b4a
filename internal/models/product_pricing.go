// internal/models/product_pricing.go
package models

// ProductPricing is one price quote for a (product, region, rental period)
// triple. A row is visible to reads only while its own flag and the flags of
// its region and rental period are all true.
type ProductPricing struct {
	BaseModel
	ProductID      uint    `json:"product_id" gorm:"not null;uniqueIndex:idx_pricing_triple"`
	RegionID       uint    `json:"region_id" gorm:"not null;uniqueIndex:idx_pricing_triple"`
	RentalPeriodID uint    `json:"rental_period_id" gorm:"not null;uniqueIndex:idx_pricing_triple"`
	Price          float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Currency       string  `json:"currency" gorm:"size:3;not null"`
	IsActive       bool    `json:"is_active" gorm:"not null;index"`

	Product      *Product      `json:"product,omitempty"`
	Region       *Region       `json:"region,omitempty"`
	RentalPeriod *RentalPeriod `json:"rental_period,omitempty"`
}

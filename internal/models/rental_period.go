// internal/models/rental_period.go
package models

type RentalPeriod struct {
	BaseModel
	Months      int    `json:"months" gorm:"not null;index"`
	DisplayName string `json:"display_name" gorm:"size:100;not null"`
	IsActive    bool   `json:"is_active" gorm:"not null;index"`

	ProductPricings []ProductPricing `json:"product_pricings,omitempty" gorm:"foreignKey:RentalPeriodID"`
}

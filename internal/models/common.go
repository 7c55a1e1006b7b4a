// internal/models/common.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active limits a query to rows whose is_active flag is set. Every catalog
// entity carries the flag, so the scope applies uniformly to products,
// attributes, attribute values, regions, rental periods and pricing rows.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

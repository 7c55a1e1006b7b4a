// internal/models/product_attribute.go
package models

// ProductAttribute is the pivot assigning one attribute value to a product.
// One value per attribute per product is a seeding convention, not a schema
// constraint; reads render whatever assignments qualify.
type ProductAttribute struct {
	BaseModel
	ProductID        uint `json:"product_id" gorm:"not null;index"`
	AttributeID      uint `json:"attribute_id" gorm:"not null;index"`
	AttributeValueID uint `json:"attribute_value_id" gorm:"not null;index"`

	Product        *Product        `json:"product,omitempty"`
	Attribute      *Attribute      `json:"attribute,omitempty"`
	AttributeValue *AttributeValue `json:"attribute_value,omitempty"`
}

// internal/models/attribute.go
package models

// Attribute is a named product dimension such as "color" or "brand".
type Attribute struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	DisplayName string `json:"display_name" gorm:"size:255;not null"`
	IsActive    bool   `json:"is_active" gorm:"not null;index"`

	AttributeValues []AttributeValue `json:"attribute_values,omitempty" gorm:"foreignKey:AttributeID"`
}

// AttributeValue belongs to exactly one Attribute.
type AttributeValue struct {
	BaseModel
	AttributeID  uint   `json:"attribute_id" gorm:"not null;index"`
	Value        string `json:"value" gorm:"size:100;not null"`
	DisplayValue string `json:"display_value" gorm:"size:255;not null"`
	IsActive     bool   `json:"is_active" gorm:"not null;index"`

	Attribute *Attribute `json:"attribute,omitempty"`
}

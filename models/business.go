package models

import "time"

// BusinessCategory is a system-wide lookup (e.g. "Retail").
type BusinessCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Photo     string    `json:"photo" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name.
func (BusinessCategory) TableName() string {
	return "business_categories"
}

// BusinessType is a system-wide lookup (e.g. "Sole Proprietorship").
type BusinessType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Photo     string    `json:"photo" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name.
func (BusinessType) TableName() string {
	return "business_types"
}

// Business is the tenant root. Lookup references go NULL when the lookup row
// is deleted; everything owned by the business cascades with it.
type Business struct {
	ID             uint              `json:"id" gorm:"primaryKey"`
	Name           string            `json:"name" gorm:"uniqueIndex;size:120;not null"`
	CategoryID     *uint             `json:"category_id" gorm:"index"`
	BusinessTypeID *uint             `json:"business_type_id" gorm:"index"`
	CreatedAt      time.Time         `json:"created_at"`
	Category       *BusinessCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	BusinessType   *BusinessType     `json:"business_type,omitempty" gorm:"foreignKey:BusinessTypeID;constraint:OnDelete:SET NULL"`
}

// TableName sets the table name.
func (Business) TableName() string {
	return "businesses"
}

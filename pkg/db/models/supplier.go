package models

// Supplier provides the articles sold during its periods.
type Supplier struct {
	ID   string `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;not null" json:"name"`
}

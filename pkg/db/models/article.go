package models

import "strings"

// Article is the catalog snapshot embedded in order items.
type Article struct {
	ID          string `gorm:"column:id;primaryKey" json:"id"`
	Category    string `gorm:"column:category" json:"category,omitempty"`
	Product     string `gorm:"column:product" json:"product,omitempty"`
	Variety     string `gorm:"column:variety" json:"variety,omitempty"`
	UnitMeasure string `gorm:"column:unit_measure" json:"unitMeasure,omitempty"`
}

// DisplayName joins the non-empty category, product, and variety with " - ".
func (a *Article) DisplayName() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{a.Category, a.Product, a.Variety} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " - ")
}

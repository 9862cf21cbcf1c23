package models

import "github.com/google/uuid"

type MeasurementUnit struct {
	Base
	Name string `gorm:"size:64;not null;uniqueIndex" json:"name"`
}

// Ingredient is unique on (name, unit).
type Ingredient struct {
	Base
	Name              string          `gorm:"size:150;not null;index;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnitID uuid.UUID       `gorm:"type:varchar(36);not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit_id"`
	MeasurementUnit   MeasurementUnit `gorm:"constraint:OnDelete:CASCADE" json:"measurement_unit"`
}

type Tag struct {
	Base
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null;default:'#FF0000'" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

// internal/models/machine.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	Icon        string `json:"icon,omitempty" gorm:"size:50"`

	// Relationships
	Machines []Machine `json:"machines,omitempty" gorm:"foreignKey:CategoryID"`
}

type Machine struct {
	BaseModel
	LandlordID     uuid.UUID      `json:"landlord_id" gorm:"type:uuid;not null;index"`
	CategoryID     uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	Brand          string         `json:"brand,omitempty" gorm:"size:100"`
	ModelName      string         `json:"model,omitempty" gorm:"size:100;column:model"`
	Year           int            `json:"year,omitempty"`
	Description    string         `json:"description" gorm:"type:text"`
	Images         pq.StringArray `json:"images" gorm:"type:text[]"`
	Specifications JSONB          `json:"specifications" gorm:"type:jsonb"`
	Status         MachineStatus  `json:"status" gorm:"type:varchar(20);default:'available';index"`
	City           string         `json:"city,omitempty" gorm:"size:100;index"`
	State          string         `json:"state,omitempty" gorm:"size:50"`
	ViewCount      int64          `json:"view_count" gorm:"default:0"`

	// Relationships
	Landlord User     `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Quotes   []Quote  `json:"quotes,omitempty" gorm:"foreignKey:MachineID"`
}

type Accessory struct {
	BaseModel
	LandlordID  uuid.UUID      `json:"landlord_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Landlord User `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
}

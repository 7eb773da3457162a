// internal/models/quote.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Quote struct {
	BaseModel
	MachineID       uuid.UUID           `json:"machine_id" gorm:"type:uuid;not null;index"`
	ClientID        uuid.UUID           `json:"client_id" gorm:"type:uuid;not null;index"`
	LandlordID      uuid.UUID           `json:"landlord_id" gorm:"type:uuid;not null;index"`
	RentalPeriod    string              `json:"rental_period" gorm:"size:255;not null"`
	DeliveryAddress string              `json:"delivery_address" gorm:"size:512;not null"`
	Observations    string              `json:"observations,omitempty" gorm:"type:text"`
	Status          QuoteStatus         `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Response        string              `json:"response,omitempty" gorm:"type:text"`
	ResponsePrice   decimal.NullDecimal `json:"response_price" gorm:"type:decimal(10,2)"`
	AnsweredAt      *time.Time          `json:"answered_at"`
	RejectedAt      *time.Time          `json:"rejected_at"`
	ApprovedAt      *time.Time          `json:"approved_at"`

	// Relationships
	Machine     Machine     `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	Client      User        `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Landlord    User        `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
	Accessories []Accessory `json:"accessories,omitempty" gorm:"many2many:quote_accessories"`
}

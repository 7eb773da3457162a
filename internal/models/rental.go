// internal/models/rental.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Rental struct {
	BaseModel
	QuoteID            uuid.UUID       `json:"quote_id" gorm:"type:uuid;not null;uniqueIndex"`
	MachineID          uuid.UUID       `json:"machine_id" gorm:"type:uuid;not null;index"`
	ClientID           uuid.UUID       `json:"client_id" gorm:"type:uuid;not null;index"`
	LandlordID         uuid.UUID       `json:"landlord_id" gorm:"type:uuid;not null;index"`
	RentalPeriod       string          `json:"rental_period" gorm:"size:255;not null"`
	DeliveryAddress    string          `json:"delivery_address" gorm:"size:512;not null"`
	Status             RentalStatus    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Price              decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StartDate          *time.Time      `json:"start_date"`
	EndDate            *time.Time      `json:"end_date"`
	CancelledAt        *time.Time      `json:"cancelled_at"`
	CancellationReason string          `json:"cancellation_reason,omitempty" gorm:"type:text"`

	// Relationships
	Quote       Quote       `json:"quote,omitempty" gorm:"foreignKey:QuoteID"`
	Machine     Machine     `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	Client      User        `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Landlord    User        `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
	Accessories []Accessory `json:"accessories,omitempty" gorm:"many2many:rental_accessories"`
	Returns     []Return    `json:"returns,omitempty" gorm:"foreignKey:RentalID"`
}

type Return struct {
	BaseModel
	RentalID      uuid.UUID    `json:"rental_id" gorm:"type:uuid;not null;index"`
	Method        ReturnMethod `json:"method" gorm:"type:varchar(20);not null"`
	ReturnAddress string       `json:"return_address,omitempty" gorm:"size:512"`
	Observations  string       `json:"observations,omitempty" gorm:"type:text"`
	Status        ReturnStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	RequestedDate time.Time    `json:"requested_date" gorm:"not null"`
	CompletedDate *time.Time   `json:"completed_date"`

	// Relationships
	Rental Rental `json:"rental,omitempty" gorm:"foreignKey:RentalID"`
}

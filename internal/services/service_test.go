// internal/services/service_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/locmaq/locmaq-backend/internal/models"
)

var testUserSeq int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Machine{},
		&models.Accessory{},
		&models.Quote{},
		&models.Rental{},
		&models.Return{},
		&models.CompanyContent{},
		&models.Notification{},
		&models.AdminSettings{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	testUserSeq++
	user := &models.User{
		Username: fmt.Sprintf("user%d", testUserSeq),
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("TestPass123!"))
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	testUserSeq++
	category := &models.Category{
		Name: fmt.Sprintf("Categoria %d", testUserSeq),
	}
	require.NoError(t, db.Create(category).Error)

	return category
}

func createTestMachine(t *testing.T, db *gorm.DB, landlordID, categoryID uuid.UUID) *models.Machine {
	t.Helper()

	testUserSeq++
	machine := &models.Machine{
		LandlordID: landlordID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Escavadeira %d", testUserSeq),
		Brand:      "Caterpillar",
		Status:     models.MachineStatusAvailable,
		City:       "São Paulo",
		State:      "SP",
	}
	require.NoError(t, db.Create(machine).Error)

	return machine
}

func createTestAccessory(t *testing.T, db *gorm.DB, landlordID uuid.UUID) *models.Accessory {
	t.Helper()

	testUserSeq++
	accessory := &models.Accessory{
		LandlordID: landlordID,
		Name:       fmt.Sprintf("Caçamba %d", testUserSeq),
	}
	require.NoError(t, db.Create(accessory).Error)

	return accessory
}

func createTestQuote(t *testing.T, db *gorm.DB, machine *models.Machine, clientID uuid.UUID, status models.QuoteStatus) *models.Quote {
	t.Helper()

	quote := &models.Quote{
		MachineID:       machine.ID,
		ClientID:        clientID,
		LandlordID:      machine.LandlordID,
		RentalPeriod:    "30 dias",
		DeliveryAddress: "Rua das Obras, 100",
		Status:          status,
	}
	if status == models.QuoteStatusAnswered || status == models.QuoteStatusApproved {
		now := time.Now()
		quote.Response = "Valor para o período completo"
		quote.ResponsePrice = decimal.NewNullDecimal(decimal.NewFromInt(4500))
		quote.AnsweredAt = &now
	}
	require.NoError(t, db.Create(quote).Error)

	return quote
}

func createTestRental(t *testing.T, db *gorm.DB, quote *models.Quote, status models.RentalStatus) *models.Rental {
	t.Helper()

	rental := &models.Rental{
		QuoteID:         quote.ID,
		MachineID:       quote.MachineID,
		ClientID:        quote.ClientID,
		LandlordID:      quote.LandlordID,
		RentalPeriod:    quote.RentalPeriod,
		DeliveryAddress: quote.DeliveryAddress,
		Status:          status,
		Price:           decimal.NewFromInt(4500),
	}
	if status == models.RentalStatusActive || status == models.RentalStatusCompleted {
		now := time.Now()
		rental.StartDate = &now
	}
	if status == models.RentalStatusCompleted {
		now := time.Now()
		rental.EndDate = &now
	}
	require.NoError(t, db.Create(rental).Error)

	return rental
}

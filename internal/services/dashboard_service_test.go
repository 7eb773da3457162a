// internal/services/dashboard_service_test.go
package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *DashboardService
	client   *models.User
	landlord *models.User
	machine  *models.Machine
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewDashboardService(suite.db)

	suite.client = createTestUser(suite.T(), suite.db, models.UserTypeClient)
	suite.landlord = createTestUser(suite.T(), suite.db, models.UserTypeLandlord)
	category := createTestCategory(suite.T(), suite.db)
	suite.machine = createTestMachine(suite.T(), suite.db, suite.landlord.ID, category.ID)
}

func (suite *DashboardServiceTestSuite) TestLandlordDashboardCounts() {
	createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)
	createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusAnswered)

	approved := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, approved, models.RentalStatusActive)

	done := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, done, models.RentalStatusCompleted)

	stats, err := suite.service.GetLandlordDashboard(suite.landlord.ID)

	suite.NoError(err)
	suite.Equal(int64(1), stats.TotalMachines)
	suite.Equal(int64(1), stats.AvailableMachines)
	suite.Equal(int64(4), stats.TodayQuotes)
	suite.Equal(int64(1), stats.PendingQuotes)
	suite.Equal(int64(1), stats.AnsweredQuotes)
	suite.Equal(int64(1), stats.ActiveRentals)
	suite.Equal(int64(1), stats.CompletedRentals)
	suite.True(stats.ActiveRentalsValue.Equal(decimal.NewFromInt(4500)),
		"expected 4500, got %s", stats.ActiveRentalsValue)
}

func (suite *DashboardServiceTestSuite) TestLandlordDashboardRevenue() {
	q1 := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, q1, models.RentalStatusCompleted)
	q2 := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, q2, models.RentalStatusCompleted)

	// Active rentals do not count until completed
	q3 := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, q3, models.RentalStatusActive)

	stats, err := suite.service.GetLandlordDashboard(suite.landlord.ID)

	suite.NoError(err)
	suite.True(stats.TotalRevenue.Equal(decimal.NewFromInt(9000)),
		"expected 9000, got %s", stats.TotalRevenue)
	suite.True(stats.MonthlyRevenue.Equal(decimal.NewFromInt(9000)),
		"expected 9000, got %s", stats.MonthlyRevenue)
}

func (suite *DashboardServiceTestSuite) TestLandlordDashboardPendingReturns() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	rental := createTestRental(suite.T(), suite.db, quote, models.RentalStatusActive)

	ret := &models.Return{
		RentalID:      rental.ID,
		Method:        models.ReturnMethodStore,
		Status:        models.ReturnStatusPending,
		RequestedDate: rental.CreatedAt,
	}
	suite.Require().NoError(suite.db.Create(ret).Error)

	stats, err := suite.service.GetLandlordDashboard(suite.landlord.ID)

	suite.NoError(err)
	suite.Equal(int64(1), stats.PendingReturns)
}

func (suite *DashboardServiceTestSuite) TestLandlordDashboardRejectsClients() {
	_, err := suite.service.GetLandlordDashboard(suite.client.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "only available to landlords")
}

func (suite *DashboardServiceTestSuite) TestClientDashboard() {
	createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	rental := createTestRental(suite.T(), suite.db, quote, models.RentalStatusActive)

	ret := &models.Return{
		RentalID:      rental.ID,
		Method:        models.ReturnMethodStore,
		Status:        models.ReturnStatusApproved,
		RequestedDate: rental.CreatedAt,
	}
	suite.Require().NoError(suite.db.Create(ret).Error)

	done := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, done, models.RentalStatusCompleted)

	stats, err := suite.service.GetClientDashboard(suite.client.ID)

	suite.NoError(err)
	suite.Equal(int64(1), stats.PendingQuotes)
	suite.Equal(int64(1), stats.ActiveRentals)
	suite.Equal(int64(1), stats.CompletedRentals)
	suite.Equal(int64(1), stats.OpenReturns)
	suite.True(stats.TotalSpent.Equal(decimal.NewFromInt(4500)),
		"expected 4500, got %s", stats.TotalSpent)
}

func (suite *DashboardServiceTestSuite) TestClientDashboardEmpty() {
	stats, err := suite.service.GetClientDashboard(suite.client.ID)

	suite.NoError(err)
	suite.Equal(int64(0), stats.PendingQuotes)
	suite.True(stats.TotalSpent.IsZero())
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

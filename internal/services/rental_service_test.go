// internal/services/rental_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
)

type RentalServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *RentalService
	client   *models.User
	landlord *models.User
	machine  *models.Machine
}

func (suite *RentalServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewRentalService(suite.db, nil)

	suite.client = createTestUser(suite.T(), suite.db, models.UserTypeClient)
	suite.landlord = createTestUser(suite.T(), suite.db, models.UserTypeLandlord)
	category := createTestCategory(suite.T(), suite.db)
	suite.machine = createTestMachine(suite.T(), suite.db, suite.landlord.ID, category.ID)
}

func (suite *RentalServiceTestSuite) newRental(status models.RentalStatus) *models.Rental {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	return createTestRental(suite.T(), suite.db, quote, status)
}

func (suite *RentalServiceTestSuite) TestApproveRental() {
	rental := suite.newRental(models.RentalStatusPending)

	approved, err := suite.service.ApproveRental(rental.ID, suite.landlord.ID)

	suite.NoError(err)
	suite.Equal(models.RentalStatusActive, approved.Status)
	suite.NotNil(approved.StartDate)
}

func (suite *RentalServiceTestSuite) TestApproveRentalTwiceFails() {
	rental := suite.newRental(models.RentalStatusPending)

	_, err := suite.service.ApproveRental(rental.ID, suite.landlord.ID)
	suite.NoError(err)

	_, err = suite.service.ApproveRental(rental.ID, suite.landlord.ID)
	suite.Error(err)
	suite.Contains(err.Error(), "no longer pending")
}

func (suite *RentalServiceTestSuite) TestApproveRentalWrongLandlord() {
	rental := suite.newRental(models.RentalStatusPending)
	other := createTestUser(suite.T(), suite.db, models.UserTypeLandlord)

	_, err := suite.service.ApproveRental(rental.ID, other.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")
}

func (suite *RentalServiceTestSuite) TestRejectRental() {
	rental := suite.newRental(models.RentalStatusPending)

	cancelled, err := suite.service.RejectRental(rental.ID, suite.landlord.ID, &RejectRentalRequest{
		Reason: "Máquina entrou em manutenção",
	})

	suite.NoError(err)
	suite.Equal(models.RentalStatusCancelled, cancelled.Status)
	suite.NotNil(cancelled.CancelledAt)
	suite.Equal("Máquina entrou em manutenção", cancelled.CancellationReason)
}

func (suite *RentalServiceTestSuite) TestRejectActiveRentalFails() {
	rental := suite.newRental(models.RentalStatusActive)

	_, err := suite.service.RejectRental(rental.ID, suite.landlord.ID, &RejectRentalRequest{
		Reason: "Tarde demais",
	})

	suite.Error(err)
	suite.Contains(err.Error(), "no longer pending")
}

func (suite *RentalServiceTestSuite) TestGetRentalPermissions() {
	rental := suite.newRental(models.RentalStatusActive)

	_, err := suite.service.GetRental(rental.ID, suite.client.ID)
	suite.NoError(err)

	_, err = suite.service.GetRental(rental.ID, suite.landlord.ID)
	suite.NoError(err)

	stranger := createTestUser(suite.T(), suite.db, models.UserTypeClient)
	_, err = suite.service.GetRental(rental.ID, stranger.ID)
	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")

	admin := createTestUser(suite.T(), suite.db, models.UserTypeAdmin)
	_, err = suite.service.GetRental(rental.ID, admin.ID)
	suite.NoError(err)
}

func (suite *RentalServiceTestSuite) TestSearchRentalsScopedByRole() {
	suite.newRental(models.RentalStatusActive)

	_, total, err := suite.service.SearchRentals(RentalSearchParams{}, suite.client.ID)
	suite.NoError(err)
	suite.Equal(int64(1), total)

	stranger := createTestUser(suite.T(), suite.db, models.UserTypeClient)
	_, total, err = suite.service.SearchRentals(RentalSearchParams{}, stranger.ID)
	suite.NoError(err)
	suite.Equal(int64(0), total)
}

func (suite *RentalServiceTestSuite) TestSearchRentalsStatusFilter() {
	suite.newRental(models.RentalStatusActive)

	quote2 := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, quote2, models.RentalStatusCompleted)

	status := models.RentalStatusActive
	_, total, err := suite.service.SearchRentals(RentalSearchParams{Status: &status}, suite.client.ID)
	suite.NoError(err)
	suite.Equal(int64(1), total)
}

func (suite *RentalServiceTestSuite) TestGetRentalTimeline() {
	rental := suite.newRental(models.RentalStatusActive)

	timeline, err := suite.service.GetRentalTimeline(rental.ID, suite.client.ID)

	suite.NoError(err)
	suite.Len(timeline, 3)
	suite.Equal("rental.requested", timeline[0].Key)
	suite.True(timeline[1].Done)
	suite.False(timeline[2].Done)
}

func TestRentalServiceSuite(t *testing.T) {
	suite.Run(t, new(RentalServiceTestSuite))
}

// internal/services/return_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
)

type ReturnServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *ReturnService
	client   *models.User
	landlord *models.User
	machine  *models.Machine
	rental   *models.Rental
}

func (suite *ReturnServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewReturnService(suite.db, nil)

	suite.client = createTestUser(suite.T(), suite.db, models.UserTypeClient)
	suite.landlord = createTestUser(suite.T(), suite.db, models.UserTypeLandlord)
	category := createTestCategory(suite.T(), suite.db)
	suite.machine = createTestMachine(suite.T(), suite.db, suite.landlord.ID, category.ID)

	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	suite.rental = createTestRental(suite.T(), suite.db, quote, models.RentalStatusActive)
}

func (suite *ReturnServiceTestSuite) requestReturn() *models.Return {
	ret, err := suite.service.RequestReturn(suite.rental.ID, suite.client.ID, &RequestReturnRequest{
		Method: models.ReturnMethodStore,
	})
	suite.Require().NoError(err)
	return ret
}

func (suite *ReturnServiceTestSuite) TestRequestReturn() {
	ret := suite.requestReturn()

	suite.Equal(models.ReturnStatusPending, ret.Status)
	suite.Equal(suite.rental.ID, ret.RentalID)
	suite.Nil(ret.CompletedDate)
}

func (suite *ReturnServiceTestSuite) TestRequestReturnStampsRequestedDate() {
	before := time.Now()
	ret := suite.requestReturn()

	suite.WithinDuration(before, ret.RequestedDate, 2*time.Second)

	var stored models.Return
	suite.Require().NoError(suite.db.First(&stored, ret.ID).Error)
	suite.WithinDuration(before, stored.RequestedDate, 2*time.Second)
}

func (suite *ReturnServiceTestSuite) TestRequestReturnStoreIgnoresAddress() {
	ret, err := suite.service.RequestReturn(suite.rental.ID, suite.client.ID, &RequestReturnRequest{
		Method:        models.ReturnMethodStore,
		ReturnAddress: "Rua das Obras, 100",
	})

	suite.NoError(err)
	suite.Empty(ret.ReturnAddress)
}

func (suite *ReturnServiceTestSuite) TestRequestReturnPickupRequiresAddress() {
	_, err := suite.service.RequestReturn(suite.rental.ID, suite.client.ID, &RequestReturnRequest{
		Method: models.ReturnMethodPickup,
	})

	suite.Error(err)
	suite.Contains(err.Error(), "return address is required")
}

func (suite *ReturnServiceTestSuite) TestRequestReturnPickupWithAddress() {
	ret, err := suite.service.RequestReturn(suite.rental.ID, suite.client.ID, &RequestReturnRequest{
		Method:        models.ReturnMethodPickup,
		ReturnAddress: "Rua das Obras, 100",
	})

	suite.NoError(err)
	suite.Equal(models.ReturnMethodPickup, ret.Method)
	suite.Equal("Rua das Obras, 100", ret.ReturnAddress)
}

func (suite *ReturnServiceTestSuite) TestRequestReturnInactiveRental() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusApproved)
	pending := createTestRental(suite.T(), suite.db, quote, models.RentalStatusPending)

	_, err := suite.service.RequestReturn(pending.ID, suite.client.ID, &RequestReturnRequest{
		Method: models.ReturnMethodStore,
	})

	suite.Error(err)
	suite.Contains(err.Error(), "only active rentals")
}

func (suite *ReturnServiceTestSuite) TestRequestReturnRefusesSecondOpenReturn() {
	suite.requestReturn()

	_, err := suite.service.RequestReturn(suite.rental.ID, suite.client.ID, &RequestReturnRequest{
		Method: models.ReturnMethodStore,
	})

	suite.Error(err)
	suite.Contains(err.Error(), "already has an open return")
}

func (suite *ReturnServiceTestSuite) TestRequestReturnWrongClient() {
	other := createTestUser(suite.T(), suite.db, models.UserTypeClient)

	_, err := suite.service.RequestReturn(suite.rental.ID, other.ID, &RequestReturnRequest{
		Method: models.ReturnMethodStore,
	})

	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")
}

func (suite *ReturnServiceTestSuite) TestApproveReturn() {
	ret := suite.requestReturn()

	approved, err := suite.service.ApproveReturn(ret.ID, suite.landlord.ID)

	suite.NoError(err)
	suite.Equal(models.ReturnStatusApproved, approved.Status)
}

func (suite *ReturnServiceTestSuite) TestApproveReturnTwiceFails() {
	ret := suite.requestReturn()

	_, err := suite.service.ApproveReturn(ret.ID, suite.landlord.ID)
	suite.NoError(err)

	_, err = suite.service.ApproveReturn(ret.ID, suite.landlord.ID)
	suite.Error(err)
	suite.Contains(err.Error(), "no longer pending")
}

func (suite *ReturnServiceTestSuite) TestApproveReturnWrongLandlord() {
	ret := suite.requestReturn()
	other := createTestUser(suite.T(), suite.db, models.UserTypeLandlord)

	_, err := suite.service.ApproveReturn(ret.ID, other.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")
}

func (suite *ReturnServiceTestSuite) TestCompleteReturnClosesRental() {
	ret := suite.requestReturn()
	_, err := suite.service.ApproveReturn(ret.ID, suite.landlord.ID)
	suite.Require().NoError(err)

	completed, err := suite.service.CompleteReturn(ret.ID, suite.landlord.ID)

	suite.NoError(err)
	suite.Equal(models.ReturnStatusCompleted, completed.Status)
	suite.NotNil(completed.CompletedDate)

	var rental models.Rental
	suite.Require().NoError(suite.db.First(&rental, suite.rental.ID).Error)
	suite.Equal(models.RentalStatusCompleted, rental.Status)
	suite.NotNil(rental.EndDate)
}

func (suite *ReturnServiceTestSuite) TestCompletePendingReturnFails() {
	ret := suite.requestReturn()

	_, err := suite.service.CompleteReturn(ret.ID, suite.landlord.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "only approved returns")

	var rental models.Rental
	suite.Require().NoError(suite.db.First(&rental, suite.rental.ID).Error)
	suite.Equal(models.RentalStatusActive, rental.Status)
}

func (suite *ReturnServiceTestSuite) TestCompleteReturnTwiceFails() {
	ret := suite.requestReturn()
	_, err := suite.service.ApproveReturn(ret.ID, suite.landlord.ID)
	suite.Require().NoError(err)
	_, err = suite.service.CompleteReturn(ret.ID, suite.landlord.ID)
	suite.Require().NoError(err)

	_, err = suite.service.CompleteReturn(ret.ID, suite.landlord.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "only approved returns")
}

func (suite *ReturnServiceTestSuite) TestGetReturnPermissions() {
	ret := suite.requestReturn()

	_, err := suite.service.GetReturn(ret.ID, suite.client.ID)
	suite.NoError(err)

	_, err = suite.service.GetReturn(ret.ID, suite.landlord.ID)
	suite.NoError(err)

	stranger := createTestUser(suite.T(), suite.db, models.UserTypeClient)
	_, err = suite.service.GetReturn(ret.ID, stranger.ID)
	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")
}

func (suite *ReturnServiceTestSuite) TestListRentalReturns() {
	ret := suite.requestReturn()
	_, err := suite.service.ApproveReturn(ret.ID, suite.landlord.ID)
	suite.Require().NoError(err)
	_, err = suite.service.CompleteReturn(ret.ID, suite.landlord.ID)
	suite.Require().NoError(err)

	returns, err := suite.service.ListRentalReturns(suite.rental.ID, suite.client.ID)

	suite.NoError(err)
	suite.Len(returns, 1)
	suite.Equal(models.ReturnStatusCompleted, returns[0].Status)
}

func TestReturnServiceSuite(t *testing.T) {
	suite.Run(t, new(ReturnServiceTestSuite))
}

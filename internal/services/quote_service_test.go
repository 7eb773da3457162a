// internal/services/quote_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
)

type QuoteServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *QuoteService
	client   *models.User
	landlord *models.User
	machine  *models.Machine
}

func (suite *QuoteServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewQuoteService(suite.db, nil)

	suite.client = createTestUser(suite.T(), suite.db, models.UserTypeClient)
	suite.landlord = createTestUser(suite.T(), suite.db, models.UserTypeLandlord)
	category := createTestCategory(suite.T(), suite.db)
	suite.machine = createTestMachine(suite.T(), suite.db, suite.landlord.ID, category.ID)
}

func (suite *QuoteServiceTestSuite) TestSubmitQuote() {
	accessory := createTestAccessory(suite.T(), suite.db, suite.landlord.ID)

	quote, err := suite.service.SubmitQuote(suite.client.ID, &SubmitQuoteRequest{
		MachineID:       suite.machine.ID,
		RentalPeriod:    "15 dias",
		DeliveryAddress: "Av. Paulista, 1000",
		Observations:    "Entrega pela manhã",
		AccessoryIDs:    []uuid.UUID{accessory.ID},
	})

	suite.NoError(err)
	suite.Equal(models.QuoteStatusPending, quote.Status)
	suite.Equal(suite.landlord.ID, quote.LandlordID)
	suite.Len(quote.Accessories, 1)
	suite.False(quote.ResponsePrice.Valid)
}

func (suite *QuoteServiceTestSuite) TestSubmitQuoteUnavailableMachine() {
	suite.db.Model(suite.machine).Update("status", models.MachineStatusMaintenance)

	_, err := suite.service.SubmitQuote(suite.client.ID, &SubmitQuoteRequest{
		MachineID:       suite.machine.ID,
		RentalPeriod:    "15 dias",
		DeliveryAddress: "Av. Paulista, 1000",
	})

	suite.Error(err)
	suite.Contains(err.Error(), "not available")
}

func (suite *QuoteServiceTestSuite) TestSubmitQuoteForeignAccessoryRejected() {
	other := createTestUser(suite.T(), suite.db, models.UserTypeLandlord)
	foreign := createTestAccessory(suite.T(), suite.db, other.ID)

	_, err := suite.service.SubmitQuote(suite.client.ID, &SubmitQuoteRequest{
		MachineID:       suite.machine.ID,
		RentalPeriod:    "15 dias",
		DeliveryAddress: "Av. Paulista, 1000",
		AccessoryIDs:    []uuid.UUID{foreign.ID},
	})

	suite.Error(err)
}

func (suite *QuoteServiceTestSuite) TestSubmitQuoteLandlordRejected() {
	_, err := suite.service.SubmitQuote(suite.landlord.ID, &SubmitQuoteRequest{
		MachineID:       suite.machine.ID,
		RentalPeriod:    "15 dias",
		DeliveryAddress: "Av. Paulista, 1000",
	})

	suite.Error(err)
	suite.Contains(err.Error(), "only clients")
}

func (suite *QuoteServiceTestSuite) TestRespondToQuote() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	answered, err := suite.service.RespondToQuote(quote.ID, suite.landlord.ID, &RespondQuoteRequest{
		Response: "Valor fechado com frete incluso",
		Price:    decimal.NewFromInt(3200),
	})

	suite.NoError(err)
	suite.Equal(models.QuoteStatusAnswered, answered.Status)
	suite.True(answered.ResponsePrice.Valid)
	suite.True(answered.ResponsePrice.Decimal.Equal(decimal.NewFromInt(3200)))
	suite.NotNil(answered.AnsweredAt)
}

func (suite *QuoteServiceTestSuite) TestRespondToQuoteReloadFailureSurfaces() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	// Break the accessory join table so the post-update reload fails
	suite.Require().NoError(suite.db.Migrator().DropTable("quote_accessories"))

	_, err := suite.service.RespondToQuote(quote.ID, suite.landlord.ID, &RespondQuoteRequest{
		Response: "Valor fechado com frete incluso",
		Price:    decimal.NewFromInt(3200),
	})

	suite.Error(err)
	suite.Contains(err.Error(), "failed to reload quote")
}

func (suite *QuoteServiceTestSuite) TestRespondToQuoteRequiresPositivePrice() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	_, err := suite.service.RespondToQuote(quote.ID, suite.landlord.ID, &RespondQuoteRequest{
		Response: "Sem valor",
		Price:    decimal.Zero,
	})

	suite.Error(err)
	suite.Contains(err.Error(), "greater than zero")
}

func (suite *QuoteServiceTestSuite) TestRespondToQuoteTwiceFails() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	_, err := suite.service.RespondToQuote(quote.ID, suite.landlord.ID, &RespondQuoteRequest{
		Response: "Primeira resposta",
		Price:    decimal.NewFromInt(3200),
	})
	suite.NoError(err)

	_, err = suite.service.RespondToQuote(quote.ID, suite.landlord.ID, &RespondQuoteRequest{
		Response: "Segunda resposta",
		Price:    decimal.NewFromInt(2800),
	})
	suite.Error(err)
	suite.Contains(err.Error(), "no longer pending")
}

func (suite *QuoteServiceTestSuite) TestRespondToQuoteWrongLandlord() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)
	other := createTestUser(suite.T(), suite.db, models.UserTypeLandlord)

	_, err := suite.service.RespondToQuote(quote.ID, other.ID, &RespondQuoteRequest{
		Response: "Tentativa indevida",
		Price:    decimal.NewFromInt(1000),
	})

	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")
}

func (suite *QuoteServiceTestSuite) TestRejectQuote() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	rejected, err := suite.service.RejectQuote(quote.ID, suite.landlord.ID, &RejectQuoteRequest{
		Reason: "Máquina reservada para outra obra",
	})

	suite.NoError(err)
	suite.Equal(models.QuoteStatusRejected, rejected.Status)
	suite.NotNil(rejected.RejectedAt)
	suite.Equal("Máquina reservada para outra obra", rejected.Response)
}

func (suite *QuoteServiceTestSuite) TestApproveQuoteCreatesRental() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusAnswered)

	rental, err := suite.service.ApproveQuote(quote.ID, suite.client.ID)

	suite.NoError(err)
	suite.Equal(models.RentalStatusPending, rental.Status)
	suite.Equal(quote.ID, rental.QuoteID)
	suite.True(rental.Price.Equal(decimal.NewFromInt(4500)))

	var updated models.Quote
	suite.NoError(suite.db.First(&updated, quote.ID).Error)
	suite.Equal(models.QuoteStatusApproved, updated.Status)
	suite.NotNil(updated.ApprovedAt)
}

func (suite *QuoteServiceTestSuite) TestApproveQuoteCarriesAccessories() {
	accessory := createTestAccessory(suite.T(), suite.db, suite.landlord.ID)

	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusAnswered)
	suite.NoError(suite.db.Model(quote).Association("Accessories").Append(accessory))

	rental, err := suite.service.ApproveQuote(quote.ID, suite.client.ID)

	suite.NoError(err)
	suite.Len(rental.Accessories, 1)
	suite.Equal(accessory.ID, rental.Accessories[0].ID)
}

func (suite *QuoteServiceTestSuite) TestApproveQuoteTwiceFails() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusAnswered)

	_, err := suite.service.ApproveQuote(quote.ID, suite.client.ID)
	suite.NoError(err)

	_, err = suite.service.ApproveQuote(quote.ID, suite.client.ID)
	suite.Error(err)

	var rentals int64
	suite.db.Model(&models.Rental{}).Where("quote_id = ?", quote.ID).Count(&rentals)
	suite.Equal(int64(1), rentals)
}

func (suite *QuoteServiceTestSuite) TestApprovePendingQuoteFails() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	_, err := suite.service.ApproveQuote(quote.ID, suite.client.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "answered")
}

func (suite *QuoteServiceTestSuite) TestApproveQuoteWrongClient() {
	quote := createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusAnswered)
	other := createTestUser(suite.T(), suite.db, models.UserTypeClient)

	_, err := suite.service.ApproveQuote(quote.ID, other.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")
}

func (suite *QuoteServiceTestSuite) TestSearchQuotesScopedByRole() {
	createTestQuote(suite.T(), suite.db, suite.machine, suite.client.ID, models.QuoteStatusPending)

	otherClient := createTestUser(suite.T(), suite.db, models.UserTypeClient)

	quotes, total, err := suite.service.SearchQuotes(QuoteSearchParams{}, suite.client.ID)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(quotes, 1)

	quotes, total, err = suite.service.SearchQuotes(QuoteSearchParams{}, otherClient.ID)
	suite.NoError(err)
	suite.Equal(int64(0), total)
	suite.Empty(quotes)

	quotes, total, err = suite.service.SearchQuotes(QuoteSearchParams{}, suite.landlord.ID)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(quotes, 1)
}

func TestQuoteServiceSuite(t *testing.T) {
	suite.Run(t, new(QuoteServiceTestSuite))
}

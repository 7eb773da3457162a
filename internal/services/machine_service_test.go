// internal/services/machine_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
)

type MachineServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *MachineService
	landlord *models.User
	category *models.Category
}

func (suite *MachineServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewMachineService(suite.db)

	suite.landlord = createTestUser(suite.T(), suite.db, models.UserTypeLandlord)
	suite.category = createTestCategory(suite.T(), suite.db)
}

func (suite *MachineServiceTestSuite) TestCreateMachine() {
	machine, err := suite.service.CreateMachine(suite.landlord.ID, &CreateMachineRequest{
		CategoryID:  suite.category.ID,
		Name:        "Retroescavadeira 416F2",
		Brand:       "Caterpillar",
		Year:        2021,
		City:        "Campinas",
		State:       "SP",
		Images:      []string{"https://cdn.locmaq.com.br/machines/416f2.jpg"},
		Specifications: map[string]interface{}{
			"peso_operacional": "11 t",
		},
	})

	suite.NoError(err)
	suite.Equal(models.MachineStatusAvailable, machine.Status)
	suite.Equal(suite.landlord.ID, machine.LandlordID)
	suite.Len(machine.Images, 1)
}

func (suite *MachineServiceTestSuite) TestCreateMachineClientRejected() {
	client := createTestUser(suite.T(), suite.db, models.UserTypeClient)

	_, err := suite.service.CreateMachine(client.ID, &CreateMachineRequest{
		CategoryID: suite.category.ID,
		Name:       "Retroescavadeira 416F2",
	})

	suite.Error(err)
	suite.Contains(err.Error(), "only landlords")
}

func (suite *MachineServiceTestSuite) TestCreateMachineUnknownCategory() {
	other := createTestCategory(suite.T(), suite.db)
	suite.Require().NoError(suite.db.Unscoped().Delete(other).Error)

	_, err := suite.service.CreateMachine(suite.landlord.ID, &CreateMachineRequest{
		CategoryID: other.ID,
		Name:       "Retroescavadeira 416F2",
	})

	suite.Error(err)
	suite.Contains(err.Error(), "category not found")
}

func (suite *MachineServiceTestSuite) TestUpdateMachine() {
	machine := createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)

	name := "Escavadeira 320 GC"
	status := models.MachineStatusMaintenance
	updated, err := suite.service.UpdateMachine(machine.ID, suite.landlord.ID, &UpdateMachineRequest{
		Name:   &name,
		Status: &status,
	})

	suite.NoError(err)
	suite.Equal("Escavadeira 320 GC", updated.Name)
	suite.Equal(models.MachineStatusMaintenance, updated.Status)
}

func (suite *MachineServiceTestSuite) TestUpdateMachineInvalidStatus() {
	machine := createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)

	status := models.MachineStatus("emprestada")
	_, err := suite.service.UpdateMachine(machine.ID, suite.landlord.ID, &UpdateMachineRequest{
		Status: &status,
	})

	suite.Error(err)
	suite.Contains(err.Error(), "invalid machine status")
}

func (suite *MachineServiceTestSuite) TestUpdateMachineWrongOwner() {
	machine := createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)
	other := createTestUser(suite.T(), suite.db, models.UserTypeLandlord)

	name := "Escavadeira 320 GC"
	_, err := suite.service.UpdateMachine(machine.ID, other.ID, &UpdateMachineRequest{Name: &name})

	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")
}

func (suite *MachineServiceTestSuite) TestDeleteMachineWithActiveRentalBlocked() {
	machine := createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)
	client := createTestUser(suite.T(), suite.db, models.UserTypeClient)
	quote := createTestQuote(suite.T(), suite.db, machine, client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, quote, models.RentalStatusActive)

	err := suite.service.DeleteMachine(machine.ID, suite.landlord.ID)

	suite.Error(err)
	suite.Contains(err.Error(), "pending or active rentals")
}

func (suite *MachineServiceTestSuite) TestDeleteMachineAfterCompletion() {
	machine := createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)
	client := createTestUser(suite.T(), suite.db, models.UserTypeClient)
	quote := createTestQuote(suite.T(), suite.db, machine, client.ID, models.QuoteStatusApproved)
	createTestRental(suite.T(), suite.db, quote, models.RentalStatusCompleted)

	err := suite.service.DeleteMachine(machine.ID, suite.landlord.ID)

	suite.NoError(err)
}

func (suite *MachineServiceTestSuite) TestSearchMachinesDefaultsToAvailable() {
	createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)

	parked := createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)
	suite.Require().NoError(suite.db.Model(parked).
		Update("status", models.MachineStatusMaintenance).Error)

	_, total, err := suite.service.SearchMachines(MachineSearchParams{})
	suite.NoError(err)
	suite.Equal(int64(1), total)

	status := models.MachineStatusMaintenance
	_, total, err = suite.service.SearchMachines(MachineSearchParams{Status: &status})
	suite.NoError(err)
	suite.Equal(int64(1), total)
}

func (suite *MachineServiceTestSuite) TestGetMachineIncrementsViewCount() {
	machine := createTestMachine(suite.T(), suite.db, suite.landlord.ID, suite.category.ID)

	_, err := suite.service.GetMachine(machine.ID)
	suite.NoError(err)
	_, err = suite.service.GetMachine(machine.ID)
	suite.NoError(err)

	var reloaded models.Machine
	suite.Require().NoError(suite.db.First(&reloaded, machine.ID).Error)
	suite.Equal(int64(2), reloaded.ViewCount)
}

func (suite *MachineServiceTestSuite) TestAccessoryLifecycle() {
	accessory, err := suite.service.CreateAccessory(suite.landlord.ID, &CreateAccessoryRequest{
		Name: "Caçamba 0,8 m³",
	})
	suite.Require().NoError(err)

	list, err := suite.service.ListLandlordAccessories(suite.landlord.ID)
	suite.NoError(err)
	suite.Len(list, 1)

	other := createTestUser(suite.T(), suite.db, models.UserTypeLandlord)
	err = suite.service.DeleteAccessory(accessory.ID, other.ID)
	suite.Error(err)
	suite.Contains(err.Error(), "unauthorized")

	suite.NoError(suite.service.DeleteAccessory(accessory.ID, suite.landlord.ID))
}

func TestMachineServiceSuite(t *testing.T) {
	suite.Run(t, new(MachineServiceTestSuite))
}

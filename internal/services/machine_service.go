// internal/services/machine_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

type MachineService struct {
	db *gorm.DB
}

type CreateMachineRequest struct {
	CategoryID     uuid.UUID              `json:"category_id" validate:"required"`
	Name           string                 `json:"name" validate:"required,min=3,max=255"`
	Brand          string                 `json:"brand,omitempty"`
	Model          string                 `json:"model,omitempty"`
	Year           int                    `json:"year,omitempty"`
	Description    string                 `json:"description,omitempty"`
	Images         []string               `json:"images,omitempty"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	City           string                 `json:"city,omitempty"`
	State          string                 `json:"state,omitempty"`
}

type UpdateMachineRequest struct {
	CategoryID     *uuid.UUID             `json:"category_id,omitempty"`
	Name           *string                `json:"name,omitempty"`
	Brand          *string                `json:"brand,omitempty"`
	Model          *string                `json:"model,omitempty"`
	Year           *int                   `json:"year,omitempty"`
	Description    *string                `json:"description,omitempty"`
	Images         []string               `json:"images,omitempty"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	Status         *models.MachineStatus  `json:"status,omitempty"`
	City           *string                `json:"city,omitempty"`
	State          *string                `json:"state,omitempty"`
}

type CreateAccessoryRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

type MachineSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID            `json:"category_id,omitempty"`
	LandlordID *uuid.UUID            `json:"landlord_id,omitempty"`
	Status     *models.MachineStatus `json:"status,omitempty"`
	City       string                `json:"city,omitempty"`
	State      string                `json:"state,omitempty"`
}

func NewMachineService(db *gorm.DB) *MachineService {
	return &MachineService{db: db}
}

func (s *MachineService) CreateMachine(landlordID uuid.UUID, req *CreateMachineRequest) (*models.Machine, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify landlord exists and is eligible
	var landlord models.User
	if err := s.db.First(&landlord, landlordID).Error; err != nil {
		return nil, fmt.Errorf("landlord not found: %w", err)
	}

	if landlord.Status != models.UserStatusActive {
		return nil, errors.New("landlord account is not active")
	}

	if landlord.UserType != models.UserTypeLandlord && landlord.UserType != models.UserTypeAdmin {
		return nil, errors.New("only landlords can list machines")
	}

	// Category must exist
	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	machine := &models.Machine{
		LandlordID:     landlordID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Brand:          req.Brand,
		ModelName:      req.Model,
		Year:           req.Year,
		Description:    req.Description,
		Images:         pq.StringArray(req.Images),
		Specifications: models.JSONB(req.Specifications),
		Status:         models.MachineStatusAvailable,
		City:           req.City,
		State:          req.State,
	}

	if err := s.db.Create(machine).Error; err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}

	if err := s.db.Preload("Category").Preload("Landlord").First(machine, machine.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload machine: %w", err)
	}

	return machine, nil
}

func (s *MachineService) UpdateMachine(id, userID uuid.UUID, req *UpdateMachineRequest) (*models.Machine, error) {
	machine, err := s.findMachineForOwner(id, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, *req.CategoryID).Error; err != nil {
			return nil, errors.New("category not found")
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Specifications != nil {
		updates["specifications"] = models.JSONB(req.Specifications)
	}
	if req.Status != nil {
		if !isValidMachineStatus(*req.Status) {
			return nil, errors.New("invalid machine status")
		}
		updates["status"] = *req.Status
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}

	if len(updates) == 0 {
		return machine, nil
	}

	if err := s.db.Model(machine).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update machine: %w", err)
	}

	if err := s.db.Preload("Category").Preload("Landlord").First(machine, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload machine: %w", err)
	}

	return machine, nil
}

// DeleteMachine removes a listing. Machines tied to an active rental stay
// until the rental closes.
func (s *MachineService) DeleteMachine(id, userID uuid.UUID) error {
	machine, err := s.findMachineForOwner(id, userID)
	if err != nil {
		return err
	}

	var active int64
	if err := s.db.Model(&models.Rental{}).
		Where("machine_id = ? AND status IN ?", id,
			[]models.RentalStatus{models.RentalStatusPending, models.RentalStatusActive}).
		Count(&active).Error; err != nil {
		return fmt.Errorf("failed to check rentals: %w", err)
	}
	if active > 0 {
		return errors.New("machine has pending or active rentals")
	}

	if err := s.db.Delete(machine).Error; err != nil {
		return fmt.Errorf("failed to delete machine: %w", err)
	}

	return nil
}

func (s *MachineService) GetMachine(id uuid.UUID) (*models.Machine, error) {
	var machine models.Machine
	if err := s.db.Preload("Category").Preload("Landlord").
		First(&machine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("machine not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// View count is best effort
	s.db.Model(&machine).UpdateColumn("view_count", gorm.Expr("view_count + 1"))

	return &machine, nil
}

func (s *MachineService) SearchMachines(params MachineSearchParams) ([]models.Machine, int64, error) {
	query := s.db.Model(&models.Machine{}).
		Preload("Category").Preload("Landlord")

	// Apply filters
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.LandlordID != nil {
		query = query.Where("landlord_id = ?", *params.LandlordID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		// Public search only shows rentable machines
		query = query.Where("status = ?", models.MachineStatusAvailable)
	}

	if params.City != "" {
		query = query.Where("city ILIKE ?", "%"+params.City+"%")
	}

	if params.State != "" {
		query = query.Where("state = ?", params.State)
	}

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ? OR description ILIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count machines: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "name", "year", "view_count"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	// Execute query
	var machines []models.Machine
	if err := query.Find(&machines).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch machines: %w", err)
	}

	return machines, total, nil
}

func (s *MachineService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *MachineService) CreateAccessory(landlordID uuid.UUID, req *CreateAccessoryRequest) (*models.Accessory, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var landlord models.User
	if err := s.db.First(&landlord, landlordID).Error; err != nil {
		return nil, fmt.Errorf("landlord not found: %w", err)
	}

	if landlord.UserType != models.UserTypeLandlord && landlord.UserType != models.UserTypeAdmin {
		return nil, errors.New("only landlords can list accessories")
	}

	accessory := &models.Accessory{
		LandlordID:  landlordID,
		Name:        req.Name,
		Description: req.Description,
		Images:      pq.StringArray(req.Images),
	}

	if err := s.db.Create(accessory).Error; err != nil {
		return nil, fmt.Errorf("failed to create accessory: %w", err)
	}

	return accessory, nil
}

func (s *MachineService) ListLandlordAccessories(landlordID uuid.UUID) ([]models.Accessory, error) {
	var accessories []models.Accessory
	if err := s.db.Where("landlord_id = ?", landlordID).
		Order("name ASC").
		Find(&accessories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch accessories: %w", err)
	}
	return accessories, nil
}

func (s *MachineService) DeleteAccessory(id, userID uuid.UUID) error {
	var accessory models.Accessory
	if err := s.db.First(&accessory, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("accessory not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if accessory.LandlordID != userID {
		var caller models.User
		if err := s.db.First(&caller, userID).Error; err != nil {
			return errors.New("unauthorized to delete accessory")
		}
		if caller.UserType != models.UserTypeAdmin {
			return errors.New("unauthorized to delete accessory")
		}
	}

	if err := s.db.Delete(&accessory).Error; err != nil {
		return fmt.Errorf("failed to delete accessory: %w", err)
	}

	return nil
}

func (s *MachineService) findMachineForOwner(id, userID uuid.UUID) (*models.Machine, error) {
	var machine models.Machine
	if err := s.db.First(&machine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("machine not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if machine.LandlordID != userID {
		var caller models.User
		if err := s.db.First(&caller, userID).Error; err != nil {
			return nil, errors.New("unauthorized to manage machine")
		}
		if caller.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to manage machine")
		}
	}

	return &machine, nil
}

func isValidMachineStatus(status models.MachineStatus) bool {
	switch status {
	case models.MachineStatusAvailable, models.MachineStatusMaintenance, models.MachineStatusInactive:
		return true
	}
	return false
}

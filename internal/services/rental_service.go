// internal/services/rental_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

type RentalService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type RejectRentalRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RentalSearchParams struct {
	utils.PaginationParams
	MachineID  *uuid.UUID           `json:"machine_id,omitempty"`
	ClientID   *uuid.UUID           `json:"client_id,omitempty"`
	LandlordID *uuid.UUID           `json:"landlord_id,omitempty"`
	Status     *models.RentalStatus `json:"status,omitempty"`
}

func NewRentalService(db *gorm.DB, notificationService *NotificationService) *RentalService {
	return &RentalService{
		db:                  db,
		notificationService: notificationService,
	}
}

// ApproveRental is the landlord's confirmation that the machine was handed
// over. It starts the active period.
func (s *RentalService) ApproveRental(rentalID, landlordID uuid.UUID) (*models.Rental, error) {
	rental, err := s.findRentalForLandlord(rentalID, landlordID)
	if err != nil {
		return nil, err
	}

	if rental.Status != models.RentalStatusPending {
		return nil, errors.New("rental is no longer pending")
	}

	now := time.Now()
	res := s.db.Model(&models.Rental{}).
		Where("id = ? AND status = ?", rentalID, models.RentalStatusPending).
		Updates(map[string]interface{}{
			"status":     models.RentalStatusActive,
			"start_date": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update rental: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("rental is no longer pending")
	}

	if err := s.db.Preload("Machine").Preload("Client").Preload("Landlord").
		Preload("Accessories").First(rental, rentalID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload rental: %w", err)
	}

	// Notify the client
	if s.notificationService != nil {
		go s.notificationService.SendRentalApprovedNotification(rental)
	}

	return rental, nil
}

// RejectRental cancels a pending rental before handover. Active rentals can
// only end through the return flow.
func (s *RentalService) RejectRental(rentalID, landlordID uuid.UUID, req *RejectRentalRequest) (*models.Rental, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	rental, err := s.findRentalForLandlord(rentalID, landlordID)
	if err != nil {
		return nil, err
	}

	if rental.Status != models.RentalStatusPending {
		return nil, errors.New("rental is no longer pending")
	}

	now := time.Now()
	res := s.db.Model(&models.Rental{}).
		Where("id = ? AND status = ?", rentalID, models.RentalStatusPending).
		Updates(map[string]interface{}{
			"status":              models.RentalStatusCancelled,
			"cancellation_reason": req.Reason,
			"cancelled_at":        now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update rental: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("rental is no longer pending")
	}

	if err := s.db.Preload("Machine").Preload("Client").First(rental, rentalID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload rental: %w", err)
	}

	// Notify the client
	if s.notificationService != nil {
		go s.notificationService.SendRentalRejectedNotification(rental)
	}

	return rental, nil
}

func (s *RentalService) GetRental(id, userID uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	if err := s.db.Preload("Machine").Preload("Machine.Category").Preload("Client").
		Preload("Landlord").Preload("Accessories").Preload("Quote").
		Preload("Returns", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&rental, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rental not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Check permissions
	if rental.ClientID != userID && rental.LandlordID != userID {
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil {
			return nil, errors.New("unauthorized to view rental")
		}
		if user.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to view rental")
		}
	}

	return &rental, nil
}

func (s *RentalService) SearchRentals(params RentalSearchParams, userID uuid.UUID) ([]models.Rental, int64, error) {
	query := s.db.Model(&models.Rental{}).
		Preload("Machine").Preload("Client").Preload("Landlord").Preload("Accessories")

	// Apply user-based filtering
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, 0, errors.New("user not found")
	}

	if user.UserType != models.UserTypeAdmin {
		// Non-admin users only see rentals they participate in
		query = query.Where("client_id = ? OR landlord_id = ?", userID, userID)
	}

	// Apply filters
	if params.MachineID != nil {
		query = query.Where("machine_id = ?", *params.MachineID)
	}

	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if params.LandlordID != nil {
		query = query.Where("landlord_id = ?", *params.LandlordID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rentals: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "start_date", "end_date", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	// Execute query
	var rentals []models.Rental
	if err := query.Find(&rentals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rentals: %w", err)
	}

	return rentals, total, nil
}

// GetRentalTimeline returns the lifecycle steps of a rental together with
// its latest return, so clients can track where the process stands.
func (s *RentalService) GetRentalTimeline(id, userID uuid.UUID) ([]models.TimelineStep, error) {
	rental, err := s.GetRental(id, userID)
	if err != nil {
		return nil, err
	}

	steps := rental.Timeline()
	if len(rental.Returns) > 0 {
		steps = append(steps, rental.Returns[0].Timeline()...)
	}

	return steps, nil
}

func (s *RentalService) findRentalForLandlord(rentalID, landlordID uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	if err := s.db.First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rental not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if rental.LandlordID != landlordID {
		var caller models.User
		if err := s.db.First(&caller, landlordID).Error; err != nil {
			return nil, errors.New("unauthorized to manage rental")
		}
		if caller.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to manage rental")
		}
	}

	return &rental, nil
}

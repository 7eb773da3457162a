// internal/services/return_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/database"
	"github.com/locmaq/locmaq-backend/internal/models"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

type ReturnService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type RequestReturnRequest struct {
	Method        models.ReturnMethod `json:"method" validate:"required,oneof=store pickup"`
	ReturnAddress string              `json:"return_address,omitempty"`
	Observations  string              `json:"observations,omitempty"`
}

func NewReturnService(db *gorm.DB, notificationService *NotificationService) *ReturnService {
	return &ReturnService{
		db:                  db,
		notificationService: notificationService,
	}
}

// RequestReturn opens a return for an active rental. Pickup returns must
// carry an address; at most one non-terminal return exists per rental.
func (s *ReturnService) RequestReturn(rentalID, clientID uuid.UUID, req *RequestReturnRequest) (*models.Return, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Method == models.ReturnMethodPickup && req.ReturnAddress == "" {
		return nil, errors.New("return address is required for pickup returns")
	}
	if req.Method == models.ReturnMethodStore {
		// Store returns happen at the landlord's address
		req.ReturnAddress = ""
	}

	var rental models.Rental
	if err := s.db.First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rental not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if rental.ClientID != clientID {
		return nil, errors.New("unauthorized to request return")
	}

	if rental.Status != models.RentalStatusActive {
		return nil, errors.New("only active rentals can be returned")
	}

	// Refuse a second open return for the same rental
	var open int64
	if err := s.db.Model(&models.Return{}).
		Where("rental_id = ? AND status IN ?", rentalID,
			[]models.ReturnStatus{models.ReturnStatusPending, models.ReturnStatusApproved}).
		Count(&open).Error; err != nil {
		return nil, fmt.Errorf("failed to check open returns: %w", err)
	}
	if open > 0 {
		return nil, errors.New("rental already has an open return")
	}

	ret := &models.Return{
		RentalID:      rentalID,
		Method:        req.Method,
		ReturnAddress: req.ReturnAddress,
		Observations:  req.Observations,
		Status:        models.ReturnStatusPending,
		RequestedDate: time.Now(),
	}

	if err := s.db.Create(ret).Error; err != nil {
		return nil, fmt.Errorf("failed to create return: %w", err)
	}

	if err := s.db.Preload("Rental").Preload("Rental.Machine").First(ret, ret.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload return: %w", err)
	}

	// Notify the landlord
	if s.notificationService != nil {
		go s.notificationService.SendReturnRequestedNotification(ret, &rental)
	}

	return ret, nil
}

// ApproveReturn acknowledges the return request. Inspection and handback
// happen offline before the landlord completes it.
func (s *ReturnService) ApproveReturn(returnID, landlordID uuid.UUID) (*models.Return, error) {
	ret, rental, err := s.findReturnForLandlord(returnID, landlordID)
	if err != nil {
		return nil, err
	}

	if ret.Status != models.ReturnStatusPending {
		return nil, errors.New("return is no longer pending")
	}

	res := s.db.Model(&models.Return{}).
		Where("id = ? AND status = ?", returnID, models.ReturnStatusPending).
		Update("status", models.ReturnStatusApproved)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update return: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("return is no longer pending")
	}

	if err := s.db.Preload("Rental").First(ret, returnID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload return: %w", err)
	}

	// Notify the client
	if s.notificationService != nil {
		go s.notificationService.SendReturnApprovedNotification(ret, rental)
	}

	return ret, nil
}

// CompleteReturn closes the cycle: the return and its rental finish
// together or not at all.
func (s *ReturnService) CompleteReturn(returnID, landlordID uuid.UUID) (*models.Return, error) {
	ret, rental, err := s.findReturnForLandlord(returnID, landlordID)
	if err != nil {
		return nil, err
	}

	if ret.Status != models.ReturnStatusApproved {
		return nil, errors.New("only approved returns can be completed")
	}

	if rental.Status != models.RentalStatusActive {
		return nil, errors.New("rental is not active")
	}

	now := time.Now()
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.Return{}).
			Where("id = ? AND status = ?", returnID, models.ReturnStatusApproved).
			Updates(map[string]interface{}{
				"status":         models.ReturnStatusCompleted,
				"completed_date": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update return: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.New("return is no longer approved")
		}

		res = tx.Model(&models.Rental{}).
			Where("id = ? AND status = ?", ret.RentalID, models.RentalStatusActive).
			Updates(map[string]interface{}{
				"status":   models.RentalStatusCompleted,
				"end_date": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update rental: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.New("rental is not active")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Rental").Preload("Rental.Machine").First(ret, returnID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload return: %w", err)
	}

	// Notify the client
	if s.notificationService != nil {
		go s.notificationService.SendReturnCompletedNotification(ret, rental)
	}

	return ret, nil
}

func (s *ReturnService) GetReturn(id, userID uuid.UUID) (*models.Return, error) {
	var ret models.Return
	if err := s.db.Preload("Rental").Preload("Rental.Machine").First(&ret, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("return not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Check permissions
	if ret.Rental.ClientID != userID && ret.Rental.LandlordID != userID {
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil {
			return nil, errors.New("unauthorized to view return")
		}
		if user.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to view return")
		}
	}

	return &ret, nil
}

func (s *ReturnService) ListRentalReturns(rentalID, userID uuid.UUID) ([]models.Return, error) {
	var rental models.Rental
	if err := s.db.First(&rental, rentalID).Error; err != nil {
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

	var returns []models.Return
	if err := s.db.Where("rental_id = ?", rentalID).
		Order("created_at DESC").
		Find(&returns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch returns: %w", err)
	}

	return returns, nil
}

func (s *ReturnService) findReturnForLandlord(returnID, landlordID uuid.UUID) (*models.Return, *models.Rental, error) {
	var ret models.Return
	if err := s.db.First(&ret, returnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("return not found")
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	var rental models.Rental
	if err := s.db.First(&rental, ret.RentalID).Error; err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if rental.LandlordID != landlordID {
		var caller models.User
		if err := s.db.First(&caller, landlordID).Error; err != nil {
			return nil, nil, errors.New("unauthorized to manage return")
		}
		if caller.UserType != models.UserTypeAdmin {
			return nil, nil, errors.New("unauthorized to manage return")
		}
	}

	return &ret, &rental, nil
}

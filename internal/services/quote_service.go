// internal/services/quote_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/database"
	"github.com/locmaq/locmaq-backend/internal/models"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

type QuoteService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type SubmitQuoteRequest struct {
	MachineID       uuid.UUID   `json:"machine_id" validate:"required"`
	RentalPeriod    string      `json:"rental_period" validate:"required"`
	DeliveryAddress string      `json:"delivery_address" validate:"required"`
	Observations    string      `json:"observations,omitempty"`
	AccessoryIDs    []uuid.UUID `json:"accessory_ids,omitempty"`
}

type RespondQuoteRequest struct {
	Response string          `json:"response" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"required"`
}

type RejectQuoteRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type QuoteSearchParams struct {
	utils.PaginationParams
	MachineID  *uuid.UUID          `json:"machine_id,omitempty"`
	ClientID   *uuid.UUID          `json:"client_id,omitempty"`
	LandlordID *uuid.UUID          `json:"landlord_id,omitempty"`
	Status     *models.QuoteStatus `json:"status,omitempty"`
}

func NewQuoteService(db *gorm.DB, notificationService *NotificationService) *QuoteService {
	return &QuoteService{
		db:                  db,
		notificationService: notificationService,
	}
}

// SubmitQuote creates a pending quote plus its accessory join rows. The
// machine must exist and be available for rent.
func (s *QuoteService) SubmitQuote(clientID uuid.UUID, req *SubmitQuoteRequest) (*models.Quote, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify client exists and is eligible
	var client models.User
	if err := s.db.First(&client, clientID).Error; err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	if client.Status != models.UserStatusActive {
		return nil, errors.New("client account is not active")
	}

	if client.UserType != models.UserTypeClient {
		return nil, errors.New("only clients can request quotes")
	}

	// Get the machine
	var machine models.Machine
	if err := s.db.First(&machine, req.MachineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("machine not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if machine.Status != models.MachineStatusAvailable {
		return nil, errors.New("machine is not available for rent")
	}

	// Resolve requested accessories; they must belong to the machine's landlord
	var accessories []models.Accessory
	if len(req.AccessoryIDs) > 0 {
		if err := s.db.Where("id IN ? AND landlord_id = ?", req.AccessoryIDs, machine.LandlordID).
			Find(&accessories).Error; err != nil {
			return nil, fmt.Errorf("failed to load accessories: %w", err)
		}
		if len(accessories) != len(req.AccessoryIDs) {
			return nil, errors.New("one or more accessories not found for this landlord")
		}
	}

	quote := &models.Quote{
		MachineID:       machine.ID,
		ClientID:        clientID,
		LandlordID:      machine.LandlordID,
		RentalPeriod:    req.RentalPeriod,
		DeliveryAddress: req.DeliveryAddress,
		Observations:    req.Observations,
		Status:          models.QuoteStatusPending,
		Accessories:     accessories,
	}

	// Quote row and join rows go in together
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		return tx.Omit("Accessories.*").Create(quote).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	// Load relationships
	if err := s.db.Preload("Machine").Preload("Client").Preload("Landlord").
		Preload("Accessories").First(quote, quote.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	// Notify the landlord
	if s.notificationService != nil {
		go s.notificationService.SendQuoteReceivedNotification(quote)
	}

	return quote, nil
}

// RespondToQuote answers a pending quote with a price. Response text and
// price are only ever set together, on the pending→answered transition.
func (s *QuoteService) RespondToQuote(quoteID, landlordID uuid.UUID, req *RespondQuoteRequest) (*models.Quote, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("price must be greater than zero")
	}

	quote, err := s.findQuoteForLandlord(quoteID, landlordID)
	if err != nil {
		return nil, err
	}

	if quote.Status != models.QuoteStatusPending {
		return nil, errors.New("quote is no longer pending")
	}

	// Conditional update so two racing responses cannot both win
	now := time.Now()
	res := s.db.Model(&models.Quote{}).
		Where("id = ? AND status = ?", quoteID, models.QuoteStatusPending).
		Updates(map[string]interface{}{
			"status":         models.QuoteStatusAnswered,
			"response":       req.Response,
			"response_price": req.Price,
			"answered_at":    now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update quote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("quote is no longer pending")
	}

	if err := s.db.Preload("Machine").Preload("Client").Preload("Accessories").First(quote, quoteID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	// Notify the client
	if s.notificationService != nil {
		go s.notificationService.SendQuoteAnsweredNotification(quote)
	}

	return quote, nil
}

// RejectQuote moves a pending quote to its terminal rejected state.
func (s *QuoteService) RejectQuote(quoteID, landlordID uuid.UUID, req *RejectQuoteRequest) (*models.Quote, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	quote, err := s.findQuoteForLandlord(quoteID, landlordID)
	if err != nil {
		return nil, err
	}

	if quote.Status != models.QuoteStatusPending {
		return nil, errors.New("quote is no longer pending")
	}

	now := time.Now()
	res := s.db.Model(&models.Quote{}).
		Where("id = ? AND status = ?", quoteID, models.QuoteStatusPending).
		Updates(map[string]interface{}{
			"status":      models.QuoteStatusRejected,
			"response":    req.Reason,
			"rejected_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update quote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("quote is no longer pending")
	}

	if err := s.db.Preload("Machine").Preload("Client").First(quote, quoteID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	// Notify the client
	if s.notificationService != nil {
		go s.notificationService.SendQuoteRejectedNotification(quote)
	}

	return quote, nil
}

// ApproveQuote is the one transition with cross-entity side effects: it
// marks the quote approved and spawns the pending rental, carrying over the
// agreed price and the accessory selection. The quote update, rental insert
// and accessory join rows commit in a single transaction.
func (s *QuoteService) ApproveQuote(quoteID, clientID uuid.UUID) (*models.Rental, error) {
	// Find quote
	var quote models.Quote
	if err := s.db.Preload("Accessories").First(&quote, quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("quote not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Verify the caller is the requesting client or an admin
	if quote.ClientID != clientID {
		var caller models.User
		if err := s.db.First(&caller, clientID).Error; err != nil {
			return nil, errors.New("unauthorized to approve quote")
		}
		if caller.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to approve quote")
		}
	}

	// Preconditions are user-facing validation errors, never silent no-ops
	if quote.Status != models.QuoteStatusAnswered {
		return nil, errors.New("only answered quotes can be approved")
	}
	if !quote.ResponsePrice.Valid {
		return nil, errors.New("quote has no response price")
	}

	rental := &models.Rental{
		QuoteID:         quote.ID,
		MachineID:       quote.MachineID,
		ClientID:        quote.ClientID,
		LandlordID:      quote.LandlordID,
		RentalPeriod:    quote.RentalPeriod,
		DeliveryAddress: quote.DeliveryAddress,
		Status:          models.RentalStatusPending,
		Price:           quote.ResponsePrice.Decimal,
		Accessories:     quote.Accessories,
	}

	now := time.Now()
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		// Exactly one winner when two approvals race
		res := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", quoteID, models.QuoteStatusAnswered).
			Updates(map[string]interface{}{
				"status":      models.QuoteStatusApproved,
				"approved_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update quote: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.New("quote is no longer awaiting approval")
		}

		if err := tx.Omit("Accessories.*").Create(rental).Error; err != nil {
			return fmt.Errorf("failed to create rental: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Machine").Preload("Client").Preload("Landlord").
		Preload("Accessories").First(rental, rental.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload rental: %w", err)
	}

	// Notify the landlord
	if s.notificationService != nil {
		go s.notificationService.SendQuoteApprovedNotification(&quote, rental)
	}

	return rental, nil
}

func (s *QuoteService) GetQuote(id, userID uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	if err := s.db.Preload("Machine").Preload("Machine.Category").Preload("Client").
		Preload("Landlord").Preload("Accessories").
		First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("quote not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Check permissions
	if quote.ClientID != userID && quote.LandlordID != userID {
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil {
			return nil, errors.New("unauthorized to view quote")
		}
		if user.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to view quote")
		}
	}

	return &quote, nil
}

func (s *QuoteService) SearchQuotes(params QuoteSearchParams, userID uuid.UUID) ([]models.Quote, int64, error) {
	query := s.db.Model(&models.Quote{}).
		Preload("Machine").Preload("Client").Preload("Landlord").Preload("Accessories")

	// Apply user-based filtering
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, 0, errors.New("user not found")
	}

	if user.UserType != models.UserTypeAdmin {
		// Non-admin users only see quotes they participate in
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
		return nil, 0, fmt.Errorf("failed to count quotes: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "answered_at", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	// Execute query
	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	return quotes, total, nil
}

func (s *QuoteService) findQuoteForLandlord(quoteID, landlordID uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	if err := s.db.First(&quote, quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("quote not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if quote.LandlordID != landlordID {
		var caller models.User
		if err := s.db.First(&caller, landlordID).Error; err != nil {
			return nil, errors.New("unauthorized to manage quote")
		}
		if caller.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to manage quote")
		}
	}

	return &quote, nil
}

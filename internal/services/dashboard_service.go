// internal/services/dashboard_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
)

type DashboardService struct {
	db *gorm.DB
}

type LandlordDashboardStats struct {
	TotalMachines      int64           `json:"total_machines"`
	AvailableMachines  int64           `json:"available_machines"`
	TodayQuotes        int64           `json:"today_quotes"`
	PendingQuotes      int64           `json:"pending_quotes"`
	AnsweredQuotes     int64           `json:"answered_quotes"`
	PendingRentals     int64           `json:"pending_rentals"`
	ActiveRentals      int64           `json:"active_rentals"`
	ActiveRentalsValue decimal.Decimal `json:"active_rentals_value"`
	CompletedRentals   int64           `json:"completed_rentals"`
	PendingReturns     int64           `json:"pending_returns"`
	MonthlyRevenue     decimal.Decimal `json:"monthly_revenue"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
}

type ClientDashboardStats struct {
	PendingQuotes    int64           `json:"pending_quotes"`
	AnsweredQuotes   int64           `json:"answered_quotes"`
	ActiveRentals    int64           `json:"active_rentals"`
	CompletedRentals int64           `json:"completed_rentals"`
	OpenReturns      int64           `json:"open_returns"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// GetLandlordDashboard aggregates fleet, quote and rental counters for a
// landlord. Counters are recomputed from the row set on every call; the
// first failed read aborts the whole aggregate. Revenue only counts
// completed rentals; cancelled ones never carry money.
func (s *DashboardService) GetLandlordDashboard(landlordID uuid.UUID) (*LandlordDashboardStats, error) {
	var landlord models.User
	if err := s.db.First(&landlord, landlordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if landlord.UserType != models.UserTypeLandlord && landlord.UserType != models.UserTypeAdmin {
		return nil, errors.New("dashboard is only available to landlords")
	}

	stats := &LandlordDashboardStats{}
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalMachines, s.db.Model(&models.Machine{}).
			Where("landlord_id = ?", landlordID)},
		{&stats.AvailableMachines, s.db.Model(&models.Machine{}).
			Where("landlord_id = ? AND status = ?", landlordID, models.MachineStatusAvailable)},
		{&stats.TodayQuotes, s.db.Model(&models.Quote{}).
			Where("landlord_id = ? AND created_at >= ?", landlordID, todayStart)},
		{&stats.PendingQuotes, s.db.Model(&models.Quote{}).
			Where("landlord_id = ? AND status = ?", landlordID, models.QuoteStatusPending)},
		{&stats.AnsweredQuotes, s.db.Model(&models.Quote{}).
			Where("landlord_id = ? AND status = ?", landlordID, models.QuoteStatusAnswered)},
		{&stats.PendingRentals, s.db.Model(&models.Rental{}).
			Where("landlord_id = ? AND status = ?", landlordID, models.RentalStatusPending)},
		{&stats.ActiveRentals, s.db.Model(&models.Rental{}).
			Where("landlord_id = ? AND status = ?", landlordID, models.RentalStatusActive)},
		{&stats.CompletedRentals, s.db.Model(&models.Rental{}).
			Where("landlord_id = ? AND status = ?", landlordID, models.RentalStatusCompleted)},
		{&stats.PendingReturns, s.db.Model(&models.Return{}).
			Joins("JOIN rentals ON rentals.id = returns.rental_id").
			Where("rentals.landlord_id = ? AND returns.status = ?", landlordID, models.ReturnStatusPending)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to aggregate dashboard: %w", err)
		}
	}

	var activeValue, totalRevenue, monthlyRevenue decimal.NullDecimal
	if err := s.db.Model(&models.Rental{}).
		Where("landlord_id = ? AND status = ?", landlordID, models.RentalStatusActive).
		Select("COALESCE(SUM(price), 0)").Scan(&activeValue).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard: %w", err)
	}
	if err := s.db.Model(&models.Rental{}).
		Where("landlord_id = ? AND status = ?", landlordID, models.RentalStatusCompleted).
		Select("COALESCE(SUM(price), 0)").Scan(&totalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard: %w", err)
	}
	if err := s.db.Model(&models.Rental{}).
		Where("landlord_id = ? AND status = ? AND end_date >= ?",
			landlordID, models.RentalStatusCompleted, monthStart).
		Select("COALESCE(SUM(price), 0)").Scan(&monthlyRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard: %w", err)
	}

	stats.ActiveRentalsValue = activeValue.Decimal
	stats.TotalRevenue = totalRevenue.Decimal
	stats.MonthlyRevenue = monthlyRevenue.Decimal

	return stats, nil
}

// GetClientDashboard aggregates a client's quote, rental and return
// counters.
func (s *DashboardService) GetClientDashboard(clientID uuid.UUID) (*ClientDashboardStats, error) {
	var client models.User
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	stats := &ClientDashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.PendingQuotes, s.db.Model(&models.Quote{}).
			Where("client_id = ? AND status = ?", clientID, models.QuoteStatusPending)},
		{&stats.AnsweredQuotes, s.db.Model(&models.Quote{}).
			Where("client_id = ? AND status = ?", clientID, models.QuoteStatusAnswered)},
		{&stats.ActiveRentals, s.db.Model(&models.Rental{}).
			Where("client_id = ? AND status = ?", clientID, models.RentalStatusActive)},
		{&stats.CompletedRentals, s.db.Model(&models.Rental{}).
			Where("client_id = ? AND status = ?", clientID, models.RentalStatusCompleted)},
		{&stats.OpenReturns, s.db.Model(&models.Return{}).
			Joins("JOIN rentals ON rentals.id = returns.rental_id").
			Where("rentals.client_id = ? AND returns.status IN ?", clientID,
				[]models.ReturnStatus{models.ReturnStatusPending, models.ReturnStatusApproved})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to aggregate dashboard: %w", err)
		}
	}

	var totalSpent decimal.NullDecimal
	if err := s.db.Model(&models.Rental{}).
		Where("client_id = ? AND status = ?", clientID, models.RentalStatusCompleted).
		Select("COALESCE(SUM(price), 0)").Scan(&totalSpent).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard: %w", err)
	}
	stats.TotalSpent = totalSpent.Decimal

	return stats, nil
}

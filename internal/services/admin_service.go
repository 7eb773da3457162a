// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers        int64           `json:"total_users"`
	ActiveUsers       int64           `json:"active_users"`
	NewUsersThisMonth int64           `json:"new_users_this_month"`
	TotalLandlords    int64           `json:"total_landlords"`
	TotalMachines     int64           `json:"total_machines"`
	AvailableMachines int64           `json:"available_machines"`
	PendingQuotes     int64           `json:"pending_quotes"`
	ActiveRentals     int64           `json:"active_rentals"`
	CompletedRentals  int64           `json:"completed_rentals"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue"`
	UserGrowth        float64         `json:"user_growth"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	UserType      *models.UserType   `json:"user_type,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type AdminAuditLogFilter struct {
	utils.PaginationParams
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Action       string     `json:"action,omitempty"`
	ResourceType string     `json:"resource_type,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// User statistics
	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)
	s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeLandlord).Count(&stats.TotalLandlords)

	// Fleet statistics
	s.db.Model(&models.Machine{}).Count(&stats.TotalMachines)
	s.db.Model(&models.Machine{}).
		Where("status = ?", models.MachineStatusAvailable).Count(&stats.AvailableMachines)

	// Quote and rental statistics
	s.db.Model(&models.Quote{}).
		Where("status = ?", models.QuoteStatusPending).Count(&stats.PendingQuotes)
	s.db.Model(&models.Rental{}).
		Where("status = ?", models.RentalStatusActive).Count(&stats.ActiveRentals)
	s.db.Model(&models.Rental{}).
		Where("status = ?", models.RentalStatusCompleted).Count(&stats.CompletedRentals)

	// Revenue statistics
	var totalRevenue, monthlyRevenue decimal.NullDecimal
	s.db.Model(&models.Rental{}).
		Where("status = ?", models.RentalStatusCompleted).
		Select("COALESCE(SUM(price), 0)").Scan(&totalRevenue)
	s.db.Model(&models.Rental{}).
		Where("status = ? AND end_date >= ?", models.RentalStatusCompleted, monthStart).
		Select("COALESCE(SUM(price), 0)").Scan(&monthlyRevenue)
	stats.TotalRevenue = totalRevenue.Decimal
	stats.MonthlyRevenue = monthlyRevenue.Decimal

	// Growth calculations
	var lastMonthUsers int64
	s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthUsers)

	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	// Apply filters
	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "username", "email", "user_type", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	// Execute query
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	// Find user
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Prevent admins from modifying other admins
	if user.UserType == models.UserTypeAdmin && user.ID != adminID {
		return errors.New("cannot modify admin user status")
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	// Create audit log
	go s.createAuditLog(adminID, "UPDATE_USER_STATUS", "user", &userID,
		map[string]interface{}{"status": status, "old_status": oldStatus, "reason": reason})

	// Send notification to user
	go s.sendUserStatusNotification(&user, oldStatus, reason)

	return nil
}

// Category Management
func (s *AdminService) CreateCategory(name, description, icon string, adminID uuid.UUID) (*models.Category, error) {
	if name == "" {
		return nil, errors.New("category name is required")
	}

	var existing models.Category
	err := s.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, errors.New("category already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	category := &models.Category{
		Name:        name,
		Description: description,
		Icon:        icon,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	go s.createAuditLog(adminID, "CREATE_CATEGORY", "category", &category.ID,
		map[string]interface{}{"name": name})

	return category, nil
}

func (s *AdminService) DeleteCategory(categoryID, adminID uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("category not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	var machines int64
	if err := s.db.Model(&models.Machine{}).
		Where("category_id = ?", categoryID).Count(&machines).Error; err != nil {
		return fmt.Errorf("failed to check machines: %w", err)
	}
	if machines > 0 {
		return errors.New("category has machines")
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	go s.createAuditLog(adminID, "DELETE_CATEGORY", "category", &categoryID,
		map[string]interface{}{"name": category.Name})

	return nil
}

// Audit Logs
func (s *AdminService) GetAuditLogs(filter AdminAuditLogFilter) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	// Apply filters
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "action", "resource_type"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	// Execute query
	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

// Platform Settings
func (s *AdminService) GetSettings() (map[string]models.AdminSettings, error) {
	var settings []models.AdminSettings
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	settingsMap := make(map[string]models.AdminSettings)
	for _, setting := range settings {
		key := fmt.Sprintf("%s.%s", setting.Category, setting.Key)
		settingsMap[key] = setting
	}

	return settingsMap, nil
}

func (s *AdminService) UpdateSetting(category, key string, value interface{}, dataType string, adminID uuid.UUID) error {
	var setting models.AdminSettings
	err := s.db.Where("category = ? AND key = ?", category, key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Create new setting
		setting = models.AdminSettings{
			Category:  category,
			Key:       key,
			Value:     models.JSONB{"value": value},
			DataType:  dataType,
			UpdatedBy: adminID,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	} else {
		// Update existing setting
		setting.Value = models.JSONB{"value": value}
		setting.DataType = dataType
		setting.UpdatedBy = adminID

		if err := s.db.Save(&setting).Error; err != nil {
			return fmt.Errorf("failed to update setting: %w", err)
		}

		// Create audit log
		go s.createAuditLog(adminID, "UPDATE_SETTING", "admin_setting", &setting.ID,
			map[string]interface{}{"value": setting.Value})
	}

	return nil
}

// Analytics and Reporting
func (s *AdminService) GetAnalytics(startDate, endDate time.Time, metrics []string) (map[string]interface{}, error) {
	analytics := make(map[string]interface{})

	for _, metric := range metrics {
		switch metric {
		case "user_registrations":
			var count int64
			s.db.Model(&models.User{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["user_registrations"] = count

		case "machine_listings":
			var count int64
			s.db.Model(&models.Machine{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["machine_listings"] = count

		case "quote_requests":
			var count int64
			s.db.Model(&models.Quote{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["quote_requests"] = count

		case "rentals_started":
			var count int64
			s.db.Model(&models.Rental{}).
				Where("start_date BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["rentals_started"] = count

		case "revenue":
			var revenue decimal.NullDecimal
			s.db.Model(&models.Rental{}).
				Where("status = ? AND end_date BETWEEN ? AND ?",
					models.RentalStatusCompleted, startDate, endDate).
				Select("COALESCE(SUM(price), 0)").Scan(&revenue)
			analytics["revenue"] = revenue.Decimal
		}
	}

	return analytics, nil
}

// Helper methods
func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}

func (s *AdminService) sendUserStatusNotification(user *models.User, oldStatus models.UserStatus, reason string) {
	if s.notificationService != nil {
		s.notificationService.SendUserStatusChangeNotification(user, oldStatus, reason)
	}
}

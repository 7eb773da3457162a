// internal/services/company_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/locmaq/locmaq-backend/internal/models"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

// Institutional pages shown on the public site.
var companySections = map[string]bool{
	"about":    true,
	"services": true,
	"contact":  true,
	"terms":    true,
	"privacy":  true,
}

type CompanyService struct {
	db *gorm.DB
}

type UpsertCompanyContentRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Body     string `json:"body,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

func (s *CompanyService) GetContent(section string) (*models.CompanyContent, error) {
	if !companySections[section] {
		return nil, errors.New("unknown content section")
	}

	var content models.CompanyContent
	if err := s.db.Where("section = ?", section).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("content not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &content, nil
}

func (s *CompanyService) ListContent() ([]models.CompanyContent, error) {
	var contents []models.CompanyContent
	if err := s.db.Order("section ASC").Find(&contents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch contents: %w", err)
	}
	return contents, nil
}

// UpsertContent creates or replaces a section. Sections are a fixed set so
// typos never create orphan pages.
func (s *CompanyService) UpsertContent(section string, adminID uuid.UUID, req *UpsertCompanyContentRequest) (*models.CompanyContent, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !companySections[section] {
		return nil, errors.New("unknown content section")
	}

	var content models.CompanyContent
	err := s.db.Where("section = ?", section).First(&content).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		content = models.CompanyContent{
			Section:   section,
			Title:     req.Title,
			Body:      req.Body,
			ImageURL:  req.ImageURL,
			UpdatedBy: adminID,
		}
		if err := s.db.Create(&content).Error; err != nil {
			return nil, fmt.Errorf("failed to create content: %w", err)
		}
		return &content, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	content.Title = req.Title
	content.Body = req.Body
	content.ImageURL = req.ImageURL
	content.UpdatedBy = adminID

	if err := s.db.Save(&content).Error; err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	return &content, nil
}

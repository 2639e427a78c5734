package services

import (
	"errors"

	"github.com/slateflow/dto"
	"github.com/slateflow/models"
	"github.com/slateflow/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TemplateService handles business logic for workflow templates. The
// template editor itself lives in another system; this service only stores
// definitions and serves them to project creation.
type TemplateService struct {
	templateRepo *repositories.TemplateRepository
}

// NewTemplateService creates a new template service instance
func NewTemplateService() *TemplateService {
	return &TemplateService{
		templateRepo: repositories.NewTemplateRepository(),
	}
}

// CreateTemplate stores a new template after validating its definition
func (s *TemplateService) CreateTemplate(req dto.CreateTemplateRequest, userID string) (models.Template, error) {
	if err := req.Definition.Validate(); err != nil {
		return models.Template{}, err
	}

	template := models.Template{
		Name:        req.Name,
		Description: req.Description,
		Definition:  datatypes.NewJSONType(req.Definition),
		Roles:       datatypes.NewJSONType(req.Roles),
		CreatedBy:   userID,
	}
	return s.templateRepo.Create(template)
}

// ListTemplates retrieves all templates
func (s *TemplateService) ListTemplates() ([]models.Template, error) {
	return s.templateRepo.FindAll()
}

// GetTemplate retrieves a template by ID
func (s *TemplateService) GetTemplate(id string) (models.Template, error) {
	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Template{}, ErrTemplateNotFound
		}
		return models.Template{}, err
	}
	return template, nil
}

// DeleteTemplate removes a template (soft delete). Projects created from it
// keep their own snapshot and are unaffected.
func (s *TemplateService) DeleteTemplate(id string) error {
	if _, err := s.templateRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return s.templateRepo.Delete(id)
}

package repositories

import (
	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

// CrewRepository handles database operations for crew members
type CrewRepository struct{}

// NewCrewRepository creates a new crew repository instance
func NewCrewRepository() *CrewRepository {
	return &CrewRepository{}
}

// FindAll retrieves crew members, optionally limited to active ones
func (r *CrewRepository) FindAll(activeOnly bool) ([]models.Crew, error) {
	var crew []models.Crew
	query := database.DB.Order("name asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	result := query.Find(&crew)
	return crew, result.Error
}

// FindByID retrieves a crew member by ID
func (r *CrewRepository) FindByID(id string) (models.Crew, error) {
	var crew models.Crew
	result := database.DB.First(&crew, "id = ?", id)
	return crew, result.Error
}

// Create inserts a new crew member into the database
func (r *CrewRepository) Create(crew models.Crew) (models.Crew, error) {
	result := database.DB.Create(&crew)
	return crew, result.Error
}

// Update modifies an existing crew member
func (r *CrewRepository) Update(crew models.Crew) error {
	result := database.DB.Save(&crew)
	return result.Error
}

// Delete removes a crew member (soft delete)
func (r *CrewRepository) Delete(id string) error {
	result := database.DB.Delete(&models.Crew{}, "id = ?", id)
	return result.Error
}

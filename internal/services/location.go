package services

import (
	"errors"
	"fmt"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"gorm.io/gorm"
)

type LocationService struct {
	db *database.DB
}

func NewLocationService(db *database.DB) *LocationService {
	return &LocationService{db: db}
}

// List retrieves all campus locations ordered by name
func (s *LocationService) List() ([]models.Location, error) {
	var locations []models.Location
	err := s.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

// GetByName looks up a location by its unique name
func (s *LocationService) GetByName(name string) (*models.Location, error) {
	var location models.Location
	if err := s.db.Where("name = ?", name).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("location", fmt.Sprintf("unknown location %q", name))
		}
		return nil, err
	}
	return &location, nil
}

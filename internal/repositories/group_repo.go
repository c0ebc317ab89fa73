package repositories

import "github.com/bhavika-28/pet-care-app/internal/models"

// GroupRepository defines the interface for sharing-group data access.
type GroupRepository interface {
	Create(group *models.Group) error
	GetByOwner(ownerID string) (*models.Group, error)
	GetByCode(code string) (*models.Group, error)
	GetByIDs(ids []string) ([]models.Group, error)
	CodeExists(code string) (bool, error)
	Delete(id string) error
}

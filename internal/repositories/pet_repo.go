package repositories

import "github.com/bhavika-28/pet-care-app/internal/models"

// PetRepository defines the interface for pet data access.
//
// Code arguments are expected uppercase; normalization happens in the service
// layer so every implementation compares codes the same way.
type PetRepository interface {
	Create(pet *models.Pet) error
	GetByID(id string) (*models.Pet, error)
	GetByCode(code string) (*models.Pet, error)
	ListByOwner(ownerID string) ([]models.Pet, error)
	// ListByGroupCodes returns pets whose group code is in groupCodes,
	// excluding pets owned by excludeOwnerID.
	ListByGroupCodes(groupCodes []string, excludeOwnerID string) ([]models.Pet, error)
	// ListWithoutCode returns legacy pets that predate code assignment.
	ListWithoutCode() ([]models.Pet, error)
	CodeExists(code string) (bool, error)
	UpdateCode(id, code string) error
	Update(pet *models.Pet) error
	Delete(id string) error
}

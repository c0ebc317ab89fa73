package repositories

import (
	"fmt"

	"github.com/bhavika-28/pet-care-app/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPetRepository is a GORM implementation of PetRepository.
type GORMPetRepository struct {
	db *gorm.DB
}

// NewGORMPetRepository creates a new instance of GORMPetRepository.
func NewGORMPetRepository(db *gorm.DB) *GORMPetRepository {
	return &GORMPetRepository{
		db: db,
	}
}

// Create inserts a new pet. The row is written with group_code and pet_code
// already set, so no reader ever observes a half-initialized pet.
func (r *GORMPetRepository) Create(pet *models.Pet) error {
	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}
	if err := r.db.Create(pet).Error; err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

// GetByID retrieves a pet by its ID.
func (r *GORMPetRepository) GetByID(id string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.First(&pet, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet by ID %s: %w", id, err)
	}
	return &pet, nil
}

// GetByCode retrieves a pet by its sharing code (exact, uppercase).
func (r *GORMPetRepository) GetByCode(code string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.First(&pet, "pet_code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("pet with code %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet by code %s: %w", code, err)
	}
	return &pet, nil
}

// ListByOwner returns all pets owned by the given user.
func (r *GORMPetRepository) ListByOwner(ownerID string) ([]models.Pet, error) {
	var pets []models.Pet
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at asc").Find(&pets).Error; err != nil {
		return nil, fmt.Errorf("failed to list pets for owner %s: %w", ownerID, err)
	}
	return pets, nil
}

// ListByGroupCodes returns pets reachable through the given groups, excluding
// pets the requesting user owns themselves.
func (r *GORMPetRepository) ListByGroupCodes(groupCodes []string, excludeOwnerID string) ([]models.Pet, error) {
	if len(groupCodes) == 0 {
		return []models.Pet{}, nil
	}
	var pets []models.Pet
	if err := r.db.Where("group_code IN ? AND owner_id <> ?", groupCodes, excludeOwnerID).
		Order("created_at asc").Find(&pets).Error; err != nil {
		return nil, fmt.Errorf("failed to list pets by group codes: %w", err)
	}
	return pets, nil
}

// ListWithoutCode returns pets whose pet_code was never assigned.
func (r *GORMPetRepository) ListWithoutCode() ([]models.Pet, error) {
	var pets []models.Pet
	if err := r.db.Where("pet_code IS NULL OR pet_code = ''").Find(&pets).Error; err != nil {
		return nil, fmt.Errorf("failed to list pets without code: %w", err)
	}
	return pets, nil
}

// CodeExists reports whether any pet already uses the given code.
func (r *GORMPetRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Pet{}).Where("pet_code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check pet code %s: %w", code, err)
	}
	return count > 0, nil
}

// UpdateCode assigns a code to a legacy pet row.
func (r *GORMPetRepository) UpdateCode(id, code string) error {
	res := r.db.Model(&models.Pet{}).Where("id = ?", id).Update("pet_code", code)
	if res.Error != nil {
		return fmt.Errorf("failed to set code for pet %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Update persists changes to an existing pet profile.
func (r *GORMPetRepository) Update(pet *models.Pet) error {
	res := r.db.Model(&models.Pet{}).Where("id = ?", pet.ID).Updates(map[string]interface{}{
		"name":       pet.Name,
		"type":       pet.Type,
		"breed":      pet.Breed,
		"emoji":      pet.Emoji,
		"age":        pet.Age,
		"birth_date": pet.BirthDate,
		"gender":     pet.Gender,
		"weight":     pet.Weight,
		"color":      pet.Color,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update pet %s: %w", pet.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pet with ID %s: %w", pet.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a pet by its ID.
func (r *GORMPetRepository) Delete(id string) error {
	res := r.db.Delete(&models.Pet{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete pet %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

package repositories

import (
	"fmt"
	"sync"

	"github.com/bhavika-28/pet-care-app/internal/models"

	"github.com/google/uuid"
)

// MockPetRepository is an in-memory implementation of PetRepository.
type MockPetRepository struct {
	pets map[string]models.Pet
	mu   sync.RWMutex
}

// NewMockPetRepository creates a new instance of MockPetRepository.
func NewMockPetRepository() *MockPetRepository {
	return &MockPetRepository{
		pets: make(map[string]models.Pet),
	}
}

// Create adds a new pet.
func (r *MockPetRepository) Create(pet *models.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}
	if pet.PetCode != "" {
		for _, p := range r.pets {
			if p.PetCode == pet.PetCode {
				return fmt.Errorf("pet code %s already in use", pet.PetCode)
			}
		}
	}
	r.pets[pet.ID] = *pet
	return nil
}

// GetByID returns a pet by its ID.
func (r *MockPetRepository) GetByID(id string) (*models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pet, ok := r.pets[id]
	if !ok {
		return nil, fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	return &pet, nil
}

// GetByCode returns a pet by its sharing code.
func (r *MockPetRepository) GetByCode(code string) (*models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, pet := range r.pets {
		if pet.PetCode != "" && pet.PetCode == code {
			p := pet
			return &p, nil
		}
	}
	return nil, fmt.Errorf("pet with code %s: %w", code, ErrNotFound)
}

// ListByOwner returns all pets owned by the given user.
func (r *MockPetRepository) ListByOwner(ownerID string) ([]models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Pet, 0)
	for _, pet := range r.pets {
		if pet.OwnerID == ownerID {
			out = append(out, pet)
		}
	}
	return out, nil
}

// ListByGroupCodes returns pets in the given groups not owned by excludeOwnerID.
func (r *MockPetRepository) ListByGroupCodes(groupCodes []string, excludeOwnerID string) ([]models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make(map[string]struct{}, len(groupCodes))
	for _, c := range groupCodes {
		codes[c] = struct{}{}
	}

	out := make([]models.Pet, 0)
	for _, pet := range r.pets {
		if _, ok := codes[pet.GroupCode]; !ok {
			continue
		}
		if pet.OwnerID == excludeOwnerID {
			continue
		}
		out = append(out, pet)
	}
	return out, nil
}

// ListWithoutCode returns pets lacking a sharing code.
func (r *MockPetRepository) ListWithoutCode() ([]models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Pet, 0)
	for _, pet := range r.pets {
		if pet.PetCode == "" {
			out = append(out, pet)
		}
	}
	return out, nil
}

// CodeExists reports whether any pet uses the given code.
func (r *MockPetRepository) CodeExists(code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, pet := range r.pets {
		if pet.PetCode != "" && pet.PetCode == code {
			return true, nil
		}
	}
	return false, nil
}

// UpdateCode assigns a code to an existing pet.
func (r *MockPetRepository) UpdateCode(id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pet, ok := r.pets[id]
	if !ok {
		return fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	pet.PetCode = code
	r.pets[id] = pet
	return nil
}

// Update modifies an existing pet.
func (r *MockPetRepository) Update(pet *models.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.pets[pet.ID]
	if !ok {
		return fmt.Errorf("pet with ID %s: %w", pet.ID, ErrNotFound)
	}
	// Codes and ownership are immutable through Update.
	pet.PetCode = existing.PetCode
	pet.GroupCode = existing.GroupCode
	pet.OwnerID = existing.OwnerID
	r.pets[pet.ID] = *pet
	return nil
}

// Delete removes a pet by its ID.
func (r *MockPetRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pets[id]; !ok {
		return fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	delete(r.pets, id)
	return nil
}

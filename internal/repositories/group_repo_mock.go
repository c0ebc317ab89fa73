package repositories

import (
	"fmt"
	"sync"

	"github.com/bhavika-28/pet-care-app/internal/models"

	"github.com/google/uuid"
)

// MockGroupRepository is an in-memory implementation of GroupRepository.
type MockGroupRepository struct {
	groups map[string]models.Group
	mu     sync.RWMutex
}

// NewMockGroupRepository creates a new instance of MockGroupRepository.
func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups: make(map[string]models.Group),
	}
}

// Create adds a new group.
func (r *MockGroupRepository) Create(group *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	for _, g := range r.groups {
		if g.GroupCode == group.GroupCode {
			return fmt.Errorf("group code %s already in use", group.GroupCode)
		}
		if g.OwnerID == group.OwnerID {
			return fmt.Errorf("owner %s already has a group", group.OwnerID)
		}
	}
	r.groups[group.ID] = *group
	return nil
}

// GetByOwner returns the group owned by the given user.
func (r *MockGroupRepository) GetByOwner(ownerID string) (*models.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, group := range r.groups {
		if group.OwnerID == ownerID {
			g := group
			return &g, nil
		}
	}
	return nil, fmt.Errorf("group for owner %s: %w", ownerID, ErrNotFound)
}

// GetByCode returns a group by its code.
func (r *MockGroupRepository) GetByCode(code string) (*models.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, group := range r.groups {
		if group.GroupCode == code {
			g := group
			return &g, nil
		}
	}
	return nil, fmt.Errorf("group with code %s: %w", code, ErrNotFound)
}

// GetByIDs returns the groups with the given IDs.
func (r *MockGroupRepository) GetByIDs(ids []string) ([]models.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		if group, ok := r.groups[id]; ok {
			out = append(out, group)
		}
	}
	return out, nil
}

// CodeExists reports whether any group uses the given code.
func (r *MockGroupRepository) CodeExists(code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, group := range r.groups {
		if group.GroupCode == code {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes a group by its ID.
func (r *MockGroupRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[id]; !ok {
		return fmt.Errorf("group with ID %s: %w", id, ErrNotFound)
	}
	delete(r.groups, id)
	return nil
}

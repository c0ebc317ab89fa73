package repositories

import (
	"fmt"
	"sync"

	"github.com/bhavika-28/pet-care-app/internal/models"

	"github.com/google/uuid"
)

// MockMembershipRepository is an in-memory implementation of MembershipRepository.
//
// Users are not stored here, so ListByGroup can only populate the User
// association when a UserRepository is attached via WithUsers.
type MockMembershipRepository struct {
	members map[string]models.GroupMember
	users   UserRepository
	mu      sync.RWMutex
}

// NewMockMembershipRepository creates a new instance of MockMembershipRepository.
func NewMockMembershipRepository() *MockMembershipRepository {
	return &MockMembershipRepository{
		members: make(map[string]models.GroupMember),
	}
}

// WithUsers attaches a user repository used to hydrate the User association.
func (r *MockMembershipRepository) WithUsers(users UserRepository) *MockMembershipRepository {
	r.users = users
	return r
}

func key(groupID, userID string) string {
	return groupID + "/" + userID
}

// Find returns the membership row for (groupID, userID).
func (r *MockMembershipRepository) Find(groupID, userID string) (*models.GroupMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[key(groupID, userID)]
	if !ok {
		return nil, fmt.Errorf("membership (%s, %s): %w", groupID, userID, ErrNotFound)
	}
	return &member, nil
}

// Create adds a membership row. Duplicate (group, user) pairs are rejected,
// mirroring the composite unique index of the GORM implementation.
func (r *MockMembershipRepository) Create(member *models.GroupMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(member.GroupID, member.UserID)
	if _, ok := r.members[k]; ok {
		return fmt.Errorf("membership (%s, %s) already exists", member.GroupID, member.UserID)
	}
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.Role == "" {
		member.Role = models.RoleCaregiver
	}
	r.members[k] = *member
	return nil
}

// Delete removes the membership row and reports whether one existed.
func (r *MockMembershipRepository) Delete(groupID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(groupID, userID)
	if _, ok := r.members[k]; !ok {
		return false, nil
	}
	delete(r.members, k)
	return true, nil
}

// ListByGroup returns all caregiver rows of a group.
func (r *MockMembershipRepository) ListByGroup(groupID string) ([]models.GroupMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.GroupMember, 0)
	for _, member := range r.members {
		if member.GroupID != groupID {
			continue
		}
		if r.users != nil {
			if u, err := r.users.GetByID(member.UserID); err == nil {
				member.User = *u
			}
		}
		out = append(out, member)
	}
	return out, nil
}

// ListGroupIDsByUser returns the IDs of all groups the user belongs to.
func (r *MockMembershipRepository) ListGroupIDsByUser(userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, member := range r.members {
		if member.UserID == userID {
			out = append(out, member.GroupID)
		}
	}
	return out, nil
}

// DeleteByGroup removes every membership row of a group.
func (r *MockMembershipRepository) DeleteByGroup(groupID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for k, member := range r.members {
		if member.GroupID == groupID {
			delete(r.members, k)
			removed++
		}
	}
	return removed, nil
}

package repositories

import (
	"fmt"

	"github.com/bhavika-28/pet-care-app/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMembershipRepository is a GORM implementation of MembershipRepository.
type GORMMembershipRepository struct {
	db *gorm.DB
}

// NewGORMMembershipRepository creates a new instance of GORMMembershipRepository.
func NewGORMMembershipRepository(db *gorm.DB) *GORMMembershipRepository {
	return &GORMMembershipRepository{
		db: db,
	}
}

// Find retrieves the membership row for (groupID, userID), if any.
func (r *GORMMembershipRepository) Find(groupID, userID string) (*models.GroupMember, error) {
	var member models.GroupMember
	if err := r.db.First(&member, "group_id = ? AND user_id = ?", groupID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("membership (%s, %s): %w", groupID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find membership (%s, %s): %w", groupID, userID, err)
	}
	return &member, nil
}

// Create inserts a membership row. The composite unique index on
// (group_id, user_id) rejects a duplicate if two adds raced.
func (r *GORMMembershipRepository) Create(member *models.GroupMember) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.Role == "" {
		member.Role = models.RoleCaregiver
	}
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

// Delete removes the membership row and reports whether one existed.
func (r *GORMMembershipRepository) Delete(groupID, userID string) (bool, error) {
	res := r.db.Delete(&models.GroupMember{}, "group_id = ? AND user_id = ?", groupID, userID)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete membership (%s, %s): %w", groupID, userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByGroup returns all caregiver rows of a group with users preloaded.
func (r *GORMMembershipRepository) ListByGroup(groupID string) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.Preload("User").Where("group_id = ?", groupID).
		Order("created_at asc").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members of group %s: %w", groupID, err)
	}
	return members, nil
}

// ListGroupIDsByUser returns the IDs of all groups the user belongs to.
func (r *GORMMembershipRepository) ListGroupIDsByUser(userID string) ([]string, error) {
	var ids []string
	if err := r.db.Model(&models.GroupMember{}).Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups for user %s: %w", userID, err)
	}
	return ids, nil
}

// DeleteByGroup removes every membership row of a group.
func (r *GORMMembershipRepository) DeleteByGroup(groupID string) (int64, error) {
	res := r.db.Delete(&models.GroupMember{}, "group_id = ?", groupID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete memberships of group %s: %w", groupID, res.Error)
	}
	return res.RowsAffected, nil
}

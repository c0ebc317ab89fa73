package repositories

import (
	"fmt"

	"github.com/bhavika-28/pet-care-app/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMGroupRepository is a GORM implementation of GroupRepository.
type GORMGroupRepository struct {
	db *gorm.DB
}

// NewGORMGroupRepository creates a new instance of GORMGroupRepository.
func NewGORMGroupRepository(db *gorm.DB) *GORMGroupRepository {
	return &GORMGroupRepository{
		db: db,
	}
}

// Create inserts a new group. The unique indexes on group_code and owner_id
// reject a duplicate code or a second group for the same owner if two
// requests raced.
func (r *GORMGroupRepository) Create(group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if err := r.db.Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetByOwner retrieves the group owned by the given user, if any.
func (r *GORMGroupRepository) GetByOwner(ownerID string) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("group for owner %s: %w", ownerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group for owner %s: %w", ownerID, err)
	}
	return &group, nil
}

// GetByCode retrieves a group by its code (exact, uppercase).
func (r *GORMGroupRepository) GetByCode(code string) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, "group_code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("group with code %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group by code %s: %w", code, err)
	}
	return &group, nil
}

// GetByIDs retrieves the groups with the given IDs.
func (r *GORMGroupRepository) GetByIDs(ids []string) ([]models.Group, error) {
	if len(ids) == 0 {
		return []models.Group{}, nil
	}
	var groups []models.Group
	if err := r.db.Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to get groups by IDs: %w", err)
	}
	return groups, nil
}

// CodeExists reports whether any group already uses the given code.
func (r *GORMGroupRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Group{}).Where("group_code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check group code %s: %w", code, err)
	}
	return count > 0, nil
}

// Delete removes a group by its ID.
func (r *GORMGroupRepository) Delete(id string) error {
	res := r.db.Delete(&models.Group{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete group %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("group with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

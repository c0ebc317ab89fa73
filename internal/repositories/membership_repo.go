package repositories

import "github.com/bhavika-28/pet-care-app/internal/models"

// MembershipRepository defines the interface for group-membership data access.
// Only caregivers are stored here; the owner is derived from Group.OwnerID and
// never appears as a row.
type MembershipRepository interface {
	Find(groupID, userID string) (*models.GroupMember, error)
	Create(member *models.GroupMember) error
	// Delete removes the membership row. It reports whether a row was actually
	// removed; absence is not an error.
	Delete(groupID, userID string) (bool, error)
	// ListByGroup returns caregiver rows with the User association loaded.
	ListByGroup(groupID string) ([]models.GroupMember, error)
	ListGroupIDsByUser(userID string) ([]string, error)
	// DeleteByGroup removes all membership rows of a group (group teardown).
	DeleteByGroup(groupID string) (int64, error)
}

package models

import "gorm.io/gorm"

// Role is a user's relationship to a group's pets.
type Role string

const (
	// RoleOwner is never persisted in group_members; ownership is derived from
	// Group.OwnerID. It exists so member listings can tag the owner entry.
	RoleOwner     Role = "owner"
	RoleCaregiver Role = "caregiver"
	RoleMember    Role = "member"
)

// GroupMember is the persisted (group, user, role) relation recording caregiver
// access. A user appears at most once per group; the composite unique index
// backs the idempotent-add check so a lost race cannot create a duplicate row.
type GroupMember struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	GroupID string `json:"group_id" gorm:"not null;uniqueIndex:idx_group_user;type:varchar(36)"`
	UserID  string `json:"user_id" gorm:"not null;uniqueIndex:idx_group_user;type:varchar(36)"`
	Role    Role   `json:"role" gorm:"type:varchar(20);default:'caregiver'"`

	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	gorm.Model
}

func (GroupMember) TableName() string {
	return "group_members"
}

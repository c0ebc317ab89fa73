package models

import "gorm.io/gorm"

// Group is the sharing scope rooted at one owner. Every pet the owner creates
// joins the same group, so a caregiver added to the group can reach all of the
// owner's pets that share its code.
//
// Invariant: each owner has at most one group, backed by the unique index on
// OwnerID. The group is created lazily the first time the owner creates a pet,
// never eagerly at signup.
type Group struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Description string `json:"description" gorm:"type:varchar(255)"`
	OwnerID     string `json:"owner_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required"`
	GroupCode   string `json:"group_code" gorm:"uniqueIndex;type:varchar(10)" validate:"required"`
	gorm.Model
}

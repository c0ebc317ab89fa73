package models

import "gorm.io/gorm"

// Pet represents a pet profile owned by exactly one user.
//
// PetCode is the short sharing token other users redeem to become caregivers.
// It is assigned once at creation and never reused. Rows that predate code
// assignment carry an empty code until the backfill touches them, which is why
// the column has no NOT NULL constraint; the unique index still guarantees no
// two pets ever share a code.
type Pet struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Type      string `json:"type" gorm:"type:varchar(50)" validate:"required"` // Dog, Cat, Rabbit, Bird, ...
	Breed     string `json:"breed" gorm:"type:varchar(100)" validate:"required"`
	Emoji     string `json:"emoji" gorm:"type:varchar(10)"`
	Age       int    `json:"age" validate:"gte=0"`
	BirthDate string `json:"birth_date" gorm:"type:varchar(10)"` // YYYY-MM-DD
	Gender    string `json:"gender" gorm:"type:varchar(20)"`
	Weight    string `json:"weight" gorm:"type:varchar(20)"`
	Color     string `json:"color" gorm:"type:varchar(50)"`

	// GroupCode references the owner's sharing group; stable for the pet's lifetime.
	GroupCode string `json:"group_code" gorm:"index;type:varchar(10)"`
	// PetCode is stored uppercase; lookups uppercase the input before comparing.
	PetCode string `json:"pet_code" gorm:"uniqueIndex;type:varchar(10)"`
	OwnerID string `json:"owner_id" gorm:"index;type:varchar(36)"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

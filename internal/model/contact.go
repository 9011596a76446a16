package model

import (
	"time"

	"gorm.io/datatypes"
)

// Contact belongs to exactly one user; every query and mutation is scoped
// by UserID.
type Contact struct {
	ID        uint           `gorm:"primarykey"`
	FirstName string         `gorm:"column:first_name;size:50;not null"`
	LastName  string         `gorm:"column:last_name;size:50;not null"`
	Email     string         `gorm:"column:email;size:255;not null"`
	Phone     string         `gorm:"column:phone;size:20;not null"`
	Birthday  datatypes.Date `gorm:"column:birthday;not null"`
	Notes     *string        `gorm:"column:notes;size:512"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UserID    uint           `gorm:"column:user_id;index;not null"`
	User      User           `gorm:"constraint:OnDelete:CASCADE"`
}

func (Contact) TableName() string {
	return "contacts"
}

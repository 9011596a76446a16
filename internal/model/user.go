package model

import "time"

// User is an identity record. Created at signup with Confirmed=false;
// Confirmed flips to true exactly once via the email-confirmation flow.
// RefreshToken holds the single active refresh token; it is overwritten on
// login and cleared when a presented refresh token fails to match.
type User struct {
	ID           uint      `gorm:"primarykey"`
	Username     string    `gorm:"column:username;size:50;not null"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Password     string    `gorm:"column:password;size:255;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	RefreshToken *string   `gorm:"column:refresh_token"`
	Confirmed    bool      `gorm:"column:confirmed;not null;default:false"`
	Avatar       *string   `gorm:"column:avatar;size:255"`
}

func (User) TableName() string {
	return "users"
}

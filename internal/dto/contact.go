package dto

import "time"

type ContactRequest struct {
	FirstName string  `json:"first_name" binding:"required,max=50"`
	LastName  string  `json:"last_name" binding:"required,max=50"`
	Email     string  `json:"email" binding:"required,email,max=255"`
	Phone     string  `json:"phone" binding:"required,max=20"`
	Birthday  string  `json:"birthday" binding:"required,datetime=2006-01-02"`
	Notes     *string `json:"notes" binding:"omitempty,max=512"`
}

type ContactResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  string    `json:"birthday"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactFilter holds the list-endpoint query parameters. Substring
// filters are case-insensitive.
type ContactFilter struct {
	Skip            int    `form:"skip,default=0" binding:"omitempty,min=0"`
	Limit           int    `form:"limit,default=100" binding:"omitempty,min=1,max=500"`
	SearchFirstName string `form:"search_first_name"`
	SearchLastName  string `form:"search_last_name"`
	SearchEmail     string `form:"search_email"`
}

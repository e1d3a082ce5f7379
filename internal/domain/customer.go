package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IDNumber  string    `json:"id_number"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFilter narrows customer listings. Search matches name, email or phone.
type CustomerFilter struct {
	Search   string
	Tags     []string
	Page     int32
	PageSize int32
}

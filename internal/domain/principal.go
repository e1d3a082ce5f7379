package domain

import "github.com/google/uuid"

// Principal is the authenticated user on whose behalf an operation runs.
// Every row touched by the service layer is owned by Principal.UserID.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
}

func (p Principal) Valid() bool {
	return p.UserID != uuid.Nil
}

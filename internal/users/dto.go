package users

import (
	"strings"

	"github.com/google/uuid"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
)

// CreateUserDTO carries the fields needed to insert a new user row.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
}

// ToModel converts the DTO into a persistable user model with a fresh ID.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		PasswordHash: d.PasswordHash,
		FullName:     strings.TrimSpace(d.FullName),
		IsActive:     true,
	}
}

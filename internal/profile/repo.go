package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ensure inserts an initial profile row for the identity if none exists.
// Registration seeds name and email; the delivery fields start blank.
func (r *Repository) Ensure(ctx context.Context, identityID uuid.UUID, email, fullName string) error {
	row := &models.Profile{
		IdentityID: identityID,
		FullName:   fullName,
		Email:      email,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

// Find loads the profile for the identity.
func (r *Repository) Find(ctx context.Context, identityID uuid.UUID) (*models.Profile, error) {
	var row models.Profile
	if err := r.db.WithContext(ctx).First(&row, "identity_id = ?", identityID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save upserts the full profile row.
func (r *Repository) Save(ctx context.Context, row *models.Profile) error {
	if row == nil {
		return errors.New("profile row is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity_id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

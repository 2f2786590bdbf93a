package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
)

// Service defines the behavior needed by the profile controller.
type Service interface {
	Get(ctx context.Context, identityID uuid.UUID) (*View, error)
	Update(ctx context.Context, identityID uuid.UUID, req UpdateRequest) (*View, error)
}

// UpdateRequest carries an edit to the delivery profile.
type UpdateRequest struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required,min=10,max=15"`
	Address  string `json:"address" validate:"required,max=240"`
	City     string `json:"city" validate:"required,max=80"`
	Pincode  string `json:"pincode" validate:"required,len=6,numeric"`
}

// View is the caller-facing projection of a profile. IsComplete is derived
// on every read and never persisted.
type View struct {
	IdentityID uuid.UUID `json:"identity_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	Pincode    string    `json:"pincode"`
	Email      string    `json:"email"`
	IsComplete bool      `json:"is_complete"`
}

type repository interface {
	Find(ctx context.Context, identityID uuid.UUID) (*models.Profile, error)
	Save(ctx context.Context, row *models.Profile) error
}

type service struct {
	repo repository
}

// NewService constructs a profile service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, identityID uuid.UUID) (*View, error) {
	row, err := s.repo.Find(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return project(row), nil
}

func (s *service) Update(ctx context.Context, identityID uuid.UUID, req UpdateRequest) (*View, error) {
	row, err := s.repo.Find(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	row.FullName = strings.TrimSpace(req.FullName)
	row.Phone = strings.TrimSpace(req.Phone)
	row.Address = strings.TrimSpace(req.Address)
	row.City = strings.TrimSpace(req.City)
	row.Pincode = strings.TrimSpace(req.Pincode)

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile")
	}
	return project(row), nil
}

// IsComplete reports whether all five delivery fields carry a non-blank
// value. Completeness is recomputed from field values on every call.
func IsComplete(row *models.Profile) bool {
	if row == nil {
		return false
	}
	fields := []string{row.FullName, row.Phone, row.Address, row.City, row.Pincode}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

func project(row *models.Profile) *View {
	return &View{
		IdentityID: row.IdentityID,
		FullName:   row.FullName,
		Phone:      row.Phone,
		Address:    row.Address,
		City:       row.City,
		Pincode:    row.Pincode,
		Email:      row.Email,
		IsComplete: IsComplete(row),
	}
}

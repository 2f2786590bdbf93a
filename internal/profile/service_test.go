package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
)

func TestIsCompleteRequiresAllFiveFields(t *testing.T) {
	t.Parallel()

	row := &models.Profile{
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Address:  "12 Bazaar St",
		City:     "Anantapur",
		Pincode:  "515001",
	}
	if !IsComplete(row) {
		t.Fatalf("expected complete profile")
	}

	blanked := *row
	blanked.Pincode = "   "
	if IsComplete(&blanked) {
		t.Fatalf("whitespace pincode must not count as complete")
	}

	if IsComplete(nil) {
		t.Fatalf("nil profile must not be complete")
	}
	if IsComplete(&models.Profile{Email: "asha@example.com"}) {
		t.Fatalf("email alone must not make a profile complete")
	}
}

func TestGetDerivesCompleteness(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &stubRepo{row: &models.Profile{
		IdentityID: id,
		FullName:   "Asha Rao",
		Email:      "asha@example.com",
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.IsComplete {
		t.Fatalf("partial profile reported complete")
	}
}

func TestGetMissingProfile(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTrimsAndPersists(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &stubRepo{row: &models.Profile{IdentityID: id, Email: "asha@example.com"}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.Update(context.Background(), id, UpdateRequest{
		FullName: "  Asha Rao  ",
		Phone:    "9876543210",
		Address:  "12 Bazaar St",
		City:     "Anantapur",
		Pincode:  "515001",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.FullName != "Asha Rao" {
		t.Fatalf("expected trimmed name, got %q", view.FullName)
	}
	if !view.IsComplete {
		t.Fatalf("expected complete after filling all fields")
	}
	if repo.saved == nil || repo.saved.City != "Anantapur" {
		t.Fatalf("expected save with updated city, got %+v", repo.saved)
	}
}

type stubRepo struct {
	row   *models.Profile
	saved *models.Profile
}

func (s *stubRepo) Find(ctx context.Context, identityID uuid.UUID) (*models.Profile, error) {
	if s.row != nil && s.row.IdentityID == identityID {
		copied := *s.row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Save(ctx context.Context, row *models.Profile) error {
	s.saved = row
	return nil
}

package rental

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/tenancy"
)

type PropertyInput struct {
	OwnerID    uuid.UUID
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	PostalCode string
	Kind       models.PropertyKind
	Notes      string
}

type PropertyUpdate struct {
	OwnerID    *uuid.UUID
	Street     *string
	Number     *string
	Complement *string
	District   *string
	City       *string
	State      *string
	PostalCode *string
	Kind       *models.PropertyKind
	Notes      *string
}

type PropertyFilter struct {
	OwnerID *uuid.UUID
}

// requireOwner resolves a referenced owner under the caller's scope. An owner
// the caller cannot see is reported as a bad reference, not as a 404 on the
// property itself.
func (s *Service) requireOwner(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Owner, error) {
	owner, err := findScoped[models.Owner](s.scoped(ctx, scope), id)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError("owner_id", "Owner not found")
	}
	return owner, err
}

func (s *Service) CreateProperty(ctx context.Context, scope tenancy.Scope, in PropertyInput) (*models.Property, error) {
	if err := s.guard.Enforce(ctx, scope, quota.KindProperties); err != nil {
		return nil, err
	}
	if _, err := s.requireOwner(ctx, scope, in.OwnerID); err != nil {
		return nil, err
	}

	kind := in.Kind
	if kind == "" {
		kind = models.PropertyKindResidential
	}

	property := models.Property{
		Owned:      models.Owned{UserID: scope.Owner()},
		OwnerID:    in.OwnerID,
		Street:     strings.TrimSpace(in.Street),
		Number:     in.Number,
		Complement: in.Complement,
		District:   in.District,
		City:       strings.TrimSpace(in.City),
		State:      strings.ToUpper(in.State),
		PostalCode: in.PostalCode,
		Kind:       kind,
		Notes:      in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *Service) GetProperty(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Property, error) {
	return findScoped[models.Property](s.scoped(ctx, scope), id)
}

func (s *Service) ListProperties(ctx context.Context, scope tenancy.Scope, filter PropertyFilter, page Page) ([]models.Property, int64, error) {
	q := s.scoped(ctx, scope)
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	return listScoped[models.Property](q, page)
}

func (s *Service) UpdateProperty(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in PropertyUpdate) (*models.Property, error) {
	property, err := findScoped[models.Property](s.scoped(ctx, scope), id)
	if err != nil {
		return nil, err
	}

	if in.OwnerID != nil && *in.OwnerID != property.OwnerID {
		if _, err := s.requireOwner(ctx, scope, *in.OwnerID); err != nil {
			return nil, err
		}
		property.OwnerID = *in.OwnerID
	}
	if in.Street != nil {
		property.Street = strings.TrimSpace(*in.Street)
	}
	if in.Number != nil {
		property.Number = *in.Number
	}
	if in.Complement != nil {
		property.Complement = *in.Complement
	}
	if in.District != nil {
		property.District = *in.District
	}
	if in.City != nil {
		property.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		property.State = strings.ToUpper(*in.State)
	}
	if in.PostalCode != nil {
		property.PostalCode = *in.PostalCode
	}
	if in.Kind != nil {
		property.Kind = *in.Kind
	}
	if in.Notes != nil {
		property.Notes = *in.Notes
	}

	if err := s.db.WithContext(ctx).Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty refuses while tenants still reference the property.
func (s *Service) DeleteProperty(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := findScoped[models.Property](s.scoped(ctx, scope), id); err != nil {
		return err
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Tenant{}).Where("property_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return NewConflictError("property", "property still has tenants")
	}

	return s.deleteScoped(ctx, scope, &models.Property{}, id)
}

package rental

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/tenancy"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TenantInput struct {
	PropertyID uuid.UUID
	Name       string
	Document   string
	Phone      string
	Email      string
	LeaseStart time.Time
	LeaseEnd   *time.Time
	Rent       decimal.Decimal
	DueDay     int
	IsActive   *bool
	Notes      string
}

type TenantUpdate struct {
	PropertyID *uuid.UUID
	Name       *string
	Document   *string
	Phone      *string
	Email      *string
	LeaseStart *time.Time
	LeaseEnd   *time.Time
	ClearEnd   bool
	Rent       *decimal.Decimal
	DueDay     *int
	IsActive   *bool
	Notes      *string
}

type TenantFilter struct {
	PropertyID *uuid.UUID
	Active     *bool
}

func (s *Service) requireProperty(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Property, error) {
	property, err := findScoped[models.Property](s.scoped(ctx, scope), id)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError("property_id", "Property not found")
	}
	return property, err
}

// ensureSingleActive enforces one active tenant per property. except is the
// tenant being updated, if any.
func (s *Service) ensureSingleActive(db *gorm.DB, propertyID, except uuid.UUID) error {
	var n int64
	q := db.Model(&models.Tenant{}).Where("property_id = ? AND is_active = ?", propertyID, true)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return NewConflictError("tenant", "property already has an active tenant")
	}
	return nil
}

func (s *Service) CreateTenant(ctx context.Context, scope tenancy.Scope, in TenantInput) (*models.Tenant, error) {
	if err := s.guard.Enforce(ctx, scope, quota.KindTenants); err != nil {
		return nil, err
	}
	if _, err := s.requireProperty(ctx, scope, in.PropertyID); err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	doc, err := s.seal("document", in.Document)
	if err != nil {
		return nil, err
	}

	tenant := models.Tenant{
		Owned:      models.Owned{UserID: scope.Owner()},
		PropertyID: in.PropertyID,
		Name:       strings.TrimSpace(in.Name),
		Document:   doc,
		Phone:      in.Phone,
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		LeaseStart: in.LeaseStart,
		LeaseEnd:   in.LeaseEnd,
		Rent:       in.Rent.Round(2),
		DueDay:     in.DueDay,
		IsActive:   active,
		Notes:      in.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if active {
			if err := s.ensureSingleActive(tx, in.PropertyID, uuid.Nil); err != nil {
				return err
			}
		}
		return tx.Create(&tenant).Error
	})
	if err != nil {
		return nil, err
	}

	tenant.Document = in.Document
	return &tenant, nil
}

func (s *Service) GetTenant(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := findScoped[models.Tenant](s.scoped(ctx, scope), id)
	if err != nil {
		return nil, err
	}
	if err := s.revealTenant(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *Service) ListTenants(ctx context.Context, scope tenancy.Scope, filter TenantFilter, page Page) ([]models.Tenant, int64, error) {
	q := s.scoped(ctx, scope)
	if filter.PropertyID != nil {
		q = q.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}

	tenants, total, err := listScoped[models.Tenant](q, page)
	if err != nil {
		return nil, 0, err
	}
	for i := range tenants {
		if err := s.revealTenant(&tenants[i]); err != nil {
			return nil, 0, err
		}
	}
	return tenants, total, nil
}

func (s *Service) UpdateTenant(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in TenantUpdate) (*models.Tenant, error) {
	tenant, err := findScoped[models.Tenant](s.scoped(ctx, scope), id)
	if err != nil {
		return nil, err
	}

	if in.PropertyID != nil && *in.PropertyID != tenant.PropertyID {
		if _, err := s.requireProperty(ctx, scope, *in.PropertyID); err != nil {
			return nil, err
		}
		tenant.PropertyID = *in.PropertyID
	}
	if in.Name != nil {
		tenant.Name = strings.TrimSpace(*in.Name)
	}
	if in.Document != nil {
		if tenant.Document, err = s.seal("document", *in.Document); err != nil {
			return nil, err
		}
	}
	if in.Phone != nil {
		tenant.Phone = *in.Phone
	}
	if in.Email != nil {
		tenant.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.LeaseStart != nil {
		tenant.LeaseStart = *in.LeaseStart
	}
	if in.LeaseEnd != nil {
		tenant.LeaseEnd = in.LeaseEnd
	} else if in.ClearEnd {
		tenant.LeaseEnd = nil
	}
	if in.Rent != nil {
		tenant.Rent = in.Rent.Round(2)
	}
	if in.DueDay != nil {
		tenant.DueDay = *in.DueDay
	}
	if in.IsActive != nil {
		tenant.IsActive = *in.IsActive
	}
	if in.Notes != nil {
		tenant.Notes = *in.Notes
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tenant.IsActive {
			if err := s.ensureSingleActive(tx, tenant.PropertyID, tenant.ID); err != nil {
				return err
			}
		}
		return tx.Save(tenant).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.revealTenant(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeleteTenant refuses while receipts still reference the tenant.
func (s *Service) DeleteTenant(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := findScoped[models.Tenant](s.scoped(ctx, scope), id); err != nil {
		return err
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Receipt{}).Where("tenant_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return NewConflictError("tenant", "tenant still has receipts")
	}

	return s.deleteScoped(ctx, scope, &models.Tenant{}, id)
}

func (s *Service) revealTenant(t *models.Tenant) error {
	doc, err := s.open("document", t.Document)
	if err != nil {
		return err
	}
	t.Document = doc
	return nil
}

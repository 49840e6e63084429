package rental

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/tenancy"
)

type OwnerInput struct {
	Name     string
	Document string
	Phone    string
	Email    string
}

type OwnerUpdate struct {
	Name     *string
	Document *string
	Phone    *string
	Email    *string
}

func (s *Service) CreateOwner(ctx context.Context, scope tenancy.Scope, in OwnerInput) (*models.Owner, error) {
	if err := s.guard.Enforce(ctx, scope, quota.KindOwners); err != nil {
		return nil, err
	}

	doc, err := s.seal("document", in.Document)
	if err != nil {
		return nil, err
	}

	owner := models.Owner{
		Owned:    models.Owned{UserID: scope.Owner()},
		Name:     strings.TrimSpace(in.Name),
		Document: doc,
		Phone:    in.Phone,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
	}
	if err := s.db.WithContext(ctx).Create(&owner).Error; err != nil {
		return nil, err
	}

	owner.Document = in.Document
	return &owner, nil
}

func (s *Service) GetOwner(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Owner, error) {
	owner, err := findScoped[models.Owner](s.scoped(ctx, scope), id)
	if err != nil {
		return nil, err
	}
	if err := s.revealOwner(owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *Service) ListOwners(ctx context.Context, scope tenancy.Scope, page Page) ([]models.Owner, int64, error) {
	owners, total, err := listScoped[models.Owner](s.scoped(ctx, scope), page)
	if err != nil {
		return nil, 0, err
	}
	for i := range owners {
		if err := s.revealOwner(&owners[i]); err != nil {
			return nil, 0, err
		}
	}
	return owners, total, nil
}

func (s *Service) UpdateOwner(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in OwnerUpdate) (*models.Owner, error) {
	owner, err := findScoped[models.Owner](s.scoped(ctx, scope), id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		owner.Name = strings.TrimSpace(*in.Name)
	}
	if in.Document != nil {
		if owner.Document, err = s.seal("document", *in.Document); err != nil {
			return nil, err
		}
	}
	if in.Phone != nil {
		owner.Phone = *in.Phone
	}
	if in.Email != nil {
		owner.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	if err := s.db.WithContext(ctx).Save(owner).Error; err != nil {
		return nil, err
	}
	if err := s.revealOwner(owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// DeleteOwner refuses while properties still reference the owner.
func (s *Service) DeleteOwner(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := findScoped[models.Owner](s.scoped(ctx, scope), id); err != nil {
		return err
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Property{}).Where("owner_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return NewConflictError("owner", "owner still has properties")
	}

	return s.deleteScoped(ctx, scope, &models.Owner{}, id)
}

func (s *Service) revealOwner(o *models.Owner) error {
	doc, err := s.open("document", o.Document)
	if err != nil {
		return err
	}
	o.Document = doc
	return nil
}

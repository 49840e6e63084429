package quota

import (
	"context"
	"errors"
	"strings"

	"github.com/hugh/go-rental/internal/database/models"
	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanUpdate carries the admin-editable plan fields. Nil leaves a field as is.
type PlanUpdate struct {
	Name            *string
	Description     *string
	MaxOwners       *int
	MaxProperties   *int
	MaxTenants      *int
	AdvancedReports *bool
	CustomTemplates *bool
	MultiUser       *bool
	IsActive        *bool
}

// Validate reports non-positive caps.
func (u PlanUpdate) Validate() map[string]string {
	errs := make(map[string]string)
	for field, v := range map[string]*int{
		"max_owners":     u.MaxOwners,
		"max_properties": u.MaxProperties,
		"max_tenants":    u.MaxTenants,
	} {
		if v != nil && *v <= 0 {
			errs[field] = "Must be greater than zero"
		}
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs["name"] = "Name is required"
	}
	return errs
}

// ListPlans returns the catalogue, cheapest first.
func (g *Guard) ListPlans(ctx context.Context, activeOnly bool) ([]models.Plan, error) {
	var plans []models.Plan
	q := g.db.WithContext(ctx).Order("max_owners ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (g *Guard) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan
	if err := g.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (g *Guard) UpdatePlan(ctx context.Context, id string, in PlanUpdate) (*models.Plan, error) {
	plan, err := g.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		plan.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.MaxOwners != nil {
		plan.MaxOwners = *in.MaxOwners
	}
	if in.MaxProperties != nil {
		plan.MaxProperties = *in.MaxProperties
	}
	if in.MaxTenants != nil {
		plan.MaxTenants = *in.MaxTenants
	}
	if in.AdvancedReports != nil {
		plan.AdvancedReports = *in.AdvancedReports
	}
	if in.CustomTemplates != nil {
		plan.CustomTemplates = *in.CustomTemplates
	}
	if in.MultiUser != nil {
		plan.MultiUser = *in.MultiUser
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}

	if err := g.db.WithContext(ctx).Save(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

package dto

import (
	"strings"

	"github.com/hugh/go-rental/internal/api/validation"
	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/quota"
)

// UpdateUserRequest is an administrator editing any account.
type UpdateUserRequest struct {
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	Password           *string `json:"password"`
	IsAdmin            *bool   `json:"is_admin"`
	MustChangePassword *bool   `json:"must_change_password"`
}

func (r UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Email != nil && !validation.IsValidEmail(strings.TrimSpace(*r.Email)) {
		errors["email"] = "Invalid email format"
	}
	if r.Password != nil {
		if ok, msg := validation.IsValidPassword(*r.Password); !ok {
			errors["password"] = msg
		}
	}

	return errors
}

func (r UpdateUserRequest) Input() auth.UpdateUserInput {
	return auth.UpdateUserInput{
		Name:               r.Name,
		Email:              r.Email,
		Password:           r.Password,
		IsAdmin:            r.IsAdmin,
		MustChangePassword: r.MustChangePassword,
	}
}

type SetPlanRequest struct {
	PlanID string `json:"plan_id"`
}

func (r SetPlanRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(r.PlanID) == "" {
		errors["plan_id"] = "Plan is required"
	}
	return errors
}

type UpdatePlanRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	MaxOwners       *int    `json:"max_owners"`
	MaxProperties   *int    `json:"max_properties"`
	MaxTenants      *int    `json:"max_tenants"`
	AdvancedReports *bool   `json:"advanced_reports"`
	CustomTemplates *bool   `json:"custom_templates"`
	MultiUser       *bool   `json:"multi_user"`
	IsActive        *bool   `json:"is_active"`
}

func (r UpdatePlanRequest) Input() quota.PlanUpdate {
	return quota.PlanUpdate{
		Name:            r.Name,
		Description:     r.Description,
		MaxOwners:       r.MaxOwners,
		MaxProperties:   r.MaxProperties,
		MaxTenants:      r.MaxTenants,
		AdvancedReports: r.AdvancedReports,
		CustomTemplates: r.CustomTemplates,
		MultiUser:       r.MultiUser,
		IsActive:        r.IsActive,
	}
}

func (r UpdatePlanRequest) Validate() map[string]string {
	return r.Input().Validate()
}

// UsageResponse is the operating user's plan utilization.
type UsageResponse struct {
	Plan  string                  `json:"plan"`
	Name  string                  `json:"plan_name"`
	Usage map[string]quota.Result `json:"usage"`
}

func NewUsageResponse(u *quota.Usage) UsageResponse {
	resp := UsageResponse{
		Plan:  u.Plan.ID,
		Name:  u.Plan.Name,
		Usage: make(map[string]quota.Result, len(u.Kinds)),
	}
	for kind, res := range u.Kinds {
		resp.Usage[string(kind)] = res
	}
	return resp
}

package dto

import (
	"strings"
	"time"

	"github.com/hugh/go-rental/internal/api/validation"
	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/database/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Email) == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

// RegisterRequest is submitted by an administrator creating an account.
type RegisterRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	Name               string `json:"name"`
	IsAdmin            bool   `json:"is_admin"`
	PlanID             string `json:"plan_id,omitempty"`
	MustChangePassword bool   `json:"must_change_password"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(strings.TrimSpace(r.Email)) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Name is required"
	}

	return errors
}

func (r RegisterRequest) Input() auth.RegisterInput {
	return auth.RegisterInput{
		Email:              r.Email,
		Password:           r.Password,
		Name:               r.Name,
		IsAdmin:            r.IsAdmin,
		PlanID:             r.PlanID,
		MustChangePassword: r.MustChangePassword,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CurrentPassword == "" {
		errors["current_password"] = "Current password is required"
	}
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if ok, msg := validation.IsValidPassword(r.NewPassword); !ok {
		errors["new_password"] = msg
	}

	return errors
}

type ChangePasswordResponse struct {
	Message         string `json:"message"`
	ReloginRequired bool   `json:"relogin_required"`
}

// ProfileRequest is a user editing their own account.
type ProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r ProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Email != nil && !validation.IsValidEmail(strings.TrimSpace(*r.Email)) {
		errors["email"] = "Invalid email format"
	}

	return errors
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	Name               string  `json:"name"`
	IsActive           bool    `json:"is_active"`
	IsAdmin            bool    `json:"is_admin"`
	PlanID             string  `json:"plan_id"`
	PlanName           string  `json:"plan_name,omitempty"`
	MustChangePassword bool    `json:"must_change_password"`
	LastLoginAt        *string `json:"last_login_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

func NewUserDTO(u *models.User) UserDTO {
	resp := UserDTO{
		ID:                 u.ID.String(),
		Email:              u.Email,
		Name:               u.Name,
		IsActive:           u.IsActive,
		IsAdmin:            u.IsAdmin,
		PlanID:             u.EffectivePlanID(),
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          formatTime(u.CreatedAt),
	}
	if u.Plan != nil {
		resp.PlanName = u.Plan.Name
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.UTC().Format(time.RFC3339)
		resp.LastLoginAt = &s
	}
	return resp
}

package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/api/validation"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/receipt"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/shopspring/decimal"
)

type CreateTenantRequest struct {
	PropertyID string          `json:"property_id"`
	Name       string          `json:"name"`
	Document   string          `json:"document"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	LeaseStart Date            `json:"lease_start"`
	LeaseEnd   *Date           `json:"lease_end"`
	Rent       decimal.Decimal `json:"rent"`
	DueDay     int             `json:"due_day"`
	IsActive   *bool           `json:"is_active"`
	Notes      string          `json:"notes"`
}

func (r CreateTenantRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !validation.IsValidUUID(r.PropertyID) {
		errors["property_id"] = "Valid property ID is required"
	}
	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Name is required"
	}
	if r.Document == "" {
		errors["document"] = "CPF or CNPJ is required"
	} else if !validation.IsValidDocument(r.Document) {
		errors["document"] = "Invalid CPF or CNPJ"
	}
	validateContact(errors, r.Phone, r.Email)
	if r.LeaseStart.IsZero() {
		errors["lease_start"] = "Lease start is required"
	} else if r.LeaseEnd != nil && !r.LeaseEnd.IsZero() && r.LeaseEnd.Before(r.LeaseStart.Time) {
		errors["lease_end"] = "Lease end must not precede lease start"
	}
	if !r.Rent.IsPositive() {
		errors["rent"] = "Rent must be greater than zero"
	} else if !receipt.InRange(r.Rent) {
		errors["rent"] = "Rent must be less than 1.000.000.000"
	}
	if r.DueDay < 1 || r.DueDay > 31 {
		errors["due_day"] = "Due day must be between 1 and 31"
	}

	return errors
}

func (r CreateTenantRequest) Input() rental.TenantInput {
	return rental.TenantInput{
		PropertyID: uuid.MustParse(r.PropertyID),
		Name:       validation.SanitizeString(r.Name),
		Document:   validation.OnlyDigits(r.Document),
		Phone:      r.Phone,
		Email:      r.Email,
		LeaseStart: r.LeaseStart.Time,
		LeaseEnd:   r.LeaseEnd.Ptr(),
		Rent:       r.Rent,
		DueDay:     r.DueDay,
		IsActive:   r.IsActive,
		Notes:      validation.SanitizeString(r.Notes),
	}
}

type UpdateTenantRequest struct {
	PropertyID    *string          `json:"property_id"`
	Name          *string          `json:"name"`
	Document      *string          `json:"document"`
	Phone         *string          `json:"phone"`
	Email         *string          `json:"email"`
	LeaseStart    *Date            `json:"lease_start"`
	LeaseEnd      *Date            `json:"lease_end"`
	ClearLeaseEnd bool             `json:"clear_lease_end"`
	Rent          *decimal.Decimal `json:"rent"`
	DueDay        *int             `json:"due_day"`
	IsActive      *bool            `json:"is_active"`
	Notes         *string          `json:"notes"`
}

func (r UpdateTenantRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.PropertyID != nil && !validation.IsValidUUID(*r.PropertyID) {
		errors["property_id"] = "Invalid property ID"
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Document != nil && !validation.IsValidDocument(*r.Document) {
		errors["document"] = "Invalid CPF or CNPJ"
	}
	validateContact(errors, deref(r.Phone), deref(r.Email))
	if r.LeaseStart != nil && r.LeaseStart.IsZero() {
		errors["lease_start"] = "Lease start cannot be empty"
	}
	if r.Rent != nil {
		if !r.Rent.IsPositive() {
			errors["rent"] = "Rent must be greater than zero"
		} else if !receipt.InRange(*r.Rent) {
			errors["rent"] = "Rent must be less than 1.000.000.000"
		}
	}
	if r.DueDay != nil && (*r.DueDay < 1 || *r.DueDay > 31) {
		errors["due_day"] = "Due day must be between 1 and 31"
	}

	return errors
}

func (r UpdateTenantRequest) Input() rental.TenantUpdate {
	in := rental.TenantUpdate{
		Name:       r.Name,
		Phone:      r.Phone,
		Email:      r.Email,
		LeaseStart: r.LeaseStart.Ptr(),
		LeaseEnd:   r.LeaseEnd.Ptr(),
		ClearEnd:   r.ClearLeaseEnd,
		Rent:       r.Rent,
		DueDay:     r.DueDay,
		IsActive:   r.IsActive,
		Notes:      r.Notes,
	}
	if r.PropertyID != nil {
		id := uuid.MustParse(*r.PropertyID)
		in.PropertyID = &id
	}
	if r.Document != nil {
		doc := validation.OnlyDigits(*r.Document)
		in.Document = &doc
	}
	return in
}

type TenantResponse struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"property_id"`
	Name       string  `json:"name"`
	Document   string  `json:"document"`
	Phone      string  `json:"phone,omitempty"`
	Email      string  `json:"email,omitempty"`
	LeaseStart *string `json:"lease_start"`
	LeaseEnd   *string `json:"lease_end"`
	Rent       string  `json:"rent"`
	DueDay     int     `json:"due_day"`
	IsActive   bool    `json:"is_active"`
	Notes      string  `json:"notes,omitempty"`
	UserID     string  `json:"user_id"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func NewTenantResponse(t *models.Tenant) TenantResponse {
	return TenantResponse{
		ID:         t.ID.String(),
		PropertyID: t.PropertyID.String(),
		Name:       t.Name,
		Document:   t.Document,
		Phone:      t.Phone,
		Email:      t.Email,
		LeaseStart: formatDate(&t.LeaseStart),
		LeaseEnd:   formatDate(t.LeaseEnd),
		Rent:       Money(t.Rent),
		DueDay:     t.DueDay,
		IsActive:   t.IsActive,
		Notes:      t.Notes,
		UserID:     t.UserID.String(),
		CreatedAt:  formatTime(t.CreatedAt),
		UpdatedAt:  formatTime(t.UpdatedAt),
	}
}

package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/api/validation"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/rental"
)

type CreatePropertyRequest struct {
	OwnerID    string `json:"owner_id"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Kind       string `json:"kind"`
	Notes      string `json:"notes"`
}

func (r CreatePropertyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !validation.IsValidUUID(r.OwnerID) {
		errors["owner_id"] = "Valid owner ID is required"
	}
	if strings.TrimSpace(r.Street) == "" {
		errors["street"] = "Street is required"
	}
	if strings.TrimSpace(r.City) == "" {
		errors["city"] = "City is required"
	}
	if !validation.IsValidUF(r.State) {
		errors["state"] = "Invalid state"
	}
	validateAddress(errors, r.PostalCode, r.Kind)

	return errors
}

func (r CreatePropertyRequest) Input() rental.PropertyInput {
	return rental.PropertyInput{
		OwnerID:    uuid.MustParse(r.OwnerID),
		Street:     r.Street,
		Number:     r.Number,
		Complement: r.Complement,
		District:   r.District,
		City:       r.City,
		State:      r.State,
		PostalCode: validation.OnlyDigits(r.PostalCode),
		Kind:       models.PropertyKind(r.Kind),
		Notes:      validation.SanitizeString(r.Notes),
	}
}

type UpdatePropertyRequest struct {
	OwnerID    *string `json:"owner_id"`
	Street     *string `json:"street"`
	Number     *string `json:"number"`
	Complement *string `json:"complement"`
	District   *string `json:"district"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Kind       *string `json:"kind"`
	Notes      *string `json:"notes"`
}

func (r UpdatePropertyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.OwnerID != nil && !validation.IsValidUUID(*r.OwnerID) {
		errors["owner_id"] = "Invalid owner ID"
	}
	if r.Street != nil && strings.TrimSpace(*r.Street) == "" {
		errors["street"] = "Street cannot be empty"
	}
	if r.City != nil && strings.TrimSpace(*r.City) == "" {
		errors["city"] = "City cannot be empty"
	}
	if r.State != nil && !validation.IsValidUF(*r.State) {
		errors["state"] = "Invalid state"
	}
	validateAddress(errors, deref(r.PostalCode), deref(r.Kind))

	return errors
}

func (r UpdatePropertyRequest) Input() rental.PropertyUpdate {
	in := rental.PropertyUpdate{
		Street:     r.Street,
		Number:     r.Number,
		Complement: r.Complement,
		District:   r.District,
		City:       r.City,
		State:      r.State,
		Notes:      r.Notes,
	}
	if r.OwnerID != nil {
		id := uuid.MustParse(*r.OwnerID)
		in.OwnerID = &id
	}
	if r.PostalCode != nil {
		cep := validation.OnlyDigits(*r.PostalCode)
		in.PostalCode = &cep
	}
	if r.Kind != nil {
		kind := models.PropertyKind(*r.Kind)
		in.Kind = &kind
	}
	return in
}

func validateAddress(errors map[string]string, postalCode, kind string) {
	if postalCode != "" && !validation.IsValidCEP(postalCode) {
		errors["postal_code"] = "Invalid CEP"
	}
	if kind != "" && !models.PropertyKind(kind).Valid() {
		errors["kind"] = "Kind must be one of: residential, commercial, mixed"
	}
}

type PropertyResponse struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Street     string `json:"street"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code,omitempty"`
	Kind       string `json:"kind"`
	Notes      string `json:"notes,omitempty"`
	UserID     string `json:"user_id"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func NewPropertyResponse(p *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:         p.ID.String(),
		OwnerID:    p.OwnerID.String(),
		Street:     p.Street,
		Number:     p.Number,
		Complement: p.Complement,
		District:   p.District,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
		Kind:       string(p.Kind),
		Notes:      p.Notes,
		UserID:     p.UserID.String(),
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

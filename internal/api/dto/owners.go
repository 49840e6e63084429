package dto

import (
	"strings"

	"github.com/hugh/go-rental/internal/api/validation"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/rental"
)

type CreateOwnerRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

func (r CreateOwnerRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Name is required"
	}
	if r.Document == "" {
		errors["document"] = "CPF or CNPJ is required"
	} else if !validation.IsValidDocument(r.Document) {
		errors["document"] = "Invalid CPF or CNPJ"
	}
	validateContact(errors, r.Phone, r.Email)

	return errors
}

func (r CreateOwnerRequest) Input() rental.OwnerInput {
	return rental.OwnerInput{
		Name:     validation.SanitizeString(r.Name),
		Document: validation.OnlyDigits(r.Document),
		Phone:    r.Phone,
		Email:    r.Email,
	}
}

type UpdateOwnerRequest struct {
	Name     *string `json:"name"`
	Document *string `json:"document"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

func (r UpdateOwnerRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Document != nil && !validation.IsValidDocument(*r.Document) {
		errors["document"] = "Invalid CPF or CNPJ"
	}
	validateContact(errors, deref(r.Phone), deref(r.Email))

	return errors
}

func (r UpdateOwnerRequest) Input() rental.OwnerUpdate {
	in := rental.OwnerUpdate{Phone: r.Phone, Email: r.Email}
	if r.Name != nil {
		name := validation.SanitizeString(*r.Name)
		in.Name = &name
	}
	if r.Document != nil {
		doc := validation.OnlyDigits(*r.Document)
		in.Document = &doc
	}
	return in
}

type OwnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewOwnerResponse(o *models.Owner) OwnerResponse {
	return OwnerResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Document:  o.Document,
		Phone:     o.Phone,
		Email:     o.Email,
		UserID:    o.UserID.String(),
		CreatedAt: formatTime(o.CreatedAt),
		UpdatedAt: formatTime(o.UpdatedAt),
	}
}

// validateContact checks the optional phone and email fields shared by
// owners and tenants.
func validateContact(errors map[string]string, phone, email string) {
	if phone != "" && !validation.IsValidPhone(phone) {
		errors["phone"] = "Invalid phone number"
	}
	if email != "" && !validation.IsValidEmail(strings.TrimSpace(email)) {
		errors["email"] = "Invalid email format"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

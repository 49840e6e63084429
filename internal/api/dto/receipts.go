package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/api/validation"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/receipt"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/shopspring/decimal"
)

// ChargesRequest holds the itemized amounts of a receipt. Amounts may be
// sent as JSON numbers or strings.
type ChargesRequest struct {
	Rent        *decimal.Decimal `json:"rent"`
	Water       *decimal.Decimal `json:"water"`
	Electricity *decimal.Decimal `json:"electricity"`
	PropertyTax *decimal.Decimal `json:"property_tax"`
	LateFee     *decimal.Decimal `json:"late_fee"`
	Correction  *decimal.Decimal `json:"correction"`
	LegalFee    *decimal.Decimal `json:"legal_fee"`
	Bonus       *decimal.Decimal `json:"bonus"`
	Deduction   *decimal.Decimal `json:"deduction"`
	Withholding *decimal.Decimal `json:"withholding"`
}

func (c ChargesRequest) Patch() receipt.ChargesPatch {
	return receipt.ChargesPatch{
		Rent:        c.Rent,
		Water:       c.Water,
		Electricity: c.Electricity,
		PropertyTax: c.PropertyTax,
		LateFee:     c.LateFee,
		Correction:  c.Correction,
		LegalFee:    c.LegalFee,
		Bonus:       c.Bonus,
		Deduction:   c.Deduction,
		Withholding: c.Withholding,
	}
}

// Charges treats missing amounts as zero.
func (c ChargesRequest) Charges() receipt.Charges {
	return c.Patch().Apply(receipt.Charges{})
}

func validatePeriod(errors map[string]string, month, year int) {
	if month < 1 || month > 12 {
		errors["month"] = "Month must be between 1 and 12"
	}
	if year < 2000 || year > 2100 {
		errors["year"] = "Year is out of range"
	}
}

func mergeErrors(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

type CreateReceiptRequest struct {
	TenantID string `json:"tenant_id"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	DueDate  *Date  `json:"due_date"`
	ChargesRequest
	RentKind        string `json:"rent_kind"`
	NextAdjustment  *Date  `json:"next_adjustment"`
	AdjustmentIndex string `json:"adjustment_index"`
	LeaseExpiry     *Date  `json:"lease_expiry"`
	TenantCode      string `json:"tenant_code"`
	Notes           string `json:"notes"`
}

func (r CreateReceiptRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !validation.IsValidUUID(r.TenantID) {
		errors["tenant_id"] = "Valid tenant ID is required"
	}
	validatePeriod(errors, r.Month, r.Year)
	if r.Rent == nil || !r.Rent.IsPositive() {
		errors["rent"] = "Rent must be greater than zero"
	}
	if r.RentKind != "" && !models.PropertyKind(r.RentKind).Valid() {
		errors["rent_kind"] = "Kind must be one of: residential, commercial, mixed"
	}
	mergeErrors(errors, r.Charges().Validate())

	return errors
}

func (r CreateReceiptRequest) Input() rental.ReceiptInput {
	return rental.ReceiptInput{
		TenantID:        uuid.MustParse(r.TenantID),
		Month:           r.Month,
		Year:            r.Year,
		DueDate:         r.DueDate.Ptr(),
		Charges:         r.Charges(),
		RentKind:        models.PropertyKind(r.RentKind),
		NextAdjustment:  r.NextAdjustment.Ptr(),
		AdjustmentIndex: r.AdjustmentIndex,
		LeaseExpiry:     r.LeaseExpiry.Ptr(),
		TenantCode:      r.TenantCode,
		Notes:           validation.SanitizeString(r.Notes),
	}
}

// GenerateReceiptRequest issues the month's receipt from the tenant's
// contract; any rent sent is ignored.
type GenerateReceiptRequest struct {
	TenantID string `json:"tenant_id"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	ChargesRequest
	Notes string `json:"notes"`
}

func (r GenerateReceiptRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !validation.IsValidUUID(r.TenantID) {
		errors["tenant_id"] = "Valid tenant ID is required"
	}
	validatePeriod(errors, r.Month, r.Year)
	mergeErrors(errors, r.Charges().Validate())

	return errors
}

func (r GenerateReceiptRequest) Input() rental.GenerateInput {
	return rental.GenerateInput{
		TenantID: uuid.MustParse(r.TenantID),
		Month:    r.Month,
		Year:     r.Year,
		Charges:  r.Charges(),
		Notes:    validation.SanitizeString(r.Notes),
	}
}

type UpdateReceiptRequest struct {
	Month   *int  `json:"month"`
	Year    *int  `json:"year"`
	DueDate *Date `json:"due_date"`
	ChargesRequest
	RentKind        *string `json:"rent_kind"`
	NextAdjustment  *Date   `json:"next_adjustment"`
	AdjustmentIndex *string `json:"adjustment_index"`
	LeaseExpiry     *Date   `json:"lease_expiry"`
	TenantCode      *string `json:"tenant_code"`
	Notes           *string `json:"notes"`
}

func (r UpdateReceiptRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		errors["month"] = "Month must be between 1 and 12"
	}
	if r.Year != nil && (*r.Year < 2000 || *r.Year > 2100) {
		errors["year"] = "Year is out of range"
	}
	if r.Rent != nil && !r.Rent.IsPositive() {
		errors["rent"] = "Rent must be greater than zero"
	}
	if r.RentKind != nil && !models.PropertyKind(*r.RentKind).Valid() {
		errors["rent_kind"] = "Kind must be one of: residential, commercial, mixed"
	}
	mergeErrors(errors, r.Charges().Validate())

	return errors
}

func (r UpdateReceiptRequest) Input() rental.ReceiptUpdate {
	in := rental.ReceiptUpdate{
		Month:           r.Month,
		Year:            r.Year,
		DueDate:         r.DueDate.Ptr(),
		NextAdjustment:  r.NextAdjustment.Ptr(),
		AdjustmentIndex: r.AdjustmentIndex,
		LeaseExpiry:     r.LeaseExpiry.Ptr(),
		TenantCode:      r.TenantCode,
		Notes:           r.Notes,
	}
	if patch := r.Patch(); !patch.Empty() {
		in.Charges = &patch
	}
	if r.RentKind != nil {
		kind := models.PropertyKind(*r.RentKind)
		in.RentKind = &kind
	}
	return in
}

type PayReceiptRequest struct {
	PaidAt *Date `json:"paid_at"`
}

func (r PayReceiptRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.PaidAt.Ptr() == nil {
		errors["paid_at"] = "Payment date is required"
	}
	return errors
}

type ReceiptResponse struct {
	ID              string  `json:"id"`
	Number          int     `json:"number"`
	TenantID        string  `json:"tenant_id"`
	PropertyID      string  `json:"property_id"`
	OwnerID         string  `json:"owner_id"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	DueDate         *string `json:"due_date"`
	Rent            string  `json:"rent"`
	Water           string  `json:"water"`
	Electricity     string  `json:"electricity"`
	PropertyTax     string  `json:"property_tax"`
	LateFee         string  `json:"late_fee"`
	Correction      string  `json:"correction"`
	LegalFee        string  `json:"legal_fee"`
	Bonus           string  `json:"bonus"`
	Deduction       string  `json:"deduction"`
	Withholding     string  `json:"withholding"`
	Total           string  `json:"total"`
	RentKind        string  `json:"rent_kind"`
	NextAdjustment  *string `json:"next_adjustment,omitempty"`
	AdjustmentIndex string  `json:"adjustment_index,omitempty"`
	LeaseExpiry     *string `json:"lease_expiry,omitempty"`
	TenantCode      string  `json:"tenant_code,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	Paid            bool    `json:"paid"`
	PaidAt          *string `json:"paid_at,omitempty"`
	UserID          string  `json:"user_id"`
	CreatedAt       string  `json:"created_at"`
}

func NewReceiptResponse(r *models.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:              r.ID.String(),
		Number:          r.Number,
		TenantID:        r.TenantID.String(),
		PropertyID:      r.PropertyID.String(),
		OwnerID:         r.OwnerID.String(),
		Month:           r.Month,
		Year:            r.Year,
		DueDate:         formatDate(&r.DueDate),
		Rent:            Money(r.Rent),
		Water:           Money(r.Water),
		Electricity:     Money(r.Electricity),
		PropertyTax:     Money(r.PropertyTax),
		LateFee:         Money(r.LateFee),
		Correction:      Money(r.Correction),
		LegalFee:        Money(r.LegalFee),
		Bonus:           Money(r.Bonus),
		Deduction:       Money(r.Deduction),
		Withholding:     Money(r.Withholding),
		Total:           Money(r.Total),
		RentKind:        string(r.RentKind),
		NextAdjustment:  formatDate(r.NextAdjustment),
		AdjustmentIndex: r.AdjustmentIndex,
		LeaseExpiry:     formatDate(r.LeaseExpiry),
		TenantCode:      r.TenantCode,
		Notes:           r.Notes,
		Paid:            r.Paid,
		PaidAt:          formatDate(r.PaidAt),
		UserID:          r.UserID.String(),
		CreatedAt:       formatTime(r.CreatedAt),
	}
}

type WordsResponse struct {
	Period       string `json:"period"`
	Total        string `json:"total"`
	TotalInWords string `json:"total_in_words"`
}

// Period returns the receipt's reference month as "MM/YYYY".
func Period(r *models.Receipt) string {
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC).Format("01/2006")
}

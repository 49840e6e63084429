package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the monthly rent statement issued to a tenant. PropertyID and
// OwnerID are copied from the tenant at issue time for reporting.
type Receipt struct {
	Base
	Owned
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Number     int       `gorm:"not null" json:"number"`
	Month      int       `gorm:"not null;index:idx_receipts_period" json:"month"`
	Year       int       `gorm:"not null;index:idx_receipts_period" json:"year"`
	DueDate    time.Time `gorm:"not null" json:"due_date"`

	Rent        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rent"`
	Water       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"water"`
	Electricity decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"electricity"`
	PropertyTax decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"property_tax"`
	LateFee     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"late_fee"`
	Correction  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"correction"`
	LegalFee    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"legal_fee"`
	Bonus       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"bonus"`
	Deduction   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"deduction"`
	Withholding decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"withholding"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	RentKind        PropertyKind `json:"rent_kind"`
	NextAdjustment  *time.Time   `json:"next_adjustment,omitempty"`
	AdjustmentIndex string       `json:"adjustment_index"`
	LeaseExpiry     *time.Time   `json:"lease_expiry,omitempty"`
	TenantCode      string       `json:"tenant_code"`
	Notes           string       `json:"notes"`

	Paid   bool       `gorm:"not null" json:"paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

func (Receipt) TableName() string {
	return "receipts"
}

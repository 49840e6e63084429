package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Tenant struct {
	Base
	Owned
	PropertyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"property_id"`
	Name       string          `gorm:"not null" json:"name"`
	Document   string          `gorm:"not null" json:"-"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	LeaseStart time.Time       `gorm:"not null" json:"lease_start"`
	LeaseEnd   *time.Time      `json:"lease_end,omitempty"`
	Rent       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rent"`
	DueDay     int             `gorm:"not null" json:"due_day"`
	IsActive   bool            `gorm:"not null;index" json:"is_active"`
	Notes      string          `json:"notes"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (Tenant) TableName() string {
	return "tenants"
}

package models

import "github.com/google/uuid"

type PropertyKind string

const (
	PropertyKindResidential PropertyKind = "residential"
	PropertyKindCommercial  PropertyKind = "commercial"
	PropertyKindMixed       PropertyKind = "mixed"
)

func (k PropertyKind) Valid() bool {
	switch k {
	case PropertyKindResidential, PropertyKindCommercial, PropertyKindMixed:
		return true
	}
	return false
}

type Property struct {
	Base
	Owned
	OwnerID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Street     string       `gorm:"not null" json:"street"`
	Number     string       `json:"number"`
	Complement string       `json:"complement"`
	District   string       `json:"district"`
	City       string       `gorm:"not null" json:"city"`
	State      string       `gorm:"size:2;not null" json:"state"`
	PostalCode string       `gorm:"size:8" json:"postal_code"`
	Kind       PropertyKind `gorm:"not null" json:"kind"`
	Notes      string       `json:"notes"`

	Owner *Owner `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Property) TableName() string {
	return "properties"
}

package models

// Owner is the landlord of one or more properties.
// Document holds the CPF encrypted with the server key.
type Owner struct {
	Base
	Owned
	Name     string `gorm:"not null" json:"name"`
	Document string `gorm:"not null" json:"-"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`

	Properties []Property `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Owner) TableName() string {
	return "owners"
}

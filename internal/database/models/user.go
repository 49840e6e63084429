package models

import "time"

type User struct {
	Base
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Name               string     `gorm:"not null" json:"name"`
	IsActive           bool       `gorm:"not null" json:"is_active"`
	IsAdmin            bool       `gorm:"not null" json:"is_admin"`
	PlanID             *string    `gorm:"size:32;index" json:"plan_id,omitempty"`
	MustChangePassword bool       `gorm:"not null" json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// EffectivePlanID returns the plan the user is billed under, falling back to
// the lowest tier when none was assigned.
func (u *User) EffectivePlanID() string {
	if u.PlanID == nil || *u.PlanID == "" {
		return DefaultPlanID
	}
	return *u.PlanID
}

package models

import "time"

const (
	PlanBasic        = "basico"
	PlanProfessional = "profissional"
	PlanEnterprise   = "empresarial"

	DefaultPlanID = PlanBasic
)

// Plan caps how many owners, properties and tenants a regular user may keep.
type Plan struct {
	ID              string    `gorm:"primaryKey;size:32" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	MaxOwners       int       `gorm:"not null" json:"max_owners"`
	MaxProperties   int       `gorm:"not null" json:"max_properties"`
	MaxTenants      int       `gorm:"not null" json:"max_tenants"`
	AdvancedReports bool      `gorm:"not null" json:"advanced_reports"`
	CustomTemplates bool      `gorm:"not null" json:"custom_templates"`
	MultiUser       bool      `gorm:"not null" json:"multi_user"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// DefaultPlans is the catalogue seeded on first run.
func DefaultPlans() []Plan {
	return []Plan{
		{
			ID:            PlanBasic,
			Name:          "Básico",
			Description:   "Plano básico para pequenos proprietários",
			MaxOwners:     10,
			MaxProperties: 20,
			MaxTenants:    20,
			IsActive:      true,
		},
		{
			ID:              PlanProfessional,
			Name:            "Profissional",
			Description:     "Plano para administradoras em crescimento",
			MaxOwners:       25,
			MaxProperties:   50,
			MaxTenants:      50,
			AdvancedReports: true,
			CustomTemplates: true,
			IsActive:        true,
		},
		{
			ID:              PlanEnterprise,
			Name:            "Empresarial",
			Description:     "Plano sem limites práticos para imobiliárias",
			MaxOwners:       9999,
			MaxProperties:   9999,
			MaxTenants:      9999,
			AdvancedReports: true,
			CustomTemplates: true,
			MultiUser:       true,
			IsActive:        true,
		},
	}
}

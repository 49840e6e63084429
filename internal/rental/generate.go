package rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/tenancy"
	"gorm.io/gorm"
)

// BatchResult summarizes a monthly generation run.
type BatchResult struct {
	Created int
	Skipped int
	Failed  int
}

// GenerateMonthly issues the period's receipt for every active tenant of
// every user. Each receipt is issued under the scope of the tenant's owner,
// so numbering and visibility match a receipt created through the API.
// Tenants that already have a receipt for the period are skipped.
func (s *Service) GenerateMonthly(ctx context.Context, month, year int) (BatchResult, error) {
	var res BatchResult
	if err := validatePeriod(month, year); err != nil {
		return res, err
	}

	var tenants []models.Tenant
	err := s.db.WithContext(ctx).
		Preload("Property").
		Where("is_active = ?", true).
		FindInBatches(&tenants, 100, func(tx *gorm.DB, batch int) error {
			for i := range tenants {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.generateOne(ctx, &tenants[i], month, year, &res)
			}
			return nil
		}).Error
	if err != nil {
		return res, fmt.Errorf("generating receipts for %02d/%d: %w", month, year, err)
	}
	return res, nil
}

func (s *Service) generateOne(ctx context.Context, tenant *models.Tenant, month, year int, res *BatchResult) {
	if tenant.Property == nil {
		res.Failed++
		s.logger.Warn("tenant without property", "tenant_id", tenant.ID)
		return
	}

	scope := tenancy.ForUser(tenant.UserID, false)
	in := generatedInput(tenant, GenerateInput{TenantID: tenant.ID, Month: month, Year: year})
	_, err := s.issueReceipt(ctx, scope, tenant, in, "worker")

	var conflict *ConflictError
	switch {
	case err == nil:
		res.Created++
	case errors.As(err, &conflict):
		res.Skipped++
	default:
		res.Failed++
		s.logger.Error("failed to generate receipt",
			"tenant_id", tenant.ID,
			"month", month,
			"year", year,
			"error", err,
		)
	}
}

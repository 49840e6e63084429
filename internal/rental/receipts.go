package rental

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/metrics"
	"github.com/hugh/go-rental/internal/receipt"
	"github.com/hugh/go-rental/internal/tenancy"
	"gorm.io/gorm"
)

// ReceiptInput creates a receipt with explicit charges. Property and owner
// are always taken from the tenant.
type ReceiptInput struct {
	TenantID        uuid.UUID
	Month           int
	Year            int
	DueDate         *time.Time
	Charges         receipt.Charges
	RentKind        models.PropertyKind
	NextAdjustment  *time.Time
	AdjustmentIndex string
	LeaseExpiry     *time.Time
	TenantCode      string
	Notes           string
}

// GenerateInput issues the month's receipt from the tenant's contract. Rent
// comes from the tenant; Charges.Rent is ignored.
type GenerateInput struct {
	TenantID uuid.UUID
	Month    int
	Year     int
	Charges  receipt.Charges
	Notes    string
}

type ReceiptUpdate struct {
	Month           *int
	Year            *int
	DueDate         *time.Time
	Charges         *receipt.ChargesPatch
	RentKind        *models.PropertyKind
	NextAdjustment  *time.Time
	AdjustmentIndex *string
	LeaseExpiry     *time.Time
	TenantCode      *string
	Notes           *string
}

type ReceiptFilter struct {
	TenantID   *uuid.UUID
	PropertyID *uuid.UUID
	OwnerID    *uuid.UUID
	Month      *int
	Year       *int
	Paid       *bool
}

func chargesOf(r *models.Receipt) receipt.Charges {
	return receipt.Charges{
		Rent:        r.Rent,
		Water:       r.Water,
		Electricity: r.Electricity,
		PropertyTax: r.PropertyTax,
		LateFee:     r.LateFee,
		Correction:  r.Correction,
		LegalFee:    r.LegalFee,
		Bonus:       r.Bonus,
		Deduction:   r.Deduction,
		Withholding: r.Withholding,
	}
}

func setCharges(r *models.Receipt, c receipt.Charges) {
	r.Rent = c.Rent.Round(2)
	r.Water = c.Water.Round(2)
	r.Electricity = c.Electricity.Round(2)
	r.PropertyTax = c.PropertyTax.Round(2)
	r.LateFee = c.LateFee.Round(2)
	r.Correction = c.Correction.Round(2)
	r.LegalFee = c.LegalFee.Round(2)
	r.Bonus = c.Bonus.Round(2)
	r.Deduction = c.Deduction.Round(2)
	r.Withholding = c.Withholding.Round(2)
	r.Total = receipt.Total(chargesOf(r))
}

// DueDate places the due day inside the given month, clamping day 31 to the
// month's last day.
func DueDate(year, month, day int) time.Time {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func (s *Service) requireTenant(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := findScoped[models.Tenant](s.scoped(ctx, scope).Preload("Property"), id)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError("tenant_id", "Tenant not found")
	}
	if err != nil {
		return nil, err
	}
	if tenant.Property == nil {
		return nil, NewValidationError("tenant_id", "Tenant has no property")
	}
	return tenant, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return NewValidationError("month", "Month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return NewValidationError("year", "Year is out of range")
	}
	return nil
}

func (s *Service) CreateReceipt(ctx context.Context, scope tenancy.Scope, in ReceiptInput) (*models.Receipt, error) {
	if err := validatePeriod(in.Month, in.Year); err != nil {
		return nil, err
	}
	tenant, err := s.requireTenant(ctx, scope, in.TenantID)
	if err != nil {
		return nil, err
	}
	return s.issueReceipt(ctx, scope, tenant, in, "api")
}

// GenerateReceipt issues the month's receipt using the tenant's contract rent.
func (s *Service) GenerateReceipt(ctx context.Context, scope tenancy.Scope, in GenerateInput) (*models.Receipt, error) {
	if err := validatePeriod(in.Month, in.Year); err != nil {
		return nil, err
	}
	tenant, err := s.requireTenant(ctx, scope, in.TenantID)
	if err != nil {
		return nil, err
	}
	return s.issueReceipt(ctx, scope, tenant, generatedInput(tenant, in), "api")
}

func generatedInput(tenant *models.Tenant, in GenerateInput) ReceiptInput {
	charges := in.Charges
	charges.Rent = tenant.Rent
	return ReceiptInput{
		TenantID: tenant.ID,
		Month:    in.Month,
		Year:     in.Year,
		Charges:  charges,
		Notes:    in.Notes,
	}
}

func (s *Service) issueReceipt(ctx context.Context, scope tenancy.Scope, tenant *models.Tenant, in ReceiptInput, origin string) (*models.Receipt, error) {
	if errs := in.Charges.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	rec := models.Receipt{
		TenantID:        tenant.ID,
		PropertyID:      tenant.PropertyID,
		OwnerID:         tenant.Property.OwnerID,
		Month:           in.Month,
		Year:            in.Year,
		RentKind:        in.RentKind,
		NextAdjustment:  in.NextAdjustment,
		AdjustmentIndex: in.AdjustmentIndex,
		LeaseExpiry:     in.LeaseExpiry,
		TenantCode:      in.TenantCode,
		Notes:           in.Notes,
	}
	if in.DueDate != nil {
		rec.DueDate = *in.DueDate
	} else {
		rec.DueDate = DueDate(in.Year, in.Month, tenant.DueDay)
	}
	if rec.RentKind == "" {
		rec.RentKind = tenant.Property.Kind
	}
	if rec.LeaseExpiry == nil {
		rec.LeaseExpiry = tenant.LeaseEnd
	}
	setCharges(&rec, in.Charges)

	if err := s.insertReceipt(ctx, scope, &rec); err != nil {
		return nil, err
	}
	metrics.ReceiptsGeneratedTotal.WithLabelValues(origin).Inc()
	return &rec, nil
}

// numberAttempts bounds retries when a concurrent insert takes the same
// receipt number first.
const numberAttempts = 3

// insertReceipt checks the one-per-month rule, assigns the next sequential
// number for the owning user and inserts, all in one transaction. The unique
// (user_id, number) index turns a lost race into gorm.ErrDuplicatedKey, and
// the whole transaction is retried with a fresh number.
func (s *Service) insertReceipt(ctx context.Context, scope tenancy.Scope, rec *models.Receipt) error {
	rec.UserID = scope.Owner()

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := ensureUniquePeriod(tx, rec.TenantID, rec.Month, rec.Year, uuid.Nil); err != nil {
				return err
			}

			var last int
			if err := tx.Unscoped().Model(&models.Receipt{}).
				Where("user_id = ?", rec.UserID).
				Select("COALESCE(MAX(number), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			rec.Number = last + 1

			return tx.Create(rec).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		s.logger.Warn("receipt number taken, retrying", "user_id", rec.UserID, "number", rec.Number)
	}
	return err
}

func ensureUniquePeriod(tx *gorm.DB, tenantID uuid.UUID, month, year int, except uuid.UUID) error {
	var n int64
	q := tx.Model(&models.Receipt{}).Where("tenant_id = ? AND month = ? AND year = ?", tenantID, month, year)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return NewConflictError("receipt", "a receipt for this tenant and period already exists")
	}
	return nil
}

func (s *Service) GetReceipt(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Receipt, error) {
	return findScoped[models.Receipt](s.scoped(ctx, scope), id)
}

func (s *Service) ListReceipts(ctx context.Context, scope tenancy.Scope, filter ReceiptFilter, page Page) ([]models.Receipt, int64, error) {
	q := s.scoped(ctx, scope)
	if filter.TenantID != nil {
		q = q.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.PropertyID != nil {
		q = q.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Month != nil {
		q = q.Where("month = ?", *filter.Month)
	}
	if filter.Year != nil {
		q = q.Where("year = ?", *filter.Year)
	}
	if filter.Paid != nil {
		q = q.Where("paid = ?", *filter.Paid)
	}
	return listScoped[models.Receipt](q, page)
}

func (s *Service) UpdateReceipt(ctx context.Context, scope tenancy.Scope, id uuid.UUID, in ReceiptUpdate) (*models.Receipt, error) {
	rec, err := findScoped[models.Receipt](s.scoped(ctx, scope), id)
	if err != nil {
		return nil, err
	}

	if in.Month != nil {
		rec.Month = *in.Month
	}
	if in.Year != nil {
		rec.Year = *in.Year
	}
	if err := validatePeriod(rec.Month, rec.Year); err != nil {
		return nil, err
	}
	if in.DueDate != nil {
		rec.DueDate = *in.DueDate
	}
	if in.Charges != nil {
		charges := in.Charges.Apply(chargesOf(rec))
		if errs := charges.Validate(); len(errs) > 0 {
			return nil, &ValidationError{Fields: errs}
		}
		setCharges(rec, charges)
	}
	if in.RentKind != nil {
		rec.RentKind = *in.RentKind
	}
	if in.NextAdjustment != nil {
		rec.NextAdjustment = in.NextAdjustment
	}
	if in.AdjustmentIndex != nil {
		rec.AdjustmentIndex = *in.AdjustmentIndex
	}
	if in.LeaseExpiry != nil {
		rec.LeaseExpiry = in.LeaseExpiry
	}
	if in.TenantCode != nil {
		rec.TenantCode = *in.TenantCode
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	rec.Total = receipt.Total(chargesOf(rec))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniquePeriod(tx, rec.TenantID, rec.Month, rec.Year, rec.ID); err != nil {
			return err
		}
		return tx.Save(rec).Error
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// PayReceipt marks the receipt paid on paidAt.
func (s *Service) PayReceipt(ctx context.Context, scope tenancy.Scope, id uuid.UUID, paidAt time.Time) (*models.Receipt, error) {
	if paidAt.IsZero() {
		return nil, NewValidationError("paid_at", "Payment date is required")
	}

	rec, err := findScoped[models.Receipt](s.scoped(ctx, scope), id)
	if err != nil {
		return nil, err
	}

	rec.Paid = true
	rec.PaidAt = &paidAt
	if err := s.db.WithContext(ctx).Model(rec).Updates(map[string]interface{}{
		"paid":    true,
		"paid_at": paidAt,
	}).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// LastReceipt returns the most recent period's receipt for a tenant.
func (s *Service) LastReceipt(ctx context.Context, scope tenancy.Scope, tenantID uuid.UUID) (*models.Receipt, error) {
	if _, err := findScoped[models.Tenant](s.scoped(ctx, scope), tenantID); err != nil {
		return nil, err
	}

	var rec models.Receipt
	err := s.scoped(ctx, scope).
		Where("tenant_id = ?", tenantID).
		Order("year DESC").Order("month DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *Service) DeleteReceipt(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return s.deleteScoped(ctx, scope, &models.Receipt{}, id)
}

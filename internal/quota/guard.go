// Package quota enforces the per-plan caps on owners, properties and tenants.
//
// The check counts rows and compares against the plan before the caller
// inserts. It is not atomic with the insert: two concurrent creates at
// limit-1 can both pass. Enforcement is best-effort.
package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/metrics"
	"github.com/hugh/go-rental/internal/tenancy"
	"gorm.io/gorm"
)

type Kind string

const (
	KindOwners     Kind = "owners"
	KindProperties Kind = "properties"
	KindTenants    Kind = "tenants"
)

// Kinds lists every capped entity kind.
var Kinds = []Kind{KindOwners, KindProperties, KindTenants}

var ErrUnknownKind = errors.New("unknown quota kind")

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

func (k Kind) model() interface{} {
	switch k {
	case KindOwners:
		return &models.Owner{}
	case KindProperties:
		return &models.Property{}
	case KindTenants:
		return &models.Tenant{}
	}
	return nil
}

func limitFor(p *models.Plan, k Kind) int {
	switch k {
	case KindOwners:
		return p.MaxOwners
	case KindProperties:
		return p.MaxProperties
	case KindTenants:
		return p.MaxTenants
	}
	return 0
}

// Unlimited is the Limit reported for administrators.
const Unlimited = -1

type Result struct {
	Kind      Kind   `json:"kind"`
	Allowed   bool   `json:"allowed"`
	Unlimited bool   `json:"unlimited"`
	Current   int64  `json:"current"`
	Limit     int    `json:"limit"`
	Percent   int    `json:"percent"`
	Plan      string `json:"plan"`
	PlanName  string `json:"plan_name"`
}

// ExceededError is returned by Enforce when the plan cap is reached.
type ExceededError struct {
	Result
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("plan %s allows %d %s, %d in use", e.Plan, e.Limit, e.Kind, e.Current)
}

type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// Check reports whether the scope may create one more row of kind.
func (g *Guard) Check(ctx context.Context, scope tenancy.Scope, kind Kind) (Result, error) {
	if kind.model() == nil {
		return Result{}, ErrUnknownKind
	}

	if scope.IsAdmin {
		return Result{
			Kind:      kind,
			Allowed:   true,
			Unlimited: true,
			Limit:     Unlimited,
		}, nil
	}

	plan, err := g.planFor(ctx, scope)
	if err != nil {
		return Result{}, err
	}

	current, err := g.count(ctx, scope, kind)
	if err != nil {
		return Result{}, err
	}

	limit := limitFor(plan, kind)
	return Result{
		Kind:     kind,
		Allowed:  current < int64(limit),
		Current:  current,
		Limit:    limit,
		Percent:  percent(current, limit),
		Plan:     plan.ID,
		PlanName: plan.Name,
	}, nil
}

// Enforce returns an *ExceededError when Check denies the create.
func (g *Guard) Enforce(ctx context.Context, scope tenancy.Scope, kind Kind) error {
	res, err := g.Check(ctx, scope, kind)
	if err != nil {
		return err
	}
	if !res.Allowed {
		metrics.QuotaDenialsTotal.WithLabelValues(string(kind)).Inc()
		return &ExceededError{Result: res}
	}
	return nil
}

// Usage is the per-kind utilization of the operating user's plan.
type Usage struct {
	Plan  *models.Plan    `json:"plan"`
	Kinds map[Kind]Result `json:"usage"`
}

func (g *Guard) Usage(ctx context.Context, scope tenancy.Scope) (*Usage, error) {
	plan, err := g.planFor(ctx, scope)
	if err != nil {
		return nil, err
	}

	usage := &Usage{Plan: plan, Kinds: make(map[Kind]Result, len(Kinds))}
	for _, kind := range Kinds {
		// Admins still see their own counts, against no limit.
		current, err := g.count(ctx, tenancy.Scope{UserID: scope.UserID}, kind)
		if err != nil {
			return nil, err
		}
		res := Result{
			Kind:     kind,
			Current:  current,
			Plan:     plan.ID,
			PlanName: plan.Name,
		}
		if scope.IsAdmin {
			res.Allowed = true
			res.Unlimited = true
			res.Limit = Unlimited
		} else {
			res.Limit = limitFor(plan, kind)
			res.Allowed = current < int64(res.Limit)
			res.Percent = percent(current, res.Limit)
		}
		usage.Kinds[kind] = res
	}
	return usage, nil
}

func (g *Guard) count(ctx context.Context, scope tenancy.Scope, kind Kind) (int64, error) {
	var n int64
	err := g.db.WithContext(ctx).
		Model(kind.model()).
		Where("user_id = ?", scope.UserID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}

// planFor loads the user's plan, falling back to the lowest tier when the
// user has none or it no longer exists.
func (g *Guard) planFor(ctx context.Context, scope tenancy.Scope) (*models.Plan, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Select("id", "plan_id").First(&user, "id = ?", scope.UserID).Error; err != nil {
		return nil, fmt.Errorf("loading user plan: %w", err)
	}

	var plan models.Plan
	err := g.db.WithContext(ctx).First(&plan, "id = ?", user.EffectivePlanID()).Error
	if err == nil {
		return &plan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	err = g.db.WithContext(ctx).First(&plan, "id = ?", models.DefaultPlanID).Error
	if err == nil {
		return &plan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading default plan: %w", err)
	}
	fallback := models.DefaultPlans()[0]
	return &fallback, nil
}

func percent(current int64, limit int) int {
	if limit <= 0 {
		return 100
	}
	p := int(current * 100 / int64(limit))
	if p > 100 {
		return 100
	}
	return p
}

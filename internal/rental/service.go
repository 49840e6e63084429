// Package rental implements the owner, property, tenant and receipt
// operations. Every method takes the operating tenancy.Scope; reads and
// writes only ever touch rows visible under it.
package rental

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/tenancy"
	"github.com/hugh/go-rental/pkg/crypto"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	guard  *quota.Guard
	enc    *crypto.Encryptor
	logger *slog.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, guard *quota.Guard, enc *crypto.Encryptor, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		guard:  guard,
		enc:    enc,
		logger: logger,
		now:    time.Now,
	}
}

// Page bounds a list query.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}

func (s *Service) scoped(ctx context.Context, scope tenancy.Scope) *gorm.DB {
	return s.db.WithContext(ctx).Scopes(scope.Apply)
}

// findScoped loads one row by id through the scope in a single query.
func findScoped[T any](db *gorm.DB, id uuid.UUID) (*T, error) {
	var row T
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) deleteScoped(ctx context.Context, scope tenancy.Scope, model interface{}, id uuid.UUID) error {
	res := s.scoped(ctx, scope).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// listScoped counts and fetches one page, newest first.
func listScoped[T any](db *gorm.DB, page Page) ([]T, int64, error) {
	var (
		rows  []T
		total int64
	)
	base := db.Session(&gorm.Session{})
	if err := base.Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(base).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Service) seal(field, value string) (string, error) {
	sealed, err := s.enc.Seal(value)
	if err != nil {
		return "", fmt.Errorf("encrypting %s: %w", field, err)
	}
	return sealed, nil
}

func (s *Service) open(field, value string) (string, error) {
	plain, err := s.enc.Open(value)
	if err != nil {
		return "", fmt.Errorf("decrypting %s: %w", field, err)
	}
	return plain, nil
}

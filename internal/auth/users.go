package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Name               *string
	Email              *string
	Password           *string
	IsAdmin            *bool
	MustChangePassword *bool
}

func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	db := s.db.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Plan").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser applies admin edits. Setting a password while the user is
// flagged for rotation clears the flag unless the same request sets it again.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Email != nil {
			email := NormalizeEmail(*input.Email)
			if email != user.Email {
				var count int64
				if err := tx.Unscoped().Model(&models.User{}).
					Where("email = ? AND id <> ?", email, id).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return ErrUserExists
				}
				updates["email"] = email
			}
		}
		if input.Password != nil {
			hash, err := HashPassword(*input.Password)
			if err != nil {
				return err
			}
			updates["password_hash"] = hash
			if user.MustChangePassword {
				updates["must_change_password"] = false
			}
		}
		if input.IsAdmin != nil {
			updates["is_admin"] = *input.IsAdmin
		}
		if input.MustChangePassword != nil {
			updates["must_change_password"] = *input.MustChangePassword
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

// SetActive toggles the active flag. Deactivation takes effect on the next
// request of any live session since sessions re-read the user row.
func (s *Service) SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*models.User, error) {
	if !active && actorID == id {
		return nil, ErrSelfAction
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetUserByID(ctx, id)
}

func (s *Service) SetPlan(ctx context.Context, id uuid.UUID, planID string) (*models.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePlan(tx, planID); err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", id).Update("plan_id", planID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *Service) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrSelfAction
	}
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

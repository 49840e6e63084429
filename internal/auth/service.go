package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrSamePassword       = errors.New("new password must differ from the current one")
	ErrSelfAction         = errors.New("operation not allowed on own account")
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
	now func() time.Time
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt, now: time.Now}
}

type RegisterInput struct {
	Email              string
	Password           string
	Name               string
	IsAdmin            bool
	PlanID             string
	MustChangePassword bool
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NormalizeEmail is applied before every lookup or write so that uniqueness
// is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user account. Callers are responsible for checking that
// the requester is an administrator.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)

	planID := input.PlanID
	if planID == "" {
		planID = models.DefaultPlanID
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:              email,
		PasswordHash:       hash,
		Name:               strings.TrimSpace(input.Name),
		IsActive:           true,
		IsAdmin:            input.IsAdmin,
		PlanID:             &planID,
		MustChangePassword: input.MustChangePassword,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}
		if err := ensurePlan(tx, planID); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("email = ?", NormalizeEmail(input.Email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	token, err := s.jwt.GenerateToken(&user)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Plan").
		First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the caller's own password and clears the forced
// rotation flag. Tokens already issued still carry the old flag value, so
// callers must end the session afterwards.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := VerifyPassword(user.PasswordHash, current); err != nil {
		return err
	}
	if current == next {
		return ErrSamePassword
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":        hash,
			"must_change_password": false,
		}).Error
}

type ProfileInput struct {
	Name  *string
	Email *string
}

// UpdateProfile applies self-service edits. Flags and plan are admin-only.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.User, error) {
	return s.UpdateUser(ctx, userID, UpdateUserInput{Name: input.Name, Email: input.Email})
}

func ensurePlan(tx *gorm.DB, planID string) error {
	var plan models.Plan
	if err := tx.Where("id = ? AND is_active = ?", planID, true).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

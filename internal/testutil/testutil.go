package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/database"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/pkg/crypto"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestPassword = "testpassword123"

// SetupTestDB returns a migrated in-memory SQLite database with the default
// plans seeded. A single connection keeps every query on the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := database.SeedPlans(context.Background(), db); err != nil {
		t.Fatalf("failed to seed plans: %v", err)
	}

	return db
}

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type UserOption func(*models.User)

func AsAdmin() UserOption {
	return func(u *models.User) { u.IsAdmin = true }
}

func WithPlan(planID string) UserOption {
	return func(u *models.User) { u.PlanID = &planID }
}

func Inactive() UserOption {
	return func(u *models.User) { u.IsActive = false }
}

func MustChangePassword() UserOption {
	return func(u *models.User) { u.MustChangePassword = true }
}

// CreateTestUser inserts an active regular user on the basic plan with
// TestPassword as password.
func CreateTestUser(t *testing.T, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	plan := models.DefaultPlanID
	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		IsActive:     true,
		PlanID:       &plan,
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// SetPlanLimits overwrites the quotas of a seeded plan.
func SetPlanLimits(t *testing.T, db *gorm.DB, planID string, owners, properties, tenants int) {
	t.Helper()

	err := db.Model(&models.Plan{}).Where("id = ?", planID).Updates(map[string]interface{}{
		"max_owners":     owners,
		"max_properties": properties,
		"max_tenants":    tenants,
	}).Error
	if err != nil {
		t.Fatalf("failed to update plan limits: %v", err)
	}
}

func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

func CreateTestOwner(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.Owner {
	t.Helper()

	owner := &models.Owner{
		Base:  models.Base{ID: uuid.New()},
		Owned: models.Owned{UserID: userID},
		Name:  name,
	}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("failed to create test owner: %v", err)
	}
	return owner
}

func CreateTestProperty(t *testing.T, db *gorm.DB, userID, ownerID uuid.UUID) *models.Property {
	t.Helper()

	property := &models.Property{
		Base:       models.Base{ID: uuid.New()},
		Owned:      models.Owned{UserID: userID},
		OwnerID:    ownerID,
		Street:     "Rua das Flores",
		Number:     "100",
		City:       "São Paulo",
		State:      "SP",
		PostalCode: "01001000",
		Kind:       models.PropertyKindResidential,
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}
	return property
}

func CreateTestTenant(t *testing.T, db *gorm.DB, userID, propertyID uuid.UUID, rent string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{
		Base:       models.Base{ID: uuid.New()},
		Owned:      models.Owned{UserID: userID},
		PropertyID: propertyID,
		Name:       "Maria Inquilina",
		LeaseStart: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Rent:       decimal.RequireFromString(rent),
		DueDay:     10,
		IsActive:   true,
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("failed to create test tenant: %v", err)
	}
	return tenant
}

// CreateTestReceipt inserts a receipt for the tenant's property and owner.
func CreateTestReceipt(t *testing.T, db *gorm.DB, tenant *models.Tenant, ownerID uuid.UUID, month, year int) *models.Receipt {
	t.Helper()

	rec := &models.Receipt{
		Base:       models.Base{ID: uuid.New()},
		Owned:      models.Owned{UserID: tenant.UserID},
		TenantID:   tenant.ID,
		PropertyID: tenant.PropertyID,
		OwnerID:    ownerID,
		Number:     month,
		Month:      month,
		Year:       year,
		DueDate:    time.Date(year, time.Month(month), 10, 0, 0, 0, 0, time.UTC),
		Rent:       tenant.Rent,
		Total:      tenant.Rent,
		RentKind:   models.PropertyKindResidential,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test receipt: %v", err)
	}
	return rec
}

// AuthenticatedRequest creates a JSON request carrying the token as a bearer
// header.
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// CookieRequest is AuthenticatedRequest with the token in the session cookie.
func CookieRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	req := AuthenticatedRequest(t, method, path, body, "")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	return req
}

func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies: one admin and one
// regular user, each with a token.
type TestSetup struct {
	DB          *gorm.DB
	JWTService  *auth.JWTService
	AuthService *auth.Service
	Encryptor   *crypto.Encryptor
	Guard       *quota.Guard
	Rental      *rental.Service
	Logger      *slog.Logger

	Admin      *models.User
	AdminToken string
	User       *models.User
	Token      string
}

func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()

	enc, err := crypto.NewEncryptor("")
	if err != nil {
		t.Fatalf("failed to create encryptor: %v", err)
	}

	log := DiscardLogger()
	guard := quota.NewGuard(db)
	admin := CreateTestUser(t, db, AsAdmin(), WithPlan(models.PlanEnterprise))
	user := CreateTestUser(t, db)

	return &TestSetup{
		DB:          db,
		JWTService:  jwtService,
		AuthService: auth.NewService(db, jwtService),
		Encryptor:   enc,
		Guard:       guard,
		Rental:      rental.NewService(db, guard, enc, log),
		Logger:      log,
		Admin:       admin,
		AdminToken:  GenerateTestToken(t, jwtService, admin),
		User:        user,
		Token:       GenerateTestToken(t, jwtService, user),
	}
}

// NewUser adds another user with a token to the setup's database.
func (ts *TestSetup) NewUser(t *testing.T, opts ...UserOption) (*models.User, string) {
	t.Helper()
	user := CreateTestUser(t, ts.DB, opts...)
	return user, GenerateTestToken(t, ts.JWTService, user)
}

func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

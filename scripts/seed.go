//go:build ignore

// Seeds a demo landlord with one owner, property and tenant, plus the
// current month's receipt. Run with: go run scripts/seed.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/database"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/tenancy"
	"github.com/hugh/go-rental/pkg/config"
	"github.com/hugh/go-rental/pkg/crypto"
	"github.com/hugh/go-rental/pkg/util"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	if err := database.SeedPlans(ctx, db); err != nil {
		log.Fatalf("failed to seed plans: %v", err)
	}

	if cfg.Encryption.Key == "" {
		log.Fatal("ENCRYPTION_KEY must be set so the API can read the seeded documents")
	}
	enc, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		log.Fatalf("failed to create encryptor: %v", err)
	}

	authService := auth.NewService(db, auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry()))
	guard := quota.NewGuard(db)
	svc := rental.NewService(db, guard, enc, logger)

	email := os.Getenv("DEMO_EMAIL")
	if email == "" {
		email = "demo@example.com"
	}
	password := os.Getenv("DEMO_PASSWORD")
	if password == "" {
		password = "demo12345"
	}

	user, err := authService.Register(ctx, auth.RegisterInput{
		Email:    email,
		Password: password,
		Name:     "Demo Landlord",
		PlanID:   models.PlanProfessional,
	})
	if errors.Is(err, auth.ErrUserExists) {
		fmt.Printf("Demo user %s already exists, nothing to do\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to create demo user: %v", err)
	}
	scope := tenancy.ForUser(user.ID, false)

	owner, err := svc.CreateOwner(ctx, scope, rental.OwnerInput{
		Name:     "Ana Souza",
		Document: "52998224725",
		Email:    "ana.souza@example.com",
	})
	if err != nil {
		log.Fatalf("failed to create owner: %v", err)
	}

	property, err := svc.CreateProperty(ctx, scope, rental.PropertyInput{
		OwnerID:    owner.ID,
		Street:     "Rua Augusta",
		Number:     "1200",
		Complement: "Apto 31",
		District:   "Consolação",
		City:       "São Paulo",
		State:      "SP",
		PostalCode: "01304001",
		Kind:       models.PropertyKindResidential,
	})
	if err != nil {
		log.Fatalf("failed to create property: %v", err)
	}

	now := time.Now()
	tenant, err := svc.CreateTenant(ctx, scope, rental.TenantInput{
		PropertyID: property.ID,
		Name:       "Bruno Lima",
		Document:   "11144477735",
		LeaseStart: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
		Rent:       decimal.RequireFromString("1850.00"),
		DueDay:     10,
	})
	if err != nil {
		log.Fatalf("failed to create tenant: %v", err)
	}

	rec, err := svc.GenerateReceipt(ctx, scope, rental.GenerateInput{
		TenantID: tenant.ID,
		Month:    int(now.Month()),
		Year:     now.Year(),
	})
	if err != nil {
		log.Fatalf("failed to generate receipt: %v", err)
	}

	fmt.Printf("Demo data created.\n")
	fmt.Printf("  Login:    %s / %s\n", email, password)
	fmt.Printf("  Receipt:  #%d %02d/%d total %s\n", rec.Number, rec.Month, rec.Year, rec.Total.StringFixed(2))
}

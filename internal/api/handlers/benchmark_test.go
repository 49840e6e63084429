package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/database/models"
	"github.com/hugh/go-rental/internal/receipt"
	"github.com/shopspring/decimal"
)

func benchReceipt() *models.Receipt {
	paidAt := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	return &models.Receipt{
		Base:        models.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Owned:       models.Owned{UserID: uuid.New()},
		Number:      42,
		TenantID:    uuid.New(),
		PropertyID:  uuid.New(),
		OwnerID:     uuid.New(),
		Month:       3,
		Year:        2026,
		DueDate:     time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Rent:        decimal.RequireFromString("1500.00"),
		Water:       decimal.RequireFromString("80.00"),
		Electricity: decimal.RequireFromString("120.00"),
		PropertyTax: decimal.RequireFromString("50.00"),
		Total:       decimal.RequireFromString("1750.00"),
		RentKind:    models.PropertyKindResidential,
		Paid:        true,
		PaidAt:      &paidAt,
	}
}

// BenchmarkJSONSerialization benchmarks JSON encoding of common response types
func BenchmarkJSONSerialization(b *testing.B) {
	b.Run("ErrorResponse", func(b *testing.B) {
		resp := dto.ErrorResponse{
			Error: "Validation failed",
			Details: map[string]string{
				"document": "Invalid CPF or CNPJ",
				"email":    "Invalid email format",
			},
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = json.Marshal(resp)
		}
	})

	b.Run("QuotaErrorResponse", func(b *testing.B) {
		resp := dto.QuotaErrorResponse{Error: "Plan limit reached", Kind: "owners", Plan: "basico", Current: 10, Limit: 10}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = json.Marshal(resp)
		}
	})

	b.Run("ReceiptResponse", func(b *testing.B) {
		resp := dto.NewReceiptResponse(benchReceipt())
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = json.Marshal(resp)
		}
	})
}

// BenchmarkRequestParsing benchmarks JSON decoding of request bodies
func BenchmarkRequestParsing(b *testing.B) {
	b.Run("LoginRequest", func(b *testing.B) {
		jsonData := []byte(`{"email":"user@example.com","password":"securepassword123"}`)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var req dto.LoginRequest
			_ = json.Unmarshal(jsonData, &req)
		}
	})

	b.Run("CreateReceiptRequest", func(b *testing.B) {
		jsonData := []byte(`{"tenant_id":"` + uuid.New().String() + `","month":3,"year":2026,` +
			`"rent":"1500.00","water":80,"electricity":"120.00","property_tax":50,"due_date":"2026-03-10"}`)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var req dto.CreateReceiptRequest
			_ = json.Unmarshal(jsonData, &req)
		}
	})

	b.Run("CreateTenantRequestWithDecoder", func(b *testing.B) {
		jsonData := `{"property_id":"` + uuid.New().String() + `","name":"Maria","document":"52998224725",` +
			`"lease_start":"2026-01-01","rent":"1200.00","due_day":10}`
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var req dto.CreateTenantRequest
			_ = json.NewDecoder(strings.NewReader(jsonData)).Decode(&req)
		}
	})
}

// BenchmarkRequestValidation benchmarks request validation
func BenchmarkRequestValidation(b *testing.B) {
	b.Run("CreateOwnerRequestValid", func(b *testing.B) {
		req := dto.CreateOwnerRequest{Name: "Ana Souza", Document: "529.982.247-25", Email: "ana@example.com"}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = req.Validate()
		}
	})

	b.Run("CreateOwnerRequestCNPJ", func(b *testing.B) {
		req := dto.CreateOwnerRequest{Name: "Imobiliária", Document: "11.222.333/0001-81"}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = req.Validate()
		}
	})

	b.Run("CreateReceiptRequest", func(b *testing.B) {
		rent := decimal.RequireFromString("1500.00")
		water := decimal.RequireFromString("80.00")
		req := dto.CreateReceiptRequest{
			TenantID:       uuid.New().String(),
			Month:          3,
			Year:           2026,
			ChargesRequest: dto.ChargesRequest{Rent: &rent, Water: &water},
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = req.Validate()
		}
	})
}

func BenchmarkWriteJSON(b *testing.B) {
	b.Run("SmallResponse", func(b *testing.B) {
		resp := dto.SuccessResponse{Message: "OK"}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			w := httptest.NewRecorder()
			writeJSON(w, http.StatusOK, resp)
		}
	})

	b.Run("ReceiptPage", func(b *testing.B) {
		receipts := make([]dto.ReceiptResponse, 50)
		for i := range receipts {
			receipts[i] = dto.NewReceiptResponse(benchReceipt())
		}
		resp := dto.NewPaginatedResponse(receipts, 500, dto.PaginationParams{Page: 1, PerPage: 50})
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			w := httptest.NewRecorder()
			writeJSON(w, http.StatusOK, resp)
		}
	})
}

// BenchmarkPaginationParams benchmarks pagination parameter handling
func BenchmarkPaginationParams(b *testing.B) {
	b.Run("FromQuery", func(b *testing.B) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/receipts?page=5&per_page=25", nil)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = pageOf(parsePagination(r))
		}
	})

	b.Run("Normalize", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			p := dto.PaginationParams{Page: 0, PerPage: 500}
			p.Normalize()
		}
	})
}

// BenchmarkReceiptMath covers the per-request receipt computations
func BenchmarkReceiptMath(b *testing.B) {
	charges := receipt.Charges{
		Rent:        decimal.RequireFromString("1500.00"),
		Water:       decimal.RequireFromString("80.00"),
		Electricity: decimal.RequireFromString("120.00"),
		PropertyTax: decimal.RequireFromString("50.00"),
		LateFee:     decimal.RequireFromString("30.00"),
		Deduction:   decimal.RequireFromString("25.50"),
	}

	b.Run("Total", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = receipt.Total(charges)
		}
	})

	b.Run("AmountInWords", func(b *testing.B) {
		total := receipt.Total(charges)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = receipt.AmountInWords(total)
		}
	})
}

func BenchmarkParallelReceiptSerialization(b *testing.B) {
	resp := dto.NewReceiptResponse(benchReceipt())
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = json.Marshal(resp)
		}
	})
}

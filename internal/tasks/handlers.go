package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-rental/internal/rental"
)

type Handler struct {
	rental *rental.Service
	logger *slog.Logger
}

func NewHandler(svc *rental.Service, logger *slog.Logger) *Handler {
	return &Handler{
		rental: svc,
		logger: logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeGenerateMonthlyReceipts, h.HandleGenerateMonthlyReceipts)
}

// HandleGenerateMonthlyReceipts issues the period's receipt for every active
// tenant. Per-tenant failures are counted and logged; only a failure of the
// run itself is returned so asynq retries it.
func (h *Handler) HandleGenerateMonthlyReceipts(ctx context.Context, t *asynq.Task) error {
	var payload GenerateMonthlyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	h.logger.Info("generating monthly receipts",
		"month", payload.Month,
		"year", payload.Year,
	)
	start := time.Now()

	res, err := h.rental.GenerateMonthly(ctx, payload.Month, payload.Year)
	if err != nil {
		if _, ok := rental.IsValidationError(err); ok {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	h.logger.Info("monthly receipts generated",
		"month", payload.Month,
		"year", payload.Year,
		"created", res.Created,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"duration", time.Since(start),
	)
	return nil
}

// Enqueue schedules generation for the period containing now. A period that
// is already queued is not an error.
func Enqueue(ctx context.Context, client *asynq.Client, now time.Time) (*asynq.TaskInfo, error) {
	task, err := NewGenerateMonthlyReceiptsTask(PeriodOf(now))
	if err != nil {
		return nil, err
	}
	info, err := client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil, nil
	}
	return info, err
}

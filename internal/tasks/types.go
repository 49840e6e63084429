package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-rental/pkg/queue"
)

// Task type names
const (
	TypeGenerateMonthlyReceipts = "receipt:generate_monthly"
)

// GenerateMonthlyPayload names the billing period to issue receipts for.
type GenerateMonthlyPayload struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// PeriodOf returns the billing period containing t.
func PeriodOf(t time.Time) GenerateMonthlyPayload {
	return GenerateMonthlyPayload{Month: int(t.Month()), Year: t.Year()}
}

// NewGenerateMonthlyReceiptsTask builds the task for one period. The task id
// is derived from the period so a second enqueue for the same month is
// rejected by the queue while the first is retained.
func NewGenerateMonthlyReceiptsTask(payload GenerateMonthlyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateMonthlyReceipts, data,
		asynq.Queue(queue.QueueDefault),
		asynq.TaskID(fmt.Sprintf("receipts-%04d-%02d", payload.Year, payload.Month)),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour),
	), nil
}

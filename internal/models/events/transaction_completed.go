package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted after a money movement has been applied
// and persisted. FromAccount or ToAccount is empty for deposits and
// withdrawals, mirroring the transaction record itself.
type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	Kind          string          `json:"kind"`
	FromAccount   string          `json:"from_account,omitempty"`
	ToAccount     string          `json:"to_account,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

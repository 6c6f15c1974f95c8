package entities

import (
	"time"

	"github.com/google/uuid"
)

// DebitFailure is the durable record of a debit that could not be posted to
// the ledger after the output had already been delivered.
type DebitFailure struct {
	ID           uuid.UUID `json:"id"`
	JobId        uuid.UUID `json:"job_id"`
	UserId       string    `json:"user_id"`
	Amount       int64     `json:"amount"`
	ResourceType string    `json:"resource_type"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DebitFailure) TableName() string {
	return "debit_failures"
}

type UsageRecord struct {
	ID           uuid.UUID `json:"id"`
	JobId        uuid.UUID `json:"job_id"`
	UserId       string    `json:"user_id"`
	Amount       int64     `json:"amount"`
	ResourceType string    `json:"resource_type"`
	Debited      bool      `json:"debited"`
	CreatedAt    time.Time `json:"created_at"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}

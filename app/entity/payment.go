package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID uint64

	Amount   decimal.Decimal
	Currency string

	SenderID    string
	RecipientID string

	// Raw status code; the enum values live in the types package.
	Status string

	Description *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

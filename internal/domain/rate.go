package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one row of the persisted rate table: how many peg-currency
// units one unit of Currency is worth. The peg currency itself is always
// present with Rate exactly 1. Rows are created at setup, mutated only by a
// rate update, and removed only by a full reset.
type ExchangeRate struct {
	Currency    string
	Rate        decimal.Decimal // > 0
	LastUpdated time.Time
}

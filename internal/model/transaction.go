package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned when no category keyword matches a description.
const DefaultCategory = "Razno"

// Transaction is one normalized statement row.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // native currency (RSD), negative = expense
	AmountEur   decimal.Decimal `json:"amountEur"`
	Category    string          `json:"category"`
}

// IsExpense reports whether the transaction is money going out.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

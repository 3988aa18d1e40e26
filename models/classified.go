package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	// ClassifiedExpense is an expense the current user either owes (debt) or is owed
	// (reimbursement), enriched with the counterparty for the budgeting tool.
	ClassifiedExpense struct {
		ExpenseID       int64
		Cost            decimal.Decimal
		Date            time.Time
		CreatedAt       time.Time
		UpdatedAt       time.Time
		DeletedAt       *time.Time
		Description     string
		IsReimbursement bool
		Owed            decimal.Decimal
		Users           []string
		PayeeName       string
	}

	// ExpenseKind ...
	ExpenseKind string
)

const (
	KindDebt          ExpenseKind = "expense"
	KindReimbursement ExpenseKind = "reimbursement"
)

// Kind ...
func (c *ClassifiedExpense) Kind() ExpenseKind {
	if c.IsReimbursement {
		return KindReimbursement
	}
	return KindDebt
}

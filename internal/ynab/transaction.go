package ynab

import (
	"fmt"

	"github.com/matheuscscp/splitynab/models"

	"github.com/shopspring/decimal"
)

const (
	debtMemoPrefix          = "Expense:"
	reimbursementMemoPrefix = "Reimbursement:"
)

var milliunitsPerUnit = decimal.NewFromInt(models.MilliunitsPerUnit)

// FormatTransaction turns a classified expense into a YNAB transaction: an outflow for
// a debt, an inflow for a reimbursement. The amount is truncated toward zero.
func FormatTransaction(expense *models.ClassifiedExpense, accountID string) *models.Transaction {
	amount := Milliunits(expense.Owed)
	memoPrefix := reimbursementMemoPrefix
	if !expense.IsReimbursement {
		amount = -amount
		memoPrefix = debtMemoPrefix
	}
	return &models.Transaction{
		AccountID: accountID,
		Date:      expense.Date,
		Amount:    amount,
		PayeeName: expense.PayeeName,
		Memo:      fmt.Sprintf("%s %s", memoPrefix, expense.Description),
		ImportID:  ImportID(expense.ExpenseID),
	}
}

// Milliunits converts an amount to YNAB milliunits, truncating toward zero.
func Milliunits(amount decimal.Decimal) int64 {
	return amount.Mul(milliunitsPerUnit).IntPart()
}

// ImportID is the YNAB import id of a Splitwise expense. YNAB ignores transactions
// whose import id already exists in the account.
func ImportID(expenseID int64) string {
	return fmt.Sprintf("splitwise:%d", expenseID)
}

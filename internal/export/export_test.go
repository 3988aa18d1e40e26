package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/matheuscscp/splitynab/internal/export"
	"github.com/matheuscscp/splitynab/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteCSV(&buf, []*models.ClassifiedExpense{
		{
			ExpenseID:   1,
			Date:        time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC),
			Description: "Restaurant bill",
			Cost:        decimal.RequireFromString("51"),
			Owed:        decimal.RequireFromString("25.5"),
			Users:       []string{"[Ana]"},
			PayeeName:   "Ana",
		},
		{
			ExpenseID:       2,
			Date:            time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			Description:     "Gas, road trip",
			Cost:            decimal.RequireFromString("80"),
			Owed:            decimal.RequireFromString("40"),
			IsReimbursement: true,
			Users:           []string{"Ana", "Bruno"},
			PayeeName:       "Split: Ana, Bruno",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `expense_id,date,description,type,cost,amount,payee,users
1,2023-11-30,Restaurant bill,expense,51.00,25.50,Ana,[Ana]
2,2023-12-01,"Gas, road trip",reimbursement,80.00,40.00,"Split: Ana, Bruno","Ana, Bruno"
`, buf.String())
}

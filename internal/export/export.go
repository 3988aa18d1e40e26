// Package export writes classified expenses as CSV.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/matheuscscp/splitynab/models"

	"github.com/gocarina/gocsv"
)

type (
	row struct {
		ExpenseID   int64  `csv:"expense_id"`
		Date        string `csv:"date"`
		Description string `csv:"description"`
		Type        string `csv:"type"`
		Cost        string `csv:"cost"`
		Amount      string `csv:"amount"`
		Payee       string `csv:"payee"`
		Users       string `csv:"users"`
	}
)

// WriteCSV writes one row per classified expense, with a header.
func WriteCSV(w io.Writer, expenses []*models.ClassifiedExpense) error {
	rows := make([]*row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, &row{
			ExpenseID:   e.ExpenseID,
			Date:        e.Date.Format(models.DateLayout),
			Description: e.Description,
			Type:        string(e.Kind()),
			Cost:        e.Cost.StringFixed(2),
			Amount:      e.Owed.StringFixed(2),
			Payee:       e.PayeeName,
			Users:       strings.Join(e.Users, ", "),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("error marshaling expenses to CSV: %w", err)
	}
	return nil
}

package models

import "time"

type (
	// Transaction is a YNAB transaction. Amount is in milliunits, negative for outflows.
	Transaction struct {
		AccountID string
		Date      time.Time
		Amount    int64
		PayeeName string
		Memo      string
		ImportID  string
	}

	// Flow ...
	Flow string
)

const (
	Inflow  Flow = "INFLOW"
	Outflow Flow = "OUTFLOW"

	// MilliunitsPerUnit is the YNAB integer currency scale.
	MilliunitsPerUnit = 1000
)

// Flow ...
func (t *Transaction) Flow() Flow {
	if t.Amount < 0 {
		return Outflow
	}
	return Inflow
}

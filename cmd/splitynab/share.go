package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matheuscscp/splitynab/models"

	"github.com/shopspring/decimal"
)

// parseShare parses USER_ID:PAID:OWED.
func parseShare(s string) (*models.NewUserShare, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid share '%s', want USER_ID:PAID:OWED", s)
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing user id of share '%s': %w", s, err)
	}
	paid, err := decimal.NewFromString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("error parsing paid amount of share '%s': %w", s, err)
	}
	owed, err := decimal.NewFromString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("error parsing owed amount of share '%s': %w", s, err)
	}
	if paid.IsNegative() || owed.IsNegative() {
		return nil, fmt.Errorf("invalid share '%s', amounts cannot be negative", s)
	}
	return &models.NewUserShare{
		UserID: userID,
		Paid:   paid,
		Owed:   owed,
	}, nil
}

package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// User is a Splitwise user. ID is the stable identifier, names are for display only.
	User struct {
		ID        int64  `json:"id" yaml:"id"`
		FirstName string `json:"first_name" yaml:"firstName"`
		LastName  string `json:"last_name" yaml:"lastName"`
	}

	// Expense is an expense fetched from Splitwise.
	Expense struct {
		ID          int64
		Cost        decimal.Decimal
		Description string
		Date        time.Time
		CreatedAt   time.Time
		UpdatedAt   time.Time
		DeletedAt   *time.Time
		UserShares  []*UserShare
	}

	// UserShare is how much a user paid and owes in an expense.
	UserShare struct {
		User User
		Paid decimal.Decimal
		Owed decimal.Decimal
	}

	// NewExpense is an expense to be created on Splitwise.
	NewExpense struct {
		Cost         decimal.Decimal
		Date         time.Time
		Description  string
		GroupID      int64
		CurrencyCode string
		Shares       []*NewUserShare
	}

	// NewUserShare ...
	NewUserShare struct {
		UserID int64
		Paid   decimal.Decimal
		Owed   decimal.Decimal
	}
)

// FullName joins the first and last names, omitting the last name when it is empty.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return strings.Join([]string{u.FirstName, u.LastName}, " ")
}

// ShareOf returns the share of the user with the given id.
func (e *Expense) ShareOf(userID int64) (*UserShare, bool) {
	for _, share := range e.UserShares {
		if share.User.ID == userID {
			return share, true
		}
	}
	return nil, false
}

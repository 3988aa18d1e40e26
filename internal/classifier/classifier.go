// Package classifier decides whether a Splitwise expense is money the current user
// owes (a debt) or money owed to the current user (a reimbursement).
package classifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matheuscscp/splitynab/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type (
	// Result is the outcome of classifying a batch of expenses.
	Result struct {
		Classified []*models.ClassifiedExpense
		Filtered   int
		Malformed  []*models.Expense
	}

	participant struct {
		name string
		paid decimal.Decimal
		owed decimal.Decimal
	}
)

const (
	paymentDescription = "Payment"
	splitPayeePrefix   = "Split: "
)

var (
	// ErrCurrentUserNotFound is returned for expenses without a share for the current user.
	ErrCurrentUserNotFound = errors.New("current user has no share in expense")
)

// Classify classifies one expense for the current user. It returns nil and no error
// when the expense is neither a debt nor a reimbursement of the current user.
//
// Debts are expenses where the current user paid nothing and owes something.
// Reimbursements are expenses where the current user paid more than they owe.
// Partial payments that still leave the current user owing (0 < paid < owed) are not
// classified.
func Classify(expense *models.Expense, currentUser *models.User) (*models.ClassifiedExpense, error) {
	description := expense.Description
	if strings.TrimSpace(description) == paymentDescription {
		return nil, nil
	}

	share, ok := expense.ShareOf(currentUser.ID)
	if !ok {
		return nil, fmt.Errorf("%w: expense %d, user %d", ErrCurrentUserNotFound, expense.ID, currentUser.ID)
	}

	var isReimbursement bool
	var owed decimal.Decimal
	switch paid := share.Paid; {
	case paid.IsZero() && share.Owed.IsPositive():
		owed = share.Owed
	case paid.IsPositive() && paid.GreaterThan(share.Owed):
		isReimbursement = true
		owed = paid.Sub(share.Owed)
	default:
		return nil, nil
	}

	var others []*participant
	var users []string
	for _, s := range expense.UserShares {
		if s.User.ID == currentUser.ID {
			continue
		}
		p := &participant{
			name: s.User.FirstName,
			paid: s.Paid,
			owed: s.Owed,
		}
		others = append(others, p)
		if p.paid.Equal(expense.Cost) {
			users = append(users, annotate(p.name))
		} else {
			users = append(users, p.name)
		}
	}

	return &models.ClassifiedExpense{
		ExpenseID:       expense.ID,
		Cost:            expense.Cost,
		Date:            expense.Date,
		CreatedAt:       expense.CreatedAt,
		UpdatedAt:       expense.UpdatedAt,
		DeletedAt:       expense.DeletedAt,
		Description:     description,
		IsReimbursement: isReimbursement,
		Owed:            owed,
		Users:           users,
		PayeeName:       payeeName(isReimbursement, others, users),
	}, nil
}

// ClassifyAll classifies a batch of expenses. Malformed expenses are logged and
// returned separately, they never fail the batch.
func ClassifyAll(expenses []*models.Expense, currentUser *models.User) *Result {
	res := &Result{}
	for _, expense := range expenses {
		classified, err := Classify(expense, currentUser)
		switch {
		case err != nil:
			logrus.WithError(err).WithField("expense_id", expense.ID).Warn("skipping malformed expense")
			res.Malformed = append(res.Malformed, expense)
		case classified == nil:
			res.Filtered++
		default:
			res.Classified = append(res.Classified, classified)
		}
	}
	return res
}

// payeeName picks who a reimbursement is owed by (largest owed share) or who a debt is
// owed to (largest paid share). A zero or tied maximum falls back to the participant
// names.
func payeeName(isReimbursement bool, others []*participant, users []string) string {
	amount := func(p *participant) decimal.Decimal { return p.paid }
	if isReimbursement {
		amount = func(p *participant) decimal.Decimal { return p.owed }
	}

	var payee *participant
	best := decimal.Zero
	tied := false
	for _, p := range others {
		switch v := amount(p); {
		case v.GreaterThan(best):
			payee, best, tied = p, v, false
		case payee != nil && v.Equal(best):
			tied = true
		}
	}
	if payee != nil && !tied {
		return payee.name
	}

	switch len(users) {
	case 0:
		return ""
	case 1:
		return stripAnnotation(users[0])
	}
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = stripAnnotation(u)
	}
	return splitPayeePrefix + strings.Join(names, ", ")
}

func annotate(name string) string {
	return "[" + name + "]"
}

func stripAnnotation(name string) string {
	return strings.Trim(name, "[]")
}

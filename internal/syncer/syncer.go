// Package syncer pushes the Splitwise debts and reimbursements of the current user
// into YNAB, remembering which expenses were already imported.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matheuscscp/splitynab/internal/classifier"
	"github.com/matheuscscp/splitynab/internal/ynab"
	"github.com/matheuscscp/splitynab/models"
	"github.com/matheuscscp/splitynab/services/checkpoint"
	"github.com/matheuscscp/splitynab/services/events"
	"github.com/matheuscscp/splitynab/services/notify"
	"github.com/matheuscscp/splitynab/splitwise"

	"github.com/sirupsen/logrus"
)

type (
	// ExpenseSource ...
	ExpenseSource interface {
		GetCurrentUser(ctx context.Context) (*models.User, error)
		GetExpenses(ctx context.Context, filter *splitwise.ExpensesFilter) ([]*models.Expense, error)
	}

	// TransactionSink ...
	TransactionSink interface {
		CreateTransactions(ctx context.Context, txs []*models.Transaction) (*ynab.CreateResult, error)
	}

	// Syncer ...
	Syncer struct {
		Source        ExpenseSource
		Sink          TransactionSink
		Checkpoint    checkpoint.Service
		Events        events.Service
		Notifier      notify.Service
		AccountID     string
		ReportTopicID string
		Now           func() time.Time
	}

	// Report is the outcome of a sync.
	Report struct {
		StartedAt           time.Time                   `json:"started_at"`
		DryRun              bool                        `json:"dry_run"`
		Classified          int                         `json:"classified"`
		Imported            int                         `json:"imported"`
		Duplicates          int                         `json:"duplicates"`
		Filtered            int                         `json:"filtered"`
		Deleted             int                         `json:"deleted"`
		AlreadyImported     int                         `json:"already_imported"`
		MalformedExpenseIDs []int64                     `json:"malformed_expense_ids,omitempty"`
		Expenses            []*models.ClassifiedExpense `json:"-"`
		Transactions        []*models.Transaction       `json:"-"`
	}
)

// ErrInvalidRequest ...
var ErrInvalidRequest = errors.New("invalid sync request")

// Run syncs the expenses selected by req. Publishing the report and notifying are best
// effort and never fail the sync.
func (s *Syncer) Run(ctx context.Context, req *models.SyncRequest) (*Report, error) {
	if req == nil {
		req = &models.SyncRequest{}
	}
	filter, err := parseRequest(req)
	if err != nil {
		return nil, err
	}
	report := &Report{
		StartedAt: s.now(),
		DryRun:    req.DryRun,
	}
	l := logrus.WithField("dry_run", req.DryRun)

	user, err := s.Source.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting current Splitwise user: %w", err)
	}
	expenses, err := s.Source.GetExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing Splitwise expenses: %w", err)
	}
	l.WithField("expenses", len(expenses)).Info("fetched Splitwise expenses")

	state, err := s.Checkpoint.Load(ctx)
	if err != nil {
		if !errors.Is(err, checkpoint.ErrCheckpointNotExist) {
			return nil, fmt.Errorf("error loading checkpoint: %w", err)
		}
		state = &checkpoint.State{}
	}

	res := classifier.ClassifyAll(expenses, user)
	report.Classified = len(res.Classified)
	report.Filtered = res.Filtered
	for _, e := range res.Malformed {
		report.MalformedExpenseIDs = append(report.MalformedExpenseIDs, e.ID)
	}
	for _, e := range res.Classified {
		if e.DeletedAt != nil {
			report.Deleted++
			continue
		}
		if state.Imported(e.ExpenseID) {
			report.AlreadyImported++
			continue
		}
		report.Expenses = append(report.Expenses, e)
		report.Transactions = append(report.Transactions, ynab.FormatTransaction(e, s.AccountID))
	}

	if !req.DryRun {
		if len(report.Transactions) > 0 {
			created, err := s.Sink.CreateTransactions(ctx, report.Transactions)
			if err != nil {
				return nil, fmt.Errorf("error creating YNAB transactions: %w", err)
			}
			report.Imported = len(created.TransactionIDs)
			report.Duplicates = len(created.DuplicateImportIDs)
			for _, e := range report.Expenses {
				state.MarkImported(e.ExpenseID)
			}
		}
		state.LastSync = report.StartedAt
		if err := s.Checkpoint.Store(ctx, state); err != nil {
			return nil, fmt.Errorf("error storing checkpoint: %w", err)
		}
	}

	l.WithFields(logrus.Fields{
		"imported":         report.Imported,
		"duplicates":       report.Duplicates,
		"filtered":         report.Filtered,
		"deleted":          report.Deleted,
		"already_imported": report.AlreadyImported,
		"malformed":        len(report.MalformedExpenseIDs),
	}).Info("sync finished")

	s.publish(ctx, report)
	s.notify(report)
	return report, nil
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Syncer) publish(ctx context.Context, report *Report) {
	if s.Events == nil || s.ReportTopicID == "" {
		return
	}
	id, err := s.Events.PublishJSON(ctx, s.ReportTopicID, report)
	if err != nil {
		logrus.WithError(err).Error("error publishing sync report")
		return
	}
	logrus.Infof("sync report published with serverID=%s", id)
}

func (s *Syncer) notify(report *Report) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(report.String()); err != nil {
		logrus.WithError(err).Error("error sending sync notification")
	}
}

func parseRequest(req *models.SyncRequest) (*splitwise.ExpensesFilter, error) {
	var filter splitwise.ExpensesFilter
	var err error
	if req.DatedAfter != "" {
		if filter.DatedAfter, err = time.Parse(models.DateLayout, req.DatedAfter); err != nil {
			return nil, fmt.Errorf("%w: error parsing dated_after: %v", ErrInvalidRequest, err)
		}
	}
	if req.DatedBefore != "" {
		if filter.DatedBefore, err = time.Parse(models.DateLayout, req.DatedBefore); err != nil {
			return nil, fmt.Errorf("%w: error parsing dated_before: %v", ErrInvalidRequest, err)
		}
	}
	if !filter.DatedAfter.IsZero() && !filter.DatedBefore.IsZero() && filter.DatedBefore.Before(filter.DatedAfter) {
		return nil, fmt.Errorf("%w: dated_before is before dated_after", ErrInvalidRequest)
	}
	return &filter, nil
}

// String is the human-readable summary sent to Telegram.
func (r *Report) String() string {
	var b strings.Builder
	if r.DryRun {
		b.WriteString("Dry run, nothing was sent to YNAB.\n")
	}
	fmt.Fprintf(&b, "Splitwise expenses classified: %d\n", r.Classified)
	fmt.Fprintf(&b, "Transactions imported into YNAB: %d\n", r.Imported)
	if r.Duplicates > 0 {
		fmt.Fprintf(&b, "Duplicates ignored by YNAB: %d\n", r.Duplicates)
	}
	fmt.Fprintf(&b, "Already imported: %d\n", r.AlreadyImported)
	if r.Deleted > 0 {
		fmt.Fprintf(&b, "Deleted in Splitwise: %d\n", r.Deleted)
	}
	fmt.Fprintf(&b, "Not a debt or reimbursement: %d", r.Filtered)
	if len(r.MalformedExpenseIDs) > 0 {
		ids := make([]string, len(r.MalformedExpenseIDs))
		for i, id := range r.MalformedExpenseIDs {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(&b, "\nMalformed expenses: %s", strings.Join(ids, ", "))
	}
	for _, tx := range r.Transactions {
		fmt.Fprintf(&b, "\n%s %s %s: %s", tx.Date.Format(models.DateLayout), tx.Flow(), tx.PayeeName, tx.Memo)
	}
	return b.String()
}

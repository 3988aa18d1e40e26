package syncer_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheuscscp/splitynab/internal/syncer"
	"github.com/matheuscscp/splitynab/internal/ynab"
	"github.com/matheuscscp/splitynab/models"
	"github.com/matheuscscp/splitynab/services/checkpoint"
	"github.com/matheuscscp/splitynab/splitwise"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	fakeSource struct {
		user     *models.User
		expenses []*models.Expense
		filter   *splitwise.ExpensesFilter
		err      error
	}

	fakeSink struct {
		txs []*models.Transaction
		err error
	}

	fakeEvents struct {
		topic string
		data  []byte
	}

	fakeNotifier struct {
		texts []string
	}
)

func (f *fakeSource) GetCurrentUser(ctx context.Context) (*models.User, error) {
	return f.user, nil
}

func (f *fakeSource) GetExpenses(ctx context.Context, filter *splitwise.ExpensesFilter) ([]*models.Expense, error) {
	f.filter = filter
	return f.expenses, f.err
}

func (f *fakeSink) CreateTransactions(ctx context.Context, txs []*models.Transaction) (*ynab.CreateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.txs = append(f.txs, txs...)
	res := &ynab.CreateResult{}
	for range txs {
		res.TransactionIDs = append(res.TransactionIDs, "id")
	}
	return res, nil
}

func (f *fakeEvents) Publish(ctx context.Context, topicID string, data []byte) (string, error) {
	f.topic, f.data = topicID, data
	return "server-id", nil
}

func (f *fakeEvents) PublishJSON(ctx context.Context, topicID string, v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return f.Publish(ctx, topicID, b)
}

func (f *fakeEvents) Close() {}

func (f *fakeNotifier) Send(text string) error {
	f.texts = append(f.texts, text)
	return nil
}

var (
	me  = &models.User{ID: 1, FirstName: "Matheus"}
	ana = models.User{ID: 2, FirstName: "Ana"}
	now = time.Date(2023, 12, 2, 8, 0, 0, 0, time.UTC)
)

func newExpense(id int64, description, cost string, myPaid, myOwed, anaPaid, anaOwed string) *models.Expense {
	return &models.Expense{
		ID:          id,
		Cost:        decimal.RequireFromString(cost),
		Description: description,
		Date:        time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC),
		UserShares: []*models.UserShare{
			{User: *me, Paid: decimal.RequireFromString(myPaid), Owed: decimal.RequireFromString(myOwed)},
			{User: ana, Paid: decimal.RequireFromString(anaPaid), Owed: decimal.RequireFromString(anaOwed)},
		},
	}
}

func newSyncer(t *testing.T, source *fakeSource, sink *fakeSink) (*syncer.Syncer, *fakeEvents, *fakeNotifier) {
	t.Helper()
	ev := &fakeEvents{}
	nt := &fakeNotifier{}
	return &syncer.Syncer{
		Source:        source,
		Sink:          sink,
		Checkpoint:    checkpoint.NewFileService(filepath.Join(t.TempDir(), "checkpoint.yml")),
		Events:        ev,
		Notifier:      nt,
		AccountID:     "account",
		ReportTopicID: "reports",
		Now:           func() time.Time { return now },
	}, ev, nt
}

func testExpenses() []*models.Expense {
	malformed := newExpense(4, "Lunch", "30", "0", "15", "30", "15")
	malformed.UserShares[0].User = models.User{ID: 99, FirstName: "Someone"}
	return []*models.Expense{
		newExpense(1, "Restaurant bill", "51", "0", "25.50", "51", "25.50"),
		newExpense(2, "Gas for road trip", "80", "80", "40", "0", "40"),
		newExpense(3, "Payment", "25", "25", "0", "0", "25"),
		malformed,
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{user: me, expenses: testExpenses()}
	sink := &fakeSink{}
	s, ev, nt := newSyncer(t, source, sink)

	report, err := s.Run(ctx, &models.SyncRequest{DatedAfter: "2023-11-29", DatedBefore: "2023-12-01"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 11, 29, 0, 0, 0, 0, time.UTC), source.filter.DatedAfter)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), source.filter.DatedBefore)

	assert.Equal(t, 2, report.Classified)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Filtered)
	assert.Equal(t, []int64{4}, report.MalformedExpenseIDs)

	require.Len(t, sink.txs, 2)
	assert.Equal(t, int64(-25500), sink.txs[0].Amount)
	assert.Equal(t, "Expense: Restaurant bill", sink.txs[0].Memo)
	assert.Equal(t, "Ana", sink.txs[0].PayeeName)
	assert.Equal(t, int64(40000), sink.txs[1].Amount)
	assert.Equal(t, "Reimbursement: Gas for road trip", sink.txs[1].Memo)
	assert.Equal(t, "account", sink.txs[1].AccountID)

	state, err := s.Checkpoint.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, state.ImportedExpenseIDs)
	assert.True(t, now.Equal(state.LastSync))

	assert.Equal(t, "reports", ev.topic)
	var published map[string]interface{}
	require.NoError(t, json.Unmarshal(ev.data, &published))
	assert.Equal(t, float64(2), published["imported"])

	require.Len(t, nt.texts, 1)
	assert.Contains(t, nt.texts[0], "Transactions imported into YNAB: 2")
	assert.Contains(t, nt.texts[0], "Malformed expenses: 4")

	// a second run does not import the same expenses again
	report, err = s.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 2, report.AlreadyImported)
	assert.Len(t, sink.txs, 2)
}

func TestRunDryRun(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	s, _, _ := newSyncer(t, &fakeSource{user: me, expenses: testExpenses()}, sink)

	report, err := s.Run(ctx, &models.SyncRequest{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 2)
	assert.Equal(t, 0, report.Imported)
	assert.Empty(t, sink.txs)

	_, err = s.Checkpoint.Load(ctx)
	assert.ErrorIs(t, err, checkpoint.ErrCheckpointNotExist)
	assert.Contains(t, report.String(), "Dry run")
}

func TestRunSinkError(t *testing.T) {
	ctx := context.Background()
	s, _, nt := newSyncer(t, &fakeSource{user: me, expenses: testExpenses()}, &fakeSink{err: errors.New("boom")})

	_, err := s.Run(ctx, nil)
	assert.Error(t, err)
	assert.Empty(t, nt.texts)

	_, err = s.Checkpoint.Load(ctx)
	assert.ErrorIs(t, err, checkpoint.ErrCheckpointNotExist)
}

func TestRunSourceError(t *testing.T) {
	s, _, _ := newSyncer(t, &fakeSource{user: me, err: errors.New("boom")}, &fakeSink{})
	_, err := s.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunInvalidRequest(t *testing.T) {
	s, _, _ := newSyncer(t, &fakeSource{user: me}, &fakeSink{})
	for _, req := range []*models.SyncRequest{
		{DatedAfter: "30/11/2023"},
		{DatedBefore: "yesterday"},
		{DatedAfter: "2023-12-01", DatedBefore: "2023-11-01"},
	} {
		_, err := s.Run(context.Background(), req)
		assert.ErrorIs(t, err, syncer.ErrInvalidRequest)
	}
}

func TestRunSkipsDeletedExpenses(t *testing.T) {
	ctx := context.Background()
	deletedAt := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	cancelled := newExpense(5, "Cancelled dinner", "30", "0", "15", "30", "15")
	cancelled.DeletedAt = &deletedAt
	sink := &fakeSink{}
	s, _, nt := newSyncer(t, &fakeSource{user: me, expenses: []*models.Expense{cancelled}}, sink)

	report, err := s.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Classified)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 0, report.Imported)
	assert.Empty(t, report.Transactions)
	assert.Empty(t, sink.txs)

	state, err := s.Checkpoint.Load(ctx)
	require.NoError(t, err)
	assert.False(t, state.Imported(5))

	require.Len(t, nt.texts, 1)
	assert.Contains(t, nt.texts[0], "Deleted in Splitwise: 1")
}

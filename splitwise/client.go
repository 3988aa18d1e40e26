// Package splitwise is a client for the subset of the Splitwise REST API the sync needs.
package splitwise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/models"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
)

type (
	// Client ...
	Client struct {
		baseURL    string
		limit      int
		httpClient *http.Client
	}

	// ExpensesFilter selects expenses by date. Zero dates are not sent.
	ExpensesFilter struct {
		DatedAfter  time.Time
		DatedBefore time.Time
		Limit       int
	}

	// APIError carries every error message returned by the Splitwise API.
	APIError struct {
		StatusCode int
		Messages   []string
	}

	expensePayload struct {
		ID          int64           `json:"id"`
		Cost        decimal.Decimal `json:"cost"`
		Description string          `json:"description"`
		Date        time.Time       `json:"date"`
		CreatedAt   time.Time       `json:"created_at"`
		UpdatedAt   time.Time       `json:"updated_at"`
		DeletedAt   *time.Time      `json:"deleted_at"`
		Users       []struct {
			User      models.User     `json:"user"`
			UserID    int64           `json:"user_id"`
			PaidShare decimal.Decimal `json:"paid_share"`
			OwedShare decimal.Decimal `json:"owed_share"`
		} `json:"users"`
	}

	errorsPayload struct {
		Error  string          `json:"error"`
		Errors json.RawMessage `json:"errors"`
	}
)

var (
	// ErrNonPositiveCost ...
	ErrNonPositiveCost = errors.New("expense cost must be positive")

	// ErrNoShares ...
	ErrNoShares = errors.New("expense must have at least one user share")

	oauthEndpoint = oauth2.Endpoint{
		AuthURL:  "https://secure.splitwise.com/oauth/authorize",
		TokenURL: "https://secure.splitwise.com/oauth/token",
	}
)

// NewClient creates a client authenticated with the API key as a bearer access token
// of the consumer key/secret OAuth2 application.
func NewClient(ctx context.Context, conf *config.Splitwise) *Client {
	oauthConf := &oauth2.Config{
		ClientID:     conf.ConsumerKey,
		ClientSecret: conf.ConsumerSecret,
		Endpoint:     oauthEndpoint,
	}
	baseURL := conf.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultSplitwiseBaseURL
	}
	limit := conf.Limit
	if limit <= 0 {
		limit = config.DefaultSplitwiseLimit
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		limit:   limit,
		httpClient: oauthConf.Client(ctx, &oauth2.Token{
			AccessToken: conf.APIKey,
			TokenType:   "Bearer",
		}),
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Splitwise API call returned %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// GetCurrentUser ...
func (c *Client) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "get_current_user", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("Splitwise API returned no current user")
	}
	return resp.User, nil
}

// GetFriends ...
func (c *Client) GetFriends(ctx context.Context) ([]*models.User, error) {
	var resp struct {
		Friends []*models.User `json:"friends"`
	}
	if err := c.do(ctx, http.MethodGet, "get_friends", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}

// GetExpenses lists the expenses of the current user.
func (c *Client) GetExpenses(ctx context.Context, filter *ExpensesFilter) ([]*models.Expense, error) {
	limit := c.limit
	query := url.Values{}
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		if !filter.DatedAfter.IsZero() {
			query.Set("dated_after", filter.DatedAfter.Format(time.RFC3339))
		}
		if !filter.DatedBefore.IsZero() {
			query.Set("dated_before", filter.DatedBefore.Format(time.RFC3339))
		}
	}
	query.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Expenses []*expensePayload `json:"expenses"`
	}
	if err := c.do(ctx, http.MethodGet, "get_expenses", query, nil, &resp); err != nil {
		return nil, err
	}
	expenses := make([]*models.Expense, 0, len(resp.Expenses))
	for _, e := range resp.Expenses {
		expenses = append(expenses, e.model())
	}
	return expenses, nil
}

// CreateExpense creates an expense and returns it as stored by Splitwise. Validation
// errors from Splitwise are returned as *APIError.
func (c *Client) CreateExpense(ctx context.Context, expense *models.NewExpense) (*models.Expense, error) {
	if !expense.Cost.IsPositive() {
		return nil, ErrNonPositiveCost
	}
	if len(expense.Shares) == 0 {
		return nil, ErrNoShares
	}

	payload := map[string]interface{}{
		"cost":        expense.Cost.StringFixed(2),
		"description": expense.Description,
		"group_id":    expense.GroupID,
	}
	if !expense.Date.IsZero() {
		payload["date"] = expense.Date.Format(time.RFC3339)
	}
	if expense.CurrencyCode != "" {
		payload["currency_code"] = expense.CurrencyCode
	}
	for i, share := range expense.Shares {
		payload[fmt.Sprintf("users__%d__user_id", i)] = share.UserID
		payload[fmt.Sprintf("users__%d__paid_share", i)] = share.Paid.StringFixed(2)
		payload[fmt.Sprintf("users__%d__owed_share", i)] = share.Owed.StringFixed(2)
	}

	var resp struct {
		Expenses []*expensePayload `json:"expenses"`
		errorsPayload
	}
	if err := c.do(ctx, http.MethodPost, "create_expense", nil, payload, &resp); err != nil {
		return nil, err
	}
	if msgs := resp.messages(); len(msgs) > 0 {
		return nil, &APIError{StatusCode: http.StatusOK, Messages: msgs}
	}
	if len(resp.Expenses) == 0 {
		return nil, &APIError{StatusCode: http.StatusOK, Messages: []string{"no expense was created"}}
	}
	return resp.Expenses[0].model(), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := fmt.Sprintf("%s/%s", c.baseURL, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("error encoding Splitwise JSON body: %w", err)
		}
		reqBody = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request for Splitwise API: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling Splitwise API %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Splitwise API call returned %d, but an error occurred reading the payload: %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorsPayload
		msgs := []string{strings.TrimSpace(string(b))}
		if json.Unmarshal(b, &errResp) == nil {
			if m := errResp.messages(); len(m) > 0 {
				msgs = m
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Messages: msgs}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("error unmarshaling Splitwise response: %w", err)
	}
	return nil
}

// messages flattens the "error" and "errors" fields. Splitwise sends "errors" either
// as an object of field name to messages or as a list of messages.
func (p *errorsPayload) messages() []string {
	var msgs []string
	if p.Error != "" {
		msgs = append(msgs, p.Error)
	}
	if len(p.Errors) == 0 {
		return msgs
	}

	var byField map[string][]string
	if err := json.Unmarshal(p.Errors, &byField); err == nil {
		fields := make([]string, 0, len(byField))
		for field := range byField {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			for _, msg := range byField[field] {
				if field == "base" {
					msgs = append(msgs, msg)
				} else {
					msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
				}
			}
		}
		return msgs
	}

	var list []string
	if err := json.Unmarshal(p.Errors, &list); err == nil {
		msgs = append(msgs, list...)
	}
	return msgs
}

func (e *expensePayload) model() *models.Expense {
	expense := &models.Expense{
		ID:          e.ID,
		Cost:        e.Cost,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		DeletedAt:   e.DeletedAt,
	}
	for _, u := range e.Users {
		user := u.User
		if user.ID == 0 {
			user.ID = u.UserID
		}
		expense.UserShares = append(expense.UserShares, &models.UserShare{
			User: user,
			Paid: u.PaidShare,
			Owed: u.OwedShare,
		})
	}
	return expense
}

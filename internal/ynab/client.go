// Package ynab formats classified expenses as YNAB transactions and pushes them
// through the YNAB REST API.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/models"
)

type (
	// Client ...
	Client struct {
		conf       *config.YNAB
		httpClient *http.Client
	}

	// CreateResult ...
	CreateResult struct {
		TransactionIDs     []string
		DuplicateImportIDs []string
	}

	// APIError is an error response from the YNAB API.
	APIError struct {
		StatusCode int
		ID         string
		Name       string
		Detail     string
	}

	transactionPayload struct {
		AccountID string `json:"account_id"`
		Date      string `json:"date"`
		Amount    int64  `json:"amount"`
		PayeeName string `json:"payee_name,omitempty"`
		Memo      string `json:"memo,omitempty"`
		ImportID  string `json:"import_id,omitempty"`
		Cleared   string `json:"cleared"`
		Approved  bool   `json:"approved"`
	}

	createResponse struct {
		Data struct {
			TransactionIDs     []string `json:"transaction_ids"`
			DuplicateImportIDs []string `json:"duplicate_import_ids"`
		} `json:"data"`
	}

	errorResponse struct {
		Error struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Detail string `json:"detail"`
		} `json:"error"`
	}
)

// NewClient ...
func NewClient(conf *config.YNAB) *Client {
	return &Client{
		conf:       conf,
		httpClient: http.DefaultClient,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("YNAB API call returned %d: %s (%s)", e.StatusCode, e.Detail, e.Name)
}

// CreateTransactions creates transactions in the configured budget.
func (c *Client) CreateTransactions(ctx context.Context, txs []*models.Transaction) (*CreateResult, error) {
	if len(txs) == 0 {
		return &CreateResult{}, nil
	}

	payload := struct {
		Transactions []*transactionPayload `json:"transactions"`
	}{}
	for _, tx := range txs {
		accountID := tx.AccountID
		if accountID == "" {
			accountID = c.conf.AccountID
		}
		payload.Transactions = append(payload.Transactions, &transactionPayload{
			AccountID: accountID,
			Date:      tx.Date.Format(models.DateLayout),
			Amount:    tx.Amount,
			PayeeName: tx.PayeeName,
			Memo:      tx.Memo,
			ImportID:  tx.ImportID,
			Cleared:   "uncleared",
		})
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(&payload); err != nil {
		return nil, fmt.Errorf("error encoding YNAB JSON body: %w", err)
	}

	url := fmt.Sprintf("%s/budgets/%s/transactions", strings.TrimSuffix(c.conf.BaseURL, "/"), c.conf.BudgetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("error creating request for YNAB API: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.conf.Token))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error POSTing transactions to YNAB API: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("YNAB API call returned %d, but an error occurred reading the payload: %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: string(b)}
		var errResp errorResponse
		if json.Unmarshal(b, &errResp) == nil && errResp.Error.Detail != "" {
			apiErr.ID = errResp.Error.ID
			apiErr.Name = errResp.Error.Name
			apiErr.Detail = errResp.Error.Detail
		}
		return nil, apiErr
	}

	var created createResponse
	if err := json.Unmarshal(b, &created); err != nil {
		return nil, fmt.Errorf("error unmarshaling YNAB response: %w", err)
	}
	return &CreateResult{
		TransactionIDs:     created.Data.TransactionIDs,
		DuplicateImportIDs: created.Data.DuplicateImportIDs,
	}, nil
}

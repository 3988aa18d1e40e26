package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/matheuscscp/splitynab/internal/classifier"
	"github.com/matheuscscp/splitynab/internal/export"
	"github.com/matheuscscp/splitynab/internal/syncer"
	"github.com/matheuscscp/splitynab/models"
	"github.com/matheuscscp/splitynab/splitwise"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newFriendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friends",
		Short: "List Splitwise friends and their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newSplitwiseClient(cmd)
			if err != nil {
				return err
			}
			friends, err := client.GetFriends(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range friends {
				fmt.Fprintf(w, "%d\t%s\n", f.ID, f.FullName())
			}
			return w.Flush()
		},
	}
}

func newExpensesCmd() *cobra.Command {
	var datedAfter, datedBefore string
	var limit int
	var csv bool
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Classify Splitwise expenses without touching YNAB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newSplitwiseClient(cmd)
			if err != nil {
				return err
			}
			filter := &splitwise.ExpensesFilter{Limit: limit}
			if filter.DatedAfter, err = parseDate(datedAfter); err != nil {
				return err
			}
			if filter.DatedBefore, err = parseDate(datedBefore); err != nil {
				return err
			}

			ctx := cmd.Context()
			user, err := client.GetCurrentUser(ctx)
			if err != nil {
				return err
			}
			expenses, err := client.GetExpenses(ctx, filter)
			if err != nil {
				return err
			}
			res := classifier.ClassifyAll(expenses, user)

			if csv {
				return export.WriteCSV(cmd.OutOrStdout(), res.Classified)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range res.Classified {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.Date.Format(models.DateLayout), e.Kind(), e.Owed.StringFixed(2), e.PayeeName, e.Description)
			}
			fmt.Fprintf(w, "\n%d classified, %d filtered, %d malformed\n", len(res.Classified), res.Filtered, len(res.Malformed))
			return w.Flush()
		},
	}
	addDateFlags(cmd, &datedAfter, &datedBefore)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of expenses to fetch (default from config)")
	cmd.Flags().BoolVar(&csv, "csv", false, "Write the classified expenses as CSV")
	return cmd
}

func newCreateExpenseCmd() *cobra.Command {
	var cost, date, description, currency string
	var groupID int64
	var shares []string
	cmd := &cobra.Command{
		Use:   "create-expense",
		Short: "Create a Splitwise expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expense, err := newExpense(cost, date, description, currency, groupID, shares)
			if err != nil {
				return err
			}
			client, err := newSplitwiseClient(cmd)
			if err != nil {
				return err
			}
			created, err := client.CreateExpense(cmd.Context(), expense)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expense %d created.\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&cost, "cost", "", "Total cost, e.g. 45.00")
	cmd.Flags().StringVar(&date, "date", "", "Expense date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "description", "", "Expense description")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency code (default from the Splitwise account)")
	cmd.Flags().Int64Var(&groupID, "group-id", 0, "Splitwise group id (0 for no group)")
	cmd.Flags().StringArrayVar(&shares, "share", nil, "User share as USER_ID:PAID:OWED, repeatable")
	cmd.MarkFlagRequired("cost")
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("share")
	return cmd
}

func newSplitwiseClient(cmd *cobra.Command) (*splitwise.Client, error) {
	conf, err := syncer.LoadConfig(cmd.Context())
	if err != nil {
		return nil, err
	}
	return splitwise.NewClient(cmd.Context(), &conf.Splitwise), nil
}

func newExpense(cost, date, description, currency string, groupID int64, shares []string) (*models.NewExpense, error) {
	c, err := decimal.NewFromString(cost)
	if err != nil {
		return nil, fmt.Errorf("error parsing cost '%s': %w", cost, err)
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if d.IsZero() {
		d = time.Now()
	}
	expense := &models.NewExpense{
		Cost:         c,
		Date:         d,
		Description:  description,
		GroupID:      groupID,
		CurrencyCode: currency,
	}
	for _, s := range shares {
		share, err := parseShare(s)
		if err != nil {
			return nil, err
		}
		expense.Shares = append(expense.Shares, share)
	}
	return expense, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing date '%s', want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

package plaid

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/daterange"
	"github.com/dailyspend/dailyspend/internal/fetch"
	"github.com/dailyspend/dailyspend/internal/model"
)

type transactionsGetRequest struct {
	auth
	AccessToken string                     `json:"access_token"`
	StartDate   string                     `json:"start_date"`
	EndDate     string                     `json:"end_date"`
	Options     transactionsGetRequestOpts `json:"options"`
}

type transactionsGetRequestOpts struct {
	AccountIDs []string `json:"account_ids,omitempty"`
	Count      int      `json:"count"`
	Offset     int      `json:"offset"`
}

type transactionsGetResponse struct {
	Transactions      []transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
}

type transaction struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  []string        `json:"category"`
	Name      string          `json:"name"`
	Date      string          `json:"date"`
}

// Page implements fetch.Pager over /transactions/get. Plaid reports money
// leaving the account as a positive amount, which is the ledger's polarity.
func (c *Client) Page(ctx context.Context, req fetch.PageRequest) (fetch.Page, error) {
	in := transactionsGetRequest{
		auth:        c.auth(),
		AccessToken: c.accessToken,
		StartDate:   daterange.Format(req.Range.Start),
		EndDate:     daterange.Format(req.Range.End),
		Options: transactionsGetRequestOpts{
			AccountIDs: req.AccountIDs,
			Count:      req.Count,
			Offset:     req.Offset,
		},
	}

	var out transactionsGetResponse
	if err := c.post(ctx, "/transactions/get", in, &out); err != nil {
		return fetch.Page{}, err
	}

	txns := make([]model.Transaction, 0, len(out.Transactions))
	for _, t := range out.Transactions {
		mt, err := t.toModel()
		if err != nil {
			return fetch.Page{}, err
		}
		txns = append(txns, mt)
	}
	return fetch.Page{Transactions: txns, Total: out.TotalTransactions}, nil
}

func (t transaction) toModel() (model.Transaction, error) {
	var date time.Time
	if t.Date != "" {
		var err error
		date, err = time.Parse(daterange.Layout, t.Date)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing transaction date %q: %w", t.Date, err)
		}
	}
	return model.Transaction{
		Date:      date,
		Name:      t.Name,
		Category:  t.Category,
		Amount:    t.Amount,
		AccountID: t.AccountID,
	}, nil
}

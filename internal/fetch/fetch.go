// Package fetch defines the transaction source contract and the paging loop over it.
package fetch

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/model"
)

// PageSize is the largest page requested from a provider.
const PageSize = 500

// PageRequest asks for one page of transactions.
type PageRequest struct {
	Range      model.Range
	AccountIDs []string
	Count      int
	Offset     int
}

// Page is one provider response. Total is the provider-reported number of
// transactions in the whole range.
type Page struct {
	Transactions []model.Transaction
	Total        int
}

// Pager returns one page of transactions.
type Pager interface {
	Page(ctx context.Context, req PageRequest) (Page, error)
}

// BalanceFetcher returns the current balance of the first matching account.
type BalanceFetcher interface {
	Balance(ctx context.Context, accountIDs []string) (decimal.Decimal, error)
}

// All requests pages with an increasing offset until the accumulated count
// reaches the provider's total. An empty page before that point is an error.
func All(ctx context.Context, p Pager, rng model.Range, accountIDs []string) ([]model.Transaction, error) {
	var txns []model.Transaction
	for {
		page, err := p.Page(ctx, PageRequest{
			Range:      rng,
			AccountIDs: accountIDs,
			Count:      PageSize,
			Offset:     len(txns),
		})
		if err != nil {
			return nil, fmt.Errorf("fetching transactions at offset %d: %w", len(txns), err)
		}
		txns = append(txns, page.Transactions...)

		if len(txns) >= page.Total {
			return txns, nil
		}
		if len(page.Transactions) == 0 {
			return nil, fmt.Errorf("provider returned an empty page at offset %d of %d", len(txns), page.Total)
		}
	}
}

package plaid

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoAccount is returned when no account matches a balance request.
var ErrNoAccount = errors.New("no matching account")

type balanceGetRequest struct {
	auth
	AccessToken string            `json:"access_token"`
	Options     *balanceGetOption `json:"options,omitempty"`
}

type balanceGetOption struct {
	AccountIDs []string `json:"account_ids"`
}

type balanceGetResponse struct {
	Accounts []struct {
		AccountID string `json:"account_id"`
		Balances  struct {
			Available *decimal.Decimal `json:"available"`
			Current   decimal.Decimal  `json:"current"`
		} `json:"balances"`
	} `json:"accounts"`
}

// Balance implements fetch.BalanceFetcher: the current balance of the first
// account returned for accountIDs.
func (c *Client) Balance(ctx context.Context, accountIDs []string) (decimal.Decimal, error) {
	in := balanceGetRequest{auth: c.auth(), AccessToken: c.accessToken}
	if len(accountIDs) > 0 {
		in.Options = &balanceGetOption{AccountIDs: accountIDs}
	}

	var out balanceGetResponse
	if err := c.post(ctx, "/accounts/balance/get", in, &out); err != nil {
		return decimal.Zero, err
	}
	if len(out.Accounts) == 0 {
		return decimal.Zero, ErrNoAccount
	}
	return out.Accounts[0].Balances.Current, nil
}

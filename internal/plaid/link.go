package plaid

import (
	"context"
	"errors"
)

type linkTokenCreateRequest struct {
	auth
	ClientName   string   `json:"client_name"`
	User         linkUser `json:"user"`
	Products     []string `json:"products"`
	CountryCodes []string `json:"country_codes"`
	Language     string   `json:"language"`
}

type linkUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateResponse struct {
	LinkToken string `json:"link_token"`
}

// CreateLinkToken returns a short-lived token for initializing Plaid Link.
func (c *Client) CreateLinkToken(ctx context.Context, clientName, userID string) (string, error) {
	in := linkTokenCreateRequest{
		auth:         c.auth(),
		ClientName:   clientName,
		User:         linkUser{ClientUserID: userID},
		Products:     []string{"transactions"},
		CountryCodes: []string{"US"},
		Language:     "en",
	}
	var out linkTokenCreateResponse
	if err := c.post(ctx, "/link/token/create", in, &out); err != nil {
		return "", err
	}
	return out.LinkToken, nil
}

type exchangeRequest struct {
	auth
	PublicToken string `json:"public_token"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// ExchangePublicToken trades a Link public token for a long-lived access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error) {
	if publicToken == "" {
		return "", "", errors.New("public token is empty")
	}
	in := exchangeRequest{auth: c.auth(), PublicToken: publicToken}
	var out exchangeResponse
	if err := c.post(ctx, "/item/public_token/exchange", in, &out); err != nil {
		return "", "", err
	}
	return out.AccessToken, out.ItemID, nil
}

package rpc

import (
	"context"
	"net/http"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
)

// TokenBalance returns the balance of owner in token, at height when given or else at the latest block.
func (c *HTTPClient) TokenBalance(ctx context.Context, token, owner posmodels.Address, height *uint64) (posmodels.Amount, error) {
	const op = "token_balance"
	var resp RpcTokenBalance
	req := tokenRequest{Token: token.String(), Owner: owner.String(), Height: height}
	if err := c.call(ctx, op, http.MethodPost, tokenBalancePath, req, &resp); err != nil {
		return posmodels.Amount{}, err
	}
	balance, err := posmodels.ParseAmount(resp.Balance)
	if err != nil {
		return posmodels.Amount{}, &QueryError{Operation: op, Err: err}
	}
	return balance, nil
}

// TokenTotalSupply returns the total supply of token.
func (c *HTTPClient) TokenTotalSupply(ctx context.Context, token posmodels.Address) (posmodels.Amount, error) {
	const op = "token_total_supply"
	var resp RpcTokenTotalSupply
	if err := c.call(ctx, op, http.MethodPost, tokenTotalSupplyPath, tokenRequest{Token: token.String()}, &resp); err != nil {
		return posmodels.Amount{}, err
	}
	supply, err := posmodels.ParseAmount(resp.TotalSupply)
	if err != nil {
		return posmodels.Amount{}, &QueryError{Operation: op, Err: err}
	}
	return supply, nil
}

// NativeToken returns the address of the chain's native token.
func (c *HTTPClient) NativeToken(ctx context.Context) (posmodels.Address, error) {
	var resp RpcNativeToken
	if err := c.call(ctx, "native_token", http.MethodPost, nativeTokenPath, map[string]any{}, &resp); err != nil {
		return "", err
	}
	return canonicalAddress(resp.Address), nil
}

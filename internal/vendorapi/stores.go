package vendorapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/model"
)

// StoresOverview returns the stores related to the vendor with dashboard totals.
func (c *Client) StoresOverview(ctx context.Context) (*model.StoresOverview, error) {
	var resp model.StoresOverview
	if err := c.do(ctx, http.MethodGet, c.endpoint("vendor", "get-related-stores"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StoreTransactions returns every transaction of one store, in backend order.
func (c *Client) StoreTransactions(ctx context.Context, storeID string) ([]model.Transaction, error) {
	var resp struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("vendor", "transactions-particular-store", storeID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Transactions == nil {
		resp.Transactions = []model.Transaction{}
	}
	return resp.Transactions, nil
}

// StoreReport returns the per-material totals of one store between from and
// to, both YYYY-MM-DD.
func (c *Client) StoreReport(ctx context.Context, storeID, from, to string) (*model.StoreReport, error) {
	var resp model.StoreReport
	endpoint := c.endpoint("vendor", "transactions-particular-store", storeID, from, to)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transaction returns one transaction with its items and calibration.
func (c *Client) Transaction(ctx context.Context, id string) (*model.Transaction, error) {
	var resp struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("vendor", "particular-transactions", id), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Transactions) == 0 {
		return nil, common.NewUserError("Transaction not found", fmt.Errorf("transaction %s: %w", id, common.ErrNotFound))
	}
	return &resp.Transactions[0], nil
}

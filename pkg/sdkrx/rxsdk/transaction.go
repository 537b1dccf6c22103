package rxsdk

import (
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/rx"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
)

// GetTransaction looks up one transaction, optionally with its asset.
func (c *Client) GetTransaction(txID string, loadAsset bool) *rx.Single[*sdk.GetTransactionResponse] {
	return invoke(c, "transaction.get", c.transactions != nil, func(cb sdk.Callback[*sdk.GetTransactionResponse]) {
		c.transactions.Get(txID, loadAsset, cb)
	})
}

// ListTransactions lists transactions matching query.
func (c *Client) ListTransactions(query *sdk.TransactionQuery) *rx.Single[*sdk.GetTransactionsResponse] {
	return invoke(c, "transaction.list", c.transactions != nil, func(cb sdk.Callback[*sdk.GetTransactionsResponse]) {
		c.transactions.List(query, cb)
	})
}

// Rekey moves every bitmark of from to to and resolves with the transaction ids.
func (c *Client) Rekey(from, to sdk.Account) *rx.Single[[]string] {
	return invoke(c, "migration.rekey", c.migration != nil, func(cb sdk.Callback[[]string]) {
		c.migration.Rekey(from, to, cb)
	})
}

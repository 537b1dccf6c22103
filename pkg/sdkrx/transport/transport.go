// Package transport defines the topic-typed subscription API the event bus
// consumes. The concrete implementation lives in websockets/client.
package transport

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
)

// Channel names used by the Bitmark subscription server.
const (
	ChannelNewBlock = "blockchain:new-block"

	bitmarkChangedFormat     = "bitmark_changed:%s"
	transferOfferFormat      = "tx_offer#%s"
	pendingIssuanceFormat    = "bitmark_pending_change:%s"
	pendingTransactionFormat = "tx_pending_change:%s"
)

// BitmarkChangedChannel returns the channel carrying bitmark changes for owner.
func BitmarkChangedChannel(owner string) string {
	return fmt.Sprintf(bitmarkChangedFormat, owner)
}

// TransferOfferChannel returns the channel carrying transfer offers for requester.
func TransferOfferChannel(requester string) string {
	return fmt.Sprintf(transferOfferFormat, requester)
}

// PendingIssuanceChannel returns the channel carrying pending issuances by issuer.
func PendingIssuanceChannel(issuer string) string {
	return fmt.Sprintf(pendingIssuanceFormat, issuer)
}

// PendingTxChannel returns the channel carrying pending transactions for stakeholder.
func PendingTxChannel(stakeholder string) string {
	return fmt.Sprintf(pendingTransactionFormat, stakeholder)
}

// PendingTx describes a transaction waiting to be confirmed.
type PendingTx struct {
	TxID      string `json:"tx_id"`
	Owner     string `json:"owner"`
	PrevTxID  string `json:"prev_tx_id"`
	PrevOwner string `json:"prev_owner"`
}

// BitmarkChange describes a change in bitmark ownership.
type BitmarkChange struct {
	BitmarkID string `json:"bitmark_id"`
	TxID      string `json:"tx_id"`
	Presence  bool   `json:"presence"`
}

// ConnectionEvent receives connection lifecycle callbacks.
type ConnectionEvent interface {
	OnConnected()
	OnDisconnected()
	OnConnectionError(err error)
}

// SubscribeHandler receives the outcome of a subscribe call.
type SubscribeHandler interface {
	OnSubscribeSuccess()
	OnSubscribeError(code int, message string)
	// OnUnsubscribe is called when the server ends the subscription.
	OnUnsubscribe()
}

type NewBlockHandler interface {
	SubscribeHandler
	OnNewBlock(blockNumber int64)
}

type BitmarkChangedHandler interface {
	SubscribeHandler
	OnBitmarkChanged(change BitmarkChange)
}

type TransferOfferHandler interface {
	SubscribeHandler
	OnNewTransferOffer(bitmarkID string)
}

type NewPendingIssuanceHandler interface {
	SubscribeHandler
	OnNewPendingIssuance(bitmarkID string)
}

type NewPendingTxHandler interface {
	SubscribeHandler
	OnNewPendingTx(tx PendingTx)
}

// Service is a connection to the subscription server.
//
// Connect is asynchronous: its outcome is reported through the ConnectionEvent.
// Subscribe outcomes are reported through the handler. Unsubscribe calls are
// fire-and-forget.
type Service interface {
	Connect(ctx context.Context, keyPair sdk.KeyPair, event ConnectionEvent)
	Disconnect()

	SubscribeNewBlock(handler NewBlockHandler)
	UnsubscribeNewBlock()

	SubscribeBitmarkChanged(owner string, handler BitmarkChangedHandler)
	UnsubscribeBitmarkChanged(owner string)

	SubscribeNewTransferOffer(requester string, handler TransferOfferHandler)
	UnsubscribeNewTransferOffer(requester string)

	SubscribeNewPendingIssuance(issuer string, handler NewPendingIssuanceHandler)
	UnsubscribeNewPendingIssuance(issuer string)

	SubscribeNewPendingTx(stakeholder string, handler NewPendingTxHandler)
	UnsubscribeNewPendingTx(stakeholder string)
}

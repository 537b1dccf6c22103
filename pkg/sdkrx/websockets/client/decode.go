package client

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transport"
)

// decoder turns publication data into a delivery for one handler.
type decoder func(data json.RawMessage) (func(h transport.SubscribeHandler), error)

func missingField(name string) error {
	return fmt.Errorf("missing %s", name)
}

func decodeNewBlock(data json.RawMessage) (func(h transport.SubscribeHandler), error) {
	var payload struct {
		BlockNumber *float64 `json:"block_number"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.BlockNumber == nil {
		return nil, missingField("block_number")
	}

	blockNumber := int64(*payload.BlockNumber)
	return func(h transport.SubscribeHandler) {
		if handler, ok := h.(transport.NewBlockHandler); ok {
			handler.OnNewBlock(blockNumber)
		}
	}, nil
}

func decodeBitmarkChanged(data json.RawMessage) (func(h transport.SubscribeHandler), error) {
	var payload struct {
		BitmarkID *string `json:"bitmark_id"`
		TxID      string  `json:"tx_id"`
		Presence  bool    `json:"presence"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.BitmarkID == nil {
		return nil, missingField("bitmark_id")
	}

	change := transport.BitmarkChange{
		BitmarkID: *payload.BitmarkID,
		TxID:      payload.TxID,
		Presence:  payload.Presence,
	}
	return func(h transport.SubscribeHandler) {
		if handler, ok := h.(transport.BitmarkChangedHandler); ok {
			handler.OnBitmarkChanged(change)
		}
	}, nil
}

func bitmarkID(data json.RawMessage) (string, error) {
	var payload struct {
		BitmarkID string `json:"bitmark_id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", err
	}
	if payload.BitmarkID == "" {
		return "", missingField("bitmark_id")
	}
	return payload.BitmarkID, nil
}

func decodeTransferOffer(data json.RawMessage) (func(h transport.SubscribeHandler), error) {
	id, err := bitmarkID(data)
	if err != nil {
		return nil, err
	}
	return func(h transport.SubscribeHandler) {
		if handler, ok := h.(transport.TransferOfferHandler); ok {
			handler.OnNewTransferOffer(id)
		}
	}, nil
}

func decodePendingIssuance(data json.RawMessage) (func(h transport.SubscribeHandler), error) {
	id, err := bitmarkID(data)
	if err != nil {
		return nil, err
	}
	return func(h transport.SubscribeHandler) {
		if handler, ok := h.(transport.NewPendingIssuanceHandler); ok {
			handler.OnNewPendingIssuance(id)
		}
	}, nil
}

func decodePendingTx(data json.RawMessage) (func(h transport.SubscribeHandler), error) {
	var payload struct {
		TxID          *string `json:"tx_id"`
		Owner         string  `json:"owner"`
		PreviousTxID  string  `json:"previous_tx_id"`
		PreviousOwner string  `json:"previous_owner"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.TxID == nil {
		return nil, missingField("tx_id")
	}

	tx := transport.PendingTx{
		TxID:      *payload.TxID,
		Owner:     payload.Owner,
		PrevTxID:  payload.PreviousTxID,
		PrevOwner: payload.PreviousOwner,
	}
	return func(h transport.SubscribeHandler) {
		if handler, ok := h.(transport.NewPendingTxHandler); ok {
			handler.OnNewPendingTx(tx)
		}
	}, nil
}

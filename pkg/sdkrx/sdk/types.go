package sdk

// Request parameters arrive already signed by the caller. Signature fields
// carry hex-encoded signatures produced with the owner's key pair.

// RegistrationParams registers an asset.
type RegistrationParams struct {
	Name        string            `json:"name"`
	Fingerprint string            `json:"fingerprint"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Registrant  string            `json:"registrant"`
	Signature   string            `json:"signature"`
}

// IssuanceParams issues one bitmark per nonce against a registered asset.
type IssuanceParams struct {
	AssetID    string   `json:"asset_id"`
	Owner      string   `json:"owner"`
	Nonces     []uint64 `json:"nonces"`
	Signatures []string `json:"signatures"`
}

// TransferParams transfers a bitmark directly to a new owner.
type TransferParams struct {
	Link      string `json:"link"`
	Owner     string `json:"owner"`
	Signature string `json:"signature"`
}

// TransferOfferParams offers a bitmark to another account.
type TransferOfferParams struct {
	Link         string            `json:"link"`
	OfferedOwner string            `json:"owner"`
	ExtraInfo    map[string]string `json:"extra_info,omitempty"`
	Signature    string            `json:"signature"`
}

// OfferAction is the response to a pending offer.
type OfferAction string

const (
	OfferAccept OfferAction = "accept"
	OfferReject OfferAction = "reject"
	OfferCancel OfferAction = "cancel"
)

// TransferResponseParams accepts, rejects or cancels a transfer offer.
type TransferResponseParams struct {
	OfferID          string      `json:"id"`
	Action           OfferAction `json:"reply"`
	CounterSignature string      `json:"countersignature,omitempty"`
	Requester        string      `json:"-"`
	Timestamp        int64       `json:"-"`
	Signature        string      `json:"-"`
}

// ShareParams converts a bitmark into a share with the given quantity.
type ShareParams struct {
	Link      string `json:"link"`
	Quantity  int    `json:"quantity"`
	Signature string `json:"signature"`
}

// ShareGrantingParams offers part of a share balance to another account.
type ShareGrantingParams struct {
	ShareID     string            `json:"share_id"`
	Quantity    int               `json:"quantity"`
	Owner       string            `json:"owner"`
	Receiver    string            `json:"recipient"`
	BeforeBlock int64             `json:"before_block"`
	ExtraInfo   map[string]string `json:"extra_info,omitempty"`
	Signature   string            `json:"signature"`
}

// GrantResponseParams accepts, rejects or cancels a share grant.
type GrantResponseParams struct {
	GrantID          string      `json:"id"`
	Action           OfferAction `json:"action"`
	CounterSignature string      `json:"countersignature,omitempty"`
	Requester        string      `json:"-"`
	Timestamp        int64       `json:"-"`
	Signature        string      `json:"-"`
}

// RegistrationResponse is returned by asset registration.
type RegistrationResponse struct {
	Assets []RegisteredAsset `json:"assets"`
}

// RegisteredAsset is one entry of a RegistrationResponse.
type RegisteredAsset struct {
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// ShareCreation is the result of converting a bitmark into a share.
type ShareCreation struct {
	TxID    string `json:"tx_id"`
	ShareID string `json:"share_id"`
}

// RecordStatus is the confirmation state of a record.
type RecordStatus string

const (
	StatusPending      RecordStatus = "pending"
	StatusConfirmed    RecordStatus = "confirmed"
	StatusIssuing      RecordStatus = "issuing"
	StatusTransferring RecordStatus = "transferring"
	StatusOffering     RecordStatus = "offering"
	StatusSettled      RecordStatus = "settled"
)

// AssetRecord describes a registered asset.
type AssetRecord struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Fingerprint string            `json:"fingerprint"`
	Metadata    map[string]string `json:"metadata"`
	Registrant  string            `json:"registrant"`
	Status      RecordStatus      `json:"status"`
	BlockNumber int64             `json:"block_number"`
	BlockOffset int64             `json:"block_offset"`
	Offset      int64             `json:"offset"`
	CreatedAt   string            `json:"created_at"`
	ExpiredAt   string            `json:"expired_at,omitempty"`
}

// OfferRecord is a pending transfer offer attached to a bitmark.
type OfferRecord struct {
	ID        string         `json:"id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	ExtraInfo map[string]any `json:"extra_info,omitempty"`
	CreatedAt string         `json:"created_at"`
	Open      bool           `json:"open"`
}

// BitmarkRecord describes a bitmark.
type BitmarkRecord struct {
	ID          string       `json:"id"`
	AssetID     string       `json:"asset_id"`
	HeadID      string       `json:"head_id"`
	Head        string       `json:"head,omitempty"`
	Issuer      string       `json:"issuer"`
	Owner       string       `json:"owner"`
	Status      RecordStatus `json:"status"`
	BlockNumber int64        `json:"block_number"`
	Offset      int64        `json:"offset"`
	IssuedAt    string       `json:"issued_at"`
	CreatedAt   string       `json:"created_at"`
	ConfirmedAt string       `json:"confirmed_at,omitempty"`
	Offer       *OfferRecord `json:"offer,omitempty"`
}

// TransactionRecord describes a transaction.
type TransactionRecord struct {
	ID          string       `json:"id"`
	Owner       string       `json:"owner"`
	AssetID     string       `json:"asset_id"`
	BitmarkID   string       `json:"bitmark_id"`
	Head        string       `json:"head,omitempty"`
	Status      RecordStatus `json:"status"`
	BlockNumber int64        `json:"block_number"`
	BlockOffset int64        `json:"block_offset"`
	Offset      int64        `json:"offset"`
	ExpiredAt   string       `json:"expired_at,omitempty"`
	PayID       string       `json:"pay_id,omitempty"`
	PreviousID  string       `json:"previous_id,omitempty"`
}

// BlockRecord describes a block.
type BlockRecord struct {
	Number    int64  `json:"number"`
	Hash      string `json:"hash"`
	BitmarkID string `json:"bitmark_id"`
	CreatedAt string `json:"created_at"`
}

// ShareRecord is a share balance held by an owner.
type ShareRecord struct {
	ID        string `json:"share_id"`
	Owner     string `json:"owner"`
	Balance   int    `json:"balance"`
	Available int    `json:"available"`
}

// ShareGrantRecord is a pending or settled share grant.
type ShareGrantRecord struct {
	ID        string         `json:"id"`
	ShareID   string         `json:"share_id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	Status    string         `json:"status"`
	TxID      string         `json:"tx_id,omitempty"`
	ExtraInfo map[string]any `json:"extra_info,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// GetBitmarkResponse is a bitmark with its asset when requested.
type GetBitmarkResponse struct {
	Bitmark *BitmarkRecord `json:"bitmark"`
	Asset   *AssetRecord   `json:"asset,omitempty"`
}

// GetBitmarksResponse is a page of bitmarks with referenced assets.
type GetBitmarksResponse struct {
	Bitmarks []BitmarkRecord `json:"bitmarks"`
	Assets   []AssetRecord   `json:"assets,omitempty"`
}

// GetTransactionResponse is a transaction with its asset when requested.
type GetTransactionResponse struct {
	Transaction *TransactionRecord `json:"tx"`
	Asset       *AssetRecord       `json:"asset,omitempty"`
}

// GetTransactionsResponse is a page of transactions with referenced assets and blocks.
type GetTransactionsResponse struct {
	Transactions []TransactionRecord `json:"txs"`
	Assets       []AssetRecord       `json:"assets,omitempty"`
	Blocks       []BlockRecord       `json:"blocks,omitempty"`
}

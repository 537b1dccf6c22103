// Package sdk describes the callback-based Bitmark SDK surface that sdkrx adapts.
//
// The SDK itself (signing, HTTP API client, key management) lives elsewhere;
// an SDK implementation satisfies these interfaces and reports every result
// through exactly one Callback invocation.
package sdk

//go:generate mockgen -destination=mock/mock_api.go -package=mocksdk -source=api.go

// Callback receives the outcome of one SDK operation.
// Implementations are invoked on whatever goroutine the SDK chooses.
type Callback[T any] interface {
	OnSuccess(data T)
	OnError(err error)
}

// CallbackFuncs adapts a pair of functions to Callback. Nil functions are skipped.
type CallbackFuncs[T any] struct {
	Success func(data T)
	Error   func(err error)
}

// OnSuccess implements Callback
func (c CallbackFuncs[T]) OnSuccess(data T) {
	if c.Success != nil {
		c.Success(data)
	}
}

// OnError implements Callback
func (c CallbackFuncs[T]) OnError(err error) {
	if c.Error != nil {
		c.Error(err)
	}
}

// KeyPair is opaque signing material bound to an account.
type KeyPair interface {
	// AccountNumber returns the encoded account number of the public key.
	AccountNumber() string
	// Sign returns the signature of message.
	Sign(message []byte) ([]byte, error)
}

// Account is a Bitmark account able to authenticate requests.
type Account interface {
	AccountNumber() string
	AuthKeyPair() KeyPair
}

// AssetAPI registers and queries assets.
type AssetAPI interface {
	Register(params *RegistrationParams, callback Callback[*RegistrationResponse])
	Get(assetID string, callback Callback[*AssetRecord])
	List(query *AssetQuery, callback Callback[[]AssetRecord])
}

// BitmarkAPI issues, transfers and queries bitmarks and shares.
type BitmarkAPI interface {
	Issue(params *IssuanceParams, callback Callback[[]string])
	Transfer(params *TransferParams, callback Callback[string])
	Offer(params *TransferOfferParams, callback Callback[string])
	Respond(params *TransferResponseParams, callback Callback[string])
	Get(bitmarkID string, loadAsset bool, callback Callback[*GetBitmarkResponse])
	List(query *BitmarkQuery, callback Callback[*GetBitmarksResponse])
	CreateShare(params *ShareParams, callback Callback[ShareCreation])
	GrantShare(params *ShareGrantingParams, callback Callback[string])
	RespondShareOffer(params *GrantResponseParams, callback Callback[string])
	GetShare(shareID string, callback Callback[*ShareRecord])
	ListShares(owner string, callback Callback[[]ShareRecord])
	ListShareOffers(from, to string, callback Callback[[]ShareGrantRecord])
}

// TransactionAPI queries transactions.
type TransactionAPI interface {
	Get(txID string, loadAsset bool, callback Callback[*GetTransactionResponse])
	List(query *TransactionQuery, callback Callback[*GetTransactionsResponse])
}

// MigrationAPI moves bitmarks between accounts.
type MigrationAPI interface {
	// Rekey transfers every bitmark owned by from to to and reports the transaction ids.
	Rekey(from, to Account, callback Callback[[]string])
}

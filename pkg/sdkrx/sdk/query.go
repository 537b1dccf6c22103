package sdk

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 100
)

// Direction of a paged query relative to its "at" offset.
const (
	DirectionEarlier = "earlier"
	DirectionLater   = "later"
)

// queryBuilder holds the paging options shared by every query and records the
// first invalid argument so the fluent chain can continue.
type queryBuilder struct {
	pending bool
	at      int64
	to      string
	limit   int
	err     error
}

func newQueryBuilder() queryBuilder {
	return queryBuilder{pending: true, limit: defaultQueryLimit}
}

func (b *queryBuilder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

func (b *queryBuilder) checkString(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		b.fail("invalid %s: must not be empty", field)
		return false
	}
	return true
}

func (b *queryBuilder) setLimit(limit int) {
	if limit <= 0 || limit > maxQueryLimit {
		b.fail("invalid limit %d: must be between 1 and %d", limit, maxQueryLimit)
		return
	}
	b.limit = limit
}

func (b *queryBuilder) setAt(at int64) {
	if at <= 0 {
		b.fail("invalid at value %d: must be greater than 0", at)
		return
	}
	b.at = at
}

func (b *queryBuilder) setTo(to string) {
	if to != DirectionEarlier && to != DirectionLater {
		b.fail("invalid to value %q: must be %q or %q", to, DirectionLater, DirectionEarlier)
		return
	}
	b.to = to
}

func (b *queryBuilder) encode(v url.Values) {
	v.Set("pending", strconv.FormatBool(b.pending))
	v.Set("limit", strconv.Itoa(b.limit))
	if b.at > 0 {
		v.Set("at", strconv.FormatInt(b.at, 10))
	}
	if b.to != "" {
		v.Set("to", b.to)
	}
}

// AssetQuery selects assets.
type AssetQuery struct {
	values url.Values
}

// Values returns the query as URL parameters.
func (q *AssetQuery) Values() url.Values {
	return cloneValues(q.values)
}

// AssetQueryBuilder builds an AssetQuery.
type AssetQueryBuilder struct {
	queryBuilder
	registrant string
	assetIDs   []string
}

// NewAssetQuery creates a new AssetQueryBuilder.
func NewAssetQuery() *AssetQueryBuilder {
	return &AssetQueryBuilder{queryBuilder: newQueryBuilder()}
}

func (b *AssetQueryBuilder) RegisteredBy(registrant string) *AssetQueryBuilder {
	if b.checkString("registrant", registrant) {
		b.registrant = registrant
	}
	return b
}

func (b *AssetQueryBuilder) AssetIDs(ids ...string) *AssetQueryBuilder {
	if len(ids) == 0 {
		b.fail("invalid asset ids: at least one is required")
		return b
	}
	b.assetIDs = ids
	return b
}

func (b *AssetQueryBuilder) Pending(pending bool) *AssetQueryBuilder {
	b.pending = pending
	return b
}

func (b *AssetQueryBuilder) Limit(limit int) *AssetQueryBuilder {
	b.setLimit(limit)
	return b
}

func (b *AssetQueryBuilder) At(at int64) *AssetQueryBuilder {
	b.setAt(at)
	return b
}

func (b *AssetQueryBuilder) To(direction string) *AssetQueryBuilder {
	b.setTo(direction)
	return b
}

// Build returns the query or the first invalid argument recorded.
func (b *AssetQueryBuilder) Build() (*AssetQuery, error) {
	if b.err != nil {
		return nil, b.err
	}

	v := url.Values{}
	b.encode(v)
	if b.registrant != "" {
		v.Set("registrant", b.registrant)
	}
	for _, id := range b.assetIDs {
		v.Add("asset_ids", id)
	}
	return &AssetQuery{values: v}, nil
}

// BitmarkQuery selects bitmarks.
type BitmarkQuery struct {
	values url.Values
}

// Values returns the query as URL parameters.
func (q *BitmarkQuery) Values() url.Values {
	return cloneValues(q.values)
}

// BitmarkQueryBuilder builds a BitmarkQuery.
type BitmarkQueryBuilder struct {
	queryBuilder
	owner      string
	issuedBy   string
	offerTo    string
	offerFrom  string
	bitmarkIDs []string
	assetID    string
	loadAsset  bool
	sent       bool
}

// NewBitmarkQuery creates a new BitmarkQueryBuilder.
func NewBitmarkQuery() *BitmarkQueryBuilder {
	return &BitmarkQueryBuilder{queryBuilder: newQueryBuilder()}
}

func (b *BitmarkQueryBuilder) OwnedBy(owner string) *BitmarkQueryBuilder {
	if b.checkString("owner", owner) {
		b.owner = owner
	}
	return b
}

// OwnedByWithTransient also includes bitmarks the owner has transferred away.
func (b *BitmarkQueryBuilder) OwnedByWithTransient(owner string) *BitmarkQueryBuilder {
	if b.checkString("owner", owner) {
		b.owner = owner
		b.sent = true
	}
	return b
}

func (b *BitmarkQueryBuilder) IssuedBy(issuer string) *BitmarkQueryBuilder {
	if b.checkString("issuer", issuer) {
		b.issuedBy = issuer
	}
	return b
}

func (b *BitmarkQueryBuilder) OfferTo(receiver string) *BitmarkQueryBuilder {
	if b.checkString("offer receiver", receiver) {
		b.offerTo = receiver
	}
	return b
}

func (b *BitmarkQueryBuilder) OfferFrom(sender string) *BitmarkQueryBuilder {
	if b.checkString("offer sender", sender) {
		b.offerFrom = sender
	}
	return b
}

func (b *BitmarkQueryBuilder) BitmarkIDs(ids ...string) *BitmarkQueryBuilder {
	if len(ids) == 0 {
		b.fail("invalid bitmark ids: at least one is required")
		return b
	}
	b.bitmarkIDs = ids
	return b
}

func (b *BitmarkQueryBuilder) ReferencedAsset(assetID string) *BitmarkQueryBuilder {
	if b.checkString("asset id", assetID) {
		b.assetID = assetID
	}
	return b
}

func (b *BitmarkQueryBuilder) LoadAsset(load bool) *BitmarkQueryBuilder {
	b.loadAsset = load
	return b
}

func (b *BitmarkQueryBuilder) Pending(pending bool) *BitmarkQueryBuilder {
	b.pending = pending
	return b
}

func (b *BitmarkQueryBuilder) Limit(limit int) *BitmarkQueryBuilder {
	b.setLimit(limit)
	return b
}

func (b *BitmarkQueryBuilder) At(at int64) *BitmarkQueryBuilder {
	b.setAt(at)
	return b
}

func (b *BitmarkQueryBuilder) To(direction string) *BitmarkQueryBuilder {
	b.setTo(direction)
	return b
}

// Build returns the query or the first invalid argument recorded.
func (b *BitmarkQueryBuilder) Build() (*BitmarkQuery, error) {
	if b.err != nil {
		return nil, b.err
	}

	v := url.Values{}
	b.encode(v)
	setIfNotEmpty(v, "owner", b.owner)
	setIfNotEmpty(v, "issued_by", b.issuedBy)
	setIfNotEmpty(v, "offer_to", b.offerTo)
	setIfNotEmpty(v, "offer_from", b.offerFrom)
	setIfNotEmpty(v, "asset_id", b.assetID)
	for _, id := range b.bitmarkIDs {
		v.Add("bitmark_ids", id)
	}
	if b.loadAsset {
		v.Set("asset", "true")
	}
	if b.sent {
		v.Set("sent", "true")
	}
	return &BitmarkQuery{values: v}, nil
}

// TransactionQuery selects transactions.
type TransactionQuery struct {
	values url.Values
}

// Values returns the query as URL parameters.
func (q *TransactionQuery) Values() url.Values {
	return cloneValues(q.values)
}

// TransactionQueryBuilder builds a TransactionQuery.
type TransactionQueryBuilder struct {
	queryBuilder
	owner       string
	assetID     string
	bitmarkID   string
	blockNumber int64
	loadAsset   bool
	loadBlock   bool
	sent        bool
}

// NewTransactionQuery creates a new TransactionQueryBuilder.
func NewTransactionQuery() *TransactionQueryBuilder {
	return &TransactionQueryBuilder{queryBuilder: newQueryBuilder()}
}

func (b *TransactionQueryBuilder) OwnedBy(owner string) *TransactionQueryBuilder {
	if b.checkString("owner", owner) {
		b.owner = owner
	}
	return b
}

// OwnedByWithTransient also includes transactions sent away by the owner.
func (b *TransactionQueryBuilder) OwnedByWithTransient(owner string) *TransactionQueryBuilder {
	if b.checkString("owner", owner) {
		b.owner = owner
		b.sent = true
	}
	return b
}

func (b *TransactionQueryBuilder) ReferencedAsset(assetID string) *TransactionQueryBuilder {
	if b.checkString("asset id", assetID) {
		b.assetID = assetID
	}
	return b
}

func (b *TransactionQueryBuilder) ReferencedBitmark(bitmarkID string) *TransactionQueryBuilder {
	if b.checkString("bitmark id", bitmarkID) {
		b.bitmarkID = bitmarkID
	}
	return b
}

func (b *TransactionQueryBuilder) ReferencedBlockNumber(blockNumber int64) *TransactionQueryBuilder {
	if blockNumber <= 0 {
		b.fail("invalid block number %d: must be greater than 0", blockNumber)
		return b
	}
	b.blockNumber = blockNumber
	return b
}

func (b *TransactionQueryBuilder) LoadAsset(load bool) *TransactionQueryBuilder {
	b.loadAsset = load
	return b
}

func (b *TransactionQueryBuilder) LoadBlock(load bool) *TransactionQueryBuilder {
	b.loadBlock = load
	return b
}

func (b *TransactionQueryBuilder) Pending(pending bool) *TransactionQueryBuilder {
	b.pending = pending
	return b
}

func (b *TransactionQueryBuilder) Limit(limit int) *TransactionQueryBuilder {
	b.setLimit(limit)
	return b
}

func (b *TransactionQueryBuilder) At(at int64) *TransactionQueryBuilder {
	b.setAt(at)
	return b
}

func (b *TransactionQueryBuilder) To(direction string) *TransactionQueryBuilder {
	b.setTo(direction)
	return b
}

// Build returns the query or the first invalid argument recorded.
func (b *TransactionQueryBuilder) Build() (*TransactionQuery, error) {
	if b.err != nil {
		return nil, b.err
	}

	v := url.Values{}
	b.encode(v)
	setIfNotEmpty(v, "owner", b.owner)
	setIfNotEmpty(v, "asset_id", b.assetID)
	setIfNotEmpty(v, "bitmark_id", b.bitmarkID)
	if b.blockNumber > 0 {
		v.Set("block_number", strconv.FormatInt(b.blockNumber, 10))
	}
	if b.loadAsset {
		v.Set("asset", "true")
	}
	v.Set("block", strconv.FormatBool(b.loadBlock))
	if b.sent {
		v.Set("sent", "true")
	}
	return &TransactionQuery{values: v}, nil
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for key, values := range v {
		out[key] = append([]string(nil), values...)
	}
	return out
}

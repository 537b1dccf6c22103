package rxsdk

import (
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/rx"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
)

// IssueBitmarks issues bitmarks and resolves with their ids.
func (c *Client) IssueBitmarks(params *sdk.IssuanceParams) *rx.Single[[]string] {
	return invoke(c, "bitmark.issue", c.bitmarks != nil, func(cb sdk.Callback[[]string]) {
		c.bitmarks.Issue(params, cb)
	})
}

// TransferBitmark transfers a bitmark and resolves with the transaction id.
func (c *Client) TransferBitmark(params *sdk.TransferParams) *rx.Single[string] {
	return invoke(c, "bitmark.transfer", c.bitmarks != nil, func(cb sdk.Callback[string]) {
		c.bitmarks.Transfer(params, cb)
	})
}

// OfferBitmark creates a transfer offer and resolves with the offer id.
func (c *Client) OfferBitmark(params *sdk.TransferOfferParams) *rx.Single[string] {
	return invoke(c, "bitmark.offer", c.bitmarks != nil, func(cb sdk.Callback[string]) {
		c.bitmarks.Offer(params, cb)
	})
}

// RespondToOffer accepts, rejects or cancels a transfer offer.
func (c *Client) RespondToOffer(params *sdk.TransferResponseParams) *rx.Single[string] {
	return invoke(c, "bitmark.respond", c.bitmarks != nil, func(cb sdk.Callback[string]) {
		c.bitmarks.Respond(params, cb)
	})
}

// GetBitmark looks up one bitmark, optionally with its asset.
func (c *Client) GetBitmark(bitmarkID string, loadAsset bool) *rx.Single[*sdk.GetBitmarkResponse] {
	return invoke(c, "bitmark.get", c.bitmarks != nil, func(cb sdk.Callback[*sdk.GetBitmarkResponse]) {
		c.bitmarks.Get(bitmarkID, loadAsset, cb)
	})
}

// ListBitmarks lists bitmarks matching query.
func (c *Client) ListBitmarks(query *sdk.BitmarkQuery) *rx.Single[*sdk.GetBitmarksResponse] {
	return invoke(c, "bitmark.list", c.bitmarks != nil, func(cb sdk.Callback[*sdk.GetBitmarksResponse]) {
		c.bitmarks.List(query, cb)
	})
}

// CreateShare converts a bitmark into a share.
func (c *Client) CreateShare(params *sdk.ShareParams) *rx.Single[sdk.ShareCreation] {
	return invoke(c, "bitmark.create_share", c.bitmarks != nil, func(cb sdk.Callback[sdk.ShareCreation]) {
		c.bitmarks.CreateShare(params, cb)
	})
}

// GrantShare offers part of a share to another account and resolves with the grant id.
func (c *Client) GrantShare(params *sdk.ShareGrantingParams) *rx.Single[string] {
	return invoke(c, "bitmark.grant_share", c.bitmarks != nil, func(cb sdk.Callback[string]) {
		c.bitmarks.GrantShare(params, cb)
	})
}

// RespondToShareOffer accepts, rejects or cancels a share grant.
func (c *Client) RespondToShareOffer(params *sdk.GrantResponseParams) *rx.Single[string] {
	return invoke(c, "bitmark.respond_share_offer", c.bitmarks != nil, func(cb sdk.Callback[string]) {
		c.bitmarks.RespondShareOffer(params, cb)
	})
}

// GetShare looks up one share.
func (c *Client) GetShare(shareID string) *rx.Single[*sdk.ShareRecord] {
	return invoke(c, "bitmark.get_share", c.bitmarks != nil, func(cb sdk.Callback[*sdk.ShareRecord]) {
		c.bitmarks.GetShare(shareID, cb)
	})
}

// ListShares lists the shares held by owner.
func (c *Client) ListShares(owner string) *rx.Single[[]sdk.ShareRecord] {
	return invoke(c, "bitmark.list_shares", c.bitmarks != nil, func(cb sdk.Callback[[]sdk.ShareRecord]) {
		c.bitmarks.ListShares(owner, cb)
	})
}

// ListShareOffers lists share grants sent from one account to another.
func (c *Client) ListShareOffers(from, to string) *rx.Single[[]sdk.ShareGrantRecord] {
	return invoke(c, "bitmark.list_share_offers", c.bitmarks != nil, func(cb sdk.Callback[[]sdk.ShareGrantRecord]) {
		c.bitmarks.ListShareOffers(from, to, cb)
	})
}

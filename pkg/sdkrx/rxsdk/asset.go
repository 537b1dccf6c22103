package rxsdk

import (
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/rx"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
)

// RegisterAsset registers an asset from signed registration params.
func (c *Client) RegisterAsset(params *sdk.RegistrationParams) *rx.Single[*sdk.RegistrationResponse] {
	return invoke(c, "asset.register", c.assets != nil, func(cb sdk.Callback[*sdk.RegistrationResponse]) {
		c.assets.Register(params, cb)
	})
}

// GetAsset looks up one asset.
func (c *Client) GetAsset(assetID string) *rx.Single[*sdk.AssetRecord] {
	return invoke(c, "asset.get", c.assets != nil, func(cb sdk.Callback[*sdk.AssetRecord]) {
		c.assets.Get(assetID, cb)
	})
}

// ListAssets lists assets matching query.
func (c *Client) ListAssets(query *sdk.AssetQuery) *rx.Single[[]sdk.AssetRecord] {
	return invoke(c, "asset.list", c.assets != nil, func(cb sdk.Callback[[]sdk.AssetRecord]) {
		c.assets.List(query, cb)
	})
}

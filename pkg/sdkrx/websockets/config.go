package websockets

import (
	"fmt"
	"time"
)

// Network selects a Bitmark deployment.
type Network string

const (
	Livenet Network = "livenet"
	Testnet Network = "testnet"
)

const (
	// DefaultDialTimeout bounds the WebSocket handshake.
	DefaultDialTimeout = 30 * time.Second

	// DefaultWriteChannelSize is the number of outgoing frames buffered per connection.
	DefaultWriteChannelSize = 100
)

var endpoints = map[Network]struct {
	ws  string
	api string
}{
	Livenet: {
		ws:  "wss://subscription.api.bitmark.com/connection/websocket?format=json",
		api: "https://api.bitmark.com",
	},
	Testnet: {
		ws:  "wss://subscription.api.test.bitmark.com/connection/websocket?format=json",
		api: "https://api.test.bitmark.com",
	},
}

// ParseNetwork validates a network name.
func ParseNetwork(name string) (Network, error) {
	n := Network(name)
	if _, ok := endpoints[n]; !ok {
		return "", fmt.Errorf("unknown network %q", name)
	}
	return n, nil
}

// SubscriptionURL returns the subscription server endpoint for the network.
func (n Network) SubscriptionURL() string {
	return endpoints[n].ws
}

// APIURL returns the HTTP API root for the network.
func (n Network) APIURL() string {
	return endpoints[n].api
}

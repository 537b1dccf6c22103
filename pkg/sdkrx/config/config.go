// Package config loads sdkrx settings from HCL files and the environment.
//
// A file looks like:
//
//	network      = "testnet"
//	api_token    = env.BITMARK_API_TOKEN
//	dial_timeout = "PT10S"
//
//	subscription "new-block" {}
//
//	subscription "bitmark-changed" {
//	  account = "ec6yMcJATX6gjNwvqp8rbc4jNEasoUgbfBBGGyV5NvoJ54NXva"
//	}
//
//	relay {
//	  prefix     = "bitmark"
//	  redis_addr = "localhost:6379"
//	}
//
// Environment variables, including those read from .env files, override the
// file: SDKRX_NETWORK, SDKRX_API_URL, SDKRX_WS_URL, SDKRX_API_TOKEN and
// SDKRX_DIAL_TIMEOUT.
package config

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/eventbus"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"
)

type fileDefinition struct {
	Network       *string                  `hcl:"network,optional"`
	APIURL        *string                  `hcl:"api_url,optional"`
	WSURL         *string                  `hcl:"ws_url,optional"`
	APIToken      *string                  `hcl:"api_token,optional"`
	DialTimeout   hcl.Expression           `hcl:"dial_timeout,optional"`
	RateLimit     *float64                 `hcl:"rate_limit,optional"`
	Subscriptions []subscriptionDefinition `hcl:"subscription,block"`
	Relay         *relayDefinition         `hcl:"relay,block"`
}

type subscriptionDefinition struct {
	Topic   string  `hcl:",label"`
	Account *string `hcl:"account,optional"`
}

type relayDefinition struct {
	Prefix    *string `hcl:"prefix,optional"`
	RedisAddr *string `hcl:"redis_addr,optional"`
	NATSURL   *string `hcl:"nats_url,optional"`
	Jq        *string `hcl:"jq,optional"`
	QueueSize *int    `hcl:"queue_size,optional"`
}

// Subscription is one topic to subscribe to on connect.
type Subscription struct {
	Topic   eventbus.Topic
	Account string
}

// Relay configures forwarding to an external broker.
type Relay struct {
	Prefix    string
	RedisAddr string
	NATSURL   string
	Jq        string
	QueueSize int
}

// Config is the resolved configuration.
type Config struct {
	Network       websockets.Network
	APIURL        string
	WSURL         string
	APIToken      string
	DialTimeout   time.Duration
	RateLimit     float64
	Subscriptions []Subscription
	Relay         Relay

	evalCtx *hcl.EvalContext
}

// ConfigBuilder provides a fluent interface for loading a Config.
type ConfigBuilder struct {
	logger   *zap.Logger
	sources  []any
	envFiles []string
	lookup   func(string) (string, bool)
	baseDir  string
}

// NewConfig creates a new ConfigBuilder.
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{
		logger:  zap.NewNop(),
		baseDir: ".",
	}
}

func (cb *ConfigBuilder) WithLogger(logger *zap.Logger) *ConfigBuilder {
	if logger != nil {
		cb.logger = logger
	}
	return cb
}

// WithSources adds HCL sources: file paths (string) or file contents ([]byte).
func (cb *ConfigBuilder) WithSources(sources ...any) *ConfigBuilder {
	cb.sources = append(cb.sources, sources...)
	return cb
}

// WithEnvFiles adds .env files. Missing files are skipped.
func (cb *ConfigBuilder) WithEnvFiles(files ...string) *ConfigBuilder {
	cb.envFiles = append(cb.envFiles, files...)
	return cb
}

// WithLookupEnv replaces the process environment. Only the SDKRX_ variables
// and those named in .env files are looked up.
func (cb *ConfigBuilder) WithLookupEnv(lookup func(string) (string, bool)) *ConfigBuilder {
	cb.lookup = lookup
	return cb
}

// WithBaseDir sets the directory the file() function resolves paths against.
func (cb *ConfigBuilder) WithBaseDir(dir string) *ConfigBuilder {
	cb.baseDir = dir
	return cb
}

// Build parses every source in order, later sources overriding earlier ones,
// then applies environment overrides and defaults.
func (cb *ConfigBuilder) Build() (*Config, hcl.Diagnostics) {
	env, diags := loadEnv(cb.envFiles, cb.lookup)
	if diags.HasErrors() {
		return nil, diags
	}

	config := &Config{
		Network:     websockets.Livenet,
		DialTimeout: websockets.DefaultDialTimeout,
		evalCtx: &hcl.EvalContext{
			Functions: GetFunctions(cb.baseDir),
			Variables: map[string]cty.Value{"env": env.object()},
		},
	}

	bodies, addDiags := ParseConfigFiles(cb.sources...)
	diags = diags.Extend(addDiags)
	if diags.HasErrors() {
		return nil, diags
	}

	for _, body := range bodies {
		var def fileDefinition
		addDiags := gohcl.DecodeBody(body, config.evalCtx, &def)
		diags = diags.Extend(addDiags)
		if addDiags.HasErrors() {
			continue
		}
		diags = diags.Extend(config.apply(&def))
	}
	if diags.HasErrors() {
		return nil, diags
	}

	diags = diags.Extend(config.applyEnv(env))
	if diags.HasErrors() {
		return nil, diags
	}

	if config.APIURL == "" {
		config.APIURL = config.Network.APIURL()
	}
	if config.WSURL == "" {
		config.WSURL = config.Network.SubscriptionURL()
	}

	cb.logger.Debug("Loaded configuration",
		zap.String("network", string(config.Network)),
		zap.String("api_url", config.APIURL),
		zap.String("ws_url", config.WSURL),
		zap.Int("subscriptions", len(config.Subscriptions)))

	return config, diags
}

func (c *Config) apply(def *fileDefinition) hcl.Diagnostics {
	var diags hcl.Diagnostics

	if def.Network != nil {
		network, err := websockets.ParseNetwork(*def.Network)
		if err != nil {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid network",
				Detail:   err.Error(),
			})
		}
		c.Network = network
	}
	if def.APIURL != nil {
		c.APIURL = *def.APIURL
	}
	if def.WSURL != nil {
		c.WSURL = *def.WSURL
	}
	if def.APIToken != nil {
		c.APIToken = *def.APIToken
	}
	if IsExpressionProvided(def.DialTimeout) {
		timeout, addDiags := c.ParseDuration(def.DialTimeout)
		diags = diags.Extend(addDiags)
		c.DialTimeout = timeout
	}
	if def.RateLimit != nil {
		c.RateLimit = *def.RateLimit
	}

	for _, sub := range def.Subscriptions {
		topic, err := eventbus.ParseTopic(sub.Topic)
		if err != nil {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid subscription",
				Detail:   err.Error(),
			})
			continue
		}

		s := Subscription{Topic: topic}
		if sub.Account != nil {
			s.Account = *sub.Account
		}
		if topic != eventbus.TopicNewBlock && s.Account == "" {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing account",
				Detail:   fmt.Sprintf("Subscription %q requires an account", topic),
			})
			continue
		}
		c.Subscriptions = append(c.Subscriptions, s)
	}

	if r := def.Relay; r != nil {
		if r.Prefix != nil {
			c.Relay.Prefix = *r.Prefix
		}
		if r.RedisAddr != nil {
			c.Relay.RedisAddr = *r.RedisAddr
		}
		if r.NATSURL != nil {
			c.Relay.NATSURL = *r.NATSURL
		}
		if r.Jq != nil {
			c.Relay.Jq = *r.Jq
		}
		if r.QueueSize != nil {
			c.Relay.QueueSize = *r.QueueSize
		}
	}

	return diags
}

func (c *Config) applyEnv(env environment) hcl.Diagnostics {
	var diags hcl.Diagnostics

	if v, ok := env["SDKRX_NETWORK"]; ok {
		network, err := websockets.ParseNetwork(v)
		if err != nil {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid SDKRX_NETWORK",
				Detail:   err.Error(),
			})
		}
		c.Network = network
	}
	if v, ok := env["SDKRX_API_URL"]; ok {
		c.APIURL = v
	}
	if v, ok := env["SDKRX_WS_URL"]; ok {
		c.WSURL = v
	}
	if v, ok := env["SDKRX_API_TOKEN"]; ok {
		c.APIToken = v
	}
	if v, ok := env["SDKRX_DIAL_TIMEOUT"]; ok {
		timeout, err := parseDurationString(v)
		if err != nil {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid SDKRX_DIAL_TIMEOUT",
				Detail:   err.Error(),
			})
		}
		c.DialTimeout = timeout
	}

	return diags
}

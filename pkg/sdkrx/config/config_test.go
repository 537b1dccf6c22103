package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/eventbus"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "ec6yMcJATX6gjNwvqp8rbc4jNEasoUgbfBBGGyV5NvoJ54NXva"

func lookup(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestConfigDefaults(t *testing.T) {
	config, diags := NewConfig().WithLookupEnv(lookup(nil)).Build()
	require.False(t, diags.HasErrors(), diags.Error())

	assert.Equal(t, websockets.Livenet, config.Network)
	assert.Equal(t, "https://api.bitmark.com", config.APIURL)
	assert.Equal(t, websockets.Livenet.SubscriptionURL(), config.WSURL)
	assert.Equal(t, websockets.DefaultDialTimeout, config.DialTimeout)
	assert.Empty(t, config.Subscriptions)
}

func TestConfigFile(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		src := []byte(`
network      = "testnet"
api_token    = upper("abc")
dial_timeout = "PT10S"
rate_limit   = 5

subscription "new-block" {}

subscription "bitmark-changed" {
  account = "` + account + `"
}

relay {
  prefix     = "bitmark"
  redis_addr = "localhost:6379"
  jq         = "."
  queue_size = 10
}
`)
		config, diags := NewConfig().WithSources(src).WithLookupEnv(lookup(nil)).Build()
		require.False(t, diags.HasErrors(), diags.Error())

		assert.Equal(t, websockets.Testnet, config.Network)
		assert.Equal(t, "https://api.test.bitmark.com", config.APIURL)
		assert.Equal(t, "ABC", config.APIToken)
		assert.Equal(t, 10*time.Second, config.DialTimeout)
		assert.Equal(t, 5.0, config.RateLimit)
		assert.Equal(t, []Subscription{
			{Topic: eventbus.TopicNewBlock},
			{Topic: eventbus.TopicBitmarkChanged, Account: account},
		}, config.Subscriptions)
		assert.Equal(t, Relay{Prefix: "bitmark", RedisAddr: "localhost:6379", Jq: ".", QueueSize: 10}, config.Relay)
	})

	t.Run("numeric and go durations", func(t *testing.T) {
		config, diags := NewConfig().WithSources([]byte(`dial_timeout = 3`)).WithLookupEnv(lookup(nil)).Build()
		require.False(t, diags.HasErrors(), diags.Error())
		assert.Equal(t, 3*time.Second, config.DialTimeout)

		config, diags = NewConfig().WithSources([]byte(`dial_timeout = "1m30s"`)).WithLookupEnv(lookup(nil)).Build()
		require.False(t, diags.HasErrors(), diags.Error())
		assert.Equal(t, 90*time.Second, config.DialTimeout)
	})

	t.Run("later sources override earlier ones", func(t *testing.T) {
		config, diags := NewConfig().
			WithSources([]byte(`network = "testnet"`), []byte(`ws_url = "ws://localhost:8000/ws"`)).
			WithLookupEnv(lookup(nil)).
			Build()
		require.False(t, diags.HasErrors(), diags.Error())
		assert.Equal(t, websockets.Testnet, config.Network)
		assert.Equal(t, "ws://localhost:8000/ws", config.WSURL)
	})

	t.Run("file from disk and file function", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "token.txt"), []byte("secret\n"), 0o600))
		path := filepath.Join(dir, "sdkrx.hcl")
		require.NoError(t, os.WriteFile(path, []byte(`api_token = trimspace(file("token.txt"))`), 0o600))

		config, diags := NewConfig().WithSources(path).WithBaseDir(dir).WithLookupEnv(lookup(nil)).Build()
		require.False(t, diags.HasErrors(), diags.Error())
		assert.Equal(t, "secret", config.APIToken)
	})

	t.Run("errors", func(t *testing.T) {
		cases := map[string]string{
			"unknown network":   `network = "moonnet"`,
			"unknown topic":     `subscription "old-block" {}`,
			"missing account":   `subscription "new-pending-tx" {}`,
			"bad duration":      `dial_timeout = "soon"`,
			"negative duration": `dial_timeout = -1`,
			"unknown attribute": `colour = "blue"`,
			"syntax":            `network = `,
			"undefined env":     `api_token = env.NOPE`,
		}
		for name, src := range cases {
			t.Run(name, func(t *testing.T) {
				_, diags := NewConfig().WithSources([]byte(src)).WithLookupEnv(lookup(nil)).Build()
				assert.True(t, diags.HasErrors())
			})
		}

		_, diags := NewConfig().WithSources("/does/not/exist.hcl").WithLookupEnv(lookup(nil)).Build()
		assert.True(t, diags.HasErrors())

		_, diags = NewConfig().WithSources(42).WithLookupEnv(lookup(nil)).Build()
		assert.True(t, diags.HasErrors())
	})
}

func TestConfigEnv(t *testing.T) {
	t.Run("environment overrides the file", func(t *testing.T) {
		config, diags := NewConfig().
			WithSources([]byte(`
network   = "livenet"
api_token = "from-file"
`)).
			WithLookupEnv(lookup(map[string]string{
				"SDKRX_NETWORK":      "testnet",
				"SDKRX_API_TOKEN":    "from-env",
				"SDKRX_DIAL_TIMEOUT": "2s",
				"SDKRX_API_URL":      "http://localhost:8087",
			})).
			Build()
		require.False(t, diags.HasErrors(), diags.Error())

		assert.Equal(t, websockets.Testnet, config.Network)
		assert.Equal(t, "from-env", config.APIToken)
		assert.Equal(t, 2*time.Second, config.DialTimeout)
		assert.Equal(t, "http://localhost:8087", config.APIURL)
		assert.Equal(t, websockets.Testnet.SubscriptionURL(), config.WSURL)
	})

	t.Run("env files feed the env object and overrides", func(t *testing.T) {
		dir := t.TempDir()
		envFile := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("BITMARK_API_TOKEN=dotenv-token\nSDKRX_WS_URL=ws://dotenv\n"), 0o600))

		config, diags := NewConfig().
			WithSources([]byte(`api_token = env.BITMARK_API_TOKEN`)).
			WithEnvFiles(envFile, filepath.Join(dir, "missing.env")).
			WithLookupEnv(lookup(map[string]string{"SDKRX_WS_URL": "ws://process"})).
			Build()
		require.False(t, diags.HasErrors(), diags.Error())

		assert.Equal(t, "dotenv-token", config.APIToken)
		assert.Equal(t, "ws://process", config.WSURL)
	})

	t.Run("invalid env values", func(t *testing.T) {
		_, diags := NewConfig().WithLookupEnv(lookup(map[string]string{"SDKRX_NETWORK": "x"})).Build()
		assert.True(t, diags.HasErrors())

		_, diags = NewConfig().WithLookupEnv(lookup(map[string]string{"SDKRX_DIAL_TIMEOUT": "x"})).Build()
		assert.True(t, diags.HasErrors())
	})
}

func TestSanitizeEnvVarName(t *testing.T) {
	assert.Equal(t, "_", sanitizeEnvVarName(""))
	assert.Equal(t, "HOME", sanitizeEnvVarName("HOME"))
	assert.Equal(t, "_1ABC", sanitizeEnvVarName("1ABC"))
	assert.Equal(t, "A_B-1", sanitizeEnvVarName("A.B-1"))
}

// Package wsauth obtains subscription connection tokens from the Bitmark API.
package wsauth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets/client"
	"go.uber.org/zap"
)

const registerPath = "/v3/ws-auth"

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("ws-auth: http %d: %s", e.StatusCode, e.Body)
}

// Registrar registers a key pair for WebSocket access and returns the token
// the subscription server expects in the connect command.
type Registrar struct {
	apiURL     string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

var _ client.TokenProvider = (*Registrar)(nil)

// NewRegistrar creates a Registrar for the API at apiURL. apiToken may be empty.
func NewRegistrar(apiURL, apiToken string) *Registrar {
	return &Registrar{
		apiURL:     strings.TrimRight(apiURL, "/"),
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
		now:        time.Now,
	}
}

// WithHTTPClient replaces the HTTP client.
func (r *Registrar) WithHTTPClient(httpClient *http.Client) *Registrar {
	if httpClient != nil {
		r.httpClient = httpClient
	}
	return r
}

// WithLogger sets the logger.
func (r *Registrar) WithLogger(logger *zap.Logger) *Registrar {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// SignableMessage is the message signed to register account at timestamp (unix millis).
func SignableMessage(account string, timestamp int64) []byte {
	return []byte(fmt.Sprintf("register|websocket|%s|%d", account, timestamp))
}

// Token implements client.TokenProvider
func (r *Registrar) Token(ctx context.Context, keyPair sdk.KeyPair) (string, error) {
	if keyPair == nil {
		return "", fmt.Errorf("ws-auth: key pair is required")
	}

	account := keyPair.AccountNumber()
	timestamp := r.now().UnixMilli()
	signature, err := keyPair.Sign(SignableMessage(account, timestamp))
	if err != nil {
		return "", fmt.Errorf("ws-auth: sign: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+registerPath, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("ws-auth: new request: %w", err)
	}
	req.Header.Set("requester", account)
	req.Header.Set("timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("signature", hex.EncodeToString(signature))
	if r.apiToken != "" {
		req.Header.Set("api-token", r.apiToken)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ws-auth: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		r.logger.Warn("WebSocket token registration rejected",
			zap.String("account", account),
			zap.Int("status", resp.StatusCode))
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ws-auth: decode response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("ws-auth: response has no token")
	}

	r.logger.Debug("Registered WebSocket token", zap.String("account", account))
	return out.Token, nil
}

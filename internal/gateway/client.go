// Package gateway is the HTTP client for the remote trading API. It owns the
// bearer token, the retry policy and the translation of remote error bodies
// into *RemoteError values.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hesiyuetian/mm-mcp/internal/common"
	"github.com/hesiyuetian/mm-mcp/internal/strategy"
)

// RemoteError is a non-2xx response from the trading API, carrying the
// message the remote chose to expose.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Client talks to the remote trading API. Every request is retried up to
// Retries additional times with a linearly growing delay; the error of the
// final attempt is returned as-is.
//
// SetToken is called from the login handler only; requests read the token
// without locking under the same single-writer discipline as the session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	token      string
	logger     *common.Logger
}

// NewClient creates a Client from the API section of the configuration.
func NewClient(cfg common.APIConfig, logger *common.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		retries:    cfg.Retries,
		retryDelay: time.Second,
		logger:     logger,
	}
}

// SetToken installs the bearer token used on all subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates against the remote API. A response without an access
// token is returned to the caller for inspection, not treated as an error.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := c.request(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	return &result, nil
}

// GetProjects returns the caller's projects, filtered to active ones.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	body, err := c.request(ctx, http.MethodGet, "/project/getProjects", nil, nil)
	if err != nil {
		return nil, err
	}

	var projects []Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse projects response: %w", err)
	}

	active := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == "active" {
			active = append(active, p)
		}
	}
	return active, nil
}

// GetTokens returns one page of a project's tokens, each annotated with its
// derived trading type.
func (c *Client) GetTokens(ctx context.Context, projectID string, page, limit int) ([]Token, error) {
	query := url.Values{}
	query.Set("projectId", projectID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("status", "active")

	body, err := c.request(ctx, http.MethodGet, "/token/getTokens", nil, query)
	if err != nil {
		return nil, err
	}

	var resp tokensResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse tokens response: %w", err)
	}

	for i := range resp.Items {
		if resp.Items[i].PoolType == "pump" {
			resp.Items[i].TradingType = strategy.TradingTypeInside
		} else {
			resp.Items[i].TradingType = strategy.TradingTypeOutside
		}
	}
	return resp.Items, nil
}

// GetWallets returns one page of a project's wallets, filtered by intended
// trade direction: buying needs a funded wallet, selling additionally needs
// token holdings.
func (c *Client) GetWallets(ctx context.Context, projectID, tokenID, side string, page, limit int) ([]Wallet, error) {
	query := url.Values{}
	query.Set("projectId", projectID)
	query.Set("tokenId", tokenID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.request(ctx, http.MethodGet, "/wallet/getWallets", nil, query)
	if err != nil {
		return nil, err
	}

	var resp walletsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse wallets response: %w", err)
	}

	usable := make([]Wallet, 0, len(resp.Items))
	for _, w := range resp.Items {
		switch side {
		case strategy.SideSell:
			if w.Balance > 0 && w.TokenBalance > 0 {
				usable = append(usable, w)
			}
		default:
			if w.Balance > 0 {
				usable = append(usable, w)
			}
		}
	}
	return usable, nil
}

// CreateStrategy submits a normalized strategy-creation request.
func (c *Client) CreateStrategy(ctx context.Context, req *strategy.Request) (*OpResult, error) {
	body, err := c.request(ctx, http.MethodPost, "/strategy/createStrategy", req, nil)
	if err != nil {
		return nil, err
	}
	return parseOpResult(body)
}

// GetStrategies returns one page of a project's strategies.
func (c *Client) GetStrategies(ctx context.Context, projectID string, page, limit int) ([]Strategy, error) {
	query := url.Values{}
	query.Set("projectId", projectID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.request(ctx, http.MethodGet, "/strategy/getStrategies", nil, query)
	if err != nil {
		return nil, err
	}

	var resp strategiesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse strategies response: %w", err)
	}
	if resp.Items != nil {
		return resp.Items, nil
	}
	return resp.Strategies, nil
}

// DeleteStrategy removes a strategy by id.
func (c *Client) DeleteStrategy(ctx context.Context, strategyID string) (*OpResult, error) {
	body, err := c.request(ctx, http.MethodPost, "/strategy/deleteStrategy", map[string]string{
		"strategyId": strategyID,
	}, nil)
	if err != nil {
		return nil, err
	}
	return parseOpResult(body)
}

func parseOpResult(body []byte) (*OpResult, error) {
	var result OpResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// request runs one API call through the retry loop. Attempt n waits
// n*retryDelay before running; the delay honors context cancellation. The
// final attempt's error is returned without wrapping so callers can inspect
// *RemoteError values.
func (c *Client) request(ctx context.Context, method, path string, data interface{}, query url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			c.logger.Warn().
				Err(lastErr).
				Str("path", path).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("API Request Retrying")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		body, err := c.do(ctx, method, path, data, query)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// do performs a single HTTP attempt.
func (c *Client) do(ctx context.Context, method, path string, data interface{}, query url.Values) ([]byte, error) {
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("API Request")

	var bodyReader io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Dur("duration", duration).Msg("API Request Failed")
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("API Response")

	if resp.StatusCode >= 400 {
		return nil, remoteError(resp.StatusCode, body)
	}

	return body, nil
}

// remoteError extracts the remote's message or error field when present.
func remoteError(status int, body []byte) *RemoteError {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &errResp) == nil {
		msg = errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
	}
	return &RemoteError{Status: status, Message: msg}
}

package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hesiyuetian/mm-mcp/internal/common"
	"github.com/hesiyuetian/mm-mcp/internal/gateway"
	"github.com/hesiyuetian/mm-mcp/internal/session"
)

func testLogger() *common.Logger {
	return common.NewLoggerFromConfig(common.LoggingConfig{
		Level:   "error", // minimal logging
		Outputs: []string{"console"},
		Format:  "json",
	})
}

func newTestToolset(url string) *Toolset {
	cfg := common.NewDefaultConfig()
	cfg.API.BaseURL = url
	cfg.API.Timeout = "5s"
	cfg.API.Retries = 0
	logger := testLogger()
	return NewToolset(gateway.NewClient(cfg.API, logger), session.New(), cfg, logger)
}

func loggedIn(ts *Toolset) *Toolset {
	ts.session.Establish("tok-1", nil)
	ts.api.SetToken("tok-1")
	return ts
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	return result.Content[0].(mcp.TextContent).Text
}

// --- login ---

func TestHandleLogin_EstablishesSession(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"accessToken": "tok-abc",
				"user":        map[string]string{"email": "trader@example.com"},
			})
		case "/project/getProjects":
			// Subsequent calls must carry the bearer token from login.
			if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
				t.Errorf("Expected Authorization 'Bearer tok-abc', got %q", got)
			}
			json.NewEncoder(w).Encode([]gateway.Project{{ID: "p1", Status: "active"}})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer mockServer.Close()

	ts := newTestToolset(mockServer.URL)

	result, err := handleLogin(ts)(context.Background(), callRequest(map[string]interface{}{
		"email":    "trader@example.com",
		"password": "secret",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
	if !ts.session.Authenticated() {
		t.Error("Expected session to be authenticated after login")
	}

	result, err = handleGetProjects(ts)(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
}

func TestHandleLogin_InvalidEmail(t *testing.T) {
	ts := newTestToolset("http://localhost:1")

	result, err := handleLogin(ts)(context.Background(), callRequest(map[string]interface{}{
		"email":    "not-an-email",
		"password": "secret",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for invalid email")
	}
	if ts.session.Authenticated() {
		t.Error("Session must not be established on validation failure")
	}
}

func TestHandleLogin_RejectedCredentials(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer mockServer.Close()

	ts := newTestToolset(mockServer.URL)
	result, err := handleLogin(ts)(context.Background(), callRequest(map[string]interface{}{
		"email":    "trader@example.com",
		"password": "wrong",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result for rejected credentials")
	}
	if text := resultText(t, result); !strings.Contains(text, "invalid credentials") {
		t.Errorf("Expected remote message in result, got %q", text)
	}
	if ts.session.Authenticated() {
		t.Error("Session must not be established on rejected credentials")
	}
}

// --- auth gate ---

func TestHandlers_RequireLogin(t *testing.T) {
	var calls atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer mockServer.Close()

	ts := newTestToolset(mockServer.URL)

	cases := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
	}{
		{"getProjects", handleGetProjects(ts), nil},
		{"getTokens", handleGetTokens(ts), map[string]interface{}{"projectId": "p1"}},
		{"getWallets", handleGetWallets(ts), map[string]interface{}{"projectId": "p1", "tokenId": "t1", "side": "buy", "strategyType": "PRICE_BASED"}},
		{"createPriceStrategy", handleCreateStrategy(ts, priceStrategySpec), map[string]interface{}{"tokenId": "t1"}},
		{"getStrategies", handleGetStrategies(ts), map[string]interface{}{"projectId": "p1"}},
		{"deleteStrategy", handleDeleteStrategy(ts), map[string]interface{}{"strategyId": "s1"}},
	}

	for _, tc := range cases {
		result, err := tc.handler(context.Background(), callRequest(tc.args))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !result.IsError {
			t.Errorf("%s: expected error result before login", tc.name)
		}
		if text := resultText(t, result); !strings.Contains(text, "please log in") {
			t.Errorf("%s: expected 'please log in' in result, got %q", tc.name, text)
		}
	}

	if got := calls.Load(); got != 0 {
		t.Errorf("Expected no HTTP calls before login, got %d", got)
	}
}

// --- getTokens / getWallets ---

func TestHandleGetTokens_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]string{{"id": "t1", "symbol": "AAA", "poolType": "pump"}},
		})
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	result, err := handleGetTokens(ts)(context.Background(), callRequest(map[string]interface{}{
		"projectId": "p1",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
	if text := resultText(t, result); !strings.Contains(text, "inside") {
		t.Errorf("Expected tradingType annotation in result, got %q", text)
	}
}

func TestHandleGetTokens_BadPagination(t *testing.T) {
	ts := loggedIn(newTestToolset("http://localhost:1"))
	result, err := handleGetTokens(ts)(context.Background(), callRequest(map[string]interface{}{
		"projectId": "p1",
		"page":      0,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for page 0")
	}
}

func TestHandleGetWallets_LimitCap(t *testing.T) {
	ts := loggedIn(newTestToolset("http://localhost:1"))
	result, err := handleGetWallets(ts)(context.Background(), callRequest(map[string]interface{}{
		"projectId":    "p1",
		"tokenId":      "t1",
		"side":         "buy",
		"strategyType": "PRICE_BASED",
		"limit":        200000,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for limit above the wallet cap")
	}
}

func TestHandleGetWallets_SellFilter(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": "w1", "balance": 1, "tokenBalance": 0},
				{"id": "w2", "balance": 1, "tokenBalance": 3},
			},
		})
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	result, err := handleGetWallets(ts)(context.Background(), callRequest(map[string]interface{}{
		"projectId":    "p1",
		"tokenId":      "t1",
		"side":         "sell",
		"strategyType": "TIME_BASED",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "w2") || strings.Contains(text, "w1") {
		t.Errorf("Expected only w2 in sell wallets, got %q", text)
	}
}

// --- strategy creation ---

func TestHandleCreatePriceStrategy_Payload(t *testing.T) {
	var payload map[string]interface{}
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("Request body is not valid JSON: %v", err)
		}
		json.NewEncoder(w).Encode(gateway.OpResult{Success: true, Message: "created"})
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	result, err := handleCreateStrategy(ts, priceStrategySpec)(context.Background(), callRequest(map[string]interface{}{
		"tokenId":     "t1",
		"side":        "buy",
		"tradingType": "inside",
		"targetPrice": 0.5,
		"walletIds":   []interface{}{"w1", "w2"},
		"amountType":  "fixed",
		"amount":      0.1,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}

	if payload["type"] != "PRICE_BASED" || payload["name"] != "PRICE_BASED" {
		t.Errorf("Expected PRICE_BASED name and type, got %v/%v", payload["name"], payload["type"])
	}
	cfg := payload["config"].(map[string]interface{})
	// Default intervals: 1s and 2s, sent as milliseconds.
	if cfg["minInterval"] != float64(1000) || cfg["maxInterval"] != float64(2000) {
		t.Errorf("Expected 1000/2000 ms intervals, got %v/%v", cfg["minInterval"], cfg["maxInterval"])
	}
	if cfg["targetPrice"] != 0.5 {
		t.Errorf("Expected targetPrice 0.5, got %v", cfg["targetPrice"])
	}
	if cfg["priceThresholdPercent"] != float64(0) {
		t.Errorf("Expected priceThresholdPercent 0, got %v", cfg["priceThresholdPercent"])
	}
	if cfg["tipAmount"] != 0.001 {
		t.Errorf("Expected default tipAmount 0.001, got %v", cfg["tipAmount"])
	}
	// Inside venue: slippage must not be forwarded.
	if _, ok := cfg["slippageBps"]; ok {
		t.Error("Expected no slippageBps for inside trading")
	}
	if _, ok := cfg["executeAt"]; ok {
		t.Error("Expected no executeAt for price strategies")
	}
}

func TestHandleCreateStrategy_OwnTags(t *testing.T) {
	var types []string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Type string `json:"type"`
		}
		json.Unmarshal(body, &payload)
		types = append(types, payload.Type)
		json.NewEncoder(w).Encode(gateway.OpResult{Success: true})
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	args := map[string]interface{}{
		"tokenId":     "t1",
		"side":        "sell",
		"tradingType": "outside",
		"executeAt":   "2027-03-01 10:00:00",
		"walletIds":   []interface{}{"w1"},
		"amountType":  "range",
		"minRatio":    10,
		"maxRatio":    50,
	}

	for _, spec := range []strategySpec{timeStrategySpec, marketManipulationSpec, portfolioExchangeSpec} {
		result, err := handleCreateStrategy(ts, spec)(context.Background(), callRequest(args))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", spec.label, err)
		}
		if result.IsError {
			t.Fatalf("%s: expected success, got error: %v", spec.label, result.Content)
		}
	}

	want := []string{"TIME_BASED", "MARKET_MANIPULATION", "PORTFOLIO_EXCHANGE"}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("Expected type %s at call %d, got %s", w, i, types[i])
		}
	}
}

func TestHandleCreateStrategy_EmptyWallets(t *testing.T) {
	var calls atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	result, err := handleCreateStrategy(ts, priceStrategySpec)(context.Background(), callRequest(map[string]interface{}{
		"tokenId":     "t1",
		"side":        "buy",
		"tradingType": "inside",
		"targetPrice": 0.5,
		"walletIds":   []interface{}{},
		"amountType":  "fixed",
		"amount":      0.1,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result for empty wallet list")
	}
	if text := resultText(t, result); !strings.Contains(text, "wallet id list must not be empty") {
		t.Errorf("Expected wallet list message, got %q", text)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("Expected no HTTP calls on validation failure, got %d", got)
	}
}

func TestHandleCreateBundleSwap_SameWallet(t *testing.T) {
	ts := loggedIn(newTestToolset("http://localhost:1"))
	result, err := handleCreateStrategy(ts, bundleSwapSpec)(context.Background(), callRequest(map[string]interface{}{
		"tokenId":        "t1",
		"tradingType":    "inside",
		"buyWalletId":    "w1",
		"sellWalletId":   "w1",
		"minTradeAmount": 0.1,
		"maxTradeAmount": 0.5,
		"maxCycles":      3,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result when buy and sell wallet match")
	}
	if text := resultText(t, result); !strings.Contains(text, "must differ") {
		t.Errorf("Expected wallet-distinctness message, got %q", text)
	}
}

func TestHandleCreateBundleSwap_Payload(t *testing.T) {
	var payload map[string]interface{}
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		json.NewEncoder(w).Encode(gateway.OpResult{Success: true})
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	result, err := handleCreateStrategy(ts, bundleSwapSpec)(context.Background(), callRequest(map[string]interface{}{
		"tokenId":        "t1",
		"tradingType":    "outside",
		"buyWalletId":    "w1",
		"sellWalletId":   "w2",
		"minTradeAmount": 0.1,
		"maxTradeAmount": 0.5,
		"maxCycles":      3,
		"slippageBps":    250,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}

	if payload["type"] != "BUNDLE_SWAP" {
		t.Errorf("Expected type BUNDLE_SWAP, got %v", payload["type"])
	}
	cfg := payload["config"].(map[string]interface{})
	if cfg["wallet1Id"] != "w1" || cfg["wallet2Id"] != "w2" {
		t.Errorf("Expected wallet1Id=w1 wallet2Id=w2, got %v/%v", cfg["wallet1Id"], cfg["wallet2Id"])
	}
	if cfg["maxCycles"] != float64(3) {
		t.Errorf("Expected maxCycles 3, got %v", cfg["maxCycles"])
	}
	// Outside venue: the explicit slippage is forwarded.
	if cfg["slippageBps"] != float64(250) {
		t.Errorf("Expected slippageBps 250, got %v", cfg["slippageBps"])
	}
	// No executeAt given: runs immediately.
	if _, ok := cfg["executeAt"]; ok {
		t.Error("Expected no executeAt when not scheduled")
	}
	if _, ok := cfg["walletIds"]; ok {
		t.Error("Expected no walletIds for bundle swaps")
	}
}

func TestHandleCreateStrategy_RemoteFailure(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gateway.OpResult{Success: false, Message: "insufficient funds"})
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	result, err := handleCreateStrategy(ts, priceStrategySpec)(context.Background(), callRequest(map[string]interface{}{
		"tokenId":     "t1",
		"side":        "buy",
		"tradingType": "inside",
		"targetPrice": 0.5,
		"walletIds":   []interface{}{"w1"},
		"amountType":  "fixed",
		"amount":      0.1,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result for remote failure")
	}
	if text := resultText(t, result); !strings.Contains(text, "insufficient funds") {
		t.Errorf("Expected remote message in result, got %q", text)
	}
}

// --- deleteStrategy ---

func TestHandleDeleteStrategy_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gateway.OpResult{Success: true})
	}))
	defer mockServer.Close()

	ts := loggedIn(newTestToolset(mockServer.URL))
	result, err := handleDeleteStrategy(ts)(context.Background(), callRequest(map[string]interface{}{
		"strategyId": "s1",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
	if text := resultText(t, result); !strings.Contains(text, "s1") {
		t.Errorf("Expected strategy id in result, got %q", text)
	}
}

func TestHandleDeleteStrategy_MissingID(t *testing.T) {
	ts := loggedIn(newTestToolset("http://localhost:1"))
	result, err := handleDeleteStrategy(ts)(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for missing strategy id")
	}
}

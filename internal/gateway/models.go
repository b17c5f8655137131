package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Balance accepts either a JSON number or a numeric string; the remote API
// serializes wallet balances both ways.
type Balance float64

func (b *Balance) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*b = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid balance %q", s)
	}
	*b = Balance(v)
	return nil
}

func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(b))
}

func (b Balance) Float64() float64 {
	return float64(b)
}

// LoginResult is the response of POST /auth/login. A missing AccessToken
// with a populated Message is a handled failure, not a transport error.
type LoginResult struct {
	AccessToken string          `json:"accessToken"`
	User        json.RawMessage `json:"user"`
	Message     string          `json:"message"`
}

// Project is one entry of GET /project/getProjects.
type Project struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Token is one entry of GET /token/getTokens. TradingType is not a remote
// field: it is derived locally from PoolType ("pump" pools trade inside,
// everything else outside).
type Token struct {
	ID          string `json:"id"`
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	PoolType    string `json:"poolType"`
	TradingType string `json:"tradingType,omitempty"`
}

// Wallet is one entry of GET /wallet/getWallets. Balances are in SOL and
// token units respectively.
type Wallet struct {
	ID           string  `json:"id"`
	Address      string  `json:"address"`
	Name         string  `json:"name,omitempty"`
	Tag          string  `json:"tag,omitempty"`
	Balance      Balance `json:"balance"`
	TokenBalance Balance `json:"tokenBalance"`
}

// Strategy is one entry of GET /strategy/getStrategies.
type Strategy struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	TokenID   string `json:"tokenId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// OpResult is the remote's envelope for write operations.
type OpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type tokensResponse struct {
	Items []Token `json:"items"`
}

type walletsResponse struct {
	Items []Wallet `json:"items"`
}

// strategiesResponse tolerates both list keys the remote has used.
type strategiesResponse struct {
	Items      []Strategy `json:"items"`
	Strategies []Strategy `json:"strategies"`
}

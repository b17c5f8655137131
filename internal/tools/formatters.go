package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hesiyuetian/mm-mcp/internal/gateway"
	"github.com/hesiyuetian/mm-mcp/internal/strategy"
)

// jsonBlock renders a value as a fenced JSON block.
func jsonBlock(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return "```json\n" + string(data) + "\n```"
}

func formatLogin(result *gateway.LoginResult) string {
	var b strings.Builder
	b.WriteString("Login successful.")
	if len(result.User) > 0 {
		b.WriteString("\n\nUser:\n")
		b.WriteString(jsonBlock(result.User))
	}
	return b.String()
}

func formatProjects(projects []gateway.Project) string {
	if len(projects) == 0 {
		return "No active projects found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d active project(s):\n\n", len(projects))
	b.WriteString(jsonBlock(projects))
	return b.String()
}

func formatTokens(tokens []gateway.Token) string {
	if len(tokens) == 0 {
		return "No active tokens found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d token(s). tradingType 'inside' trades on the bonding curve; 'outside' trades on external pools and needs slippage.\n\n", len(tokens))
	b.WriteString(jsonBlock(tokens))
	return b.String()
}

func formatWallets(wallets []gateway.Wallet, side string) string {
	if len(wallets) == 0 {
		if side == strategy.SideSell {
			return "No wallets usable for selling: none holds both SOL and the token."
		}
		return "No wallets usable for buying: none has a SOL balance."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d wallet(s) usable for %s:\n\n", len(wallets), side)
	b.WriteString(jsonBlock(wallets))
	return b.String()
}

func formatCreated(label string, req *strategy.Request, result *gateway.OpResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s created.", label)
	if result.Message != "" {
		fmt.Fprintf(&b, " %s", result.Message)
	}
	b.WriteString("\n\nSubmitted payload:\n")
	b.WriteString(jsonBlock(req))
	return b.String()
}

func formatStrategies(strategies []gateway.Strategy) string {
	if len(strategies) == 0 {
		return "No strategies found."
	}
	var b strings.Builder
	if len(strategies) == 1 {
		b.WriteString("Found 1 strategy:\n\n")
	} else {
		fmt.Fprintf(&b, "Found %d strategies:\n\n", len(strategies))
	}
	b.WriteString(jsonBlock(strategies))
	return b.String()
}

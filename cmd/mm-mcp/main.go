package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hesiyuetian/mm-mcp/internal/common"
	"github.com/hesiyuetian/mm-mcp/internal/gateway"
	"github.com/hesiyuetian/mm-mcp/internal/session"
	"github.com/hesiyuetian/mm-mcp/internal/tools"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", "mm-mcp.toml", "Path to config file")
	flag.Parse()

	// Optional .env next to the binary; real env vars win.
	_ = godotenv.Load()

	cfg, err := common.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("version", common.GetVersion()).
		Str("api_url", cfg.API.BaseURL).
		Msg("Starting mm-mcp")

	api := gateway.NewClient(cfg.API, logger)
	sess := session.New()

	registry := tools.NewRegistry(logger)
	tools.RegisterAll(registry, tools.NewToolset(api, sess, cfg, logger))

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	registry.AttachTo(mcpServer)

	if *stdio {
		// Stdio transport reads stdin and writes stdout; logs go to stderr.
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("port", port).Msg("Starting MCP Streamable HTTP")
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}

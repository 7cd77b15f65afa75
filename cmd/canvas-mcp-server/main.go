package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/config"
	"canvas-reminder/internal/mcptools"
	"canvas-reminder/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	// stdout carries the MCP protocol.
	log.SetOutput(os.Stderr)

	cfg := config.New()
	log.Printf("🚀 Starting Canvas MCP Server for %s", cfg.CanvasBaseURL)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "canvas-reminder-mcp",
		Version: "1.0.0",
	}, nil)

	client := canvas.NewClient(cfg.CanvasBaseURL, cfg.CanvasAPIToken)
	tools := mcptools.New(client, cfg.Location())
	if cfg.DeliveryLogPath != "" {
		j, err := storage.NewFileJournal(cfg.DeliveryLogPath)
		if err != nil {
			log.Printf("⚠️ Delivery journal unavailable: %v", err)
		} else {
			tools.SetJournal(j)
		}
	}
	mcptools.Register(server, tools)

	log.Printf("🔗 Starting server on stdin/stdout...")
	if err := server.Run(context.Background(), mcp.NewStdioTransport()); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"techgear-support-be/internal/bootstrap"
	"techgear-support-be/internal/config"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/database"

	"github.com/fatih/color"
)

var demoQueries = []string{
	"What is the price of SmartWatch Pro X?",
	"Tell me about the warranty",
	"How do I return a product?",
	"What are your customer support hours?",
	"I want a refund for my defective product",
}

func main() {
	ctx := context.Background()
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	db, err := database.NewGormDB(database.GormConfig{
		DSN:      cfg.Database.Connection,
		LogLevel: "silent",
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	embeddingProvider, err := bootstrap.NewEmbeddingProvider(cfg, sysLogger)
	if err != nil {
		log.Fatalf("Failed to build embedding provider: %v", err)
	}
	engine, err := bootstrap.NewEngine(ctx, db, cfg, embeddingProvider, sysLogger)
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	rule := strings.Repeat("=", 70)
	bold := color.New(color.Bold)
	bold.Println(rule)
	bold.Println("🤖 CUSTOMER SUPPORT CHATBOT - WORKFLOW DEMO")
	bold.Println(rule)
	fmt.Printf("\n📝 Testing %d queries:\n", len(demoQueries))

	for i, query := range demoQueries {
		fmt.Printf("\n%s\nQuery %d/%d: %s\n%s\n", rule, i+1, len(demoQueries), color.CyanString(query), rule)

		state := engine.Run(ctx, query, "")

		route := color.GreenString("RAG")
		if state.NeedsEscalation {
			route = color.YellowString("Escalation")
		}
		fmt.Println(state.FinalResponse)
		fmt.Println(strings.Repeat("─", 70))
		fmt.Printf("  Category: %s\n", color.MagentaString(string(state.ClassifiedCategory)))
		fmt.Printf("  Confidence: %.2f\n", state.ConfidenceScore)
		fmt.Printf("  Route: %s\n", route)
		fmt.Printf("  Response Length: %d chars\n", len(state.FinalResponse))
		if errType, ok := state.Metadata["error_type"]; ok {
			color.Red("  Degraded: %v", errType)
		}
	}

	fmt.Println()
	color.Green("✅ DEMO COMPLETE")
}

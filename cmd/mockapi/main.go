package main

import (
	"log"

	"github.com/frontdeskhq/console/internal/mockapi"
	"github.com/frontdeskhq/console/internal/shared/config"
)

func main() {
	cfg := config.LoadConfig()
	log.Printf("🚀 Starting mockapi on port %s", cfg.MockPort)

	store, err := mockapi.OpenStore(cfg.MockDBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer store.Close()

	if err := mockapi.Seed(store); err != nil {
		log.Fatalf("❌ Failed to seed demo data: %v", err)
	}

	tokens := mockapi.NewTokenService(cfg.MockJWTSecret)
	sim := mockapi.NewSimulator(cfg.OpenAIKey)
	if cfg.OpenAIKey != "" {
		log.Printf("🤖 Call simulation uses the live model")
	} else {
		log.Printf("📼 Call simulation uses canned scripts (set OPENAI_API_KEY for live)")
	}

	app := mockapi.NewApp(store, tokens, sim)

	log.Printf("✅ mockapi running at :%s (sign in with %s / %s)", cfg.MockPort, mockapi.DemoEmail, mockapi.DemoPassword)
	log.Fatal(app.Listen(":" + cfg.MockPort))
}

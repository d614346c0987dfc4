package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "quote-engine/internal/adapters/web"
	"quote-engine/internal/ai"
	"quote-engine/internal/app"
	"quote-engine/internal/core"
	"quote-engine/internal/db"
	"quote-engine/internal/pricing"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	companyService := core.NewCompanyService(pool)
	templateService := core.NewTemplateService(pool)
	materialService := core.NewMaterialService(pool)
	optionService := core.NewOptionService(pool)
	quoteService := core.NewQuoteService(pool)

	engine := pricing.NewEngine(log.Default())

	var agent *ai.Agent
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set, quote intake drafting is disabled")
	}

	svc := app.NewAppService(pool, companyService, templateService, materialService, optionService, quoteService, engine, agent)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}

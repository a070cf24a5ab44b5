package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"edabot/internal/agent"
	"edabot/internal/eda"
	"edabot/internal/intent"
	"edabot/internal/llm"
	"edabot/internal/memory"
	"edabot/internal/session"
)

func main() {
	cfg := LoadConfig()

	store, err := memory.OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer store.Close()

	sessions := session.NewManager(time.Duration(cfg.SessionTTLMinutes)*time.Minute, store)
	StartSweepScheduler(cfg, sessions)

	var glossary *intent.Glossary
	if cfg.GlossaryPath != "" {
		glossary, err = intent.LoadGlossary(cfg.GlossaryPath)
		if err != nil {
			log.Printf("Glossary skipped: %v", err)
			glossary = nil
		}
	}

	router := llm.NewRouter(
		buildSoftClassifier(cfg),
		glossary,
		time.Duration(cfg.LLMTimeoutSecs)*time.Second,
		cfg.LLMCallsPerMin,
	)
	responder := agent.New(router, eda.ClusterOptions{
		K:         cfg.ClusterK,
		SampleCap: cfg.ClusterSampleCap,
		Seed:      cfg.ClusterSeed,
	})

	srv := NewServer(cfg, sessions, responder)

	log.Printf("Starting EDA assistant on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Routes()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildSoftClassifier picks the configured provider, or none. The keyword
// classifier always remains authoritative, so a misconfigured provider just
// logs and disables the soft path.
func buildSoftClassifier(cfg Config) llm.Classifier {
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Println("Soft classifier disabled: anthropic_api_key not set")
			return nil
		}
		log.Printf("Soft classifier: provider=anthropic model=%s", cfg.LLMModel)
		return llm.NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.LLMModel)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Println("Soft classifier disabled: openai_api_key not set")
			return nil
		}
		log.Printf("Soft classifier: provider=openai model=%s", cfg.LLMModel)
		return llm.NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.LLMModel)
	case "gemini":
		c, err := llm.NewGeminiClassifier(context.Background(), cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("Soft classifier disabled: %v", err)
			return nil
		}
		log.Printf("Soft classifier: provider=gemini model=%s", cfg.LLMModel)
		return c
	case "":
		log.Println("Soft classifier disabled (llm_provider not set)")
		return nil
	default:
		log.Printf("Unknown llm_provider '%s', soft classifier disabled", cfg.LLMProvider)
		return nil
	}
}

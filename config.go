package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr     string   `yaml:"listen_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	PreviewRows    int      `yaml:"preview_rows"`

	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	LLMTimeoutSecs  int    `yaml:"llm_timeout_seconds"`
	LLMCallsPerMin  int    `yaml:"llm_calls_per_minute"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GlossaryPath    string `yaml:"glossary_path"`

	DBPath            string `yaml:"db_path"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
	SweepSchedule     string `yaml:"sweep_schedule"`

	ClusterK         int   `yaml:"cluster_k"`
	ClusterSampleCap int   `yaml:"cluster_sample_cap"`
	ClusterSeed      int64 `yaml:"cluster_seed"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.LLMTimeoutSecs, "LLM_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.LLMCallsPerMin, "LLM_CALLS_PER_MINUTE")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	envOverride(&cfg.GlossaryPath, "GLOSSARY_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverrideInt(&cfg.SessionTTLMinutes, "SESSION_TTL_MINUTES")
	envOverride(&cfg.SweepSchedule, "SWEEP_SCHEDULE")
	envOverrideInt(&cfg.ClusterK, "CLUSTER_K")
	envOverrideInt(&cfg.ClusterSampleCap, "CLUSTER_SAMPLE_CAP")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 50 * 1024 * 1024
	}
	if cfg.PreviewRows == 0 {
		cfg.PreviewRows = 10
	}
	if cfg.LLMTimeoutSecs == 0 {
		cfg.LLMTimeoutSecs = 5
	}
	if cfg.LLMCallsPerMin == 0 {
		cfg.LLMCallsPerMin = 30
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./edabot.db"
	}
	if cfg.SessionTTLMinutes == 0 {
		cfg.SessionTTLMinutes = 120
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "*/15 * * * *"
	}
	if cfg.ClusterK == 0 {
		cfg.ClusterK = 3
	}
	if cfg.ClusterSampleCap == 0 {
		cfg.ClusterSampleCap = 5000
	}
	if cfg.ClusterSeed == 0 {
		cfg.ClusterSeed = 42
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

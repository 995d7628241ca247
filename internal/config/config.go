package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// RecognizedKeys are the deployment-specific variables that /api/env-check
// reports individually. Keys with built-in defaults (HTTP_PORT, CATALOG_PATH,
// TRACE_DB_PATH) are deliberately not part of this set.
var RecognizedKeys = []string{
	"GEMINI_API_KEY",
	"LLM_MODEL",
	"TRACKING_URI",
	"TRACKING_TOKEN",
	"EXPERIMENT_ID",
}

type Config struct {
	GeminiAPIKey  string
	ModelName     string
	TrackingURI   string
	TrackingToken string
	ExperimentID  string
	CatalogPath   string
	TraceDBPath   string
	HTTPPort      string
	LogLevel      string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		ModelName:     getEnv("LLM_MODEL", "gemini-1.5-flash-latest"),
		TrackingURI:   getEnv("TRACKING_URI", ""),
		TrackingToken: getEnv("TRACKING_TOKEN", ""),
		ExperimentID:  getEnv("EXPERIMENT_ID", ""),
		CatalogPath:   getEnv("CATALOG_PATH", "data/customers.json"),
		TraceDBPath:   getEnv("TRACE_DB_PATH", "cloudflow_traces.db"),
		HTTPPort:      getEnv("HTTP_PORT", "8000"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
	}
}

// EnvReport returns the presence of each recognized variable and whether the
// whole set is configured. Presence is checked against the live environment,
// not the loaded defaults, so a defaulted value still reads as absent.
func EnvReport() (map[string]bool, bool) {
	vars := make(map[string]bool, len(RecognizedKeys))
	allPresent := true
	for _, key := range RecognizedKeys {
		_, present := os.LookupEnv(key)
		vars[key] = present
		if !present {
			allPresent = false
		}
	}
	return vars, allPresent
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

package config

import (
	"os"
	"testing"
)

func TestEnvReportAllPresent(t *testing.T) {
	for _, key := range RecognizedKeys {
		t.Setenv(key, "value")
	}

	vars, allPresent := EnvReport()
	if !allPresent {
		t.Error("expected all_vars_present with every key set")
	}
	for _, key := range RecognizedKeys {
		if !vars[key] {
			t.Errorf("expected %s reported present", key)
		}
	}
}

func TestEnvReportMissingKey(t *testing.T) {
	for _, key := range RecognizedKeys {
		// t.Setenv registers restoration of the original value even though
		// the key is unset right after.
		t.Setenv(key, "value")
	}
	if err := os.Unsetenv("TRACKING_TOKEN"); err != nil {
		t.Fatalf("unset TRACKING_TOKEN: %v", err)
	}

	vars, allPresent := EnvReport()
	if allPresent {
		t.Error("expected all_vars_present false with a key missing")
	}
	if vars["TRACKING_TOKEN"] {
		t.Error("expected TRACKING_TOKEN reported absent")
	}
	if !vars["GEMINI_API_KEY"] {
		t.Error("expected GEMINI_API_KEY reported present")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	LoadConfig()

	if AppConfig.HTTPPort == "" {
		t.Error("expected a default HTTP port")
	}
	if AppConfig.CatalogPath == "" {
		t.Error("expected a default catalog path")
	}
	if AppConfig.ModelName == "" {
		t.Error("expected a default model name")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"latex-project-translator/internal/types"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	m, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := m.GetConfig()
	if cfg.OpenAIModel != DefaultModel {
		t.Errorf("expected default model %s, got %s", DefaultModel, cfg.OpenAIModel)
	}
	if cfg.TargetLanguage != DefaultTargetLanguage {
		t.Errorf("expected default target language %s, got %s", DefaultTargetLanguage, cfg.TargetLanguage)
	}
	if cfg.Compiler != DefaultCompiler {
		t.Errorf("expected default compiler %s, got %s", DefaultCompiler, cfg.Compiler)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, cfg.Concurrency)
	}
}

func TestLoadInvalidJSONUsesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.GetModel() != DefaultModel {
		t.Errorf("expected default model after invalid JSON, got %s", m.GetModel())
	}
}

func TestLoadFillsEmptyFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	partial := `{"openai_api_key": "sk-test", "target_language": "chinese"}`
	if err := os.WriteFile(configPath, []byte(partial), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.GetAPIKey() != "sk-test" {
		t.Errorf("expected loaded api key, got %q", m.GetAPIKey())
	}
	if m.GetTargetLanguage() != types.LanguageChinese {
		t.Errorf("expected chinese target language, got %s", m.GetTargetLanguage())
	}
	if m.GetModel() != DefaultModel {
		t.Errorf("expected default model for empty field, got %s", m.GetModel())
	}
	if m.GetCompileTimeout() != DefaultCompileTimeout {
		t.Errorf("expected default compile timeout, got %d", m.GetCompileTimeout())
	}
}

func TestSaveAndReload(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.json")
	m, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	m.SetConfig(&types.Config{
		OpenAIAPIKey:   "sk-saved",
		OpenAIModel:    "gpt-4o-mini",
		TargetLanguage: string(types.LanguageJapanese),
		Compiler:       "xelatex",
		CompileTimeout: 120,
		Concurrency:    5,
	})
	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m2, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m2.GetAPIKey() != "sk-saved" {
		t.Errorf("expected saved api key, got %q", m2.GetAPIKey())
	}
	if m2.GetModel() != "gpt-4o-mini" {
		t.Errorf("expected saved model, got %s", m2.GetModel())
	}
	if m2.GetCompiler() != "xelatex" {
		t.Errorf("expected saved compiler, got %s", m2.GetCompiler())
	}
	if m2.GetConcurrency() != 5 {
		t.Errorf("expected saved concurrency, got %d", m2.GetConcurrency())
	}
}

func TestAPIKeyEnvFallback(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	m, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	t.Setenv(EnvOpenAIAPIKey, "sk-from-env")
	if m.GetAPIKey() != "sk-from-env" {
		t.Errorf("expected env api key fallback, got %q", m.GetAPIKey())
	}

	if err := m.SetAPIKey("sk-explicit"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	if m.GetAPIKey() != "sk-explicit" {
		t.Errorf("expected explicit api key to win, got %q", m.GetAPIKey())
	}
}

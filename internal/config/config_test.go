package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-gemini-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.GeminiAPIKey != "test-gemini-key" {
		t.Errorf("Expected GeminiAPIKey 'test-gemini-key', got '%s'", cfg.GeminiAPIKey)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-gemini-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port '8080', got '%s'", cfg.Port)
	}

	if cfg.GeminiModel != "gemini-3-flash-preview" {
		t.Errorf("Expected default GeminiModel 'gemini-3-flash-preview', got '%s'", cfg.GeminiModel)
	}

	if cfg.GeminiTemperature != 0.2 {
		t.Errorf("Expected default GeminiTemperature 0.2, got %f", cfg.GeminiTemperature)
	}

	if cfg.TranscribeTimeout != 300 {
		t.Errorf("Expected default TranscribeTimeout 300, got %d", cfg.TranscribeTimeout)
	}

	if cfg.R2BucketName != "transcriptai-videos" {
		t.Errorf("Expected default R2BucketName 'transcriptai-videos', got '%s'", cfg.R2BucketName)
	}

	if cfg.PresignExpiry != 3600 {
		t.Errorf("Expected default PresignExpiry 3600, got %d", cfg.PresignExpiry)
	}

	if cfg.MaxUploadBytes != 104857600 {
		t.Errorf("Expected default MaxUploadBytes 104857600, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-gemini-key")
	os.Setenv("TRANSCRIBE_TIMEOUT", "0")
	defer os.Unsetenv("GEMINI_API_KEY")
	defer os.Unsetenv("TRANSCRIBE_TIMEOUT")

	_, err := Load()
	if err == nil {
		t.Error("Expected error for non-positive TRANSCRIBE_TIMEOUT")
	}
}

func TestStorageConfigured(t *testing.T) {
	cfg := &Config{}
	if cfg.StorageConfigured() {
		t.Error("Expected StorageConfigured false without credentials")
	}

	cfg.R2AccountID = "acct"
	cfg.R2AccessKeyID = "key"
	cfg.R2SecretAccessKey = "secret"
	if !cfg.StorageConfigured() {
		t.Error("Expected StorageConfigured true with full credentials")
	}
}

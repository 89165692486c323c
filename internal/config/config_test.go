package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"MONGO_URI", "MONGO_DB", "HTTP_ADDR",
		"GENERATE_HOUR", "SNAPSHOT_INTERVAL", "KITCO_BASE_URL", "DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Errorf("model = %q", cfg.OpenAIModel)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" || cfg.MongoDB != "goldpen" {
		t.Errorf("mongo = %q / %q", cfg.MongoURI, cfg.MongoDB)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.GenerateHour != 1 {
		t.Errorf("generate_hour = %d", cfg.GenerateHour)
	}
	if cfg.SnapshotInterval != 30*time.Minute {
		t.Errorf("snapshot_interval = %v", cfg.SnapshotInterval)
	}
	if cfg.Debug {
		t.Error("debug should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("GENERATE_HOUR", "6")
	t.Setenv("SNAPSHOT_INTERVAL", "5m")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	if cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("model = %q", cfg.OpenAIModel)
	}
	if cfg.GenerateHour != 6 {
		t.Errorf("generate_hour = %d", cfg.GenerateHour)
	}
	if cfg.SnapshotInterval != 5*time.Minute {
		t.Errorf("snapshot_interval = %v", cfg.SnapshotInterval)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("GENERATE_HOUR", "noon")
	t.Setenv("SNAPSHOT_INTERVAL", "often")
	t.Setenv("DEBUG", "yep")

	cfg := Load()

	if cfg.GenerateHour != 1 {
		t.Errorf("generate_hour = %d, want default 1", cfg.GenerateHour)
	}
	if cfg.SnapshotInterval != 30*time.Minute {
		t.Errorf("snapshot_interval = %v, want default", cfg.SnapshotInterval)
	}
	if cfg.Debug {
		t.Error("debug should fall back to false")
	}
}

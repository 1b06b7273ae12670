package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Quotes.StalenessWindow != 5*time.Minute {
		t.Errorf("StalenessWindow = %v, want 5m", cfg.Quotes.StalenessWindow)
	}
	if cfg.Quotes.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.Quotes.RefreshInterval)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Errorf("Storage.Driver = %q, want memory", cfg.Storage.Driver)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("QUOTES_STALENESS_WINDOW", "1m")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Driver != StorageRedis {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Quotes.StalenessWindow != time.Minute {
		t.Errorf("StalenessWindow = %v", cfg.Quotes.StalenessWindow)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v", cfg.Location())
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Special"}
	if cfg.Location() != time.Local {
		t.Errorf("Location() = %v, want Local", cfg.Location())
	}
}

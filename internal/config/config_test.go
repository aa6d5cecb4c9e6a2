package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "cardsim.db" || cfg.Addr != ":8077" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.FlushSize != 50 || cfg.ScriptTimeout != time.Second || cfg.LogDev {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CARDSIM_DB_PATH", "/tmp/x.db")
	t.Setenv("CARDSIM_LOG_DEV", "true")
	t.Setenv("CARDSIM_SCRIPT_TIMEOUT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || !cfg.LogDev || cfg.ScriptTimeout != 250*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unparsable flush size", "CARDSIM_FLUSH_SIZE", "many"},
		{"zero flush size", "CARDSIM_FLUSH_SIZE", "0"},
		{"negative timeout", "CARDSIM_SCRIPT_TIMEOUT", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%s succeeded", tt.key, tt.value)
			}
		})
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "MARKDOWN_ENGINE", "LOG_LEVEL", "HOST", "PORT", "PUBLISH_TOKEN", "SHUTDOWN_TIMEOUT_SECONDS", "DEEPLINK_SCHEME"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Driver != StoreCouch {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, StoreCouch)
	}
	if cfg.Render.Engine != EngineGomarkdown {
		t.Errorf("Render.Engine = %q", cfg.Render.Engine)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.DeepLink.Scheme != "obsidian" {
		t.Errorf("DeepLink.Scheme = %q", cfg.DeepLink.Scheme)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("MARKDOWN_ENGINE", "goldmark")
	t.Setenv("PUBLISH_TOKEN", "abc")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Driver != StoreSQLite {
		t.Errorf("Store.Driver = %q", cfg.Store.Driver)
	}
	if cfg.Render.Engine != EngineGoldmark {
		t.Errorf("Render.Engine = %q", cfg.Render.Engine)
	}
	if cfg.Publish.Token != "abc" {
		t.Errorf("Publish.Token = %q", cfg.Publish.Token)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"STORE_DRIVER", "redis"},
		{"MARKDOWN_ENGINE", "pandoc"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestDatabaseConfig_CouchURL(t *testing.T) {
	c := DatabaseConfig{Host: "couch", Port: "5984", User: "admin", Password: "pw"}
	if got := c.CouchURL(); got != "http://admin:pw@couch:5984" {
		t.Errorf("CouchURL() = %q", got)
	}
}

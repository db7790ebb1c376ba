package config

import "testing"

func TestLoadDefaultsForLocalDevelopment(t *testing.T) {
	t.Setenv("STOCKSYNC_ENV", "dev")
	t.Setenv("STOCKSYNC_WEBHOOK_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Webhook.Secret != "stocksync-local-dev" {
		t.Fatalf("expected local fallback secret, got %q", cfg.Webhook.Secret)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Webhook.Topic != "inventory_levels/update" {
		t.Fatalf("expected default topic, got %q", cfg.Webhook.Topic)
	}
	if cfg.Database.Path != "data/stocksync" {
		t.Fatalf("expected default db path, got %q", cfg.Database.Path)
	}
}

func TestLoadRequiresWebhookSecretOutsideLocal(t *testing.T) {
	t.Setenv("STOCKSYNC_ENV", "production")
	t.Setenv("STOCKSYNC_WEBHOOK_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing webhook secret in production")
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("STOCKSYNC_ENV", "dev")
	t.Setenv("STOCKSYNC_PORT", "70000")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestLoadRequiresPublishSecretWithEndpoint(t *testing.T) {
	t.Setenv("STOCKSYNC_ENV", "dev")
	t.Setenv("STOCKSYNC_PUBLISH_ENDPOINT", "https://events.internal/webhooks")
	t.Setenv("STOCKSYNC_PUBLISH_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for publish endpoint without secret")
	}
}

func TestLoadClampsPublishTimeout(t *testing.T) {
	t.Setenv("STOCKSYNC_ENV", "dev")
	t.Setenv("STOCKSYNC_PUBLISH_TIMEOUT_MS", "600000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Publisher.TimeoutMS != 60000 {
		t.Fatalf("expected timeout clamped to 60000, got %d", cfg.Publisher.TimeoutMS)
	}
}

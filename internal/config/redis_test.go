package config

import "testing"

func TestRedisTLSConfig(t *testing.T) {
	t.Setenv("REDIS_TLS", "")
	t.Setenv("REDIS_TLS_SKIP_VERIFY", "")
	if cfg := redisTLSConfig(); cfg != nil {
		t.Fatalf("TLS off should yield a nil config, got %+v", cfg)
	}

	t.Setenv("REDIS_TLS", "true")
	cfg := redisTLSConfig()
	if cfg == nil {
		t.Fatalf("REDIS_TLS=true should yield a TLS config")
	}
	if cfg.InsecureSkipVerify {
		t.Fatalf("certificate verification must stay on by default")
	}

	t.Setenv("REDIS_TLS_SKIP_VERIFY", "1")
	cfg = redisTLSConfig()
	if cfg == nil || !cfg.InsecureSkipVerify {
		t.Fatalf("skip-verify opt-out not honoured: %+v", cfg)
	}
}

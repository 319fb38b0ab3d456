package config

import (
	"strings"
	"testing"
	"time"

	ctopics "github.com/radieske/lotto-2d-generator/pkg/contracts/topics"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "generator-service")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "local" {
		t.Fatalf("expected env local, got %q", cfg.Env)
	}
	if cfg.HTTPPort != "8080" || cfg.MetricsPort != "9095" {
		t.Fatalf("unexpected ports %q/%q", cfg.HTTPPort, cfg.MetricsPort)
	}
	if cfg.TopicTicketGenerated != ctopics.TicketGenerated || cfg.TopicTicketGeneratedDLQ != ctopics.TicketGeneratedDLQ {
		t.Fatalf("unexpected topics %q/%q", cfg.TopicTicketGenerated, cfg.TopicTicketGeneratedDLQ)
	}
	if cfg.TicketCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.TicketCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "ticket-archiver-worker")
	t.Setenv("APP_VERSION", "1.4.0")
	t.Setenv("METRICS_PORT_ARCHIVER", "9200")
	t.Setenv("KAFKA_TOPIC_TICKET_GENERATED", "custom_topic")
	t.Setenv("TICKET_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppVersion != "1.4.0" {
		t.Fatalf("unexpected version %q", cfg.AppVersion)
	}
	if cfg.HTTPPort != "" || cfg.MetricsPort != "9200" {
		t.Fatalf("unexpected ports %q/%q", cfg.HTTPPort, cfg.MetricsPort)
	}
	if cfg.TopicTicketGenerated != "custom_topic" {
		t.Fatalf("unexpected topic %q", cfg.TopicTicketGenerated)
	}
	if cfg.TicketCacheTTL != 30*time.Second {
		t.Fatalf("unexpected ttl %v", cfg.TicketCacheTTL)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("TICKET_CACHE_TTL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

package config

import "testing"

func TestSplitListTrimsAndDropsEmpties(t *testing.T) {
	t.Parallel()

	got := splitList(" http://a:8080 , http://b:8080,, ")
	if len(got) != 2 || got[0] != "http://a:8080" || got[1] != "http://b:8080" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Port == "" {
		t.Fatal("expected a default port")
	}
	svc, ok := cfg.Services["api"]
	if !ok {
		t.Fatal("expected an api service entry")
	}
	if len(svc.Instances) == 0 {
		t.Fatal("expected at least one default instance")
	}
	if svc.HealthCheck != "/health" {
		t.Fatalf("unexpected health check path %q", svc.HealthCheck)
	}
}

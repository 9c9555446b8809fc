package main

import (
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/tunedeck/tunedeck/api-gateway/middleware"
)

func TestCorsConfigDisablesCredentialsForWildcard(t *testing.T) {
	cfg := corsConfig("*")
	if cfg.AllowCredentials {
		t.Fatal("wildcard origins must not allow credentials")
	}

	cfg = corsConfig("http://app.example.com")
	if !cfg.AllowCredentials {
		t.Fatal("explicit origins should allow credentials")
	}
	if cfg.AllowOrigins != "http://app.example.com" {
		t.Fatalf("unexpected origins %q", cfg.AllowOrigins)
	}
}

func TestSetupMiddlewareBootsWithDefaults(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("setupMiddleware panicked with default config: %v", r)
		}
	}()

	app := fiber.New()
	setupMiddleware(app, nil, middleware.NewCircuitBreakerManager())
}

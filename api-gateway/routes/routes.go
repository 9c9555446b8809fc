package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tunedeck/tunedeck/api-gateway/config"
	"github.com/tunedeck/tunedeck/api-gateway/health"
	"github.com/tunedeck/tunedeck/api-gateway/middleware"
	"github.com/tunedeck/tunedeck/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix      string
	ServiceName string
	Description string
	RequireAuth bool
	UploadLimit bool
}

// Routes holds all route definitions
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		ServiceName: "api",
		Description: "Authentication endpoints (signup, login)",
	},
	{
		Prefix:      "/users",
		ServiceName: "api",
		Description: "User profile endpoints",
		RequireAuth: true,
	},
	{
		Prefix:      "/song",
		ServiceName: "api",
		Description: "Song catalog and favorites",
		RequireAuth: true,
		UploadLimit: true,
	},
}

// SetupRoutes configures all gateway routes.
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAll(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Tunedeck Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy, redisClient)
	}
}

func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy, redisClient *redis.Client) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)

	// Uploads get a stricter per-user limit than the rest of the prefix.
	if route.UploadLimit && redisClient != nil {
		group.Post("/upload", middleware.UploadRateLimiter(redisClient), handler)
	}

	group.All("/*", handler)

	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}

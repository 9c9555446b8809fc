package main

// @title Tunedeck API
// @version 1.0
// @description Music sharing backend with full observability stack (Prometheus, Jaeger)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tunedeck/tunedeck
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tunedeck/tunedeck/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Songs
// @tag.description Song upload and catalog endpoints

// @tag.name Favorites
// @tag.description Favorite management endpoints

// @tag.name Health
// @tag.description Health check endpoints

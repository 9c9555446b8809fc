package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/tunedeck/tunedeck/docs"
	songCache "github.com/tunedeck/tunedeck/internal/song/cache"
	songDelivery "github.com/tunedeck/tunedeck/internal/song/delivery/http"
	songRepo "github.com/tunedeck/tunedeck/internal/song/repository"
	songCommand "github.com/tunedeck/tunedeck/internal/song/usecase/command"
	userDelivery "github.com/tunedeck/tunedeck/internal/user/delivery/http"
	userDomain "github.com/tunedeck/tunedeck/internal/user/domain"
	userRepo "github.com/tunedeck/tunedeck/internal/user/repository"
	"github.com/tunedeck/tunedeck/kafka"
	"github.com/tunedeck/tunedeck/pkg/auth"
	"github.com/tunedeck/tunedeck/pkg/database"
	"github.com/tunedeck/tunedeck/pkg/logger"
	"github.com/tunedeck/tunedeck/pkg/storage"
	"github.com/tunedeck/tunedeck/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "tunedeck-api")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting tunedeck API")

	auth.Configure(
		os.Getenv("JWT_SECRET"),
		time.Duration(getEnvInt("JWT_EXP_SECONDS", 3600))*time.Second,
	)

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracing.Shutdown(ctx, tp)
		}()
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "tunedeck"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// User storage backend: GORM by default, raw database/sql behind
	// DB_BACKEND=sql.
	var users userDomain.UserRepository
	switch getEnv("DB_BACKEND", "gorm") {
	case "sql":
		rawDB, err := database.NewPostgresConnection(dbConfig)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		repo := userRepo.NewPostgresUserRepository(rawDB)
		if err := repo.Migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run user migrations")
		}
		users = repo
	default:
		repo := userRepo.NewGormUserRepositoryWithTracing(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run user migrations")
		}
		users = repo
	}

	songs := songRepo.NewGormSongRepositoryWithTracing(db)
	if err := songs.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run song migrations")
	}
	favorites := songRepo.NewGormFavoriteRepository(db)

	store, err := storage.NewS3Client(storage.Config{
		Endpoint:       getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		Region:         getEnv("STORAGE_REGION", "us-east-1"),
		AccessKey:      os.Getenv("STORAGE_ACCESS_KEY"),
		SecretKey:      os.Getenv("STORAGE_SECRET_KEY"),
		Bucket:         getEnv("STORAGE_BUCKET", "tunedeck"),
		UseSSL:         getEnv("STORAGE_USE_SSL", "false") == "true",
		PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", "http://localhost:9000/tunedeck"),
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to configure object storage")
	}

	// Redis is optional; without it the list cache degrades to misses.
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis unavailable, song list cache disabled")
			redisClient = nil
		}
	}
	listCache := songCache.NewListCache(redisClient, 5*time.Minute)

	// Kafka is optional; without it domain events are skipped.
	var events *kafka.Publisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		events, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, event publishing disabled")
			events = nil
		} else {
			defer events.Close()
		}

		consumerCtx, consumerCancel := context.WithCancel(context.Background())
		defer consumerCancel()
		if consumer := startCacheInvalidator(consumerCtx, strings.Split(brokers, ","), listCache); consumer != nil {
			defer consumer.Close()
		}
	}

	userHandler := userDelivery.NewUserHandler(users, events)
	songHandler := songDelivery.NewSongHandler(
		songCommand.NewUploadSongHandler(songs, store),
		songCommand.NewToggleFavoriteHandler(songs, favorites),
		songCommand.NewRemoveFavoriteHandler(favorites),
		songs,
		listCache,
		events,
	)

	router := mux.NewRouter()
	router.HandleFunc("/", rootHandler).Methods("GET")
	userHandler.RegisterRoutes(router)
	userHandler.RegisterHealthCheck(router, sqlDB)
	songHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	userDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: otelhttp.NewHandler(c.Handler(router), "tunedeck-api"),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

// startCacheInvalidator subscribes to upload events so replicas that did not
// serve the upload still drop their cached listing. The returned consumer
// stops when ctx is cancelled and must be closed by the caller.
func startCacheInvalidator(ctx context.Context, brokers []string, listCache *songCache.ListCache) *kafka.Consumer {
	consumer, err := kafka.NewConsumer(brokers, "tunedeck-api", []string{kafka.TopicSongUploaded})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, cache invalidation events disabled")
		return nil
	}

	consumer.RegisterHandler(kafka.EventTypeSongUploaded, func(ctx context.Context, event kafka.SongUploadedEvent) error {
		listCache.Invalidate(ctx)
		return nil
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to start Kafka consumer")
		consumer.Close()
		return nil
	}
	return consumer
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"running","docs":"/swagger/","message":"tunedeck API"}`))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

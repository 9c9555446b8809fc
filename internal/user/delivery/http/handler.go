package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tunedeck/tunedeck/internal/user/domain"
	"github.com/tunedeck/tunedeck/internal/user/usecase/command"
	"github.com/tunedeck/tunedeck/internal/user/usecase/query"
	"github.com/tunedeck/tunedeck/kafka"
	"github.com/tunedeck/tunedeck/pkg/logger"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of requests to auth endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_request_duration_seconds",
			Help:    "Duration of auth requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	registeredUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registered_users",
			Help: "Number of registered users",
		},
	)
)

func init() {
	prometheus.MustRegister(requestCounter, requestLatency, registeredUsers)
}

// UserHandler handles HTTP requests for accounts
type UserHandler struct {
	signupHandler  *command.SignupUserHandler
	loginHandler   *command.LoginUserHandler
	getUserHandler *query.GetUserHandler

	repo   domain.UserRepository
	events *kafka.Publisher // optional; nil disables event publishing
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo domain.UserRepository, events *kafka.Publisher) *UserHandler {
	return &UserHandler{
		signupHandler:  command.NewSignupUserHandler(repo),
		loginHandler:   command.NewLoginUserHandler(repo),
		getUserHandler: query.NewGetUserHandler(repo),
		repo:           repo,
		events:         events,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Signup handles POST /auth/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := h.signupHandler.Handle(command.SignupUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			h.respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Signup failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if h.events != nil {
		if err := h.events.PublishUserRegistered(r.Context(), kafka.UserRegisteredEvent{
			UserID: user.ID,
			Email:  user.Email,
		}); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Failed to publish signup event")
		}
	}

	h.updateRegisteredUsersMetric()
	h.respondJSON(w, http.StatusCreated, user.Public())
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	response, err := h.loginHandler.Handle(command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.respondError(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Login failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// GetProfile handles GET /users/me (authenticated user)
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	user, err := h.getUserHandler.Handle(query.GetUserQuery{ID: userID})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Profile lookup failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.respondJSON(w, http.StatusOK, user.Public())
}

// HealthCheck handles GET /health
func (h *UserHandler) HealthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		h.respondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"message": "API is running successfully",
		})
	}
}

// updateRegisteredUsersMetric updates the registered users gauge
func (h *UserHandler) updateRegisteredUsersMetric() {
	if count, err := h.repo.Count(); err == nil {
		registeredUsers.Set(float64(count))
	}
}

// respondJSON sends a JSON response
func (h *UserHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *UserHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers the auth and profile routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/signup", h.metricsMiddleware("/auth/signup", h.Signup)).Methods("POST")
	router.HandleFunc("/auth/login", h.metricsMiddleware("/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/users/me", h.metricsMiddleware("/users/me", AuthMiddleware(h.GetProfile))).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *UserHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", h.HealthCheck(db)).Methods("GET")
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Signup godoc
// @Summary Sign up
// @Description Create a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Signup data"
// @Success 201 {object} object{id=int,name=string,email=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/signup [post]
func (h *UserHandler) SignupDoc() {}

// Login godoc
// @Summary Log in
// @Description Authenticate and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{access_token=string,message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/login [post]
func (h *UserHandler) LoginDoc() {}

// GetProfile godoc
// @Summary Get current user profile
// @Description Get the authenticated user's account
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{id=int,name=string,email=string}
// @Failure 401 {object} object{error=string}
// @Router /users/me [get]
func (h *UserHandler) GetProfileDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,message=string}
// @Failure 503 {object} object{status=string,error=string}
// @Router /health [get]
func (h *UserHandler) HealthCheckDoc() {}

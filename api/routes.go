package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/rentals/internal/config"
	"github.com/garnizeh/rentals/internal/service"
)

// Services are the application services the routes call into.
type Services struct {
	Properties *service.PropertyService
	Auth       *service.AuthService
	Tables     []TableStatus
}

func SetupRoutes(cfg *config.Config, version, buildTime string, svc Services) http.Handler {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := NewSystemHandler(svc.Tables...)
	authHandler := NewAuthHandler(svc.Auth, cfg.JWTSecret, cfg.TokenDuration)
	propertiesHandler := NewPropertiesHandler(svc.Properties)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/v1/auth/login", authHandler.Login).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	authV1.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Properties endpoints
	apiV1.HandleFunc("/properties", propertiesHandler.ListProperties).Methods("GET")
	apiV1.HandleFunc("/properties", propertiesHandler.CreateProperty).Methods("POST")
	apiV1.HandleFunc("/properties", propertiesHandler.PurgeProperties).Methods("DELETE")
	apiV1.HandleFunc("/properties/{id:[0-9]+}", propertiesHandler.GetProperty).Methods("GET")
	apiV1.HandleFunc("/properties/{id:[0-9]+}", propertiesHandler.UpdateProperty).Methods("PUT")
	apiV1.HandleFunc("/properties/{id:[0-9]+}", propertiesHandler.DeleteProperty).Methods("DELETE")

	// CORS wraps the router so preflight requests never reach route matching
	return CORSMiddleware(cfg.AllowedOrigins)(r)
}

package rest

import (
	"net/http"

	"formforge/internal/cache"
	"formforge/internal/config"
	"formforge/internal/repository"
	"formforge/internal/service"
	"formforge/internal/transport/rest/handler"
	"formforge/internal/transport/rest/middleware"
	"formforge/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	Config           *config.Config
	AuthService      *service.AuthService
	SurveyService    *service.SurveyService
	GeneratorService *service.GeneratorService
	ExportService    *service.ExportService
	GoogleOAuth      *service.GoogleOAuth
	TokenRepo        repository.TokenRepo
	StateCache       cache.StateCache
	WSHub            *ws.Hub
	Logger           *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.GoogleOAuth, c.TokenRepo, c.StateCache, c.Logger)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService, c.GeneratorService, c.WSHub, c.Logger)
	exportHandler := handler.NewExportHandler(c.ExportService, c.WSHub, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/google/callback", authHandler.GoogleCallback).Methods("GET", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/auth/google/signin", authHandler.GoogleSignin).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/surveys/generate", surveyHandler.Generate).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Update).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/surveys/{surveyId}/export", exportHandler.Export).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

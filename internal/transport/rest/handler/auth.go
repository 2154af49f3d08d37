package handler

import (
	"encoding/json"
	"net/http"

	"formforge/internal/cache"
	"formforge/internal/model"
	"formforge/internal/pipeline"
	"formforge/internal/repository"
	"formforge/internal/service"
	"formforge/internal/transport/rest/middleware"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler handles login and the Google OAuth connection flow
type AuthHandler struct {
	authSvc    *service.AuthService
	oauth      *service.GoogleOAuth
	tokenRepo  repository.TokenRepo
	stateCache cache.StateCache
	log        *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, oauth *service.GoogleOAuth, tokenRepo repository.TokenRepo, stateCache cache.StateCache, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc:    authSvc,
		oauth:      oauth,
		tokenRepo:  tokenRepo,
		stateCache: stateCache,
		log:        log,
	}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GoogleSignin handles GET /v1/auth/google/signin. It returns the consent
// URL instead of redirecting, so the SPA can open it itself.
func (h *AuthHandler) GoogleSignin(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !h.oauth.IsConfigured() {
		writeError(w, http.StatusServiceUnavailable, "google export is not configured")
		return
	}

	state := uuid.New().String()
	if err := h.stateCache.Set(r.Context(), state, userID); err != nil {
		h.log.Error("failed to store oauth state", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start google signin")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": h.oauth.AuthCodeURL(state)})
}

// GoogleCallback handles GET /v1/auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "missing code or state")
		return
	}

	userID, err := h.stateCache.Consume(r.Context(), state)
	if err != nil {
		h.log.Error("failed to look up oauth state", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to complete google signin")
		return
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "unknown or expired state")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn("oauth code exchange failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "google signin failed")
		return
	}

	token.UserID = userID
	if err := h.tokenRepo.Upsert(r.Context(), token); err != nil {
		h.log.Error("failed to store google token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to complete google signin")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"connected": true})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writePipelineError maps a pipeline failure to an HTTP status and a body
// carrying the stable error code, never the raw parser diagnostics.
func writePipelineError(w http.ResponseWriter, err error) bool {
	kind := pipeline.KindOf(err)
	if kind == "" {
		return false
	}

	status := http.StatusInternalServerError
	message := "survey processing failed"
	switch kind {
	case pipeline.KindParseError, pipeline.KindInvalidResponse:
		status = http.StatusUnprocessableEntity
		message = "the generated survey was malformed, please try again"
	case pipeline.KindInvalidQuestion, pipeline.KindInvalidOptions:
		status = http.StatusUnprocessableEntity
		message = "the generated survey contained an invalid question, please try again"
	case pipeline.KindNotImplemented:
		status = http.StatusBadRequest
		message = "the requested platform is not supported"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  string(kind),
	})
	return true
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"formforge/internal/pipeline"
	"formforge/internal/service"
	"formforge/internal/transport/rest/middleware"
	"formforge/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ExportHandler handles survey export endpoints
type ExportHandler struct {
	exportSvc *service.ExportService
	hub       *ws.Hub
	log       *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportSvc *service.ExportService, hub *ws.Hub, log *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportSvc: exportSvc,
		hub:       hub,
		log:       log,
	}
}

// ExportRequest is the request body for exporting a survey
type ExportRequest struct {
	Platform string `json:"platform"`
}

// Export handles POST /v1/surveys/{surveyId}/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	platform := pipeline.Platform(req.Platform)
	if platform == "" {
		platform = pipeline.PlatformGoogleForms
	}

	result, err := h.exportSvc.Export(r.Context(), userID, surveyID, platform)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSurveyNotFound):
			writeError(w, http.StatusNotFound, "survey not found")
		case errors.Is(err, service.ErrGoogleNotConnected), errors.Is(err, service.ErrTokenExpired):
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"error":        "google account not connected",
				"requiresAuth": true,
			})
		case writePipelineError(w, err):
			// handled
		default:
			h.log.Error("export failed",
				zap.String("surveyId", surveyID),
				zap.Error(err))
			writeError(w, http.StatusBadGateway, "failed to export survey")
		}
		return
	}

	h.hub.NotifyUser(userID, ws.MsgSurveyExported, result)
	writeJSON(w, http.StatusOK, result)
}

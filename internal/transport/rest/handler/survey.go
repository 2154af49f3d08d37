package handler

import (
	"encoding/json"
	"net/http"

	"formforge/internal/model"
	"formforge/internal/service"
	"formforge/internal/transport/rest/middleware"
	"formforge/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SurveyHandler handles survey CRUD and generation endpoints
type SurveyHandler struct {
	surveySvc    *service.SurveyService
	generatorSvc *service.GeneratorService
	hub          *ws.Hub
	log          *zap.Logger
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService, generatorSvc *service.GeneratorService, hub *ws.Hub, log *zap.Logger) *SurveyHandler {
	return &SurveyHandler{
		surveySvc:    surveySvc,
		generatorSvc: generatorSvc,
		hub:          hub,
		log:          log,
	}
}

// GenerateRequest is the request body for survey generation
type GenerateRequest struct {
	Content string `json:"content"`
}

// SaveSurveyRequest is the request body for creating or updating a survey
type SaveSurveyRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Settings    model.SurveySettings `json:"settings"`
	Questions   []model.Question     `json:"questions"`
}

// Generate handles POST /v1/surveys/generate
func (h *SurveyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	survey, err := h.generatorSvc.Generate(r.Context(), req.Content)
	if err != nil {
		if writePipelineError(w, err) {
			return
		}
		h.log.Error("survey generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to generate survey")
		return
	}

	survey.OwnerID = userID
	if _, err := h.surveySvc.Create(r.Context(), survey); err != nil {
		h.log.Error("failed to persist generated survey", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save survey")
		return
	}

	h.hub.NotifyUser(userID, ws.MsgSurveyGenerated, survey)
	writeJSON(w, http.StatusCreated, survey)
}

// Create handles POST /v1/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SaveSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey := &model.Survey{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Settings:    req.Settings,
		Questions:   req.Questions,
	}

	id, err := h.surveySvc.Create(r.Context(), survey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"surveyId": id})
}

// Get handles GET /v1/surveys/{surveyId}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	userID := middleware.GetUserID(r.Context())

	survey, err := h.surveySvc.GetByID(r.Context(), surveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if survey == nil || survey.OwnerID != userID {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// List handles GET /v1/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	surveys, err := h.surveySvc.GetByOwnerID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Update handles PUT /v1/surveys/{surveyId}
func (h *SurveyHandler) Update(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	userID := middleware.GetUserID(r.Context())

	existing, err := h.surveySvc.GetByID(r.Context(), surveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != userID {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}

	var req SaveSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey := &model.Survey{
		ID:          surveyID,
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Settings:    req.Settings,
		Questions:   req.Questions,
		CreatedAt:   existing.CreatedAt,
	}

	if err := h.surveySvc.Update(r.Context(), survey); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.hub.NotifyUser(userID, ws.MsgSurveyUpdated, survey)
	writeJSON(w, http.StatusOK, survey)
}

// Delete handles DELETE /v1/surveys/{surveyId}
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	userID := middleware.GetUserID(r.Context())

	existing, err := h.surveySvc.GetByID(r.Context(), surveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil || existing.OwnerID != userID {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}

	if err := h.surveySvc.Delete(r.Context(), surveyID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.hub.NotifyUser(userID, ws.MsgSurveyDeleted, map[string]string{"surveyId": surveyID})
	writeJSON(w, http.StatusOK, map[string]string{"surveyId": surveyID})
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"formforge/internal/model"
	"formforge/internal/pipeline"
	"formforge/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrGoogleNotConnected = errors.New("google account not connected")
)

// ExportResult is returned after a successful export
type ExportResult struct {
	FormID string `json:"formId"`
	URL    string `json:"url"`
}

// ExportService converts stored surveys through the pipeline and pushes the
// result to the destination platform's API.
type ExportService struct {
	surveys   *SurveyService
	tokenRepo repository.TokenRepo
	forms     *FormsClient
	oauth     *GoogleOAuth
	log       *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(surveys *SurveyService, tokenRepo repository.TokenRepo, forms *FormsClient, oauth *GoogleOAuth, log *zap.Logger) *ExportService {
	return &ExportService{
		surveys:   surveys,
		tokenRepo: tokenRepo,
		forms:     forms,
		oauth:     oauth,
		log:       log,
	}
}

// Export loads a user's survey, converts it and creates the external form.
// The Forms flow mirrors what the API requires: create with title only, then
// batchUpdate for the description, then one createItem per question in order.
func (s *ExportService) Export(ctx context.Context, userID, surveyID string, platform pipeline.Platform) (*ExportResult, error) {
	survey, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil || survey.OwnerID != userID {
		return nil, ErrSurveyNotFound
	}

	form, err := pipeline.Convert(survey, platform)
	if err != nil {
		return nil, err
	}

	access, err := s.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	formID, err := s.forms.CreateForm(ctx, access, form.Info)
	if err != nil {
		return nil, err
	}

	if desc := strings.TrimSpace(form.Info.Description); desc != "" {
		update := &model.FormsBatchUpdateRequest{
			Requests: []model.FormsRequest{{
				UpdateFormInfo: &model.UpdateFormInfoRequest{
					Info:       model.GoogleFormsInfo{Description: desc},
					UpdateMask: "description",
				},
			}},
		}
		if err := s.forms.BatchUpdate(ctx, access, formID, update); err != nil {
			return nil, err
		}
	}

	if len(form.Items) > 0 {
		populate := &model.FormsBatchUpdateRequest{
			Requests: pipeline.BuildCreateItemRequests(form),
		}
		if err := s.forms.BatchUpdate(ctx, access, formID, populate); err != nil {
			return nil, err
		}
	}

	s.log.Info("survey exported",
		zap.String("surveyId", surveyID),
		zap.String("formId", formID))

	return &ExportResult{
		FormID: formID,
		URL:    "https://docs.google.com/forms/d/" + formID + "/edit",
	}, nil
}

// accessToken returns a usable bearer token for the user, refreshing the
// stored credentials when they have expired.
func (s *ExportService) accessToken(ctx context.Context, userID string) (string, error) {
	token, err := s.tokenRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", ErrGoogleNotConnected
	}

	if !token.Expired(time.Now()) {
		return token.AccessToken, nil
	}

	refreshed, err := s.oauth.Refresh(ctx, token.RefreshToken)
	if err != nil {
		return "", ErrGoogleNotConnected
	}

	refreshed.UserID = userID
	if refreshed.RefreshToken == "" {
		// Google omits the refresh token on refresh responses
		refreshed.RefreshToken = token.RefreshToken
	}
	refreshed.CreatedAt = token.CreatedAt
	if err := s.tokenRepo.Upsert(ctx, refreshed); err != nil {
		s.log.Warn("failed to store refreshed token", zap.Error(err))
	}

	return refreshed.AccessToken, nil
}

package service

import (
	"context"

	"formforge/internal/cache"
	"formforge/internal/model"
	"formforge/internal/repository"
)

// SurveyService handles survey CRUD with a redis read-through cache
type SurveyService struct {
	surveyRepo  repository.SurveyRepo
	surveyCache cache.SurveyCache
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, surveyCache cache.SurveyCache) *SurveyService {
	return &SurveyService{
		surveyRepo:  surveyRepo,
		surveyCache: surveyCache,
	}
}

// Create persists a new survey and returns its ID
func (s *SurveyService) Create(ctx context.Context, survey *model.Survey) (string, error) {
	id, err := s.surveyRepo.Create(ctx, survey)
	if err != nil {
		return "", err
	}
	survey.ID = id
	_ = s.surveyCache.Set(ctx, survey) // best effort
	return id, nil
}

// GetByID retrieves a survey, from cache when possible
func (s *SurveyService) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	if cached, err := s.surveyCache.Get(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey != nil {
		_ = s.surveyCache.Set(ctx, survey)
	}
	return survey, nil
}

// GetByOwnerID retrieves all surveys belonging to a user
func (s *SurveyService) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByOwnerID(ctx, ownerID)
}

// Update replaces an existing survey
func (s *SurveyService) Update(ctx context.Context, survey *model.Survey) error {
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return err
	}
	_ = s.surveyCache.Set(ctx, survey)
	return nil
}

// Delete removes a survey
func (s *SurveyService) Delete(ctx context.Context, id string) error {
	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.surveyCache.Delete(ctx, id)
	return nil
}

package service

import (
	"context"
	"fmt"
	"sync"

	"formforge/internal/model"
)

// In-memory doubles for the Mongo repositories and redis caches used across
// the service tests.

type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]*model.Survey
	nextID  int
	err     error
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: map[string]*model.Survey{}}
}

func (r *fakeSurveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.nextID++
	id := fmt.Sprintf("survey-%d", r.nextID)
	cp := *survey
	cp.ID = id
	r.surveys[id] = &cp
	return id, nil
}

func (r *fakeSurveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.surveys[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSurveyRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Survey
	for _, s := range r.surveys {
		if s.OwnerID == ownerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSurveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[survey.ID]; !ok {
		return fmt.Errorf("survey %s not found", survey.ID)
	}
	cp := *survey
	r.surveys[survey.ID] = &cp
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surveys, id)
	return nil
}

type fakeSurveyCache struct {
	mu      sync.Mutex
	entries map[string]*model.Survey
	sets    int
	deletes int
}

func newFakeSurveyCache() *fakeSurveyCache {
	return &fakeSurveyCache{entries: map[string]*model.Survey{}}
}

func (c *fakeSurveyCache) Set(ctx context.Context, survey *model.Survey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *survey
	c.entries[survey.ID] = &cp
	c.sets++
	return nil
}

func (c *fakeSurveyCache) Get(ctx context.Context, id string) (*model.Survey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (c *fakeSurveyCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes++
	return nil
}

type fakeTokenRepo struct {
	mu      sync.Mutex
	tokens  map[string]*model.GoogleToken
	upserts int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*model.GoogleToken{}}
}

func (r *fakeTokenRepo) Upsert(ctx context.Context, token *model.GoogleToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.UserID] = &cp
	r.upserts++
	return nil
}

func (r *fakeTokenRepo) GetByUserID(ctx context.Context, userID string) (*model.GoogleToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[userID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

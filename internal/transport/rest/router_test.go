package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"formforge/internal/config"
	"formforge/internal/model"
	"formforge/internal/service"
	"formforge/internal/transport/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// In-memory stand-ins for Mongo and redis so the router can be exercised
// end to end with httptest.

type memSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]*model.Survey
	nextID  int
}

func (r *memSurveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("survey-%d", r.nextID)
	cp := *survey
	cp.ID = id
	r.surveys[id] = &cp
	return id, nil
}

func (r *memSurveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSurveyRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Survey, error) {
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

func (r *memSurveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[survey.ID]; !ok {
		return fmt.Errorf("survey %s not found", survey.ID)
	}
	cp := *survey
	r.surveys[survey.ID] = &cp
	return nil
}

func (r *memSurveyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surveys, id)
	return nil
}

type memSurveyCache struct {
	mu      sync.Mutex
	entries map[string]*model.Survey
}

func (c *memSurveyCache) Set(ctx context.Context, survey *model.Survey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *survey
	c.entries[survey.ID] = &cp
	return nil
}

func (c *memSurveyCache) Get(ctx context.Context, id string) (*model.Survey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (c *memSurveyCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.GoogleToken
}

func (r *memTokenRepo) Upsert(ctx context.Context, token *model.GoogleToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.UserID] = &cp
	return nil
}

func (r *memTokenRepo) GetByUserID(ctx context.Context, userID string) (*model.GoogleToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[userID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memTokenRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

type memStateCache struct {
	mu     sync.Mutex
	states map[string]string
}

func (c *memStateCache) Set(ctx context.Context, state, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[state] = userID
	return nil
}

func (c *memStateCache) Consume(ctx context.Context, state string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	userID := c.states[state]
	delete(c.states, state)
	return userID, nil
}

type testServer struct {
	srv        *httptest.Server
	stateCache *memStateCache
}

func newTestServer(t *testing.T, googleCfg config.GoogleConfig) *testServer {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")

	cfg := &config.Config{
		Port:               "8080",
		JWTSecret:          "router-test-secret",
		AdminUsername:      "admin",
		AdminPassword:      "secret",
		CORSAllowedOrigins: "*",
		Google:             googleCfg,
	}

	log := zap.NewNop()
	surveyRepo := &memSurveyRepo{surveys: map[string]*model.Survey{}}
	tokenRepo := &memTokenRepo{tokens: map[string]*model.GoogleToken{}}
	stateCache := &memStateCache{states: map[string]string{}}

	authSvc := service.NewAuthService(cfg)
	surveySvc := service.NewSurveyService(surveyRepo, &memSurveyCache{entries: map[string]*model.Survey{}})
	generatorSvc := service.NewGeneratorService(log)
	googleOAuth := service.NewGoogleOAuth(googleCfg, log)
	formsClient := service.NewFormsClient(log)
	exportSvc := service.NewExportService(surveySvc, tokenRepo, formsClient, googleOAuth, log)

	router := NewRouter(&Container{
		Config:           cfg,
		AuthService:      authSvc,
		SurveyService:    surveySvc,
		GeneratorService: generatorSvc,
		ExportService:    exportSvc,
		GoogleOAuth:      googleOAuth,
		TokenRepo:        tokenRepo,
		StateCache:       stateCache,
		WSHub:            ws.NewHub(log),
		Logger:           log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, stateCache: stateCache}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	resp, body := ts.do(t, "POST", "/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{})
	resp, body := ts.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_CORS(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{})

	req, err := http.NewRequest("OPTIONS", ts.srv.URL+"/v1/surveys", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRouter_Login(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{})

	t.Run("valid", func(t *testing.T) {
		resp, body := ts.do(t, "POST", "/v1/auth/login", "", map[string]string{
			"username": "admin", "password": "secret",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
		assert.NotEmpty(t, body["userId"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		resp, _ := ts.do(t, "POST", "/v1/auth/login", "", map[string]string{
			"username": "admin", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRouter_AuthRequired(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{})

	t.Run("no token", func(t *testing.T) {
		resp, _ := ts.do(t, "GET", "/v1/surveys", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bad token", func(t *testing.T) {
		resp, _ := ts.do(t, "GET", "/v1/surveys", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRouter_Generate(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{})
	token := ts.login(t)

	t.Run("missing content", func(t *testing.T) {
		resp, _ := ts.do(t, "POST", "/v1/surveys/generate", token, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("generates and persists", func(t *testing.T) {
		resp, body := ts.do(t, "POST", "/v1/surveys/generate", token, map[string]string{
			"content": "customer feedback for a cafe",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotEmpty(t, body["id"])
		assert.NotEmpty(t, body["title"])
		questions, ok := body["questions"].([]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, questions)

		// The generated survey shows up in the owner's list.
		resp, listBody := ts.do(t, "GET", "/v1/surveys", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		surveys, ok := listBody["surveys"].([]interface{})
		require.True(t, ok)
		assert.Len(t, surveys, 1)
	})
}

func TestRouter_SurveyCRUD(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{})
	token := ts.login(t)

	save := map[string]interface{}{
		"title":       "Lunch Poll",
		"description": "Where to next Friday",
		"questions": []map[string]interface{}{
			{"id": "q1_0", "question": "Pizza or sushi?", "type": "multiple_choice", "options": []string{"Pizza", "Sushi"}},
		},
	}

	resp, body := ts.do(t, "POST", "/v1/surveys", token, save)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	surveyID, _ := body["surveyId"].(string)
	require.NotEmpty(t, surveyID)

	t.Run("get", func(t *testing.T) {
		resp, body := ts.do(t, "GET", "/v1/surveys/"+surveyID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Lunch Poll", body["title"])
	})

	t.Run("foreign user sees 404", func(t *testing.T) {
		otherToken := ts.login(t)
		resp, _ := ts.do(t, "GET", "/v1/surveys/"+surveyID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		save["title"] = "Dinner Poll"
		resp, body := ts.do(t, "PUT", "/v1/surveys/"+surveyID, token, save)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Dinner Poll", body["title"])
	})

	t.Run("delete", func(t *testing.T) {
		resp, _ := ts.do(t, "DELETE", "/v1/surveys/"+surveyID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = ts.do(t, "GET", "/v1/surveys/"+surveyID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRouter_Export(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{})
	token := ts.login(t)

	resp, body := ts.do(t, "POST", "/v1/surveys", token, map[string]interface{}{
		"title":       "t",
		"description": "d",
		"questions":   []map[string]interface{}{},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	surveyID := body["surveyId"].(string)

	t.Run("unknown survey", func(t *testing.T) {
		resp, _ := ts.do(t, "POST", "/v1/surveys/nope/export", token, map[string]string{})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unimplemented platform", func(t *testing.T) {
		resp, body := ts.do(t, "POST", "/v1/surveys/"+surveyID+"/export", token, map[string]string{
			"platform": "qualtrics",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "NOT_IMPLEMENTED", body["code"])
	})

	t.Run("google not connected", func(t *testing.T) {
		resp, body := ts.do(t, "POST", "/v1/surveys/"+surveyID+"/export", token, map[string]string{})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, true, body["requiresAuth"])
	})
}

func TestRouter_GoogleSignin(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		ts := newTestServer(t, config.GoogleConfig{})
		token := ts.login(t)
		resp, _ := ts.do(t, "GET", "/v1/auth/google/signin", token, nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("configured", func(t *testing.T) {
		ts := newTestServer(t, config.GoogleConfig{
			ClientID:     "cid",
			ClientSecret: "cs",
			RedirectURI:  "http://localhost/v1/auth/google/callback",
		})
		token := ts.login(t)
		resp, body := ts.do(t, "GET", "/v1/auth/google/signin", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		url, _ := body["url"].(string)
		assert.Contains(t, url, "accounts.google.com")
		assert.Contains(t, url, "client_id=cid")
		// The state nonce in the URL is stored for the callback.
		assert.Len(t, ts.stateCache.states, 1)
	})
}

func TestRouter_GoogleCallback(t *testing.T) {
	ts := newTestServer(t, config.GoogleConfig{ClientID: "cid", ClientSecret: "cs"})

	t.Run("missing params", func(t *testing.T) {
		resp, _ := ts.do(t, "GET", "/v1/auth/google/callback", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown state", func(t *testing.T) {
		resp, _ := ts.do(t, "GET", "/v1/auth/google/callback?code=c&state=bogus", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

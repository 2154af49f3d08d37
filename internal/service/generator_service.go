package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"formforge/internal/config"
	"formforge/internal/model"
	"formforge/internal/pipeline"

	"go.uber.org/zap"
)

// GeneratorService turns free-text content into a validated survey by
// prompting Gemini and running the raw response through the pipeline
// validator. It never hands unvalidated model output to callers.
type GeneratorService struct {
	config *config.AIConfig
	client *http.Client
	log    *zap.Logger
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(log *zap.Logger) *GeneratorService {
	cfg := config.DefaultAIConfig()
	return &GeneratorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		log: log,
	}
}

// Generate builds a survey from the given content. Without an API key it
// falls back to a canned sample response, which still goes through the
// validator like any model output.
func (s *GeneratorService) Generate(ctx context.Context, content string) (*model.Survey, error) {
	raw := sampleSurveyJSON
	if s.config.IsEnabled() {
		var err error
		raw, err = s.callGemini(ctx, s.config.Model, s.buildSurveyPrompt(content))
		if err != nil {
			return nil, fmt.Errorf("gemini call failed: %w", err)
		}
	} else {
		s.log.Warn("GEMINI_API_KEY not set, returning sample survey")
	}

	survey, err := pipeline.Validate(raw)
	if err != nil {
		s.log.Warn("model output failed validation",
			zap.String("kind", string(pipeline.KindOf(err))),
			zap.Error(err))
		return nil, err
	}
	return survey, nil
}

// callGemini makes a request to the Gemini API
func (s *GeneratorService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from gemini")
}

func (s *GeneratorService) buildSurveyPrompt(content string) string {
	return fmt.Sprintf(`Create a focused, non-repetitive survey based on the following content.
Return ONLY a valid JSON object. No markdown, no code blocks, no extra text.

Question types and when to use them:
- multiple_choice: single selection from 2-5 options
- checkbox: "select all that apply"
- dropdown: single select from long lists (>5 options), e.g. countries
- text: short specific answers
- paragraph: detailed feedback or explanations
- rating: satisfaction scores (1-5 by default)
- date / time: actual date or time inputs only
- email: collecting an email address
- number: numeric inputs like age or quantity
- section: a heading that groups the questions after it; not a question, use sparingly

Use this exact JSON structure:
{
  "title": "Clear, relevant title",
  "description": "Brief survey description",
  "settings": {
    "collectEmail": boolean,
    "confirmationMessage": "Message shown after submission",
    "allowMultipleResponses": boolean
  },
  "questions": [
    {
      "question": "Clear question text",
      "type": "one of the types above",
      "required": boolean,
      "description": "Optional helper text",
      "options": ["option1", "option2"],
      "settings": {
        "allowOther": boolean,
        "minRating": number,
        "maxRating": number,
        "ratingLabels": {"min": "Lowest label", "max": "Highest label"},
        "validation": {"min": number, "max": number, "pattern": "regex"}
      }
    }
  ]
}

Rules:
1. Never create duplicate questions with different types.
2. options is required for multiple_choice, checkbox and dropdown, with at least 2 entries.
3. Progress from general to specific questions and keep the survey efficient.

Content to create survey for: %s`, content)
}

// sampleSurveyJSON is the offline fallback used when no API key is
// configured. It exercises every major question type.
const sampleSurveyJSON = `{
  "title": "Product Feedback Survey",
  "description": "Help us understand how you use the product and what to improve.",
  "settings": {
    "collectEmail": false,
    "confirmationMessage": "Thanks for your feedback!",
    "allowMultipleResponses": false
  },
  "questions": [
    {"question": "About you", "type": "section", "required": false, "description": "A few quick background questions."},
    {"question": "How often do you use the product?", "type": "multiple_choice", "required": true, "options": ["Daily", "Weekly", "Monthly", "Rarely"]},
    {"question": "Which features do you use?", "type": "checkbox", "required": false, "options": ["Dashboard", "Reports", "Exports", "Integrations"]},
    {"question": "How satisfied are you overall?", "type": "rating", "required": true, "settings": {"minRating": 1, "maxRating": 5, "ratingLabels": {"min": "Very Dissatisfied", "max": "Very Satisfied"}}},
    {"question": "What should we improve?", "type": "paragraph", "required": false}
  ]
}`

package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"formforge/internal/model"
)

var (
	fenceOpen  = regexp.MustCompile("^```[a-zA-Z]*[ \t]*\r?\n?")
	fenceClose = regexp.MustCompile("\r?\n?```\\s*$")
)

// stripCodeFence removes a surrounding triple-backtick fence, including an
// optional language tag after the opening fence. Unfenced text is untouched.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Validate parses raw model output, repairs what it is allowed to repair and
// builds the typed Survey. The text is decoded into an untyped document first
// so field checks produce pipeline errors instead of opaque decode failures,
// and so dropdown questions can still borrow options from an earlier choice
// question before validation gives up on them.
func Validate(raw string) (*model.Survey, error) {
	candidate := stripCodeFence(raw)

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, &Error{
			Kind:          KindParseError,
			Message:       "model output is not valid JSON: " + err.Error(),
			QuestionIndex: -1,
			RawText:       raw,
			cause:         err,
		}
	}

	title, _ := doc["title"].(string)
	description, _ := doc["description"].(string)
	rawQuestions, ok := doc["questions"].([]interface{})
	if title == "" || description == "" || !ok {
		return nil, newError(KindInvalidResponse, "survey is missing title, description or a questions array")
	}

	// One timestamp per validation call keeps IDs stable relative to each
	// other within a run.
	now := time.Now().UnixMilli()

	questions := make([]model.Question, 0, len(rawQuestions))
	for i, rq := range rawQuestions {
		qm, ok := rq.(map[string]interface{})
		if !ok {
			return nil, questionError(KindInvalidQuestion, i, "", "question %d is not an object", i)
		}

		text, _ := qm["question"].(string)
		qtype, _ := qm["type"].(string)
		if text == "" || qtype == "" {
			return nil, questionError(KindInvalidQuestion, i, text, "question %d is missing its text or type", i)
		}

		q := model.Question{
			ID:          fmt.Sprintf("q%d_%d", now, i),
			Question:    text,
			Type:        model.QuestionType(qtype),
			Required:    boolField(qm, "required"),
			Description: stringField(qm, "description"),
			Options:     stringSlice(qm["options"]),
			Settings:    parseQuestionSettings(qm["settings"]),
		}

		// Sections are headings, not questions; option rules do not apply.
		if q.Type == model.TypeSection {
			questions = append(questions, q)
			continue
		}

		if q.Type.IsChoice() {
			if len(q.Options) == 0 && q.Type == model.TypeDropdown {
				donor := findDonor(questions)
				if donor == nil {
					return nil, questionError(KindInvalidOptions, i, text,
						"dropdown question %q has no options and no earlier choice question to borrow from", text)
				}
				q.Options = append([]string(nil), donor.Options...)
			} else if len(q.Options) < 2 {
				return nil, questionError(KindInvalidOptions, i, text,
					"question %q requires at least 2 options", text)
			}
		}

		questions = append(questions, q)
	}

	return &model.Survey{
		Title:       title,
		Description: description,
		Settings:    parseSurveySettings(doc["settings"]),
		Questions:   questions,
	}, nil
}

// findDonor scans the already-validated questions from the start of the list
// and returns the first checkbox or multiple-choice question with options.
func findDonor(questions []model.Question) *model.Question {
	for i := range questions {
		q := &questions[i]
		if (q.Type == model.TypeCheckbox || q.Type == model.TypeMultipleChoice) && len(q.Options) > 0 {
			return q
		}
	}
	return nil
}

func parseSurveySettings(v interface{}) model.SurveySettings {
	m, ok := v.(map[string]interface{})
	if !ok {
		return model.SurveySettings{}
	}
	return model.SurveySettings{
		CollectEmail:           boolField(m, "collectEmail"),
		ConfirmationMessage:    stringField(m, "confirmationMessage"),
		AllowMultipleResponses: boolField(m, "allowMultipleResponses"),
	}
}

func parseQuestionSettings(v interface{}) *model.QuestionSettings {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil
	}

	s := &model.QuestionSettings{
		AllowOther: boolField(m, "allowOther"),
		MinRating:  intPtr(m["minRating"]),
		MaxRating:  intPtr(m["maxRating"]),
	}

	if lm, ok := m["ratingLabels"].(map[string]interface{}); ok {
		s.RatingLabels = &model.RatingLabels{
			Min: stringField(lm, "min"),
			Max: stringField(lm, "max"),
		}
	}

	if vm, ok := m["validation"].(map[string]interface{}); ok {
		s.Validation = &model.ValidationRules{
			Min:     floatPtr(vm["min"]),
			Max:     floatPtr(vm["max"]),
			Pattern: stringField(vm, "pattern"),
		}
	}

	return s
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func intPtr(v interface{}) *int {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func floatPtr(v interface{}) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// stringSlice keeps the string entries of a decoded JSON array, in order
func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

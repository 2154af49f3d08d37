package model

import "time"

// QuestionType defines the kind of input widget a question maps to
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeCheckbox       QuestionType = "checkbox"
	TypeText           QuestionType = "text"
	TypeParagraph      QuestionType = "paragraph"
	TypeRating         QuestionType = "rating"
	TypeDropdown       QuestionType = "dropdown"
	TypeDate           QuestionType = "date"
	TypeTime           QuestionType = "time"
	TypeEmail          QuestionType = "email"
	TypeNumber         QuestionType = "number"
	TypeSection        QuestionType = "section"
)

// IsChoice reports whether the type carries an options list
func (t QuestionType) IsChoice() bool {
	return t == TypeMultipleChoice || t == TypeCheckbox || t == TypeDropdown
}

// RatingLabels are the endpoint labels of a rating scale
type RatingLabels struct {
	Min string `json:"min" bson:"min"`
	Max string `json:"max" bson:"max"`
}

// ValidationRules constrains number and email answers
type ValidationRules struct {
	Min     *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" bson:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" bson:"pattern,omitempty"`
}

// QuestionSettings holds type-dependent configuration. Rating bounds are
// pointers so a provided zero is distinguishable from an absent field.
type QuestionSettings struct {
	AllowOther   bool             `json:"allowOther,omitempty" bson:"allowOther,omitempty"`
	MinRating    *int             `json:"minRating,omitempty" bson:"minRating,omitempty"`
	MaxRating    *int             `json:"maxRating,omitempty" bson:"maxRating,omitempty"`
	RatingLabels *RatingLabels    `json:"ratingLabels,omitempty" bson:"ratingLabels,omitempty"`
	Validation   *ValidationRules `json:"validation,omitempty" bson:"validation,omitempty"`
}

// Question is a single entry in a survey's question list. Section questions
// carry no options and no response semantics; they only group what follows.
type Question struct {
	ID          string            `json:"id" bson:"id"`
	Question    string            `json:"question" bson:"question"`
	Type        QuestionType      `json:"type" bson:"type"`
	Required    bool              `json:"required" bson:"required"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Options     []string          `json:"options,omitempty" bson:"options,omitempty"`
	Settings    *QuestionSettings `json:"settings,omitempty" bson:"settings,omitempty"`
}

// SurveySettings configures survey-level behavior
type SurveySettings struct {
	CollectEmail           bool   `json:"collectEmail" bson:"collectEmail"`
	ConfirmationMessage    string `json:"confirmationMessage,omitempty" bson:"confirmationMessage,omitempty"`
	AllowMultipleResponses bool   `json:"allowMultipleResponses" bson:"allowMultipleResponses"`
}

// Survey is the validated internal representation of a generated
// questionnaire. Question order is significant and preserved on export.
type Survey struct {
	ID          string         `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID     string         `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	Settings    SurveySettings `json:"settings" bson:"settings"`
	Questions   []Question     `json:"questions" bson:"questions"`
	CreatedAt   time.Time      `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

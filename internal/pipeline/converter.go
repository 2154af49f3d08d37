package pipeline

import (
	"strings"

	"formforge/internal/model"
)

// Platform identifies an export destination
type Platform string

const (
	PlatformGoogleForms  Platform = "google_forms"
	PlatformQualtrics    Platform = "qualtrics"
	PlatformSurveyMonkey Platform = "surveymonkey"
)

// Convert transforms a validated survey into the target platform's document.
// It is a pure function: same survey and platform in, byte-identical document
// out. Only Google Forms is implemented; the other platforms fail with
// NOT_IMPLEMENTED until an implementation ships.
func Convert(survey *model.Survey, platform Platform) (*model.GoogleFormsForm, error) {
	switch platform {
	case PlatformGoogleForms:
		return convertToGoogleForms(survey)
	default:
		return nil, newError(KindNotImplemented, "platform %q is not implemented", platform)
	}
}

func convertToGoogleForms(survey *model.Survey) (*model.GoogleFormsForm, error) {
	if survey == nil || survey.Questions == nil {
		return nil, newError(KindConversionInput, "survey or its questions list is missing")
	}

	// The Forms API rejects empty titles, so never emit one.
	title := strings.TrimSpace(survey.Title)
	if title == "" {
		title = "Untitled Survey"
	}

	items := make([]model.GoogleFormsItem, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		items = append(items, convertItem(q))
	}

	return &model.GoogleFormsForm{
		Info: model.GoogleFormsInfo{
			Title:         title,
			DocumentTitle: title,
			Description:   survey.Description,
		},
		Settings: model.GoogleFormsSettings{CollectEmail: survey.Settings.CollectEmail},
		Items:    items,
	}, nil
}

func convertItem(q model.Question) model.GoogleFormsItem {
	if q.Type == model.TypeSection {
		return model.GoogleFormsItem{
			Title:       q.Question,
			Description: q.Description,
			SectionHeader: &model.SectionHeader{
				Title:       q.Question,
				Description: q.Description,
			},
		}
	}

	fq := mapQuestion(q)
	fq.Required = q.Required
	return model.GoogleFormsItem{
		Title:        q.Question,
		Description:  q.Description,
		QuestionItem: &model.QuestionItem{Question: fq},
	}
}

// mapQuestion is the type-mapping table. Unrecognized types fall back to a
// short text question so one odd entry never sinks a whole export.
func mapQuestion(q model.Question) model.FormQuestion {
	switch q.Type {
	case model.TypeText:
		return model.FormQuestion{TextQuestion: &model.TextQuestion{Paragraph: false}}
	case model.TypeParagraph:
		return model.FormQuestion{TextQuestion: &model.TextQuestion{Paragraph: true}}
	case model.TypeMultipleChoice:
		return choiceQuestion(model.ChoiceRadio, q.Options)
	case model.TypeCheckbox:
		return choiceQuestion(model.ChoiceCheckbox, q.Options)
	case model.TypeDropdown:
		return choiceQuestion(model.ChoiceDropDown, q.Options)
	case model.TypeRating:
		return scaleQuestion(q.Settings)
	case model.TypeDate:
		return model.FormQuestion{DateQuestion: &model.DateQuestion{IncludeYear: true}}
	case model.TypeTime:
		return model.FormQuestion{TimeQuestion: &model.TimeQuestion{Duration: false}}
	default:
		// email, number and anything unmapped export as plain text
		return model.FormQuestion{TextQuestion: &model.TextQuestion{Paragraph: false}}
	}
}

func choiceQuestion(ct model.ChoiceType, options []string) model.FormQuestion {
	opts := make([]model.ChoiceOption, 0, len(options))
	for _, o := range options {
		opts = append(opts, model.ChoiceOption{Value: o})
	}
	return model.FormQuestion{ChoiceQuestion: &model.ChoiceQuestion{Type: ct, Options: opts}}
}

func scaleQuestion(s *model.QuestionSettings) model.FormQuestion {
	sq := &model.ScaleQuestion{Low: 1, High: 5, LowLabel: "Lowest", HighLabel: "Highest"}
	if s != nil {
		if s.MinRating != nil {
			sq.Low = *s.MinRating
		}
		if s.MaxRating != nil {
			sq.High = *s.MaxRating
		}
		if s.RatingLabels != nil {
			sq.LowLabel = s.RatingLabels.Min
			sq.HighLabel = s.RatingLabels.Max
		}
	}
	return model.FormQuestion{ScaleQuestion: sq}
}

// BuildCreateItemRequests returns the ordered batchUpdate requests that
// populate a created form, one createItem per item tagged with its position.
func BuildCreateItemRequests(form *model.GoogleFormsForm) []model.FormsRequest {
	reqs := make([]model.FormsRequest, 0, len(form.Items))
	for i, item := range form.Items {
		reqs = append(reqs, model.FormsRequest{
			CreateItem: &model.CreateItemRequest{
				Item:     item,
				Location: model.ItemLocation{Index: i},
			},
		})
	}
	return reqs
}

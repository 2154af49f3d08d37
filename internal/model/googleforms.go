package model

// Google Forms REST v1 request shapes. These mirror the "forms.create" and
// "forms.batchUpdate" bodies, so a converted survey can be sent as-is.

// GoogleFormsForm is the full platform document produced by the converter
type GoogleFormsForm struct {
	FormID   string              `json:"formId,omitempty"`
	Info     GoogleFormsInfo     `json:"info"`
	Settings GoogleFormsSettings `json:"settings"`
	Items    []GoogleFormsItem   `json:"items"`
}

type GoogleFormsInfo struct {
	Title         string `json:"title"`
	DocumentTitle string `json:"documentTitle,omitempty"`
	Description   string `json:"description,omitempty"`
}

type GoogleFormsSettings struct {
	CollectEmail bool `json:"collectEmail"`
}

// GoogleFormsItem owns exactly one of QuestionItem or SectionHeader,
// keyed by the source question's type.
type GoogleFormsItem struct {
	ItemID        string         `json:"itemId,omitempty"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	QuestionItem  *QuestionItem  `json:"questionItem,omitempty"`
	SectionHeader *SectionHeader `json:"sectionHeader,omitempty"`
}

type SectionHeader struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type QuestionItem struct {
	Question FormQuestion `json:"question"`
}

// FormQuestion holds exactly one populated variant
type FormQuestion struct {
	Required       bool            `json:"required"`
	TextQuestion   *TextQuestion   `json:"textQuestion,omitempty"`
	ChoiceQuestion *ChoiceQuestion `json:"choiceQuestion,omitempty"`
	ScaleQuestion  *ScaleQuestion  `json:"scaleQuestion,omitempty"`
	DateQuestion   *DateQuestion   `json:"dateQuestion,omitempty"`
	TimeQuestion   *TimeQuestion   `json:"timeQuestion,omitempty"`
}

type TextQuestion struct {
	Paragraph bool `json:"paragraph"`
}

// ChoiceType is the Forms widget for a choice question
type ChoiceType string

const (
	ChoiceRadio    ChoiceType = "RADIO"
	ChoiceCheckbox ChoiceType = "CHECKBOX"
	ChoiceDropDown ChoiceType = "DROP_DOWN"
)

type ChoiceQuestion struct {
	Type    ChoiceType     `json:"type"`
	Options []ChoiceOption `json:"options"`
}

type ChoiceOption struct {
	Value string `json:"value"`
}

type ScaleQuestion struct {
	Low       int    `json:"low"`
	High      int    `json:"high"`
	LowLabel  string `json:"lowLabel,omitempty"`
	HighLabel string `json:"highLabel,omitempty"`
}

type DateQuestion struct {
	IncludeTime bool `json:"includeTime,omitempty"`
	IncludeYear bool `json:"includeYear,omitempty"`
}

type TimeQuestion struct {
	Duration bool `json:"duration"`
}

// FormsBatchUpdateRequest is the envelope for forms.batchUpdate
type FormsBatchUpdateRequest struct {
	Requests []FormsRequest `json:"requests"`
}

// FormsRequest holds exactly one populated request variant
type FormsRequest struct {
	CreateItem     *CreateItemRequest     `json:"createItem,omitempty"`
	UpdateFormInfo *UpdateFormInfoRequest `json:"updateFormInfo,omitempty"`
}

type CreateItemRequest struct {
	Item     GoogleFormsItem `json:"item"`
	Location ItemLocation    `json:"location"`
}

type ItemLocation struct {
	Index int `json:"index"`
}

type UpdateFormInfoRequest struct {
	Info       GoogleFormsInfo `json:"info"`
	UpdateMask string          `json:"updateMask"`
}

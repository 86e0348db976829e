package internal

import "encoding/json"

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
)

type Question struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options"`
	Required    bool         `json:"required"`
}

type Form struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// NewForm returns an empty form whose slices serialize as [] rather than null.
func NewForm() Form {
	return Form{Questions: []Question{}}
}

type TranslationRequest struct {
	FormURL        string `json:"form_url"`
	TargetLanguage string `json:"target_language"`
}

type TranslationResponse struct {
	Success        bool    `json:"success"`
	TranslatedForm *Form   `json:"translated_form"`
	OriginalURL    string  `json:"original_url"`
	TargetLanguage string  `json:"target_language"`
	Error          *string `json:"error"`
}

// MarshalJSON renders a missing form as {} so failed responses keep the
// translated_form key shaped as a mapping.
func (r TranslationResponse) MarshalJSON() ([]byte, error) {
	type alias TranslationResponse
	out := struct {
		alias
		TranslatedForm any `json:"translated_form"`
	}{alias: alias(r)}

	if r.TranslatedForm != nil {
		out.TranslatedForm = r.TranslatedForm
	} else {
		out.TranslatedForm = struct{}{}
	}
	return json.Marshal(out)
}

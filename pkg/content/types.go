package content

// Tone is the voice requested for the generated post. The wire value is the
// human label accepted by the generation API.
type Tone string

const (
	ToneFun          Tone = "Fun and Playful"
	ToneProfessional Tone = "Professional and Formal"
	ToneFriendly     Tone = "Friendly and Casual"
)

// Tones lists the supported tones in display order.
func Tones() []Tone {
	return []Tone{ToneFun, ToneProfessional, ToneFriendly}
}

// Valid reports whether t is one of the supported tones.
func (t Tone) Valid() bool {
	for _, candidate := range Tones() {
		if t == candidate {
			return true
		}
	}
	return false
}

// Style is the post layout requested from the generation API.
type Style string

const (
	StyleShortCaption  Style = "Short caption with 3-4 hashtags"
	StyleLongForm      Style = "Long-form storytelling"
	StyleQuestionBased Style = "Question-based engagement"
)

// Styles lists the supported styles in display order.
func Styles() []Style {
	return []Style{StyleShortCaption, StyleLongForm, StyleQuestionBased}
}

// Valid reports whether s is one of the supported styles.
func (s Style) Valid() bool {
	for _, candidate := range Styles() {
		if s == candidate {
			return true
		}
	}
	return false
}

// FormState holds the three user-editable fields.
type FormState struct {
	Description string `json:"description"`
	Tone        Tone   `json:"tone"`
	Style       Style  `json:"style"`
}

// DefaultFormState returns the state a fresh form starts with.
func DefaultFormState() FormState {
	return FormState{
		Tone:  ToneFun,
		Style: StyleShortCaption,
	}
}

// HasDescription reports whether a description was entered. Only presence
// is checked; whitespace counts as text.
func (f FormState) HasDescription() bool {
	return f.Description != ""
}

// Field names shared by the OpenAPI request body, the HTML form and the
// terminal prompts.
const (
	FieldDescription = "user_instruction"
	FieldTone        = "tone"
	FieldStyle       = "style"
)

// Value returns the value of the named field, or "" for unknown names.
func (f FormState) Value(name string) string {
	switch name {
	case FieldDescription:
		return f.Description
	case FieldTone:
		return string(f.Tone)
	case FieldStyle:
		return string(f.Style)
	default:
		return ""
	}
}

// Set assigns the named field and reports whether the name was known.
func (f *FormState) Set(name, value string) bool {
	switch name {
	case FieldDescription:
		f.Description = value
	case FieldTone:
		f.Tone = Tone(value)
	case FieldStyle:
		f.Style = Style(value)
	default:
		return false
	}
	return true
}

// Request converts the form into the generation API payload.
func (f FormState) Request() Request {
	return Request{
		UserInstruction: f.Description,
		Tone:            string(f.Tone),
		Style:           string(f.Style),
	}
}

// Request is the JSON body sent to the generation endpoint.
type Request struct {
	UserInstruction string `json:"user_instruction"`
	Tone            string `json:"tone"`
	Style           string `json:"style"`
}

// Metadata describes how the generation API produced a response.
type Metadata struct {
	ProcessingTime string `json:"processing_time"`
	ModelType      string `json:"model_type"`
}

// Response is the JSON body returned by the generation endpoint on success.
type Response struct {
	Success            bool      `json:"success"`
	Content            string    `json:"content"`
	ImagePrompt        string    `json:"image_prompt,omitempty"`
	ComplianceStatus   string    `json:"compliance_status,omitempty"`
	ComplianceFeedback string    `json:"compliance_feedback,omitempty"`
	Metadata           *Metadata `json:"metadata,omitempty"`
	Error              string    `json:"error,omitempty"`
}

// Health mirrors the generation API health payload.
type Health struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	ModelType     string `json:"model_type,omitempty"`
	APIConfigured bool   `json:"api_configured"`
}

package uischema

// Store keeps the parsed operations from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	operations map[string]Operation
}

// Operation describes the UI schema overrides for a specific OpenAPI operation.
type Operation struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig captures page-level copy.
type FormConfig struct {
	Title       string            `json:"title" yaml:"title"`
	Subtitle    string            `json:"subtitle" yaml:"subtitle"`
	Intro       string            `json:"intro" yaml:"intro"`
	Icon        string            `json:"icon" yaml:"icon"`
	SubmitLabel string            `json:"submitLabel" yaml:"submitLabel"`
	BusyLabel   string            `json:"busyLabel" yaml:"busyLabel"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// FieldConfig customises how a single field is rendered.
type FieldConfig struct {
	Order        *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	HelpText     string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Placeholder  string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Widget       string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	Rows         int               `json:"rows,omitempty" yaml:"rows,omitempty"`
	OptionLabels map[string]string `json:"optionLabels,omitempty" yaml:"optionLabels,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

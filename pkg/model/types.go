package model

import "sort"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Widgets renderers know how to draw.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetSelect   = "select"
)

// Option is one entry of a select widget.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field models an individual input inside a generated form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	HelpText    string            `json:"helpText,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	Widget      string            `json:"widget,omitempty"`
	Rows        int               `json:"rows,omitempty"`
	MinLength   *int              `json:"minLength,omitempty"`
	MaxLength   *int              `json:"maxLength,omitempty"`
	Order       int               `json:"order,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DefaultString renders the field default as a string, or "" when unset.
func (f Field) DefaultString() string {
	if f.Default == nil {
		return ""
	}
	if s, ok := f.Default.(string); ok {
		return s
	}
	value, _ := canonicalizeExtensionValue(f.Default)
	return value
}

// OptionLabel returns the display label for value, falling back to value.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// HasOption reports whether value is one of the field's options.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Clone deep-copies the field.
func (f Field) Clone() Field {
	out := f
	if len(f.Enum) > 0 {
		out.Enum = append([]any(nil), f.Enum...)
	}
	if len(f.Options) > 0 {
		out.Options = append([]Option(nil), f.Options...)
	}
	out.MinLength = copyInt(f.MinLength)
	out.MaxLength = copyInt(f.MaxLength)
	out.Metadata = cloneStrings(f.Metadata)
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Title       string            `json:"title,omitempty"`
	Subtitle    string            `json:"subtitle,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Intro       string            `json:"intro,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty"`
	BusyLabel   string            `json:"busyLabel,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Clone deep-copies the form so callers can decorate it independently.
func (m FormModel) Clone() FormModel {
	out := m
	if len(m.Fields) > 0 {
		out.Fields = make([]Field, len(m.Fields))
		for i, field := range m.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	out.Metadata = cloneStrings(m.Metadata)
	return out
}

// Field looks up a top-level field by name.
func (m *FormModel) Field(name string) (*Field, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// SortFields orders fields by Order, then by name. Fields without an explicit
// order sort after ordered ones.
func (m *FormModel) SortFields() {
	sort.SliceStable(m.Fields, func(i, j int) bool {
		a, b := m.Fields[i], m.Fields[j]
		switch {
		case a.Order == b.Order:
			return a.Name < b.Name
		case a.Order == 0:
			return false
		case b.Order == 0:
			return true
		default:
			return a.Order < b.Order
		}
	})
}

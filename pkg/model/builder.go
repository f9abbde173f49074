package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-postgen/pkg/openapi"
)

var (
	errOperationIDMissing     = errors.New("model builder: operation id is required")
	errOperationPathMissing   = errors.New("model builder: operation path is required")
	errOperationMethodMissing = errors.New("model builder: operation method is required")
)

// BuilderOption configures the builder behaviour.
type BuilderOption func(*Builder)

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(b *Builder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// Builder converts OpenAPI operations into form models.
type Builder struct {
	labeler func(string) string
}

// NewBuilder returns a Builder using DefaultLabeler unless overridden.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{labeler: DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build transforms the operation's request body into a FormModel. Only the
// top-level properties of the body become fields.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	switch {
	case op.ID == "":
		return FormModel{}, errOperationIDMissing
	case op.Path == "":
		return FormModel{}, errOperationPathMissing
	case op.Method == "":
		return FormModel{}, errOperationMethodMissing
	}

	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Title:       op.Summary,
		Summary:     op.Summary,
		Description: op.Description,
		Metadata:    make(map[string]string),
	}
	mergeMetadata(form.Metadata, ParseExtensions(op.Extensions))
	mergeMetadata(form.Metadata, ParseExtensions(op.RequestBody.Extensions))
	if label := form.Metadata["submitLabel"]; label != "" {
		form.SubmitLabel = label
	}
	if label := form.Metadata["busyLabel"]; label != "" {
		form.BusyLabel = label
	}

	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return FormModel{}, fmt.Errorf("model builder: request body of %q must be an object, got %q", op.ID, body.Type)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}
	order := make(map[string]int)
	for i, name := range orderFromExtensions(body.Extensions) {
		order[name] = i + 1
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, isRequired := required[name]
		field, err := b.field(name, body.Properties[name], isRequired)
		if err != nil {
			return FormModel{}, err
		}
		if pos, ok := order[name]; ok {
			field.Order = pos
		}
		form.Fields = append(form.Fields, field)
	}
	form.SortFields()

	if len(form.Metadata) == 0 {
		form.Metadata = nil
	}
	return form, nil
}

func (b *Builder) field(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	if schema.Type == "array" && schema.Items == nil {
		return Field{}, fmt.Errorf("model builder: array field %q missing items", name)
	}

	field := Field{
		Name:        name,
		Type:        mapType(schema.Type),
		Required:    required,
		Label:       b.labeler(name),
		Description: schema.Description,
		Default:     schema.Default,
		MinLength:   copyInt(schema.MinLength),
		MaxLength:   copyInt(schema.MaxLength),
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
		for _, value := range schema.Enum {
			str, ok := canonicalizeExtensionValue(value)
			if !ok {
				continue
			}
			field.Options = append(field.Options, Option{Value: str, Label: str})
		}
	}

	meta := ParseExtensions(schema.Extensions)
	if len(meta) > 0 {
		field.Metadata = meta
	}
	if label := meta["label"]; label != "" {
		field.Label = label
	}
	field.Placeholder = meta["placeholder"]
	field.HelpText = meta["helpText"]
	if rows, err := strconv.Atoi(meta["rows"]); err == nil && rows > 0 {
		field.Rows = rows
	}
	if order, err := strconv.Atoi(meta["order"]); err == nil && order > 0 {
		field.Order = order
	}

	field.Widget = meta["widget"]
	if field.Widget == "" {
		field.Widget = inferWidget(field)
	}
	if field.Widget == WidgetTextarea && field.Rows == 0 {
		field.Rows = 3
	}
	return field, nil
}

func inferWidget(field Field) string {
	switch {
	case len(field.Options) > 0:
		return WidgetSelect
	case field.Type == FieldTypeString:
		return WidgetText
	default:
		return ""
	}
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "array":
		return FieldTypeArray
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

func mergeMetadata(target, updates map[string]string) {
	if target == nil {
		return
	}
	for key, value := range updates {
		target[key] = value
	}
}

func copyInt(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/model"
	"github.com/goliatone/go-postgen/pkg/render"
)

// Name is the registry key of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal sessions. Render prompts
// for every field and returns the collected values serialized in the
// configured output format.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	out          io.Writer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Driver exposes the prompt driver so sessions can ask follow-up questions.
func (r *Renderer) Driver() PromptDriver {
	return r.driver
}

// Render prompts for each field, seeding answers from opts.Values, and
// serializes the result.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	for _, message := range opts.FormErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}
	state, err := r.Collect(ctx, form, opts.Values, opts.Errors)
	if err != nil {
		return nil, err
	}
	return r.serialize(form, state)
}

// Collect prompts for every field of form and returns the answers. Field
// errors are printed before the field they belong to.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, seed content.FormState, errs map[string][]string) (content.FormState, error) {
	state := seed
	for _, field := range form.Fields {
		for _, message := range errs[field.Name] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
				return content.FormState{}, err
			}
		}

		var (
			value string
			err   error
		)
		switch field.Widget {
		case model.WidgetSelect:
			value, err = r.promptSelect(ctx, field, state.Value(field.Name))
		default:
			value, err = r.promptText(ctx, field, state.Value(field.Name))
		}
		if err != nil {
			return content.FormState{}, err
		}
		if !state.Set(field.Name, value) {
			return content.FormState{}, fmt.Errorf("tui: unsupported field %q", field.Name)
		}
	}
	return state, nil
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, current string) (string, error) {
	label := r.displayLabel(field)
	help := displayHelp(field)
	validate := fieldValidator(field)

	for {
		var (
			response string
			err      error
		)
		if field.Widget == model.WidgetTextarea {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message:   label,
				Default:   current,
				Help:      help,
				Validator: validate,
			})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message:   label,
				Default:   current,
				Help:      help,
				Validator: validate,
			})
		}
		if err != nil {
			return "", err
		}

		if err := validate(response); err != nil {
			if infoErr := r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error()); infoErr != nil {
				return "", infoErr
			}
			continue
		}
		return response, nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, current string) (string, error) {
	if len(field.Options) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoOptions, field.Name)
	}

	labels := make([]string, len(field.Options))
	defaultIdx := -1
	fallbackIdx := 0
	for i, opt := range field.Options {
		labels[i] = opt.Label
		if labels[i] == "" {
			labels[i] = opt.Value
		}
		if opt.Value == current {
			defaultIdx = i
		}
		if opt.Value == field.DefaultString() {
			fallbackIdx = i
		}
	}
	if defaultIdx < 0 {
		defaultIdx = fallbackIdx
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      r.displayLabel(field),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			if infoErr := r.driver.Info(ctx, r.theme.ErrorPrefix+"invalid choice for "+field.Name); infoErr != nil {
				return "", infoErr
			}
			continue
		}
		return field.Options[idx].Value, nil
	}
}

// ShowHeader prints the form title and subtitle.
func (r *Renderer) ShowHeader(ctx context.Context, form model.FormModel) error {
	lines := []string{form.Title}
	if form.Subtitle != "" {
		lines = append(lines, form.Subtitle)
	}
	return r.info(ctx, lines...)
}

// ShowResult prints the results panel for one state.
func (r *Renderer) ShowResult(ctx context.Context, result content.Result) error {
	switch {
	case result.IsLoading():
		return r.info(ctx, render.LoadingMessage)
	case result.IsError():
		return r.info(ctx, r.theme.ErrorPrefix+result.Message)
	case result.IsSuccess():
		return r.info(ctx, successLines(result)...)
	default:
		return r.info(ctx, render.IdleMessage)
	}
}

func successLines(result content.Result) []string {
	lines := []string{render.ContentHeading, result.Content}
	if result.ImagePrompt != "" {
		lines = append(lines, "", render.ImagePromptHeading, result.ImagePrompt)
	}
	if result.ComplianceStatus != "" {
		lines = append(lines, "", render.ComplianceHeading+" "+result.ComplianceStatus)
		if result.ComplianceFeedback != "" {
			lines = append(lines, result.ComplianceFeedback)
		}
	}
	if meta := result.Metadata; meta != nil {
		var parts []string
		if meta.ProcessingTime != "" {
			parts = append(parts, render.TimeLabel+" "+meta.ProcessingTime)
		}
		if meta.ModelType != "" {
			parts = append(parts, render.ModelLabel+" "+meta.ModelType)
		}
		if len(parts) > 0 {
			lines = append(lines, "", strings.Join(parts, "  "))
		}
	}
	return lines
}

func (r *Renderer) info(ctx context.Context, lines ...string) error {
	for _, line := range lines {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) serialize(form model.FormModel, state content.FormState) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, field := range form.Fields {
			values.Set(field.Name, state.Value(field.Name))
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range form.Fields {
			fmt.Fprintf(&b, "%s: %s\n", r.displayLabel(field), state.Value(field.Name))
		}
		return []byte(b.String()), nil
	default:
		payload, err := json.Marshal(state.Request())
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return payload, nil
	}
}

func (r *Renderer) displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}
	return r.theme.PromptPrefix + label
}

func displayHelp(field model.Field) string {
	if field.HelpText != "" {
		return field.HelpText
	}
	if field.Placeholder != "" {
		return field.Placeholder
	}
	return field.Description
}

func fieldValidator(field model.Field) func(string) error {
	return func(value string) error {
		if value == "" {
			if field.Required {
				return fmt.Errorf("%s is required", displayName(field))
			}
			return nil
		}
		length := utf8.RuneCountInString(value)
		if field.MinLength != nil && length < *field.MinLength {
			return fmt.Errorf("%s must be at least %d characters", displayName(field), *field.MinLength)
		}
		if field.MaxLength != nil && length > *field.MaxLength {
			return fmt.Errorf("%s must be at most %d characters", displayName(field), *field.MaxLength)
		}
		return nil
	}
}

func displayName(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

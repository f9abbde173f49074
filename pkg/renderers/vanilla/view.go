package vanilla

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/model"
	"github.com/goliatone/go-postgen/pkg/render"
)

type pageView struct {
	Title        string      `json:"title"`
	Subtitle     string      `json:"subtitle"`
	Intro        string      `json:"intro"`
	Icon         string      `json:"icon"`
	FormHeading  string      `json:"formHeading"`
	Method       string      `json:"method"`
	Action       string      `json:"action"`
	SubmitLabel  string      `json:"submitLabel"`
	BusyLabel    string      `json:"busyLabel"`
	Disabled     bool        `json:"disabled"`
	Fields       []fieldView `json:"fields"`
	FormErrors   []string    `json:"formErrors"`
	Result       resultView  `json:"result"`
	IdleText     string      `json:"idleText"`
	LoadingText  string      `json:"loadingText"`
	Theme        themeView   `json:"theme"`
	InlineStyles string      `json:"inlineStyles"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Widget      string       `json:"widget"`
	Rows        string       `json:"rows"`
	Placeholder string       `json:"placeholder"`
	HelpText    string       `json:"helpText"`
	Required    bool         `json:"required"`
	MinLength   string       `json:"minLength"`
	MaxLength   string       `json:"maxLength"`
	Value       string       `json:"value"`
	Options     []optionView `json:"options"`
	Errors      []string     `json:"errors"`
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type resultView struct {
	State              string        `json:"state"`
	Message            string        `json:"message"`
	Content            string        `json:"content"`
	ImagePrompt        string        `json:"imagePrompt"`
	ComplianceStatus   string        `json:"complianceStatus"`
	ComplianceFeedback string        `json:"complianceFeedback"`
	Metadata           *metadataView `json:"metadata"`
}

type metadataView struct {
	ProcessingTime string `json:"processingTime"`
	ModelType      string `json:"modelType"`
}

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
}

func buildPage(form model.FormModel, opts render.RenderOptions) pageView {
	page := pageView{
		Title:       firstNonEmpty(form.Title, form.Summary, FormHeading),
		Subtitle:    form.Subtitle,
		Intro:       form.Intro,
		Icon:        form.Icon,
		FormHeading: firstNonEmpty(metadataString(form.Metadata, "heading"), FormHeading),
		Method:      "post",
		Action:      opts.Action,
		SubmitLabel: firstNonEmpty(form.SubmitLabel, DefaultSubmitLabel),
		BusyLabel:   firstNonEmpty(form.BusyLabel, DefaultBusyLabel),
		Disabled:    opts.Disabled(),
		FormErrors:  render.MergeFormErrors(nil, opts.FormErrors...),
		Result:      buildResult(opts.Result),
		IdleText:    IdleText,
		LoadingText: LoadingText,
		Theme:       buildTheme(opts),
	}
	if strings.EqualFold(form.Method, "GET") {
		page.Method = "get"
	}
	if page.Theme.Stylesheet == "" {
		page.InlineStyles = defaultStylesheet()
	}

	for _, field := range form.Fields {
		if field.Widget == "" {
			continue
		}
		page.Fields = append(page.Fields, buildField(field, opts))
	}
	return page
}

func buildField(field model.Field, opts render.RenderOptions) fieldView {
	value := opts.Values.Value(field.Name)
	if value == "" && field.Widget == model.WidgetSelect {
		value = field.DefaultString()
	}

	view := fieldView{
		ID:          "postgen-" + strings.ReplaceAll(field.Name, "_", "-"),
		Name:        field.Name,
		Label:       field.Label,
		Widget:      field.Widget,
		Placeholder: field.Placeholder,
		HelpText:    field.HelpText,
		Required:    field.Required,
		Value:       value,
		Errors:      render.MergeFormErrors(nil, opts.Errors[field.Name]...),
	}
	// Numbers are formatted here; the template context would print floats.
	if field.Rows > 0 {
		view.Rows = strconv.Itoa(field.Rows)
	}
	if field.MinLength != nil && *field.MinLength > 0 {
		view.MinLength = strconv.Itoa(*field.MinLength)
	}
	if field.MaxLength != nil && *field.MaxLength > 0 {
		view.MaxLength = strconv.Itoa(*field.MaxLength)
	}
	for _, opt := range field.Options {
		view.Options = append(view.Options, optionView{
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: opt.Value == value,
		})
	}
	return view
}

func buildResult(result content.Result) resultView {
	state := result.State
	if state == "" {
		state = content.StateIdle
	}
	view := resultView{
		State:              string(state),
		Message:            result.Message,
		Content:            result.Content,
		ImagePrompt:        result.ImagePrompt,
		ComplianceStatus:   result.ComplianceStatus,
		ComplianceFeedback: result.ComplianceFeedback,
	}
	if result.Metadata != nil {
		view.Metadata = &metadataView{
			ProcessingTime: result.Metadata.ProcessingTime,
			ModelType:      result.Metadata.ModelType,
		}
	}
	return view
}

func buildTheme(opts render.RenderOptions) themeView {
	cfg := opts.Theme
	if cfg == nil {
		return themeView{}
	}
	view := themeView{Name: cfg.Theme, Variant: cfg.Variant}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(render.StylesheetAsset)
	}

	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+cfg.CSSVars[key])
	}
	view.Style = strings.Join(parts, "; ")
	return view
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func metadataString(meta map[string]string, key string) string {
	if meta == nil {
		return ""
	}
	return meta[key]
}

package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-postgen/pkg/content"
)

// RenderOptions describe per-request data renderers use to draw the form
// and the results panel without mutating the form model pipeline.
type RenderOptions struct {
	// Action is the URL the form posts back to. Empty keeps the current page.
	Action string
	// Values pre-populates the controls.
	Values content.FormState
	// Result drives the results panel.
	Result content.Result
	// Busy disables the submit control. Renderers also treat a Loading
	// result as busy.
	Busy bool
	// Errors surfaces validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages that belong to no single field.
	FormErrors []string
	// Theme carries the resolved go-theme configuration.
	Theme *theme.RendererConfig
}

// Disabled reports whether the submit control must be disabled.
func (o RenderOptions) Disabled() bool {
	return o.Busy || o.Result.IsLoading()
}

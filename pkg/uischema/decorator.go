package uischema

import (
	"fmt"

	pkgmodel "github.com/goliatone/go-postgen/pkg/model"
)

// Decorator applies UI schema overrides to a form model.
type Decorator struct {
	store *Store
}

var _ pkgmodel.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate augments the supplied form model. When no matching operation is
// found the form is left untouched.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store.Empty() || form == nil {
		return nil
	}
	op, ok := d.store.Operation(form.OperationID)
	if !ok {
		return nil
	}

	applyFormConfig(form, op.Form)

	for name, cfg := range op.Fields {
		field, ok := form.Field(name)
		if !ok {
			return fmt.Errorf("uischema: operation %q (file %s) configures unknown field %q", op.ID, op.Source, name)
		}
		if err := applyFieldConfig(field, cfg); err != nil {
			return fmt.Errorf("uischema: operation %q field %q: %w", op.ID, name, err)
		}
	}
	form.SortFields()
	return nil
}

func applyFormConfig(form *pkgmodel.FormModel, cfg FormConfig) {
	setIfNotEmpty(&form.Title, cfg.Title)
	setIfNotEmpty(&form.Subtitle, cfg.Subtitle)
	setIfNotEmpty(&form.SubmitLabel, cfg.SubmitLabel)
	setIfNotEmpty(&form.BusyLabel, cfg.BusyLabel)
	setIfNotEmpty(&form.Intro, sanitizeIntroMarkup(cfg.Intro))
	setIfNotEmpty(&form.Icon, sanitizeIconMarkup(cfg.Icon))
	form.Metadata = mergeStringMap(form.Metadata, cfg.Metadata)
}

func applyFieldConfig(field *pkgmodel.Field, cfg FieldConfig) error {
	setIfNotEmpty(&field.Label, cfg.Label)
	setIfNotEmpty(&field.Description, cfg.Description)
	setIfNotEmpty(&field.HelpText, cfg.HelpText)
	setIfNotEmpty(&field.Placeholder, cfg.Placeholder)

	if cfg.Widget != "" {
		switch cfg.Widget {
		case pkgmodel.WidgetText, pkgmodel.WidgetTextarea:
		case pkgmodel.WidgetSelect:
			if len(field.Options) == 0 {
				return fmt.Errorf("select widget requires enum options")
			}
		default:
			return fmt.Errorf("unknown widget %q", cfg.Widget)
		}
		field.Widget = cfg.Widget
	}
	if cfg.Rows > 0 {
		field.Rows = cfg.Rows
	}
	if cfg.Order != nil {
		field.Order = *cfg.Order
	}
	for value, label := range cfg.OptionLabels {
		if !field.HasOption(value) {
			return fmt.Errorf("option label for unknown value %q", value)
		}
		for i := range field.Options {
			if field.Options[i].Value == value {
				field.Options[i].Label = label
			}
		}
	}
	field.Metadata = mergeStringMap(field.Metadata, cfg.Metadata)
	return nil
}

func setIfNotEmpty(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

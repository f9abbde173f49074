package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-postgen/pkg/content"
	pkgmodel "github.com/goliatone/go-postgen/pkg/model"
	"github.com/goliatone/go-postgen/pkg/testsupport"
	"github.com/goliatone/go-postgen/pkg/uischema"
)

func baseForm() pkgmodel.FormModel {
	return pkgmodel.FormModel{
		OperationID: "generateContent",
		Title:       "Create Content",
		Fields: []pkgmodel.Field{
			{Name: "style", Label: "Style", Widget: pkgmodel.WidgetSelect, Options: []pkgmodel.Option{{Value: "a", Label: "a"}}},
			{Name: "tone", Label: "Tone", Widget: pkgmodel.WidgetSelect, Options: []pkgmodel.Option{{Value: "b", Label: "b"}}},
			{Name: "user_instruction", Label: "User Instruction", Widget: pkgmodel.WidgetText},
		},
	}
}

func TestDecorator_DefaultSchema(t *testing.T) {
	store, err := uischema.LoadDefault()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}

	form := baseForm()
	if err := uischema.NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	if form.Title != "AI Social Media Generator" || form.Subtitle != "Powered by Cloud AI" {
		t.Fatalf("unexpected heading %q / %q", form.Title, form.Subtitle)
	}
	if form.SubmitLabel != "Generate Content" || form.BusyLabel != "Generating..." {
		t.Fatalf("unexpected button labels %q / %q", form.SubmitLabel, form.BusyLabel)
	}
	if !strings.HasPrefix(form.Icon, "<svg") {
		t.Fatalf("icon not kept: %q", form.Icon)
	}

	var labels []string
	for _, field := range form.Fields {
		labels = append(labels, field.Label)
	}
	if diff := cmp.Diff([]string{"Description", "Tone", "Style"}, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	description := form.Fields[0]
	if description.Widget != pkgmodel.WidgetTextarea || description.Rows != 4 {
		t.Fatalf("unexpected description widget: %+v", description)
	}
	if description.Placeholder != "E.g., Create Instagram post for eco-friendly water bottles" {
		t.Fatalf("unexpected placeholder %q", description.Placeholder)
	}
}

func TestDecorator_EmbeddedDocumentForm(t *testing.T) {
	store, err := uischema.LoadDefault()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}

	form := testsupport.GenerateForm(t)
	if err := uischema.NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	var names []string
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	want := []string{content.FieldDescription, content.FieldTone, content.FieldStyle}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	tone, ok := form.Field(content.FieldTone)
	if !ok {
		t.Fatalf("tone field missing")
	}
	if !tone.HasOption(string(content.ToneProfessional)) || tone.DefaultString() != string(content.ToneFun) {
		t.Fatalf("unexpected tone field: %+v", tone)
	}
}

func TestDecorator_SanitizesMarkupAndOptionLabels(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{"ui.yaml": {Data: []byte(`
operations:
  generateContent:
    form:
      intro: '<p>Hi <strong>there</strong><script>alert(1)</script></p>'
      icon: '<svg><path d="M0 0"/><script>alert(1)</script></svg>'
    fields:
      tone:
        optionLabels:
          b: Bee
`)}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	form := baseForm()
	if err := uischema.NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if form.Intro != "<p>Hi <strong>there</strong></p>" {
		t.Fatalf("intro not sanitised: %q", form.Intro)
	}
	if strings.Contains(form.Icon, "script") {
		t.Fatalf("icon not sanitised: %q", form.Icon)
	}
	tone, _ := form.Field("tone")
	if tone.OptionLabel("b") != "Bee" {
		t.Fatalf("option label not applied: %+v", tone.Options)
	}
	if form.Title != "Create Content" {
		t.Fatalf("title should be untouched, got %q", form.Title)
	}
}

func TestDecorator_RejectsUnknownTargets(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "operations:\n  generateContent:\n    fields:\n      nope: {label: x}\n",
		"unknown widget":  "operations:\n  generateContent:\n    fields:\n      tone: {widget: slider}\n",
		"select w/o enum": "operations:\n  generateContent:\n    fields:\n      user_instruction: {widget: select}\n",
		"unknown option":  "operations:\n  generateContent:\n    fields:\n      tone: {optionLabels: {zzz: Z}}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			store, err := uischema.LoadFS(fstest.MapFS{"ui.yaml": {Data: []byte(doc)}})
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			form := baseForm()
			if err := uischema.NewDecorator(store).Decorate(&form); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDecorator_NoMatchingOperation(t *testing.T) {
	form := baseForm()
	want := baseForm()
	if err := uischema.NewDecorator(nil).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form changed (-want +got):\n%s", diff)
	}
}

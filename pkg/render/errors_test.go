package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-postgen/pkg/model"
	"github.com/goliatone/go-postgen/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "user_instruction"},
			{Name: "tone"},
			{Name: "style"},
		},
	}

	payload := map[string][]string{
		"user_instruction":   {"Description is required", "  "},
		"/body/tone":         {"Unknown tone"},
		"body.style[0]":      {"Unknown style"},
		"non_field_errors":   {"Form level error"},
		"request/body/other": {"Falls back to form errors"},
		"":                   {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"user_instruction": {"Description is required"},
		"tone":             {"Unknown tone"},
		"style":            {"Unknown style"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Falls back to form errors", "Form level error", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

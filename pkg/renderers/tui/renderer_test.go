package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-postgen/pkg/client"
	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/controller"
	"github.com/goliatone/go-postgen/pkg/model"
	"github.com/goliatone/go-postgen/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) output() string {
	return strings.Join(s.infoMessages, "\n")
}

func formFixture() model.FormModel {
	minLen := 1
	tones := make([]model.Option, 0, len(content.Tones()))
	for _, tone := range content.Tones() {
		tones = append(tones, model.Option{Value: string(tone), Label: string(tone)})
	}
	styles := make([]model.Option, 0, len(content.Styles()))
	for _, style := range content.Styles() {
		styles = append(styles, model.Option{Value: string(style), Label: string(style)})
	}
	return model.FormModel{
		OperationID: "generateContent",
		Title:       "AI Social Media Generator",
		Subtitle:    "Powered by Cloud AI",
		Fields: []model.Field{
			{Name: content.FieldDescription, Label: "Description", Required: true, Widget: model.WidgetTextarea, Rows: 4, MinLength: &minLen},
			{Name: content.FieldTone, Label: "Tone", Widget: model.WidgetSelect, Default: string(content.ToneFun), Options: tones},
			{Name: content.FieldStyle, Label: "Style", Widget: model.WidgetSelect, Default: string(content.StyleShortCaption), Options: styles},
		},
	}
}

func TestRenderer_RenderCollectsJSON(t *testing.T) {
	driver := &stubDriver{
		textAreas: []string{"Launch post for a bakery"},
		selectIdx: []int{1, 2},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), formFixture(), render.RenderOptions{Values: content.DefaultFormState()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got content.Request
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := content.Request{
		UserInstruction: "Launch post for a bakery",
		Tone:            string(content.Tones()[1]),
		Style:           string(content.Styles()[2]),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected values mismatch (-want +got):\n%s", diff)
	}
	if r.ContentType() != "application/json" {
		t.Fatalf("content type: got %q", r.ContentType())
	}
}

func TestRenderer_SelectDefaultsFollowSeed(t *testing.T) {
	driver := &stubDriver{textAreas: []string{"x"}, selectIdx: []int{0, 0}}
	r, _ := New(WithPromptDriver(driver))

	seed := content.FormState{Tone: content.ToneFriendly}
	if _, err := r.Collect(context.Background(), formFixture(), seed, nil); err != nil {
		t.Fatalf("collect: %v", err)
	}

	got := []int{driver.selectCfgs[0].DefaultIndex, driver.selectCfgs[1].DefaultIndex}
	if diff := cmp.Diff([]int{2, 0}, got); diff != "" {
		t.Fatalf("default index mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_RequiredDescriptionReprompts(t *testing.T) {
	driver := &stubDriver{
		textAreas: []string{"", "Second try"},
		selectIdx: []int{0, 0},
	}
	r, _ := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), formFixture(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(driver.output(), "Description is required") {
		t.Fatalf("expected required message, got %q", driver.output())
	}
	if !strings.HasPrefix(string(out), "Description: Second try\n") {
		t.Fatalf("unexpected pretty output %q", out)
	}
}

func TestRenderer_FormURLEncoded(t *testing.T) {
	driver := &stubDriver{textAreas: []string{"a b"}, selectIdx: []int{0, 0}}
	r, _ := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))

	out, err := r.Render(context.Background(), formFixture(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "user_instruction=a+b") {
		t.Fatalf("unexpected form output %q", out)
	}
}

func TestRenderer_SelectWithoutOptions(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{{Name: content.FieldTone, Widget: model.WidgetSelect}}}
	r, _ := New(WithPromptDriver(&stubDriver{}))

	_, err := r.Collect(context.Background(), form, content.FormState{}, nil)
	if !errors.Is(err, ErrNoOptions) {
		t.Fatalf("expected ErrNoOptions, got %v", err)
	}
}

func TestRenderer_ShowResultStates(t *testing.T) {
	cases := map[string]struct {
		result   content.Result
		contains []string
		absent   []string
	}{
		"idle":    {result: content.Idle(), contains: []string{render.IdleMessage}},
		"loading": {result: content.Loading(), contains: []string{render.LoadingMessage}},
		"error":   {result: content.Failed("bad input"), contains: []string{"Error: bad input"}},
		"success": {
			result: content.Succeeded(content.Response{
				Content:     "Hello #one",
				ImagePrompt: "sunrise",
				Metadata:    &content.Metadata{ProcessingTime: "2.1s", ModelType: "cloud"},
			}),
			contains: []string{render.ContentHeading, "Hello #one", render.ImagePromptHeading, "sunrise", "Time: 2.1s", "Model: cloud"},
		},
		"success without extras": {
			result:   content.Succeeded(content.Response{Content: "Plain"}),
			contains: []string{"Plain"},
			absent:   []string{render.ImagePromptHeading, render.TimeLabel, render.ModelLabel},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			driver := &stubDriver{}
			r, _ := New(WithPromptDriver(driver))
			if err := r.ShowResult(context.Background(), tc.result); err != nil {
				t.Fatalf("show result: %v", err)
			}
			for _, fragment := range tc.contains {
				if !strings.Contains(driver.output(), fragment) {
					t.Fatalf("expected %q in %q", fragment, driver.output())
				}
			}
			for _, fragment := range tc.absent {
				if strings.Contains(driver.output(), fragment) {
					t.Fatalf("did not expect %q in %q", fragment, driver.output())
				}
			}
		})
	}
}

type stubGenerator struct {
	requests []content.Request
	resp     content.Response
	err      error
}

func (s *stubGenerator) Generate(_ context.Context, req content.Request) (content.Response, error) {
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

func TestSession_RunSubmitsOnce(t *testing.T) {
	gen := &stubGenerator{resp: content.Response{Success: true, Content: "Fresh bread #bakery"}}
	ctrl, err := controller.New(gen)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	driver := &stubDriver{textAreas: []string{"Bakery launch"}, selectIdx: []int{0, 0}}
	r, _ := New(WithPromptDriver(driver))

	session, err := NewSession(r, ctrl, formFixture())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	result, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(gen.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(gen.requests))
	}
	out := driver.output()
	for _, fragment := range []string{"AI Social Media Generator", render.IdleMessage, render.LoadingMessage, "Fresh bread #bakery"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output %q", fragment, out)
		}
	}
}

func TestSession_RepeatUntilDeclined(t *testing.T) {
	gen := &stubGenerator{err: &client.APIError{StatusCode: 500, Detail: "quota exceeded"}}
	ctrl, _ := controller.New(gen)
	driver := &stubDriver{
		textAreas: []string{"one", "two"},
		selectIdx: []int{0, 0, 0, 0},
		confirm:   []bool{true, false},
	}
	r, _ := New(WithPromptDriver(driver))

	session, _ := NewSession(r, ctrl, formFixture(), WithRepeat(true))
	result, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.IsError() || result.Message != "quota exceeded" {
		t.Fatalf("expected error result, got %+v", result)
	}
	if len(gen.requests) != 2 {
		t.Fatalf("expected two requests, got %d", len(gen.requests))
	}
	if gen.requests[1].UserInstruction != "two" {
		t.Fatalf("second request: got %q", gen.requests[1].UserInstruction)
	}
}

func TestNewSession_Validates(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{}))
	if _, err := NewSession(nil, nil, model.FormModel{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if _, err := NewSession(r, nil, model.FormModel{}); err == nil {
		t.Fatalf("expected error for nil controller")
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-postgen/internal/config"
	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/render"
	"github.com/goliatone/go-postgen/pkg/renderers/tui"
)

// answerDriver types description into the text area and accepts every
// default.
type answerDriver struct {
	description string
}

func (d answerDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	return cfg.Default, nil
}

func (d answerDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	return cfg.Default, nil
}

func (d answerDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	return cfg.DefaultIndex, nil
}

func (d answerDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return d.description, nil
}

func (d answerDriver) Info(context.Context, string) error { return nil }

func renderWith(t *testing.T, format tui.OutputFormat, rendererName string) []byte {
	t.Helper()
	registry, err := newRegistry(io.Discard, format, answerDriver{description: "Bakery launch"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	cfg := &config.Config{UI: config.UIConfig{Theme: render.DefaultThemeName, Variant: render.DefaultThemeVariant}}
	orch, req, err := buildOrchestrator(cfg, zap.NewNop(), registry)
	if err != nil {
		t.Fatalf("build orchestrator: %v", err)
	}
	req.Renderer = rendererName
	req.RenderOptions = render.RenderOptions{Values: content.DefaultFormState()}
	out, err := orch.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestRegistry_TerminalRendererWritesRequestBody(t *testing.T) {
	var got content.Request
	if err := json.Unmarshal(renderWith(t, tui.OutputFormatJSON, tui.Name), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := content.Request{
		UserInstruction: "Bakery launch",
		Tone:            string(content.ToneFun),
		Style:           string(content.StyleShortCaption),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_TerminalRendererFormats(t *testing.T) {
	form := string(renderWith(t, tui.OutputFormatFormURLEncoded, tui.Name))
	if !strings.Contains(form, "user_instruction=Bakery+launch") {
		t.Fatalf("unexpected form output %q", form)
	}
	pretty := string(renderWith(t, tui.OutputFormatPrettyText, tui.Name))
	if !strings.Contains(pretty, "Description: Bakery launch\n") {
		t.Fatalf("unexpected pretty output %q", pretty)
	}
}

func TestRegistry_DefaultsToPage(t *testing.T) {
	page := string(renderWith(t, tui.OutputFormatJSON, ""))
	if !strings.Contains(page, `name="user_instruction"`) {
		t.Fatalf("expected the html page by default")
	}
}

func TestNewRegistry_RejectsUnknownFormat(t *testing.T) {
	if _, err := newRegistry(io.Discard, tui.OutputFormat("xml"), nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRun_InvalidEnvEndpointOverriddenByFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGEN_API_ENDPOINT", "ftp://example.com")

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"render", "-endpoint", "http://localhost:9000"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRun_RenderWritesStandalonePage(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	output := filepath.Join(t.TempDir(), "form.html")
	err := run(context.Background(), []string{"render", "-output", output, "-variant", "dark"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	page := string(data)
	if !strings.Contains(page, `name="user_instruction"`) {
		t.Fatalf("rendered page missing description field")
	}
	if strings.Contains(page, "/assets/postgen.css") {
		t.Fatalf("standalone page should inline its stylesheet")
	}
	if !strings.Contains(page, "#111827") {
		t.Fatalf("dark variant tokens missing")
	}
	if !strings.Contains(stdout.String(), "Output written to "+output) {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
}

func TestRun_RenderToStdout(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"render"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(stdout.String()), "<!DOCTYPE html>") {
		t.Fatalf("expected html on stdout, got %q", stdout.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown command", args: []string{"publish"}, want: `unknown command "publish"`},
		{name: "bad endpoint", args: []string{"render", "-endpoint", "ftp://example.com"}, want: "endpoint"},
		{name: "unknown theme", args: []string{"render", "-theme", "missing"}, want: `unknown theme "missing"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

package postgen_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-postgen"
	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/testsupport"
)

func TestGenerateHTML(t *testing.T) {
	html, err := postgen.GenerateHTML(testsupport.Context(), postgen.RenderOptions{
		Values: content.DefaultFormState(),
		Result: content.Idle(),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	page := string(html)
	for _, want := range []string{`name="user_instruction"`, `name="tone"`, `name="style"`} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %s", want)
		}
	}
}

func TestGenerateHTMLFromDocument(t *testing.T) {
	doc := testsupport.EmbeddedDocument(t)
	html, err := postgen.GenerateHTMLFromDocument(testsupport.Context(), doc, postgen.RenderOptions{
		Result: content.Failed("upstream down"),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(html), "upstream down") {
		t.Fatalf("error message not rendered")
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.Stat(postgen.EmbeddedTemplates(), "page.tmpl"); err != nil {
		t.Fatalf("page template: %v", err)
	}
	if _, err := fs.Stat(postgen.AssetsFS(), "postgen.css"); err != nil {
		t.Fatalf("stylesheet: %v", err)
	}
}

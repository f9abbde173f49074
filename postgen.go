// Package postgen turns the generation API's OpenAPI description into a
// social post form and drives it from a browser or a terminal.
//
// The root package re-exports the common entry points so a caller can go from
// the embedded description to rendered HTML with one import:
//
//	html, err := postgen.GenerateHTML(ctx, postgen.RenderOptions{
//		Values: content.DefaultFormState(),
//	})
package postgen

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-postgen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-postgen/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-postgen/pkg/openapi"
	"github.com/goliatone/go-postgen/pkg/orchestrator"
	"github.com/goliatone/go-postgen/pkg/render"
	"github.com/goliatone/go-postgen/pkg/renderers/vanilla"
)

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the module root.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// GenerateHTML renders the generation form from the embedded description
// with the default renderer.
func GenerateHTML(ctx context.Context, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Render(ctx, orchestrator.Request{
		Source:        pkgopenapi.EmbeddedSource(),
		OperationID:   pkgopenapi.GenerateOperationID,
		RenderOptions: opts,
	})
}

// GenerateHTMLFromDocument renders the generation form from a pre-loaded
// document, bypassing the loader.
func GenerateHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Render(ctx, orchestrator.Request{
		Document:      &doc,
		OperationID:   pkgopenapi.GenerateOperationID,
		RenderOptions: opts,
	})
}

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet the page links, for callers mounting the
// form in their own mux:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(postgen.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

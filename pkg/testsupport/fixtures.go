// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	internalLoader "github.com/goliatone/go-postgen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-postgen/internal/openapi/parser"
	pkgmodel "github.com/goliatone/go-postgen/pkg/model"
	pkgopenapi "github.com/goliatone/go-postgen/pkg/openapi"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// EmbeddedDocumentBytes returns the raw embedded OpenAPI description.
func EmbeddedDocumentBytes(t testing.TB) []byte {
	t.Helper()
	data, err := fs.ReadFile(pkgopenapi.EmbeddedFS(), pkgopenapi.EmbeddedDocumentName)
	if err != nil {
		t.Fatalf("read embedded document: %v", err)
	}
	return data
}

// WriteEmbeddedDocument copies the embedded description into dir and returns
// the file path, for tests exercising file sources.
func WriteEmbeddedDocument(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.Base(pkgopenapi.EmbeddedDocumentName))
	if err := os.WriteFile(path, EmbeddedDocumentBytes(t), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

// EmbeddedDocument loads the embedded description through the loader.
func EmbeddedDocument(t testing.TB) pkgopenapi.Document {
	t.Helper()
	doc, err := internalLoader.New(pkgopenapi.NewLoaderOptions()).Load(Context(), pkgopenapi.EmbeddedSource())
	if err != nil {
		t.Fatalf("load embedded document: %v", err)
	}
	return doc
}

// GenerateOperation parses the embedded description and returns the content
// generation operation.
func GenerateOperation(t testing.TB) pkgopenapi.Operation {
	t.Helper()
	ops, err := internalParser.New(pkgopenapi.NewParserOptions()).Operations(Context(), EmbeddedDocument(t))
	if err != nil {
		t.Fatalf("parse embedded document: %v", err)
	}
	op, ok := ops[pkgopenapi.GenerateOperationID]
	if !ok {
		t.Fatalf("operation %q missing", pkgopenapi.GenerateOperationID)
	}
	return op
}

// GenerateForm builds the undecorated form model for the generation
// operation.
func GenerateForm(t testing.TB) pkgmodel.FormModel {
	t.Helper()
	form, err := pkgmodel.NewBuilder().Build(GenerateOperation(t))
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return form
}

// CaptureOutput runs render against a buffer and returns both the returned
// string and what was written, so tests can check they agree.
func CaptureOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}

package openapi

import (
	"embed"
	"io/fs"
)

// GenerateOperationID names the operation the content form is built from.
const GenerateOperationID = "generateContent"

// EmbeddedDocumentName is the path of the bundled description inside
// EmbeddedFS.
const EmbeddedDocumentName = "generation.yaml"

//go:embed spec/generation.yaml
var embeddedSpec embed.FS

// EmbeddedFS exposes the bundled generation API description.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSpec, "spec")
	if err != nil {
		return embeddedSpec
	}
	return sub
}

type embeddedSource struct{}

func (embeddedSource) Location() string { return EmbeddedDocumentName }
func (embeddedSource) Kind() SourceKind { return SourceKindEmbedded }

// EmbeddedSource returns the Source for the bundled description.
func EmbeddedSource() Source {
	return embeddedSource{}
}

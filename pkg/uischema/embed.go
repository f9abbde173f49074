package uischema

import (
	"embed"
	"io/fs"
)

//go:embed ui/schema/*
var embeddedSchema embed.FS

// EmbeddedFS returns the bundled UI schema. Callers may pass this filesystem
// to LoadFS to use the default copy for the generation form.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "ui/schema")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadDefault parses the bundled UI schema.
func LoadDefault() (*Store, error) {
	return LoadFS(EmbeddedFS())
}

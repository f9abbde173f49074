package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile points at an OpenAPI document on disk.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS points at a document inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL points at a remote document, typically the generation API's
// own /openapi.json. It panics on malformed URLs.
func SourceFromURL(raw string) Source {
	src, err := ParseURLSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseURLSource is the error-returning form of SourceFromURL.
func ParseURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

// ParseSource picks a Source kind from a user supplied location: http(s)
// URLs load remotely, anything else is read from disk. An empty location
// returns the embedded generation API description.
func ParseSource(raw string) (Source, error) {
	location := strings.TrimSpace(raw)
	switch {
	case location == "":
		return EmbeddedSource(), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return ParseURLSource(location)
	default:
		return SourceFromFile(location), nil
	}
}

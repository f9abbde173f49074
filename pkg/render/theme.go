package render

import (
	"fmt"
	"path"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Default theme identifiers.
const (
	DefaultThemeName    = "postgen"
	DefaultThemeVariant = "light"

	// StylesheetAsset is the asset key renderers link as the page stylesheet.
	StylesheetAsset = "stylesheet"
)

// DefaultManifest returns the built-in theme: the purple brand gradient on a
// white card, plus a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand-start":   "#667eea",
			"brand-end":     "#764ba2",
			"surface":       "#ffffff",
			"text":          "#1f2937",
			"muted":         "#6b7280",
			"border":        "#e5e7eb",
			"error":         "#b91c1c",
			"error-surface": "#fef2f2",
			"panel":         "#f9fafb",
			"radius":        "12px",
		},
		Templates: map[string]string{
			"page": "page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetAsset: "postgen.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {
				Tokens: map[string]string{"surface": "#ffffff"},
			},
			"dark": {
				Tokens: map[string]string{
					"surface":       "#111827",
					"text":          "#f9fafb",
					"muted":         "#9ca3af",
					"border":        "#374151",
					"panel":         "#1f2937",
					"error-surface": "#450a0a",
					"error":         "#fca5a5",
				},
			},
		},
	}
}

// ManifestSelector resolves theme selections from a fixed set of manifests.
// Manifests are validated through a go-theme registry on registration.
type ManifestSelector struct {
	mu             sync.RWMutex
	registry       interface{ Register(*theme.Manifest) error }
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers the manifests and uses defaultTheme and
// defaultVariant when Select is called with empty names.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		registry:       theme.NewRegistry(),
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DefaultThemeSelector returns a selector holding only DefaultManifest.
func DefaultThemeSelector() *ManifestSelector {
	s, err := NewManifestSelector(DefaultThemeName, DefaultThemeVariant, DefaultManifest())
	if err != nil {
		panic(err)
	}
	return s
}

// Register adds a manifest. Duplicate names are rejected.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", manifest.Name)
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	s.manifests[manifest.Name] = manifest
	return nil
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if strings.TrimSpace(name) == "" {
		name = s.defaultTheme
	}
	if strings.TrimSpace(variant) == "" {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ResolveTheme selects a theme and flattens it into the renderer config:
// variant tokens, templates and assets override the base manifest, partials
// fall back to fallbacks, and every token is exposed as a "--token" CSS
// variable.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme selector returned no manifest for %q", name)
	}
	manifest := selection.Manifest
	v := manifest.Variants[selection.Variant]

	partials := mergeStrings(fallbacks, manifest.Templates, v.Templates)
	tokens := mergeStrings(manifest.Tokens, v.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if v.Assets.Prefix != "" {
		prefix = v.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, v.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

func mergeStrings(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}

// Package content defines the form state, the generation API payloads and the
// Result union rendered by every surface.
package content

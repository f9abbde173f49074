// Package openapi holds the contracts used to turn the generation API's
// OpenAPI description into form operations. The kin-openapi backed loader and
// parser live under internal/openapi; this package only exposes wrappers so
// callers never touch kin-openapi types.
package openapi

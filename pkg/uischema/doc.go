// Package uischema loads presentation overrides for generated forms and
// applies them as a model decorator. The OpenAPI description stays the source
// of truth for field names, types and enums; the UI schema only changes how a
// form reads: titles, labels, placeholders, ordering and button copy.
package uischema

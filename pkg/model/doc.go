// Package model defines the typed form model renderers consume and the
// builder that derives it from an OpenAPI operation's request body.
//
// Builders read the `x-postgen` extension namespace for renderer hints such
// as `widget`, `rows`, `placeholder` and `order`, and expose them as typed
// Field attributes so renderers never parse raw extension payloads. The UI
// schema decorator in pkg/uischema layers presentation overrides on top.
package model

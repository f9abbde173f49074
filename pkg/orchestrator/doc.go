// Package orchestrator wires the loader, parser, model builder, UI schema
// decorators and renderer registry behind a single entry point.
package orchestrator

// Package config loads and validates the TOML configuration that declares
// the conversion graph: formats (nodes), stages (edges), and driver settings.
// Declaration order of formats and stages is preserved because extension
// lookup and path tie-breaking depend on it. The package also provides the
// dotted-path option overlay that tunes stage behavior per run.
package config

// Package logging provides slog construction and shared structured logging
// helpers. The console handler renders compact single-line records for
// terminal use; the json format is available for machine consumption.
package logging

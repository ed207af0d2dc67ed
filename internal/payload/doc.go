// Package payload models the data flowing between conversion stages as a
// closed two-variant container: a filesystem reference or an in-memory byte
// buffer. Every converter consumes and produces this type, so independently
// implemented tools can hand off results without agreeing on a richer shape.
package payload

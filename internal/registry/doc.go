// Package registry models the available conversions as a directed graph:
// formats are nodes, converters are weighted edges. It resolves filename
// extensions to formats and computes minimum-weight conversion chains with
// deterministic, registration-order tie-breaking. The registry is built once
// at startup and is read-only afterwards.
package registry

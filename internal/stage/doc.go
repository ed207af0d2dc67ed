// Package stage defines the converter contract the pipeline executor drives
// and the command-backed implementation that wraps external tools. Concrete
// converters are external collaborators; the executor only sees Transformer.
package stage

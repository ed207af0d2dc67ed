// Package driver ties the pieces together for one conversion request:
// apply option overrides, build the registry, infer endpoint formats from
// filenames, resolve the stage chain, execute it, and dispose of the final
// payload. The CLI is a thin shell over this package.
package driver

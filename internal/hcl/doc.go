// Package hcl is the HCL implementation of config.Loader. It discovers
// definition files, decodes them against the schema package, merges the
// blocks across files, and translates the result into the format-agnostic
// config model.
package hcl

// Package config defines the format-agnostic representation of a run
// configuration: an ordered list of sections, each an ordered list of
// key/value entries. Loaders (see internal/iniconf) translate concrete file
// formats into this model; the builder consumes it without knowing the
// source format.
package config

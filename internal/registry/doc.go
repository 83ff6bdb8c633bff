// Package registry is the symbol table the configuration resolves against.
// Classes and functions register under "module.Symbol" keys matching the
// config file's module/class and module/function entries; model factories
// register under bare names forming the well-known model namespace used for
// implicit sections. Registration happens once at startup; duplicate names
// are programmer errors and panic.
package registry

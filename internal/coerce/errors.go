package coerce

import "fmt"

// UnresolvedReferenceError reports a directive naming a label or section
// that has not been constructed yet. References only resolve backwards in
// document order, so a forward reference always fails with this error.
type UnresolvedReferenceError struct {
	Kind string // "custom function return" or "custom class"
	Name string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("no %s named %q has been defined at this point in the configuration", e.Kind, e.Name)
}

// CoercionError reports a raw configuration value that could not be
// converted to its parameter's declared type.
type CoercionError struct {
	Key    string
	Value  string
	Target string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce key %q value %q to %s: %v", e.Key, e.Value, e.Target, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

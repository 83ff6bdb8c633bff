package builder

import "fmt"

// UnresolvedSymbolError reports a module/symbol pair the registry cannot
// resolve. Symbol resolution failures are always fatal.
type UnresolvedSymbolError struct {
	Kind   string // "class", "function", or "model"
	Module string // empty for the well-known model namespace
	Name   string
}

func (e *UnresolvedSymbolError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("there is no %s %q in the model namespace", e.Kind, e.Name)
	}
	return fmt.Sprintf("no %s %q registered under module %q", e.Kind, e.Name, e.Module)
}

// InvalidDirectiveError reports a function section that carries none of the
// recognized return directives.
type InvalidDirectiveError struct {
	Section string
}

func (e *InvalidDirectiveError) Error() string {
	return fmt.Sprintf("section [%s]: 'function' needs one of 'custom_return=SOMETHING', 'signal_return=True', 'pta_return=True'", e.Section)
}

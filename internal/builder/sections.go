package builder

import (
	"context"
	"fmt"

	"github.com/astrokit/ptapipe/internal/coerce"
	"github.com/astrokit/ptapipe/internal/config"
	"github.com/astrokit/ptapipe/internal/ctxlog"
	"github.com/astrokit/ptapipe/internal/introspect"
	"github.com/astrokit/ptapipe/internal/params"
)

// structuralKeys steer section classification and never reach a factory's
// parameters.
var structuralKeys = map[string]struct{}{
	"module":        {},
	"class":         {},
	"function":      {},
	"signal_return": {},
	"pta_return":    {},
	"custom_return": {},
}

// UpdateFromDocument interprets every section in declaration order. The
// first fatal condition aborts the whole run; nothing already built is
// rolled back since the process terminates anyway.
func (rs *RunSettings) UpdateFromDocument(ctx context.Context, doc *config.Document) error {
	for _, sec := range doc.Sections {
		rs.sections[sec.Name] = sec.Values()

		var err error
		switch {
		case sec.Name == "input" || sec.Name == "output" || sec.Name == "DEFAULT":
			err = rs.applySettings(ctx, sec)
		case sec.Has("class"):
			err = rs.buildClass(ctx, sec)
		case sec.Has("function"):
			err = rs.applyFunction(ctx, sec)
		default:
			err = rs.registerModelSection(ctx, sec)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applySettings copies an input/output/DEFAULT section onto the
// RunSettings' own declared fields. Empty values and keys that match no
// declared field are ignored.
func (rs *RunSettings) applySettings(ctx context.Context, sec *config.Section) error {
	_, types := introspect.Describe(ctx, rs)

	var entries []config.Entry
	for _, e := range sec.Entries {
		if e.Value == "" {
			continue
		}
		if _, ok := types[e.Key]; !ok {
			continue
		}
		entries = append(entries, e)
	}

	typed, err := coerce.Apply(ctx, entries, types, nil, rs)
	if err != nil {
		return err
	}
	return introspect.Populate(rs, typed)
}

// buildClass instantiates a class section immediately and stores the
// instance under the section name for later CUSTOM_CLASS references.
func (rs *RunSettings) buildClass(ctx context.Context, sec *config.Section) error {
	module, _ := sec.Get("module")
	className, _ := sec.Get("class")
	h, ok := rs.reg.LookupClass(module, className)
	if !ok {
		return &UnresolvedSymbolError{Kind: "class", Module: module, Name: className}
	}

	defaults, types := introspect.Describe(ctx, h.NewParams())
	fromFile, err := coerce.Apply(ctx, sec.Entries, types, structuralKeys, rs)
	if err != nil {
		return err
	}
	merged := params.Merge(defaults, fromFile)

	prototype := h.NewParams()
	if err := introspect.Populate(prototype, merged); err != nil {
		return fmt.Errorf("section [%s]: %w", sec.Name, err)
	}
	instance, err := introspect.Invoke(h.Construct, prototype)
	if err != nil {
		return fmt.Errorf("section [%s]: constructing %s.%s: %w", sec.Name, module, className, err)
	}

	rs.customClasses[sec.Name] = instance
	rs.typedSections[sec.Name] = merged
	return nil
}

// applyFunction handles a function section according to its return
// directive: custom_return calls the function now and stores the result
// under the chosen label; signal_return and pta_return defer the call and
// register the function with its merged parameters.
func (rs *RunSettings) applyFunction(ctx context.Context, sec *config.Section) error {
	module, _ := sec.Get("module")
	fnName, _ := sec.Get("function")
	h, ok := rs.reg.LookupFunction(module, fnName)
	if !ok {
		return &UnresolvedSymbolError{Kind: "function", Module: module, Name: fnName}
	}

	defaults, types := introspect.Describe(ctx, h.NewParams())
	fromFile, err := coerce.Apply(ctx, sec.Entries, types, structuralKeys, rs)
	if err != nil {
		return err
	}

	if label, ok := sec.Get("custom_return"); ok {
		prototype := h.NewParams()
		if err := introspect.Populate(prototype, fromFile); err != nil {
			return fmt.Errorf("section [%s]: %w", sec.Name, err)
		}
		ret, err := introspect.Invoke(h.Fn, prototype)
		if err != nil {
			return fmt.Errorf("section [%s]: calling %s.%s: %w", sec.Name, module, fnName, err)
		}
		rs.customFunctionReturns[label] = ret
		rs.typedSections[sec.Name] = fromFile
		return nil
	}

	merged := params.Merge(defaults, fromFile)
	switch {
	case sec.Has("signal_return"):
		rs.signalFactories[sec.Name] = h
		rs.signalParams[sec.Name] = merged
		rs.signalOrder = append(rs.signalOrder, sec.Name)
	case sec.Has("pta_return"):
		rs.ptaFactories[sec.Name] = factory{newParams: h.NewParams, fn: h.Fn}
		rs.ptaParams[sec.Name] = merged
		rs.ptaOrder = append(rs.ptaOrder, sec.Name)
	default:
		return &InvalidDirectiveError{Section: sec.Name}
	}
	rs.typedSections[sec.Name] = merged
	return nil
}

// registerModelSection treats the section name as a factory in the
// well-known model namespace. An unknown name is logged and then fails the
// run; sections are never silently skipped.
func (rs *RunSettings) registerModelSection(ctx context.Context, sec *config.Section) error {
	logger := ctxlog.FromContext(ctx)

	h, ok := rs.reg.LookupModel(sec.Name)
	if !ok {
		logger.Error("Section matches no model factory in the model namespace.", "section", sec.Name)
		return &UnresolvedSymbolError{Kind: "model", Name: sec.Name}
	}

	defaults, types := introspect.Describe(ctx, h.NewParams())
	fromFile, err := coerce.Apply(ctx, sec.Entries, types, nil, rs)
	if err != nil {
		return err
	}

	rs.ptaFactories[sec.Name] = factory{newParams: h.NewParams, fn: h.Fn}
	rs.ptaParams[sec.Name] = params.Merge(defaults, fromFile)
	rs.ptaOrder = append(rs.ptaOrder, sec.Name)
	return nil
}

// Package introspect discovers a registered factory's parameters from its
// prototype struct and moves resolved parameter maps back onto fresh
// prototypes for invocation. A prototype is a pointer to a struct whose
// exported fields carry `pta:"name"` tags; the field values of a freshly
// constructed prototype are the factory's declared defaults.
package introspect

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/astrokit/ptapipe/internal/ctxlog"
)

// TagName is the struct tag carrying a parameter's configuration key.
const TagName = "pta"

// Describe returns prototype's declared parameter defaults and types, keyed
// by tag name. Interface-typed fields have no concrete type to coerce into;
// they are reported in defaults only, with a one-time diagnostic, and must
// be filled through reference directives.
func Describe(ctx context.Context, prototype any) (map[string]any, map[string]reflect.Type) {
	logger := ctxlog.FromContext(ctx)
	defaults := make(map[string]any)
	types := make(map[string]reflect.Type)

	structVal := reflect.ValueOf(prototype).Elem()
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		name := tagName(field)
		if name == "" || !field.IsExported() {
			continue
		}
		defaults[name] = structVal.Field(i).Interface()
		if field.Type.Kind() == reflect.Interface {
			logger.Warn("Parameter has no coercible type annotation; only directives can set it.",
				"parameter", name, "struct", structType.String())
			continue
		}
		types[name] = field.Type
	}
	return defaults, types
}

// Populate copies resolved parameter values onto prototype's tagged fields.
// Values must already be typed; a mismatch between a value and its declared
// field is a programming error surfaced as a plain error.
func Populate(prototype any, values map[string]any) error {
	structVal := reflect.ValueOf(prototype).Elem()
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		name := tagName(field)
		if name == "" || !field.IsExported() {
			continue
		}
		raw, ok := values[name]
		if !ok {
			continue
		}
		fieldVal := structVal.Field(i)
		if raw == nil {
			fieldVal.Set(reflect.Zero(field.Type))
			continue
		}
		val := reflect.ValueOf(raw)
		switch {
		case val.Type().AssignableTo(field.Type):
			fieldVal.Set(val)
		case val.Type().ConvertibleTo(field.Type) && field.Type.Kind() != reflect.String:
			fieldVal.Set(val.Convert(field.Type))
		default:
			return fmt.Errorf("parameter %q: value of type %s cannot be assigned to field %s %s",
				name, val.Type(), field.Name, field.Type)
		}
	}
	return nil
}

// Invoke calls fn with args via reflection. fn's last return value must be
// an error; the first (if any) is returned as the result.
func Invoke(fn any, args ...any) (any, error) {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("registered symbol is %s, not a function", fnType)
	}
	callArgs := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			callArgs[i] = reflect.Zero(fnType.In(i))
			continue
		}
		callArgs[i] = reflect.ValueOf(a)
	}
	results := fnVal.Call(callArgs)

	last := results[len(results)-1]
	if !last.IsNil() {
		return nil, last.Interface().(error)
	}
	if len(results) == 1 {
		return nil, nil
	}
	return results[0].Interface(), nil
}

func tagName(field reflect.StructField) string {
	tag := field.Tag.Get(TagName)
	tag = strings.Split(tag, ",")[0]
	if tag == "-" {
		return ""
	}
	return tag
}

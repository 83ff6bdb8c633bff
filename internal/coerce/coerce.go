// Package coerce turns raw configuration strings into typed parameter
// values. Directive markers embedded in a value take priority over the
// parameter's declared type: they redirect the value to a previously
// computed function return, a previously constructed class instance, or an
// expression evaluated in a restricted scope.
package coerce

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/astrokit/ptapipe/internal/config"
	"github.com/astrokit/ptapipe/internal/ctxlog"
)

// Directive markers. They match anywhere inside a raw value; the marker
// text is stripped and the remainder is the label, section name, or
// expression source.
const (
	MarkerFunctionReturn = "CUSTOM_FUNCTION_RETURN:"
	MarkerClass          = "CUSTOM_CLASS:"
	MarkerExpression     = "FUNCTION_CALL:"
)

// Scope exposes the builder's live reference tables to the coercer.
type Scope interface {
	// CustomFunctionReturn resolves a custom_return label to its value.
	CustomFunctionReturn(label string) (any, bool)
	// CustomClass resolves a class section name to its constructed instance.
	CustomClass(name string) (any, bool)
	// EvalVariables supplies the variables visible to expression directives.
	EvalVariables() map[string]cty.Value
}

var float64SliceType = reflect.TypeOf([]float64(nil))

// Apply coerces every entry to its declared type, in entry order. Keys in
// exclude are structural and skipped outright; keys without a declared type
// are dropped with a diagnostic. The first hard failure aborts.
func Apply(ctx context.Context, entries []config.Entry, types map[string]reflect.Type, exclude map[string]struct{}, scope Scope) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)
	out := make(map[string]any, len(entries))

	for _, entry := range entries {
		key, value := entry.Key, entry.Value
		if _, ok := exclude[key]; ok {
			continue
		}

		if strings.Contains(value, MarkerFunctionReturn) {
			label := strings.ReplaceAll(value, MarkerFunctionReturn, "")
			ret, ok := scope.CustomFunctionReturn(label)
			if !ok {
				return nil, &UnresolvedReferenceError{Kind: "custom function return", Name: label}
			}
			out[key] = ret
			continue
		}
		if strings.Contains(value, MarkerClass) {
			name := strings.ReplaceAll(value, MarkerClass, "")
			inst, ok := scope.CustomClass(name)
			if !ok {
				return nil, &UnresolvedReferenceError{Kind: "custom class", Name: name}
			}
			out[key] = inst
			continue
		}
		if strings.Contains(value, MarkerExpression) {
			src := strings.ReplaceAll(value, MarkerExpression, "")
			result, err := evalExpression(src, scope.EvalVariables())
			if err != nil {
				return nil, &CoercionError{Key: key, Value: value, Target: "expression", Err: err}
			}
			out[key] = result
			continue
		}

		targetType, ok := types[key]
		if !ok {
			logger.Warn("Configuration key has no declared parameter type; value dropped.",
				"key", key, "value", value)
			continue
		}

		typed, err := convertString(key, value, targetType)
		if err != nil {
			return nil, err
		}
		out[key] = typed
	}
	return out, nil
}

// convertString converts one raw string to targetType. Numeric vectors and
// booleans have bespoke rules; everything else goes through cty conversion.
func convertString(key, value string, targetType reflect.Type) (any, error) {
	switch {
	case targetType == float64SliceType:
		parts := strings.Split(value, ",")
		vec := make([]float64, len(parts))
		for i, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, &CoercionError{Key: key, Value: value, Target: "[]float64", Err: err}
			}
			vec[i] = f
		}
		return vec, nil

	case targetType.Kind() == reflect.Bool:
		// Only the literal token "true", compared case-insensitively, reads
		// as true. Everything else, "false" included, reads as false.
		return strings.EqualFold(value, "true"), nil

	case targetType.Kind() == reflect.String:
		return value, nil

	default:
		ctyType, err := gocty.ImpliedType(reflect.Zero(targetType).Interface())
		if err != nil {
			return nil, &CoercionError{Key: key, Value: value, Target: targetType.String(), Err: err}
		}
		converted, err := convert.Convert(cty.StringVal(value), ctyType)
		if err != nil {
			return nil, &CoercionError{Key: key, Value: value, Target: targetType.String(), Err: err}
		}
		target := reflect.New(targetType)
		if err := gocty.FromCtyValue(converted, target.Interface()); err != nil {
			return nil, &CoercionError{Key: key, Value: value, Target: targetType.String(), Err: err}
		}
		return target.Elem().Interface(), nil
	}
}

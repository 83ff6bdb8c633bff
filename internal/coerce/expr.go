package coerce

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// evalExpression evaluates an expression directive. The source is HCL
// expression syntax evaluated against a closed scope: the variables the
// builder exposes plus a curated set of pure functions. There is no access
// to the host process, which is the point of using an expression language
// here rather than arbitrary code evaluation.
func evalExpression(src string, variables map[string]cty.Value) (any, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<config>", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid expression: %w", diags)
	}

	evalCtx := &hcl.EvalContext{
		Variables: variables,
		Functions: exprFunctions(),
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("expression evaluation failed: %w", diags)
	}
	return ctyToNative(val)
}

// exprFunctions is the closed function set available to expressions.
func exprFunctions() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"floor":  stdlib.FloorFunc,
		"log":    stdlib.LogFunc,
		"pow":    stdlib.PowFunc,
		"signum": stdlib.SignumFunc,
		"min":    stdlib.MinFunc,
		"max":    stdlib.MaxFunc,
		"int":    stdlib.IntFunc,
		"range":  stdlib.RangeFunc,
		"concat": stdlib.ConcatFunc,
		"format": stdlib.FormatFunc,
		"upper":  stdlib.UpperFunc,
		"lower":  stdlib.LowerFunc,
		"strlen": stdlib.StrlenFunc,
		"substr": stdlib.SubstrFunc,
	}
}

// ctyToNative converts an expression result to plain Go values: strings,
// float64, bool, []any, and map[string]any. The result is used verbatim as
// the parameter value, with no further coercion.
func ctyToNative(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported expression result type %s", ty.FriendlyName())
	}
}

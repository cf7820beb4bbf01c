package plan

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// newEvalContext exposes the command line variables as `var` and the plan
// functions.
func newEvalContext(vars map[string]string) *hcl.EvalContext {
	varVals := make(map[string]cty.Value, len(vars))
	for name, value := range vars {
		varVals[name] = cty.StringVal(value)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(varVals),
		},
		Functions: map[string]function.Function{
			"format": stdlib.FormatFunc,
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"min":    stdlib.MinFunc,
			"max":    stdlib.MaxFunc,
			"abs":    stdlib.AbsoluteFunc,
			"ceil":   stdlib.CeilFunc,
			"floor":  stdlib.FloorFunc,
		},
	}
}

// scalarValue decodes a parameter value into the Go value handed to the
// document. Whole numbers become int64 so they are written without a
// fractional part.
func scalarValue(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	switch {
	case val.Type() == cty.String:
		return val.AsString(), nil
	case val.Type() == cty.Bool:
		return val.True(), nil
	case val.Type() == cty.Number:
		if val.AsBigFloat().IsInt() {
			var i int64
			if err := gocty.FromCtyValue(val, &i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("a %s is not a scalar; use a string, number or bool", val.Type().FriendlyName())
}

// exprScalar evaluates expr and decodes it with scalarValue.
func exprScalar(expr hcl.Expression, evalCtx *hcl.EvalContext, what string) (any, hcl.Diagnostics) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	v, err := scalarValue(val)
	if err != nil {
		return nil, diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + what,
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		})
	}
	return v, diags
}

// decodeSet reads a `set = { ... }` object, keeping the source order of its
// items.
func decodeSet(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]Edit, hcl.Diagnostics) {
	if isNullExpr(expr) {
		return nil, nil
	}

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	edits := make([]Edit, 0, len(pairs))
	for _, pair := range pairs {
		keyVal, keyDiags := pair.Key.Value(evalCtx)
		diags = append(diags, keyDiags...)
		if keyDiags.HasErrors() {
			continue
		}
		keyVal, err := convert.Convert(keyVal, cty.String)
		if err != nil || keyVal.IsNull() || keyVal.AsString() == "" {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid parameter name",
				Detail:   "Parameter names in \"set\" must be non-empty strings.",
				Subject:  pair.Key.Range().Ptr(),
			})
			continue
		}

		value, valDiags := exprScalar(pair.Value, evalCtx, "parameter value")
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		edits = append(edits, Edit{Key: keyVal.AsString(), Value: value})
	}
	return edits, diags
}

// isNullExpr reports whether an optional expression attribute was left out.
// gohcl fills missing hcl.Expression fields with a static null.
func isNullExpr(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	val, diags := expr.Value(nil)
	return !diags.HasErrors() && val.IsNull()
}

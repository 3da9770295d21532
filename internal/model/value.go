package model

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ValueString renders a snapshot value as the display string handed to
// scripts and diagnostics. Collections are joined with commas; null and
// unknown values render empty.
func ValueString(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return ""
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case ty == cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var parts []string
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			parts = append(parts, ValueString(ev))
		}
		return strings.Join(parts, ",")
	default:
		if converted, err := convert.Convert(v, cty.String); err == nil {
			return converted.AsString()
		}
		return v.GoString()
	}
}

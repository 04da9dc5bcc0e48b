package cloudformation

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/kda-constructs/generator/internal/graph"
)

// Ref returns a token for {"Ref": id}, or {"Fn::GetAtt": [id, attr]} when the
// reference names an attribute.
func Ref(r graph.Ref) *string {
	if r.Attr == "" {
		return awscdk.Fn_Ref(jsii.String(r.ID))
	}
	return awscdk.Fn_GetAtt(jsii.String(r.ID), jsii.String(r.Attr)).ToString()
}

// Sub returns a token for {"Fn::Sub": s}.
func Sub(s string) *string {
	return awscdk.Fn_Sub(jsii.String(s), nil)
}

// String returns nil for an empty string so optional properties are omitted.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return jsii.String(s)
}

// Strings converts a string list into the form L1 list properties take.
func Strings(values []string) *[]*string {
	return jsii.Strings(values...)
}

// Value converts graph values nested in free-form properties (policy
// documents) into tokens: a graph.Ref becomes Ref or Fn::GetAtt, a graph.Sub
// becomes Fn::Sub, slices and maps are converted element by element, and
// everything else passes through.
func Value(v any) any {
	switch t := v.(type) {
	case graph.Ref:
		return Ref(t)
	case graph.Sub:
		return Sub(string(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Value(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Value(e)
		}
		return out
	default:
		return v
	}
}

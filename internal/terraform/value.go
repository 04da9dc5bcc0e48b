package terraform

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/kda-constructs/generator/internal/graph"
)

// ValueTokens renders a graph value as an HCL expression. Strings, numbers and
// bools become literals, graph.Ref a traversal, graph.Sub a template, slices a
// tuple and maps an object with sorted keys.
func ValueTokens(g *graph.Graph, refs map[string]string, v any) (hclwrite.Tokens, error) {
	switch t := v.(type) {
	case string:
		return hclwrite.TokensForValue(cty.StringVal(t)), nil
	case bool:
		return hclwrite.TokensForValue(cty.BoolVal(t)), nil
	case int:
		return hclwrite.TokensForValue(cty.NumberIntVal(int64(t))), nil
	case int32:
		return hclwrite.TokensForValue(cty.NumberIntVal(int64(t))), nil
	case float64:
		return hclwrite.TokensForValue(cty.NumberFloatVal(t)), nil
	case graph.Ref:
		trav, err := Reference(g, refs, t)
		if err != nil {
			return nil, err
		}
		return hclwrite.TokensForTraversal(trav), nil
	case graph.Sub:
		return SubTokens(g, refs, t)
	case []string:
		elems := make([]hclwrite.Tokens, len(t))
		for i, s := range t {
			elems[i] = hclwrite.TokensForValue(cty.StringVal(s))
		}
		return hclwrite.TokensForTuple(elems), nil
	case []any:
		elems := make([]hclwrite.Tokens, len(t))
		for i, e := range t {
			toks, err := ValueTokens(g, refs, e)
			if err != nil {
				return nil, err
			}
			elems[i] = toks
		}
		return hclwrite.TokensForTuple(elems), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make([]hclwrite.ObjectAttrTokens, len(keys))
		for i, k := range keys {
			toks, err := ValueTokens(g, refs, t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			attrs[i] = hclwrite.ObjectAttrTokens{Name: keyTokens(k), Value: toks}
		}
		return hclwrite.TokensForObject(attrs), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// JSONEncode wraps an expression in a jsonencode(...) call.
func JSONEncode(expr hclwrite.Tokens) hclwrite.Tokens {
	return hclwrite.TokensForFunctionCall("jsonencode", expr)
}

func keyTokens(k string) hclwrite.Tokens {
	if hclsyntax.ValidIdentifier(k) {
		return hclwrite.TokensForIdentifier(k)
	}
	return hclwrite.TokensForValue(cty.StringVal(k))
}

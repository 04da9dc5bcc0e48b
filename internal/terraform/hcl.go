package terraform

import (
	"strings"
	"unicode"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// SanitizeName converts a node id to a Terraform-safe resource name
// (e.g. DowntimeAlarm -> downtime_alarm, log-group -> log_group).
func SanitizeName(id string) string {
	var b strings.Builder
	runes := []rune(id)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "r_" + name
	}
	return name
}

// ResourceBlock creates a resource "type" "name" { } block; body can be filled by the caller.
func ResourceBlock(resourceType, name string) *hclwrite.Block {
	return hclwrite.NewBlock("resource", []string{resourceType, name})
}

// SetAttributeStr sets a string attribute on a block body.
func SetAttributeStr(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

// SetAttributeBool sets a bool attribute.
func SetAttributeBool(body *hclwrite.Body, name string, value bool) {
	body.SetAttributeValue(name, cty.BoolVal(value))
}

// SetAttributeInt sets an int attribute (Terraform numbers are arbitrary precision; we use int).
func SetAttributeInt(body *hclwrite.Body, name string, value int) {
	body.SetAttributeValue(name, cty.NumberIntVal(int64(value)))
}

// SetAttributeFloat sets a number attribute.
func SetAttributeFloat(body *hclwrite.Body, name string, value float64) {
	body.SetAttributeValue(name, cty.NumberFloatVal(value))
}

// SetAttributeMap sets a map(string) attribute (e.g. tags, dimensions).
func SetAttributeMap(body *hclwrite.Body, name string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	ctyMap := make(map[string]cty.Value)
	for k, v := range m {
		ctyMap[k] = cty.StringVal(v)
	}
	body.SetAttributeValue(name, cty.MapVal(ctyMap))
}

// SetAttributeStrList sets a list(string) attribute, keeping order.
func SetAttributeStrList(body *hclwrite.Body, name string, values []string) {
	if len(values) == 0 {
		return
	}
	list := make([]cty.Value, len(values))
	for i, v := range values {
		list[i] = cty.StringVal(v)
	}
	body.SetAttributeValue(name, cty.ListVal(list))
}

// BlockToBytes formats a block and returns its bytes (with newline).
func BlockToBytes(block *hclwrite.Block) []byte {
	f := hclwrite.NewEmptyFile()
	f.Body().AppendBlock(block)
	return f.Bytes()
}

// RefTraversal builds hcl.Traversal for a resource address and attribute (e.g. aws_iam_role.studio_role.arn).
func RefTraversal(addr, attr string) hcl.Traversal {
	var t hcl.Traversal
	for _, part := range strings.Split(addr, ".") {
		if part == "" {
			continue
		}
		if len(t) == 0 {
			t = append(t, hcl.TraverseRoot{Name: part})
		} else {
			t = append(t, hcl.TraverseAttr{Name: part})
		}
	}
	if attr != "" {
		t = append(t, hcl.TraverseAttr{Name: attr})
	}
	return t
}

// TemplateTokens builds a quoted template string from literal segments and
// interpolated traversals. parts holds strings and hcl.Traversal values.
func TemplateTokens(parts ...any) hclwrite.Tokens {
	toks := hclwrite.Tokens{{Type: hclsyntax.TokenOQuote, Bytes: []byte(`"`)}}
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			if v == "" {
				continue
			}
			lit := hclwrite.TokensForValue(cty.StringVal(v))
			toks = append(toks, lit[1:len(lit)-1]...)
		case hcl.Traversal:
			toks = append(toks, &hclwrite.Token{Type: hclsyntax.TokenTemplateInterp, Bytes: []byte("${")})
			toks = append(toks, hclwrite.TokensForTraversal(v)...)
			toks = append(toks, &hclwrite.Token{Type: hclsyntax.TokenTemplateSeqEnd, Bytes: []byte("}")})
		}
	}
	return append(toks, &hclwrite.Token{Type: hclsyntax.TokenCQuote, Bytes: []byte(`"`)})
}

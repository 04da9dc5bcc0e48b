package terraform

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// DefaultRegion is the aws_region variable default.
const DefaultRegion = "us-east-1"

// VersionsTF returns content for versions.tf: terraform block, aws provider, and
// the data sources that stand in for the partition and account pseudo parameters.
func VersionsTF() []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	tfBlock := body.AppendNewBlock("terraform", nil)
	tfBody := tfBlock.Body()
	tfBody.SetAttributeValue("required_version", cty.StringVal(">= 1.0"))
	reqProv := tfBody.AppendNewBlock("required_providers", nil)
	reqProv.Body().SetAttributeValue("aws", cty.ObjectVal(map[string]cty.Value{
		"source":  cty.StringVal("hashicorp/aws"),
		"version": cty.StringVal("~> 5.0"),
	}))

	body.AppendNewline()
	provBlock := body.AppendNewBlock("provider", []string{"aws"})
	provBlock.Body().SetAttributeTraversal("region", varTraversal("aws_region"))

	body.AppendNewline()
	body.AppendNewBlock("data", []string{"aws_partition", "current"})
	body.AppendNewline()
	body.AppendNewBlock("data", []string{"aws_caller_identity", "current"})

	return f.Bytes()
}

// VariablesTF returns content for variables.tf.
func VariablesTF() []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	regionBlock := body.AppendNewBlock("variable", []string{"aws_region"})
	regionBlock.Body().SetAttributeValue("description", cty.StringVal("AWS region"))
	regionBlock.Body().SetAttributeTraversal("type", hcl.Traversal{hcl.TraverseRoot{Name: "string"}})
	regionBlock.Body().SetAttributeValue("default", cty.StringVal(DefaultRegion))

	return f.Bytes()
}

// Output is one entry of outputs.tf.
type Output struct {
	Name        string
	Description string
	Value       hcl.Traversal
}

// OutputsTF returns outputs.tf content; nil when there are no outputs.
func OutputsTF(outputs []Output) []byte {
	if len(outputs) == 0 {
		return nil
	}
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, o := range outputs {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("output", []string{o.Name})
		if o.Description != "" {
			block.Body().SetAttributeValue("description", cty.StringVal(o.Description))
		}
		block.Body().SetAttributeTraversal("value", o.Value)
	}
	return f.Bytes()
}

// Tfvars returns terraform.tfvars content setting the region.
func Tfvars(region string) []byte {
	if region == "" {
		region = DefaultRegion
	}
	f := hclwrite.NewEmptyFile()
	f.Body().SetAttributeValue("aws_region", cty.StringVal(region))
	return f.Bytes()
}

// varTraversal builds hcl.Traversal for var.name (e.g. var.aws_region).
func varTraversal(name string) hcl.Traversal {
	return hcl.Traversal{
		hcl.TraverseRoot{Name: "var"},
		hcl.TraverseAttr{Name: name},
	}
}

// Package handler renders each graph resource type for the CloudFormation and
// Terraform sinks. Handlers register themselves with registry.Default.
package handler

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/terraform"
)

// RefMap is an alias for registry.RefMap so handlers can use refs without importing registry in every signature.
type RefMap = registry.RefMap

func validationError(nodeID, message, suggestion string) result.Error {
	return result.Error{
		Type:       result.TypeValidation,
		Severity:   result.SeverityError,
		NodeID:     nodeID,
		Message:    message,
		Suggestion: suggestion,
	}
}

func validationWarning(nodeID, message, suggestion string) result.Warning {
	return result.Warning{
		Type:       result.TypeValidation,
		Severity:   result.SeverityWarning,
		NodeID:     nodeID,
		Message:    message,
		Suggestion: suggestion,
	}
}

// resourceBlock starts the Terraform block for node.
func resourceBlock(node *graph.Node) (*hclwrite.Block, error) {
	tf, ok := terraform.ResourceType(node.Type())
	if !ok {
		return nil, fmt.Errorf("%s has no terraform resource type", node.Type())
	}
	return terraform.ResourceBlock(tf, terraform.SanitizeName(node.ID)), nil
}

// setRef sets attr to a traversal to the referenced node.
func setRef(body *hclwrite.Body, attr string, g *graph.Graph, refs RefMap, r graph.Ref) error {
	t, err := terraform.Reference(g, refs, r)
	if err != nil {
		return fmt.Errorf("%s: %w", attr, err)
	}
	body.SetAttributeTraversal(attr, t)
	return nil
}

// setValue sets attr to an arbitrary graph value (string, Sub, Ref, list, map).
func setValue(body *hclwrite.Body, attr string, g *graph.Graph, refs RefMap, v any) error {
	toks, err := terraform.ValueTokens(g, refs, v)
	if err != nil {
		return fmt.Errorf("%s: %w", attr, err)
	}
	body.SetAttributeRaw(attr, toks)
	return nil
}

// dimensionList renders dimensions as alarm Dimension properties, keeping order.
func dimensionList(dims []types.Dimension) *[]any {
	if len(dims) == 0 {
		return nil
	}
	out := make([]any, len(dims))
	for i, d := range dims {
		out[i] = &awscloudwatch.CfnAlarm_DimensionProperty{Name: d.Name, Value: d.Value}
	}
	return &out
}

// dimensionMap renders dimensions as a Terraform map. The provider only takes
// a map, so the written order is by key; CloudWatch matches a metric on its
// dimension set, not their order.
func dimensionMap(dims []types.Dimension) map[string]string {
	if len(dims) == 0 {
		return nil
	}
	out := make(map[string]string, len(dims))
	for _, d := range dims {
		out[aws.ToString(d.Name)] = aws.ToString(d.Value)
	}
	return out
}

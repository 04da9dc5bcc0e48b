package terraform

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/kda-constructs/generator/internal/graph"
)

var resourceTypes = map[graph.ResourceType]string{
	graph.TypeAlarm:       "aws_cloudwatch_metric_alarm",
	graph.TypeDashboard:   "aws_cloudwatch_dashboard",
	graph.TypeLogGroup:    "aws_cloudwatch_log_group",
	graph.TypeLogStream:   "aws_cloudwatch_log_stream",
	graph.TypeRole:        "aws_iam_role",
	graph.TypeApplication: "aws_kinesisanalyticsv2_application",
}

// ResourceType returns the AWS provider resource type for t. Types without a
// standalone provider resource report false.
func ResourceType(t graph.ResourceType) (string, bool) {
	tf, ok := resourceTypes[t]
	return tf, ok
}

// Address returns the Terraform address of a node (e.g. aws_iam_role.studio_role).
func Address(n *graph.Node) (string, bool) {
	tf, ok := ResourceType(n.Type())
	if !ok {
		return "", false
	}
	return tf + "." + SanitizeName(n.ID), true
}

// AttrName maps a reference attribute to the provider attribute that holds it.
// An empty attr is the resource's primary identifier.
func AttrName(t graph.ResourceType, attr string) string {
	switch attr {
	case "":
		switch t {
		case graph.TypeLogGroup, graph.TypeLogStream, graph.TypeRole, graph.TypeApplication:
			return "name"
		case graph.TypeDashboard:
			return "dashboard_name"
		default:
			return "id"
		}
	case "Arn":
		if t == graph.TypeDashboard {
			return "dashboard_arn"
		}
		return "arn"
	default:
		return SanitizeName(attr)
	}
}

var pseudoParameters = map[string]hcl.Traversal{
	"AWS::Region":    varTraversal("aws_region"),
	"AWS::Partition": {hcl.TraverseRoot{Name: "data"}, hcl.TraverseAttr{Name: "aws_partition"}, hcl.TraverseAttr{Name: "current"}, hcl.TraverseAttr{Name: "partition"}},
	"AWS::AccountId": {hcl.TraverseRoot{Name: "data"}, hcl.TraverseAttr{Name: "aws_caller_identity"}, hcl.TraverseAttr{Name: "current"}, hcl.TraverseAttr{Name: "account_id"}},
}

// Reference resolves a graph reference to a traversal, using refs (node id ->
// address) for nodes already rendered.
func Reference(g *graph.Graph, refs map[string]string, r graph.Ref) (hcl.Traversal, error) {
	n := g.Node(r.ID)
	if n == nil {
		return nil, fmt.Errorf("reference to unknown node %q", r.ID)
	}
	addr, ok := refs[r.ID]
	if !ok {
		return nil, fmt.Errorf("node %q has no terraform address", r.ID)
	}
	return RefTraversal(addr, AttrName(n.Type(), r.Attr)), nil
}

// SubTokens renders a graph.Sub as a Terraform template string.
func SubTokens(g *graph.Graph, refs map[string]string, s graph.Sub) (hclwrite.Tokens, error) {
	var parts []any
	rest := string(s)
	for _, name := range s.Placeholders() {
		marker := "${" + name + "}"
		i := strings.Index(rest, marker)
		parts = append(parts, rest[:i])
		rest = rest[i+len(marker):]

		if graph.IsPseudoParameter(name) {
			t, ok := pseudoParameters[name]
			if !ok {
				return nil, fmt.Errorf("unsupported pseudo parameter %s", name)
			}
			parts = append(parts, t)
			continue
		}
		t, err := Reference(g, refs, graph.SplitPlaceholder(name))
		if err != nil {
			return nil, err
		}
		parts = append(parts, t)
	}
	parts = append(parts, rest)
	return TemplateTokens(parts...), nil
}

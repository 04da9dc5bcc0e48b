package handler

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/stretchr/testify/require"

	"github.com/kda-constructs/generator/internal/cloudformation"
	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/monitoring"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/studio"
	"github.com/kda-constructs/generator/internal/terraform"
)

func monitoringGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := monitoring.Generate(&config.MonitoringConfig{
		ApplicationName: "test-application",
		LogGroupName:    "test-log-group",
		InputStreamName: "test-stream",
	})
	require.NoError(t, err)
	return g
}

func studioGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := studio.Generate(&config.StudioConfig{
		LogsRetentionDays: config.RetentionOneWeek,
		LogLevel:          config.LogLevelInfo,
		SubnetIDs:         []string{"subnet-a", "subnet-b"},
		SecurityGroupIDs:  []string{"sg-123"},
		ClusterARN:        "arn:aws:kafka:region:account:cluster/cluster-name/cluster-uuid",
	})
	require.NoError(t, err)
	return g
}

func handlerFor(t *testing.T, n *graph.Node) registry.ResourceHandler {
	t.Helper()
	h, ok := registry.Default.Get(n.Type())
	require.True(t, ok, "no handler for %s", n.Type())
	return h
}

// synthesize creates a node's construct in a fresh stack.
func synthesize(t *testing.T, g *graph.Graph, id string) assertions.Template {
	t.Helper()
	n := g.Node(id)
	require.NotNil(t, n)
	tmpl, err := cloudformation.New("test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tmpl.Close() })

	res, err := handlerFor(t, n).CloudFormation(tmpl.Scope(), n, g)
	require.NoError(t, err)
	tmpl.Add(id, res, n.Metadata)
	return assertions.Template_FromStack(tmpl.Stack(), nil)
}

// propertiesJSON renders a node's synthesized CloudFormation properties as JSON.
func propertiesJSON(t *testing.T, g *graph.Graph, id string) string {
	t.Helper()
	doc := *synthesize(t, g, id).ToJSON()
	resources, ok := doc["Resources"].(map[string]any)
	require.True(t, ok)
	res, ok := resources[id].(map[string]any)
	require.True(t, ok, "no resource %s", id)
	b, err := json.Marshal(res["Properties"])
	require.NoError(t, err)
	return string(b)
}

func refsFor(g *graph.Graph) RefMap {
	refs := make(RefMap)
	for _, n := range g.Nodes() {
		if addr, ok := terraform.Address(n); ok {
			refs[n.ID] = addr
		}
	}
	return refs
}

// renderHCL renders a node's Terraform block and parses it back.
func renderHCL(t *testing.T, g *graph.Graph, id string) *hclwrite.Block {
	t.Helper()
	n := g.Node(id)
	require.NotNil(t, n)
	src, err := handlerFor(t, n).GenerateHCL(n, g, refsFor(g))
	require.NoError(t, err)
	f, diags := hclwrite.ParseConfig(src, id+".tf", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	blocks := f.Body().Blocks()
	require.Len(t, blocks, 1)
	return blocks[0]
}

// attr returns the source of an attribute expression, descending into the
// first nested block of each given type.
func attr(t *testing.T, b *hclwrite.Block, path ...string) string {
	t.Helper()
	body := b.Body()
	for _, blockType := range path[:len(path)-1] {
		nested := body.FirstMatchingBlock(blockType, nil)
		require.NotNil(t, nested, "missing block %s", blockType)
		body = nested.Body()
	}
	a := body.GetAttribute(path[len(path)-1])
	require.NotNil(t, a, "missing attribute %s", strings.Join(path, "."))
	return strings.TrimSpace(string(a.Expr().BuildTokens(nil).Bytes()))
}

func attrOf(b *hclwrite.Block, name string) string {
	a := b.Body().GetAttribute(name)
	if a == nil {
		return ""
	}
	return strings.TrimSpace(string(a.Expr().BuildTokens(nil).Bytes()))
}

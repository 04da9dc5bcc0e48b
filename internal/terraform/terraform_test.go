package terraform

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kda-constructs/generator/internal/graph"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DowntimeAlarm", "downtime_alarm"},
		{"OldGenerationGCTimeAlarm", "old_generation_gc_time_alarm"},
		{"CpuUtilizationAlarm", "cpu_utilization_alarm"},
		{"HTTPServer", "http_server"},
		{"log-group", "log_group"},
		{"StudioRole", "studio_role"},
		{"123abc", "r_123abc"},
		{"", "r_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func testGraph(t *testing.T) (*graph.Graph, map[string]string) {
	t.Helper()
	b := graph.NewBuilder()
	lg := b.Add("LogGroup", &graph.LogGroup{RetentionInDays: 7})
	b.Add("LogStream", &graph.LogStream{LogGroup: lg})
	b.Add("Dashboard", &graph.Dashboard{DashboardName: "d"})
	b.Add("Option", &graph.LoggingOption{LogGroup: lg, LogStream: graph.Ref{ID: "LogStream"}, Application: lg})
	g, err := b.Build()
	require.NoError(t, err)

	refs := make(map[string]string)
	for _, n := range g.Nodes() {
		if addr, ok := Address(n); ok {
			refs[n.ID] = addr
		}
	}
	return g, refs
}

func TestAddress(t *testing.T) {
	g, refs := testGraph(t)
	assert.Equal(t, map[string]string{
		"LogGroup":  "aws_cloudwatch_log_group.log_group",
		"LogStream": "aws_cloudwatch_log_stream.log_stream",
		"Dashboard": "aws_cloudwatch_dashboard.dashboard",
	}, refs)

	_, ok := Address(g.Node("Option"))
	assert.False(t, ok)
}

func TestReference(t *testing.T) {
	g, refs := testGraph(t)

	tests := []struct {
		ref  graph.Ref
		want string
	}{
		{graph.Ref{ID: "LogGroup"}, "aws_cloudwatch_log_group.log_group.name"},
		{graph.Ref{ID: "LogGroup", Attr: "Arn"}, "aws_cloudwatch_log_group.log_group.arn"},
		{graph.Ref{ID: "LogStream", Attr: "Arn"}, "aws_cloudwatch_log_stream.log_stream.arn"},
		{graph.Ref{ID: "Dashboard"}, "aws_cloudwatch_dashboard.dashboard.dashboard_name"},
		{graph.Ref{ID: "Dashboard", Attr: "Arn"}, "aws_cloudwatch_dashboard.dashboard.dashboard_arn"},
	}
	for _, tt := range tests {
		trav, err := Reference(g, refs, tt.ref)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(hclwrite.TokensForTraversal(trav).Bytes()))
	}

	_, err := Reference(g, refs, graph.Ref{ID: "Missing"})
	assert.ErrorContains(t, err, "unknown node")
	_, err = Reference(g, refs, graph.Ref{ID: "Option"})
	assert.ErrorContains(t, err, "no terraform address")
}

func TestSubTokens(t *testing.T) {
	g, refs := testGraph(t)

	toks, err := SubTokens(g, refs, graph.Sub("arn:${AWS::Partition}:logs:${AWS::Region}:${AWS::AccountId}:log-group:${LogGroup}:*"))
	require.NoError(t, err)
	assert.Equal(t,
		`"arn:${data.aws_partition.current.partition}:logs:${var.aws_region}:${data.aws_caller_identity.current.account_id}:log-group:${aws_cloudwatch_log_group.log_group.name}:*"`,
		string(toks.Bytes()))

	_, err = SubTokens(g, refs, graph.Sub("${AWS::StackName}"))
	assert.ErrorContains(t, err, "unsupported pseudo parameter")
}

func TestSubTokens_EscapesLiterals(t *testing.T) {
	g, refs := testGraph(t)

	toks, err := SubTokens(g, refs, graph.Sub(`{"region":"${AWS::Region}"}`))
	require.NoError(t, err)
	assert.Equal(t, `"{\"region\":\"${var.aws_region}\"}"`, string(toks.Bytes()))
}

func TestValueTokens(t *testing.T) {
	g, refs := testGraph(t)

	f := hclwrite.NewEmptyFile()
	toks, err := ValueTokens(g, refs, map[string]any{
		"Version":  "2012-10-17",
		"Resource": graph.Ref{ID: "LogGroup", Attr: "Arn"},
		"Action":   []any{"logs:PutLogEvents"},
	})
	require.NoError(t, err)
	f.Body().SetAttributeRaw("policy", JSONEncode(toks))

	out := string(f.Bytes())
	assert.Contains(t, out, "jsonencode(")
	assert.Contains(t, out, `"2012-10-17"`)
	assert.Contains(t, out, "Resource = aws_cloudwatch_log_group.log_group.arn")
	assert.Contains(t, out, `"logs:PutLogEvents"`)

	_, diags := hclwrite.ParseConfig(f.Bytes(), "policy.tf", hcl.InitialPos)
	assert.False(t, diags.HasErrors(), diags.Error())

	_, err = ValueTokens(g, refs, struct{}{})
	assert.ErrorContains(t, err, "unsupported value type")
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(true)
	b.AddResource([]byte("resource \"a\" \"b\" {}\n"))
	b.AddResource(nil)
	b.AddResource([]byte("resource \"c\" \"d\" {}\n"))
	b.SetVersions(VersionsTF())
	b.SetVariables(VariablesTF())
	b.SetOutputs(OutputsTF(nil))
	b.SetTfvars(Tfvars("eu-west-1"))

	assert.Equal(t, 2, b.Resources())
	files := b.Build()
	assert.Equal(t, "resource \"a\" \"b\" {}\n\nresource \"c\" \"d\" {}\n", string(files[MainFile]))
	assert.Contains(t, string(files[VersionsFile]), `"hashicorp/aws"`)
	assert.Contains(t, string(files[VersionsFile]), `data "aws_partition" "current"`)
	assert.Contains(t, string(files[VariablesFile]), `variable "aws_region"`)
	assert.Equal(t, "aws_region = \"eu-west-1\"\n", string(files[TfvarsFile]))
	assert.NotContains(t, files, OutputsFile)
}

func TestBuilder_NoTfvars(t *testing.T) {
	b := NewBuilder(false)
	b.SetTfvars(Tfvars(""))
	assert.NotContains(t, b.Build(), TfvarsFile)
}

func TestOutputsTF(t *testing.T) {
	out := string(OutputsTF([]Output{{
		Name:        "role_arn",
		Description: "Service role ARN",
		Value:       RefTraversal("aws_iam_role.studio_role", "arn"),
	}}))
	assert.Contains(t, out, `output "role_arn"`)
	assert.Contains(t, out, `"Service role ARN"`)
	assert.Contains(t, out, "aws_iam_role.studio_role.arn")
}

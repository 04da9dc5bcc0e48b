package studio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/graph"
)

func testConfig() *config.StudioConfig {
	return &config.StudioConfig{
		LogsRetentionDays: config.RetentionOneWeek,
		LogLevel:          config.LogLevelInfo,
		SubnetIDs:         []string{"subnet-a", "subnet-b"},
		SecurityGroupIDs:  []string{"sg-123"},
		ClusterARN:        "arn:aws:kafka:region:account:cluster/cluster-name/cluster-uuid",
	}
}

func TestGenerate_Resources(t *testing.T) {
	g, err := Generate(testConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{LogGroupID, LogStreamID, RoleID, ApplicationID, LoggingOptionID}, ids(g))

	lg := g.Node(LogGroupID).Resource.(*graph.LogGroup)
	assert.Equal(t, int32(7), lg.RetentionInDays)

	streams := g.OfType(graph.TypeLogStream)
	require.NotEmpty(t, streams)
	for _, n := range streams {
		assert.Equal(t, graph.Ref{ID: LogGroupID}, n.Resource.(*graph.LogStream).LogGroup)
	}

	opt := g.Node(LoggingOptionID).Resource.(*graph.LoggingOption)
	assert.Equal(t, graph.Ref{ID: ApplicationID}, opt.Application)
	assert.Equal(t, graph.Ref{ID: LogStreamID}, opt.LogStream)
}

func TestGenerate_RoleTrustsOnlyService(t *testing.T) {
	g, err := Generate(testConfig())
	require.NoError(t, err)

	roles := g.OfType(graph.TypeRole)
	require.Len(t, roles, 1)
	role := roles[0].Resource.(*graph.Role)

	assert.Equal(t, graph.PolicyDocument{
		Version: "2012-10-17",
		Statements: []graph.Statement{{
			Effect:    graph.EffectAllow,
			Principal: &graph.Principal{Service: "kinesisanalytics.amazonaws.com"},
			Actions:   []string{"sts:AssumeRole"},
		}},
	}, role.AssumeRolePolicy)
}

func TestGenerate_RoleSuppression(t *testing.T) {
	g, err := Generate(testConfig())
	require.NoError(t, err)

	assert.Equal(t, graph.Metadata{
		"cfn_nag": map[string]any{
			"rules_to_suppress": []any{
				map[string]any{
					"id":     "W11",
					"reason": "EC2 actions do not support resource level permissions / Studio uses default Glue database",
				},
			},
		},
	}, g.Node(RoleID).Metadata)
}

func TestGenerate_RolePolicies(t *testing.T) {
	g, err := Generate(testConfig())
	require.NoError(t, err)
	role := g.Node(RoleID).Resource.(*graph.Role)

	policies := make(map[string]graph.PolicyDocument)
	for _, p := range role.Policies {
		policies[p.PolicyName] = p.Document
	}
	require.Contains(t, policies, "MskAccess")
	assert.Equal(t, []any{testConfig().ClusterARN}, policies["MskAccess"].Statements[0].Resources)
	require.Contains(t, policies, "VpcAccess")
	assert.Equal(t, []any{"*"}, policies["VpcAccess"].Statements[0].Resources)
	require.Contains(t, policies, "GlueCatalogAccess")
	assert.Contains(t, policies["GlueCatalogAccess"].Statements[0].Resources,
		graph.Sub("arn:${AWS::Partition}:glue:${AWS::Region}:${AWS::AccountId}:database/default"))

	assert.Contains(t, role.References(), graph.Ref{ID: LogGroupID})
}

func TestGenerate_Application(t *testing.T) {
	cfg := testConfig()
	cfg.ApplicationName = "notebook"
	cfg.GlueDatabaseName = "analytics"

	g, err := Generate(cfg)
	require.NoError(t, err)
	app := g.Node(ApplicationID).Resource.(*graph.Application)

	assert.Equal(t, "notebook", app.ApplicationName)
	assert.Equal(t, RuntimeEnvironment, app.RuntimeEnvironment)
	assert.Equal(t, ApplicationMode, app.ApplicationMode)
	assert.Equal(t, graph.Ref{ID: RoleID, Attr: "Arn"}, app.ServiceExecutionRole)
	assert.Equal(t, []string{"subnet-a", "subnet-b"}, app.SubnetIDs)
	assert.Equal(t, []string{"sg-123"}, app.SecurityGroupIDs)
	assert.Equal(t, "INFO", app.LogLevel)
	assert.Equal(t, graph.Sub("arn:${AWS::Partition}:glue:${AWS::Region}:${AWS::AccountId}:database/analytics"), app.GlueDatabaseARN)

	cfg.SubnetIDs[0] = "changed"
	assert.Equal(t, "subnet-a", app.SubnetIDs[0])
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SubnetIDs = nil
	cfg.ClusterARN = "not-an-arn"

	g, err := Generate(cfg)
	assert.Nil(t, g)
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "subnetIds")
	assert.Contains(t, err.Error(), "clusterArn")
}

func TestGenerate_Idempotent(t *testing.T) {
	first, err := Generate(testConfig())
	require.NoError(t, err)
	second, err := Generate(testConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func ids(g *graph.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, n.ID)
	}
	return out
}

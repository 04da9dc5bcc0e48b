// Package studio builds the resources of a Kinesis Data Analytics Studio
// (interactive Zeppelin notebook) deployment attached to an MSK cluster.
package studio

import (
	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/graph"
)

const (
	// ServicePrincipal is the only principal allowed to assume the studio role.
	ServicePrincipal = "kinesisanalytics.amazonaws.com"

	RuntimeEnvironment = "ZEPPELIN-FLINK-2_0"
	ApplicationMode    = "INTERACTIVE"

	// SuppressedRule is the cfn_nag finding accepted on the role: IAM policy
	// with a wildcard resource.
	SuppressedRule    = "W11"
	SuppressionReason = "EC2 actions do not support resource level permissions / Studio uses default Glue database"
)

// Node ids of the generated resources.
const (
	LogGroupID      = "LogGroup"
	LogStreamID     = "LogStream"
	RoleID          = "StudioRole"
	ApplicationID   = "Studio"
	LoggingOptionID = "StudioLoggingOption"
)

// Generate builds the studio graph: log group and stream, service role,
// interactive application, and the logging option tying them together.
// An invalid cfg returns a *config.ConfigurationError (joined when there are
// several) and no graph.
func Generate(cfg *config.StudioConfig) (*graph.Graph, error) {
	if errs := config.ValidateStudio(cfg); len(errs) > 0 {
		return nil, config.Join(errs)
	}

	database := cfg.GlueDatabaseName
	if database == "" {
		database = config.DefaultGlueDatabase
	}

	b := graph.NewBuilder()
	logGroup := b.Add(LogGroupID, &graph.LogGroup{RetentionInDays: int32(cfg.LogsRetentionDays)})
	logStream := b.Add(LogStreamID, &graph.LogStream{LogGroup: logGroup})
	role := b.Add(RoleID, serviceRole(cfg.ClusterARN, database), graph.WithMetadata(suppressions()))
	app := b.Add(ApplicationID, &graph.Application{
		ApplicationName:        cfg.ApplicationName,
		ApplicationDescription: "Kinesis Data Analytics Studio notebook",
		RuntimeEnvironment:     RuntimeEnvironment,
		ApplicationMode:        ApplicationMode,
		ServiceExecutionRole:   graph.Ref{ID: role.ID, Attr: "Arn"},
		SubnetIDs:              append([]string(nil), cfg.SubnetIDs...),
		SecurityGroupIDs:       append([]string(nil), cfg.SecurityGroupIDs...),
		LogLevel:               string(cfg.LogLevel),
		GlueDatabaseARN:        glueARN("database/" + database),
	})
	b.Add(LoggingOptionID, &graph.LoggingOption{
		Application: app,
		LogGroup:    logGroup,
		LogStream:   logStream,
	})
	return b.Build()
}

func serviceRole(clusterARN, database string) *graph.Role {
	return &graph.Role{
		Description: "Service role for the Kinesis Data Analytics Studio notebook",
		AssumeRolePolicy: graph.PolicyDocument{
			Version: graph.PolicyVersion,
			Statements: []graph.Statement{{
				Effect:    graph.EffectAllow,
				Principal: &graph.Principal{Service: ServicePrincipal},
				Actions:   []string{"sts:AssumeRole"},
			}},
		},
		Policies: []graph.InlinePolicy{
			policy("GlueCatalogAccess", graph.Statement{
				Effect: graph.EffectAllow,
				Actions: []string{
					"glue:GetConnection", "glue:GetDatabase", "glue:GetDatabases",
					"glue:CreateTable", "glue:DeleteTable", "glue:GetTable", "glue:GetTables", "glue:UpdateTable",
					"glue:GetPartition", "glue:GetPartitions", "glue:GetUserDefinedFunction",
				},
				Resources: []any{
					glueARN("catalog"),
					glueARN("database/" + database),
					glueARN("table/" + database + "/*"),
					glueARN("userDefinedFunction/" + database + "/*"),
				},
			}),
			policy("VpcAccess", graph.Statement{
				Effect: graph.EffectAllow,
				Actions: []string{
					"ec2:CreateNetworkInterface", "ec2:CreateNetworkInterfacePermission",
					"ec2:DeleteNetworkInterface", "ec2:DescribeNetworkInterfaces",
					"ec2:DescribeDhcpOptions", "ec2:DescribeSecurityGroups",
					"ec2:DescribeSubnets", "ec2:DescribeVpcs",
				},
				Resources: []any{"*"},
			}),
			policy("MskAccess", graph.Statement{
				Effect:    graph.EffectAllow,
				Actions:   []string{"kafka:DescribeCluster", "kafka:DescribeClusterV2", "kafka:GetBootstrapBrokers"},
				Resources: []any{clusterARN},
			}),
			policy("LogsAccess", graph.Statement{
				Effect:  graph.EffectAllow,
				Actions: []string{"logs:DescribeLogGroups", "logs:DescribeLogStreams", "logs:PutLogEvents"},
				Resources: []any{
					graph.Sub("arn:${AWS::Partition}:logs:${AWS::Region}:${AWS::AccountId}:log-group:${" + LogGroupID + "}:*"),
				},
			}),
		},
	}
}

func policy(name string, statements ...graph.Statement) graph.InlinePolicy {
	return graph.InlinePolicy{
		PolicyName: name,
		Document:   graph.PolicyDocument{Version: graph.PolicyVersion, Statements: statements},
	}
}

func glueARN(resource string) graph.Sub {
	return graph.Sub("arn:${AWS::Partition}:glue:${AWS::Region}:${AWS::AccountId}:" + resource)
}

func suppressions() graph.Metadata {
	return graph.Metadata{
		"cfn_nag": map[string]any{
			"rules_to_suppress": []any{
				map[string]any{"id": SuppressedRule, "reason": SuppressionReason},
			},
		},
	}
}

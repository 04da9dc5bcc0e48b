package handler

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awskinesisanalyticsv2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/kda-constructs/generator/internal/cloudformation"
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/terraform"
)

type applicationHandler struct{}

type loggingOptionHandler struct{}

func init() {
	registry.Default.Register(&applicationHandler{})
	registry.Default.Register(&loggingOptionHandler{})
}

func (applicationHandler) ResourceType() graph.ResourceType { return graph.TypeApplication }

func (applicationHandler) Validate(node *graph.Node) ([]result.Error, []result.Warning) {
	var errs []result.Error
	a, ok := node.Resource.(*graph.Application)
	if !ok {
		return []result.Error{validationError(node.ID, "resource is not an application", "")}, nil
	}
	if a.RuntimeEnvironment == "" {
		errs = append(errs, validationError(node.ID, "runtime environment is required", ""))
	}
	if a.ServiceExecutionRole.ID == "" {
		errs = append(errs, validationError(node.ID, "service execution role is required", ""))
	}
	if len(a.SubnetIDs) == 0 || len(a.SecurityGroupIDs) == 0 {
		errs = append(errs, validationError(node.ID, "vpc configuration needs subnets and security groups", ""))
	}
	return errs, nil
}

func (applicationHandler) CloudFormation(scope constructs.Construct, node *graph.Node, _ *graph.Graph) (awscdk.CfnResource, error) {
	a := node.Resource.(*graph.Application)
	appConfig := &awskinesisanalyticsv2.CfnApplication_ApplicationConfigurationProperty{
		VpcConfigurations: &[]any{&awskinesisanalyticsv2.CfnApplication_VpcConfigurationProperty{
			SubnetIds:        cloudformation.Strings(a.SubnetIDs),
			SecurityGroupIds: cloudformation.Strings(a.SecurityGroupIDs),
		}},
	}
	if a.LogLevel != "" || a.GlueDatabaseARN != "" {
		zeppelin := &awskinesisanalyticsv2.CfnApplication_ZeppelinApplicationConfigurationProperty{}
		if a.LogLevel != "" {
			zeppelin.MonitoringConfiguration = &awskinesisanalyticsv2.CfnApplication_ZeppelinMonitoringConfigurationProperty{
				LogLevel: jsii.String(a.LogLevel),
			}
		}
		if a.GlueDatabaseARN != "" {
			zeppelin.CatalogConfiguration = &awskinesisanalyticsv2.CfnApplication_CatalogConfigurationProperty{
				GlueDataCatalogConfiguration: &awskinesisanalyticsv2.CfnApplication_GlueDataCatalogConfigurationProperty{
					DatabaseArn: cloudformation.Sub(string(a.GlueDatabaseARN)),
				},
			}
		}
		appConfig.ZeppelinApplicationConfiguration = zeppelin
	}

	return awskinesisanalyticsv2.NewCfnApplication(scope, jsii.String(node.ID), &awskinesisanalyticsv2.CfnApplicationProps{
		RuntimeEnvironment:       jsii.String(a.RuntimeEnvironment),
		ServiceExecutionRole:     cloudformation.Ref(a.ServiceExecutionRole),
		ApplicationConfiguration: appConfig,
		ApplicationMode:          cloudformation.String(a.ApplicationMode),
		ApplicationName:          cloudformation.String(a.ApplicationName),
		ApplicationDescription:   cloudformation.String(a.ApplicationDescription),
	}), nil
}

// GenerateHCL also renders the application's logging options, which the
// provider models as a nested block rather than a resource.
func (applicationHandler) GenerateHCL(node *graph.Node, g *graph.Graph, refs RefMap) ([]byte, error) {
	a := node.Resource.(*graph.Application)
	block, err := resourceBlock(node)
	if err != nil {
		return nil, err
	}
	body := block.Body()

	name := a.ApplicationName
	if name == "" {
		name = node.ID
	}
	terraform.SetAttributeStr(body, "name", name)
	terraform.SetAttributeStr(body, "description", a.ApplicationDescription)
	terraform.SetAttributeStr(body, "runtime_environment", a.RuntimeEnvironment)
	terraform.SetAttributeStr(body, "application_mode", a.ApplicationMode)
	if err := setRef(body, "service_execution_role", g, refs, a.ServiceExecutionRole); err != nil {
		return nil, err
	}

	vpc := body.AppendNewBlock("application_configuration", nil).Body().
		AppendNewBlock("vpc_configuration", nil).Body()
	terraform.SetAttributeStrList(vpc, "subnet_ids", a.SubnetIDs)
	terraform.SetAttributeStrList(vpc, "security_group_ids", a.SecurityGroupIDs)

	for _, n := range g.Referencing(node.ID) {
		opt, ok := n.Resource.(*graph.LoggingOption)
		if !ok {
			continue
		}
		logging := body.AppendNewBlock("cloudwatch_logging_options", nil).Body()
		if err := setRef(logging, "log_stream_arn", g, refs, graph.Ref{ID: opt.LogStream.ID, Attr: "Arn"}); err != nil {
			return nil, err
		}
	}
	return terraform.BlockToBytes(block), nil
}

func (loggingOptionHandler) ResourceType() graph.ResourceType { return graph.TypeLoggingOption }

func (loggingOptionHandler) Validate(node *graph.Node) ([]result.Error, []result.Warning) {
	o, ok := node.Resource.(*graph.LoggingOption)
	if !ok {
		return []result.Error{validationError(node.ID, "resource is not a logging option", "")}, nil
	}
	if o.Application.ID == "" || o.LogGroup.ID == "" || o.LogStream.ID == "" {
		return []result.Error{validationError(node.ID, "logging option needs an application, log group, and log stream", "")}, nil
	}
	return nil, nil
}

func (loggingOptionHandler) CloudFormation(scope constructs.Construct, node *graph.Node, _ *graph.Graph) (awscdk.CfnResource, error) {
	o := node.Resource.(*graph.LoggingOption)
	return awskinesisanalyticsv2.NewCfnApplicationCloudWatchLoggingOption(scope, jsii.String(node.ID),
		&awskinesisanalyticsv2.CfnApplicationCloudWatchLoggingOptionProps{
			ApplicationName: cloudformation.Ref(o.Application),
			CloudWatchLoggingOption: &awskinesisanalyticsv2.CfnApplicationCloudWatchLoggingOption_CloudWatchLoggingOptionProperty{
				LogStreamArn: cloudformation.Sub("arn:${AWS::Partition}:logs:${AWS::Region}:${AWS::AccountId}:log-group:${" +
					o.LogGroup.ID + "}:log-stream:${" + o.LogStream.ID + "}"),
			},
		}), nil
}

// GenerateHCL returns no block: the option is rendered by the application it references.
func (loggingOptionHandler) GenerateHCL(*graph.Node, *graph.Graph, RefMap) ([]byte, error) {
	return nil, nil
}

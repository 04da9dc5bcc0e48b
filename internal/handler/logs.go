package handler

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/kda-constructs/generator/internal/cloudformation"
	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/terraform"
)

type logGroupHandler struct{}

type logStreamHandler struct{}

func init() {
	registry.Default.Register(&logGroupHandler{})
	registry.Default.Register(&logStreamHandler{})
}

func (logGroupHandler) ResourceType() graph.ResourceType { return graph.TypeLogGroup }

func (logGroupHandler) Validate(node *graph.Node) ([]result.Error, []result.Warning) {
	lg, ok := node.Resource.(*graph.LogGroup)
	if !ok {
		return []result.Error{validationError(node.ID, "resource is not a log group", "")}, nil
	}
	if !config.RetentionDays(lg.RetentionInDays).Valid() {
		return []result.Error{validationError(node.ID, "unsupported retention period",
			"Use a CloudWatch Logs retention value (e.g. 7, 14, 30, 365)")}, nil
	}
	return nil, nil
}

func (logGroupHandler) CloudFormation(scope constructs.Construct, node *graph.Node, _ *graph.Graph) (awscdk.CfnResource, error) {
	lg := node.Resource.(*graph.LogGroup)
	return awslogs.NewCfnLogGroup(scope, jsii.String(node.ID), &awslogs.CfnLogGroupProps{
		LogGroupName:    cloudformation.String(lg.LogGroupName),
		RetentionInDays: jsii.Number(float64(lg.RetentionInDays)),
	}), nil
}

func (logGroupHandler) GenerateHCL(node *graph.Node, _ *graph.Graph, _ RefMap) ([]byte, error) {
	lg := node.Resource.(*graph.LogGroup)
	block, err := resourceBlock(node)
	if err != nil {
		return nil, err
	}
	body := block.Body()
	terraform.SetAttributeStr(body, "name", lg.LogGroupName)
	terraform.SetAttributeInt(body, "retention_in_days", int(lg.RetentionInDays))
	return terraform.BlockToBytes(block), nil
}

func (logStreamHandler) ResourceType() graph.ResourceType { return graph.TypeLogStream }

func (logStreamHandler) Validate(node *graph.Node) ([]result.Error, []result.Warning) {
	ls, ok := node.Resource.(*graph.LogStream)
	if !ok {
		return []result.Error{validationError(node.ID, "resource is not a log stream", "")}, nil
	}
	if ls.LogGroup.ID == "" {
		return []result.Error{validationError(node.ID, "log stream has no log group", "")}, nil
	}
	return nil, nil
}

func (logStreamHandler) CloudFormation(scope constructs.Construct, node *graph.Node, _ *graph.Graph) (awscdk.CfnResource, error) {
	ls := node.Resource.(*graph.LogStream)
	return awslogs.NewCfnLogStream(scope, jsii.String(node.ID), &awslogs.CfnLogStreamProps{
		LogGroupName:  cloudformation.Ref(ls.LogGroup),
		LogStreamName: cloudformation.String(ls.LogStreamName),
	}), nil
}

// GenerateHCL names the stream after its node when no name is set; the
// provider requires one.
func (logStreamHandler) GenerateHCL(node *graph.Node, g *graph.Graph, refs RefMap) ([]byte, error) {
	ls := node.Resource.(*graph.LogStream)
	block, err := resourceBlock(node)
	if err != nil {
		return nil, err
	}
	body := block.Body()
	name := ls.LogStreamName
	if name == "" {
		name = node.ID
	}
	terraform.SetAttributeStr(body, "name", name)
	if err := setRef(body, "log_group_name", g, refs, ls.LogGroup); err != nil {
		return nil, err
	}
	return terraform.BlockToBytes(block), nil
}

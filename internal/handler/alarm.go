package handler

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/kda-constructs/generator/internal/cloudformation"
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/terraform"
)

type alarmHandler struct{}

func init() {
	registry.Default.Register(&alarmHandler{})
}

func (alarmHandler) ResourceType() graph.ResourceType { return graph.TypeAlarm }

func (alarmHandler) Validate(node *graph.Node) ([]result.Error, []result.Warning) {
	var errs []result.Error
	var warns []result.Warning
	a, ok := node.Resource.(*graph.Alarm)
	if !ok {
		return []result.Error{validationError(node.ID, "resource is not an alarm", "")}, nil
	}
	switch {
	case a.IsExpression() && a.MetricName != "":
		errs = append(errs, validationError(node.ID, "alarm sets both a metric and metric queries",
			"Use either metricName or metrics, not both"))
	case !a.IsExpression() && a.MetricName == "":
		errs = append(errs, validationError(node.ID, "alarm has no metric", "Set metricName or metrics"))
	case !a.IsExpression() && a.Namespace == "":
		errs = append(errs, validationError(node.ID, "namespace is required", "Set the metric namespace"))
	}
	if a.ComparisonOperator == "" {
		errs = append(errs, validationError(node.ID, "comparison operator is required", "Set comparisonOperator"))
	}
	if a.EvaluationPeriods < 1 {
		errs = append(errs, validationError(node.ID, "evaluation periods must be at least 1", ""))
	}
	if !a.IsExpression() && a.Period%60 != 0 && a.Period != 10 && a.Period != 30 {
		errs = append(errs, validationError(node.ID, "period must be 10, 30, or a multiple of 60", ""))
	}
	if a.IsExpression() {
		returned := 0
		for _, q := range a.Metrics {
			if q.ReturnData == nil || aws.ToBool(q.ReturnData) {
				returned++
			}
		}
		if returned != 1 {
			errs = append(errs, validationError(node.ID, "exactly one metric query must return data",
				"Set returnData=false on every query except the alarmed expression"))
		}
	}
	if a.TreatMissingData != graph.TreatMissingBreaching {
		warns = append(warns, validationWarning(node.ID, "missing data is not treated as breaching",
			"A stopped application stops publishing metrics; set treatMissingData to breaching"))
	}
	return errs, warns
}

func (alarmHandler) CloudFormation(scope constructs.Construct, node *graph.Node, _ *graph.Graph) (awscdk.CfnResource, error) {
	a := node.Resource.(*graph.Alarm)
	props := &awscloudwatch.CfnAlarmProps{
		AlarmName:          cloudformation.String(a.AlarmName),
		AlarmDescription:   cloudformation.String(a.AlarmDescription),
		ComparisonOperator: jsii.String(string(a.ComparisonOperator)),
		EvaluationPeriods:  jsii.Number(float64(a.EvaluationPeriods)),
		Threshold:          jsii.Number(a.Threshold),
		TreatMissingData:   jsii.String(string(a.TreatMissingData)),
	}
	if a.IsExpression() {
		queries := make([]any, len(a.Metrics))
		for i, q := range a.Metrics {
			queries[i] = metricQuery(q)
		}
		props.Metrics = &queries
	} else {
		props.MetricName = jsii.String(a.MetricName)
		props.Namespace = jsii.String(a.Namespace)
		props.Statistic = jsii.String(string(a.Statistic))
		props.Period = jsii.Number(float64(a.Period))
		if dims := dimensionList(a.Dimensions); dims != nil {
			props.Dimensions = dims
		}
	}
	return awscloudwatch.NewCfnAlarm(scope, jsii.String(node.ID), props), nil
}

func metricQuery(q types.MetricDataQuery) *awscloudwatch.CfnAlarm_MetricDataQueryProperty {
	m := &awscloudwatch.CfnAlarm_MetricDataQueryProperty{
		Id:         q.Id,
		Expression: q.Expression,
		Label:      q.Label,
	}
	if q.ReturnData != nil {
		m.ReturnData = q.ReturnData
	}
	if s := q.MetricStat; s != nil {
		metric := &awscloudwatch.CfnAlarm_MetricProperty{}
		if s.Metric != nil {
			metric.MetricName = s.Metric.MetricName
			metric.Namespace = s.Metric.Namespace
			if dims := dimensionList(s.Metric.Dimensions); dims != nil {
				metric.Dimensions = dims
			}
		}
		m.MetricStat = &awscloudwatch.CfnAlarm_MetricStatProperty{
			Metric: metric,
			Period: jsii.Number(float64(aws.ToInt32(s.Period))),
			Stat:   s.Stat,
		}
	}
	return m
}

func (alarmHandler) GenerateHCL(node *graph.Node, _ *graph.Graph, _ RefMap) ([]byte, error) {
	a := node.Resource.(*graph.Alarm)
	block, err := resourceBlock(node)
	if err != nil {
		return nil, err
	}
	body := block.Body()

	name := a.AlarmName
	if name == "" {
		name = node.ID
	}
	terraform.SetAttributeStr(body, "alarm_name", name)
	terraform.SetAttributeStr(body, "alarm_description", a.AlarmDescription)
	terraform.SetAttributeStr(body, "comparison_operator", string(a.ComparisonOperator))
	terraform.SetAttributeInt(body, "evaluation_periods", int(a.EvaluationPeriods))
	terraform.SetAttributeFloat(body, "threshold", a.Threshold)
	terraform.SetAttributeStr(body, "treat_missing_data", string(a.TreatMissingData))

	if !a.IsExpression() {
		terraform.SetAttributeStr(body, "metric_name", a.MetricName)
		terraform.SetAttributeStr(body, "namespace", a.Namespace)
		terraform.SetAttributeStr(body, "statistic", string(a.Statistic))
		terraform.SetAttributeInt(body, "period", int(a.Period))
		terraform.SetAttributeMap(body, "dimensions", dimensionMap(a.Dimensions))
		return terraform.BlockToBytes(block), nil
	}

	for _, q := range a.Metrics {
		qBody := body.AppendNewBlock("metric_query", nil).Body()
		terraform.SetAttributeStr(qBody, "id", aws.ToString(q.Id))
		terraform.SetAttributeStr(qBody, "expression", aws.ToString(q.Expression))
		terraform.SetAttributeStr(qBody, "label", aws.ToString(q.Label))
		if q.ReturnData != nil {
			terraform.SetAttributeBool(qBody, "return_data", aws.ToBool(q.ReturnData))
		}
		if s := q.MetricStat; s != nil && s.Metric != nil {
			mBody := qBody.AppendNewBlock("metric", nil).Body()
			terraform.SetAttributeStr(mBody, "metric_name", aws.ToString(s.Metric.MetricName))
			terraform.SetAttributeStr(mBody, "namespace", aws.ToString(s.Metric.Namespace))
			terraform.SetAttributeInt(mBody, "period", int(aws.ToInt32(s.Period)))
			terraform.SetAttributeStr(mBody, "stat", aws.ToString(s.Stat))
			terraform.SetAttributeMap(mBody, "dimensions", dimensionMap(s.Metric.Dimensions))
		}
	}
	return terraform.BlockToBytes(block), nil
}

// Package monitoring builds the alarms and dashboard that watch a Flink application.
package monitoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/graph"
)

// Namespace is the CloudWatch namespace every application metric is published in.
const Namespace = "AWS/KinesisAnalytics"

const (
	period            int32 = 60
	evaluationPeriods int32 = 1

	dimApplication = "Application"
	dimFlow        = "Flow"
	dimID          = "Id"
	flowInput      = "Input"
)

// Node ids of the generated resources.
const (
	DowntimeAlarmID          = "DowntimeAlarm"
	FailedCheckpointsAlarmID = "FailedCheckpointsAlarm"
	RecordsOutAlarmID        = "RecordsOutAlarm"
	CPUUtilizationAlarmID    = "CpuUtilizationAlarm"
	HeapUtilizationAlarmID   = "HeapMemoryUtilizationAlarm"
	GCTimeAlarmID            = "OldGenerationGCTimeAlarm"
	SourceLagAlarmID         = "MillisBehindLatestAlarm"
	DashboardID              = "ApplicationDashboard"
)

type alarmDef struct {
	id          string
	metric      string
	description string
	op          types.ComparisonOperator
	stat        types.Statistic
	threshold   float64
}

// applicationAlarms are emitted for every source type.
var applicationAlarms = []alarmDef{
	{
		id:          DowntimeAlarmID,
		metric:      "downtime",
		description: "Application is not running",
		op:          types.ComparisonOperatorGreaterThanThreshold,
		stat:        types.StatisticAverage,
		threshold:   0,
	},
	{
		id:          FailedCheckpointsAlarmID,
		metric:      "numberOfFailedCheckpoints",
		description: "Application has failed checkpoints",
		op:          types.ComparisonOperatorGreaterThanThreshold,
		stat:        types.StatisticAverage,
		threshold:   0,
	},
	{
		id:          RecordsOutAlarmID,
		metric:      "numRecordsOutPerSecond",
		description: "Application is not emitting records",
		op:          types.ComparisonOperatorLessThanOrEqualToThreshold,
		stat:        types.StatisticAverage,
		threshold:   0,
	},
	{
		id:          CPUUtilizationAlarmID,
		metric:      "cpuUtilization",
		description: "CPU utilization is above 80%",
		op:          types.ComparisonOperatorGreaterThanThreshold,
		stat:        types.StatisticMaximum,
		threshold:   80,
	},
	{
		id:          HeapUtilizationAlarmID,
		metric:      "heapMemoryUtilization",
		description: "Heap memory utilization is above 90%",
		op:          types.ComparisonOperatorGreaterThanThreshold,
		stat:        types.StatisticMaximum,
		threshold:   90,
	},
}

// Generate builds the monitoring graph for cfg: the application alarms, a
// source lag alarm for Kinesis sources, and one dashboard. An invalid cfg
// returns a *config.ConfigurationError (joined when there are several) and no graph.
func Generate(cfg *config.MonitoringConfig) (*graph.Graph, error) {
	if errs := config.ValidateMonitoring(cfg); len(errs) > 0 {
		return nil, config.Join(errs)
	}
	source, err := cfg.Source()
	if err != nil {
		return nil, err
	}

	b := graph.NewBuilder()
	for _, def := range applicationAlarms {
		b.Add(def.id, metricAlarm(def, applicationDimensions(cfg.ApplicationName)))
	}
	b.Add(GCTimeAlarmID, gcTimeAlarm(cfg.ApplicationName))

	if s, ok := source.(config.StreamSource); ok {
		b.Add(SourceLagAlarmID, metricAlarm(alarmDef{
			id:          SourceLagAlarmID,
			metric:      "millisBehindLatest",
			description: "Application is falling behind the input stream",
			op:          types.ComparisonOperatorGreaterThanThreshold,
			stat:        types.StatisticMaximum,
			threshold:   60000,
		}, sourceDimensions(cfg.ApplicationName, s)))
	}

	b.Add(DashboardID, dashboard(cfg, source))
	return b.Build()
}

// DimensionID converts a stream or topic name into the value of the Id
// dimension the service publishes source metrics under: every character that
// is not an ASCII letter, digit, or underscore becomes an underscore.
func DimensionID(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func metricAlarm(def alarmDef, dims []types.Dimension) *graph.Alarm {
	return &graph.Alarm{
		AlarmDescription:   def.description,
		MetricName:         def.metric,
		Namespace:          Namespace,
		Statistic:          def.stat,
		Period:             period,
		Dimensions:         dims,
		ComparisonOperator: def.op,
		EvaluationPeriods:  evaluationPeriods,
		Threshold:          def.threshold,
		TreatMissingData:   graph.TreatMissingBreaching,
	}
}

// gcTimeAlarm fires when more than 60% of a period is spent in old generation GC.
// oldGenerationGCTime is reported in milliseconds, so the raw series is scaled
// to a percentage of the period and only the derived series is returned.
func gcTimeAlarm(application string) *graph.Alarm {
	periodMillis := (time.Duration(period) * time.Second).Milliseconds()
	return &graph.Alarm{
		AlarmDescription: "Application spends too much time in old generation garbage collection",
		Metrics: []types.MetricDataQuery{
			{
				Id:         aws.String("expr_1"),
				Expression: aws.String(fmt.Sprintf("(m1 * 100)/%d", periodMillis)),
				Label:      aws.String("Old Generation GC Time Percent"),
			},
			{
				Id: aws.String("m1"),
				MetricStat: &types.MetricStat{
					Metric: &types.Metric{
						Namespace:  aws.String(Namespace),
						MetricName: aws.String("oldGenerationGCTime"),
						Dimensions: applicationDimensions(application),
					},
					Period: aws.Int32(period),
					Stat:   aws.String(string(types.StatisticMaximum)),
				},
				ReturnData: aws.Bool(false),
			},
		},
		ComparisonOperator: types.ComparisonOperatorGreaterThanThreshold,
		EvaluationPeriods:  evaluationPeriods,
		Threshold:          60,
		TreatMissingData:   graph.TreatMissingBreaching,
	}
}

func applicationDimensions(application string) []types.Dimension {
	return []types.Dimension{
		{Name: aws.String(dimApplication), Value: aws.String(application)},
	}
}

func sourceDimensions(application string, source config.Source) []types.Dimension {
	return []types.Dimension{
		{Name: aws.String(dimApplication), Value: aws.String(application)},
		{Name: aws.String(dimFlow), Value: aws.String(flowInput)},
		{Name: aws.String(dimID), Value: aws.String(DimensionID(source.Name()))},
	}
}

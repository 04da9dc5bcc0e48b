package monitoring

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/graph"
)

const fullWidth = 24

func dashboard(cfg *config.MonitoringConfig, source config.Source) *graph.Dashboard {
	name := cfg.DashboardName
	if name == "" {
		name = cfg.ApplicationName + "-dashboard"
	}
	app := cfg.ApplicationName

	metric := func(metricName string, stat types.Statistic) graph.DashboardMetric {
		return graph.DashboardMetric{
			Namespace:  Namespace,
			MetricName: metricName,
			Dimensions: applicationDimensions(app),
			Statistic:  stat,
			Period:     period,
		}
	}
	graphWidget := func(title string, metrics ...graph.DashboardMetric) graph.Widget {
		zero := 0.0
		return &graph.GraphWidget{Title: title, Left: metrics, LeftMin: &zero}
	}

	rows := [][]graph.Widget{
		{heading("Application Health")},
		{
			graphWidget("Downtime", metric("downtime", types.StatisticAverage)),
			graphWidget("Uptime", metric("uptime", types.StatisticAverage)),
			graphWidget("Full restarts", metric("fullRestarts", types.StatisticMaximum)),
			graphWidget("Failed checkpoints",
				metric("numberOfFailedCheckpoints", types.StatisticAverage),
				metric("lastCheckpointDuration", types.StatisticMaximum)),
		},
		{heading("Resource Utilization")},
		{
			graphWidget("CPU utilization", metric("cpuUtilization", types.StatisticMaximum)),
			graphWidget("Heap memory utilization", metric("heapMemoryUtilization", types.StatisticMaximum)),
			graphWidget("Old generation GC",
				metric("oldGenerationGCTime", types.StatisticMaximum),
				metric("oldGenerationGCCount", types.StatisticMaximum)),
			graphWidget("Threads", metric("threadsCount", types.StatisticMaximum)),
		},
		{heading("Application Progress")},
		{
			graphWidget("Incoming records per second", metric("numRecordsInPerSecond", types.StatisticAverage)),
			graphWidget("Outgoing records per second", metric("numRecordsOutPerSecond", types.StatisticAverage)),
			graphWidget("Late records dropped", metric("numLateRecordsDropped", types.StatisticMaximum)),
		},
	}
	rows = append(rows, sourceRows(app, source)...)
	rows = append(rows,
		[]graph.Widget{heading("Logs")},
		[]graph.Widget{&graph.LogQueryWidget{
			Title:         "Application logs",
			LogGroupNames: []string{cfg.LogGroupName},
			QueryLines: []string{
				"fields @timestamp, @message",
				"sort @timestamp desc",
				"limit 100",
			},
			Width: fullWidth,
		}},
	)

	return &graph.Dashboard{DashboardName: name, Rows: rows}
}

// sourceRows shows consumer lag for the configured source. Kinesis lag is
// alarmed on separately; Kafka lag is only charted.
func sourceRows(app string, source config.Source) [][]graph.Widget {
	sourceMetric := func(name string, stat types.Statistic) graph.DashboardMetric {
		return graph.DashboardMetric{
			Namespace:  Namespace,
			MetricName: name,
			Dimensions: sourceDimensions(app, source),
			Statistic:  stat,
			Period:     period,
		}
	}
	switch s := source.(type) {
	case config.StreamSource:
		return [][]graph.Widget{
			{heading(fmt.Sprintf("Kinesis Source (%s)", s.StreamName))},
			{&graph.GraphWidget{
				Title: "Millis behind latest",
				Left:  []graph.DashboardMetric{sourceMetric("millisBehindLatest", types.StatisticMaximum)},
			}},
		}
	case config.TopicSource:
		return [][]graph.Widget{
			{heading(fmt.Sprintf("Kafka Source (%s)", s.TopicName))},
			{
				&graph.GraphWidget{
					Title: "Records lag max",
					Left:  []graph.DashboardMetric{sourceMetric("records_lag_max", types.StatisticMaximum)},
				},
				&graph.GraphWidget{
					Title: "Bytes consumed rate",
					Left:  []graph.DashboardMetric{sourceMetric("bytes_consumed_rate", types.StatisticAverage)},
				},
			},
		}
	}
	return nil
}

func heading(title string) graph.Widget {
	return &graph.TextWidget{Markdown: "## " + title, Width: fullWidth, Height: 1}
}

package handler

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/monitoring"
)

type decodedWidget struct {
	Type       string         `json:"type"`
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Properties map[string]any `json:"properties"`
}

func decodeBody(t *testing.T, body string) []decodedWidget {
	t.Helper()
	var out struct {
		Widgets []decodedWidget `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out.Widgets
}

func TestDashboard_Properties(t *testing.T) {
	g := monitoringGraph(t)
	var props struct {
		DashboardName string
		DashboardBody struct {
			Sub string `json:"Fn::Sub"`
		}
	}
	require.NoError(t, json.Unmarshal([]byte(propertiesJSON(t, g, monitoring.DashboardID)), &props))

	assert.Equal(t, "test-application-dashboard", props.DashboardName)
	body := props.DashboardBody.Sub

	widgets := decodeBody(t, body)
	require.NotEmpty(t, widgets)

	heading := widgets[0]
	assert.Equal(t, "text", heading.Type)
	assert.Equal(t, []int{0, 0, 24, 1}, []int{heading.X, heading.Y, heading.Width, heading.Height})
	assert.Equal(t, "## Application Health", heading.Properties["markdown"])

	downtime := widgets[1]
	assert.Equal(t, "metric", downtime.Type)
	assert.Equal(t, []int{0, 1, 6, 6}, []int{downtime.X, downtime.Y, downtime.Width, downtime.Height})
	assert.Equal(t, "${AWS::Region}", downtime.Properties["region"])
	assert.Equal(t, []any{
		[]any{"AWS/KinesisAnalytics", "downtime", "Application", "test-application",
			map[string]any{"period": float64(60), "stat": "Average"}},
	}, downtime.Properties["metrics"])

	for i, w := range widgets[1:5] {
		assert.Equal(t, i*6, w.X)
		assert.Equal(t, 1, w.Y)
	}
	assert.Equal(t, 7, widgets[5].Y)

	last := widgets[len(widgets)-1]
	assert.Equal(t, "log", last.Type)
	assert.Equal(t, 24, last.Width)
	assert.Equal(t,
		"SOURCE 'test-log-group' | fields @timestamp, @message | sort @timestamp desc | limit 100",
		last.Properties["query"])
}

func TestDashboard_LayoutWraps(t *testing.T) {
	row := make([]graph.Widget, 5)
	for i := range row {
		row[i] = &graph.TextWidget{Markdown: "x"}
	}
	body, err := dashboardBody(&graph.Dashboard{
		DashboardName: "d",
		Rows: [][]graph.Widget{
			row,
			{&graph.TextWidget{Markdown: "after", Width: 24, Height: 2}},
		},
	})
	require.NoError(t, err)

	widgets := decodeBody(t, body)
	require.Len(t, widgets, 6)
	assert.Equal(t, 18, widgets[3].X)
	assert.Equal(t, 0, widgets[3].Y)
	assert.Equal(t, 0, widgets[4].X)
	assert.Equal(t, 6, widgets[4].Y)
	assert.Equal(t, 12, widgets[5].Y)
}

func TestDashboard_MetricLine(t *testing.T) {
	line := metricLine(graph.DashboardMetric{
		Namespace:  monitoring.Namespace,
		MetricName: "millisBehindLatest",
		Dimensions: []types.Dimension{
			{Name: aws.String("Application"), Value: aws.String("app")},
			{Name: aws.String("Id"), Value: aws.String("s")},
		},
		Statistic: types.StatisticMaximum,
		Period:    60,
		Label:     "lag",
	})
	assert.Equal(t, []any{
		"AWS/KinesisAnalytics", "millisBehindLatest", "Application", "app", "Id", "s",
		map[string]any{"stat": "Maximum", "period": int32(60), "label": "lag"},
	}, line)
}

func TestDashboard_GenerateHCL(t *testing.T) {
	g := monitoringGraph(t)
	block := renderHCL(t, g, monitoring.DashboardID)

	assert.Equal(t, []string{"aws_cloudwatch_dashboard", "application_dashboard"}, block.Labels())
	assert.Equal(t, `"test-application-dashboard"`, attr(t, block, "dashboard_name"))
	body := attr(t, block, "dashboard_body")
	assert.Contains(t, body, "${var.aws_region}")
	assert.NotContains(t, body, "AWS::Region")
}

func TestDashboard_Validate(t *testing.T) {
	tests := []struct {
		name  string
		d     *graph.Dashboard
		errs  int
		warns int
	}{
		{name: "valid", d: &graph.Dashboard{DashboardName: "d", Rows: [][]graph.Widget{{&graph.TextWidget{}}}}},
		{name: "no widgets", d: &graph.Dashboard{DashboardName: "d"}, warns: 1},
		{name: "no name", d: &graph.Dashboard{Rows: [][]graph.Widget{{&graph.TextWidget{}}}}, errs: 1},
		{name: "placeholder in name", d: &graph.Dashboard{DashboardName: "${x}", Rows: [][]graph.Widget{{&graph.TextWidget{}}}}, errs: 1},
		{name: "too wide", d: &graph.Dashboard{DashboardName: "d", Rows: [][]graph.Widget{{&graph.TextWidget{Width: 25}}}}, errs: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, warns := dashboardHandler{}.Validate(&graph.Node{ID: "D", Resource: tt.d})
			assert.Len(t, errs, tt.errs)
			assert.Len(t, warns, tt.warns)
		})
	}
}

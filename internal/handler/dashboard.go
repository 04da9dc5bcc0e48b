package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/kda-constructs/generator/internal/cloudformation"
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/terraform"
)

// gridWidth is the number of columns of a CloudWatch dashboard.
const gridWidth = 24

// regionPlaceholder is substituted by each sink with the deployment region.
const regionPlaceholder = "${AWS::Region}"

type dashboardHandler struct{}

func init() {
	registry.Default.Register(&dashboardHandler{})
}

func (dashboardHandler) ResourceType() graph.ResourceType { return graph.TypeDashboard }

func (dashboardHandler) Validate(node *graph.Node) ([]result.Error, []result.Warning) {
	var errs []result.Error
	var warns []result.Warning
	d, ok := node.Resource.(*graph.Dashboard)
	if !ok {
		return []result.Error{validationError(node.ID, "resource is not a dashboard", "")}, nil
	}
	if d.DashboardName == "" {
		errs = append(errs, validationError(node.ID, "dashboard name is required", "Set dashboardName"))
	}
	if strings.Contains(d.DashboardName, "${") {
		errs = append(errs, validationError(node.ID, "dashboard name must not contain ${", ""))
	}
	widgets := d.Widgets()
	if len(widgets) == 0 {
		warns = append(warns, validationWarning(node.ID, "dashboard has no widgets", ""))
	}
	for i, w := range widgets {
		if width, _ := w.Size(); width > gridWidth {
			errs = append(errs, validationError(node.ID,
				fmt.Sprintf("widget %d is %d columns wide, the grid has %d", i, width, gridWidth), ""))
		}
	}
	return errs, warns
}

func (dashboardHandler) CloudFormation(scope constructs.Construct, node *graph.Node, _ *graph.Graph) (awscdk.CfnResource, error) {
	d := node.Resource.(*graph.Dashboard)
	body, err := dashboardBody(d)
	if err != nil {
		return nil, err
	}
	return awscloudwatch.NewCfnDashboard(scope, jsii.String(node.ID), &awscloudwatch.CfnDashboardProps{
		DashboardName: jsii.String(d.DashboardName),
		DashboardBody: cloudformation.Sub(body),
	}), nil
}

func (dashboardHandler) GenerateHCL(node *graph.Node, g *graph.Graph, refs RefMap) ([]byte, error) {
	d := node.Resource.(*graph.Dashboard)
	body, err := dashboardBody(d)
	if err != nil {
		return nil, err
	}
	block, err := resourceBlock(node)
	if err != nil {
		return nil, err
	}
	b := block.Body()
	terraform.SetAttributeStr(b, "dashboard_name", d.DashboardName)
	if err := setValue(b, "dashboard_body", g, refs, graph.Sub(body)); err != nil {
		return nil, err
	}
	return terraform.BlockToBytes(block), nil
}

type widgetJSON struct {
	Type       string `json:"type"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Properties any    `json:"properties"`
}

type graphProperties struct {
	View    string           `json:"view"`
	Title   string           `json:"title,omitempty"`
	Region  string           `json:"region"`
	Stacked bool             `json:"stacked"`
	Metrics [][]any          `json:"metrics"`
	YAxis   *yAxisProperties `json:"yAxis,omitempty"`
}

type yAxisProperties struct {
	Left axisProperties `json:"left"`
}

type axisProperties struct {
	Min *float64 `json:"min,omitempty"`
}

type textProperties struct {
	Markdown string `json:"markdown"`
}

type logQueryProperties struct {
	View   string `json:"view"`
	Title  string `json:"title,omitempty"`
	Region string `json:"region"`
	Query  string `json:"query"`
}

// dashboardBody lays the widgets out row by row and encodes the dashboard
// body. A row wraps when its widgets exceed the grid width. The region is left
// as a placeholder for the sink to fill in.
func dashboardBody(d *graph.Dashboard) (string, error) {
	widgets := []widgetJSON{}
	y := 0
	for _, row := range d.Rows {
		x, rowHeight := 0, 0
		for _, w := range row {
			width, height := w.Size()
			if x+width > gridWidth {
				x = 0
				y += rowHeight
				rowHeight = 0
			}
			typ, props, err := widgetProperties(w)
			if err != nil {
				return "", err
			}
			widgets = append(widgets, widgetJSON{Type: typ, X: x, Y: y, Width: width, Height: height, Properties: props})
			x += width
			rowHeight = max(rowHeight, height)
		}
		y += rowHeight
	}
	b, err := json.Marshal(map[string]any{"widgets": widgets})
	if err != nil {
		return "", fmt.Errorf("encode dashboard body: %w", err)
	}
	return string(b), nil
}

func widgetProperties(w graph.Widget) (string, any, error) {
	switch t := w.(type) {
	case *graph.GraphWidget:
		p := graphProperties{View: "timeSeries", Title: t.Title, Region: regionPlaceholder, Metrics: [][]any{}}
		for _, m := range t.Left {
			p.Metrics = append(p.Metrics, metricLine(m))
		}
		if t.LeftMin != nil {
			p.YAxis = &yAxisProperties{Left: axisProperties{Min: t.LeftMin}}
		}
		return "metric", p, nil
	case *graph.TextWidget:
		return "text", textProperties{Markdown: t.Markdown}, nil
	case *graph.LogQueryWidget:
		sources := make([]string, len(t.LogGroupNames))
		for i, name := range t.LogGroupNames {
			sources[i] = "SOURCE '" + name + "'"
		}
		query := strings.Join(append([]string{strings.Join(sources, " | ")}, t.QueryLines...), " | ")
		return "log", logQueryProperties{View: "table", Title: t.Title, Region: regionPlaceholder, Query: query}, nil
	default:
		return "", nil, fmt.Errorf("unsupported widget type %T", w)
	}
}

// metricLine encodes a series as [namespace, name, dim, value, ..., {options}].
func metricLine(m graph.DashboardMetric) []any {
	line := []any{m.Namespace, m.MetricName}
	for _, d := range m.Dimensions {
		line = append(line, aws.ToString(d.Name), aws.ToString(d.Value))
	}
	opts := map[string]any{"stat": string(m.Statistic), "period": m.Period}
	if m.Label != "" {
		opts["label"] = m.Label
	}
	return append(line, opts)
}

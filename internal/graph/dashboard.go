package graph

import "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

// Dashboard is a CloudWatch dashboard. Widgets are laid out row by row on a
// 24-column grid; a row wraps when it runs out of columns.
type Dashboard struct {
	DashboardName string
	Rows          [][]Widget
}

func (*Dashboard) Type() ResourceType { return TypeDashboard }
func (*Dashboard) References() []Ref  { return nil }

// Widgets returns every widget in row order.
func (d *Dashboard) Widgets() []Widget {
	var out []Widget
	for _, row := range d.Rows {
		out = append(out, row...)
	}
	return out
}

// Widget is a dashboard widget.
type Widget interface {
	Size() (width, height int)
}

// Default widget size.
const (
	DefaultWidgetWidth  = 6
	DefaultWidgetHeight = 6
)

// GraphWidget plots metrics as a time series.
type GraphWidget struct {
	Title  string
	Width  int
	Height int
	Left   []DashboardMetric
	// LeftMin pins the bottom of the left axis when set.
	LeftMin *float64
}

func (w *GraphWidget) Size() (int, int) { return sizeOr(w.Width, w.Height) }

// TextWidget is a markdown block.
type TextWidget struct {
	Markdown string
	Width    int
	Height   int
}

func (w *TextWidget) Size() (int, int) { return sizeOr(w.Width, w.Height) }

// LogQueryWidget shows the result of a Logs Insights query.
type LogQueryWidget struct {
	Title         string
	LogGroupNames []string
	QueryLines    []string
	Width         int
	Height        int
}

func (w *LogQueryWidget) Size() (int, int) { return sizeOr(w.Width, w.Height) }

// DashboardMetric is one series on a graph widget.
type DashboardMetric struct {
	Namespace  string
	MetricName string
	Dimensions []types.Dimension
	Statistic  types.Statistic
	Period     int32
	Label      string
}

func sizeOr(w, h int) (int, int) {
	if w <= 0 {
		w = DefaultWidgetWidth
	}
	if h <= 0 {
		h = DefaultWidgetHeight
	}
	return w, h
}

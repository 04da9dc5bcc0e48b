package graph

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// TreatMissingData controls how an alarm evaluates periods without data points.
type TreatMissingData string

// TreatMissingBreaching makes a missing data point count as a threshold breach.
const TreatMissingBreaching TreatMissingData = "breaching"

// Alarm is a CloudWatch alarm on either a single metric (MetricName) or a
// metric math expression (Metrics).
type Alarm struct {
	AlarmName        string
	AlarmDescription string

	MetricName string
	Namespace  string
	Statistic  types.Statistic
	Period     int32
	// Dimensions are kept in declaration order.
	Dimensions []types.Dimension

	Metrics []types.MetricDataQuery

	ComparisonOperator types.ComparisonOperator
	EvaluationPeriods  int32
	Threshold          float64
	TreatMissingData   TreatMissingData
}

func (*Alarm) Type() ResourceType { return TypeAlarm }
func (*Alarm) References() []Ref  { return nil }

// IsExpression reports whether the alarm is built from metric math.
func (a *Alarm) IsExpression() bool { return len(a.Metrics) > 0 }

// LogGroup is a CloudWatch Logs log group.
type LogGroup struct {
	LogGroupName    string
	RetentionInDays int32
}

func (*LogGroup) Type() ResourceType { return TypeLogGroup }
func (*LogGroup) References() []Ref  { return nil }

// LogStream is a log stream inside LogGroup.
type LogStream struct {
	LogGroup      Ref
	LogStreamName string
}

func (*LogStream) Type() ResourceType  { return TypeLogStream }
func (s *LogStream) References() []Ref { return []Ref{s.LogGroup} }

// Effect of a policy statement.
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// PolicyVersion is the IAM policy language version.
const PolicyVersion = "2012-10-17"

// PolicyDocument is an IAM policy.
type PolicyDocument struct {
	Version    string
	Statements []Statement
}

// Statement is a single IAM policy statement. Resources holds strings, Refs, or Subs.
type Statement struct {
	Effect    Effect
	Principal *Principal
	Actions   []string
	Resources []any
}

// Principal names the service allowed to assume a role.
type Principal struct {
	Service string
}

// InlinePolicy is a named policy embedded in a role.
type InlinePolicy struct {
	PolicyName string
	Document   PolicyDocument
}

// Role is an IAM role.
type Role struct {
	Description      string
	AssumeRolePolicy PolicyDocument
	Policies         []InlinePolicy
}

func (*Role) Type() ResourceType { return TypeRole }

func (r *Role) References() []Ref {
	var refs []Ref
	for _, p := range r.Policies {
		for _, s := range p.Document.Statements {
			refs = append(refs, valueRefs(s.Resources)...)
		}
	}
	return refs
}

// Application is a Kinesis Data Analytics (Managed Flink) application.
type Application struct {
	ApplicationName        string
	ApplicationDescription string
	RuntimeEnvironment     string
	ApplicationMode        string
	ServiceExecutionRole   Ref
	SubnetIDs              []string
	SecurityGroupIDs       []string
	LogLevel               string
	GlueDatabaseARN        Sub
}

func (*Application) Type() ResourceType  { return TypeApplication }
func (a *Application) References() []Ref { return []Ref{a.ServiceExecutionRole} }

// LoggingOption sends an application's logs to a log stream.
type LoggingOption struct {
	Application Ref
	LogGroup    Ref
	LogStream   Ref
}

func (*LoggingOption) Type() ResourceType { return TypeLoggingOption }

func (o *LoggingOption) References() []Ref {
	return []Ref{o.Application, o.LogGroup, o.LogStream}
}

// Placeholders returns the ${...} names in s, in order of appearance.
func (s Sub) Placeholders() []string {
	var out []string
	rest := string(s)
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			return out
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			return out
		}
		out = append(out, rest[start+2:start+end])
		rest = rest[start+end+1:]
	}
}

// IsPseudoParameter reports whether a placeholder names a pseudo parameter
// such as AWS::Region rather than a node.
func IsPseudoParameter(name string) bool {
	return strings.HasPrefix(name, "AWS::")
}

// SplitPlaceholder splits "Node.Attr" into its node id and attribute.
func SplitPlaceholder(name string) Ref {
	id, attr, _ := strings.Cut(name, ".")
	return Ref{ID: id, Attr: attr}
}

func valueRefs(values []any) []Ref {
	var refs []Ref
	for _, v := range values {
		switch t := v.(type) {
		case Ref:
			refs = append(refs, t)
		case Sub:
			for _, p := range t.Placeholders() {
				if !IsPseudoParameter(p) {
					refs = append(refs, SplitPlaceholder(p))
				}
			}
		}
	}
	return refs
}

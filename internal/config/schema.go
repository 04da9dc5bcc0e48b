package config

// MonitoringConfig is the input for the monitoring resources of a Flink application.
// Exactly one of InputStreamName and KafkaTopicName must be set.
type MonitoringConfig struct {
	ApplicationName string `json:"applicationName" yaml:"applicationName" hcl:"application_name"`
	LogGroupName    string `json:"logGroupName" yaml:"logGroupName" hcl:"log_group_name"`
	InputStreamName string `json:"inputStreamName,omitempty" yaml:"inputStreamName,omitempty" hcl:"input_stream_name,optional"`
	KafkaTopicName  string `json:"kafkaTopicName,omitempty" yaml:"kafkaTopicName,omitempty" hcl:"kafka_topic_name,optional"`
	DashboardName   string `json:"dashboardName,omitempty" yaml:"dashboardName,omitempty" hcl:"dashboard_name,optional"`
}

// StudioConfig is the input for a Kinesis Data Analytics Studio (interactive) deployment.
type StudioConfig struct {
	ApplicationName   string        `json:"applicationName,omitempty" yaml:"applicationName,omitempty" hcl:"application_name,optional"`
	LogsRetentionDays RetentionDays `json:"logsRetentionDays" yaml:"logsRetentionDays" hcl:"logs_retention_days"`
	LogLevel          LogLevel      `json:"logLevel" yaml:"logLevel" hcl:"log_level"`
	SubnetIDs         []string      `json:"subnetIds" yaml:"subnetIds" hcl:"subnet_ids"`
	SecurityGroupIDs  []string      `json:"securityGroupIds" yaml:"securityGroupIds" hcl:"security_group_ids"`
	ClusterARN        string        `json:"clusterArn" yaml:"clusterArn" hcl:"cluster_arn"`
	GlueDatabaseName  string        `json:"glueDatabaseName,omitempty" yaml:"glueDatabaseName,omitempty" hcl:"glue_database_name,optional"`
}

// DefaultGlueDatabase is the catalog database studio notebooks use when none is configured.
const DefaultGlueDatabase = "default"

// Source is the streaming source of a monitored application: StreamSource or TopicSource.
type Source interface {
	// Name returns the stream or topic name.
	Name() string
	isSource()
}

// StreamSource is a Kinesis data stream.
type StreamSource struct {
	StreamName string
}

func (s StreamSource) Name() string { return s.StreamName }
func (StreamSource) isSource()      {}

// TopicSource is a Kafka topic.
type TopicSource struct {
	TopicName string
}

func (s TopicSource) Name() string { return s.TopicName }
func (TopicSource) isSource()      {}

// LogLevel is the Flink application log level.
type LogLevel string

const (
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelDebug LogLevel = "DEBUG"
)

// Valid reports whether l is one of the supported log levels.
func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelDebug:
		return true
	}
	return false
}

// RetentionDays is a CloudWatch Logs retention period.
type RetentionDays int32

const (
	RetentionOneDay      RetentionDays = 1
	RetentionThreeDays   RetentionDays = 3
	RetentionFiveDays    RetentionDays = 5
	RetentionOneWeek     RetentionDays = 7
	RetentionTwoWeeks    RetentionDays = 14
	RetentionOneMonth    RetentionDays = 30
	RetentionTwoMonths   RetentionDays = 60
	RetentionThreeMonths RetentionDays = 90
	RetentionFourMonths  RetentionDays = 120
	RetentionFiveMonths  RetentionDays = 150
	RetentionSixMonths   RetentionDays = 180
	RetentionOneYear     RetentionDays = 365
	RetentionThirteenMo  RetentionDays = 400
	RetentionEighteenMo  RetentionDays = 545
	RetentionTwoYears    RetentionDays = 731
	RetentionThreeYears  RetentionDays = 1096
	RetentionFiveYears   RetentionDays = 1827
	RetentionSixYears    RetentionDays = 2192
	RetentionSevenYears  RetentionDays = 2557
	RetentionEightYears  RetentionDays = 2922
	RetentionNineYears   RetentionDays = 3288
	RetentionTenYears    RetentionDays = 3653
)

var allowedRetention = map[RetentionDays]bool{
	RetentionOneDay: true, RetentionThreeDays: true, RetentionFiveDays: true, RetentionOneWeek: true,
	RetentionTwoWeeks: true, RetentionOneMonth: true, RetentionTwoMonths: true, RetentionThreeMonths: true,
	RetentionFourMonths: true, RetentionFiveMonths: true, RetentionSixMonths: true, RetentionOneYear: true,
	RetentionThirteenMo: true, RetentionEighteenMo: true, RetentionTwoYears: true, RetentionThreeYears: true,
	RetentionFiveYears: true, RetentionSixYears: true, RetentionSevenYears: true, RetentionEightYears: true,
	RetentionNineYears: true, RetentionTenYears: true,
}

// Valid reports whether r is a retention period CloudWatch Logs accepts.
func (r RetentionDays) Valid() bool {
	return allowedRetention[r]
}

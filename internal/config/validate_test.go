package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClusterARN = "arn:aws:kafka:region:account:cluster/cluster-name/cluster-uuid"

func validStudio() *StudioConfig {
	return &StudioConfig{
		LogsRetentionDays: RetentionOneWeek,
		LogLevel:          LogLevelInfo,
		SubnetIDs:         []string{"subnet-1", "subnet-2"},
		SecurityGroupIDs:  []string{"sg-1"},
		ClusterARN:        testClusterARN,
	}
}

func TestSource_Stream(t *testing.T) {
	c := &MonitoringConfig{InputStreamName: "test_stream"}

	s, err := c.Source()
	require.NoError(t, err)
	assert.Equal(t, StreamSource{StreamName: "test_stream"}, s)
	assert.Equal(t, "test_stream", s.Name())
}

func TestSource_Topic(t *testing.T) {
	c := &MonitoringConfig{KafkaTopicName: "orders"}

	s, err := c.Source()
	require.NoError(t, err)
	assert.Equal(t, TopicSource{TopicName: "orders"}, s)
}

func TestSource_BothSet(t *testing.T) {
	c := &MonitoringConfig{InputStreamName: "s", KafkaTopicName: "t"}

	s, err := c.Source()
	assert.Nil(t, s)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Message, "only one source")
}

func TestSource_NoneSet(t *testing.T) {
	_, err := (&MonitoringConfig{}).Source()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a source is required")
}

func TestValidateMonitoring(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *MonitoringConfig
		fields []string
	}{
		{
			name: "valid stream",
			cfg:  &MonitoringConfig{ApplicationName: "app", LogGroupName: "lg", InputStreamName: "s"},
		},
		{
			name: "valid topic",
			cfg:  &MonitoringConfig{ApplicationName: "app", LogGroupName: "lg", KafkaTopicName: "t"},
		},
		{
			name:   "missing everything",
			cfg:    &MonitoringConfig{},
			fields: []string{"applicationName", "logGroupName", "inputStreamName/kafkaTopicName"},
		},
		{
			name:   "blank application name",
			cfg:    &MonitoringConfig{ApplicationName: "  ", LogGroupName: "lg", InputStreamName: "s"},
			fields: []string{"applicationName"},
		},
		{
			name:   "both sources",
			cfg:    &MonitoringConfig{ApplicationName: "app", LogGroupName: "lg", InputStreamName: "s", KafkaTopicName: "t"},
			fields: []string{"inputStreamName/kafkaTopicName"},
		},
		{
			name: "log group path",
			cfg:  &MonitoringConfig{ApplicationName: "app.v2", LogGroupName: "/aws/kinesis-analytics/app#1", KafkaTopicName: "orders.v1"},
		},
		{
			name:   "pseudo parameter in application name",
			cfg:    &MonitoringConfig{ApplicationName: "app${AWS::StackName}", LogGroupName: "lg", InputStreamName: "s"},
			fields: []string{"applicationName"},
		},
		{
			name:   "substitution in stream name",
			cfg:    &MonitoringConfig{ApplicationName: "app", LogGroupName: "lg", InputStreamName: "s${Other}"},
			fields: []string{"inputStreamName"},
		},
		{
			name:   "substitution in topic name",
			cfg:    &MonitoringConfig{ApplicationName: "app", LogGroupName: "lg", KafkaTopicName: "t ${AWS::Region}"},
			fields: []string{"kafkaTopicName"},
		},
		{
			name:   "quote in log group",
			cfg:    &MonitoringConfig{ApplicationName: "app", LogGroupName: "lg' | limit 1", InputStreamName: "s"},
			fields: []string{"logGroupName"},
		},
		{
			name:   "dot in dashboard name",
			cfg:    &MonitoringConfig{ApplicationName: "app", LogGroupName: "lg", InputStreamName: "s", DashboardName: "d.1"},
			fields: []string{"dashboardName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateMonitoring(tt.cfg)
			assert.Equal(t, tt.fields, fieldsOf(errs))
		})
	}
}

func TestValidateStudio(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StudioConfig)
		fields []string
	}{
		{name: "valid", mutate: func(*StudioConfig) {}},
		{
			name:   "unsupported retention",
			mutate: func(c *StudioConfig) { c.LogsRetentionDays = 8 },
			fields: []string{"logsRetentionDays"},
		},
		{
			name:   "unsupported log level",
			mutate: func(c *StudioConfig) { c.LogLevel = "TRACE" },
			fields: []string{"logLevel"},
		},
		{
			name:   "no subnets",
			mutate: func(c *StudioConfig) { c.SubnetIDs = nil },
			fields: []string{"subnetIds"},
		},
		{
			name:   "blank security group",
			mutate: func(c *StudioConfig) { c.SecurityGroupIDs = []string{"sg-1", " "} },
			fields: []string{"securityGroupIds[1]"},
		},
		{
			name:   "missing cluster",
			mutate: func(c *StudioConfig) { c.ClusterARN = "" },
			fields: []string{"clusterArn"},
		},
		{
			name:   "malformed cluster arn",
			mutate: func(c *StudioConfig) { c.ClusterARN = "cluster-name" },
			fields: []string{"clusterArn"},
		},
		{
			name:   "not a kafka arn",
			mutate: func(c *StudioConfig) { c.ClusterARN = "arn:aws:kinesis:us-east-1:123456789012:stream/s" },
			fields: []string{"clusterArn"},
		},
		{
			name:   "substitution in application name",
			mutate: func(c *StudioConfig) { c.ApplicationName = "${AWS::StackName}" },
			fields: []string{"applicationName"},
		},
		{
			name:   "substitution in glue database",
			mutate: func(c *StudioConfig) { c.GlueDatabaseName = "db}:${Other" },
			fields: []string{"glueDatabaseName"},
		},
		{
			name:   "topic arn instead of cluster",
			mutate: func(c *StudioConfig) { c.ClusterARN = "arn:aws:kafka:us-east-1:123456789012:topic/c/uuid/t" },
			fields: []string{"clusterArn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStudio()
			tt.mutate(cfg)
			assert.Equal(t, tt.fields, fieldsOf(ValidateStudio(cfg)))
		})
	}
}

func TestRetentionDays_Valid(t *testing.T) {
	for _, d := range []RetentionDays{1, 3, 5, 7, 14, 30, 60, 90, 120, 150, 180, 365, 400, 545, 731, 1096, 1827, 2192, 2557, 2922, 3288, 3653} {
		assert.True(t, d.Valid(), "%d", d)
	}
	for _, d := range []RetentionDays{0, -1, 2, 8, 366, 3654} {
		assert.False(t, d.Valid(), "%d", d)
	}
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join(nil))

	err := Join([]*ConfigurationError{
		{Field: "a", Message: "first"},
		{Field: "b", Message: "second"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration: a: first")
	assert.Contains(t, err.Error(), "invalid configuration: b: second")

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "a", cfgErr.Field)
}

func fieldsOf(errs []*ConfigurationError) []string {
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

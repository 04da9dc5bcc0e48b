package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// ConfigurationError is an invalid or ambiguous input value.
type ConfigurationError struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Message
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Join combines validation failures into a single error; nil when errs is empty.
func Join(errs []*ConfigurationError) error {
	if len(errs) == 0 {
		return nil
	}
	wrapped := make([]error, len(errs))
	for i, e := range errs {
		wrapped[i] = e
	}
	return errors.Join(wrapped...)
}

// Names end up inside Fn::Sub strings and Terraform templates, so each is
// restricted to the characters its AWS service accepts. None admits "${".
var (
	resourceName  = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)
	topicName     = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,249}$`)
	logGroupName  = regexp.MustCompile(`^[A-Za-z0-9_./#-]{1,512}$`)
	dashboardName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,255}$`)
	databaseName  = regexp.MustCompile(`^[A-Za-z0-9_]{1,255}$`)
)

func validateName(field, value string, pattern *regexp.Regexp, allowed string) *ConfigurationError {
	if value == "" || pattern.MatchString(value) {
		return nil
	}
	return &ConfigurationError{
		Field:      field,
		Message:    fmt.Sprintf("invalid %s: %q", field, value),
		Suggestion: "Use only " + allowed,
	}
}

// Source returns the tagged source of the application. Both or neither of the
// source fields being set is a configuration error.
func (c *MonitoringConfig) Source() (Source, error) {
	hasStream := c.InputStreamName != ""
	hasTopic := c.KafkaTopicName != ""
	switch {
	case hasStream && hasTopic:
		return nil, &ConfigurationError{
			Field:      "inputStreamName/kafkaTopicName",
			Message:    "only one source can be set, got both a stream and a topic",
			Suggestion: "Remove either inputStreamName or kafkaTopicName",
		}
	case hasStream:
		return StreamSource{StreamName: c.InputStreamName}, nil
	case hasTopic:
		return TopicSource{TopicName: c.KafkaTopicName}, nil
	default:
		return nil, &ConfigurationError{
			Field:      "inputStreamName/kafkaTopicName",
			Message:    "a source is required",
			Suggestion: "Set inputStreamName for a Kinesis stream or kafkaTopicName for a Kafka topic",
		}
	}
}

// ValidateMonitoring checks required fields, name characters, and source exclusivity.
func ValidateMonitoring(c *MonitoringConfig) []*ConfigurationError {
	if c == nil {
		return []*ConfigurationError{{Message: "monitoring configuration is nil"}}
	}
	var errs []*ConfigurationError
	if strings.TrimSpace(c.ApplicationName) == "" {
		errs = append(errs, &ConfigurationError{
			Field: "applicationName", Message: "applicationName is required",
			Suggestion: "Set applicationName to the name of the Flink application",
		})
	} else if err := validateName("applicationName", c.ApplicationName, resourceName, "letters, digits, '_', '.' and '-'"); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.LogGroupName) == "" {
		errs = append(errs, &ConfigurationError{
			Field: "logGroupName", Message: "logGroupName is required",
			Suggestion: "Set logGroupName to the log group the application writes to",
		})
	} else if err := validateName("logGroupName", c.LogGroupName, logGroupName, "letters, digits, '_', '.', '-', '/' and '#'"); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Source(); err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			errs = append(errs, cfgErr)
		}
	} else {
		if err := validateName("inputStreamName", c.InputStreamName, resourceName, "letters, digits, '_', '.' and '-'"); err != nil {
			errs = append(errs, err)
		}
		if err := validateName("kafkaTopicName", c.KafkaTopicName, topicName, "letters, digits, '_', '.' and '-'"); err != nil {
			errs = append(errs, err)
		}
	}
	if err := validateName("dashboardName", c.DashboardName, dashboardName, "letters, digits, '_' and '-'"); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// ValidateStudio checks names, network placement, the cluster reference, and logging settings.
func ValidateStudio(c *StudioConfig) []*ConfigurationError {
	if c == nil {
		return []*ConfigurationError{{Message: "studio configuration is nil"}}
	}
	var errs []*ConfigurationError
	if !c.LogsRetentionDays.Valid() {
		errs = append(errs, &ConfigurationError{
			Field:      "logsRetentionDays",
			Message:    fmt.Sprintf("unsupported retention period: %d", c.LogsRetentionDays),
			Suggestion: "Use a CloudWatch Logs retention value (e.g. 7, 14, 30, 365)",
		})
	}
	if !c.LogLevel.Valid() {
		errs = append(errs, &ConfigurationError{
			Field:      "logLevel",
			Message:    fmt.Sprintf("unsupported log level: %q", c.LogLevel),
			Suggestion: "Use one of: INFO, WARN, ERROR, DEBUG",
		})
	}
	if err := validateName("applicationName", c.ApplicationName, resourceName, "letters, digits, '_', '.' and '-'"); err != nil {
		errs = append(errs, err)
	}
	if err := validateName("glueDatabaseName", c.GlueDatabaseName, databaseName, "letters, digits and '_'"); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validateIDs("subnetIds", c.SubnetIDs)...)
	errs = append(errs, validateIDs("securityGroupIds", c.SecurityGroupIDs)...)
	if err := validateClusterARN(c.ClusterARN); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func validateIDs(field string, ids []string) []*ConfigurationError {
	if len(ids) == 0 {
		return []*ConfigurationError{{
			Field: field, Message: field + " must not be empty",
			Suggestion: "Provide at least one id",
		}}
	}
	var errs []*ConfigurationError
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, &ConfigurationError{
				Field: fmt.Sprintf("%s[%d]", field, i), Message: "id must not be blank",
			})
		}
	}
	return errs
}

func validateClusterARN(s string) *ConfigurationError {
	if s == "" {
		return &ConfigurationError{
			Field: "clusterArn", Message: "clusterArn is required",
			Suggestion: "Set clusterArn to the ARN of the MSK cluster",
		}
	}
	parsed, err := arn.Parse(s)
	if err != nil {
		return &ConfigurationError{
			Field: "clusterArn", Message: "malformed ARN: " + err.Error(),
			Suggestion: "Use arn:<partition>:kafka:<region>:<account>:cluster/<name>/<uuid>",
		}
	}
	if parsed.Service != "kafka" {
		return &ConfigurationError{
			Field: "clusterArn", Message: fmt.Sprintf("expected a kafka ARN, got service %q", parsed.Service),
		}
	}
	parts := strings.Split(parsed.Resource, "/")
	if len(parts) != 3 || parts[0] != "cluster" || parts[1] == "" || parts[2] == "" {
		return &ConfigurationError{
			Field: "clusterArn", Message: fmt.Sprintf("expected resource cluster/<name>/<uuid>, got %q", parsed.Resource),
		}
	}
	return nil
}

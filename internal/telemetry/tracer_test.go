package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceName(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	assert.Equal(t, DefaultServiceName, ServiceName())

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "kda-generator-prod")
	assert.Equal(t, "kda-generator-prod", ServiceName())
}

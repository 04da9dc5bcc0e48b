package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kda-constructs/generator/internal/generator"
	_ "github.com/kda-constructs/generator/internal/handler"
	"github.com/kda-constructs/generator/internal/result"
)

const monitoringRequest = `{
	"kind": "monitoring",
	"config": {"applicationName": "app", "logGroupName": "lg", "inputStreamName": "in"}
}`

func newTestHandler() *Handler {
	return NewHandler(generator.DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeResponse(t *testing.T, resp events.APIGatewayProxyResponse) Response {
	t.Helper()
	var out Response
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	return out
}

func TestHandleRequest_Monitoring(t *testing.T) {
	resp, err := newTestHandler().HandleRequest(context.Background(), events.APIGatewayProxyRequest{Body: monitoringRequest})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
	require.Contains(t, out.Files, generator.TemplateJSONFile)

	template, err := base64.StdEncoding.DecodeString(out.Files[generator.TemplateJSONFile])
	require.NoError(t, err)
	assert.Contains(t, string(template), "AWS::CloudWatch::Dashboard")
}

func TestHandleRequest_StudioTerraform(t *testing.T) {
	body := `{
		"kind": "studio",
		"formats": ["terraform"],
		"config": {
			"logsRetentionDays": 7,
			"logLevel": "INFO",
			"subnetIds": ["subnet-a"],
			"securityGroupIds": ["sg-1"],
			"clusterArn": "arn:aws:kafka:us-east-1:123456789012:cluster/c/uuid"
		}
	}`
	resp, err := newTestHandler().HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte(body)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	out := decodeResponse(t, resp)
	assert.Contains(t, out.Files, "main.tf")
	assert.NotContains(t, out.Files, generator.TemplateJSONFile)
	assert.NotEmpty(t, out.Warnings)
}

func TestHandleRequest_InvalidConfig(t *testing.T) {
	body := `{"kind": "monitoring", "config": {"applicationName": "app", "logGroupName": "lg"}}`
	resp, err := newTestHandler().HandleRequest(context.Background(), events.APIGatewayProxyRequest{Body: body})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
	assert.Empty(t, out.Files)
	require.NotEmpty(t, out.Errors)
	assert.Equal(t, result.TypeConfiguration, out.Errors[0].Type)
}

func TestHandleRequest_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		req     events.APIGatewayProxyRequest
		message string
	}{
		{name: "bad base64", req: events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true}, message: "invalid base64"},
		{name: "bad json", req: events.APIGatewayProxyRequest{Body: "{"}, message: "invalid request JSON"},
		{name: "no config", req: events.APIGatewayProxyRequest{Body: `{"kind": "studio"}`}, message: "config is required"},
		{name: "unknown kind", req: events.APIGatewayProxyRequest{Body: `{"kind": "other", "config": {}}`}, message: "kind must be"},
		{
			name:    "unknown format",
			req:     events.APIGatewayProxyRequest{Body: `{"kind": "studio", "config": {}, "formats": ["xml"]}`},
			message: "unsupported format",
		},
		{
			name:    "unknown field",
			req:     events.APIGatewayProxyRequest{Body: `{"kind": "monitoring", "config": {"application": "x"}}`},
			message: "invalid monitoring config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newTestHandler().HandleRequest(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			out := decodeResponse(t, resp)
			require.Len(t, out.Errors, 1)
			assert.True(t, strings.Contains(out.Errors[0].Message, tt.message), out.Errors[0].Message)
		})
	}
}

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/studio"
)

func TestLogGroup(t *testing.T) {
	g := studioGraph(t)

	assert.JSONEq(t, `{"RetentionInDays": 7}`, propertiesJSON(t, g, studio.LogGroupID))

	block := renderHCL(t, g, studio.LogGroupID)
	assert.Equal(t, []string{"aws_cloudwatch_log_group", "log_group"}, block.Labels())
	assert.Equal(t, "7", attr(t, block, "retention_in_days"))
	assert.Nil(t, block.Body().GetAttribute("name"))
}

func TestLogGroup_Validate(t *testing.T) {
	errs, _ := logGroupHandler{}.Validate(&graph.Node{ID: "L", Resource: &graph.LogGroup{RetentionInDays: 8}})
	assert.Len(t, errs, 1)

	errs, _ = logGroupHandler{}.Validate(&graph.Node{ID: "L", Resource: &graph.LogGroup{RetentionInDays: 14}})
	assert.Empty(t, errs)
}

func TestLogStream(t *testing.T) {
	g := studioGraph(t)

	assert.JSONEq(t, `{"LogGroupName": {"Ref": "LogGroup"}}`, propertiesJSON(t, g, studio.LogStreamID))

	block := renderHCL(t, g, studio.LogStreamID)
	assert.Equal(t, []string{"aws_cloudwatch_log_stream", "log_stream"}, block.Labels())
	assert.Equal(t, `"LogStream"`, attr(t, block, "name"))
	assert.Equal(t, "aws_cloudwatch_log_group.log_group.name", attr(t, block, "log_group_name"))
}

func TestLogStream_Validate(t *testing.T) {
	errs, _ := logStreamHandler{}.Validate(&graph.Node{ID: "S", Resource: &graph.LogStream{}})
	assert.Len(t, errs, 1)
}

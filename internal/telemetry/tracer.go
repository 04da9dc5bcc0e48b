// Package telemetry installs the tracer provider used when running as a Lambda function.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	lambdadetector "go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// DefaultServiceName names the service when the function name is not in the environment.
const DefaultServiceName = "kda-generator"

// NewTracerProvider exports spans to the X-Ray daemon over UDP and registers
// the provider and X-Ray propagator globally.
func NewTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	res, err := buildResource(ctx)
	if err != nil {
		return nil, err
	}

	exp, err := xrayudp.NewSpanExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot create xray udp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exp)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})

	return tp, nil
}

// buildResource merges the detected Lambda resource with the service name.
func buildResource(ctx context.Context) (*resource.Resource, error) {
	detector := lambdadetector.NewResourceDetector()
	lambdaResource, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot detect lambda resource: %w", err)
	}

	customResource := resource.NewWithAttributes(semconv.SchemaURL,
		attribute.KeyValue{Key: semconv.ServiceNameKey, Value: attribute.StringValue(ServiceName())},
	)

	merged, err := resource.Merge(lambdaResource, customResource)
	if err != nil {
		return nil, fmt.Errorf("cannot merge otel resources: %w", err)
	}
	return merged, nil
}

// ServiceName returns the Lambda function name, or DefaultServiceName outside Lambda.
func ServiceName() string {
	if name := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); name != "" {
		return name
	}
	return DefaultServiceName
}

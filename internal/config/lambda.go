package config

import (
	"github.com/kda-constructs/generator/internal/env"
)

// LambdaSettings configures the Lambda entry point.
type LambdaSettings struct {
	AWSRegion   string
	Formats     []string
	EmitTfvars  bool
	LogLevel    string
	MaxParallel int
}

// LoadLambda reads the Lambda settings from the environment. AWS_REGION is required.
func LoadLambda() (*LambdaSettings, error) {
	region, err := env.GetRequired("AWS_REGION", env.ParseNonEmptyString)
	if err != nil {
		return nil, err
	}

	return &LambdaSettings{
		AWSRegion:   region,
		Formats:     env.Get("OUTPUT_FORMATS", []string{"json"}, env.ParseList),
		EmitTfvars:  env.Get("EMIT_TFVARS", true, env.ParseBool),
		LogLevel:    env.Get("LOG_LEVEL", "info", env.ParseNonEmptyString),
		MaxParallel: env.Get("MAX_PARALLEL", 0, env.ParseInt),
	}, nil
}

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"

	"github.com/kda-constructs/generator/internal/api"
	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/generator"
	_ "github.com/kda-constructs/generator/internal/handler" // register handlers
	"github.com/kda-constructs/generator/internal/logger"
	"github.com/kda-constructs/generator/internal/telemetry"
)

func main() {
	startTime := time.Now()
	log := logger.New(os.Stdout, slog.LevelInfo)

	settings, err := config.LoadLambda()
	if err != nil {
		log.Error("cannot load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if level, err := logger.ParseLevel(settings.LogLevel); err == nil {
		log = logger.New(os.Stdout, level)
	}

	formats, err := generator.ParseFormats(settings.Formats)
	if err != nil {
		log.Error("cannot parse output formats", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tp, err := telemetry.NewTracerProvider(ctx)
	if err != nil {
		log.Error("cannot initialize tracer provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("cannot shutdown tracer provider", slog.String("error", err.Error()))
		}
	}()

	opts := generator.DefaultOptions()
	opts.Formats = formats
	opts.EmitTfvars = settings.EmitTfvars
	opts.Region = settings.AWSRegion
	opts.MaxParallel = settings.MaxParallel

	log.Info(
		"started template generator",
		slog.String("service", telemetry.ServiceName()),
		slog.String("region", settings.AWSRegion),
		slog.Float64("initDurationSec", time.Since(startTime).Seconds()),
	)

	h := api.NewHandler(opts, log)
	lambda.Start(
		otellambda.InstrumentHandler(
			h.HandleRequest,
			otellambda.WithTracerProvider(tp),
			otellambda.WithFlusher(tp)),
	)
}

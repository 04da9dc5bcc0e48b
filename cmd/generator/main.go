package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/generator"
	_ "github.com/kda-constructs/generator/internal/handler" // register handlers
	"github.com/kda-constructs/generator/internal/logger"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/snapshot"
	"github.com/kda-constructs/generator/internal/terraform"
)

type CLI struct {
	LogLevel   string        `name:"log-level" default:"warn" help:"Log level (debug, info, warn, error)"`
	Monitoring MonitoringCmd `cmd:"" help:"Generate alarms and a dashboard for a Flink application"`
	Studio     StudioCmd     `cmd:"" help:"Generate the resources of a studio notebook"`
}

type MonitoringCmd struct {
	Flags OutputFlags `embed:""`
}

type StudioCmd struct {
	Flags OutputFlags `embed:""`
}

type OutputFlags struct {
	Config         string   `name:"config" required:"" help:"Path to the configuration file (.json, .yaml, .hcl)"`
	Formats        []string `name:"format" sep:"," default:"json" help:"Output formats: json, yaml, terraform (comma-separated)"`
	Output         string   `name:"out" default:"output" help:"Output directory"`
	Region         string   `name:"region" help:"Terraform region (default: from the AWS profile, then us-east-1)"`
	NoTfvars       bool     `name:"no-tfvars" help:"Do not generate terraform.tfvars"`
	Parallel       int      `name:"parallel" help:"Max parallel nodes per tier (0 = auto)"`
	Snapshot       string   `name:"snapshot" help:"Compare the rendered file with the same extension against this snapshot"`
	UpdateSnapshot bool     `name:"update-snapshot" help:"Rewrite the snapshot instead of comparing"`
	JSON           bool     `name:"json" help:"Output errors as JSON"`
}

type kongExitCode int

var errGenerationFailed = errors.New("generation failed")

type commandDeps struct {
	resolveRegion func(ctx context.Context) (string, error)
	out           io.Writer
	errOut        io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], defaultDeps()))
}

func defaultDeps() commandDeps {
	return commandDeps{
		resolveRegion: profileRegion,
		out:           os.Stdout,
		errOut:        os.Stderr,
	}
}

// profileRegion reads the region from the environment and shared AWS config.
func profileRegion(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}
	return cfg.Region, nil
}

func run(args []string, deps commandDeps) (exitCode int) {
	out := deps.out
	if out == nil {
		out = os.Stdout
	}
	errOut := deps.errOut
	if errOut == nil {
		errOut = os.Stderr
	}
	cli := CLI{}
	parser, err := kong.New(
		&cli,
		kong.Name("generator"),
		kong.Description("Generate CloudFormation and Terraform for Kinesis Data Analytics applications."),
		kong.Writers(out, errOut),
		kong.Exit(func(code int) {
			panic(kongExitCode(code))
		}),
	)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: initialize command parser: %v\n", err)
		return 1
	}
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		code, ok := recovered.(kongExitCode)
		if !ok {
			panic(recovered)
		}
		exitCode = int(code)
	}()
	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		_, _ = fmt.Fprintln(errOut, "Hint: run `generator --help`, `generator monitoring --help`, or `generator studio --help`.")
		return 1
	}

	var flags OutputFlags
	switch kctx.Command() {
	case "monitoring":
		flags = cli.Monitoring.Flags
	case "studio":
		flags = cli.Studio.Flags
	default:
		_, _ = fmt.Fprintf(errOut, "Error: unsupported command: %s\n", kctx.Command())
		_, _ = fmt.Fprintln(errOut, "Hint: run `generator --help`.")
		return 1
	}

	if err := runGenerate(context.Background(), generator.Kind(kctx.Command()), cli.LogLevel, flags, deps, out, errOut); err != nil {
		if !errors.Is(err, errGenerationFailed) {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func runGenerate(ctx context.Context, kind generator.Kind, logLevel string, flags OutputFlags, deps commandDeps, out, errOut io.Writer) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	formats, err := generator.ParseFormats(flags.Formats)
	if err != nil {
		return err
	}

	opts := generator.DefaultOptions()
	opts.Formats = formats
	opts.EmitTfvars = !flags.NoTfvars
	opts.MaxParallel = flags.Parallel
	opts.Logger = logger.New(errOut, level)
	opts.Region = flags.Region
	if opts.Region == "" && deps.resolveRegion != nil {
		// The profile is only a default; an unreadable profile is not fatal.
		if region, err := deps.resolveRegion(ctx); err == nil && region != "" {
			opts.Region = region
		}
	}
	if opts.Region == "" {
		opts.Region = terraform.DefaultRegion
	}
	gen := generator.New(opts)

	var res *result.GenerateResult
	switch kind {
	case generator.KindMonitoring:
		cfg, err := config.LoadMonitoring(flags.Config)
		if err != nil {
			return err
		}
		res, err = gen.Monitoring(ctx, cfg)
		if err != nil {
			return err
		}
	case generator.KindStudio:
		cfg, err := config.LoadStudio(flags.Config)
		if err != nil {
			return err
		}
		res, err = gen.Studio(ctx, cfg)
		if err != nil {
			return err
		}
	}

	if !res.Success {
		reportFailure(res, flags.JSON, out, errOut)
		return errGenerationFailed
	}
	for _, w := range res.Warnings {
		_, _ = fmt.Fprintf(errOut, "WARN [%s] %s\n", w.NodeID, w.Message)
	}

	if err := writeFiles(flags.Output, res.Files, out); err != nil {
		return err
	}
	if flags.Snapshot != "" {
		return checkSnapshot(flags.Snapshot, flags.UpdateSnapshot, res.Files, out)
	}
	return nil
}

func reportFailure(res *result.GenerateResult, asJSON bool, out, errOut io.Writer) {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}
	for _, e := range res.Errors {
		subject := e.NodeID
		if subject == "" {
			subject = e.Field
		}
		_, _ = fmt.Fprintf(errOut, "ERROR [%s] %s\n", subject, e.Message)
		if e.Suggestion != "" {
			_, _ = fmt.Fprintf(errOut, "  suggestion: %s\n", e.Suggestion)
		}
	}
	for _, w := range res.Warnings {
		_, _ = fmt.Fprintf(errOut, "WARN [%s] %s\n", w.NodeID, w.Message)
	}
}

func writeFiles(dir string, files map[string][]byte, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		_, _ = fmt.Fprintln(out, "wrote", path)
	}
	return nil
}

// snapshotSources maps a snapshot extension to the rendered file it covers.
var snapshotSources = map[string]string{
	".json": generator.TemplateJSONFile,
	".yaml": generator.TemplateYAMLFile,
	".yml":  generator.TemplateYAMLFile,
	".tf":   terraform.MainFile,
}

func checkSnapshot(path string, update bool, files map[string][]byte, out io.Writer) error {
	ext := strings.ToLower(filepath.Ext(path))
	source, ok := snapshotSources[ext]
	if !ok {
		return fmt.Errorf("snapshot %s: unsupported extension %q", path, ext)
	}
	got, ok := files[source]
	if !ok {
		return fmt.Errorf("snapshot %s: %s was not rendered; add its format to --format", path, source)
	}
	if err := snapshot.Check(path, got, update); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "snapshot ok", path)
	return nil
}

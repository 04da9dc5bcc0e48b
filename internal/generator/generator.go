// Package generator turns a monitoring or studio configuration into
// CloudFormation and Terraform documents.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kda-constructs/generator/internal/cloudformation"
	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/dependency"
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/monitoring"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/studio"
	"github.com/kda-constructs/generator/internal/terraform"
)

var tracer = otel.Tracer("github.com/kda-constructs/generator/internal/generator")

// Kind names a generation operation.
type Kind string

const (
	KindMonitoring Kind = "monitoring"
	KindStudio     Kind = "studio"
)

// Generator renders resource graphs through the registered handlers.
type Generator struct {
	opts   Options
	reg    *registry.Registry
	logger *slog.Logger
}

// New returns a new generator with the given options.
func New(opts Options) *Generator {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = runtime.NumCPU()
	}
	if opts.MaxParallel > 32 {
		opts.MaxParallel = 32
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []Format{FormatJSON}
	}
	if opts.Region == "" {
		opts.Region = terraform.DefaultRegion
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Generator{opts: opts, reg: registry.Default, logger: l}
}

// Monitoring generates the alarms and dashboard for a Flink application.
// Configuration problems are reported in the result, not as an error.
func (g *Generator) Monitoring(ctx context.Context, cfg *config.MonitoringConfig) (*result.GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "generator.monitoring")
	defer span.End()
	if cfg != nil {
		span.SetAttributes(attribute.String("application.name", cfg.ApplicationName))
	}

	gr, err := monitoring.Generate(cfg)
	return g.finish(ctx, span, KindMonitoring, gr, err)
}

// Studio generates the resources of a studio notebook deployment.
// Configuration problems are reported in the result, not as an error.
func (g *Generator) Studio(ctx context.Context, cfg *config.StudioConfig) (*result.GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "generator.studio")
	defer span.End()
	if cfg != nil {
		span.SetAttributes(attribute.String("cluster.arn", cfg.ClusterARN))
	}

	gr, err := studio.Generate(cfg)
	return g.finish(ctx, span, KindStudio, gr, err)
}

func (g *Generator) finish(ctx context.Context, span trace.Span, kind Kind, gr *graph.Graph, err error) (*result.GenerateResult, error) {
	if err != nil {
		if errs := configurationErrors(err); len(errs) > 0 {
			g.logger.WarnContext(ctx, "invalid configuration",
				slog.String("kind", string(kind)),
				slog.Int("errors", len(errs)),
			)
			span.SetStatus(codes.Error, "invalid configuration")
			return &result.GenerateResult{Success: false, Errors: errs}, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("build %s graph: %w", kind, err)
	}

	out, err := g.Render(ctx, gr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("resources", out.Resources), attribute.Bool("success", out.Success))
	g.logger.InfoContext(ctx, "generated resources",
		slog.String("kind", string(kind)),
		slog.Int("resources", out.Resources),
		slog.Int("files", len(out.Files)),
		slog.Int("warnings", len(out.Warnings)),
		slog.Bool("success", out.Success),
	)
	return out, nil
}

type nodeResult struct {
	nodeID string
	hcl    []byte
	errs   []result.Error
	warns  []result.Warning
}

// Render validates every node of gr and renders the requested formats. Nodes
// are processed tier by tier; within a tier handlers run in parallel.
func (g *Generator) Render(ctx context.Context, gr *graph.Graph) (*result.GenerateResult, error) {
	out := &result.GenerateResult{Success: true, Resources: gr.Len()}

	_, tiers, err := dependency.Resolve(gr)
	if err != nil {
		out.Fail(result.Error{
			Type:       result.TypeDependency,
			Severity:   result.SeverityError,
			Message:    err.Error(),
			Suggestion: "Remove circular references between nodes",
		})
		return out, nil
	}

	wantCFN := slices.Contains(g.opts.Formats, FormatJSON) || slices.Contains(g.opts.Formats, FormatYAML)
	wantTF := slices.Contains(g.opts.Formats, FormatTerraform)

	refs := make(registry.RefMap)
	var template *cloudformation.Template
	if wantCFN {
		template, err = cloudformation.New(description(gr))
		if err != nil {
			return nil, err
		}
		defer template.Close()
	}
	tfBuilder := terraform.NewBuilder(g.opts.EmitTfvars)

	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		sem := make(chan struct{}, g.opts.MaxParallel)
		results := make(map[string]nodeResult, len(tier))

		for _, nodeID := range tier {
			node := gr.Node(nodeID)
			h, ok := g.reg.Get(node.Type())
			if !ok {
				out.Fail(result.Error{
					Type:       result.TypeUnsupported,
					Severity:   result.SeverityError,
					NodeID:     nodeID,
					Message:    "unsupported resource type: " + string(node.Type()),
					Suggestion: fmt.Sprintf("Use one of: %v", g.reg.ListSupportedTypes()),
				})
				continue
			}

			wg.Add(1)
			sem <- struct{}{}
			go func(n *graph.Node) {
				defer wg.Done()
				defer func() { <-sem }()
				res := g.renderNode(h, n, gr, refs, wantTF)
				mu.Lock()
				results[n.ID] = res
				mu.Unlock()
			}(node)
		}
		wg.Wait()

		// Collect in tier order so output stays in dependency order.
		for _, nodeID := range tier {
			res, ok := results[nodeID]
			if !ok {
				continue
			}
			out.Fail(res.errs...)
			out.Warnings = append(out.Warnings, res.warns...)
			if len(res.errs) > 0 {
				continue
			}
			node := gr.Node(nodeID)
			if wantCFN {
				h, _ := g.reg.Get(node.Type())
				if err := addConstruct(template, h, node, gr); err != nil {
					out.Fail(generationError(nodeID, err))
				}
			}
			if addr, ok := terraform.Address(node); ok {
				refs[nodeID] = addr
			}
			if wantTF {
				tfBuilder.AddResource(res.hcl)
			}
		}
	}

	if !out.Success {
		return out, nil
	}

	outs := outputsFor(gr)
	out.Files = make(map[string][]byte)
	if wantCFN {
		for _, o := range outs {
			template.AddOutput(o.name, o.description, cloudformation.Ref(o.ref))
		}
		if err := g.writeTemplate(template, out.Files); err != nil {
			return nil, err
		}
	}
	if wantTF {
		tfOutputs, err := terraformOutputs(gr, refs, outs)
		if err != nil {
			return nil, err
		}
		tfBuilder.SetVersions(terraform.VersionsTF())
		tfBuilder.SetVariables(terraform.VariablesTF())
		tfBuilder.SetOutputs(terraform.OutputsTF(tfOutputs))
		tfBuilder.SetTfvars(terraform.Tfvars(g.opts.Region))
		for name, content := range tfBuilder.Build() {
			out.Files[name] = content
		}
	}
	return out, nil
}

func (g *Generator) renderNode(h registry.ResourceHandler, n *graph.Node, gr *graph.Graph, refs registry.RefMap, wantTF bool) nodeResult {
	errs, warns := h.Validate(n)
	res := nodeResult{nodeID: n.ID, errs: errs, warns: warns}
	if len(errs) > 0 {
		return res
	}
	if wantTF {
		block, err := h.GenerateHCL(n, gr, refs)
		if err != nil {
			res.errs = append(res.errs, generationError(n.ID, err))
			return res
		}
		if len(block) == 0 {
			res.warns = append(res.warns, result.Warning{
				Type:     result.TypeGeneration,
				Severity: result.SeverityWarning,
				NodeID:   n.ID,
				Message:  string(n.Type()) + " has no standalone terraform resource; it is rendered by the resource it references",
			})
		}
		res.hcl = block
	}
	return res
}

// addConstruct creates the node's construct in the template's stack. The
// construct tree lives in the jsii runtime, so this runs on the collecting
// goroutine only; jsii reports JavaScript errors as panics.
func addConstruct(t *cloudformation.Template, h registry.ResourceHandler, n *graph.Node, gr *graph.Graph) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("create construct: %v", r)
		}
	}()
	res, err := h.CloudFormation(t.Scope(), n, gr)
	if err != nil {
		return err
	}
	t.Add(n.ID, res, n.Metadata)
	return nil
}

func (g *Generator) writeTemplate(t *cloudformation.Template, files map[string][]byte) error {
	doc, err := t.Document()
	if err != nil {
		return err
	}
	if slices.Contains(g.opts.Formats, FormatJSON) {
		b, err := cloudformation.JSON(doc)
		if err != nil {
			return err
		}
		files[TemplateJSONFile] = b
	}
	if slices.Contains(g.opts.Formats, FormatYAML) {
		b, err := cloudformation.YAML(doc)
		if err != nil {
			return err
		}
		files[TemplateYAMLFile] = b
	}
	return nil
}

func generationError(nodeID string, err error) result.Error {
	return result.Error{
		Type:     result.TypeGeneration,
		Severity: result.SeverityError,
		NodeID:   nodeID,
		Message:  err.Error(),
	}
}

// configurationErrors flattens err into result errors when every wrapped
// error is a *config.ConfigurationError; otherwise it returns nil.
func configurationErrors(err error) []result.Error {
	var leaves []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		leaves = joined.Unwrap()
	} else {
		leaves = []error{err}
	}
	out := make([]result.Error, 0, len(leaves))
	for _, e := range leaves {
		var ce *config.ConfigurationError
		if !errors.As(e, &ce) {
			return nil
		}
		out = append(out, result.Error{
			Type:       result.TypeConfiguration,
			Severity:   result.SeverityError,
			Field:      ce.Field,
			Message:    ce.Message,
			Suggestion: ce.Suggestion,
		})
	}
	return out
}

func description(gr *graph.Graph) string {
	if len(gr.OfType(graph.TypeApplication)) > 0 {
		return "Kinesis Data Analytics Studio resources"
	}
	return "Kinesis Data Analytics application monitoring"
}

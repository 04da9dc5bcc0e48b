package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kda-constructs/generator/internal/logger"
	"github.com/kda-constructs/generator/internal/terraform"
)

// Format is an output format.
type Format string

const (
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
	FormatTerraform Format = "terraform"
)

// Output file names for the CloudFormation formats.
const (
	TemplateJSONFile = "template.json"
	TemplateYAMLFile = "template.yaml"
)

// ParseFormats parses format names (json, yaml, terraform), dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	for _, name := range names {
		f := Format(strings.ToLower(strings.TrimSpace(name)))
		switch f {
		case FormatJSON, FormatYAML, FormatTerraform:
		default:
			return nil, fmt.Errorf("unsupported format %q (use json, yaml, or terraform)", name)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Options configures the generator behavior.
type Options struct {
	// Formats to render; defaults to CloudFormation JSON.
	Formats []Format
	// EmitTfvars generates terraform.tfvars when rendering Terraform.
	EmitTfvars bool
	// Region is the aws_region written to terraform.tfvars.
	Region string
	// MaxParallel is the max number of nodes to process in parallel per tier (0 = default).
	MaxParallel int
	Logger      *slog.Logger
}

// DefaultOptions returns default generator options.
func DefaultOptions() Options {
	return Options{
		Formats:     []Format{FormatJSON},
		EmitTfvars:  true,
		Region:      terraform.DefaultRegion,
		MaxParallel: 0, // use runtime.NumCPU in generator
		Logger:      logger.Default,
	}
}

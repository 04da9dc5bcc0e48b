// Package cloudformation renders a resource graph as a CloudFormation
// template. Resources are CDK L1 constructs in a single stack; the template is
// the stack's synthesized document.
package cloudformation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"gopkg.in/yaml.v3"

	"github.com/kda-constructs/generator/internal/graph"
)

// FormatVersion is the only template format version CloudFormation defines.
const FormatVersion = "2010-09-09"

const stackID = "Generated"

// Template is a CDK stack collecting the resources of one generation.
type Template struct {
	app    awscdk.App
	stack  awscdk.Stack
	outdir string
}

// New returns an empty template. The cloud assembly is written to a
// temporary directory that Close removes.
func New(description string) (*Template, error) {
	outdir, err := os.MkdirTemp("", "kda-generator-")
	if err != nil {
		return nil, fmt.Errorf("create assembly dir: %w", err)
	}
	app := awscdk.NewApp(&awscdk.AppProps{
		Outdir:             jsii.String(outdir),
		AnalyticsReporting: jsii.Bool(false),
	})
	stack := awscdk.NewStack(app, jsii.String(stackID), &awscdk.StackProps{
		Description: String(description),
		Synthesizer: awscdk.NewDefaultStackSynthesizer(&awscdk.DefaultStackSynthesizerProps{
			GenerateBootstrapVersionRule: jsii.Bool(false),
		}),
	})
	stack.TemplateOptions().SetTemplateFormatVersion(jsii.String(FormatVersion))
	return &Template{app: app, stack: stack, outdir: outdir}, nil
}

// Scope is the construct scope resources are created in.
func (t *Template) Scope() constructs.Construct { return t.stack }

// Stack returns the underlying stack.
func (t *Template) Stack() awscdk.Stack { return t.stack }

// Add pins the resource's logical id to id and attaches the node metadata.
func (t *Template) Add(id string, r awscdk.CfnResource, m graph.Metadata) {
	r.OverrideLogicalId(jsii.String(id))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.AddMetadata(jsii.String(k), m[k])
	}
}

// AddOutput adds a stack output under name.
func (t *Template) AddOutput(name, description string, value *string) {
	awscdk.NewCfnOutput(t.stack, jsii.String(name), &awscdk.CfnOutputProps{
		Value:       value,
		Description: String(description),
	})
}

// Document synthesizes the stack and returns its template.
func (t *Template) Document() (map[string]any, error) {
	assembly := t.app.Synth(nil)
	doc, ok := assembly.GetStackArtifact(t.stack.ArtifactId()).Template().(map[string]any)
	if !ok {
		return nil, errors.New("synthesized template is not an object")
	}
	return doc, nil
}

// Close removes the cloud assembly directory.
func (t *Template) Close() error {
	return os.RemoveAll(t.outdir)
}

// JSON encodes a template document with two-space indentation. Map keys are
// sorted, so identical templates encode to identical bytes.
func JSON(doc map[string]any) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return append(b, '\n'), nil
}

// YAML encodes a template document as YAML.
func YAML(doc map[string]any) ([]byte, error) {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return b, nil
}

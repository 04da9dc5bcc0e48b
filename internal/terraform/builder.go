package terraform

import (
	"bytes"
)

// File names written by the Terraform sink.
const (
	VersionsFile  = "versions.tf"
	VariablesFile = "variables.tf"
	MainFile      = "main.tf"
	OutputsFile   = "outputs.tf"
	TfvarsFile    = "terraform.tfvars"
)

// Builder collects resource blocks and template content for the final Terraform config.
type Builder struct {
	resources  [][]byte
	variables  []byte
	outputs    []byte
	versions   []byte
	tfvars     []byte
	emitTfvars bool
}

// NewBuilder returns a new Builder.
func NewBuilder(emitTfvars bool) *Builder {
	return &Builder{emitTfvars: emitTfvars}
}

// AddResource appends a resource block (raw bytes from a handler). Empty blocks are skipped.
func (b *Builder) AddResource(block []byte) {
	if len(block) == 0 {
		return
	}
	b.resources = append(b.resources, block)
}

// Resources returns the number of blocks added so far.
func (b *Builder) Resources() int { return len(b.resources) }

// SetVariables sets the variables.tf content.
func (b *Builder) SetVariables(content []byte) { b.variables = content }

// SetOutputs sets the outputs.tf content.
func (b *Builder) SetOutputs(content []byte) { b.outputs = content }

// SetVersions sets the versions.tf content (terraform block, provider, data sources).
func (b *Builder) SetVersions(content []byte) { b.versions = content }

// SetTfvars sets the terraform.tfvars content (optional).
func (b *Builder) SetTfvars(content []byte) { b.tfvars = content }

// Build returns a map of filename -> content for all Terraform files.
func (b *Builder) Build() map[string][]byte {
	out := make(map[string][]byte)
	if len(b.versions) > 0 {
		out[VersionsFile] = b.versions
	}
	if len(b.variables) > 0 {
		out[VariablesFile] = b.variables
	}
	var mainBuf bytes.Buffer
	for i, r := range b.resources {
		if i > 0 {
			mainBuf.WriteString("\n")
		}
		mainBuf.Write(r)
	}
	if mainBuf.Len() > 0 {
		out[MainFile] = mainBuf.Bytes()
	}
	if len(b.outputs) > 0 {
		out[OutputsFile] = b.outputs
	}
	if b.emitTfvars && len(b.tfvars) > 0 {
		out[TfvarsFile] = b.tfvars
	}
	return out
}

package generator

import (
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/terraform"
)

type output struct {
	name        string
	description string
	ref         graph.Ref
}

// outputsFor exposes the identifiers a deployment pipeline needs: dashboard
// and application names, the role ARN, and the log group name.
func outputsFor(gr *graph.Graph) []output {
	var out []output
	for _, n := range gr.Nodes() {
		switch n.Type() {
		case graph.TypeDashboard:
			out = append(out, output{name: n.ID + "Name", description: "Dashboard name", ref: graph.Ref{ID: n.ID}})
		case graph.TypeApplication:
			out = append(out, output{name: n.ID + "ApplicationName", description: "Studio application name", ref: graph.Ref{ID: n.ID}})
		case graph.TypeRole:
			out = append(out, output{name: n.ID + "Arn", description: "Service role ARN", ref: graph.Ref{ID: n.ID, Attr: "Arn"}})
		case graph.TypeLogGroup:
			out = append(out, output{name: n.ID + "Name", description: "Log group name", ref: graph.Ref{ID: n.ID}})
		}
	}
	return out
}

func terraformOutputs(gr *graph.Graph, refs registry.RefMap, outs []output) ([]terraform.Output, error) {
	tf := make([]terraform.Output, 0, len(outs))
	for _, o := range outs {
		value, err := terraform.Reference(gr, refs, o.ref)
		if err != nil {
			return nil, err
		}
		tf = append(tf, terraform.Output{
			Name:        terraform.SanitizeName(o.name),
			Description: o.description,
			Value:       value,
		})
	}
	return tf, nil
}

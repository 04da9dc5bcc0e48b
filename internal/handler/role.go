package handler

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/kda-constructs/generator/internal/cloudformation"
	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/registry"
	"github.com/kda-constructs/generator/internal/result"
	"github.com/kda-constructs/generator/internal/terraform"
)

type roleHandler struct{}

func init() {
	registry.Default.Register(&roleHandler{})
}

func (roleHandler) ResourceType() graph.ResourceType { return graph.TypeRole }

func (roleHandler) Validate(node *graph.Node) ([]result.Error, []result.Warning) {
	var errs []result.Error
	var warns []result.Warning
	r, ok := node.Resource.(*graph.Role)
	if !ok {
		return []result.Error{validationError(node.ID, "resource is not a role", "")}, nil
	}
	trust := r.AssumeRolePolicy.Statements
	if len(trust) == 0 {
		errs = append(errs, validationError(node.ID, "role has no trust policy", "Add an sts:AssumeRole statement"))
	}
	for _, s := range trust {
		if s.Principal == nil || s.Principal.Service == "" {
			errs = append(errs, validationError(node.ID, "trust statement has no service principal", ""))
		}
	}
	for _, p := range r.Policies {
		if p.PolicyName == "" {
			errs = append(errs, validationError(node.ID, "inline policy has no name", ""))
		}
		for _, s := range p.Document.Statements {
			if len(s.Actions) == 0 || len(s.Resources) == 0 {
				errs = append(errs, validationError(node.ID, "policy "+p.PolicyName+" has a statement without actions or resources", ""))
			}
			for _, res := range s.Resources {
				if res == "*" && len(node.Metadata) == 0 {
					warns = append(warns, validationWarning(node.ID, "policy "+p.PolicyName+" grants access to all resources",
						"Scope the statement or record a suppression in the node metadata"))
				}
			}
		}
	}
	return errs, warns
}

func (roleHandler) CloudFormation(scope constructs.Construct, node *graph.Node, _ *graph.Graph) (awscdk.CfnResource, error) {
	r := node.Resource.(*graph.Role)
	props := &awsiam.CfnRoleProps{
		AssumeRolePolicyDocument: cloudformation.Value(policyDocument(r.AssumeRolePolicy)),
		Description:              cloudformation.String(r.Description),
	}
	if len(r.Policies) > 0 {
		policies := make([]any, len(r.Policies))
		for i, p := range r.Policies {
			policies[i] = &awsiam.CfnRole_PolicyProperty{
				PolicyName:     jsii.String(p.PolicyName),
				PolicyDocument: cloudformation.Value(policyDocument(p.Document)),
			}
		}
		props.Policies = &policies
	}
	return awsiam.NewCfnRole(scope, jsii.String(node.ID), props), nil
}

func (roleHandler) GenerateHCL(node *graph.Node, g *graph.Graph, refs RefMap) ([]byte, error) {
	r := node.Resource.(*graph.Role)
	block, err := resourceBlock(node)
	if err != nil {
		return nil, err
	}
	body := block.Body()
	terraform.SetAttributeStr(body, "description", r.Description)

	trust, err := terraform.ValueTokens(g, refs, policyDocument(r.AssumeRolePolicy))
	if err != nil {
		return nil, err
	}
	body.SetAttributeRaw("assume_role_policy", terraform.JSONEncode(trust))

	for _, p := range r.Policies {
		doc, err := terraform.ValueTokens(g, refs, policyDocument(p.Document))
		if err != nil {
			return nil, err
		}
		pBody := body.AppendNewBlock("inline_policy", nil).Body()
		terraform.SetAttributeStr(pBody, "name", p.PolicyName)
		pBody.SetAttributeRaw("policy", terraform.JSONEncode(doc))
	}
	return terraform.BlockToBytes(block), nil
}

// policyDocument renders an IAM policy with single actions and resources
// written as bare values. Resources keep their graph values for the sink to resolve.
func policyDocument(doc graph.PolicyDocument) map[string]any {
	statements := make([]any, len(doc.Statements))
	for i, s := range doc.Statements {
		st := map[string]any{"Effect": string(s.Effect)}
		if s.Principal != nil {
			st["Principal"] = map[string]any{"Service": s.Principal.Service}
		}
		if len(s.Actions) > 0 {
			st["Action"] = oneOrMany(stringsToAny(s.Actions))
		}
		if len(s.Resources) > 0 {
			st["Resource"] = oneOrMany(s.Resources)
		}
		statements[i] = st
	}
	return map[string]any{"Version": doc.Version, "Statement": statements}
}

func oneOrMany(values []any) any {
	if len(values) == 1 {
		return values[0]
	}
	return values
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

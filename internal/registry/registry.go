package registry

import (
	"sort"
	"sync"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"

	"github.com/kda-constructs/generator/internal/graph"
	"github.com/kda-constructs/generator/internal/result"
)

// RefMap maps node IDs to Terraform resource addresses (e.g. "StudioRole" -> "aws_iam_role.studio_role").
type RefMap map[string]string

// ResourceHandler is the interface each resource type handler must implement.
type ResourceHandler interface {
	ResourceType() graph.ResourceType
	Validate(node *graph.Node) ([]result.Error, []result.Warning)
	// CloudFormation creates the node's L1 construct in scope. The construct id
	// is the node ID; references to other nodes use their logical ids.
	CloudFormation(scope constructs.Construct, node *graph.Node, g *graph.Graph) (awscdk.CfnResource, error)
	// GenerateHCL renders the node as a Terraform block. A nil block means the
	// node is folded into another resource.
	GenerateHCL(node *graph.Node, g *graph.Graph, refs RefMap) ([]byte, error)
}

// Default is the global handler registry.
var Default = New()

// Registry holds resource type handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[graph.ResourceType]ResourceHandler
}

// New returns a new empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[graph.ResourceType]ResourceHandler)}
}

// Register adds a handler for its resource type.
func (r *Registry) Register(h ResourceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.ResourceType()] = h
}

// Get returns the handler for the resource type, or nil and false.
func (r *Registry) Get(resourceType graph.ResourceType) (ResourceHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[resourceType]
	return h, ok
}

// ListSupportedTypes returns all registered resource types, sorted.
func (r *Registry) ListSupportedTypes() []graph.ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]graph.ResourceType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

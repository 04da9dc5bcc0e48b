package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ResourceType is the template type of a node (e.g. AWS::CloudWatch::Alarm).
type ResourceType string

const (
	TypeAlarm         ResourceType = "AWS::CloudWatch::Alarm"
	TypeDashboard     ResourceType = "AWS::CloudWatch::Dashboard"
	TypeLogGroup      ResourceType = "AWS::Logs::LogGroup"
	TypeLogStream     ResourceType = "AWS::Logs::LogStream"
	TypeRole          ResourceType = "AWS::IAM::Role"
	TypeApplication   ResourceType = "AWS::KinesisAnalyticsV2::Application"
	TypeLoggingOption ResourceType = "AWS::KinesisAnalyticsV2::ApplicationCloudWatchLoggingOption"
)

// Resource is the typed payload of a node.
type Resource interface {
	Type() ResourceType
	// References lists the nodes this resource points at.
	References() []Ref
}

// Ref points at another node in the same graph. An empty Attr refers to the
// node's primary identifier; otherwise it names an attribute such as "Arn".
type Ref struct {
	ID   string
	Attr string
}

// Sub is a string with ${...} placeholders resolved by the sink. Placeholders
// name either pseudo parameters (AWS::Region) or node ids.
type Sub string

// Metadata is an opaque bag of sink annotations carried on a node unmodified.
type Metadata map[string]any

// Node is a named resource in the graph.
type Node struct {
	ID       string
	Resource Resource
	Metadata Metadata
}

// Type returns the node's resource type.
func (n *Node) Type() ResourceType { return n.Resource.Type() }

// Graph is an immutable, ordered set of nodes.
type Graph struct {
	nodes []*Node
	index map[string]int
}

// Nodes returns the nodes in insertion order. The slice is a copy; the nodes must not be modified.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.nodes[i]
}

// OfType returns the nodes of type t in insertion order.
func (g *Graph) OfType(t ResourceType) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Type() == t {
			out = append(out, n)
		}
	}
	return out
}

// Referencing returns the nodes that reference id, in insertion order.
func (g *Graph) Referencing(id string) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		for _, r := range n.Resource.References() {
			if r.ID == id {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Types returns the distinct resource types present, sorted.
func (g *Graph) Types() []ResourceType {
	seen := make(map[ResourceType]bool)
	var out []ResourceType
	for _, n := range g.nodes {
		if !seen[n.Type()] {
			seen[n.Type()] = true
			out = append(out, n.Type())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ErrEmptyID is returned when a node is added without an id.
var ErrEmptyID = errors.New("node id is empty")

// Builder accumulates nodes during a single generation pass.
type Builder struct {
	nodes []*Node
	seen  map[string]bool
	errs  []error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]bool)}
}

// NodeOption customizes a node as it is added.
type NodeOption func(*Node)

// WithMetadata attaches sink metadata to the node.
func WithMetadata(m Metadata) NodeOption {
	return func(n *Node) { n.Metadata = m }
}

// Add appends a node and returns a reference to it.
func (b *Builder) Add(id string, r Resource, opts ...NodeOption) Ref {
	switch {
	case id == "":
		b.errs = append(b.errs, ErrEmptyID)
	case b.seen[id]:
		b.errs = append(b.errs, fmt.Errorf("duplicate node id: %s", id))
	default:
		n := &Node{ID: id, Resource: r}
		for _, opt := range opts {
			opt(n)
		}
		b.nodes = append(b.nodes, n)
		b.seen[id] = true
	}
	return Ref{ID: id}
}

// Build freezes the accumulated nodes into a Graph. It fails on duplicate ids
// and on references to nodes that were never added.
func (b *Builder) Build() (*Graph, error) {
	errs := append([]error(nil), b.errs...)
	for _, n := range b.nodes {
		for _, r := range n.Resource.References() {
			if !b.seen[r.ID] {
				errs = append(errs, fmt.Errorf("node %s references unknown node %q", n.ID, r.ID))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	g := &Graph{nodes: make([]*Node, len(b.nodes)), index: make(map[string]int, len(b.nodes))}
	copy(g.nodes, b.nodes)
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
	b.nodes = nil
	b.seen = make(map[string]bool)
	return g, nil
}

// Package circuit is the data model: Node, Component, Circuit, and the
// validation invariants spec §3 requires before assembly. Structurally it
// follows edp1096-toy-spice/pkg/circuit/circuit.go (a name->index map built
// up as components are registered) but node/branch indexing is owned by the
// MNA assembler (pkg/mna), not the circuit itself — the circuit only knows
// its nodes, ground, and components.
package circuit

import (
	"fmt"
	"math"
	"strings"

	"github.com/icmhg/spicesim/internal/consts"
	"github.com/icmhg/spicesim/pkg/waveform"
	"github.com/katalvlaran/lvlath/graph"
)

// Kind identifies a component's electrical role, taken from the first
// character of its name per spec §3.
type Kind byte

const (
	KindResistor      Kind = 'R'
	KindCapacitor     Kind = 'C'
	KindInductor      Kind = 'L'
	KindVoltageSource Kind = 'V'
	KindCurrentSource Kind = 'I'
)

func (k Kind) String() string { return string(k) }

// KindOf derives a component Kind from its name's first character.
func KindOf(name string) (Kind, bool) {
	if name == "" {
		return 0, false
	}
	switch k := Kind(strings.ToUpper(name)[0]); k {
	case KindResistor, KindCapacitor, KindInductor, KindVoltageSource, KindCurrentSource:
		return k, true
	default:
		return k, false
	}
}

// Node is a labelled electrical connection point.
type Node struct {
	Name string
	ID   int
}

// Component is a two-terminal element: R, C, L, V or I.
type Component struct {
	Name     string
	Kind     Kind
	NodePos  string // n+
	NodeNeg  string // n-
	Value    float64
	Waveform *waveform.Pulse // nil for a plain DC source
}

func isGroundName(name string) bool {
	n := strings.ToLower(name)
	return n == "0" || n == "gnd" || n == "ground"
}

// Circuit is the aggregate data model: a title, the node set (exactly one
// ground) and an ordered component list. It is built once and is read-only
// thereafter (spec §5) — every mutating method is meant to run during
// construction, not during analysis.
type Circuit struct {
	Title string

	nodes     []Node
	nodeIndex map[string]int
	groundID  int
	hasGround bool

	components []Component
	compIndex  map[string]int
}

// New creates an empty circuit.
func New(title string) *Circuit {
	return &Circuit{
		Title:     title,
		nodeIndex: make(map[string]int),
		groundID:  -1,
		compIndex: make(map[string]int),
	}
}

// AddNode registers name if unseen and returns its dense 0-based id. Ground
// aliases ("0", "gnd", "ground", case-insensitive) all resolve to a single
// ground node, fixed as the first one encountered.
func (c *Circuit) AddNode(name string) int {
	if id, ok := c.nodeIndex[name]; ok {
		return id
	}
	if isGroundName(name) && c.hasGround {
		// A second ground spelling ("0" after "gnd", say) aliases the same
		// node rather than creating a new one.
		c.nodeIndex[name] = c.groundID
		return c.groundID
	}
	id := len(c.nodes)
	c.nodes = append(c.nodes, Node{Name: name, ID: id})
	c.nodeIndex[name] = id
	if isGroundName(name) && !c.hasGround {
		c.hasGround = true
		c.groundID = id
	}
	return id
}

// AddComponent validates and appends a component, auto-registering its
// terminal nodes.
func (c *Circuit) AddComponent(comp Component) error {
	if comp.Name == "" {
		return newInputError("component name must not be empty")
	}
	if _, dup := c.compIndex[comp.Name]; dup {
		return newInputErrorComponent("duplicate component name", comp.Name)
	}
	kind, ok := KindOf(comp.Name)
	if !ok {
		return newInputErrorComponent("unsupported component kind", comp.Name)
	}
	comp.Kind = kind

	if err := validateValue(comp); err != nil {
		return err
	}

	c.AddNode(comp.NodePos)
	c.AddNode(comp.NodeNeg)

	c.compIndex[comp.Name] = len(c.components)
	c.components = append(c.components, comp)
	return nil
}

func validateValue(comp Component) error {
	v := comp.Value
	switch comp.Kind {
	case KindResistor:
		if v <= 0 {
			return newInputErrorComponent("resistance must be strictly positive", comp.Name)
		}
	case KindCapacitor, KindInductor:
		if v < 0 {
			return newInputErrorComponent("capacitance/inductance must be non-negative", comp.Name)
		}
	case KindVoltageSource, KindCurrentSource:
		if !isFinite(v) {
			return newInputErrorComponent("source value must be finite", comp.Name)
		}
	}
	if v != 0 {
		mag := math.Abs(v)
		if mag > consts.MaxComponentValue {
			return newInputErrorComponent("component value out of safe range", comp.Name)
		}
		if mag < consts.MinNonzeroComponentValue && comp.Kind == KindResistor {
			return newInputErrorComponent("component value out of safe range", comp.Name)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Nodes returns the full node set, including ground, in declaration order.
func (c *Circuit) Nodes() []Node { return c.nodes }

// Components returns the ordered component list.
func (c *Circuit) Components() []Component { return c.components }

// NodeID resolves a node name to its dense id.
func (c *Circuit) NodeID(name string) (int, bool) {
	id, ok := c.nodeIndex[name]
	return id, ok
}

// GroundID returns the id of the designated ground node, or -1 if none has
// been registered yet.
func (c *Circuit) GroundID() int { return c.groundID }

// HasGround reports whether a ground node has been registered.
func (c *Circuit) HasGround() bool { return c.hasGround }

// Component looks a component up by name.
func (c *Circuit) Component(name string) (Component, bool) {
	idx, ok := c.compIndex[name]
	if !ok {
		return Component{}, false
	}
	return c.components[idx], true
}

// WithSourceValue returns a clone of the circuit with the named V or I
// source's value replaced — used by DC sweep to avoid mutating the
// analysis's own circuit between points (spec §5's clone-then-analyze
// concurrency guarantee).
func (c *Circuit) WithSourceValue(sourceName string, value float64) (*Circuit, error) {
	clone := c.Clone()
	idx, ok := clone.compIndex[sourceName]
	if !ok {
		return nil, newInputErrorComponent("source not found", sourceName)
	}
	if k := clone.components[idx].Kind; k != KindVoltageSource && k != KindCurrentSource {
		return nil, newInputErrorComponent("not a source", sourceName)
	}
	clone.components[idx].Value = value
	return clone, nil
}

// Clone deep-copies the circuit so callers may run independent analyses on
// clones of a shared, read-only Circuit (spec §5).
func (c *Circuit) Clone() *Circuit {
	clone := &Circuit{
		Title:     c.Title,
		nodes:     append([]Node(nil), c.nodes...),
		nodeIndex: make(map[string]int, len(c.nodeIndex)),
		groundID:  c.groundID,
		hasGround: c.hasGround,
		compIndex: make(map[string]int, len(c.compIndex)),
	}
	for k, v := range c.nodeIndex {
		clone.nodeIndex[k] = v
	}
	for k, v := range c.compIndex {
		clone.compIndex[k] = v
	}
	clone.components = make([]Component, len(c.components))
	for i, comp := range c.components {
		cp := comp
		if comp.Waveform != nil {
			w := *comp.Waveform
			cp.Waveform = &w
		}
		clone.components[i] = cp
	}
	return clone
}

// Validate enforces every pre-assembly invariant in spec §3: at least one
// component, exactly one ground, every terminal name already known (always
// true here since AddComponent auto-registers nodes, but guards against a
// component that bypasses AddComponent), no dangling nodes, and ground-reachability
// of every node via the component incidence graph.
func (c *Circuit) Validate() error {
	if len(c.components) == 0 {
		return newInputError("circuit must contain at least one component")
	}
	if !c.hasGround {
		return newInputError("circuit must have a ground node named '0', 'gnd' or 'ground'")
	}

	used := make(map[int]bool, len(c.nodes))
	for _, comp := range c.components {
		posID, ok := c.nodeIndex[comp.NodePos]
		if !ok {
			return newInputErrorNode("component references unknown node", comp.NodePos)
		}
		negID, ok := c.nodeIndex[comp.NodeNeg]
		if !ok {
			return newInputErrorNode("component references unknown node", comp.NodeNeg)
		}
		used[posID] = true
		used[negID] = true
	}
	for _, n := range c.nodes {
		if !used[n.ID] {
			return newInputErrorNode("dangling node", n.Name)
		}
	}

	return c.checkConnectivity()
}

// checkConnectivity builds an undirected graph.Graph over the component
// incidence structure (one vertex per node, one edge per component) and
// runs BFS from ground, rejecting any node it cannot reach.
func (c *Circuit) checkConnectivity() error {
	// Graph vertices are keyed by dense node id (stringified), not by the
	// component's literal terminal name, so that two different ground
	// spellings used by different components ("gnd" on one, "GROUND" on
	// another) are recognized as the same vertex.
	vertexID := func(name string) string {
		return fmt.Sprintf("n%d", c.nodeIndex[name])
	}

	g := graph.NewGraph(false, false)
	for _, comp := range c.components {
		g.AddEdge(vertexID(comp.NodePos), vertexID(comp.NodeNeg), 1)
	}

	res, err := g.BFS(vertexID(c.nodes[c.groundID].Name), nil)
	if err != nil {
		return fmt.Errorf("internal invariant: connectivity BFS failed: %w", err)
	}
	for _, n := range c.nodes {
		if !res.Visited[vertexID(n.Name)] {
			return newInputErrorNode("disconnected node", n.Name)
		}
	}
	return nil
}

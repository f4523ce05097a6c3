package op

import (
	"fmt"
	"io"
	"strings"
)

// === Precedence Graph ======================================================

// Refer to "Compilers: Principles, Techniques, and Tools" by Aho, Sethi, Ullman,
// Section 4.6, Precedence Functions.

// Role tells the two nodes of a symbol apart.
type Role uint8

// Every symbol owns an F-node and a G-node.
const (
	FRole Role = iota
	GRole
)

// Node is a node of the precedence graph. Nodes are compared by value, thus
// they may be looked up without further bookkeeping.
type Node struct {
	Sym  Symbol
	Role Role
}

func (n Node) String() string {
	if n.Role == FRole {
		return fmt.Sprintf("f(%s)", n.Sym)
	}
	return fmt.Sprintf("g(%s)", n.Sym)
}

// Graph is the precedence graph of a grammar, using adjacency lists.
// Declaring a <· b adds an edge g(b) → f(a), declaring a ·> b adds an edge
// f(a) → g(b). The length of the longest path starting at f(a) is the value of
// the precedence function f for a, analogous for g.
//
// Topological order and longest paths are cached; adding an edge
// invalidates the caches.
type Graph struct {
	adj     map[Node][]Node
	nodes   []Node       // in order of insertion
	order   []Node       // topological order, if computed
	cycle   error        // set if topological sorting found a cycle
	longest map[Node]int // longest path lengths
}

// NewGraph creates an empty precedence graph.
func NewGraph() *Graph {
	return &Graph{
		adj:     make(map[Node][]Node),
		longest: make(map[Node]int),
	}
}

// AddNode creates the F- and G-node for a symbol. If the symbol already
// has its nodes, nothing is done.
func (g *Graph) AddNode(sym Symbol) {
	for _, n := range [2]Node{{sym, FRole}, {sym, GRole}} {
		if _, ok := g.adj[n]; !ok {
			g.adj[n] = []Node{}
			g.nodes = append(g.nodes, n)
			g.invalidate()
		}
	}
}

// FNode returns the F-node of a symbol. If the symbol has never been added,
// false is returned.
func (g *Graph) FNode(sym Symbol) (Node, bool) {
	n := Node{sym, FRole}
	_, ok := g.adj[n]
	return n, ok
}

// GNode returns the G-node of a symbol. If the symbol has never been added,
// false is returned.
func (g *Graph) GNode(sym Symbol) (Node, bool) {
	n := Node{sym, GRole}
	_, ok := g.adj[n]
	return n, ok
}

// AddConnection adds a directed edge. Duplicate edges are not suppressed.
// Both nodes must be part of the graph.
func (g *Graph) AddConnection(from, to Node) error {
	if _, ok := g.adj[from]; !ok {
		return NewError(SymbolNotRegistered, "no node "+from.String(), from.Sym)
	}
	if _, ok := g.adj[to]; !ok {
		return NewError(SymbolNotRegistered, "no node "+to.String(), to.Sym)
	}
	tracer().Debugf("edge %v → %v", from, to)
	g.adj[from] = append(g.adj[from], to)
	g.invalidate()
	return nil
}

// Successors returns the nodes directly reachable from n, in order of insertion.
func (g *Graph) Successors(n Node) []Node {
	return g.adj[n]
}

// NodeCount returns the number of nodes, i.e. twice the number of symbols.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges, including duplicates.
func (g *Graph) EdgeCount() int {
	cnt := 0
	for _, succ := range g.adj {
		cnt += len(succ)
	}
	return cnt
}

func (g *Graph) invalidate() {
	g.order = nil
	g.cycle = nil
	if len(g.longest) > 0 {
		g.longest = make(map[Node]int)
	}
}

// topologicalOrder sorts the graph by depth first search, using a two-color
// scheme. Reaching a node which is still in progress means the graph contains
// a cycle; then the whole sort fails.
func (g *Graph) topologicalOrder() ([]Node, error) {
	if g.order != nil || g.cycle != nil {
		return g.order, g.cycle
	}
	visited := make(map[Node]bool, len(g.nodes))
	visiting := make(map[Node]bool)
	path := make([]Node, 0, 16)
	postorder := make([]Node, 0, len(g.nodes))
	var visit func(n Node) error
	visit = func(n Node) error {
		if visited[n] {
			return nil
		}
		if visiting[n] {
			return cycleError(path, n)
		}
		visiting[n] = true
		path = append(path, n)
		for _, succ := range g.adj[n] {
			if err := visit(succ); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(visiting, n)
		visited[n] = true
		postorder = append(postorder, n)
		return nil
	}
	for _, n := range g.nodes {
		if err := visit(n); err != nil {
			tracer().Errorf("precedence graph: %v", err)
			g.cycle = err
			return nil, err
		}
	}
	order := make([]Node, len(postorder))
	for i, n := range postorder {
		order[len(postorder)-1-i] = n
	}
	g.order = order
	return order, nil
}

func cycleError(path []Node, n Node) error {
	start := 0
	for i, p := range path {
		if p == n {
			start = i
			break
		}
	}
	var b strings.Builder
	syms := make([]Symbol, 0, len(path)-start)
	for _, p := range path[start:] {
		b.WriteString(p.String())
		b.WriteString(" → ")
		syms = append(syms, p.Sym)
	}
	b.WriteString(n.String())
	return NewError(CyclicPrecedenceGraph, b.String(), syms...)
}

// LongestPathLength returns the number of edges of the longest path starting at
// node start. If the graph contains a cycle, an error of kind
// CyclicPrecedenceGraph is returned, no matter which node is queried.
//
// Longest paths are found by relaxing edges in topological order, beginning with
// distance 0 for start. Nodes unreachable from start do not contribute.
func (g *Graph) LongestPathLength(start Node) (int, error) {
	if _, ok := g.adj[start]; !ok {
		return 0, NewError(SymbolNotRegistered, "no node "+start.String(), start.Sym)
	}
	order, err := g.topologicalOrder()
	if err != nil {
		return 0, err
	}
	if l, ok := g.longest[start]; ok {
		return l, nil
	}
	dist := map[Node]int{start: 0} // absent nodes are at distance -∞
	max := 0
	for _, n := range order {
		d, reached := dist[n]
		if !reached {
			continue
		}
		if d > max {
			max = d
		}
		for _, succ := range g.adj[n] {
			if ds, ok := dist[succ]; !ok || ds < d+1 {
				dist[succ] = d + 1
			}
		}
	}
	g.longest[start] = max
	return max, nil
}

// GraphViz exports the precedence graph to the Graphviz Dot format.
func (g *Graph) GraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [rankdir=LR, fontname=Helvetica, fontsize=10];
node [shape=circle, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, n := range g.nodes {
		b.WriteString(fmt.Sprintf("%s [fillcolor=%s label=%q]\n", dotID(n), nodecolor(n), n.String()))
	}
	for _, n := range g.nodes {
		for _, succ := range g.adj[n] {
			b.WriteString(fmt.Sprintf("%s -> %s\n", dotID(n), dotID(succ)))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func dotID(n Node) string {
	prefix := "f"
	if n.Role == GRole {
		prefix = "g"
	}
	return fmt.Sprintf("%s%d", prefix, int(n.Sym))
}

func nodecolor(n Node) string {
	if n.Role == FRole {
		return "white"
	}
	return "lightgray"
}

// adapted from https://github.com/jwhandley/graphyz/blob/main/g.go
package layout

import (
	"math"
	"sync"

	"github.com/quartercastle/vector"
	"github.com/suxatcode/skill-galaxy/internal/tracker"
	"golang.org/x/exp/constraints"
)

type Body interface {
	mass() float64
	position() vector.Vector
}

// Graph is the skill galaxy: one node per skill, one edge per pair of skills
// sharing at least one project.
type Graph struct {
	Nodes  []*Node `json:"nodes"`
	Edges  []*Edge `json:"edges"`
	lookup map[string]int
}

type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// Size is the visual diameter of the node.
	Size float64 `json:"size"`
	// Projects is the number of projects using this skill.
	Projects int           `json:"projects"`
	Pos      vector.Vector `json:"pos"`
	Vel      vector.Vector `json:"vel"`
	// Pinned nodes are positioned from outside the simulation, e.g. while
	// being dragged. Their velocity is held at zero.
	Pinned bool `json:"-"`
}

// Edge connects two skills used together in Strength projects. Source and
// Target index into Graph.Nodes.
type Edge struct {
	Source   int `json:"source"`
	Target   int `json:"target"`
	Strength int `json:"strength"`
}

func clamp[T constraints.Ordered](in, lo, hi T) T {
	if in > hi {
		return hi
	} else if in < lo {
		return lo
	}
	return in
}

// NewGraph builds nodes and edges from a skills/projects snapshot. Skills
// referenced by a project but missing from skills are ignored.
func NewGraph(skills []string, projects []tracker.Project, fs *ForceSimulation) *Graph {
	g := &Graph{
		Nodes:  make([]*Node, 0, len(skills)),
		Edges:  []*Edge{},
		lookup: make(map[string]int, len(skills)),
	}
	for _, skill := range skills {
		// a repeated id points to its last node
		g.lookup[skill] = len(g.Nodes)
		count := tracker.Count(projects, func(p tracker.Project) bool { return p.UsesSkill(skill) })
		g.Nodes = append(g.Nodes, &Node{
			ID:       skill,
			Label:    skill,
			Size:     fs.conf.NodeSize(count),
			Projects: count,
			Pos:      fs.conf.RandomVectorInside(),
			Vel:      vector.Vector{0, 0},
		})
	}
	edgeLookup := map[[2]int]*Edge{}
	for _, project := range projects {
		if len(project.Skills) < 2 {
			continue
		}
		for i := 0; i < len(project.Skills); i++ {
			for j := i + 1; j < len(project.Skills); j++ {
				source, ok1 := g.lookup[project.Skills[i]]
				target, ok2 := g.lookup[project.Skills[j]]
				if !ok1 || !ok2 || source == target {
					continue
				}
				key := [2]int{source, target}
				if source > target {
					key = [2]int{target, source}
				}
				if edge, exists := edgeLookup[key]; exists {
					edge.Strength += 1
					continue
				}
				edge := &Edge{Source: source, Target: target, Strength: 1}
				edgeLookup[key] = edge
				g.Edges = append(g.Edges, edge)
			}
		}
	}
	return g
}

// Node returns the node with the given skill id, or nil.
func (g *Graph) Node(id string) *Node {
	idx, ok := g.lookup[id]
	if !ok {
		return nil
	}
	return g.Nodes[idx]
}

// Edge returns the edge between skills a and b in either order, or nil.
func (g *Graph) Edge(a, b string) *Edge {
	ia, ok1 := g.lookup[a]
	ib, ok2 := g.lookup[b]
	if !ok1 || !ok2 {
		return nil
	}
	for _, edge := range g.Edges {
		if (edge.Source == ia && edge.Target == ib) || (edge.Source == ib && edge.Target == ia) {
			return edge
		}
	}
	return nil
}

func (g *Graph) ApplyForce(fs *ForceSimulation, qt *QuadTree) {
	g.centerForce(fs)
	if fs.conf.BarnesHut && qt != nil {
		g.repulsionBarnesHut(fs, qt)
	} else {
		g.repulsionNaive(fs)
	}
	g.attractionByEdgesForce(fs)
	g.updatePositions(fs)
}

func (g *Graph) centerForce(fs *ForceSimulation) {
	center := fs.conf.Rect.Center()
	for _, node := range g.Nodes {
		vector.In(node.Vel).Add(center.Sub(node.Pos).Scale(fs.conf.CenterStrength))
	}
}

// repulsionNaive visits every unordered pair once and applies mirrored forces.
func (g *Graph) repulsionNaive(fs *ForceSimulation) {
	for i := 0; i < len(g.Nodes); i++ {
		for j := i + 1; j < len(g.Nodes); j++ {
			force, ok := fs.repulsionForce(g.Nodes[i], g.Nodes[j])
			if !ok {
				continue
			}
			vector.In(g.Nodes[i].Vel).Sub(force)
			vector.In(g.Nodes[j].Vel).Add(force)
		}
	}
}

func (g *Graph) repulsionBarnesHut(fs *ForceSimulation, qt *QuadTree) {
	qt.Clear()
	qt.Region = g.boundingRect(fs.conf.Rect)
	for _, node := range g.Nodes {
		qt.Insert(node)
	}
	qt.CalculateMasses()
	forces := make([]vector.Vector, len(g.Nodes))
	calculateForce := func(from, to int) {
		for i := from; i < to; i++ {
			forces[i] = qt.CalculateForce(g.Nodes[i], fs.conf.Theta)
		}
	}
	if p := fs.conf.Parallelization; p > 1 && len(g.Nodes) > p {
		total := len(g.Nodes)
		wg := sync.WaitGroup{}
		wg.Add(p)
		for i := 0; i < p; i++ {
			go func(i int) {
				defer wg.Done()
				calculateForce(i*total/p, (i+1)*total/p)
			}(i)
		}
		wg.Wait()
	} else {
		calculateForce(0, len(g.Nodes))
	}
	for i, node := range g.Nodes {
		vector.In(node.Vel).Add(forces[i])
	}
}

// boundingRect returns the smallest Rect containing rect and all node
// positions. Nodes may be outside the viewport right after it shrank.
func (g *Graph) boundingRect(rect Rect) Rect {
	minX, minY := rect.X, rect.Y
	maxX, maxY := rect.X+rect.Width, rect.Y+rect.Height
	for _, node := range g.Nodes {
		minX, maxX = math.Min(minX, node.Pos.X()), math.Max(maxX, node.Pos.X())
		minY, maxY = math.Min(minY, node.Pos.Y()), math.Max(maxY, node.Pos.Y())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (g *Graph) attractionByEdgesForce(fs *ForceSimulation) {
	for _, edge := range g.Edges {
		if edge.Source < 0 || edge.Source >= len(g.Nodes) || edge.Target < 0 || edge.Target >= len(g.Nodes) {
			continue
		}
		source, target := g.Nodes[edge.Source], g.Nodes[edge.Target]
		force, ok := fs.attractionForce(source, target, edge.Strength)
		if !ok {
			continue
		}
		vector.In(source.Vel).Add(force)
		vector.In(target.Vel).Sub(force)
	}
}

// updatePositions integrates, damps and then keeps every node fully inside
// the viewport.
func (g *Graph) updatePositions(fs *ForceSimulation) {
	rect := fs.conf.Rect
	decay := 1 - fs.conf.VelocityDecay
	for _, node := range g.Nodes {
		if node.Pinned {
			node.Vel = vector.Vector{0, 0}
		} else {
			vector.In(node.Pos).Add(node.Vel.Scale(fs.conf.FrameTime))
			vector.In(node.Vel).Scale(decay)
		}
		node.Pos = clampIntoRect(node.Pos, rect, node.Size/2)
	}
}

// clampIntoRect keeps pos at least padding away from the borders of rect. If
// rect is too small for the padding, the upper bound wins, like the
// sequential checks of the browser version.
func clampIntoRect(pos vector.Vector, rect Rect, padding float64) vector.Vector {
	x, y := pos.X(), pos.Y()
	if x < rect.X+padding {
		x = rect.X + padding
	}
	if x > rect.X+rect.Width-padding {
		x = rect.X + rect.Width - padding
	}
	if y < rect.Y+padding {
		y = rect.Y + padding
	}
	if y > rect.Y+rect.Height-padding {
		y = rect.Y + rect.Height - padding
	}
	return vector.Vector{x, y}
}

func (node *Node) mass() float64 {
	return 1.0
}

func (node *Node) position() vector.Vector {
	return node.Pos
}

// Distance is the euclidean distance between two node centers.
func Distance(a, b *Node) float64 {
	return math.Hypot(b.Pos.X()-a.Pos.X(), b.Pos.Y()-a.Pos.Y())
}

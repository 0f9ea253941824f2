// adapted from https://github.com/jwhandley/graphyz/blob/main/quadtree.go
package layout

import (
	"github.com/quartercastle/vector"
)

type QuadTreeConfig struct {
	CapacityOfEachBlock int
	// MaxDepth stops subdividing, so that many nodes at the exact same
	// location end up in one leaf instead of recursing forever.
	MaxDepth int
}

var QUADTREE_DEFAULT_CONFIG = QuadTreeConfig{CapacityOfEachBlock: 10, MaxDepth: 16}

// QuadTree partitions the nodes of a graph for the BarnesHut approximation of
// the repulsion force. Cells far away from a node act as a single body of
// mass TotalMass at Center.
type QuadTree struct {
	Center          vector.Vector
	TotalMass       float64
	Region          Rect
	Nodes           []*Node
	Children        [4]*QuadTree
	config          *QuadTreeConfig
	forceSimulation *ForceSimulation
}

type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(pos vector.Vector) bool {
	return pos.X() >= r.X && pos.X() <= r.X+r.Width && pos.Y() >= r.Y && pos.Y() <= r.Y+r.Height
}

func (r Rect) Center() vector.Vector {
	return vector.Vector{r.X + r.Width/2, r.Y + r.Height/2}
}

func NewQuadTree(config *QuadTreeConfig, forceSimulation *ForceSimulation, boundary Rect) *QuadTree {
	if config == nil {
		config = &QUADTREE_DEFAULT_CONFIG
	}
	qt := new(QuadTree)
	qt.config = config
	qt.Region = boundary
	qt.Nodes = make([]*Node, 0, qt.capacity())
	qt.Center = vector.Vector{0, 0}
	qt.forceSimulation = forceSimulation
	return qt
}

func (qt *QuadTree) capacity() int {
	if qt.config.CapacityOfEachBlock <= 0 {
		return QUADTREE_DEFAULT_CONFIG.CapacityOfEachBlock
	}
	return qt.config.CapacityOfEachBlock
}

func (qt *QuadTree) maxDepth() int {
	if qt.config.MaxDepth <= 0 {
		return QUADTREE_DEFAULT_CONFIG.MaxDepth
	}
	return qt.config.MaxDepth
}

func (qt *QuadTree) Clear() {
	qt.Center = vector.Vector{0, 0}
	qt.Nodes = qt.Nodes[:0]
	for i := range qt.Children {
		qt.Children[i] = nil
	}
	qt.TotalMass = 0
}

func (qt *QuadTree) Insert(node *Node) bool {
	return qt.insert(node, 0)
}

func (qt *QuadTree) insert(node *Node, depth int) bool {
	if !qt.Region.Contains(node.Pos) {
		return false
	}
	if qt.Children[0] == nil {
		if len(qt.Nodes) < qt.capacity() || depth >= qt.maxDepth() {
			qt.Nodes = append(qt.Nodes, node)
			return true
		}
		qt.subdivide(depth)
	}
	for _, child := range qt.Children {
		if child.insert(node, depth+1) {
			return true
		}
	}
	return false
}

func (qt *QuadTree) subdivide(depth int) {
	midX := qt.Region.X + qt.Region.Width/2
	midY := qt.Region.Y + qt.Region.Height/2

	halfWidth := qt.Region.Width / 2
	halfHeight := qt.Region.Height / 2

	qt.Children[0] = NewQuadTree(qt.config, qt.forceSimulation, Rect{X: qt.Region.X, Y: qt.Region.Y, Width: halfWidth, Height: halfHeight}) // Top Left
	qt.Children[1] = NewQuadTree(qt.config, qt.forceSimulation, Rect{X: midX, Y: qt.Region.Y, Width: halfWidth, Height: halfHeight})        // Top right
	qt.Children[2] = NewQuadTree(qt.config, qt.forceSimulation, Rect{X: qt.Region.X, Y: midY, Width: halfWidth, Height: halfHeight})        // Bottom Left
	qt.Children[3] = NewQuadTree(qt.config, qt.forceSimulation, Rect{X: midX, Y: midY, Width: halfWidth, Height: halfHeight})               // Bottom Right

	for _, node := range qt.Nodes {
		for _, child := range qt.Children {
			if child.insert(node, depth+1) {
				break
			}
		}
	}
	qt.Nodes = qt.Nodes[:0]
}

// CalculateMasses aggregates mass and center of mass bottom-up. Empty cells
// keep a zero mass and are skipped by CalculateForce.
func (qt *QuadTree) CalculateMasses() {
	qt.TotalMass = 0
	qt.Center = vector.Vector{0, 0}
	if qt.Children[0] == nil {
		for _, node := range qt.Nodes {
			qt.TotalMass += node.mass()
			vector.In(qt.Center).Add(node.Pos.Scale(node.mass()))
		}
	} else {
		for _, child := range qt.Children {
			child.CalculateMasses()
			qt.TotalMass += child.TotalMass
			vector.In(qt.Center).Add(child.Center.Scale(child.TotalMass))
		}
	}
	if qt.TotalMass > 0 {
		qt.Center = qt.Center.Scale(1 / qt.TotalMass)
	}
}

// CalculateForce calculates the repulsion force acting on a node.
// theta defines the accuracy of the simulation, see https://en.wikipedia.org/wiki/Barnes%E2%80%93Hut_simulation#Calculating_the_force_acting_on_a_body
func (qt *QuadTree) CalculateForce(node *Node, theta float64) vector.Vector {
	totalForce := vector.Vector{0, 0}
	if qt.TotalMass == 0 {
		return totalForce
	}
	if qt.Children[0] == nil {
		for _, other := range qt.Nodes {
			if node == other {
				continue
			}
			// repulsionForce returns the force acting on its second argument
			if force, ok := qt.forceSimulation.repulsionForce(other, node); ok {
				vector.In(totalForce).Add(force)
			}
		}
		return totalForce
	}
	d := node.Pos.Sub(qt.Center).Magnitude()
	if d > 0 && qt.Region.Width/d < theta && !qt.Region.Contains(node.Pos) {
		if force, ok := qt.forceSimulation.repulsionForce(qt, node); ok {
			return force
		}
		return totalForce
	}
	for _, child := range qt.Children {
		vector.In(totalForce).Add(child.CalculateForce(node, theta))
	}
	return totalForce
}

// mass is used to compute repulsion force between a node and a QuadTree
func (qt *QuadTree) mass() float64 {
	return qt.TotalMass
}

func (qt *QuadTree) position() vector.Vector {
	return qt.Center
}

// adapted from https://github.com/jwhandley/graphyz/blob/main/main.go
package layout

import (
	"math"
	"math/rand"

	"github.com/quartercastle/vector"
)

type ForceSimulationConfig struct {
	Rect Rect `toml:"-"`
	// CenterStrength scales the pull of every node towards the center of
	// Rect, to keep nodes from flying away to infinity
	CenterStrength float64 `toml:"center_strength"`
	// RepulsionStrength is the numerator of the inverse-square repulsion
	// between every pair of nodes
	RepulsionStrength float64 `toml:"repulsion_strength"`
	// AttractionStrength scales the spring force along edges, which is
	// additionally multiplied by the edge strength
	AttractionStrength float64 `toml:"attraction_strength"`
	// FrameTime describes the time passed per tick of simulation, i.e. the
	// factor applied to the velocity when updating positions.
	FrameTime float64 `toml:"frame_time"`
	// VelocityDecay is the fraction of velocity lost per tick
	VelocityDecay float64 `toml:"velocity_decay"`
	// initial activity of simulation
	AlphaInit float64 `toml:"alpha_init"`
	// decay of activity per tick
	AlphaDecay float64 `toml:"alpha_decay"`
	// activity below which the layout counts as settled
	AlphaMin float64 `toml:"alpha_min"`
	// InitialSpread is the fraction of the viewport nodes are randomly
	// placed in, around the center
	InitialSpread  float64 `toml:"initial_spread"`
	MinNodeSize    float64 `toml:"min_node_size"`
	MaxNodeSize    float64 `toml:"max_node_size"`
	SizePerProject float64 `toml:"size_per_project"`
	// BarnesHut approximates repulsion using a quadtree, see Theta
	BarnesHut bool `toml:"barnes_hut"`
	// Theta defines the accuracy of the BarnesHut approximation, lower is
	// more accurate
	Theta float64 `toml:"theta"`
	// Parallelization is the number of goroutines used to compute BarnesHut
	// forces within a single tick. Values below 2 compute serially.
	Parallelization int `toml:"parallelization"`
	RandomFloat     func() float64 `toml:"-"`
}

var DefaultForceSimulationConfig = ForceSimulationConfig{
	Rect:               Rect{0.0, 0.0, 1200, 800},
	CenterStrength:     0.01,
	RepulsionStrength:  1000.0,
	AttractionStrength: 0.01,
	FrameTime:          0.5,
	VelocityDecay:      0.1,
	AlphaInit:          1.0,
	AlphaDecay:         0.02,
	AlphaMin:           0.001,
	InitialSpread:      0.8,
	MinNodeSize:        30.0,
	MaxNodeSize:        80.0,
	SizePerProject:     10.0,
	BarnesHut:          false,
	Theta:              0.75,
	Parallelization:    0,
}

// ForceSimulation holds all information needed to advance the skill galaxy
// one tick at a time.
type ForceSimulation struct {
	conf  ForceSimulationConfig
	alpha float64
}

func NewForceSimulation(conf ForceSimulationConfig) *ForceSimulation {
	fs := &ForceSimulation{}
	fs.ApplyConfig(conf)
	return fs
}

// ApplyConfig replaces zero values of conf by their defaults and resets the
// activity.
func (fs *ForceSimulation) ApplyConfig(conf ForceSimulationConfig) {
	if conf.Rect.Width == 0.0 && conf.Rect.Height == 0.0 {
		conf.Rect = DefaultForceSimulationConfig.Rect
	}
	if conf.CenterStrength == 0.0 {
		conf.CenterStrength = DefaultForceSimulationConfig.CenterStrength
	}
	if conf.RepulsionStrength == 0.0 {
		conf.RepulsionStrength = DefaultForceSimulationConfig.RepulsionStrength
	}
	if conf.AttractionStrength == 0.0 {
		conf.AttractionStrength = DefaultForceSimulationConfig.AttractionStrength
	}
	if conf.FrameTime == 0.0 {
		conf.FrameTime = DefaultForceSimulationConfig.FrameTime
	}
	if conf.VelocityDecay == 0.0 {
		conf.VelocityDecay = DefaultForceSimulationConfig.VelocityDecay
	}
	if conf.AlphaInit == 0.0 {
		conf.AlphaInit = DefaultForceSimulationConfig.AlphaInit
	}
	if conf.AlphaDecay == 0.0 {
		conf.AlphaDecay = DefaultForceSimulationConfig.AlphaDecay
	}
	if conf.AlphaMin == 0.0 {
		conf.AlphaMin = DefaultForceSimulationConfig.AlphaMin
	}
	if conf.InitialSpread == 0.0 {
		conf.InitialSpread = DefaultForceSimulationConfig.InitialSpread
	}
	if conf.MinNodeSize == 0.0 {
		conf.MinNodeSize = DefaultForceSimulationConfig.MinNodeSize
	}
	if conf.MaxNodeSize == 0.0 {
		conf.MaxNodeSize = DefaultForceSimulationConfig.MaxNodeSize
	}
	if conf.SizePerProject == 0.0 {
		conf.SizePerProject = DefaultForceSimulationConfig.SizePerProject
	}
	if conf.Theta == 0.0 {
		conf.Theta = DefaultForceSimulationConfig.Theta
	}
	if conf.RandomFloat == nil {
		conf.RandomFloat = rand.Float64
	}
	fs.conf = conf
	fs.alpha = fs.conf.AlphaInit
}

func (fs *ForceSimulation) Config() ForceSimulationConfig {
	return fs.conf
}

// SetRect changes the viewport. Node positions and velocities are left as
// they are, the next tick clamps them into the new bounds.
func (fs *ForceSimulation) SetRect(rect Rect) {
	fs.conf.Rect = rect
}

// Alpha returns the current activity of the simulation.
func (fs *ForceSimulation) Alpha() float64 {
	return fs.alpha
}

// Active reports whether the activity is still above AlphaMin.
func (fs *ForceSimulation) Active() bool {
	return fs.alpha > fs.conf.AlphaMin
}

// NodeSize maps the number of projects using a skill to a node diameter.
func (fsconf ForceSimulationConfig) NodeSize(projects int) float64 {
	return clamp(fsconf.MinNodeSize+fsconf.SizePerProject*float64(projects), fsconf.MinNodeSize, fsconf.MaxNodeSize)
}

// RandomVectorInside returns a random point within InitialSpread of the
// viewport, centered on it.
func (fsconf ForceSimulationConfig) RandomVectorInside() vector.Vector {
	if fsconf.RandomFloat == nil {
		fsconf.RandomFloat = rand.Float64
	}
	center := fsconf.Rect.Center()
	return vector.Vector{
		center.X() + (fsconf.RandomFloat()-0.5)*fsconf.Rect.Width*fsconf.InitialSpread,
		center.Y() + (fsconf.RandomFloat()-0.5)*fsconf.Rect.Height*fsconf.InitialSpread,
	}
}

// NewQuadTree returns a quadtree for Tick, or nil if BarnesHut is disabled.
// Its region is recomputed every tick to cover all nodes.
func (fs *ForceSimulation) NewQuadTree() *QuadTree {
	if !fs.conf.BarnesHut {
		return nil
	}
	return NewQuadTree(&QUADTREE_DEFAULT_CONFIG, fs, fs.conf.Rect)
}

// Tick advances the graph by one step: centering, repulsion, attraction,
// then integration with damping and bounds. It returns whether the
// simulation is still active. Callers are free to keep ticking a settled
// simulation.
func (fs *ForceSimulation) Tick(g *Graph, qt *QuadTree) bool {
	g.ApplyForce(fs, qt)
	fs.alpha *= 1 - fs.conf.AlphaDecay
	return fs.Active()
}

// repulsionForce returns the force pushing b away from a; a receives the
// negated force. ok is false for coincident nodes.
func (fs *ForceSimulation) repulsionForce(a, b Body) (vector.Vector, bool) {
	dx := b.position().X() - a.position().X()
	dy := b.position().Y() - a.position().Y()
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return nil, false
	}
	repulsion := fs.conf.RepulsionStrength * a.mass() * b.mass() / (dist * dist)
	return vector.Vector{dx / dist * repulsion, dy / dist * repulsion}, true
}

// attractionForce returns the force pulling source towards target; target
// receives the negated force. ok is false for coincident nodes.
func (fs *ForceSimulation) attractionForce(source, target *Node, strength int) (vector.Vector, bool) {
	dx := target.Pos.X() - source.Pos.X()
	dy := target.Pos.Y() - source.Pos.Y()
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return nil, false
	}
	attraction := dist * fs.conf.AttractionStrength * float64(strength)
	return vector.Vector{dx / dist * attraction, dy / dist * attraction}, true
}

// Package galaxy drives the skill galaxy view: it owns the force simulation
// while the view is shown, advances it once per frame, draws every frame onto
// a Surface and lets a pointer drag single nodes around.
package galaxy

import (
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/quartercastle/vector"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/suxatcode/skill-galaxy/internal/tracker"
	"github.com/suxatcode/skill-galaxy/layout"
	"github.com/suxatcode/skill-galaxy/render"
)

// Surface is the drawable container of the galaxy.
//
//go:generate mockgen -destination surface_mock.go -package galaxy . Surface
type Surface interface {
	// Size returns the current width and height of the viewport.
	Size() (float64, float64)
	Draw(render.Frame) error
}

type drag struct {
	node   *layout.Node
	downX  float64
	downY  float64
	origin vector.Vector
}

// Galaxy is safe for use from multiple goroutines, frame callbacks of a
// TickerScheduler run concurrently to pointer events.
type Galaxy struct {
	mu        sync.Mutex
	surface   Surface
	scheduler Scheduler
	conf      layout.ForceSimulationConfig
	logger    zerolog.Logger

	skills   []string
	projects []tracker.Project

	graph *layout.Graph
	sim   *layout.ForceSimulation
	qt    *layout.QuadTree

	active bool
	// generation is increased on every Show, frame callbacks of an older
	// generation do nothing
	generation int
	session    string
	ticks      int
	drag       *drag
}

// New returns a hidden galaxy. surface may be nil, in which case the
// simulation runs on conf.Rect and nothing is drawn.
func New(surface Surface, scheduler Scheduler, conf layout.ForceSimulationConfig) *Galaxy {
	return &Galaxy{
		surface:   surface,
		scheduler: scheduler,
		conf:      conf,
		logger:    log.With().Str("component", "galaxy").Logger(),
		skills:    []string{},
		projects:  []tracker.Project{},
	}
}

// Show rebuilds the galaxy from the last known snapshot and starts the
// animation loop.
func (g *Galaxy) Show() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.show()
}

// ShowSnapshot replaces the snapshot, then behaves like Show.
func (g *Galaxy) ShowSnapshot(skills []string, projects []tracker.Project) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setSnapshot(skills, projects)
	g.show()
}

// Update replaces the snapshot. A shown galaxy is rebuilt right away and keeps
// animating, a hidden one picks the snapshot up on the next Show.
func (g *Galaxy) Update(skills []string, projects []tracker.Project) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setSnapshot(skills, projects)
	if g.active {
		g.rebuild()
	}
}

// Hide stops the animation loop. A drag in progress is dropped.
func (g *Galaxy) Hide() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.active {
		return
	}
	g.active = false
	g.releaseDrag()
	g.logger.Debug().Str("session", g.session).Int("ticks", g.ticks).Msg("galaxy hidden")
}

// Resize re-reads the surface size and redraws at once. Positions and
// velocities are kept, the next tick pulls nodes into the new bounds.
func (g *Galaxy) Resize() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sim == nil || g.surface == nil {
		return
	}
	g.sim.SetRect(g.viewport())
	if g.active {
		g.draw()
	}
}

func (g *Galaxy) setSnapshot(skills []string, projects []tracker.Project) {
	if skills == nil {
		skills = []string{}
	}
	if projects == nil {
		projects = []tracker.Project{}
	}
	g.skills, g.projects = skills, projects
}

func (g *Galaxy) show() {
	g.rebuild()
	g.active = true
	g.generation++
	g.scheduler.RequestFrame(g.frame(g.generation))
}

func (g *Galaxy) viewport() layout.Rect {
	if g.surface == nil {
		return g.conf.Rect
	}
	width, height := g.surface.Size()
	return layout.Rect{X: 0, Y: 0, Width: width, Height: height}
}

func (g *Galaxy) rebuild() {
	g.releaseDrag()
	conf := g.conf
	conf.Rect = g.viewport()
	g.sim = layout.NewForceSimulation(conf)
	g.qt = g.sim.NewQuadTree()
	g.graph = layout.NewGraph(g.skills, g.projects, g.sim)
	g.session = uuid.NewString()
	g.ticks = 0
	g.logger.Info().
		Str("session", g.session).
		Int("nodes", len(g.graph.Nodes)).
		Int("edges", len(g.graph.Edges)).
		Msg("galaxy built")
}

func (g *Galaxy) frame(generation int) func() {
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if !g.active || generation != g.generation {
			return
		}
		g.tick()
		g.draw()
		g.scheduler.RequestFrame(g.frame(generation))
	}
}

// tick keeps going after the simulation settled, the galaxy never stops
// moving while it is shown.
func (g *Galaxy) tick() {
	wasActive := g.sim.Active()
	g.sim.Tick(g.graph, g.qt)
	g.ticks++
	if wasActive && !g.sim.Active() {
		g.logger.Debug().Str("session", g.session).Int("ticks", g.ticks).Msg("galaxy settled")
	}
}

func (g *Galaxy) draw() {
	if g.surface == nil {
		return
	}
	rect := g.sim.Config().Rect
	frame := render.NewFrame(g.graph, rect.Width, rect.Height)
	frame.Session = g.session
	frame.Tick = g.ticks
	frame.Active = g.sim.Active()
	if err := g.surface.Draw(frame); err != nil {
		g.logger.Error().Err(err).Str("session", g.session).Int("tick", g.ticks).Msg("failed to draw frame")
	}
}

// PointerDown starts dragging the topmost node under (x, y) and reports
// whether there was one. The node stops moving on its own until PointerUp.
func (g *Galaxy) PointerDown(x, y float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.active {
		return false
	}
	g.releaseDrag()
	node := g.nodeAt(x, y)
	if node == nil {
		return false
	}
	node.Pinned = true
	node.Vel = vector.Vector{0, 0}
	g.drag = &drag{node: node, downX: x, downY: y, origin: append(vector.Vector{}, node.Pos...)}
	return true
}

// PointerMove places the dragged node at its origin plus the pointer delta
// since PointerDown.
func (g *Galaxy) PointerMove(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.drag == nil {
		return
	}
	g.drag.node.Pos = vector.Vector{
		g.drag.origin.X() + x - g.drag.downX,
		g.drag.origin.Y() + y - g.drag.downY,
	}
	g.drag.node.Vel = vector.Vector{0, 0}
}

// PointerUp hands the dragged node back to the simulation.
func (g *Galaxy) PointerUp() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releaseDrag()
}

func (g *Galaxy) releaseDrag() {
	if g.drag == nil {
		return
	}
	g.drag.node.Pinned = false
	g.drag = nil
}

// NodeAt returns the id of the topmost node covering (x, y).
func (g *Galaxy) NodeAt(x, y float64) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	node := g.nodeAt(x, y)
	if node == nil {
		return "", false
	}
	return node.ID, true
}

// nodes are drawn in order, so the last hit is on top
func (g *Galaxy) nodeAt(x, y float64) *layout.Node {
	if g.graph == nil {
		return nil
	}
	for i := len(g.graph.Nodes) - 1; i >= 0; i-- {
		node := g.graph.Nodes[i]
		if math.Hypot(x-node.Pos.X(), y-node.Pos.Y()) <= node.Size/2 {
			return node
		}
	}
	return nil
}

// Node returns a copy of the node with the given skill id.
func (g *Galaxy) Node(id string) (layout.Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.graph == nil {
		return layout.Node{}, false
	}
	node := g.graph.Node(id)
	if node == nil {
		return layout.Node{}, false
	}
	cp := *node
	cp.Pos = append(vector.Vector{}, node.Pos...)
	cp.Vel = append(vector.Vector{}, node.Vel...)
	return cp, true
}

// Edge returns the strength of the edge between two skills, or 0.
func (g *Galaxy) Edge(a, b string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.graph == nil {
		return 0
	}
	if edge := g.graph.Edge(a, b); edge != nil {
		return edge.Strength
	}
	return 0
}

// Active reports whether the galaxy is shown.
func (g *Galaxy) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Settled reports whether the simulation activity dropped below its minimum.
// The galaxy keeps animating regardless.
func (g *Galaxy) Settled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sim != nil && !g.sim.Active()
}

func (g *Galaxy) Alpha() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sim == nil {
		return 0
	}
	return g.sim.Alpha()
}

// Session returns the id of the current build, empty before the first Show.
func (g *Galaxy) Session() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Ticks returns the number of ticks since the last build.
func (g *Galaxy) Ticks() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ticks
}

// Len returns the number of nodes and edges of the current build.
func (g *Galaxy) Len() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.graph == nil {
		return 0, 0
	}
	return len(g.graph.Nodes), len(g.graph.Edges)
}

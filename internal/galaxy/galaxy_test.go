package galaxy

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/quartercastle/vector"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/skill-galaxy/internal/tracker"
	"github.com/suxatcode/skill-galaxy/layout"
	"github.com/suxatcode/skill-galaxy/render"
	"go.uber.org/goleak"
)

var (
	testSkills   = []string{"go", "sql", "docker", "painting"}
	testProjects = []tracker.Project{
		{ID: "1", Title: "backend", Skills: []string{"go", "sql"}},
		{ID: "2", Title: "deploy", Skills: []string{"go", "sql", "docker"}},
		{ID: "3", Title: "art", Skills: []string{"painting", "unknown"}},
	}
)

func testConfig(seed int64) layout.ForceSimulationConfig {
	return layout.ForceSimulationConfig{RandomFloat: rand.New(rand.NewSource(seed)).Float64}
}

func TestGalaxy_ShowSnapshot(t *testing.T) {
	sched := NewManualScheduler()
	canvas := render.NewCanvas(1200, 800)
	g := New(canvas, sched, testConfig(1))
	assert := assert.New(t)
	assert.False(g.Active())
	assert.Empty(g.Session())
	g.ShowSnapshot(testSkills, testProjects)
	assert.True(g.Active())
	assert.NotEmpty(g.Session())
	assert.Equal(1, sched.Pending())
	assert.Equal(0, canvas.Frames(), "first frame is drawn by the scheduler")
	nodes, edges := g.Len()
	assert.Equal(4, nodes)
	assert.Equal(3, edges)
	assert.Equal(2, g.Edge("go", "sql"))
	assert.Equal(2, g.Edge("sql", "go"))
	assert.Equal(1, g.Edge("docker", "go"))
	assert.Equal(0, g.Edge("painting", "go"))
	node, ok := g.Node("go")
	assert.True(ok)
	assert.Equal(50.0, node.Size)
	assert.Equal(2, node.Projects)

	sched.Run(3)
	assert.Equal(3, g.Ticks())
	assert.Equal(3, canvas.Frames())
	frame, ok := canvas.Last()
	assert.True(ok)
	assert.Equal(g.Session(), frame.Session)
	assert.Equal(3, frame.Tick)
	assert.Equal(1200.0, frame.Width)
	assert.Len(frame.Nodes, 4)
	assert.Len(frame.Edges, 3)
}

func TestGalaxy_Hide(t *testing.T) {
	sched := NewManualScheduler()
	canvas := render.NewCanvas(1200, 800)
	g := New(canvas, sched, testConfig(1))
	g.ShowSnapshot(testSkills, testProjects)
	sched.Run(2)
	g.Hide()
	assert := assert.New(t)
	assert.False(g.Active())
	assert.Equal(1, sched.Pending(), "the frame already requested still fires")
	assert.Equal(1, sched.Step())
	assert.Equal(0, sched.Pending(), "an inactive frame does not reschedule")
	assert.Equal(2, g.Ticks())
	assert.Equal(2, canvas.Frames())
	g.Hide()
}

func TestGalaxy_Show_staleFrames(t *testing.T) {
	sched := NewManualScheduler()
	g := New(render.NewCanvas(1200, 800), sched, testConfig(1))
	g.ShowSnapshot(testSkills, testProjects)
	first := g.Session()
	g.Hide()
	g.Show()
	assert := assert.New(t)
	assert.NotEqual(first, g.Session(), "every show rebuilds")
	assert.Equal(2, sched.Pending())
	sched.Step()
	assert.Equal(1, g.Ticks(), "only the frame of the current show ticks")
	assert.Equal(1, sched.Pending())
	g.Show()
	sched.Step()
	assert.Equal(1, g.Ticks(), "show without hide restarts the loop once")
	assert.Equal(1, sched.Pending())
}

func TestGalaxy_alwaysAnimates(t *testing.T) {
	sched := NewManualScheduler()
	g := New(render.NewCanvas(1200, 800), sched, testConfig(1))
	g.ShowSnapshot(testSkills, testProjects)
	assert := assert.New(t)
	assert.False(g.Settled())
	sched.Run(400)
	assert.True(g.Settled())
	assert.Less(g.Alpha(), 0.001)
	assert.Equal(1, sched.Pending(), "still animating after settling")
	sched.Step()
	assert.Equal(401, g.Ticks())
}

func TestGalaxy_Drag(t *testing.T) {
	sched := NewManualScheduler()
	g := New(render.NewCanvas(1200, 800), sched, testConfig(2))
	g.ShowSnapshot(testSkills, testProjects)
	sched.Run(10)
	assert := assert.New(t)
	before, _ := g.Node("go")
	downX, downY := before.Pos.X()+3, before.Pos.Y()-2
	id, ok := g.NodeAt(downX, downY)
	assert.True(ok)
	start, _ := g.Node(id)

	assert.True(g.PointerDown(downX, downY))
	dragged, _ := g.Node(id)
	assert.True(dragged.Pinned)
	assert.Equal(vector.Vector{0, 0}, dragged.Vel, "velocity is reset on drag start")
	assert.Equal(start.Pos, dragged.Pos)

	// drag towards the center to stay clear of the borders
	dx, dy := 50.0, 40.0
	if start.Pos.X() > 600 {
		dx = -dx
	}
	if start.Pos.Y() > 400 {
		dy = -dy
	}
	g.PointerMove(downX+dx/2, downY-dy)
	g.PointerMove(downX+dx, downY+dy)
	dragged, _ = g.Node(id)
	assert.InDelta(start.Pos.X()+dx, dragged.Pos.X(), 1e-9)
	assert.InDelta(start.Pos.Y()+dy, dragged.Pos.Y(), 1e-9)

	sched.Step()
	held, _ := g.Node(id)
	assert.Equal(dragged.Pos, held.Pos, "the simulation does not move a dragged node")
	assert.Equal(vector.Vector{0, 0}, held.Vel)

	g.PointerUp()
	released, _ := g.Node(id)
	assert.False(released.Pinned)
	sched.Step()
	moved, _ := g.Node(id)
	assert.NotEqual(vector.Vector{0, 0}, moved.Vel, "physics resumes after release")
	assert.NotEqual(held.Pos, moved.Pos)

	g.PointerMove(0, 0)
	after, _ := g.Node(id)
	assert.Equal(moved.Pos, after.Pos, "moves without a drag are ignored")
}

func TestGalaxy_PointerDown(t *testing.T) {
	sched := NewManualScheduler()
	g := New(render.NewCanvas(1200, 800), sched, testConfig(3))
	assert := assert.New(t)
	assert.False(g.PointerDown(600, 400), "hidden galaxy")
	g.ShowSnapshot(testSkills, testProjects)
	assert.False(g.PointerDown(-100, -100), "nothing there")
	node, _ := g.Node("painting")
	assert.True(g.PointerDown(node.Pos.X(), node.Pos.Y()))
	g.Hide()
	for _, id := range testSkills {
		n, _ := g.Node(id)
		assert.False(n.Pinned, "hide drops the drag")
	}
}

func TestGalaxy_NodeAt_topmost(t *testing.T) {
	g := New(nil, NewManualScheduler(), testConfig(1))
	g.ShowSnapshot([]string{"a", "b"}, nil)
	g.graph.Nodes[0].Pos = vector.Vector{100, 100}
	g.graph.Nodes[1].Pos = vector.Vector{110, 100}
	assert := assert.New(t)
	id, ok := g.NodeAt(105, 100)
	assert.True(ok)
	assert.Equal("b", id, "later nodes are drawn on top")
	id, _ = g.NodeAt(88, 100)
	assert.Equal("a", id)
	_, ok = g.NodeAt(200, 200)
	assert.False(ok)
}

func TestGalaxy_Resize(t *testing.T) {
	sched := NewManualScheduler()
	canvas := render.NewCanvas(1200, 800)
	g := New(canvas, sched, testConfig(1))
	g.ShowSnapshot(testSkills, testProjects)
	sched.Run(3)
	before, _ := g.Node("go")
	canvas.Resize(400, 300)
	g.Resize()
	assert := assert.New(t)
	assert.Equal(4, canvas.Frames(), "resize redraws at once")
	assert.Equal(3, g.Ticks(), "resize does not tick")
	after, _ := g.Node("go")
	assert.Equal(before.Pos, after.Pos)
	assert.Equal(before.Vel, after.Vel)
	frame, _ := canvas.Last()
	assert.Equal(400.0, frame.Width)
	assert.Equal(300.0, frame.Height)
	sched.Step()
	for _, id := range testSkills {
		n, _ := g.Node(id)
		assert.LessOrEqual(n.Pos.X(), 400-n.Size/2)
		assert.LessOrEqual(n.Pos.Y(), 300-n.Size/2)
	}
}

func TestGalaxy_Update(t *testing.T) {
	sched := NewManualScheduler()
	g := New(render.NewCanvas(1200, 800), sched, testConfig(1))
	g.Update(testSkills, testProjects)
	assert := assert.New(t)
	assert.Empty(g.Session(), "hidden galaxy is not built")
	g.Show()
	session := g.Session()
	nodes, _ := g.Len()
	assert.Equal(4, nodes)
	g.Update([]string{"go"}, nil)
	assert.NotEqual(session, g.Session())
	nodes, edges := g.Len()
	assert.Equal(1, nodes)
	assert.Equal(0, edges)
	assert.Equal(1, sched.Pending(), "the running loop continues")
	sched.Step()
	assert.Equal(1, g.Ticks())
}

func TestGalaxy_nilSurface(t *testing.T) {
	sched := NewManualScheduler()
	g := New(nil, sched, layout.ForceSimulationConfig{})
	g.ShowSnapshot(nil, nil)
	sched.Run(5)
	g.Resize()
	assert := assert.New(t)
	assert.Equal(5, g.Ticks())
	nodes, edges := g.Len()
	assert.Equal(0, nodes)
	assert.Equal(0, edges)
	assert.False(g.PointerDown(600, 400))
}

func TestGalaxy_drawError(t *testing.T) {
	buf := bytes.Buffer{}
	logger := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = logger }()

	ctrl := gomock.NewController(t)
	surface := NewMockSurface(ctrl)
	surface.EXPECT().Size().Return(600.0, 400.0).AnyTimes()
	frames := []render.Frame{}
	surface.EXPECT().Draw(gomock.Any()).DoAndReturn(func(frame render.Frame) error {
		frames = append(frames, frame)
		return errors.New("surface gone")
	}).Times(2)
	sched := NewManualScheduler()
	g := New(surface, sched, testConfig(1))
	g.ShowSnapshot(testSkills, testProjects)
	sched.Run(2)
	assert := assert.New(t)
	assert.Equal(1, sched.Pending(), "draw errors do not stop the loop")
	assert.Len(frames, 2)
	assert.Equal(600.0, frames[0].Width)
	assert.Equal(1, frames[0].Tick)
	assert.Equal(2, frames[1].Tick)
	assert.Contains(buf.String(), "failed to draw frame")
	assert.Contains(buf.String(), "surface gone")
	assert.Contains(buf.String(), `"component":"galaxy"`)
}

func TestGalaxy_tickerScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)
	sched := NewTickerScheduler(time.Millisecond)
	canvas := render.NewCanvas(800, 600)
	g := New(canvas, sched, testConfig(1))
	g.ShowSnapshot(testSkills, testProjects)
	assert := assert.New(t)
	assert.Eventually(func() bool { return g.Ticks() >= 5 }, 5*time.Second, time.Millisecond)
	node, _ := g.Node("docker")
	g.PointerDown(node.Pos.X(), node.Pos.Y())
	g.PointerMove(node.Pos.X()+1, node.Pos.Y())
	g.PointerUp()
	g.Hide()
	sched.Stop()
	assert.GreaterOrEqual(canvas.Frames(), 5)
}

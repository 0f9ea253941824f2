// Package render turns the state of a skill galaxy into drawable frames and
// encodes them as SVG, PNG or JSON.
package render

import (
	"math"

	"github.com/suxatcode/skill-galaxy/layout"
)

// EdgeSprite is a line anchored at the source node, rotated by Angle degrees.
type EdgeSprite struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Length    float64 `json:"length"`
	Angle     float64 `json:"angle"`
	Thickness float64 `json:"thickness"`
	Opacity   float64 `json:"opacity"`
}

// NodeSprite is a circle of Diameter with its bounding box at Left/Top.
type NodeSprite struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Diameter float64 `json:"diameter"`
	FontSize float64 `json:"fontSize"`
}

// Center returns the center of the node circle.
func (n NodeSprite) Center() (float64, float64) {
	return n.Left + n.Diameter/2, n.Top + n.Diameter/2
}

// Frame holds everything needed to draw one animation frame. Edges are drawn
// before nodes.
type Frame struct {
	Session string       `json:"session"`
	Tick    int          `json:"tick"`
	Active  bool         `json:"active"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Edges   []EdgeSprite `json:"edges"`
	Nodes   []NodeSprite `json:"nodes"`
}

// NewFrame maps the current node positions of g to sprites.
func NewFrame(g *layout.Graph, width, height float64) Frame {
	frame := Frame{Width: width, Height: height, Edges: []EdgeSprite{}, Nodes: []NodeSprite{}}
	if g == nil {
		return frame
	}
	for _, edge := range g.Edges {
		if edge.Source < 0 || edge.Source >= len(g.Nodes) || edge.Target < 0 || edge.Target >= len(g.Nodes) {
			continue
		}
		frame.Edges = append(frame.Edges, NewEdgeSprite(g.Nodes[edge.Source], g.Nodes[edge.Target], edge.Strength))
	}
	for _, node := range g.Nodes {
		frame.Nodes = append(frame.Nodes, NewNodeSprite(node))
	}
	return frame
}

func NewEdgeSprite(source, target *layout.Node, strength int) EdgeSprite {
	dx := target.Pos.X() - source.Pos.X()
	dy := target.Pos.Y() - source.Pos.Y()
	return EdgeSprite{
		Source:    source.ID,
		Target:    target.ID,
		X:         source.Pos.X(),
		Y:         source.Pos.Y(),
		Length:    math.Sqrt(dx*dx + dy*dy),
		Angle:     math.Atan2(dy, dx) * 180 / math.Pi,
		Thickness: math.Max(1, float64(strength)),
		Opacity:   math.Min(0.8, 0.2+float64(strength)*0.1),
	}
}

func NewNodeSprite(node *layout.Node) NodeSprite {
	return NodeSprite{
		ID:       node.ID,
		Label:    node.Label,
		Left:     node.Pos.X() - node.Size/2,
		Top:      node.Pos.Y() - node.Size/2,
		Diameter: node.Size,
		FontSize: math.Max(10, node.Size/5),
	}
}

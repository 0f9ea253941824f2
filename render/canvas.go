package render

import (
	"io"
	"sync"
)

// Canvas is an offscreen drawing surface of a fixed size. It keeps the most
// recent frame, which can be encoded afterwards.
type Canvas struct {
	mu     sync.Mutex
	width  float64
	height float64
	last   *Frame
	frames int
}

func NewCanvas(width, height float64) *Canvas {
	return &Canvas{width: width, height: height}
}

func (c *Canvas) Size() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Resize changes the size reported to the galaxy. It does not redraw.
func (c *Canvas) Resize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
}

func (c *Canvas) Draw(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = &frame
	c.frames++
	return nil
}

// Last returns the most recently drawn frame, or false if nothing was drawn.
func (c *Canvas) Last() (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Frame{}, false
	}
	return *c.last, true
}

// Frames returns the number of frames drawn.
func (c *Canvas) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Encode writes the most recent frame using enc. An empty frame of the
// canvas size is written if nothing was drawn yet.
func (c *Canvas) Encode(w io.Writer, enc Encoder) error {
	frame, ok := c.Last()
	if !ok {
		width, height := c.Size()
		frame = Frame{Width: width, Height: height}
	}
	return enc.Encode(w, frame)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/skill-galaxy/internal/app"
	"github.com/suxatcode/skill-galaxy/render"
)

const testExport = `{
  "projects": [
    {"id": "1", "title": "backend", "skills": ["go", "sql"]},
    {"id": "2", "title": "deploy", "skills": ["go", "sql", "docker"]},
    {"id": "3", "title": "art", "skills": ["painting"]}
  ],
  "skills": ["go", "sql", "docker", "painting"],
  "resources": [],
  "exportDate": "2024-05-01T10:00:00.000Z"
}`

func testOptions() options {
	return options{Input: "-", Output: "-", Format: "json", Width: 800, Height: 600, Seed: 1}
}

func TestRun(t *testing.T) {
	for _, test := range []struct {
		Name      string
		Options   func(o *options)
		Input     string
		ExpErr    string
		Assertion func(t *testing.T, frame render.Frame)
	}{
		{
			Name:    "until settled",
			Options: func(o *options) {},
			Input:   testExport,
			Assertion: func(t *testing.T, frame render.Frame) {
				assert := assert.New(t)
				assert.Equal(342, frame.Tick, "0.98^342 is the first activity below 0.001")
				assert.False(frame.Active)
				assert.Len(frame.Nodes, 4)
				assert.Len(frame.Edges, 3)
				assert.Equal(800.0, frame.Width)
				for _, node := range frame.Nodes {
					assert.GreaterOrEqual(node.Left, 0.0)
					assert.LessOrEqual(node.Left+node.Diameter, 800.0)
					assert.GreaterOrEqual(node.Top, 0.0)
					assert.LessOrEqual(node.Top+node.Diameter, 600.0)
				}
			},
		},
		{
			Name:    "fixed number of frames",
			Options: func(o *options) { o.Frames = 7 },
			Input:   testExport,
			Assertion: func(t *testing.T, frame render.Frame) {
				assert.Equal(t, 7, frame.Tick)
				assert.True(t, frame.Active)
			},
		},
		{
			Name:    "single project",
			Options: func(o *options) { o.Project = "1"; o.Frames = 1 },
			Input:   testExport,
			Assertion: func(t *testing.T, frame render.Frame) {
				assert.Len(t, frame.Nodes, 4)
				assert.Len(t, frame.Edges, 1)
			},
		},
		{
			Name:    "unknown project",
			Options: func(o *options) { o.Project = "42" },
			Input:   testExport,
			ExpErr:  "project '42' does not exist",
		},
		{
			Name:    "export without projects",
			Options: func(o *options) {},
			Input:   `{"skills": ["go"]}`,
			ExpErr:  "missing projects array",
		},
		{
			Name:    "huge viewport",
			Options: func(o *options) { o.Format = "png"; o.Width = 1e7; o.Height = 1e7 },
			Input:   testExport,
			ExpErr:  "out of range",
		},
		{
			Name:    "negative viewport",
			Options: func(o *options) { o.Height = -1 },
			Input:   testExport,
			ExpErr:  "out of range",
		},
		{
			Name:    "unknown format",
			Options: func(o *options) { o.Format = "bmp" },
			Input:   testExport,
			ExpErr:  "unsupported output format",
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			opts := testOptions()
			test.Options(&opts)
			out := bytes.Buffer{}
			err := run(opts, strings.NewReader(test.Input), &out)
			if test.ExpErr != "" {
				assert.ErrorContains(t, err, test.ExpErr)
				return
			}
			assert.NoError(t, err)
			frame := render.Frame{}
			assert.NoError(t, json.Unmarshal(out.Bytes(), &frame))
			test.Assertion(t, frame)
		})
	}
}

func TestRun_files(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.json")
	physics := filepath.Join(dir, "physics.toml")
	output := filepath.Join(dir, "galaxy.svg")
	assert := assert.New(t)
	assert.NoError(os.WriteFile(input, []byte(testExport), 0o644))
	assert.NoError(os.WriteFile(physics, []byte("alpha_decay = 0.5\nbarnes_hut = true\n"), 0o644))
	opts := testOptions()
	opts.Input, opts.Output, opts.Physics, opts.Format = input, output, physics, "svg"
	assert.NoError(run(opts, nil, nil))
	svg, err := os.ReadFile(output)
	assert.NoError(err)
	assert.True(strings.HasPrefix(string(svg), "<svg"))
	assert.Equal(4, strings.Count(string(svg), "<circle"))
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd(app.Config{Width: 300, Height: 200, Format: "json", Frames: 2})
	out := bytes.Buffer{}
	cmd.SetIn(strings.NewReader(testExport))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--seed", "3", "--width", "500"})
	assert := assert.New(t)
	assert.NoError(cmd.Execute())
	frame := render.Frame{}
	assert.NoError(json.Unmarshal(out.Bytes(), &frame))
	assert.Equal(500.0, frame.Width, "flags override the environment")
	assert.Equal(200.0, frame.Height)
	assert.Equal(2, frame.Tick)
}

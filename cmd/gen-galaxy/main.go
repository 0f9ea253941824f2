/*
 * gen-galaxy builds the skill galaxy of a project tracker export, runs the
 * force simulation for a number of frames and writes the last frame as svg,
 * png or json.
 */
package main

import (
	"io"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/suxatcode/skill-galaxy/internal/app"
	"github.com/suxatcode/skill-galaxy/internal/controller"
	"github.com/suxatcode/skill-galaxy/internal/galaxy"
	"github.com/suxatcode/skill-galaxy/internal/tracker"
	"github.com/suxatcode/skill-galaxy/layout"
	"github.com/suxatcode/skill-galaxy/render"
)

// upper bound of frames when rendering until the layout settled
const maxFrames = 100000

type options struct {
	Input   string
	Output  string
	Project string
	Frames  int
	Format  string
	Physics string
	Width   float64
	Height  float64
	Seed    int64
}

func newRootCmd(conf app.Config) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "gen-galaxy",
		Short: "Render the skill galaxy of a project tracker export",
		Long: "gen-galaxy reads a project tracker export (JSON), lays out its skills\n" +
			"with the skill galaxy force simulation and writes the final frame.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.Input, "input", "i", "-", "tracker export to read, - for stdin")
	flags.StringVarP(&opts.Output, "out", "o", "-", "file to write the frame to, - for stdout")
	flags.StringVarP(&opts.Project, "project", "p", "", "only connect skills of the project with this id")
	flags.IntVarP(&opts.Frames, "frames", "n", conf.Frames, "frames to simulate, 0 simulates until the layout settled")
	flags.StringVarP(&opts.Format, "format", "f", conf.Format, "output format: svg, png or json")
	flags.StringVar(&opts.Physics, "physics", conf.Physics, "TOML file overriding simulation constants, omitted keys keep their defaults")
	flags.Float64Var(&opts.Width, "width", conf.Width, "viewport width")
	flags.Float64Var(&opts.Height, "height", conf.Height, "viewport height")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for initial positions, 0 for a random layout")
	return cmd
}

func run(opts options, stdin io.Reader, stdout io.Writer) error {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width > render.MaxRasterSize || opts.Height > render.MaxRasterSize {
		return errors.Errorf("viewport %gx%g out of range, width and height must be in (0, %d]", opts.Width, opts.Height, render.MaxRasterSize)
	}
	enc, err := render.GetEncoder(opts.Format)
	if err != nil {
		return err
	}
	physics := layout.ForceSimulationConfig{}
	if opts.Physics != "" {
		if physics, err = app.LoadPhysics(opts.Physics); err != nil {
			return err
		}
	}
	if opts.Seed != 0 {
		physics.RandomFloat = rand.New(rand.NewSource(opts.Seed)).Float64
	}
	snapshot, err := readSnapshot(opts.Input, stdin)
	if err != nil {
		return err
	}

	canvas := render.NewCanvas(opts.Width, opts.Height)
	sched := galaxy.NewManualScheduler()
	g := galaxy.New(canvas, sched, physics)
	ctrl := controller.NewController(g, snapshot)
	if opts.Project != "" {
		if err := ctrl.ViewProjectSkills(opts.Project); err != nil {
			return err
		}
	} else {
		ctrl.ShowGalaxy()
	}
	if opts.Frames > 0 {
		sched.Run(opts.Frames)
	} else {
		for !g.Settled() && g.Ticks() < maxFrames && sched.Step() > 0 {
		}
	}
	ctrl.HideGalaxy()
	nodes, edges := g.Len()
	log.Info().
		Str("session", g.Session()).
		Int("nodes", nodes).
		Int("edges", edges).
		Int("ticks", g.Ticks()).
		Float64("alpha", g.Alpha()).
		Msg("layout done")

	if opts.Output == "-" {
		return canvas.Encode(stdout, enc)
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return errors.Wrapf(err, "failed to create '%s'", opts.Output)
	}
	if err := canvas.Encode(f, enc); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close '%s'", opts.Output)
}

func readSnapshot(path string, stdin io.Reader) (*tracker.Snapshot, error) {
	if path == "-" {
		return tracker.Decode(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open '%s'", path)
	}
	defer f.Close()
	return tracker.Decode(f)
}

func main() {
	conf := app.GetEnvConfig()
	app.SetupLogging(conf)
	if err := newRootCmd(conf).Execute(); err != nil {
		log.Error().Err(err).Msg("gen-galaxy failed")
		os.Exit(1)
	}
}

package controller

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/suxatcode/skill-galaxy/internal/tracker"
)

// Galaxy is the view the controller keeps in sync with the tracker data.
//
//go:generate mockgen -destination galaxy_mock.go -package controller . Galaxy
type Galaxy interface {
	// ShowSnapshot rebuilds the view from scratch and starts animating.
	ShowSnapshot(skills []string, projects []tracker.Project)
	// Update hands new data to the view, which rebuilds only if shown.
	Update(skills []string, projects []tracker.Project)
	Hide()
}

// Controller owns the current tracker snapshot and forwards changes to the
// galaxy, replacing the document wide events of the tracker UI.
type Controller struct {
	mu       sync.Mutex
	galaxy   Galaxy
	snapshot tracker.Snapshot
	// focus is the id of the project the galaxy is limited to, or empty
	focus string
}

func NewController(galaxy Galaxy, snapshot *tracker.Snapshot) *Controller {
	c := &Controller{galaxy: galaxy}
	if snapshot != nil {
		c.snapshot = *snapshot
	}
	return c
}

func (c *Controller) Snapshot() tracker.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Focus returns the project the galaxy is limited to, empty for all projects.
func (c *Controller) Focus() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus
}

// SnapshotUpdated replaces the whole snapshot, e.g. after an import.
func (c *Controller) SnapshotUpdated(s tracker.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = s
	c.update()
}

// ProjectsUpdated replaces the projects only, e.g. after one was edited.
func (c *Controller) ProjectsUpdated(projects []tracker.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Projects = projects
	c.update()
}

func (c *Controller) update() {
	if c.focus != "" && c.snapshot.Project(c.focus) == nil {
		log.Debug().Str("component", "controller").Msgf("project '%s' is gone, showing all projects", c.focus)
		c.focus = ""
	}
	skills, projects := c.view()
	c.galaxy.Update(skills, projects)
}

func (c *Controller) view() ([]string, []tracker.Project) {
	if c.focus == "" {
		return c.snapshot.Skills, c.snapshot.Projects
	}
	return c.snapshot.Skills, []tracker.Project{*c.snapshot.Project(c.focus)}
}

// ShowGalaxy shows all skills and projects.
func (c *Controller) ShowGalaxy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focus = ""
	c.galaxy.ShowSnapshot(c.view())
}

// ViewProjectSkills shows all skills, connected only by the given project.
func (c *Controller) ViewProjectSkills(projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot.Project(projectID) == nil {
		return errors.Errorf("project '%s' does not exist", projectID)
	}
	c.focus = projectID
	c.galaxy.ShowSnapshot(c.view())
	return nil
}

func (c *Controller) HideGalaxy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.galaxy.Hide()
}

// Watch applies snapshots from updates until ctx is done or updates is
// closed.
func (c *Controller) Watch(ctx context.Context, updates <-chan tracker.Snapshot) error {
	logger := log.With().Str("component", "controller").Logger()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-updates:
			if !ok {
				return nil
			}
			logger.Debug().Msgf("snapshot update: %d projects, %d skills", len(s.Projects), len(s.Skills))
			c.SnapshotUpdated(s)
		}
	}
}

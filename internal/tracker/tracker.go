// Package tracker holds the project tracker records the skill galaxy is built
// from, and reads them from the tracker's JSON export format.
package tracker

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	EnergyLevel string   `json:"energyLevel,omitempty"`
	Skills      []string `json:"skills"`
}

// UsesSkill reports whether skill is part of the project's skill list.
func (p Project) UsesSkill(skill string) bool {
	return Contains(p.Skills, skill, identity[string])
}

// Snapshot is the full tracker state as written by the export button.
// Resources, inspirations and roadblocks are carried along untouched.
type Snapshot struct {
	Projects     []Project         `json:"projects"`
	Skills       []string          `json:"skills"`
	Resources    []json.RawMessage `json:"resources,omitempty"`
	Inspirations []json.RawMessage `json:"inspirations,omitempty"`
	Roadblocks   []json.RawMessage `json:"roadblocks,omitempty"`
	ExportDate   string            `json:"exportDate,omitempty"`
}

var ErrNoProjects = errors.New("invalid data structure: missing projects array")

// Decode reads an exported snapshot. A snapshot without a projects array is
// rejected, everything else is optional.
func Decode(r io.Reader) (*Snapshot, error) {
	raw := struct {
		Snapshot
		Projects *[]Project `json:"projects"`
	}{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse tracker export")
	}
	if raw.Projects == nil {
		return nil, ErrNoProjects
	}
	s := raw.Snapshot
	s.Projects = *raw.Projects
	if s.Skills == nil {
		s.Skills = []string{}
	}
	return &s, nil
}

// Encode writes the snapshot in export format.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(s), "failed to write tracker export")
}

// Project returns the project with the given id, or nil.
func (s *Snapshot) Project(id string) *Project {
	return FindFirst(s.Projects, func(p Project) bool { return p.ID == id })
}

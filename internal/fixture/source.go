package fixture

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed samples/*.json
var samples embed.FS

// LargeName is the fixture served by the generator instead of a file.
const LargeName = "gantt-large"

// DefaultLargeSeed and DefaultLargeCampaigns size the generated dataset.
const (
	DefaultLargeSeed      = 2024
	DefaultLargeCampaigns = 40
)

// ErrNotFound is returned when no fixture exists under a name.
var ErrNotFound = errors.New("fixture not found")

// Source supplies raw fixture JSON by name ("gantt", "scheduler", ...).
type Source interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// EmbeddedSource serves the bundled sample fixtures. Seed and Campaigns
// size the generated large fixture; zero values use the defaults.
type EmbeddedSource struct {
	Seed      int64
	Campaigns int
}

func (s EmbeddedSource) Open(_ context.Context, name string) ([]byte, error) {
	if name == LargeName {
		seed, campaigns := s.Seed, s.Campaigns
		if seed == 0 {
			seed = DefaultLargeSeed
		}
		if campaigns <= 0 {
			campaigns = DefaultLargeCampaigns
		}
		return json.Marshal(GenerateLarge(seed, campaigns))
	}
	data, err := samples.ReadFile("samples/" + name + ".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("reading embedded fixture %s: %w", name, err)
	}
	return data, nil
}

// DirSource reads <Dir>/<name>.json and falls back to Fallback when the file
// does not exist.
type DirSource struct {
	Dir      string
	Fallback Source
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir, Fallback: EmbeddedSource{}}
}

// Path returns the file a fixture name maps to.
func (s *DirSource) Path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func (s *DirSource) Open(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) && s.Fallback != nil {
		return s.Fallback.Open(ctx, name)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil, fmt.Errorf("reading fixture %s: %w", name, err)
}

// ParseGantt decodes a campaign tree fixture.
func ParseGantt(data []byte) (*GanttFixture, error) {
	var f GanttFixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing gantt fixture: %w", err)
	}
	return &f, nil
}

// ParseSchedule decodes an equipment/staff fixture.
func ParseSchedule(data []byte) (*Schedule, error) {
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scheduler fixture: %w", err)
	}
	return &s, nil
}

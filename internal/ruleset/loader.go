// Package ruleset loads the bundled rule dataset: the monster catalog and
// hazard templates the generator and validator work against. The dataset is
// versioned with the deployment and read-only after load; there is no
// partial or best-effort catalog.
package ruleset

//go:generate mockgen -destination=mock/mock_loader.go -package=rulesetmock github.com/dmforge/encounter-api/internal/ruleset Loader

import (
	"embed"
	"io/fs"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
)

//go:embed data/monsters.yaml data/hazards.yaml
var bundledData embed.FS

const (
	monstersFile = "data/monsters.yaml"
	hazardsFile  = "data/hazards.yaml"
)

// Loader provides read access to the rule dataset
type Loader interface {
	// LoadMonsters returns the full monster catalog
	LoadMonsters() ([]MonsterEntry, error)

	// LoadHazards returns the full hazard template catalog
	LoadHazards() ([]HazardTemplate, error)
}

// FSLoader loads and caches the dataset from a file system. A missing or
// malformed dataset is a DATA_LOSS error on every call; a successful parse
// is cached for the life of the process.
type FSLoader struct {
	fsys fs.FS

	once     sync.Once
	monsters []MonsterEntry
	hazards  []HazardTemplate
	err      error
}

// NewEmbedded returns a loader over the dataset bundled with the binary
func NewEmbedded() *FSLoader {
	return &FSLoader{fsys: bundledData}
}

// NewFS returns a loader over an arbitrary file system, for tests
func NewFS(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// LoadMonsters returns the full monster catalog
func (l *FSLoader) LoadMonsters() ([]MonsterEntry, error) {
	l.load()
	if l.err != nil {
		return nil, l.err
	}
	return l.monsters, nil
}

// LoadHazards returns the full hazard template catalog
func (l *FSLoader) LoadHazards() ([]HazardTemplate, error) {
	l.load()
	if l.err != nil {
		return nil, l.err
	}
	return l.hazards, nil
}

func (l *FSLoader) load() {
	l.once.Do(func() {
		monsters, err := parseMonsters(l.fsys)
		if err != nil {
			l.err = err
			return
		}

		hazards, err := parseHazards(l.fsys)
		if err != nil {
			l.err = err
			return
		}

		l.monsters = monsters
		l.hazards = hazards
	})
}

type monstersDoc struct {
	Monsters []MonsterEntry `yaml:"monsters"`
}

type hazardsDoc struct {
	Hazards []HazardTemplate `yaml:"hazards"`
}

func parseMonsters(fsys fs.FS) ([]MonsterEntry, error) {
	raw, err := fs.ReadFile(fsys, monstersFile)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "monster catalog is missing")
	}

	var doc monstersDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "monster catalog is malformed")
	}

	if len(doc.Monsters) == 0 {
		return nil, errors.DataLoss("monster catalog is empty")
	}

	for i, m := range doc.Monsters {
		if m.ID == "" {
			return nil, errors.DataLossf("monster catalog entry %d has no id", i)
		}
		if m.XP <= 0 {
			return nil, errors.DataLossf("monster %q has no XP value", m.ID)
		}
	}

	return doc.Monsters, nil
}

func parseHazards(fsys fs.FS) ([]HazardTemplate, error) {
	raw, err := fs.ReadFile(fsys, hazardsFile)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "hazard catalog is missing")
	}

	var doc hazardsDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "hazard catalog is malformed")
	}

	if len(doc.Hazards) == 0 {
		return nil, errors.DataLoss("hazard catalog is empty")
	}

	for i, h := range doc.Hazards {
		if h.ID == "" {
			return nil, errors.DataLossf("hazard catalog entry %d has no id", i)
		}
		if h.DCMin <= 0 || h.DCMax < h.DCMin {
			return nil, errors.DataLossf("hazard %q has an invalid DC range [%d, %d]", h.ID, h.DCMin, h.DCMax)
		}
		switch h.DefaultTiming {
		case encounter.TimingStart, encounter.TimingEnd, encounter.TimingTrigger:
		default:
			return nil, errors.DataLossf("hazard %q has an invalid default timing %q", h.ID, h.DefaultTiming)
		}
	}

	return doc.Hazards, nil
}

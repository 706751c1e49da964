package ruleset

import (
	"strings"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
)

// ImmunityNonmagical is the sentinel immunity representing immunity to
// damage from non-magical weapons.
const ImmunityNonmagical = "nonmagical"

// MonsterEntry is a static catalog row for one adversary
type MonsterEntry struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	ChallengeRating float64  `yaml:"challenge_rating"`
	XP              int32    `yaml:"xp"`
	Tags            []string `yaml:"tags,omitempty"`
	Resistances     []string `yaml:"resistances,omitempty"`
	Immunities      []string `yaml:"immunities,omitempty"`
}

// HasTag reports whether the entry carries the given tag (case-insensitive)
func (m *MonsterEntry) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// IsImmune reports whether the entry is immune to the given damage type
func (m *MonsterEntry) IsImmune(damageType string) bool {
	for _, imm := range m.Immunities {
		if strings.EqualFold(imm, damageType) {
			return true
		}
	}
	return false
}

// HazardTemplate is a static catalog row for one non-combat danger
type HazardTemplate struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Kind groups templates by usage: "trap" and "environment" back
	// exploration encounters, "social" backs social encounters
	Kind string `yaml:"kind"`

	XP    int32 `yaml:"xp"`
	DCMin int32 `yaml:"dc_min"`
	DCMax int32 `yaml:"dc_max"`

	DefaultTiming encounter.HazardTiming `yaml:"default_timing"`
	Tags          []string               `yaml:"tags,omitempty"`
}

// HasTag reports whether the template carries the given tag (case-insensitive)
func (h *HazardTemplate) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

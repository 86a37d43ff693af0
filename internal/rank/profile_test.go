// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfilesValid(t *testing.T) {
	for name, p := range DefaultProfiles() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, p.Name)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestGeneralProfileWeights(t *testing.T) {
	p := DefaultProfiles()["general"]
	assert.Equal(t, Weights{NormCitations: 0.3, Venue: 0.3, Recency: 0.1, Consensus: 0.1, AuthorAuthority: 0.2}, p.Weights)
	assert.Equal(t, DecayMedium, p.RecencyDecay)
}

func TestLookupFallsBackToGeneral(t *testing.T) {
	ps := DefaultProfiles()

	p, ok := ps.Lookup("cs")
	assert.True(t, ok)
	assert.Equal(t, "cs", p.Name)

	p, ok = ps.Lookup("astrology")
	assert.False(t, ok)
	assert.Equal(t, DefaultProfile, p.Name)

	p, ok = Profiles{}.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, DefaultProfile, p.Name)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"cs", "general", "humanities", "medicine"}, DefaultProfiles().Names())
}

func TestParseProfilesLayersOverDefaults(t *testing.T) {
	data := []byte(`
profiles:
  physics:
    weights:
      norm_citations: 0.4
      venue: 0.3
      recency: 0.1
      consensus: 0.1
      author_authority: 0.1
  cs:
    weights:
      norm_citations: 0.5
      venue: 0.5
    recency_decay: fast
    evidence_boost:
      - term: benchmark
        boost: 5
`)
	ps, err := ParseProfiles(data)
	require.NoError(t, err)

	physics := ps["physics"]
	assert.Equal(t, "physics", physics.Name)
	assert.Equal(t, DecayMedium, physics.RecencyDecay)
	assert.InDelta(t, 0.4, physics.Weights.NormCitations, 1e-9)

	cs := ps["cs"]
	assert.InDelta(t, 0.5, cs.Weights.Venue, 1e-9)
	assert.Zero(t, cs.Weights.Recency)
	assert.Equal(t, []BoostRule{{Term: "benchmark", Boost: 5}}, cs.EvidenceBoost)

	assert.Contains(t, ps, "medicine")
}

func TestParseProfilesRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative weight", "profiles:\n  bad:\n    weights:\n      venue: -1\n"},
		{"unknown decay", "profiles:\n  bad:\n    recency_decay: glacial\n"},
		{"empty boost term", "profiles:\n  bad:\n    evidence_boost:\n      - boost: 3\n"},
		{"malformed", "profiles: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfiles([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  law:\n    recency_decay: none\n"), 0o644))

	ps, err := LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, DecayNone, ps["law"].RecencyDecay)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

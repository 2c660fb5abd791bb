package sequence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwplan/planner-backend/internal/model"
)

func TestDefaultRegular(t *testing.T) {
	seq, err := Default().GenerateSequence("Regular")
	require.NoError(t, err)

	assert.Equal(t, []string{"1A", "1B", "2A", "2B", "3A", "3B", "4A", "4B"}, seq.Terms())
	season, ok := seq.Season("1B")
	assert.True(t, ok)
	assert.Equal(t, model.SeasonWinter, season)
}

func TestDefaultCoopAliasAndCase(t *testing.T) {
	g := Default()

	alias, err := g.GenerateSequence("co-op")
	require.NoError(t, err)
	canonical, err := g.GenerateSequence("  Co-op   Sequence 1 ")
	require.NoError(t, err)

	assert.Equal(t, canonical, alias)
	assert.Equal(t, []string{"1A", "1B", "WT1"}, alias.Terms()[:3])
}

func TestGenerateSequenceReturnsCopy(t *testing.T) {
	g := Default()
	seq, err := g.GenerateSequence("Regular")
	require.NoError(t, err)
	seq[0].Season = model.SeasonSpring

	again, err := g.GenerateSequence("Regular")
	require.NoError(t, err)
	assert.Equal(t, model.SeasonFall, again[0].Season)
}

func TestGenerateSequenceUnknown(t *testing.T) {
	_, err := Default().GenerateSequence("Part-time")
	assert.ErrorIs(t, err, ErrUnknownSequence)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"Co-op Sequence 1", "Co-op Sequence 2", "Co-op Sequence 3", "Regular"}, Default().Names())
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := map[string]string{
		"bad season":   "sequences:\n  - name: X\n    terms:\n      - {term: 1A, season: Q}\n",
		"bad term":     "sequences:\n  - name: X\n    terms:\n      - {term: 5C, season: F}\n",
		"repeat term":  "sequences:\n  - name: X\n    terms:\n      - {term: 1A, season: F}\n      - {term: 1A, season: W}\n",
		"no terms":     "sequences:\n  - name: X\n",
		"unknown key":  "sequences:\n  - name: X\n    colour: red\n    terms:\n      - {term: 1A, season: F}\n",
		"dup sequence": "sequences:\n  - name: X\n    terms: [{term: 1A, season: F}]\n  - name: x\n    terms: [{term: 1A, season: F}]\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

// Package sequence maps study-sequence names to ordered term/season tables.
package sequence

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/term"
	"gopkg.in/yaml.v3"
)

// ErrUnknownSequence is returned when no sequence matches the requested name.
var ErrUnknownSequence = errors.New("unknown sequence")

//go:embed sequences.yaml
var builtin []byte

type catalogFile struct {
	Sequences []sequenceDef `yaml:"sequences"`
}

type sequenceDef struct {
	Name    string             `yaml:"name"`
	Aliases []string           `yaml:"aliases"`
	Terms   []model.TermSeason `yaml:"terms"`
}

// Generator resolves sequence names. It is read-only after construction and
// safe for concurrent use.
type Generator struct {
	names     []string
	sequences map[string]model.SequenceMap
}

// Default returns a Generator over the built-in sequence catalog.
func Default() *Generator {
	g, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic(fmt.Sprintf("sequence: invalid built-in catalog: %v", err))
	}
	return g
}

// Load parses a YAML sequence catalog.
func Load(r io.Reader) (*Generator, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode sequences: %w", err)
	}

	g := &Generator{sequences: make(map[string]model.SequenceMap)}
	for _, def := range file.Sequences {
		if err := validateDef(def); err != nil {
			return nil, err
		}
		seq := model.SequenceMap(def.Terms)
		for _, name := range append([]string{def.Name}, def.Aliases...) {
			key := normalise(name)
			if _, dup := g.sequences[key]; dup {
				return nil, fmt.Errorf("sequence %q defined twice", name)
			}
			g.sequences[key] = seq
		}
		g.names = append(g.names, def.Name)
	}
	sort.Strings(g.names)
	return g, nil
}

func validateDef(def sequenceDef) error {
	if def.Name == "" {
		return errors.New("sequence without a name")
	}
	if len(def.Terms) == 0 {
		return fmt.Errorf("sequence %q has no terms", def.Name)
	}
	seen := make(map[string]struct{}, len(def.Terms))
	for _, ts := range def.Terms {
		if !term.Valid(ts.Term) {
			return fmt.Errorf("sequence %q: invalid term label %q", def.Name, ts.Term)
		}
		if !ts.Season.Valid() {
			return fmt.Errorf("sequence %q: term %s has invalid season %q", def.Name, ts.Term, ts.Season)
		}
		if _, dup := seen[ts.Term]; dup {
			return fmt.Errorf("sequence %q: term %s listed twice", def.Name, ts.Term)
		}
		seen[ts.Term] = struct{}{}
	}
	return nil
}

// GenerateSequence returns a copy of the named sequence's term-to-season map.
// Names match case-insensitively.
func (g *Generator) GenerateSequence(name string) (model.SequenceMap, error) {
	seq, ok := g.sequences[normalise(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSequence, name)
	}
	return append(model.SequenceMap{}, seq...), nil
}

// Names lists the canonical sequence names in alphabetical order.
func (g *Generator) Names() []string {
	return append([]string{}, g.names...)
}

func normalise(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

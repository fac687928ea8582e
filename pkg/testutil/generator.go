// Package testutil provides assertion helpers and deterministic tree
// fixtures for projection tests. All generators produce reproducible output
// for a given seed.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/outliner/pkg/model"
)

// GeneratorConfig controls fixture tree generation.
type GeneratorConfig struct {
	Seed     int64 // random seed for determinism
	Depth    int   // tree depth below the roots
	Breadth  int   // maximum children per group
	Groups   int   // number of top-level groups
	Fields   int   // fields per node (minimum 1)
	ItemRate int   // percentage of leaf slots that become items
}

// DefaultConfig returns a config suitable for most tests: a small tree of
// groups with numbered items.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		Depth:    3,
		Breadth:  4,
		Groups:   3,
		Fields:   2,
		ItemRate: 60,
	}
}

// Generator creates fixture trees.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
	seq int
}

// NewGenerator creates a generator with the given config.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.Fields < 1 {
		cfg.Fields = 1
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds a deterministic tree of Group_N containers holding
// M_N_Item leaves, the shape of a typical outliner scene.
func (g *Generator) Generate() *model.Tree {
	t := model.NewTree(g.cfg.Fields)
	for i := 0; i < g.cfg.Groups; i++ {
		group := t.AppendChildren(nil, fmt.Sprintf("Group_%d", i))[0]
		g.fill(t, group, g.cfg.Depth-1)
	}
	return t
}

func (g *Generator) fill(t *model.Tree, parent *model.Node, depth int) {
	n := 1 + g.rng.Intn(g.cfg.Breadth)
	for i := 0; i < n; i++ {
		if depth <= 0 || g.rng.Intn(100) < g.cfg.ItemRate {
			item := t.AppendChildren(parent, fmt.Sprintf("%d_%d_Item", g.seq, i))[0]
			g.seq++
			if g.cfg.Fields > 1 {
				t.SetValue(item, 1, fmt.Sprintf("%03d", g.rng.Intn(1000)))
			}
			continue
		}
		sub := t.AppendChildren(parent, fmt.Sprintf("Group_%d_%d", depth, i))[0]
		g.fill(t, sub, depth-1)
	}
}

package evaluator

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/yahtzee-ev/combinatorics"
	"github.com/domino14/yahtzee-ev/probability"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
)

// Context bundles everything a turn evaluation needs besides the state
// table. It is built once, single-threaded, and only read afterwards.
type Context struct {
	Catalog *combinatorics.Catalog
	Probs   *probability.Table

	// rollProbs[rollID] is the chance of rolling that hand with five dice.
	rollProbs []float64
	// remainderProbs[keeperID][i] is the chance that rerolling the dice
	// not held in keeperID yields Catalog.RollsFrom(keeperID)[i].
	remainderProbs [][]float64
	// scores[category][rollID]
	scores [scorecard.NumCategories][]int
}

func NewContext() *Context {
	catalog := combinatorics.NewCatalog()
	probs := probability.NewTable(catalog.Keepers())
	c := &Context{
		Catalog:        catalog,
		Probs:          probs,
		rollProbs:      make([]float64, len(catalog.Rolls())),
		remainderProbs: make([][]float64, len(catalog.Keepers())),
	}
	for id, r := range catalog.Rolls() {
		c.rollProbs[id] = probs.Probability(r)
	}
	for kid, k := range catalog.Keepers() {
		rolls := catalog.RollsFrom(kid)
		c.remainderProbs[kid] = make([]float64, len(rolls))
		for i, rid := range rolls {
			c.remainderProbs[kid][i] = probs.Probability(catalog.Roll(rid).Sub(k))
		}
	}
	for _, cat := range scorecard.AllCategories() {
		c.scores[cat] = make([]int, len(catalog.Rolls()))
		for id, r := range catalog.Rolls() {
			c.scores[cat][id] = scoring.Score(cat, r)
		}
	}
	log.Debug().Int("probabilities", probs.Len()).Msg("built-evaluator-context")
	return c
}

// RollProbability is the chance of rolling rollID with all five dice.
func (c *Context) RollProbability(rollID int) float64 {
	return c.rollProbs[rollID]
}

// Score is the precomputed scoring.Score for a roll ID.
func (c *Context) Score(cat scorecard.Category, rollID int) int {
	return c.scores[cat][rollID]
}

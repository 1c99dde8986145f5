package narrative

import (
	"fmt"
	"strings"

	"github.com/spigell/careerfit/internal/archetype"
	"github.com/spigell/careerfit/internal/cluster"
	"github.com/spigell/careerfit/internal/motivator"
	"github.com/spigell/careerfit/internal/trait"
)

// maxClusters is how many of the best clusters the narrative talks about.
const maxClusters = 3

// Input is the structured engine output the narrative is written from.
type Input struct {
	Session      string
	Interest     trait.Vector
	Personality  trait.Vector
	TopInterests []string
	Motivators   []motivator.Result
	Clusters     []cluster.Result
	Archetype    *archetype.Result
}

// TopClusters returns the best clusters in rank order.
func (in Input) TopClusters() []cluster.Result {
	if len(in.Clusters) > maxClusters {
		return in.Clusters[:maxClusters]
	}
	return in.Clusters
}

// InterestLabels returns the readable names of the top interests.
func (in Input) InterestLabels() []string {
	out := make([]string, 0, len(in.TopInterests))
	for _, k := range in.TopInterests {
		out = append(out, trait.Interest.Label(k))
	}
	return out
}

// Evidence renders the compact bullet block sent to the model.
func Evidence(in Input) string {
	parts := make([]string, 0, 8)

	if len(in.Interest) > 0 {
		parts = append(parts, "• RIASEC: "+formatVector(trait.Interest, in.Interest))
	}
	if len(in.Personality) > 0 {
		parts = append(parts, "• Big-5: "+formatVector(trait.Personality, in.Personality))
	}
	if len(in.TopInterests) > 0 {
		parts = append(parts, "• Top interests: "+strings.Join(in.InterestLabels(), ", "))
	}

	if len(in.Motivators) > 0 {
		parts = append(parts, "• Motivators:")
		for _, m := range in.Motivators {
			parts = append(parts, fmt.Sprintf("  - %s %d (%s): %s", m.Label, m.Score, m.Confidence, m.Rationale))
		}
	}

	if top := in.TopClusters(); len(top) > 0 {
		parts = append(parts, "• Career clusters:")
		for _, c := range top {
			parts = append(parts, fmt.Sprintf("  - %s %d (%s)", c.Label, c.Score, c.Tier))
		}
	}

	if a := in.Archetype; a != nil {
		parts = append(parts, fmt.Sprintf("• Team role: %s (%s) - %s", a.Label, a.Confidence, a.Tagline))
	}

	return strings.Join(parts, "\n")
}

func formatVector(shape trait.Shape, v trait.Vector) string {
	pairs := make([]string, 0, len(shape.Keys))
	for _, k := range shape.Keys {
		pairs = append(pairs, fmt.Sprintf("%s=%.2f", k, v[k]))
	}
	return strings.Join(pairs, ", ")
}

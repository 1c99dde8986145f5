package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/careerfit/internal/scoring"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteSummary prints the headline view: trait means, top motivators, the
// best clusters and the team role.
func (r *Report) WriteSummary(w io.Writer) error {
	fmt.Fprintf(w, "Report %s for session %s\n\n", r.ID, r.Session)

	writeScores(w, "Personality", r.Personality)
	writeScores(w, "Interests", r.Interest)

	if len(r.Motivators) > 0 {
		names := make([]string, 0, len(r.Motivators))
		for _, m := range r.Motivators {
			names = append(names, fmt.Sprintf("%s %d", m.Label, m.Score))
		}
		fmt.Fprintf(w, "Motivators: %s\n", strings.Join(names, ", "))
	}
	if len(r.Clusters) > 0 {
		c := r.Clusters[0]
		fmt.Fprintf(w, "Best cluster: %s %d (%s)\n", c.Label, c.Score, c.Tier)
	}
	if r.Archetype != nil {
		fmt.Fprintf(w, "Team role: %s (%s)\n", r.Archetype.Label, r.Archetype.Confidence)
	}
	if r.Narrative != nil && r.Narrative.Text != "" {
		fmt.Fprintf(w, "\n%s\n", r.Narrative.Text)
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "\n%d warning(s); see the JSON dump for details\n", len(r.Warnings))
	}
	return nil
}

func writeScores(w io.Writer, title string, s *scoring.Scores) {
	if s == nil {
		fmt.Fprintf(w, "%s: not available\n", title)
		return
	}
	parts := make([]string, 0, len(s.Shape.Keys))
	for _, k := range s.Shape.Keys {
		mark := ""
		if s.Partial[k] {
			mark = "*"
		}
		parts = append(parts, fmt.Sprintf("%s=%.2f%s", k, s.Means[k], mark))
	}
	fmt.Fprintf(w, "%s: %s\n", title, strings.Join(parts, " "))
}

func (r *Report) WriteMotivators(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MOTIVATOR\tSCORE\tCONFIDENCE\tRATIONALE")
	for _, m := range r.AllMotivators {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", m.Label, m.Score, m.Confidence, m.Rationale)
	}
	return tw.Flush()
}

func (r *Report) WriteClusters(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CLUSTER\tSCORE\tTIER\tSUSTAINABILITY\tEXAMPLES")
	for _, c := range r.Clusters {
		sustain := "-"
		if c.Sustainability != nil {
			sustain = fmt.Sprintf("%d %s", c.Sustainability.Score, c.Sustainability.Level)
		}
		titles := make([]string, 0, len(c.Exemplars))
		for _, e := range c.Exemplars {
			titles = append(titles, e.Record.Title)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", c.Label, c.Score, c.Tier, sustain, strings.Join(titles, "; "))
	}
	return tw.Flush()
}

func (r *Report) WriteMatches(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tTITLE\tSIMILARITY")
	for _, m := range r.Matches {
		fmt.Fprintf(tw, "%s\t%s\t%.3f\n", m.Record.ID, m.Record.Title, m.Score)
	}
	return tw.Flush()
}

func (r *Report) WriteArchetype(w io.Writer) error {
	a := r.Archetype
	if a == nil {
		_, err := fmt.Fprintln(w, "Team role was not inferred.")
		return err
	}
	fmt.Fprintf(w, "%s (%s)\n%s\n", a.Label, a.Confidence, a.Tagline)
	if a.Rationale != "" {
		fmt.Fprintf(w, "%s\n", a.Rationale)
	}
	for _, section := range []struct {
		title string
		items []string
	}{
		{"Strengths", a.Strengths},
		{"Frictions", a.Frictions},
		{"Works well with", a.Complements},
		{"Tips", a.Tips},
	} {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", section.title)
		for _, item := range section.items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
	if len(a.Signals) > 0 {
		fmt.Fprintln(w, "\nBased on:")
		for _, s := range a.Signals {
			fmt.Fprintf(w, "  - %s: %s\n", s.From, s.Signal)
		}
	}
	return nil
}

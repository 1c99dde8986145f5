package engine

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/archetype"
	"github.com/spigell/careerfit/internal/cluster"
	"github.com/spigell/careerfit/internal/motivator"
	"github.com/spigell/careerfit/internal/report"
	"github.com/spigell/careerfit/internal/similarity"
)

const (
	StageTraits     = "traits"
	StageMotivators = "motivators"
	StageMatches    = "matches"
	StageClusters   = "clusters"
	StageArchetype  = "archetype"
	StageNarrative  = "narrative"

	DefaultMatches = 10
	topInterests   = 3
)

var errNoBundle = errors.New("report has no signal bundle")

// Default returns every stage in pipeline order. The narrative stage reads
// the sections the others fill, so it stays last.
func Default() []Stage {
	return []Stage{
		&traitsStage{},
		&motivatorsStage{},
		&matchesStage{},
		&clustersStage{},
		&archetypeStage{},
		&narrativeStage{},
	}
}

// Names lists the stage names of Default.
func Names() []string {
	stages := Default()
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, s.Name())
	}
	return names
}

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) status(name string, details map[string]string) Status {
	return Status{Name: name, Enabled: !t.disabled, Reason: t.reason, Details: details}
}

type traitsStage struct{ toggle }

func (s *traitsStage) Name() string { return StageTraits }

func (s *traitsStage) Validate(*Config) error { return nil }

func (s *traitsStage) Apply(_ context.Context, _ Deps, r *report.Report) (Step, error) {
	if r.Bundle == nil {
		return Step{}, errNoBundle
	}
	r.TopInterests = r.Bundle.TopInterests(topInterests)

	items := 0
	if r.Personality != nil {
		items += r.Personality.Answered()
	}
	if r.Interest != nil {
		items += r.Interest.Answered()
	}
	return Step{Items: items}, nil
}

func (s *traitsStage) Status() Status { return s.status(s.Name(), nil) }

type motivatorsStage struct {
	toggle
	top int
}

func (s *motivatorsStage) Name() string { return StageMotivators }

func (s *motivatorsStage) Validate(cfg *Config) error {
	s.top = motivator.DefaultTop
	if cfg != nil && cfg.Motivators > 0 {
		s.top = cfg.Motivators
	}
	return nil
}

func (s *motivatorsStage) Apply(_ context.Context, _ Deps, r *report.Report) (Step, error) {
	if r.Bundle == nil {
		return Step{}, errNoBundle
	}
	r.AllMotivators = motivator.Compute(r.Bundle)
	r.Motivators = motivator.Top(r.AllMotivators, s.top)
	return Step{Items: len(r.AllMotivators)}, nil
}

func (s *motivatorsStage) Status() Status {
	return s.status(s.Name(), map[string]string{"top": strconv.Itoa(s.top)})
}

type matchesStage struct {
	toggle
	limit int
}

func (s *matchesStage) Name() string { return StageMatches }

func (s *matchesStage) Validate(cfg *Config) error {
	s.limit = DefaultMatches
	if cfg != nil && cfg.Matches != 0 {
		s.limit = cfg.Matches
	}
	return nil
}

func (s *matchesStage) Apply(_ context.Context, deps Deps, r *report.Report) (Step, error) {
	if r.Bundle == nil {
		return Step{}, errNoBundle
	}
	if deps.Reference == nil || deps.Reference.Catalog == nil {
		return Step{}, errors.New("catalog is not loaded")
	}
	r.CatalogVersion = deps.Reference.Catalog.Version()

	if r.Bundle.Interest == nil {
		if deps.Logger != nil {
			deps.Logger.Info("no interest scores, skipping catalog ranking", zap.String("session", r.Session))
		}
		return Step{}, nil
	}

	matches, warnings := similarity.Rank(r.Bundle.InterestVector(), deps.Reference.Catalog.Records(), s.limit)
	r.Matches = matches
	return Step{Items: len(matches), Warnings: warnings}, nil
}

func (s *matchesStage) Status() Status {
	return s.status(s.Name(), map[string]string{"limit": strconv.Itoa(s.limit)})
}

type clustersStage struct{ toggle }

func (s *clustersStage) Name() string { return StageClusters }

func (s *clustersStage) Validate(*Config) error { return nil }

func (s *clustersStage) Apply(_ context.Context, deps Deps, r *report.Report) (Step, error) {
	if r.Bundle == nil {
		return Step{}, errNoBundle
	}
	if deps.Reference == nil || deps.Reference.Clusters == nil {
		return Step{}, errors.New("cluster taxonomy is not loaded")
	}

	results, warnings := cluster.Compute(r.Bundle, deps.Reference.Catalog, deps.Reference.Clusters)
	r.Clusters = results
	return Step{Items: len(results), Warnings: warnings}, nil
}

func (s *clustersStage) Status() Status { return s.status(s.Name(), nil) }

type archetypeStage struct{ toggle }

func (s *archetypeStage) Name() string { return StageArchetype }

func (s *archetypeStage) Validate(*Config) error { return nil }

func (s *archetypeStage) Apply(_ context.Context, _ Deps, r *report.Report) (Step, error) {
	if r.Bundle == nil {
		return Step{}, errNoBundle
	}
	res := archetype.Infer(r.Bundle)
	r.Archetype = &res
	return Step{Items: len(res.Fired)}, nil
}

func (s *archetypeStage) Status() Status { return s.status(s.Name(), nil) }

type narrativeStage struct{ toggle }

func (s *narrativeStage) Name() string { return StageNarrative }

func (s *narrativeStage) Validate(*Config) error { return nil }

// Apply always produces a narrative; without a writer the template is used.
func (s *narrativeStage) Apply(ctx context.Context, deps Deps, r *report.Report) (Step, error) {
	n := deps.Narrative.Write(ctx, r.NarrativeInput())
	r.Narrative = &n
	return Step{Items: len(n.Highlights)}, nil
}

func (s *narrativeStage) Status() Status { return s.status(s.Name(), nil) }

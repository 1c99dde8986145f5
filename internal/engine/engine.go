// Package engine runs the report pipeline: an ordered list of stages, each
// filling one section of a report.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/narrative"
	"github.com/spigell/careerfit/internal/reference"
	"github.com/spigell/careerfit/internal/report"
)

// Stage is a single pipeline step.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, r *report.Report) (Step, error)
}

// Deps aggregates what stages share.
type Deps struct {
	Logger    *zap.Logger
	Reference *reference.Set
	Narrative *narrative.Writer
}

// Step describes what a stage produced.
type Step struct {
	Items    int
	Warnings []diag.Warning
}

type Config struct {
	Matches    int
	Motivators int
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// DisableByName disables the stage called name while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) bool {
	found := false
	for _, s := range stages {
		if s.Name() == name {
			s.Disable(reason)
			found = true
		}
	}
	return found
}

// Run validates every enabled stage, then applies them in order. Stage
// warnings are merged into the report and every stage is recorded on it.
func Run(ctx context.Context, cfg *Config, deps Deps, stages []Stage, r *report.Report) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, s := range stages {
		if !s.IsEnabled() {
			continue
		}
		if err := s.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !s.IsEnabled() {
			st := describe(s)
			logger.Info("stage disabled", zap.String("name", s.Name()), zap.String("reason", st.Reason))
			r.Stages = append(r.Stages, report.StageRecord{Name: s.Name(), Reason: st.Reason})
			continue
		}

		started := time.Now()
		info, err := s.Apply(ctx, deps, r)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}

		r.AddWarnings(info.Warnings...)
		diag.Log(logger.With(zap.String("stage", s.Name())), info.Warnings)
		r.Stages = append(r.Stages, report.StageRecord{Name: s.Name(), Enabled: true, Items: info.Items})

		logger.Info("stage",
			zap.String("name", s.Name()),
			zap.Int("items", info.Items),
			zap.Int("warnings", len(info.Warnings)),
			zap.Duration("took", time.Since(started)),
		)
	}

	return nil
}

// Describe returns status entries for the stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, s := range stages {
		statuses = append(statuses, describe(s))
	}
	return statuses
}

func describe(s Stage) Status {
	if reporter, ok := s.(statusProvider); ok {
		return reporter.Status()
	}
	return Status{Name: s.Name(), Enabled: s.IsEnabled()}
}

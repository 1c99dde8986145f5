// Package report holds the result graph of one engine run.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/spigell/careerfit/internal/archetype"
	"github.com/spigell/careerfit/internal/cluster"
	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/motivator"
	"github.com/spigell/careerfit/internal/narrative"
	"github.com/spigell/careerfit/internal/scoring"
	"github.com/spigell/careerfit/internal/signals"
	"github.com/spigell/careerfit/internal/similarity"
	"github.com/spigell/careerfit/internal/utils"
)

const (
	lockTimeout = 5 * time.Second
	lockRetry   = 200 * time.Millisecond
)

// StageRecord is what one pipeline stage did to the report.
type StageRecord struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
	Items   int    `json:"items"`
}

// Report is the full output for one candidate session. Stages fill in their
// own section; a nil or empty section means the stage did not run or had
// nothing to say.
type Report struct {
	ID             string               `json:"id"`
	Session        string               `json:"session"`
	CreatedAt      time.Time            `json:"created_at"`
	CatalogVersion string               `json:"catalog_version,omitempty"`
	Personality    *scoring.Scores      `json:"personality,omitempty"`
	Interest       *scoring.Scores      `json:"interest,omitempty"`
	TopInterests   []string             `json:"top_interests,omitempty"`
	Motivators     []motivator.Result   `json:"motivators,omitempty"`
	AllMotivators  []motivator.Result   `json:"all_motivators,omitempty"`
	Matches        []similarity.Match   `json:"matches,omitempty"`
	Clusters       []cluster.Result     `json:"clusters,omitempty"`
	Archetype      *archetype.Result    `json:"archetype,omitempty"`
	Narrative      *narrative.Narrative `json:"narrative,omitempty"`
	Stages         []StageRecord        `json:"stages,omitempty"`
	Warnings       []diag.Warning       `json:"warnings,omitempty"`
	Bundle         *signals.Bundle      `json:"-"`
	seenWarnings   map[diag.Warning]struct{}
}

// New starts a report for the gathered bundle.
func New(b *signals.Bundle) *Report {
	r := &Report{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Bundle:       b,
		seenWarnings: map[diag.Warning]struct{}{},
	}
	if b != nil {
		r.Session = b.Session
		r.Personality = b.Personality
		r.Interest = b.Interest
		r.AddWarnings(b.Warnings...)
	}
	return r
}

// AddWarnings appends warnings that are not already on the report.
func (r *Report) AddWarnings(ws ...diag.Warning) {
	if r.seenWarnings == nil {
		r.seenWarnings = map[diag.Warning]struct{}{}
		for _, w := range r.Warnings {
			r.seenWarnings[w] = struct{}{}
		}
	}
	for _, w := range ws {
		if _, ok := r.seenWarnings[w]; ok {
			continue
		}
		r.seenWarnings[w] = struct{}{}
		r.Warnings = append(r.Warnings, w)
	}
}

// NarrativeInput collects what the narrative writer needs from the report.
func (r *Report) NarrativeInput() narrative.Input {
	in := narrative.Input{
		Session:      r.Session,
		TopInterests: r.TopInterests,
		Motivators:   r.Motivators,
		Clusters:     r.Clusters,
		Archetype:    r.Archetype,
	}
	if r.Interest != nil {
		in.Interest = r.Interest.Means
	}
	if r.Personality != nil {
		in.Personality = r.Personality.Means
	}
	return in
}

// DumpToTmpFile writes the report as indented JSON to a new temporary file.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "careerfit_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Save writes the report to path. Concurrent writers to the same path are
// serialized through a sibling lock file, and the content is replaced
// atomically.
func (r *Report) Save(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("report path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	unlock, err := acquire(ctx, path+".lock")
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report_*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

// Load reads a report saved with Save.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &r, nil
}

func acquire(ctx context.Context, lockPath string) (func(), error) {
	l := flock.New(lockPath)
	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire report lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("report is locked by another writer (lock: %s)", lockPath)
		}
		if err := utils.WaitFor(ctx, lockRetry); err != nil {
			return nil, err
		}
	}
}

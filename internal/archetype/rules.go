package archetype

import (
	"fmt"

	"github.com/spigell/careerfit/internal/signals"
)

const (
	high        = 3.6
	midLow      = 3.4
	leadLikert  = 4.0
	flexLikert  = 4.0
	workEnvKey  = "work_env"
	leadershipK = "leadership"
	flexibility = "flexibility"
)

// DefaultProfile is the neutral role that stands when no rule fires.
func DefaultProfile() Profile {
	return Profile{
		Role:      Explorer,
		Label:     "The Explorer",
		Tagline:   "Curious generalist who bridges ideas and possibilities.",
		Rationale: "Your pattern suggests breadth, curiosity and comfort with ambiguity. You tend to scout opportunities, connect dots and prototype directions.",
		Strengths: []string{
			"Learns quickly across domains",
			"Connects disparate ideas",
			"Comfortable starting from zero",
		},
		Frictions: []string{
			"May lose interest once systems are stable",
			"Can overextend into too many tracks",
		},
		Complements: []string{
			"Organizer (to lock in process and scale)",
			"Analyst (to deepen rigor and quality)",
		},
		Tips: []string{
			"Timebox exploration; commit to one path per cycle",
			"Pair with an Organizer to land projects",
		},
	}
}

// Rules returns the cascade in evaluation order.
func Rules() []Rule {
	return []Rule{
		{Name: "connector", Eval: connector},
		{Name: "organizer", Eval: organizer},
		{Name: "analyst", Eval: analyst},
		{Name: "driver", Eval: driver},
		{Name: "harmonizer", Eval: harmonizer},
	}
}

// Nudges returns the environment adjustments in evaluation order.
func Nudges() []Nudge {
	return []Nudge{
		{Name: "fast_paced", Eval: fastPaced},
		{Name: "process", Eval: process},
	}
}

func topInterest(b *signals.Bundle) string {
	if top := b.TopInterests(1); len(top) == 1 {
		return top[0]
	}
	return ""
}

func connector(b *signals.Bundle) (Candidate, bool) {
	e, a := b.PersonalityMean("E"), b.PersonalityMean("A")
	if e < high || a < high {
		return Candidate{}, false
	}
	return Candidate{
		Profile: Profile{
			Role:      Connector,
			Label:     "The Connector",
			Tagline:   "Social glue who aligns people and momentum.",
			Rationale: "High Extraversion and Agreeableness map to relationship-building, facilitation and cross-team momentum.",
			Strengths: []string{"Builds trust quickly", "Bridges stakeholders", "Energizes groups and initiatives"},
			Frictions: []string{
				"Context switching can dilute depth work",
				"May avoid hard tradeoffs to keep harmony",
			},
			Complements: []string{"Analyst", "Organizer", "Driver"},
			Tips:        []string{"Block deep-work windows for preparation", "Use written briefs to anchor decisions"},
		},
		Signal: Signal{From: "personality", Signal: fmt.Sprintf("E=%.2f, A=%.2f", e, a)},
	}, true
}

func organizer(b *signals.Bundle) (Candidate, bool) {
	c, cok := b.Personality.Mean("C")
	e, eok := b.Personality.Mean("E")
	if !cok || !eok || c < high || e > midLow {
		return Candidate{}, false
	}
	return Candidate{
		Profile: Profile{
			Role:      Organizer,
			Label:     "The Organizer",
			Tagline:   "Process builder who drives reliability and scale.",
			Rationale: "High Conscientiousness with lower Extraversion suggests systems, documentation and heads-down execution strength.",
			Strengths: []string{"Creates clarity and standards", "Improves reliability and throughput", "Great at follow-through"},
			Frictions: []string{
				"May resist rapid pivots without clear rationale",
				"Can be under-recognized in loud rooms",
			},
			Complements: []string{"Connector", "Driver"},
			Tips:        []string{"Surface wins and impact in demos", "Add small experiments to avoid stagnation"},
		},
		Signal: Signal{From: "personality", Signal: fmt.Sprintf("C=%.2f, E=%.2f", c, e)},
	}, true
}

func analyst(b *signals.Bundle) (Candidate, bool) {
	o, top := b.PersonalityMean("O"), topInterest(b)
	if o < high && top != "I" {
		return Candidate{}, false
	}
	sig := Signal{From: "personality", Signal: fmt.Sprintf("O=%.2f", o)}
	if top == "I" {
		sig = Signal{From: "interest", Signal: "top=I"}
	}
	return Candidate{
		Profile: Profile{
			Role:      Analyst,
			Label:     "The Analyst",
			Tagline:   "Clarity-seeker who adds rigor and explanatory power.",
			Rationale: "Openness and Investigative interest map to analysis, sense-making and model-building.",
			Strengths: []string{"Cuts through noise with frameworks", "Uplifts quality via evidence", "Great at writing and deep dives"},
			Frictions: []string{
				"Can stay in analysis too long",
				"May struggle when decisions require imperfect data",
			},
			Complements: []string{"Connector", "Driver"},
			Tips:        []string{"Agree a decision timebox up front", "Share an 80/20 summary first, appendix later"},
		},
		Signal: sig,
	}, true
}

func driver(b *signals.Bundle) (Candidate, bool) {
	e, c := b.PersonalityMean("E"), b.PersonalityMean("C")
	lead, _ := b.Preferences.LikertValue(leadershipK)
	structured := e >= high && c >= midLow
	if !structured && lead < leadLikert {
		return Candidate{}, false
	}
	sig := Signal{From: "preferences", Signal: fmt.Sprintf("leadership=%g", lead)}
	if structured {
		sig = Signal{From: "personality", Signal: fmt.Sprintf("E=%.2f, C=%.2f", e, c)}
	}
	return Candidate{
		Profile: Profile{
			Role:      Driver,
			Label:     "The Driver",
			Tagline:   "Outcome-oriented owner who turns plans into shipped work.",
			Rationale: "Extraversion with structure, or an explicit leadership appetite, aligns to directing projects and hitting milestones.",
			Strengths: []string{"Creates momentum and accountability", "Clarifies priorities and tradeoffs", "Good at stakeholder alignment"},
			Frictions: []string{
				"Risk of moving fast without enough discovery",
				"Can step on toes if context is thin",
			},
			Complements: []string{"Analyst", "Organizer"},
			Tips: []string{
				"Schedule discovery upfront; protect deep-work time for others",
				"Publish short written decisions to keep alignment",
			},
		},
		Signal: sig,
	}, true
}

func harmonizer(b *signals.Bundle) (Candidate, bool) {
	a, top := b.PersonalityMean("A"), topInterest(b)
	if a < high && top != "S" {
		return Candidate{}, false
	}
	social := "n/a"
	if top == "S" {
		social = "top"
	}
	return Candidate{
		Profile: Profile{
			Role:      Harmonizer,
			Label:     "The Harmonizer",
			Tagline:   "Empathic teammate who improves collaboration and outcomes.",
			Rationale: "Agreeableness and Social interest often show up as coaching, facilitation and de-escalation strengths.",
			Strengths: []string{"Creates psychological safety", "Reads context and intent", "Helps teams gel and sustain pace"},
			Frictions: []string{
				"May over-index on harmony vs. hard calls",
				"Energy dips in highly adversarial cultures",
			},
			Complements: []string{"Driver", "Analyst"},
			Tips: []string{
				"Use written tradeoffs to depersonalize tough choices",
				"Pair with a Driver to land decisions faster",
			},
		},
		Signal: Signal{From: "personality", Signal: fmt.Sprintf("A=%.2f / interest S=%s", a, social)},
	}, true
}

func fastPaced(b *signals.Bundle) (string, Signal, bool) {
	flex, _ := b.Preferences.LikertValue(flexibility)
	if b.Preferences.Select(workEnvKey) != "startup" && flex < flexLikert {
		return "", Signal{}, false
	}
	return "Lean on short cycles and public demos; bias to shipping.",
		Signal{From: "preferences", Signal: "work_env=startup/flex"}, true
}

func process(b *signals.Bundle) (string, Signal, bool) {
	if b.Preferences.Select(workEnvKey) != "corporate" && b.PersonalityMean("C") < high {
		return "", Signal{}, false
	}
	return "Codify process improvements; publish playbooks for scale.",
		Signal{From: "preferences", Signal: "work_env=corporate/structure"}, true
}

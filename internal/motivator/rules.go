package motivator

const (
	FromPersonality = "personality"
	FromInterest    = "interest"
	FromPreferences = "preferences"
	FromIntake      = "intake"
)

// Term is one weighted input of a rule. With several keys the term reads the
// strongest of them.
type Term struct {
	From   string
	Keys   []string
	Weight float64
	Signal string
	Clause string
}

// Rule is the weighted combination that scores a single motivator.
type Rule struct {
	Key           Key
	Label         string
	Terms         []Term
	Keywords      []string
	KeywordBonus  float64
	KeywordSignal string
}

func trait5(key string, w float64, signal, clause string) Term {
	return Term{From: FromPersonality, Keys: []string{key}, Weight: w, Signal: signal, Clause: clause}
}

func interest(keys []string, w float64, signal, clause string) Term {
	return Term{From: FromInterest, Keys: keys, Weight: w, Signal: signal, Clause: clause}
}

func stated(key string, w float64, signal, clause string) Term {
	return Term{From: FromPreferences, Keys: []string{key}, Weight: w, Signal: signal, Clause: clause}
}

// Rules returns the rule bank in registration order.
func Rules() []Rule {
	return []Rule{
		{
			Key: Mastery, Label: "Mastery & Growth",
			Terms: []Term{
				trait5("C", 0.30, "Conscientiousness", "pride in doing things thoroughly"),
				interest([]string{"I", "R"}, 0.25, "I/R blend", "a pull toward technical or investigative depth"),
				trait5("O", 0.15, "Openness", "curiosity that keeps skills growing"),
			},
			Keywords: []string{"learning", "mastery", "craft", "improve"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions learning/growth",
		},
		{
			Key: Autonomy, Label: "Autonomy & Ownership",
			Terms: []Term{
				trait5("O", 0.30, "Openness", "a preference for finding your own way"),
				interest([]string{"E"}, 0.20, "Enterprising", "an enterprising streak"),
				trait5("C", -0.10, "Conscientiousness", ""),
				stated("flexibility", 0.20, "flexibility", "a stated wish for control over how you work"),
			},
			Keywords: []string{"autonomy", "freedom", "ownership", "remote", "flexible"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions autonomy/flexibility",
		},
		{
			Key: Impact, Label: "Impact & Meaning",
			Terms: []Term{
				interest([]string{"S"}, 0.30, "Social", "interest in work that helps people"),
				trait5("A", 0.15, "Agreeableness", "care for others"),
				interest([]string{"E"}, 0.10, "Enterprising", "drive to move things forward"),
				stated("impact", 0.25, "impact", "a stated priority on meaningful outcomes"),
			},
			Keywords: []string{"impact", "mission", "help people", "community"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions impact/mission",
		},
		{
			Key: Creativity, Label: "Creativity & Expression",
			Terms: []Term{
				trait5("O", 0.40, "Openness", "openness to new ideas"),
				interest([]string{"A"}, 0.30, "Artistic", "artistic interests"),
				trait5("E", 0.10, "Extraversion", "energy for sharing ideas"),
			},
			Keywords: []string{"design", "create", "art", "novel"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions creative work",
		},
		{
			Key: Recognition, Label: "Recognition & Influence",
			Terms: []Term{
				trait5("E", 0.30, "Extraversion", "energy from visible, people-facing work"),
				interest([]string{"E"}, 0.20, "Enterprising", "an enterprising streak"),
				trait5("C", 0.10, "Conscientiousness", "a track record you want noticed"),
				stated("leadership", 0.15, "leadership", "appetite for leading others"),
			},
			Keywords: []string{"promotion", "recognition", "awards", "visibility"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions recognition/status",
		},
		{
			Key: Stability, Label: "Stability & Security",
			Terms: []Term{
				trait5("C", 0.25, "Conscientiousness", "a liking for reliable routines"),
				trait5("O", -0.15, "Openness", ""),
				interest([]string{"C"}, 0.20, "Conventional", "interest in orderly, well-defined work"),
				stated("job_security", 0.15, "job security", "a stated priority on job security"),
				trait5("N", 0.05, "Neuroticism", "sensitivity to uncertainty"),
			},
			Keywords: []string{"security", "predictable", "stability"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions stability/security",
		},
		{
			Key: Belonging, Label: "Belonging",
			Terms: []Term{
				trait5("A", 0.30, "Agreeableness", "warmth toward the people around you"),
				interest([]string{"S"}, 0.20, "Social", "interest in people-centred work"),
				stated("social_interaction", 0.20, "social interaction", "a wish for plenty of social contact"),
			},
			Keywords: []string{"team", "supportive", "collaborative", "culture"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions belonging/team",
		},
		{
			Key: Service, Label: "Service & Mentorship",
			Terms: []Term{
				interest([]string{"S"}, 0.35, "Social", "interest in helping others grow"),
				trait5("A", 0.25, "Agreeableness", "patience and care for others"),
				stated("social_interaction", 0.15, "social interaction", "enjoyment of people-facing work"),
			},
			Keywords: []string{"mentor", "teach", "serve", "volunteer"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions service/mentoring",
		},
		{
			Key: Variety, Label: "Challenge & Variety",
			Terms: []Term{
				trait5("O", 0.30, "Openness", "appetite for new domains"),
				interest([]string{"R"}, 0.20, "Realistic", "enjoyment of hands-on challenges"),
				trait5("N", -0.15, "Neuroticism", ""),
				stated("flexibility", 0.10, "flexibility", "comfort with changing schedules"),
			},
			Keywords: []string{"variety", "challenge", "travel", "new things"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions variety/challenge",
		},
		{
			Key: Structure, Label: "Structure & Clarity",
			Terms: []Term{
				trait5("C", 0.35, "Conscientiousness", "preference for clear plans and standards"),
				interest([]string{"C"}, 0.30, "Conventional", "interest in systems and procedures"),
				trait5("O", -0.10, "Openness", ""),
			},
			Keywords: []string{"process", "clarity", "structure", "organized"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions structure/clarity",
		},
		{
			Key: Leadership, Label: "Leadership",
			Terms: []Term{
				trait5("E", 0.25, "Extraversion", "comfort taking the floor"),
				interest([]string{"E"}, 0.25, "Enterprising", "interest in persuading and directing"),
				stated("leadership", 0.30, "leadership", "a stated enjoyment of leading others"),
			},
			Keywords: []string{"lead", "manage", "leader"}, KeywordBonus: 0.15,
			KeywordSignal: "mentions leading/managing",
		},
		{
			Key: Financial, Label: "Financial Reward",
			Terms: []Term{
				stated("income", 0.45, "income", "a stated priority on income"),
				interest([]string{"E"}, 0.20, "Enterprising", "interest in commercial outcomes"),
				trait5("C", 0.10, "Conscientiousness", "steady, goal-directed effort"),
			},
			Keywords: []string{"salary", "money", "income", "pay"}, KeywordBonus: 0.20,
			KeywordSignal: "mentions pay/income",
		},
		{
			Key: Learning, Label: "Learning & Growth",
			Terms: []Term{
				trait5("O", 0.35, "Openness", "intellectual curiosity"),
				interest([]string{"I"}, 0.30, "Investigative", "investigative interests"),
			},
			Keywords: []string{"learn", "grow", "curious", "study"}, KeywordBonus: 0.25,
			KeywordSignal: "mentions learning",
		},
		{
			Key: Risk, Label: "Risk-Taking",
			Terms: []Term{
				stated("entrepreneurial_drive", 0.35, "entrepreneurial drive", "a stated appetite for building something of your own"),
				interest([]string{"E"}, 0.20, "Enterprising", "an enterprising streak"),
				trait5("N", -0.15, "Neuroticism", ""),
				trait5("O", 0.10, "Openness", "openness to the unknown"),
			},
			Keywords: []string{"startup", "risk", "founder", "venture"}, KeywordBonus: 0.15,
			KeywordSignal: "mentions startups/risk",
		},
		{
			Key: Collaboration, Label: "Collaboration",
			Terms: []Term{
				trait5("A", 0.25, "Agreeableness", "a cooperative style"),
				trait5("E", 0.20, "Extraversion", "energy from working with others"),
				interest([]string{"S"}, 0.20, "Social", "interest in people-centred work"),
				stated("social_interaction", 0.15, "social interaction", "a wish for plenty of social contact"),
			},
			Keywords: []string{"collaborat", "together", "teamwork"}, KeywordBonus: 0.15,
			KeywordSignal: "mentions collaboration",
		},
		{
			Key: Harmony, Label: "Work-Life Harmony",
			Terms: []Term{
				stated("flexibility", 0.30, "flexibility", "a stated need for schedule control"),
				trait5("N", 0.15, "Neuroticism", "attention to your own energy levels"),
				trait5("A", 0.10, "Agreeableness", "care for relationships outside work"),
			},
			Keywords: []string{"balance", "family", "wellbeing", "burnout"}, KeywordBonus: 0.30,
			KeywordSignal: "mentions balance/wellbeing",
		},
	}
}

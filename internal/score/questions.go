// File path: internal/score/questions.go
package score

// Question defines how one questionnaire answer maps onto the 0-100 scale.
// Invert flips the scale for questions where a higher raw value means worse
// health (e.g. owner dependency, turnover).
type Question struct {
	ID       string
	Category string
	Prompt   string
	Weight   float64
	MinValue float64
	MaxValue float64
	Invert   bool
}

// DefaultQuestions returns the built-in questionnaire definition: 45
// questions across the ten categories. Prompts are abbreviated; the full
// wording lives with the form, which is outside this module.
func DefaultQuestions() []Question {
	return []Question{
		{ID: "STR-01", Category: "STR", Prompt: "Written business plan freshness", Weight: 1.5, MinValue: 0, MaxValue: 10},
		{ID: "STR-02", Category: "STR", Prompt: "Goal review cadence", Weight: 1, MinValue: 0, MaxValue: 12},
		{ID: "STR-03", Category: "STR", Prompt: "Competitive positioning clarity", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "STR-04", Category: "STR", Prompt: "Revenue concentration by offering", Weight: 1, MinValue: 0, MaxValue: 100, Invert: true},
		{ID: "STR-05", Category: "STR", Prompt: "Strategic initiative completion rate", Weight: 1.5, MinValue: 0, MaxValue: 100},
		{ID: "MKT-01", Category: "MKT", Prompt: "Marketing plan in place", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "MKT-02", Category: "MKT", Prompt: "Lead tracking discipline", Weight: 1.5, MinValue: 0, MaxValue: 10},
		{ID: "MKT-03", Category: "MKT", Prompt: "Channel diversification", Weight: 1, MinValue: 0, MaxValue: 8},
		{ID: "MKT-04", Category: "MKT", Prompt: "Brand consistency", Weight: 0.5, MinValue: 0, MaxValue: 10},
		{ID: "MKT-05", Category: "MKT", Prompt: "Cost per acquired customer trend", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "SLS-01", Category: "SLS", Prompt: "Documented sales process", Weight: 1.5, MinValue: 0, MaxValue: 10},
		{ID: "SLS-02", Category: "SLS", Prompt: "Pipeline coverage ratio", Weight: 1, MinValue: 0, MaxValue: 5},
		{ID: "SLS-03", Category: "SLS", Prompt: "Win rate", Weight: 1, MinValue: 0, MaxValue: 100},
		{ID: "SLS-04", Category: "SLS", Prompt: "Follow-up responsiveness", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "CXP-01", Category: "CXP", Prompt: "Customer feedback collection", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "CXP-02", Category: "CXP", Prompt: "Complaint resolution speed", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "CXP-03", Category: "CXP", Prompt: "Repeat business share", Weight: 1.5, MinValue: 0, MaxValue: 100},
		{ID: "CXP-04", Category: "CXP", Prompt: "Referral generation", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "OPS-01", Category: "OPS", Prompt: "Core processes documented", Weight: 1.5, MinValue: 0, MaxValue: 100},
		{ID: "OPS-02", Category: "OPS", Prompt: "On-time delivery rate", Weight: 1.5, MinValue: 0, MaxValue: 100},
		{ID: "OPS-03", Category: "OPS", Prompt: "Rework frequency", Weight: 1, MinValue: 0, MaxValue: 10, Invert: true},
		{ID: "OPS-04", Category: "OPS", Prompt: "Capacity headroom", Weight: 1, MinValue: 0, MaxValue: 100},
		{ID: "OPS-05", Category: "OPS", Prompt: "Supplier reliability", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "TEC-01", Category: "TEC", Prompt: "Systems fit for purpose", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "TEC-02", Category: "TEC", Prompt: "Backup and recovery readiness", Weight: 1.5, MinValue: 0, MaxValue: 10},
		{ID: "TEC-03", Category: "TEC", Prompt: "Manual re-entry points", Weight: 1, MinValue: 0, MaxValue: 10, Invert: true},
		{ID: "TEC-04", Category: "TEC", Prompt: "Security hygiene", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "FIN-01", Category: "FIN", Prompt: "Monthly management accounts", Weight: 1.5, MinValue: 0, MaxValue: 10},
		{ID: "FIN-02", Category: "FIN", Prompt: "Gross margin vs plan", Weight: 1.5, MinValue: 0, MaxValue: 100},
		{ID: "FIN-03", Category: "FIN", Prompt: "Cash runway weeks", Weight: 1.5, MinValue: 0, MaxValue: 26},
		{ID: "FIN-04", Category: "FIN", Prompt: "Invoice collection days", Weight: 1, MinValue: 0, MaxValue: 90, Invert: true},
		{ID: "FIN-05", Category: "FIN", Prompt: "Pricing reviewed in last year", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "RSK-01", Category: "RSK", Prompt: "Top customer revenue share", Weight: 1.5, MinValue: 0, MaxValue: 100, Invert: true},
		{ID: "RSK-02", Category: "RSK", Prompt: "Key person cover", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "RSK-03", Category: "RSK", Prompt: "Insurance coverage breadth", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "RSK-04", Category: "RSK", Prompt: "Compliance obligations tracked", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "HRM-01", Category: "HRM", Prompt: "Roles with written expectations", Weight: 1, MinValue: 0, MaxValue: 100},
		{ID: "HRM-02", Category: "HRM", Prompt: "Annual staff turnover", Weight: 1.5, MinValue: 0, MaxValue: 100, Invert: true},
		{ID: "HRM-03", Category: "HRM", Prompt: "Training hours per head", Weight: 1, MinValue: 0, MaxValue: 40},
		{ID: "HRM-04", Category: "HRM", Prompt: "Hiring lead time", Weight: 0.5, MinValue: 0, MaxValue: 12, Invert: true},
		{ID: "HRM-05", Category: "HRM", Prompt: "Team engagement pulse", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "LDR-01", Category: "LDR", Prompt: "Owner hours in delivery work", Weight: 1.5, MinValue: 0, MaxValue: 100, Invert: true},
		{ID: "LDR-02", Category: "LDR", Prompt: "Decisions delegated below owner", Weight: 1, MinValue: 0, MaxValue: 100},
		{ID: "LDR-03", Category: "LDR", Prompt: "Management meeting rhythm", Weight: 1, MinValue: 0, MaxValue: 10},
		{ID: "LDR-04", Category: "LDR", Prompt: "Succession readiness", Weight: 1, MinValue: 0, MaxValue: 10},
	}
}

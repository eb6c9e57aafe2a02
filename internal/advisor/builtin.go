package advisor

import "github.com/opensource-safety/kestrel/internal/domain"

// BuiltinRules returns the default advisory rule set loaded at startup.
// Tenants can replace these via the rules API.
func BuiltinRules() []*domain.AdvisoryRule {
	return []*domain.AdvisoryRule{
		{
			ID:          "advisory-high-risk-followup",
			Name:        "High risk follow-up",
			Description: "A high-risk bathroom needs a re-audit after remediation",
			Version:     "1.0.0",
			Expression:  `level == 'high-risk'`,
			Message:     "Overall risk is high — schedule a remediation follow-up audit within 30 days",
			Severity:    domain.SeverityHigh,
			Enabled:     true,
		},
		{
			ID:          "advisory-flag-cluster",
			Name:        "Hazard cluster",
			Description: "Many distinct hazards usually indicate neglected maintenance",
			Version:     "1.0.0",
			Expression:  `flag_count >= 5`,
			Message:     "Five or more distinct hazards found — consider a full maintenance review",
			Severity:    domain.SeverityMedium,
			Enabled:     true,
		},
		{
			ID:          "advisory-empty-submission",
			Name:        "Empty submission",
			Description: "A submission without section data should not be treated as a safe bathroom",
			Version:     "1.0.0",
			Expression:  `!has_any_data`,
			Message:     "No section data recorded — the score does not reflect an inspection",
			Severity:    domain.SeverityMedium,
			Enabled:     true,
		},
	}
}

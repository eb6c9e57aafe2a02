package domain

import "time"

// AdvisoryRule defines a tenant-configurable follow-up rule evaluated
// after scoring. Rules are CEL expressions over the answer map and the
// scoring result; a rule that evaluates to true attaches an
// AdvisoryNotice to the assessment. Advisory rules never change the
// score or level produced by the scoring engine.
type AdvisoryRule struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenantId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`

	// CEL expression. Available variables: answers (map), score (int),
	// level (string), has_any_data (bool), flag_count (int).
	Expression string `json:"expression"`

	// Notice emitted when the expression is true
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`

	// Whether rule is active
	Enabled bool `json:"enabled"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// AdvisoryNotice is the output of a triggered advisory rule.
type AdvisoryNotice struct {
	RuleID   string   `json:"ruleId"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

package domain

import (
	"time"
)

// AnswerMap is the flat answer map produced by the survey front end.
// Keys follow the "<section>-<field>" convention (e.g. "2-antiskid-avail");
// user-profile keys are prefixed per user (e.g. "u1-age"). Values are
// strings for select/text inputs, bools for checkboxes, and may arrive as
// JSON numbers when clients send numeric fields unquoted.
type AnswerMap map[string]any

// Severity classifies a hazard flag.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Rank returns the sort rank of a severity. Lower sorts first.
// Unknown severities rank last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	}
	return 3
}

// RiskLevel is the qualitative banding of an overall score.
type RiskLevel string

const (
	LevelSafe     RiskLevel = "safe"
	LevelCaution  RiskLevel = "caution"
	LevelAtRisk   RiskLevel = "at-risk"
	LevelHighRisk RiskLevel = "high-risk"
)

// Flag is a single hazard finding surfaced to the auditor.
type Flag struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	Section  int      `json:"section"`
}

// SectionScore is the per-section sub-score. Score is nil when the
// section has no scorable rules or no answered fields.
type SectionScore struct {
	Score   *int   `json:"score"`
	Name    string `json:"name"`
	HasData bool   `json:"hasData"`
}

// RiskAssessment is the complete output of the scoring engine.
type RiskAssessment struct {
	Score         int                  `json:"score"`
	Level         RiskLevel            `json:"level"`
	SectionScores map[int]SectionScore `json:"sectionScores"`
	Flags         []Flag               `json:"flags"`
	HasAnyData    bool                 `json:"hasAnyData"`
}

// Assessment is a stored, enriched scoring result for a submitted audit.
type Assessment struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	AuditID  string `json:"auditId"`

	Result RiskAssessment `json:"result"`

	// Advisory notices from tenant-configured follow-up rules.
	// These never influence Result.
	Notices []AdvisoryNotice `json:"notices,omitempty"`

	Timestamp time.Time          `json:"timestamp"`
	Metadata  AssessmentMetadata `json:"metadata"`
}

// AssessmentMetadata contains processing information.
type AssessmentMetadata struct {
	TraceID          string `json:"traceId,omitempty"`
	ScoringMs        int64  `json:"scoringMs"`
	AdvisoryMs       int64  `json:"advisoryMs"`
	TotalMs          int64  `json:"totalMs"`
	AdvisoryRulesRun int    `json:"advisoryRulesRun"`
	EngineVersion    string `json:"engineVersion"`
}

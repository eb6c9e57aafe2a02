package domain

import (
	"time"
)

// Audit represents a submitted bathroom-safety audit.
type Audit struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`

	// Submission metadata captured by the survey app
	Auditor   string `json:"auditor"`
	Location  string `json:"location"`
	AuditDate string `json:"auditDate"` // YYYY-MM-DD as entered

	// The flat answer map
	Answers AnswerMap `json:"answers"`

	CreatedAt time.Time `json:"createdAt"`
}

// AuditRequest is the API request payload for audit submission.
type AuditRequest struct {
	Auditor   string    `json:"auditor"`
	Location  string    `json:"location"`
	AuditDate string    `json:"auditDate"`
	Answers   AnswerMap `json:"answers"`
}

// ToAudit converts a request to an Audit domain object.
func (r *AuditRequest) ToAudit(tenantID string) *Audit {
	answers := r.Answers
	if answers == nil {
		answers = AnswerMap{}
	}
	return &Audit{
		TenantID:  tenantID,
		Auditor:   r.Auditor,
		Location:  r.Location,
		AuditDate: r.AuditDate,
		Answers:   answers,
		CreatedAt: time.Now().UTC(),
	}
}

// ScoreRequest is the API request payload for stateless scoring.
type ScoreRequest struct {
	Answers AnswerMap `json:"answers"`
}

// AuditResponse is the API response for an audit submission.
type AuditResponse struct {
	AuditID      string           `json:"auditId"`
	AssessmentID string           `json:"assessmentId"`
	TenantID     string           `json:"tenantId"`
	Result       RiskAssessment   `json:"result"`
	Notices      []AdvisoryNotice `json:"notices,omitempty"`
	Metadata     AssessmentMetadata `json:"metadata"`
}

// ToResponse converts a stored assessment to an API response.
func (a *Assessment) ToResponse() *AuditResponse {
	return &AuditResponse{
		AuditID:      a.AuditID,
		AssessmentID: a.ID,
		TenantID:     a.TenantID,
		Result:       a.Result,
		Notices:      a.Notices,
		Metadata:     a.Metadata,
	}
}

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opensource-safety/kestrel/internal/activity"
	"github.com/opensource-safety/kestrel/internal/advisor"
	"github.com/opensource-safety/kestrel/internal/domain"
	"github.com/opensource-safety/kestrel/internal/engine"
	"github.com/opensource-safety/kestrel/internal/schema"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo     domain.Repository
	cache    domain.Cache
	bus      domain.EventBus
	advisor  *advisor.Advisor
	activity *activity.Service
	version  string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, adv *advisor.Advisor, act *activity.Service, version string) *Handler {
	return &Handler{
		repo:     repo,
		cache:    cache,
		bus:      bus,
		advisor:  adv,
		activity: act,
		version:  version,
	}
}

// assessmentTTL is how long scored assessments stay cached.
const assessmentTTL = time.Hour

// ScoreResponse is the response for POST /score.
type ScoreResponse struct {
	Result   domain.RiskAssessment     `json:"result"`
	Notices  []domain.AdvisoryNotice   `json:"notices,omitempty"`
	Metadata domain.AssessmentMetadata `json:"metadata"`
}

// Score handles POST /score requests. Nothing is persisted; the survey
// renderer calls this for live feedback while the auditor fills the form.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	traceID := GetTraceID(ctx)

	var req domain.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	scoringStart := time.Now()
	result := engine.Score(req.Answers)
	scoringMs := time.Since(scoringStart).Milliseconds()

	advisoryStart := time.Now()
	var notices []domain.AdvisoryNotice
	var rulesRun int
	if h.advisor != nil {
		notices, rulesRun = h.advisor.Evaluate(ctx, req.Answers, &result)
	}
	advisoryMs := time.Since(advisoryStart).Milliseconds()

	writeJSON(w, http.StatusOK, ScoreResponse{
		Result:  result,
		Notices: notices,
		Metadata: domain.AssessmentMetadata{
			TraceID:          traceID,
			ScoringMs:        scoringMs,
			AdvisoryMs:       advisoryMs,
			TotalMs:          time.Since(start).Milliseconds(),
			AdvisoryRulesRun: rulesRun,
			EngineVersion:    h.version,
		},
	})
}

// SubmitAudit handles POST /audits requests: validate, persist the audit,
// score it synchronously, persist and cache the assessment, publish events.
func (h *Handler) SubmitAudit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	traceID := GetTraceID(ctx)

	var req domain.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	// Validate submission metadata and required survey fields
	if errs := schema.ValidateSubmission(req.Auditor, req.Location, req.AuditDate, req.Answers); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": errs,
		})
		return
	}

	audit := req.ToAudit(tenantID)
	audit.ID = uuid.New().String()

	if h.repo != nil {
		if err := h.repo.SaveAudit(ctx, tenantID, audit); err != nil {
			slog.Error("failed to save audit", "audit_id", audit.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save audit",
			})
			return
		}
	}

	// Score synchronously
	scoringStart := time.Now()
	result := engine.Score(audit.Answers)
	scoringMs := time.Since(scoringStart).Milliseconds()

	advisoryStart := time.Now()
	var notices []domain.AdvisoryNotice
	var rulesRun int
	if h.advisor != nil {
		notices, rulesRun = h.advisor.Evaluate(ctx, audit.Answers, &result)
	}
	advisoryMs := time.Since(advisoryStart).Milliseconds()

	assessment := &domain.Assessment{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		AuditID:   audit.ID,
		Result:    result,
		Notices:   notices,
		Timestamp: time.Now().UTC(),
		Metadata: domain.AssessmentMetadata{
			TraceID:          traceID,
			ScoringMs:        scoringMs,
			AdvisoryMs:       advisoryMs,
			TotalMs:          time.Since(start).Milliseconds(),
			AdvisoryRulesRun: rulesRun,
			EngineVersion:    h.version,
		},
	}

	if h.repo != nil {
		if err := h.repo.SaveAssessment(ctx, tenantID, assessment); err != nil {
			slog.Error("failed to save assessment", "audit_id", audit.ID, "error", err)
		}
	}

	if h.cache != nil {
		if err := h.cache.SetAssessmentByAudit(ctx, tenantID, audit.ID, assessment, assessmentTTL); err != nil {
			slog.Warn("failed to cache assessment", "audit_id", audit.ID, "error", err)
		}
	}

	if h.activity != nil {
		if _, err := h.activity.RecordSubmission(ctx, tenantID, audit.Location, 24*time.Hour); err != nil {
			slog.Warn("failed to record submission activity", "location", audit.Location, "error", err)
		}
	}

	h.publishEvents(ctx, tenantID, assessment)

	writeJSON(w, http.StatusCreated, assessment.ToResponse())
}

// publishEvents publishes the scored event, plus an alert when the
// bathroom landed in the at-risk or high-risk band.
func (h *Handler) publishEvents(ctx context.Context, tenantID string, assessment *domain.Assessment) {
	if h.bus == nil {
		return
	}

	payload, err := json.Marshal(assessment)
	if err != nil {
		slog.Error("failed to marshal assessment event", "error", err)
		return
	}

	if err := h.bus.Publish(ctx, tenantID, domain.TopicAuditScored, payload); err != nil {
		slog.Error("failed to publish scored event", "audit_id", assessment.AuditID, "error", err)
	}

	if assessment.Result.Level == domain.LevelAtRisk || assessment.Result.Level == domain.LevelHighRisk {
		if err := h.bus.Publish(ctx, tenantID, domain.TopicAuditAlert, payload); err != nil {
			slog.Error("failed to publish alert", "audit_id", assessment.AuditID, "error", err)
		}
	}
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	// Check repository health
	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	// Check cache health
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// GetAudit retrieves an audit by ID.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	auditID := chi.URLParam(r, "id")

	if auditID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "audit id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	audit, err := h.repo.GetAudit(ctx, tenantID, auditID)
	if err != nil {
		slog.Error("failed to get audit", "id", auditID, "error", err)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "audit not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, audit)
}

// GetAuditAssessment retrieves the latest assessment for an audit,
// checking the cache before the repository.
func (h *Handler) GetAuditAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	auditID := chi.URLParam(r, "id")

	if auditID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "audit id is required",
		})
		return
	}

	// Cache first
	if h.cache != nil {
		cached, err := h.cache.GetAssessmentByAudit(ctx, tenantID, auditID)
		if err != nil {
			slog.Warn("assessment cache lookup failed", "audit_id", auditID, "error", err)
		} else if cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	assessment, err := h.repo.GetAssessmentByAudit(ctx, tenantID, auditID)
	if err != nil {
		slog.Error("failed to get assessment for audit", "audit_id", auditID, "error", err)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "assessment not found",
		})
		return
	}

	// Populate cache for next time
	if h.cache != nil {
		_ = h.cache.SetAssessmentByAudit(ctx, tenantID, auditID, assessment, assessmentTTL)
	}

	writeJSON(w, http.StatusOK, assessment)
}

// GetAuditReport renders an audit's answers as display rows.
func (h *Handler) GetAuditReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	auditID := chi.URLParam(r, "id")

	if auditID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "audit id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	audit, err := h.repo.GetAudit(ctx, tenantID, auditID)
	if err != nil {
		slog.Error("failed to get audit", "id", auditID, "error", err)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "audit not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"auditId":   audit.ID,
		"auditor":   audit.Auditor,
		"location":  audit.Location,
		"auditDate": audit.AuditDate,
		"sections":  schema.BuildReportRows(audit.Answers),
	})
}

// GetAssessment retrieves an assessment by ID.
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	assessmentID := chi.URLParam(r, "id")

	if assessmentID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "assessment id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	assessment, err := h.repo.GetAssessment(ctx, tenantID, assessmentID)
	if err != nil {
		slog.Error("failed to get assessment", "id", assessmentID, "error", err)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "assessment not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// ListSections returns the survey section metadata.
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections := schema.List()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sections": sections,
		"count":    len(sections),
	})
}

// GetSection returns a single survey section by number.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	num, err := strconv.Atoi(chi.URLParam(r, "num"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "section number must be an integer",
		})
		return
	}

	section, ok := schema.Get(num)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "section not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, section)
}

// ListRules returns all advisory rules loaded in the advisor.
// Rules are loaded from the database at startup and can be reloaded via POST /rules/reload.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	loadedRules := h.advisor.GetLoadedRules()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rules":  loadedRules,
		"count":  len(loadedRules),
		"source": "database",
	})
}

// GetRule retrieves an advisory rule by ID from the loaded advisor rules.
func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")

	if ruleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule id is required",
		})
		return
	}

	for _, rule := range h.advisor.GetLoadedRules() {
		if rule.ID == ruleID {
			writeJSON(w, http.StatusOK, rule)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "rule not found",
	})
}

// CreateRuleRequest is the request body for creating an advisory rule.
type CreateRuleRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Expression  string          `json:"expression"`
	Message     string          `json:"message"`
	Severity    domain.Severity `json:"severity"`
	Enabled     bool            `json:"enabled"`
}

// GlobalTenantID is used for advisory rules that apply to all tenants.
const GlobalTenantID = "*"

// CreateRule creates a new advisory rule and saves it to the database.
// Rules are saved globally (tenant_id = "*") so they apply to all tenants.
// After saving, call POST /rules/reload to hot-reload into the advisor.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	// Validate
	if req.ID == "" || req.Name == "" || req.Expression == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "id, name, expression, and message are required",
		})
		return
	}
	if req.Severity == "" {
		req.Severity = domain.SeverityMedium
	}
	if req.Severity.Rank() > domain.SeverityMedium.Rank() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "severity must be critical, high, or medium",
		})
		return
	}

	rule := &domain.AdvisoryRule{
		ID:          req.ID,
		TenantID:    GlobalTenantID,
		Name:        req.Name,
		Description: req.Description,
		Version:     "1.0.0",
		Expression:  req.Expression,
		Message:     req.Message,
		Severity:    req.Severity,
		Enabled:     req.Enabled,
	}

	// Validate CEL expression by attempting to load
	if err := h.advisor.LoadRule(rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid CEL expression: " + err.Error(),
		})
		return
	}

	// Persist to repository (global tenant ID)
	if h.repo != nil {
		if err := h.repo.SaveAdvisoryRule(ctx, GlobalTenantID, rule); err != nil {
			slog.Error("failed to save advisory rule", "id", rule.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save rule",
			})
			return
		}
	}

	slog.Info("advisory rule created", "id", rule.ID, "name", rule.Name)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"rule":    rule,
		"message": "Rule created. Call POST /rules/reload to apply changes.",
	})
}

// ReloadRules reloads all advisory rules from the database into the advisor.
// This enables hot-reloading without server restart.
func (h *Handler) ReloadRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	dbRules, err := h.repo.ListAdvisoryRules(ctx, GlobalTenantID)
	if err != nil {
		slog.Error("failed to list advisory rules from database", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load rules from database",
		})
		return
	}

	if err := h.advisor.ReloadRules(dbRules); err != nil {
		slog.Error("failed to reload advisory rules", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to reload rules: " + err.Error(),
		})
		return
	}

	slog.Info("advisory rules reloaded from database", "count", len(dbRules))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "rules reloaded successfully",
		"count":   len(dbRules),
	})
}

// defaultActivityWindowSecs is 30 days.
const defaultActivityWindowSecs = 30 * 24 * 60 * 60

// GetLocationActivity returns the number of audits recorded for a
// location within a window (?window= seconds, default 30 days).
func (h *Handler) GetLocationActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	location := chi.URLParam(r, "id")

	if location == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "location id is required",
		})
		return
	}

	if h.activity == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "activity service not available",
		})
		return
	}

	windowSecs := defaultActivityWindowSecs
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "window must be a positive integer of seconds",
			})
			return
		}
		windowSecs = parsed
	}

	count, err := h.activity.GetAuditCount(ctx, tenantID, location, windowSecs)
	if err != nil {
		slog.Error("failed to get audit count", "location", location, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get audit activity",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"location":   location,
		"windowSecs": windowSecs,
		"auditCount": count,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

//go:build integration
// +build integration

// Package integration provides end-to-end tests for the Kestrel risk scoring engine.
//
// These tests verify the COMPLETE audit pipeline:
//
//	Submission → Validation → Scoring → Advisory → Persistence → Report
//
// Run with: go test -tags=integration -v ./tests/integration/...
//
// UNDERSTANDING THE DOMAIN:
//
// 1. AUDIT: A bathroom safety survey submitted by an auditor for a location.
//    Answers are a flat map keyed "{section}-{field}" (e.g. "2-antiskid-avail").
//
// 2. RULE: A hazard pattern. Each deduction rule has:
//   - A trigger value for one answer key (e.g. "no", "high-risk")
//   - A point deduction (subtracted from a starting score of 100)
//   - A severity (critical / high / medium)
//
// 3. PROFILE MULTIPLIER: Users aged 60+ increase critical/high deductions
//    (x1.15 at 60, x1.30 at 70) because falls hit the elderly harder.
//
// 4. RISK LEVEL: The final score maps to a band:
//   - Score >= 80 → safe
//   - Score >= 60 → caution
//   - Score >= 40 → at-risk
//   - Score <  40 → high-risk
//
// 5. ADVISORY: CEL expressions evaluated after scoring that attach
//    non-blocking notices (e.g. follow-up recommended for high-risk).
//
// Builtin advisory rules ship with the binary. Tenant rules can be added
// via POST /rules and hot-reloaded with POST /rules/reload.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// TestConfig holds test environment configuration
type TestConfig struct {
	BaseURL  string
	TenantID string
}

func getTestConfig() TestConfig {
	baseURL := os.Getenv("KESTREL_TEST_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return TestConfig{
		BaseURL:  baseURL,
		TenantID: "test-tenant",
	}
}

// ============================================================================
// API Request/Response Types (matching Kestrel's API contract)
// ============================================================================

// AuditRequest is the payload sent to POST /audits
type AuditRequest struct {
	Auditor   string         `json:"auditor"`
	Location  string         `json:"location"`
	AuditDate string         `json:"auditDate"`
	Answers   map[string]any `json:"answers"`
}

// AuditResponse is what POST /audits returns
type AuditResponse struct {
	AssessmentID string           `json:"assessmentId"`
	AuditID      string           `json:"auditId"`
	Result       RiskResult       `json:"result"`
	Notices      []AdvisoryNotice `json:"notices"`
	Metadata     ResponseMetadata `json:"metadata"`
}

// ScoreResponse is what POST /score returns
type ScoreResponse struct {
	Result   RiskResult       `json:"result"`
	Notices  []AdvisoryNotice `json:"notices"`
	Metadata ResponseMetadata `json:"metadata"`
}

type RiskResult struct {
	Score        float64       `json:"score"`
	Level        string        `json:"level"`
	FlaggedCount int           `json:"flaggedCount"`
	Flagged      []FlaggedItem `json:"flagged"`
	HasAnyData   bool          `json:"hasAnyData"`
}

type FlaggedItem struct {
	Key      string  `json:"key"`
	Flag     string  `json:"flag"`
	Severity string  `json:"severity"`
	Points   float64 `json:"points"`
}

type AdvisoryNotice struct {
	RuleID   string `json:"ruleId"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type ResponseMetadata struct {
	TraceID          string `json:"traceId"`
	ScoringMs        int64  `json:"scoringMs"`
	AdvisoryMs       int64  `json:"advisoryMs"`
	TotalMs          int64  `json:"totalMs"`
	AdvisoryRulesRun int    `json:"advisoryRulesRun"`
	EngineVersion    string `json:"engineVersion"`
}

// ============================================================================
// Test Helper Functions
// ============================================================================

func doJSON(t *testing.T, config TestConfig, method, path string, payload any, wantStatus int, out any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequest(method, config.BaseURL+path, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-ID", config.TenantID)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode != wantStatus {
		t.Fatalf("Expected status %d, got %d: %s", wantStatus, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			t.Fatalf("Failed to unmarshal response: %v (body: %s)", err, string(respBody))
		}
	}
}

// safeAnswers covers every required field with a hazard-free value.
func safeAnswers() map[string]any {
	return map[string]any{
		"1-floor-type": "anti-skid-tiles", "1-floor-avail": "yes",
		"1-floor-quality": "good", "1-wall-type": "ceramic-tiles",
		"1-washroom-light": "bright",
		"2-bucket-avail":   "yes", "2-antiskid-avail": "yes", "2-pvcmat-avail": "yes",
		"3-commode-type": "western", "3-commode-cond": "good",
		"3-flush": "working-good", "3-washbasin": "good", "3-faucets": "working-good",
		"4-slab-corner": "no-risk", "4-bidet-edges": "no-risk",
		"4-protruding": "none", "4-electric-risk": "no-risk",
		"4-shower-drain": "working-well",
		"6-config-type":  "full-bath",
		"7-power-source": "grid", "7-switchboard": "inside-safe",
		"7-dg": "yes", "7-inv": "yes", "7-geyser": "electric-working",
		"7-pipe-status": "good-insulated",
		"8-step":        "none", "8-level-variation": "none",
		"8-floor-variation": "level", "8-outside-lighting": "bright",
		"8-door-type": "hinged-outward", "8-door-width": "standard",
	}
}

// ============================================================================
// SCENARIO 1: Safe Bathroom (No Deductions)
// ============================================================================

func TestSafeBathroom_ScoresSafe(t *testing.T) {
	/*
	   SCENARIO: A fully equipped bathroom with no hazards

	   EXPECTED BEHAVIOR:
	   - No deduction rule triggers → score stays at 100
	   - Level band: 100 >= 80 → "safe"
	   - No flagged items, no advisory notices
	*/
	config := getTestConfig()

	var result ScoreResponse
	doJSON(t, config, "POST", "/score", map[string]any{"answers": safeAnswers()}, http.StatusOK, &result)

	if result.Result.Level != "safe" {
		t.Errorf("Expected level safe, got %s", result.Result.Level)
	}
	if result.Result.Score != 100 {
		t.Errorf("Expected score 100, got %.2f", result.Result.Score)
	}
	if result.Result.FlaggedCount != 0 {
		t.Errorf("Expected no flags, got %d", result.Result.FlaggedCount)
	}

	t.Logf("✓ Safe bathroom: level=%s, score=%.2f", result.Result.Level, result.Result.Score)
}

// ============================================================================
// SCENARIO 2: Critical Hazards (Level Drops to at-risk)
// ============================================================================

func TestCriticalHazards_AtRisk(t *testing.T) {
	/*
	   SCENARIO: Missing anti-skid mat, exposed electrical risk, sharp slab corner

	   EXPECTED BEHAVIOR:
	   - 2-antiskid-avail "no"        → -20 (critical)
	   - 4-electric-risk "high-risk"  → -20 (critical)
	   - 4-slab-corner "high-risk"    → -15 (high)
	   - Score: 100 - 55 = 45 → 60 > 45 >= 40 → "at-risk"
	   - Three flagged items with severities attached
	*/
	config := getTestConfig()

	answers := safeAnswers()
	answers["2-antiskid-avail"] = "no"
	answers["4-electric-risk"] = "high-risk"
	answers["4-slab-corner"] = "high-risk"

	var result ScoreResponse
	doJSON(t, config, "POST", "/score", map[string]any{"answers": answers}, http.StatusOK, &result)

	if result.Result.Level != "at-risk" {
		t.Errorf("Expected level at-risk, got %s (score %.2f)", result.Result.Level, result.Result.Score)
	}
	if result.Result.Score != 45 {
		t.Errorf("Expected score 45, got %.2f", result.Result.Score)
	}
	if result.Result.FlaggedCount != 3 {
		t.Errorf("Expected 3 flags, got %d", result.Result.FlaggedCount)
	}

	t.Logf("✓ Critical hazards: level=%s, score=%.2f, flags=%d",
		result.Result.Level, result.Result.Score, result.Result.FlaggedCount)
}

// ============================================================================
// SCENARIO 3: Elderly Profile Multiplier
// ============================================================================

func TestElderlyProfile_AmplifiedDeductions(t *testing.T) {
	/*
	   SCENARIO: Same hazards, but the household includes a 72-year-old

	   EXPECTED BEHAVIOR:
	   - Age 72 → multiplier 1.30 on critical and high deductions
	   - antiskid (20 → 26), electric (20 → 26), slab (15 → 19.5 → rounds to 20)
	   - Score drops further than the unprofiled run

	   WHY THIS TEST:
	   The multiplier applies per-deduction with rounding, not to the total.
	*/
	config := getTestConfig()

	answers := safeAnswers()
	answers["2-antiskid-avail"] = "no"
	answers["4-electric-risk"] = "high-risk"
	answers["4-slab-corner"] = "high-risk"
	answers["5-userIds"] = `[1]`
	answers["u1-age"] = "72"

	var result ScoreResponse
	doJSON(t, config, "POST", "/score", map[string]any{"answers": answers}, http.StatusOK, &result)

	if result.Result.Score >= 45 {
		t.Errorf("Expected elderly profile to amplify deductions below 45, got %.2f", result.Result.Score)
	}

	t.Logf("✓ Elderly profile: score=%.2f (amplified from 45)", result.Result.Score)
}

// ============================================================================
// SCENARIO 4: Empty Submission (Advisory Notice)
// ============================================================================

func TestEmptySubmission_AdvisoryNotice(t *testing.T) {
	/*
	   SCENARIO: Scoring an empty answer map

	   EXPECTED BEHAVIOR:
	   - No rules trigger, hasAnyData = false
	   - Builtin advisory rule "advisory-empty-submission" attaches a notice
	*/
	config := getTestConfig()

	var result ScoreResponse
	doJSON(t, config, "POST", "/score", map[string]any{"answers": map[string]any{}}, http.StatusOK, &result)

	if result.Result.HasAnyData {
		t.Errorf("Expected hasAnyData false for empty submission")
	}

	found := false
	for _, n := range result.Notices {
		if n.RuleID == "advisory-empty-submission" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected advisory-empty-submission notice, got %v", result.Notices)
	}

	t.Logf("✓ Empty submission: notices=%d", len(result.Notices))
}

// ============================================================================
// SCENARIO 5: Full Audit Lifecycle
// ============================================================================

func TestAuditLifecycle_SubmitRetrieveReport(t *testing.T) {
	/*
	   SCENARIO: Submit a complete audit, then walk every read path

	   PIPELINE:
	   POST /audits → GET /audits/{id} → GET /audits/{id}/assessment
	   → GET /audits/{id}/report → GET /locations/{id}/activity
	*/
	config := getTestConfig()

	answers := safeAnswers()
	answers["2-antiskid-avail"] = "no"

	location := fmt.Sprintf("integration-flat-%d", time.Now().UnixNano())
	req := AuditRequest{
		Auditor:   "integration-auditor",
		Location:  location,
		AuditDate: time.Now().Format("2006-01-02"),
		Answers:   answers,
	}

	var submitted AuditResponse
	doJSON(t, config, "POST", "/audits", req, http.StatusCreated, &submitted)

	if submitted.AuditID == "" || submitted.AssessmentID == "" {
		t.Fatalf("Expected audit and assessment IDs, got %+v", submitted)
	}
	if submitted.Result.Score != 80 {
		t.Errorf("Expected score 80 (antiskid -20), got %.2f", submitted.Result.Score)
	}

	// Retrieve the stored audit
	var audit map[string]any
	doJSON(t, config, "GET", "/audits/"+submitted.AuditID, nil, http.StatusOK, &audit)
	if audit["location"] != location {
		t.Errorf("Expected location %q, got %v", location, audit["location"])
	}

	// Latest assessment for the audit
	var assessment AuditResponse
	doJSON(t, config, "GET", "/audits/"+submitted.AuditID+"/assessment", nil, http.StatusOK, &assessment)
	if assessment.Result.Score != submitted.Result.Score {
		t.Errorf("Assessment score mismatch: %.2f vs %.2f", assessment.Result.Score, submitted.Result.Score)
	}

	// Rendered report
	var report map[string]any
	doJSON(t, config, "GET", "/audits/"+submitted.AuditID+"/report", nil, http.StatusOK, &report)
	sections, ok := report["sections"].([]any)
	if !ok || len(sections) != 8 {
		t.Errorf("Expected 8 report sections, got %v", report["sections"])
	}

	// Location activity should reflect the submission
	var act map[string]any
	doJSON(t, config, "GET", "/locations/"+location+"/activity", nil, http.StatusOK, &act)
	if count, _ := act["auditCount"].(float64); count < 1 {
		t.Errorf("Expected auditCount >= 1 for %s, got %v", location, act["auditCount"])
	}

	t.Logf("✓ Lifecycle: audit=%s assessment=%s score=%.2f",
		submitted.AuditID, submitted.AssessmentID, submitted.Result.Score)
}

// ============================================================================
// SCENARIO 6: Validation Rejects Incomplete Audits
// ============================================================================

func TestIncompleteAudit_ValidationError(t *testing.T) {
	/*
	   SCENARIO: Submitting an audit missing required metadata and fields

	   EXPECTED BEHAVIOR:
	   - 400 with a fields map naming each missing key
	   - Nothing is persisted (POST /score remains the no-validation path)
	*/
	config := getTestConfig()

	req := AuditRequest{
		Location: "integration-flat-invalid",
		Answers:  map[string]any{"1-floor-type": "anti-skid-tiles"},
	}

	var errResp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	doJSON(t, config, "POST", "/audits", req, http.StatusBadRequest, &errResp)

	if errResp.Fields["meta-auditor"] == "" {
		t.Errorf("Expected meta-auditor validation error, got %v", errResp.Fields)
	}
	if errResp.Fields["2-antiskid-avail"] == "" {
		t.Errorf("Expected 2-antiskid-avail validation error, got %v", errResp.Fields)
	}

	t.Logf("✓ Validation rejected incomplete audit: %d field errors", len(errResp.Fields))
}

// ============================================================================
// SCENARIO 7: Custom Advisory Rule Round-Trip
// ============================================================================

func TestCustomAdvisoryRule_CreateAndTrigger(t *testing.T) {
	/*
	   SCENARIO: Create a tenant advisory rule via API, then trigger it

	   PIPELINE:
	   POST /rules (score < 90) → POST /score with one hazard → notice attached

	   NOTE: Rules load into the advisor on creation; /rules/reload swaps in
	   the persisted set, which drops builtins that were never persisted.
	*/
	config := getTestConfig()

	ruleID := fmt.Sprintf("advisory-integration-%d", time.Now().UnixNano())
	rule := map[string]any{
		"id":         ruleID,
		"name":       "Integration follow-up",
		"expression": "score < 90.0",
		"message":    "Score below 90 - schedule a follow-up visit",
		"severity":   "medium",
		"enabled":    true,
	}

	var created map[string]any
	doJSON(t, config, "POST", "/rules", rule, http.StatusCreated, &created)

	answers := safeAnswers()
	answers["2-antiskid-avail"] = "no" // -20 → score 80

	var result ScoreResponse
	doJSON(t, config, "POST", "/score", map[string]any{"answers": answers}, http.StatusOK, &result)

	found := false
	for _, n := range result.Notices {
		if n.RuleID == ruleID {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected notice from %s, got %v", ruleID, result.Notices)
	}

	t.Logf("✓ Custom rule triggered: %s", ruleID)
}

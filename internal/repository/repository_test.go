package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/opensource-safety/kestrel/internal/domain"
)

func TestSQLiteRepository(t *testing.T) {
	// Create temp database file
	tmpFile, err := os.CreateTemp("", "kestrel-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	cfg := domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	}

	repo, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	tenantID := "tenant-001"

	t.Run("Ping", func(t *testing.T) {
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("SaveAndGetAudit", func(t *testing.T) {
		audit := &domain.Audit{
			ID:        "audit-001",
			Auditor:   "Jane Rivera",
			Location:  "flat-4b",
			AuditDate: "2026-08-28",
			Answers: domain.AnswerMap{
				"2-antiskid-avail": "no",
				"u1-cond-mobility": true,
			},
			CreatedAt: time.Now().UTC(),
		}

		if err := repo.SaveAudit(ctx, tenantID, audit); err != nil {
			t.Fatalf("SaveAudit failed: %v", err)
		}

		retrieved, err := repo.GetAudit(ctx, tenantID, audit.ID)
		if err != nil {
			t.Fatalf("GetAudit failed: %v", err)
		}

		if retrieved.ID != audit.ID {
			t.Errorf("expected ID %s, got %s", audit.ID, retrieved.ID)
		}
		if retrieved.TenantID != tenantID {
			t.Errorf("expected TenantID %s, got %s", tenantID, retrieved.TenantID)
		}
		if retrieved.Answers["2-antiskid-avail"] != "no" {
			t.Errorf("expected answer preserved, got %v", retrieved.Answers["2-antiskid-avail"])
		}
		if retrieved.Answers["u1-cond-mobility"] != true {
			t.Errorf("expected bool answer preserved, got %v", retrieved.Answers["u1-cond-mobility"])
		}
	})

	t.Run("TenantIsolation", func(t *testing.T) {
		otherTenant := "tenant-002"

		// Try to get audit from different tenant
		_, err := repo.GetAudit(ctx, otherTenant, "audit-001")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound for different tenant, got: %v", err)
		}
	})

	t.Run("RequiresTenantID", func(t *testing.T) {
		audit := &domain.Audit{ID: "audit-test"}

		err := repo.SaveAudit(ctx, "", audit)
		if err == nil {
			t.Error("expected error for empty tenantID")
		}

		_, err = repo.GetAudit(ctx, "", "audit-001")
		if err == nil {
			t.Error("expected error for empty tenantID")
		}
	})

	t.Run("GetAuditsByLocation", func(t *testing.T) {
		audit2 := &domain.Audit{
			ID:        "audit-002",
			Auditor:   "Jane Rivera",
			Location:  "flat-4b", // Same location as audit-001
			AuditDate: "2026-08-28",
			Answers:   domain.AnswerMap{"8-step": "none"},
			CreatedAt: time.Now().UTC(),
		}

		if err := repo.SaveAudit(ctx, tenantID, audit2); err != nil {
			t.Fatalf("SaveAudit failed: %v", err)
		}

		since := time.Now().Add(-1 * time.Hour)
		audits, err := repo.GetAuditsByLocation(ctx, tenantID, "flat-4b", since)
		if err != nil {
			t.Fatalf("GetAuditsByLocation failed: %v", err)
		}

		if len(audits) != 2 {
			t.Errorf("expected 2 audits, got %d", len(audits))
		}
	})

	t.Run("SaveAndGetAssessment", func(t *testing.T) {
		score := 44
		assessment := &domain.Assessment{
			ID:      "assessment-001",
			AuditID: "audit-001",
			Result: domain.RiskAssessment{
				Score: 80,
				Level: domain.LevelSafe,
				SectionScores: map[int]domain.SectionScore{
					2: {Score: &score, Name: "Accessories", HasData: true},
				},
				Flags: []domain.Flag{
					{Text: "Anti-skid mat missing — critical fall risk", Severity: domain.SeverityCritical, Section: 2},
				},
				HasAnyData: true,
			},
			Notices: []domain.AdvisoryNotice{
				{RuleID: "advisory-001", Message: "Follow up", Severity: domain.SeverityMedium},
			},
			Timestamp: time.Now().UTC(),
			Metadata:  domain.AssessmentMetadata{TotalMs: 3, EngineVersion: "1.0.0"},
		}

		if err := repo.SaveAssessment(ctx, tenantID, assessment); err != nil {
			t.Fatalf("SaveAssessment failed: %v", err)
		}

		retrieved, err := repo.GetAssessment(ctx, tenantID, assessment.ID)
		if err != nil {
			t.Fatalf("GetAssessment failed: %v", err)
		}

		if retrieved.Result.Score != 80 {
			t.Errorf("expected score 80, got %d", retrieved.Result.Score)
		}
		if retrieved.Result.Level != domain.LevelSafe {
			t.Errorf("expected level safe, got %s", retrieved.Result.Level)
		}
		if len(retrieved.Result.Flags) != 1 {
			t.Errorf("expected 1 flag, got %d", len(retrieved.Result.Flags))
		}
		if ss := retrieved.Result.SectionScores[2]; ss.Score == nil || *ss.Score != 44 {
			t.Errorf("expected section 2 score 44, got %v", ss.Score)
		}
		if len(retrieved.Notices) != 1 {
			t.Errorf("expected 1 notice, got %d", len(retrieved.Notices))
		}
	})

	t.Run("GetAssessmentByAudit", func(t *testing.T) {
		// A re-scored audit keeps both rows; the latest wins
		later := &domain.Assessment{
			ID:      "assessment-002",
			AuditID: "audit-001",
			Result: domain.RiskAssessment{
				Score: 90, Level: domain.LevelSafe,
				SectionScores: map[int]domain.SectionScore{},
				Flags:         []domain.Flag{},
			},
			Timestamp: time.Now().UTC().Add(time.Minute),
			Metadata:  domain.AssessmentMetadata{EngineVersion: "1.0.0"},
		}
		if err := repo.SaveAssessment(ctx, tenantID, later); err != nil {
			t.Fatalf("SaveAssessment failed: %v", err)
		}

		retrieved, err := repo.GetAssessmentByAudit(ctx, tenantID, "audit-001")
		if err != nil {
			t.Fatalf("GetAssessmentByAudit failed: %v", err)
		}
		if retrieved.ID != "assessment-002" {
			t.Errorf("expected latest assessment, got %s", retrieved.ID)
		}
	})

	t.Run("AdvisoryRules", func(t *testing.T) {
		rule := &domain.AdvisoryRule{
			ID:         "advisory-001",
			Name:       "Low score follow-up",
			Version:    "1.0.0",
			Expression: "score < 60",
			Message:    "Schedule a follow-up audit",
			Severity:   domain.SeverityHigh,
			Enabled:    true,
		}

		if err := repo.SaveAdvisoryRule(ctx, tenantID, rule); err != nil {
			t.Fatalf("SaveAdvisoryRule failed: %v", err)
		}

		retrieved, err := repo.GetAdvisoryRule(ctx, tenantID, rule.ID)
		if err != nil {
			t.Fatalf("GetAdvisoryRule failed: %v", err)
		}
		if retrieved.Expression != rule.Expression {
			t.Errorf("expected expression %q, got %q", rule.Expression, retrieved.Expression)
		}
		if retrieved.Severity != domain.SeverityHigh {
			t.Errorf("expected severity high, got %s", retrieved.Severity)
		}

		rules, err := repo.ListAdvisoryRules(ctx, tenantID)
		if err != nil {
			t.Fatalf("ListAdvisoryRules failed: %v", err)
		}
		if len(rules) != 1 {
			t.Errorf("expected 1 rule, got %d", len(rules))
		}

		// Upsert on same id+version updates in place
		rule.Message = "Schedule a follow-up audit within 30 days"
		if err := repo.SaveAdvisoryRule(ctx, tenantID, rule); err != nil {
			t.Fatalf("SaveAdvisoryRule upsert failed: %v", err)
		}
		retrieved, _ = repo.GetAdvisoryRule(ctx, tenantID, rule.ID)
		if retrieved.Message != rule.Message {
			t.Errorf("expected updated message, got %q", retrieved.Message)
		}

		// Soft delete hides the rule from reads
		if err := repo.DeleteAdvisoryRule(ctx, tenantID, rule.ID); err != nil {
			t.Fatalf("DeleteAdvisoryRule failed: %v", err)
		}
		if _, err := repo.GetAdvisoryRule(ctx, tenantID, rule.ID); err != ErrNotFound {
			t.Errorf("expected ErrNotFound after delete, got: %v", err)
		}
		if err := repo.DeleteAdvisoryRule(ctx, tenantID, "nonexistent"); err != ErrNotFound {
			t.Errorf("expected ErrNotFound for missing rule, got: %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetAudit(ctx, tenantID, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}

		_, err = repo.GetAssessment(ctx, tenantID, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}

		_, err = repo.GetAssessmentByAudit(ctx, tenantID, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := domain.RepositoryConfig{
		Driver: "mysql",
	}

	_, err := New(cfg)
	if err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	repo := &SQLRepository{driver: "postgres"}

	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT * FROM t WHERE id = ?", "SELECT * FROM t WHERE id = $1"},
		{"INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"SELECT * FROM t", "SELECT * FROM t"},
	}

	for _, tt := range tests {
		result := repo.rebind(tt.input)
		if result != tt.expected {
			t.Errorf("rebind(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

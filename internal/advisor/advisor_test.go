package advisor

import (
	"context"
	"testing"

	"github.com/opensource-safety/kestrel/internal/domain"
)

func TestAdvisorCreation(t *testing.T) {
	adv, err := New(5)
	if err != nil {
		t.Fatalf("failed to create advisor: %v", err)
	}
	defer adv.Close()

	if adv.RulesCount() != 0 {
		t.Errorf("expected 0 rules, got %d", adv.RulesCount())
	}
}

func TestLoadRule(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	rule := &domain.AdvisoryRule{
		ID:         "test-rule-001",
		Name:       "Test Rule",
		Expression: "score < 50",
		Message:    "Low score",
		Severity:   domain.SeverityHigh,
		Enabled:    true,
	}

	if err := adv.LoadRule(rule); err != nil {
		t.Fatalf("failed to load rule: %v", err)
	}
	if adv.RulesCount() != 1 {
		t.Errorf("expected 1 rule, got %d", adv.RulesCount())
	}
}

func TestLoadInvalidRule(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	rule := &domain.AdvisoryRule{
		ID:         "invalid-rule",
		Expression: "this is not valid CEL !!!",
		Enabled:    true,
	}

	if err := adv.LoadRule(rule); err == nil {
		t.Error("expected error for invalid CEL expression")
	}
}

func TestRejectNonBoolExpression(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	rule := &domain.AdvisoryRule{
		ID:         "non-bool",
		Expression: "score + 1",
		Enabled:    true,
	}

	if err := adv.LoadRule(rule); err == nil {
		t.Error("expected error for non-bool expression")
	}
}

func TestValidateRuleDoesNotLoad(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	rule := &domain.AdvisoryRule{ID: "v1", Expression: "score < 40"}
	if err := adv.ValidateRule(rule); err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if adv.RulesCount() != 0 {
		t.Error("ValidateRule must not load the rule")
	}
}

func TestEvaluateTriggersNotice(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	rules := []*domain.AdvisoryRule{
		{
			ID:         "low-score",
			Name:       "Low score",
			Expression: "score < 50",
			Message:    "Follow up required",
			Severity:   domain.SeverityHigh,
			Enabled:    true,
		},
		{
			ID:         "untriggered",
			Expression: "flag_count > 100",
			Severity:   domain.SeverityMedium,
			Enabled:    true,
		},
		{
			ID:         "disabled",
			Expression: "true",
			Severity:   domain.SeverityCritical,
			Enabled:    false,
		},
	}
	if err := adv.LoadRules(rules); err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}
	if adv.RulesCount() != 2 {
		t.Errorf("expected 2 enabled rules loaded, got %d", adv.RulesCount())
	}

	result := domain.RiskAssessment{Score: 42, Level: domain.LevelAtRisk, HasAnyData: true}
	notices, evaluated := adv.Evaluate(context.Background(), domain.AnswerMap{}, &result)

	if evaluated != 2 {
		t.Errorf("expected 2 rules evaluated, got %d", evaluated)
	}
	if len(notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notices))
	}
	if notices[0].RuleID != "low-score" || notices[0].Message != "Follow up required" {
		t.Errorf("unexpected notice %+v", notices[0])
	}
}

func TestEvaluateAnswerExpression(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	rule := &domain.AdvisoryRule{
		ID:         "dim-night-path",
		Expression: `'8-outside-lighting' in answers && answers['8-outside-lighting'] == 'dim'`,
		Message:    "Improve lighting on the night path",
		Severity:   domain.SeverityMedium,
		Enabled:    true,
	}
	if err := adv.LoadRule(rule); err != nil {
		t.Fatalf("failed to load rule: %v", err)
	}

	result := domain.RiskAssessment{Score: 92, Level: domain.LevelSafe, HasAnyData: true}

	notices, _ := adv.Evaluate(context.Background(), domain.AnswerMap{"8-outside-lighting": "dim"}, &result)
	if len(notices) != 1 {
		t.Fatalf("expected notice for dim lighting, got %d", len(notices))
	}

	notices, _ = adv.Evaluate(context.Background(), domain.AnswerMap{"8-outside-lighting": "bright"}, &result)
	if len(notices) != 0 {
		t.Errorf("expected no notice for bright lighting, got %d", len(notices))
	}
}

func TestEvaluateRuntimeErrorProducesNoNotice(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	// Indexing a missing key errors at runtime; the rule is counted but
	// emits nothing.
	rule := &domain.AdvisoryRule{
		ID:         "missing-key",
		Expression: `answers['never-present'] == 'x'`,
		Enabled:    true,
	}
	if err := adv.LoadRule(rule); err != nil {
		t.Fatalf("failed to load rule: %v", err)
	}

	result := domain.RiskAssessment{Score: 100, Level: domain.LevelSafe}
	notices, evaluated := adv.Evaluate(context.Background(), domain.AnswerMap{}, &result)
	if evaluated != 1 {
		t.Errorf("expected 1 rule evaluated, got %d", evaluated)
	}
	if len(notices) != 0 {
		t.Errorf("expected no notices, got %d", len(notices))
	}
}

func TestNoticeOrdering(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	rules := []*domain.AdvisoryRule{
		{ID: "b-medium", Expression: "true", Severity: domain.SeverityMedium, Enabled: true},
		{ID: "a-critical", Expression: "true", Severity: domain.SeverityCritical, Enabled: true},
		{ID: "c-high", Expression: "true", Severity: domain.SeverityHigh, Enabled: true},
	}
	if err := adv.LoadRules(rules); err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}

	result := domain.RiskAssessment{Score: 10, Level: domain.LevelHighRisk}
	notices, _ := adv.Evaluate(context.Background(), nil, &result)
	if len(notices) != 3 {
		t.Fatalf("expected 3 notices, got %d", len(notices))
	}
	want := []string{"a-critical", "c-high", "b-medium"}
	for i, id := range want {
		if notices[i].RuleID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, notices[i].RuleID)
		}
	}
}

func TestReloadRules(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	if err := adv.LoadRule(&domain.AdvisoryRule{ID: "old", Expression: "true", Enabled: true}); err != nil {
		t.Fatalf("failed to load rule: %v", err)
	}

	err := adv.ReloadRules([]*domain.AdvisoryRule{
		{ID: "new-1", Expression: "score < 80", Enabled: true},
		{ID: "new-2", Expression: "flag_count > 0", Enabled: true},
	})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if adv.RulesCount() != 2 {
		t.Errorf("expected 2 rules after reload, got %d", adv.RulesCount())
	}
	for _, r := range adv.GetLoadedRules() {
		if r.ID == "old" {
			t.Error("expected old rule to be gone after reload")
		}
	}
}

func TestBuiltinRulesCompile(t *testing.T) {
	adv, _ := New(5)
	defer adv.Close()

	if err := adv.LoadRules(BuiltinRules()); err != nil {
		t.Fatalf("builtin rules must compile: %v", err)
	}
	if adv.RulesCount() == 0 {
		t.Error("expected builtin rules loaded")
	}

	// An empty submission trips the empty-submission builtin
	result := domain.RiskAssessment{Score: 100, Level: domain.LevelSafe, HasAnyData: false}
	notices, _ := adv.Evaluate(context.Background(), domain.AnswerMap{}, &result)
	found := false
	for _, n := range notices {
		if n.RuleID == "advisory-empty-submission" {
			found = true
		}
	}
	if !found {
		t.Error("expected empty-submission notice")
	}
}

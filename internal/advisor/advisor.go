// Package advisor provides the CEL-Go based advisory rule engine.
// Advisory rules are tenant-configured follow-up checks layered on top
// of the fixed scoring engine: a triggered rule attaches a notice to
// the assessment but never changes the score or level.
package advisor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/opensource-safety/kestrel/internal/domain"
)

// Advisor is the CEL-based advisory rule engine.
type Advisor struct {
	mu            sync.RWMutex
	env           *cel.Env
	compiledRules map[string]*CompiledRule
	maxWorkers    int
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Config  *domain.AdvisoryRule
	Program cel.Program
}

// New creates a new advisory rule engine.
func New(maxWorkers int) (*Advisor, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	// CEL environment over the answer map and the scoring result
	env, err := cel.NewEnv(
		cel.Variable("answers", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("score", cel.IntType),
		cel.Variable("level", cel.StringType),
		cel.Variable("has_any_data", cel.BoolType),
		cel.Variable("flag_count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Advisor{
		env:           env,
		compiledRules: make(map[string]*CompiledRule),
		maxWorkers:    maxWorkers,
	}, nil
}

// ValidateRule compiles and validates a rule without loading it.
func (a *Advisor) ValidateRule(cfg *domain.AdvisoryRule) error {
	if cfg == nil {
		return fmt.Errorf("advisory rule config is required")
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	_, err := a.compileRule(cfg)
	return err
}

// LoadRule compiles and loads a rule into the advisor.
func (a *Advisor) LoadRule(cfg *domain.AdvisoryRule) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	compiled, err := a.compileRule(cfg)
	if err != nil {
		return err
	}

	a.compiledRules[cfg.ID] = compiled

	return nil
}

// LoadRules compiles and loads multiple rules. Disabled rules are
// skipped.
func (a *Advisor) LoadRules(configs []*domain.AdvisoryRule) error {
	for _, cfg := range configs {
		if cfg.Enabled {
			if err := a.LoadRule(cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReloadRules clears all existing rules and loads new ones.
// This enables hot-reloading of rules from the database.
func (a *Advisor) ReloadRules(configs []*domain.AdvisoryRule) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	newRules := make(map[string]*CompiledRule)
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		compiled, err := a.compileRule(cfg)
		if err != nil {
			return err
		}
		newRules[cfg.ID] = compiled
	}

	a.compiledRules = newRules

	return nil
}

// Evaluate runs all loaded rules against an answer map and its scoring
// result. It returns the notices of triggered rules, ordered by
// severity then rule ID, plus the number of rules evaluated. Rules
// that error at runtime are counted but produce no notice.
func (a *Advisor) Evaluate(ctx context.Context, answers domain.AnswerMap, result *domain.RiskAssessment) ([]domain.AdvisoryNotice, int) {
	a.mu.RLock()
	rules := make([]*CompiledRule, 0, len(a.compiledRules))
	for _, rule := range a.compiledRules {
		rules = append(rules, rule)
	}
	a.mu.RUnlock()

	if len(rules) == 0 {
		return nil, 0
	}

	if answers == nil {
		answers = domain.AnswerMap{}
	}
	activation := map[string]any{
		"answers":      map[string]any(answers),
		"score":        result.Score,
		"level":        string(result.Level),
		"has_any_data": result.HasAnyData,
		"flag_count":   len(result.Flags),
	}

	// Parallel evaluation with bounded concurrency
	triggered := make([]bool, len(rules))
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.maxWorkers)

	for i, rule := range rules {
		wg.Add(1)
		go func(idx int, r *CompiledRule) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			out, _, err := r.Program.Eval(activation)
			if err != nil {
				return
			}
			if b, ok := out.(types.Bool); ok && bool(b) {
				triggered[idx] = true
			}
		}(i, rule)
	}

	wg.Wait()

	notices := make([]domain.AdvisoryNotice, 0)
	for i, rule := range rules {
		if !triggered[i] {
			continue
		}
		notices = append(notices, domain.AdvisoryNotice{
			RuleID:   rule.Config.ID,
			Name:     rule.Config.Name,
			Message:  rule.Config.Message,
			Severity: rule.Config.Severity,
		})
	}
	sort.Slice(notices, func(i, j int) bool {
		if notices[i].Severity.Rank() != notices[j].Severity.Rank() {
			return notices[i].Severity.Rank() < notices[j].Severity.Rank()
		}
		return notices[i].RuleID < notices[j].RuleID
	})

	return notices, len(rules)
}

// RulesCount returns the number of loaded rules.
func (a *Advisor) RulesCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.compiledRules)
}

// GetLoadedRules returns the currently loaded rule configurations.
func (a *Advisor) GetLoadedRules() []*domain.AdvisoryRule {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rules := make([]*domain.AdvisoryRule, 0, len(a.compiledRules))
	for _, compiled := range a.compiledRules {
		rules = append(rules, compiled.Config)
	}
	return rules
}

// Close cleans up the advisor.
func (a *Advisor) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.compiledRules = make(map[string]*CompiledRule)
	return nil
}

func (a *Advisor) compileRule(cfg *domain.AdvisoryRule) (*CompiledRule, error) {
	ast, issues := a.env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile advisory rule %s: %w", cfg.ID, issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("advisory rule %s: expression must return bool, got %s", cfg.ID, ast.OutputType())
	}

	program, err := a.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for advisory rule %s: %w", cfg.ID, err)
	}

	return &CompiledRule{
		Config:  cfg,
		Program: program,
	}, nil
}

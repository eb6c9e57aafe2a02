// Package engine implements the deterministic bathroom-safety risk
// scoring engine. Scoring is a pure function of the answer map: no I/O,
// no clock, no randomness, and no error path. Malformed or partial
// input degrades gracefully instead of failing.
package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/opensource-safety/kestrel/internal/domain"
)

// Version identifies the scoring semantics. Bump on any change to the
// rule table or aggregation behavior.
const Version = "1.0.0"

// Age thresholds for the deduction multiplier. The multiplier applies
// only to critical and high severity rule deductions; flat user-profile
// deductions stay unamplified.
const (
	elderlyAge        = 70
	seniorAge         = 60
	elderlyMultiplier = 1.30
	seniorMultiplier  = 1.15
)

// Risk level thresholds on the overall 0-100 score.
const (
	safeThreshold    = 80
	cautionThreshold = 60
	atRiskThreshold  = 40
)

// Score evaluates an answer map and returns the complete risk
// assessment. It is total: any map (including nil) yields a result.
func Score(answers domain.AnswerMap) domain.RiskAssessment {
	deductions := make(map[int]int, len(sectionNames))
	maxima := sectionMaxima()
	hasData := make(map[int]bool, len(sectionNames))

	total := 0
	flags := make([]domain.Flag, 0)

	// The profile pass runs first: the age multiplier must be known
	// before any rule deduction is applied.
	multiplier := 1.0
	maxAge := 0
	for _, id := range parseUserIDs(answers) {
		prefix := fmt.Sprintf("u%d", id)

		if v, ok := answers[prefix+"-age"]; ok && isAnswered(v) {
			hasData[5] = true
			if age, ok := ageValue(v); ok && age > maxAge {
				maxAge = age
			}
		}

		if truthy(answers[prefix+"-cond-mobility"]) {
			hasData[5] = true
			deductions[5] += mobilityDeduction
			maxima[5] += mobilityDeduction
			total += mobilityDeduction
			flags = append(flags, domain.Flag{Text: mobilityFlag, Severity: domain.SeverityHigh, Section: 5})
		}

		if path := stringValue(answers[prefix+"-path-access"]); path != "" {
			hasData[5] = true
			switch path {
			case "stairs":
				deductions[5] += stairsDeduction
				maxima[5] += stairsDeduction
				total += stairsDeduction
				flags = append(flags, domain.Flag{Text: stairsFlag, Severity: domain.SeverityHigh, Section: 5})
			case "difficult":
				deductions[5] += difficultDeduction
				maxima[5] += difficultDeduction
				total += difficultDeduction
				flags = append(flags, domain.Flag{Text: difficultFlag, Severity: domain.SeverityMedium, Section: 5})
			}
		}
	}
	if maxAge >= elderlyAge {
		multiplier = elderlyMultiplier
	} else if maxAge >= seniorAge {
		multiplier = seniorMultiplier
	}

	for _, r := range rules {
		v, ok := answers[r.Field]
		if !ok || !isAnswered(v) {
			continue
		}
		hasData[r.Section] = true

		out, matched := r.Values[stringValue(v)]
		if !matched {
			continue
		}

		d := out.Deduction
		if multiplier > 1 && (out.Severity == domain.SeverityCritical || out.Severity == domain.SeverityHigh) {
			d = roundHalfUp(float64(d) * multiplier)
		}
		deductions[r.Section] += d
		total += d

		if out.Flag != "" {
			flags = append(flags, domain.Flag{Text: out.Flag, Severity: out.Severity, Section: r.Section})
		}
	}

	scores := make(map[int]domain.SectionScore, len(sectionNames))
	anyData := false
	for num, name := range sectionNames {
		ss := domain.SectionScore{Name: name, HasData: hasData[num]}
		if hasData[num] {
			anyData = true
		}
		if max := maxima[num]; max > 0 && hasData[num] {
			sub := clamp(100 - roundHalfUp(100*float64(deductions[num])/float64(max)))
			ss.Score = &sub
		}
		scores[num] = ss
	}

	score := clamp(100 - total)
	return domain.RiskAssessment{
		Score:         score,
		Level:         levelFor(score),
		SectionScores: scores,
		Flags:         dedupeAndSort(flags),
		HasAnyData:    anyData,
	}
}

// levelFor maps an overall score to its qualitative band.
func levelFor(score int) domain.RiskLevel {
	switch {
	case score >= safeThreshold:
		return domain.LevelSafe
	case score >= cautionThreshold:
		return domain.LevelCaution
	case score >= atRiskThreshold:
		return domain.LevelAtRisk
	default:
		return domain.LevelHighRisk
	}
}

// parseUserIDs reads the "5-userIds" JSON array maintained by the
// survey app. Absent, empty, or malformed input falls back to a single
// synthetic user so stray u1-* answers still score.
func parseUserIDs(answers domain.AnswerMap) []int {
	raw, _ := answers["5-userIds"].(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int{1}
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil || len(ids) == 0 {
		return []int{1}
	}
	return ids
}

// isAnswered reports whether a field value counts as filled in.
// Empty strings and unchecked checkboxes (false) are unanswered.
func isAnswered(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	}
	return true
}

// stringValue normalizes an answer value for rule matching. Option
// codes arrive as strings; checkbox and numeric values are stringified
// so a rule table lookup simply misses.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

// truthy matches the checkbox convention: bool true or the string
// "true".
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

// ageValue parses an age answer. Strings use a strict integer parse;
// JSON numbers are accepted directly. Unparseable ages count as
// answered data but contribute nothing to the multiplier.
func ageValue(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		age, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return age, true
	case float64:
		return int(t), true
	case int:
		return t, true
	}
	return 0, false
}

// roundHalfUp rounds a non-negative value half away from zero.
func roundHalfUp(v float64) int {
	return int(math.Round(v))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// dedupeAndSort removes duplicate flag texts (first occurrence wins)
// and orders the result critical, high, medium. The sort is stable so
// emission order is preserved within a severity.
func dedupeAndSort(flags []domain.Flag) []domain.Flag {
	seen := make(map[string]bool, len(flags))
	deduped := make([]domain.Flag, 0, len(flags))
	for _, f := range flags {
		if seen[f.Text] {
			continue
		}
		seen[f.Text] = true
		deduped = append(deduped, f)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Severity.Rank() < deduped[j].Severity.Rank()
	})
	return deduped
}

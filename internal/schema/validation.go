package schema

import (
	"math"

	"github.com/opensource-safety/kestrel/internal/domain"
)

// Completion summarizes how much of a section has been filled in.
type Completion struct {
	Filled  int `json:"filled"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// RequiredFields returns the required answer keys for a section.
// Accessory entries contribute their availability key.
func RequiredFields(num int) []string {
	section, ok := sections[num]
	if !ok {
		return nil
	}
	var required []string
	var walk func(fields []Field)
	walk = func(fields []Field) {
		for _, f := range fields {
			if f.Required && f.Key != "" {
				required = append(required, f.Key)
			}
			if len(f.Fields) > 0 {
				walk(f.Fields)
			}
			if f.Type == FieldAccessory && f.Required {
				required = append(required, f.Prefix+"-avail")
			}
		}
	}
	walk(section.Fields)
	return required
}

// AllFieldKeys returns every answer key a section can hold, including
// the free-text comments key, for completion tracking.
func AllFieldKeys(num int) []string {
	section, ok := sections[num]
	if !ok {
		return nil
	}
	var keys []string
	var walk func(fields []Field)
	walk = func(fields []Field) {
		for _, f := range fields {
			if f.Key != "" {
				keys = append(keys, f.Key)
			}
			if len(f.Fields) > 0 {
				walk(f.Fields)
			}
			switch f.Type {
			case FieldAccessory:
				keys = append(keys, f.Prefix+"-avail", f.Prefix+"-cond")
			case FieldAvailCondition:
				keys = append(keys, f.AvailKey, f.CondKey)
			}
		}
	}
	walk(section.Fields)
	keys = append(keys, commentsKey(num))
	return keys
}

// ValidateSubmission checks submission metadata and every required
// section field. It returns a key → message map, empty when valid.
// Section 5 is dynamic and excluded from static required checks.
func ValidateSubmission(auditor, location, date string, answers domain.AnswerMap) map[string]string {
	errors := make(map[string]string)
	if auditor == "" {
		errors["meta-auditor"] = "Required"
	}
	if date == "" {
		errors["meta-date"] = "Required"
	}
	if location == "" {
		errors["meta-location"] = "Required"
	}
	for num := 1; num <= 8; num++ {
		if num == 5 {
			continue
		}
		for _, key := range RequiredFields(num) {
			if !answered(answers[key]) {
				errors[key] = "Required"
			}
		}
	}
	return errors
}

// SectionErrors returns missing required fields for one section.
func SectionErrors(num int, answers domain.AnswerMap) map[string]string {
	if num == 5 {
		return map[string]string{}
	}
	errors := make(map[string]string)
	for _, key := range RequiredFields(num) {
		if !answered(answers[key]) {
			errors[key] = "Required"
		}
	}
	return errors
}

// SectionCompletion reports filled/total across every field in a
// section. Section 5 counts as complete once the first user has basic
// profile data.
func SectionCompletion(num int, answers domain.AnswerMap) Completion {
	if num == 5 {
		if answered(answers["u1-age"]) || answered(answers["u1-relation"]) {
			return Completion{Filled: 1, Total: 1, Percent: 100}
		}
		return Completion{Filled: 0, Total: 1, Percent: 0}
	}

	keys := AllFieldKeys(num)
	total := len(keys)
	if total == 0 {
		return Completion{Percent: 100}
	}
	filled := 0
	for _, key := range keys {
		if answered(answers[key]) {
			filled++
		}
	}
	return Completion{
		Filled:  filled,
		Total:   total,
		Percent: percent(filled, total),
	}
}

// RequiredCompletion reports filled/total across required fields only.
func RequiredCompletion(num int, answers domain.AnswerMap) Completion {
	if num == 5 {
		if answered(answers["u1-age"]) || answered(answers["u1-relation"]) {
			return Completion{Filled: 1, Total: 1, Percent: 100}
		}
		return Completion{Filled: 0, Total: 1, Percent: 0}
	}

	required := RequiredFields(num)
	total := len(required)
	if total == 0 {
		return Completion{Percent: 100}
	}
	filled := 0
	for _, key := range required {
		if answered(answers[key]) {
			filled++
		}
	}
	return Completion{
		Filled:  filled,
		Total:   total,
		Percent: percent(filled, total),
	}
}

func percent(filled, total int) int {
	return int(math.Round(float64(filled) / float64(total) * 100))
}

// answered mirrors the scoring engine's notion of a filled-in field:
// empty strings and unchecked checkboxes do not count.
func answered(v any) bool {
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

package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/opensource-safety/kestrel/internal/domain"
)

// RowType discriminates display rows.
type RowType string

const (
	RowField      RowType = "field"
	RowSubheading RowType = "subheading"
	RowUserHeader RowType = "user-header"
)

// Row is one display-ready line for the report renderer. Raw option
// codes are resolved to their labels; HighRisk marks values that
// warrant hazard styling.
type Row struct {
	Type     RowType `json:"type"`
	Label    string  `json:"label"`
	SubLabel string  `json:"subLabel,omitempty"`
	RawValue string  `json:"rawValue,omitempty"`
	Value    string  `json:"value,omitempty"`
	HighRisk bool    `json:"highRisk"`
}

// SectionReport is the display form of one audit section.
type SectionReport struct {
	SectionNum int    `json:"sectionNum"`
	Title      string `json:"title"`
	Rows       []Row  `json:"rows"`
	Comments   string `json:"comments,omitempty"`
}

var defaultAvailOptions = []Option{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}

var defaultCondOptions = []Option{
	{Value: "good", Label: "Good"},
	{Value: "fair", Label: "Fair"},
	{Value: "poor", Label: "Poor"},
}

// highRiskValues warrant hazard styling in the rendered report.
var highRiskValues = map[string]bool{
	"high-risk":         true,
	"poor":              true,
	"not-working":       true,
	"clogged":           true,
	"overflowing":       true,
	"leaking":           true,
	"damaged":           true,
	"rusted":            true,
	"insufficient":      true,
	"hazardous":         true,
	"tripping-hazard":   true,
	"inside-risk":       true,
	"hooks-sharp":       true,
	"frequent-clog":     true,
	"needs-replacement": true,
}

// IsHighRisk reports whether a raw answer value warrants hazard
// styling.
func IsHighRisk(value string) bool {
	return highRiskValues[value]
}

// ResolveLabel maps a raw option code to its display label. Unknown
// codes and free-text values pass through unchanged.
func ResolveLabel(value string, options []Option) string {
	if value == "" {
		return ""
	}
	if len(options) == 0 {
		return value
	}
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

const valuePlaceholder = "—"

// BuildReportRows converts a raw answer map into display-ready rows
// for every section. Internal bookkeeping keys (5-userIds, 5-nextId)
// never appear: only schema-declared fields are walked.
func BuildReportRows(answers domain.AnswerMap) []SectionReport {
	reports := make([]SectionReport, 0, 8)
	for num := 1; num <= 8; num++ {
		section := sections[num]

		var rows []Row
		if section.Dynamic {
			rows = buildUserRows(section, answers)
		} else {
			rows = make([]Row, 0, len(section.Fields))
			walkFields(section.Fields, answers, &rows, "")
		}

		reports = append(reports, SectionReport{
			SectionNum: num,
			Title:      section.Title,
			Rows:       rows,
			Comments:   answerString(answers[commentsKey(num)]),
		})
	}
	return reports
}

func commentsKey(num int) string {
	return fmt.Sprintf("%d-comments", num)
}

func walkFields(fields []Field, answers domain.AnswerMap, rows *[]Row, prefix string) {
	for _, f := range fields {
		switch f.Type {
		case FieldSubsection:
			*rows = append(*rows, Row{Type: RowSubheading, Label: f.Label})

		case FieldGrid, FieldLabeledGrid:
			if f.Label != "" {
				*rows = append(*rows, Row{Type: RowSubheading, Label: f.Label})
			}
			walkFields(f.Fields, answers, rows, prefix)

		case FieldAccessory:
			availVal := answerString(answers[f.Prefix+"-avail"])
			condVal := answerString(answers[f.Prefix+"-cond"])
			availOpts := f.AvailOptions
			if availOpts == nil {
				availOpts = defaultAvailOptions
			}
			condOpts := f.CondOptions
			if condOpts == nil {
				condOpts = defaultCondOptions
			}

			*rows = append(*rows, Row{
				Type:     RowField,
				Label:    f.Label,
				SubLabel: "Availability",
				RawValue: availVal,
				Value:    orPlaceholder(ResolveLabel(availVal, availOpts)),
				HighRisk: IsHighRisk(availVal),
			})
			// Condition only matters when the item is present
			if availVal == "yes" && condVal != "" {
				*rows = append(*rows, Row{
					Type:     RowField,
					SubLabel: "Condition",
					RawValue: condVal,
					Value:    orPlaceholder(ResolveLabel(condVal, condOpts)),
					HighRisk: IsHighRisk(condVal),
				})
			}

		case FieldAvailCondition:
			availVal := answerString(answers[f.AvailKey])
			condVal := answerString(answers[f.CondKey])

			*rows = append(*rows, Row{
				Type:     RowField,
				Label:    f.Label,
				SubLabel: "Available",
				RawValue: availVal,
				Value:    orPlaceholder(ResolveLabel(availVal, defaultAvailOptions)),
			})
			if availVal == "yes" && condVal != "" {
				condOpts := f.CondOptions
				if condOpts == nil {
					condOpts = defaultCondOptions
				}
				*rows = append(*rows, Row{
					Type:     RowField,
					SubLabel: "Condition",
					RawValue: condVal,
					Value:    orPlaceholder(ResolveLabel(condVal, condOpts)),
					HighRisk: IsHighRisk(condVal),
				})
			}

		case FieldCheckgroup:
			var checked []string
			for _, item := range f.Items {
				key := strings.ReplaceAll(item.FieldKey, "{prefix}", prefix)
				if v := answers[key]; v == true || v == "true" {
					checked = append(checked, item.Label)
				}
			}
			value := valuePlaceholder
			if len(checked) > 0 {
				value = strings.Join(checked, ", ")
			}
			*rows = append(*rows, Row{Type: RowField, Label: f.Label, Value: value})

		default:
			if f.Key == "" {
				continue
			}
			key := strings.ReplaceAll(f.Key, "{prefix}", prefix)
			raw := answerString(answers[key])
			*rows = append(*rows, Row{
				Type:     RowField,
				Label:    f.Label,
				RawValue: raw,
				Value:    orPlaceholder(ResolveLabel(raw, f.Options)),
				HighRisk: IsHighRisk(raw),
			})
		}
	}
}

// buildUserRows expands section 5's per-user field template for every
// recorded user profile.
func buildUserRows(section Section, answers domain.AnswerMap) []Row {
	ids := reportUserIDs(answers)
	if len(ids) == 0 {
		return []Row{{Type: RowField, Label: "No user profiles recorded", Value: valuePlaceholder}}
	}

	var rows []Row
	for _, id := range ids {
		rows = append(rows, Row{Type: RowUserHeader, Label: fmt.Sprintf("User %d", id)})
		walkFields(section.UserFields, answers, &rows, fmt.Sprintf("u%d", id))
	}
	return rows
}

// reportUserIDs parses the user list for display. Unlike scoring, an
// explicitly empty list stays empty here so the report can say so;
// malformed input still falls back to user 1.
func reportUserIDs(answers domain.AnswerMap) []int {
	raw, _ := answers["5-userIds"].(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int{}
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []int{1}
	}
	return ids
}

func orPlaceholder(s string) string {
	if s == "" {
		return valuePlaceholder
	}
	return s
}

// answerString renders any answer value as a string for display.
func answerString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return fmt.Sprintf("%v", v)
}

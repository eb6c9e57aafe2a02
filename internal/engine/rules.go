package engine

import "github.com/opensource-safety/kestrel/internal/domain"

// outcome is what happens when a field holds a risky value: points are
// deducted and, when Flag is non-empty, a hazard flag is raised.
type outcome struct {
	Deduction int
	Flag      string
	Severity  domain.Severity
}

// rule describes one scorable survey field. MaxDeduction is the
// worst-case deduction for the field and seeds the section maximum.
type rule struct {
	Field        string
	Section      int
	MaxDeduction int
	Values       map[string]outcome
}

// sectionNames are the fixed survey sections. Section 6 (Configuration)
// carries no scorable rules and always reports a null sub-score.
var sectionNames = map[int]string{
	1: "Infrastructure",
	2: "Accessories",
	3: "Fixtures",
	4: "Hazards",
	5: "User Profiles",
	6: "Configuration",
	7: "Electrical",
	8: "Access & Exit",
}

// User-profile deductions are flat: they are never age-amplified, and
// each applied deduction grows the section 5 maximum by its own amount.
const (
	mobilityDeduction  = 5
	stairsDeduction    = 8
	difficultDeduction = 6

	mobilityFlag  = "User with mobility issues — all physical hazards carry elevated risk"
	stairsFlag    = "Bathroom path includes stairs — serious fall risk"
	difficultFlag = "Difficult bathroom path access"
)

// rules is the static scoring table. Order matters: flags are
// deduplicated first-occurrence-wins in this order.
var rules = []rule{
	{
		Field: "1-floor-quality", Section: 1, MaxDeduction: 12,
		Values: map[string]outcome{
			"needs-replacement": {12, "Floor needs replacement — slip and trip risk", domain.SeverityHigh},
			"poor":              {8, "Floor in poor condition — slip risk", domain.SeverityHigh},
			"fair":              {4, "", domain.SeverityMedium},
		},
	},
	{
		Field: "1-washroom-light", Section: 1, MaxDeduction: 10,
		Values: map[string]outcome{
			"insufficient": {10, "Insufficient washroom lighting — fall risk especially at night", domain.SeverityHigh},
			"dim":          {6, "Dim washroom lighting — improvement recommended", domain.SeverityMedium},
		},
	},
	{
		Field: "2-antiskid-avail", Section: 2, MaxDeduction: 20,
		Values: map[string]outcome{
			"no": {20, "Anti-skid mat missing — critical fall risk", domain.SeverityCritical},
		},
	},
	{
		Field: "2-antiskid-cond", Section: 2, MaxDeduction: 8,
		Values: map[string]outcome{
			"poor": {8, "Anti-skid mat in poor condition — replace immediately", domain.SeverityHigh},
			"fair": {3, "", domain.SeverityMedium},
		},
	},
	{
		Field: "2-pvcmat-avail", Section: 2, MaxDeduction: 8,
		Values: map[string]outcome{
			"no": {8, "PVC outdoor mat missing — wet entry slip risk", domain.SeverityMedium},
		},
	},
	{
		Field: "3-flush", Section: 3, MaxDeduction: 8,
		Values: map[string]outcome{
			"not-working": {8, "Flush not working", domain.SeverityHigh},
			"leaking":     {6, "Flush leaking — water on floor creates slip risk", domain.SeverityMedium},
		},
	},
	{
		Field: "3-faucets", Section: 3, MaxDeduction: 8,
		Values: map[string]outcome{
			"not-working": {8, "Faucets not working", domain.SeverityHigh},
			"stiff":       {5, "Faucets stiff — difficulty for elderly or arthritic users", domain.SeverityMedium},
		},
	},
	{
		Field: "3-washbasin", Section: 3, MaxDeduction: 6,
		Values: map[string]outcome{
			"cracked":        {6, "Washbasin cracked — injury risk", domain.SeverityHigh},
			"drainage-issue": {3, "", domain.SeverityMedium},
		},
	},
	{
		Field: "4-slab-corner", Section: 4, MaxDeduction: 15,
		Values: map[string]outcome{
			"high-risk":   {15, "Slab corner rated high risk — immediate protective action needed", domain.SeverityCritical},
			"medium-risk": {8, "Slab corner rated medium risk — consider protective padding", domain.SeverityMedium},
			"low-risk":    {3, "", domain.SeverityMedium},
		},
	},
	{
		Field: "4-bidet-edges", Section: 4, MaxDeduction: 12,
		Values: map[string]outcome{
			"high-risk":   {12, "Bidet edges rated high risk — injury risk", domain.SeverityCritical},
			"medium-risk": {6, "Bidet edges rated medium risk", domain.SeverityMedium},
			"low-risk":    {2, "", domain.SeverityMedium},
		},
	},
	{
		Field: "4-protruding", Section: 4, MaxDeduction: 8,
		Values: map[string]outcome{
			"hooks-sharp": {8, "Sharp hooks present — injury risk", domain.SeverityHigh},
			"fixtures":    {8, "Sharp fixtures present — injury risk", domain.SeverityHigh},
			"pipes":       {6, "Exposed pipes — bump and burn risk", domain.SeverityMedium},
		},
	},
	{
		Field: "4-electric-risk", Section: 4, MaxDeduction: 20,
		Values: map[string]outcome{
			"high-risk":   {20, "High-risk electrical exposure — professional inspection required immediately", domain.SeverityCritical},
			"medium-risk": {10, "Electrical risk detected — inspection recommended", domain.SeverityHigh},
			"low-risk":    {4, "", domain.SeverityMedium},
		},
	},
	{
		Field: "4-shower-drain", Section: 4, MaxDeduction: 10,
		Values: map[string]outcome{
			"overflowing": {10, "Shower drain overflowing — serious slip risk", domain.SeverityCritical},
			"clogged":     {8, "Shower drain clogged — standing water, slip risk", domain.SeverityHigh},
			"slow":        {4, "", domain.SeverityMedium},
		},
	},
	{
		Field: "7-switchboard", Section: 7, MaxDeduction: 10,
		Values: map[string]outcome{
			"inside-risk": {10, "Switchboard located near water — electrocution risk", domain.SeverityCritical},
		},
	},
	{
		Field: "7-pipe-status", Section: 7, MaxDeduction: 8,
		Values: map[string]outcome{
			"leaking": {8, "Pipes leaking — water damage and slip risk", domain.SeverityHigh},
			"damaged": {8, "Pipes damaged", domain.SeverityHigh},
			"rusted":  {6, "Pipes rusted — water quality and leak risk", domain.SeverityMedium},
		},
	},
	{
		Field: "8-step", Section: 8, MaxDeduction: 15,
		Values: map[string]outcome{
			"large":  {15, "Large step at bathroom entrance — high fall risk, especially for elderly", domain.SeverityCritical},
			"medium": {8, "Medium step at entrance — fall risk", domain.SeverityHigh},
			"small":  {4, "Small step at entrance — trip risk for elderly users", domain.SeverityMedium},
		},
	},
	{
		Field: "8-level-variation", Section: 8, MaxDeduction: 15,
		Values: map[string]outcome{
			"tripping-hazard": {15, "Floor level variation is a tripping hazard — immediate attention needed", domain.SeverityCritical},
			"significant":     {8, "Significant floor level variation — trip risk", domain.SeverityHigh},
			"slight":          {3, "", domain.SeverityMedium},
		},
	},
	{
		Field: "8-floor-variation", Section: 8, MaxDeduction: 12,
		Values: map[string]outcome{
			"hazardous": {12, "Hazardous floor variation inside bathroom — immediate attention needed", domain.SeverityCritical},
			"uneven":    {6, "Uneven floor inside bathroom — slip and trip risk", domain.SeverityHigh},
		},
	},
	{
		Field: "8-outside-lighting", Section: 8, MaxDeduction: 15,
		Values: map[string]outcome{
			"none": {15, "No lighting outside bathroom — critical fall risk for night-time visits", domain.SeverityCritical},
			"dim":  {8, "Dim lighting outside bathroom — improve for night safety", domain.SeverityHigh},
		},
	},
	{
		Field: "8-door-type", Section: 8, MaxDeduction: 6,
		Values: map[string]outcome{
			"hinged-inward": {6, "Inward-opening door — can trap a fallen user", domain.SeverityMedium},
		},
	},
	{
		Field: "8-door-width", Section: 8, MaxDeduction: 6,
		Values: map[string]outcome{
			"narrow": {6, "Narrow door (<30 in) — accessibility concern", domain.SeverityMedium},
		},
	},
}

// sectionMaxima sums the per-field worst cases for each section.
func sectionMaxima() map[int]int {
	maxima := make(map[int]int, len(sectionNames))
	for _, r := range rules {
		maxima[r.Section] += r.MaxDeduction
	}
	return maxima
}

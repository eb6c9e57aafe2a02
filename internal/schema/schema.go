// Package schema holds the fixed survey field definitions for all 8
// audit sections: option vocabularies, required-field metadata, and the
// display-row builder consumed by the report renderer. The scoring
// engine does not depend on this package; it matches raw answer keys
// directly.
package schema

// Option is one selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldType discriminates field and layout entries.
type FieldType string

const (
	FieldSelect     FieldType = "select"
	FieldText       FieldType = "text"
	FieldTextarea   FieldType = "textarea"
	FieldRadio      FieldType = "radio"
	FieldCheckgroup FieldType = "checkgroup"

	// Layout entries
	FieldSubsection  FieldType = "subsection"
	FieldGrid        FieldType = "grid"
	FieldLabeledGrid FieldType = "labeled-grid"

	// Composite entries expanding to availability + condition keys
	FieldAccessory      FieldType = "accessory"
	FieldAvailCondition FieldType = "avail-condition"
)

// CheckItem is one checkbox within a checkgroup.
type CheckItem struct {
	FieldKey string `json:"fieldKey"`
	Label    string `json:"label"`
}

// Field describes one survey field or layout entry. Dynamic section 5
// fields carry a "{prefix}" placeholder replaced per user profile.
type Field struct {
	Key      string    `json:"key,omitempty"`
	Type     FieldType `json:"type"`
	Label    string    `json:"label,omitempty"`
	Required bool      `json:"required,omitempty"`
	Options  []Option  `json:"options,omitempty"`

	// Nested fields for grid containers
	Fields []Field `json:"fields,omitempty"`

	// Accessory entries expand to "<prefix>-avail" and "<prefix>-cond"
	Prefix       string   `json:"prefix,omitempty"`
	AvailOptions []Option `json:"availOptions,omitempty"`
	CondOptions  []Option `json:"condOptions,omitempty"`

	// Avail-condition entries name their keys explicitly
	AvailKey string `json:"availKey,omitempty"`
	CondKey  string `json:"condKey,omitempty"`

	// Checkgroup items
	Items []CheckItem `json:"items,omitempty"`
}

// Section is one of the 8 fixed audit sections.
type Section struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Badge   string `json:"badge"`
	Hint    string `json:"hint"`
	Dynamic bool   `json:"dynamic,omitempty"`

	Fields []Field `json:"fields,omitempty"`

	// UserFields apply per user profile in the dynamic section 5
	UserFields []Field `json:"userFields,omitempty"`
}

var conditionOptions = []Option{
	{Value: "good", Label: "Good"},
	{Value: "fair", Label: "Fair"},
	{Value: "poor", Label: "Poor"},
}

var yesNo = []Option{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}

// Get returns a section definition by number.
func Get(num int) (Section, bool) {
	s, ok := sections[num]
	return s, ok
}

// List returns all sections in order.
func List() []Section {
	out := make([]Section, 0, len(sections))
	for num := 1; num <= 8; num++ {
		out = append(out, sections[num])
	}
	return out
}

var sections = map[int]Section{
	1: {
		Number: 1,
		Title:  "Physical Civil Infrastructure",
		Badge:  "Floor · Walls · Light",
		Hint:   "Inspect the floor surface, wall finishing, and overall lighting quality.",
		Fields: []Field{
			{Type: FieldSubsection, Label: "Floor"},
			{
				Key: "1-floor-type", Type: FieldSelect, Label: "Surface Type", Required: true,
				Options: []Option{
					{Value: "ceramic-tiles", Label: "Ceramic Tiles"},
					{Value: "vitrified-tiles", Label: "Vitrified Tiles"},
					{Value: "mosaic", Label: "Mosaic"},
					{Value: "marble", Label: "Marble"},
					{Value: "granite", Label: "Granite"},
					{Value: "anti-skid-tiles", Label: "Anti-Skid Tiles"},
					{Value: "vinyl", Label: "Vinyl"},
					{Value: "other", Label: "Other"},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "1-floor-avail", Type: FieldSelect, Label: "Availability", Required: true,
						Options: []Option{
							{Value: "yes", Label: "Present"},
							{Value: "no", Label: "Missing / Broken"},
						},
					},
					{
						Key: "1-floor-quality", Type: FieldSelect, Label: "Quality / Condition", Required: true,
						Options: []Option{
							{Value: "excellent", Label: "Excellent"},
							{Value: "good", Label: "Good"},
							{Value: "fair", Label: "Fair"},
							{Value: "poor", Label: "Poor"},
							{Value: "needs-replacement", Label: "Needs Replacement"},
						},
					},
				},
			},
			{Key: "1-floor-color", Type: FieldText, Label: "Floor Color"},
			{Type: FieldSubsection, Label: "Walls"},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "1-wall-type", Type: FieldSelect, Label: "Wall Type", Required: true,
						Options: []Option{
							{Value: "ceramic-tiles", Label: "Ceramic Tiles"},
							{Value: "vitrified-tiles", Label: "Vitrified Tiles"},
							{Value: "paint", Label: "Paint"},
							{Value: "waterproof-paint", Label: "Waterproof Paint"},
							{Value: "pvc-panels", Label: "PVC Panels"},
							{Value: "glass", Label: "Glass"},
							{Value: "other", Label: "Other"},
						},
					},
					{Key: "1-wall-color", Type: FieldText, Label: "Wall Color"},
				},
			},
			{Type: FieldSubsection, Label: "Lighting"},
			{
				Key: "1-washroom-light", Type: FieldSelect, Label: "Washroom Light Adequacy", Required: true,
				Options: []Option{
					{Value: "bright", Label: "Bright — No issues"},
					{Value: "adequate", Label: "Adequate"},
					{Value: "dim", Label: "Dim — Improvement needed"},
					{Value: "insufficient", Label: "Insufficient — Risk for elderly"},
				},
			},
		},
	},
	2: {
		Number: 2,
		Title:  "Accessories",
		Badge:  "Mats · Racks · Hooks",
		Hint:   "Anti-skid mat and outdoor PVC mat are critical safety items — flag if missing or worn.",
		Fields: []Field{
			{Type: FieldAccessory, Label: "Bucket", Prefix: "2-bucket", Required: true},
			{Type: FieldAccessory, Label: "Round Tub", Prefix: "2-tub"},
			{Type: FieldAccessory, Label: "Plastic Stool", Prefix: "2-stool"},
			{Type: FieldAccessory, Label: "Racks", Prefix: "2-racks"},
			{Type: FieldAccessory, Label: "Wiper", Prefix: "2-wiper"},
			{Type: FieldAccessory, Label: "Wiper Wall Stand", Prefix: "2-wiperstand"},
			{Type: FieldAccessory, Label: "Towel Hanger", Prefix: "2-towel"},
			{
				Type: FieldAccessory, Label: "Anti-Skid Mat", Prefix: "2-antiskid", Required: true,
				AvailOptions: []Option{
					{Value: "yes", Label: "Yes"},
					{Value: "no", Label: "No — Recommend immediately"},
				},
				CondOptions: []Option{
					{Value: "good", Label: "Good"},
					{Value: "fair", Label: "Fair"},
					{Value: "poor", Label: "Poor — Replace"},
				},
			},
			{Type: FieldAccessory, Label: "PVC Floor Outdoor Mat", Prefix: "2-pvcmat", Required: true},
		},
	},
	3: {
		Number: 3,
		Title:  "Washroom Fixtures",
		Badge:  "Commode · Taps · Shower",
		Hint:   "Check each fixture for availability, working condition, leaks, or pressure issues.",
		Fields: []Field{
			{
				Type: FieldLabeledGrid, Label: "WC Commode",
				Fields: []Field{
					{
						Key: "3-commode-type", Type: FieldSelect, Label: "Type", Required: true,
						Options: []Option{
							{Value: "western", Label: "Western"},
							{Value: "indian", Label: "Indian"},
							{Value: "both", Label: "Both"},
						},
					},
					{Key: "3-commode-cond", Type: FieldSelect, Label: "Condition", Required: true, Options: conditionOptions},
				},
			},
			{
				Key: "3-flush", Type: FieldSelect, Label: "Flush", Required: true,
				Options: []Option{
					{Value: "working-good", Label: "Working — Good pressure"},
					{Value: "working-weak", Label: "Working — Weak pressure"},
					{Value: "not-working", Label: "Not Working"},
					{Value: "leaking", Label: "Leaking"},
				},
			},
			{
				Type: FieldAvailCondition, Label: "Bidet / Health Faucet",
				AvailKey: "3-bidet-avail", CondKey: "3-bidet-cond",
				CondOptions: []Option{
					{Value: "good", Label: "Good"},
					{Value: "fair", Label: "Fair"},
					{Value: "leaking", Label: "Leaking"},
				},
			},
			{
				Key: "3-washbasin", Type: FieldSelect, Label: "Washbasin", Required: true,
				Options: []Option{
					{Value: "good", Label: "Good condition"},
					{Value: "cracked", Label: "Cracked"},
					{Value: "stained", Label: "Stained"},
					{Value: "drainage-issue", Label: "Drainage issue"},
				},
			},
			{
				Type: FieldAvailCondition, Label: "Shower Panel",
				AvailKey: "3-shower-avail", CondKey: "3-shower-cond",
				CondOptions: []Option{
					{Value: "good", Label: "Good"},
					{Value: "low-pressure", Label: "Low Pressure"},
					{Value: "leaking", Label: "Leaking"},
				},
			},
			{
				Key: "3-faucets", Type: FieldSelect, Label: "Faucets", Required: true,
				Options: []Option{
					{Value: "working-good", Label: "Working — Good"},
					{Value: "dripping", Label: "Dripping"},
					{Value: "stiff", Label: "Stiff / Hard to operate"},
					{Value: "not-working", Label: "Not Working"},
				},
			},
			{
				Type: FieldAvailCondition, Label: "Utility Tap",
				AvailKey: "3-utility-avail", CondKey: "3-utility-cond",
				CondOptions: []Option{
					{Value: "good", Label: "Good"},
					{Value: "leaking", Label: "Leaking"},
					{Value: "not-working", Label: "Not Working"},
				},
			},
			{
				Key: "3-water-mix", Type: FieldSelect, Label: "Hot & Cold Water Mixture",
				Options: []Option{
					{Value: "available-working", Label: "Available & Working"},
					{Value: "available-not-working", Label: "Available — Not Working"},
					{Value: "not-available", Label: "Not Available"},
				},
			},
			{
				Type: FieldLabeledGrid, Label: "Shaft / Window",
				Fields: []Field{
					{
						Key: "3-shaft-type", Type: FieldSelect, Label: "Type",
						Options: []Option{
							{Value: "window", Label: "Window"},
							{Value: "shaft", Label: "Shaft"},
							{Value: "both", Label: "Both"},
							{Value: "none", Label: "None"},
						},
					},
					{
						Key: "3-shaft-cond", Type: FieldSelect, Label: "Condition",
						Options: []Option{
							{Value: "good", Label: "Good"},
							{Value: "blocked", Label: "Blocked"},
							{Value: "damaged", Label: "Damaged"},
						},
					},
				},
			},
			{
				Key: "3-exhaust", Type: FieldSelect, Label: "Exhaust Fan",
				Options: []Option{
					{Value: "available-working", Label: "Available & Working"},
					{Value: "available-not-working", Label: "Available — Not Working"},
					{Value: "noisy", Label: "Noisy"},
					{Value: "not-available", Label: "Not Available"},
				},
			},
		},
	},
	4: {
		Number: 4,
		Title:  "Sharp Edges & Plumbing",
		Badge:  "Hazards · Drains",
		Hint:   "Rate each hazard. Flag any High Risk items for immediate action in your comments.",
		Fields: []Field{
			{Type: FieldSubsection, Label: "Sharp Edges & Hazards"},
			{
				Key: "4-slab-corner", Type: FieldSelect, Label: "Slab Corner", Required: true,
				Options: []Option{
					{Value: "no-risk", Label: "No Risk — Rounded / Protected"},
					{Value: "low-risk", Label: "Low Risk"},
					{Value: "medium-risk", Label: "Medium Risk"},
					{Value: "high-risk", Label: "High Risk — Immediate action needed"},
				},
			},
			{
				Key: "4-bidet-edges", Type: FieldSelect, Label: "Bidet Edges", Required: true,
				Options: []Option{
					{Value: "no-risk", Label: "No Risk"},
					{Value: "low-risk", Label: "Low Risk"},
					{Value: "medium-risk", Label: "Medium Risk"},
					{Value: "high-risk", Label: "High Risk"},
				},
			},
			{
				Key: "4-protruding", Type: FieldSelect, Label: "Protruding Objects", Required: true,
				Options: []Option{
					{Value: "none", Label: "None"},
					{Value: "hooks-safe", Label: "Hooks — Safely rounded"},
					{Value: "hooks-sharp", Label: "Hooks — Sharp"},
					{Value: "pipes", Label: "Exposed pipes"},
					{Value: "fixtures", Label: "Sharp fixtures"},
				},
			},
			{
				Key: "4-electric-risk", Type: FieldSelect, Label: "Electric Shock Risk", Required: true,
				Options: []Option{
					{Value: "no-risk", Label: "No Risk — Properly insulated"},
					{Value: "low-risk", Label: "Low Risk"},
					{Value: "medium-risk", Label: "Medium Risk — Check needed"},
					{Value: "high-risk", Label: "High Risk — Exposed wiring"},
				},
			},
			{Type: FieldSubsection, Label: "Plumbing Drainage"},
			{
				Key: "4-shower-drain", Type: FieldSelect, Label: "Shower Drain", Required: true,
				Options: []Option{
					{Value: "working-well", Label: "Working well"},
					{Value: "slow", Label: "Slow drainage"},
					{Value: "clogged", Label: "Clogged / Blocked"},
					{Value: "overflowing", Label: "Overflowing"},
					{Value: "no-drain", Label: "No drain"},
				},
			},
			{
				Key: "4-utility-drain", Type: FieldSelect, Label: "Utility Drain",
				Options: []Option{
					{Value: "working-well", Label: "Working well"},
					{Value: "slow", Label: "Slow drainage"},
					{Value: "clogged", Label: "Clogged / Blocked"},
					{Value: "not-available", Label: "Not available"},
				},
			},
			{
				Key: "4-wc-drain", Type: FieldSelect, Label: "WC Drain",
				Options: []Option{
					{Value: "working-well", Label: "Working well"},
					{Value: "slow", Label: "Slow drainage"},
					{Value: "frequent-clog", Label: "Frequent clogging"},
					{Value: "odor", Label: "Odour issues"},
				},
			},
			{
				Key: "4-sink-drain", Type: FieldSelect, Label: "Sink Drain",
				Options: []Option{
					{Value: "working-well", Label: "Working well"},
					{Value: "slow", Label: "Slow drainage"},
					{Value: "clogged", Label: "Clogged"},
					{Value: "leaking", Label: "Leaking"},
				},
			},
		},
	},
	5: {
		Number:  5,
		Title:   "User Profiles",
		Badge:   "Multiple users supported",
		Hint:    "Add a profile for each person who uses this bathroom. More users = more personalised safety assessment.",
		Dynamic: true,
		UserFields: []Field{
			{
				Type: FieldGrid,
				Fields: []Field{
					{Key: "{prefix}-age", Type: FieldText, Label: "Age", Required: true},
					{Key: "{prefix}-weight", Type: FieldText, Label: "Weight (kg)"},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{Key: "{prefix}-height", Type: FieldText, Label: "Height (cm)"},
					{
						Key: "{prefix}-relation", Type: FieldSelect, Label: "Relationship", Required: true,
						Options: []Option{
							{Value: "self", Label: "Self"},
							{Value: "spouse", Label: "Spouse / Partner"},
							{Value: "parent", Label: "Parent"},
							{Value: "child", Label: "Child"},
							{Value: "other", Label: "Other"},
						},
					},
				},
			},
			{
				Key: "{prefix}-conditions", Type: FieldCheckgroup, Label: "Known Conditions",
				Items: []CheckItem{
					{FieldKey: "{prefix}-cond-bp", Label: "Blood Pressure"},
					{FieldKey: "{prefix}-cond-diabetes", Label: "Diabetes"},
					{FieldKey: "{prefix}-cond-heart", Label: "Heart"},
					{FieldKey: "{prefix}-cond-mobility", Label: "Mobility Issues"},
				},
			},
			{Key: "{prefix}-conditions-other", Type: FieldTextarea, Label: "Other Conditions / Medications"},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "{prefix}-wake-time", Type: FieldSelect, Label: "Wake Time",
						Options: []Option{
							{Value: "before-5am", Label: "Before 5 AM"},
							{Value: "5am-6am", Label: "5-6 AM"},
							{Value: "6am-7am", Label: "6-7 AM"},
							{Value: "7am-8am", Label: "7-8 AM"},
							{Value: "after-8am", Label: "After 8 AM"},
						},
					},
					{
						Key: "{prefix}-sleep-time", Type: FieldSelect, Label: "Sleep Time",
						Options: []Option{
							{Value: "before-9pm", Label: "Before 9 PM"},
							{Value: "9pm-10pm", Label: "9-10 PM"},
							{Value: "10pm-11pm", Label: "10-11 PM"},
							{Value: "11pm-12am", Label: "11 PM-12 AM"},
							{Value: "after-12am", Label: "After 12 AM"},
						},
					},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "{prefix}-dinner", Type: FieldSelect, Label: "Dinner Time",
						Options: []Option{
							{Value: "before-7pm", Label: "Before 7 PM"},
							{Value: "7pm-8pm", Label: "7-8 PM"},
							{Value: "8pm-9pm", Label: "8-9 PM"},
							{Value: "9pm-10pm", Label: "9-10 PM"},
							{Value: "after-10pm", Label: "After 10 PM"},
						},
					},
					{
						Key: "{prefix}-water-habit", Type: FieldSelect, Label: "Water Before Bed",
						Options: []Option{
							{Value: "none", Label: "None"},
							{Value: "sips", Label: "Few sips"},
							{Value: "one-glass", Label: "One glass"},
							{Value: "two-plus", Label: "Two+ glasses"},
						},
					},
				},
			},
			{
				Key: "{prefix}-path-access", Type: FieldSelect, Label: "Bathroom Path Access",
				Options: []Option{
					{Value: "direct", Label: "Direct from bedroom"},
					{Value: "hallway", Label: "Through hallway"},
					{Value: "stairs", Label: "Includes stairs"},
					{Value: "difficult", Label: "Difficult access"},
				},
			},
			{Key: "{prefix}-sleep-notes", Type: FieldTextarea, Label: "Sleep Habits / Notes"},
		},
	},
	6: {
		Number: 6,
		Title:  "Washroom Configuration",
		Badge:  "Type · Layout",
		Hint:   "Select the bathroom type that best describes this space's layout.",
		Fields: []Field{
			{
				Key: "6-config-type", Type: FieldSelect, Label: "Configuration Type", Required: true,
				Options: []Option{
					{Value: "powder-room", Label: "Powder Room (Half Bath)"},
					{Value: "full-bath", Label: "Full Bath"},
					{Value: "three-quarter", Label: "Three-Quarter Bath"},
					{Value: "en-suite", Label: "En Suite Bathroom"},
					{Value: "jack-jill", Label: "Jack-and-Jill Bathroom"},
					{Value: "wet-room", Label: "Wet Room"},
					{Value: "family", Label: "Family Bathroom"},
					{Value: "split", Label: "Split Bathroom"},
					{Value: "master", Label: "Master Bathroom"},
					{Value: "compact", Label: "Compact / Corner Bathroom"},
					{Value: "laundry-combo", Label: "Laundry-Bathroom Combo"},
				},
			},
		},
	},
	7: {
		Number: 7,
		Title:  "Electrical, Lighting & Heating",
		Badge:  "Power · Geyser · Pipes",
		Hint:   "Verify power sources, backup availability, geyser function, and pipe condition.",
		Fields: []Field{
			{Type: FieldSubsection, Label: "Power & Lighting"},
			{
				Key: "7-power-source", Type: FieldSelect, Label: "Power Supply Source", Required: true,
				Options: []Option{
					{Value: "grid", Label: "Main Grid"},
					{Value: "grid-backup", Label: "Grid + Backup"},
					{Value: "solar", Label: "Solar"},
					{Value: "mixed", Label: "Mixed Sources"},
				},
			},
			{
				Key: "7-switchboard", Type: FieldSelect, Label: "Switchboard Location", Required: true,
				Options: []Option{
					{Value: "inside-safe", Label: "Inside — Safe position"},
					{Value: "inside-risk", Label: "Inside — Near water"},
					{Value: "outside", Label: "Outside bathroom"},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{Key: "7-light-points", Type: FieldText, Label: "No. of Light Points"},
					{
						Key: "7-ceiling-light", Type: FieldSelect, Label: "Ceiling Light Type",
						Options: []Option{
							{Value: "led", Label: "LED"},
							{Value: "cfl", Label: "CFL"},
							{Value: "tube", Label: "Tube Light"},
							{Value: "incandescent", Label: "Incandescent"},
							{Value: "none", Label: "None"},
						},
					},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "7-light-color", Type: FieldSelect, Label: "Light Color",
						Options: []Option{
							{Value: "warm-white", Label: "Warm White"},
							{Value: "cool-white", Label: "Cool White"},
							{Value: "daylight", Label: "Daylight"},
							{Value: "yellow", Label: "Yellow"},
						},
					},
					{
						Key: "7-light-lumen", Type: FieldSelect, Label: "Brightness",
						Options: []Option{
							{Value: "bright", Label: "Bright (>800 lm)"},
							{Value: "adequate", Label: "Adequate (400-800 lm)"},
							{Value: "dim", Label: "Dim (<400 lm)"},
						},
					},
				},
			},
			{Type: FieldSubsection, Label: "Backup"},
			{
				Type: FieldGrid,
				Fields: []Field{
					{Key: "7-dg", Type: FieldRadio, Label: "DG Backup", Required: true, Options: yesNo},
					{Key: "7-inv", Type: FieldRadio, Label: "Inverter Backup", Required: true, Options: yesNo},
				},
			},
			{Type: FieldSubsection, Label: "Heating & Pipes"},
			{
				Key: "7-geyser", Type: FieldSelect, Label: "Geyser", Required: true,
				Options: []Option{
					{Value: "electric-working", Label: "Electric — Working"},
					{Value: "electric-not-working", Label: "Electric — Not Working"},
					{Value: "solar", Label: "Solar"},
					{Value: "instant", Label: "Instant Heater"},
					{Value: "none", Label: "None"},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "7-pipe-status", Type: FieldSelect, Label: "Pipe Status", Required: true,
						Options: []Option{
							{Value: "good-insulated", Label: "Good — Insulated"},
							{Value: "good-exposed", Label: "Good — Exposed"},
							{Value: "leaking", Label: "Leaking"},
							{Value: "damaged", Label: "Damaged"},
							{Value: "rusted", Label: "Rusted"},
						},
					},
					{
						Key: "7-thermostat", Type: FieldSelect, Label: "Thermostat Status",
						Options: []Option{
							{Value: "available-working", Label: "Available & Working"},
							{Value: "available-not-working", Label: "Not Working"},
							{Value: "not-available", Label: "Not Available"},
						},
					},
				},
			},
		},
	},
	8: {
		Number: 8,
		Title:  "Access & Exit",
		Badge:  "Door · Steps · Path",
		Hint:   "Steps, floor transitions, and door type are critical for fall risk — especially for night-time bathroom visits.",
		Fields: []Field{
			{
				Key: "8-step", Type: FieldSelect, Label: "Step on Floor (Threshold)", Required: true,
				Options: []Option{
					{Value: "none", Label: "No Step — Level entry"},
					{Value: "small", Label: "Small Step (<2 inches)"},
					{Value: "medium", Label: "Medium Step (2-4 inches)"},
					{Value: "large", Label: "Large Step (>4 inches)"},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "8-level-variation", Type: FieldSelect, Label: "Level Variation", Required: true,
						Options: []Option{
							{Value: "none", Label: "None — Level floor"},
							{Value: "slight", Label: "Slight variation"},
							{Value: "significant", Label: "Significant"},
							{Value: "tripping-hazard", Label: "Tripping hazard"},
						},
					},
					{
						Key: "8-floor-variation", Type: FieldSelect, Label: "Floor Variation Inside", Required: true,
						Options: []Option{
							{Value: "level", Label: "Level throughout"},
							{Value: "slight-slope", Label: "Slight slope (drainage)"},
							{Value: "uneven", Label: "Uneven"},
							{Value: "hazardous", Label: "Hazardous"},
						},
					},
				},
			},
			{
				Key: "8-outside-lighting", Type: FieldSelect, Label: "Lighting Outside Bathroom Door", Required: true,
				Options: []Option{
					{Value: "bright", Label: "Bright"},
					{Value: "adequate", Label: "Adequate"},
					{Value: "dim", Label: "Dim"},
					{Value: "none", Label: "None / Dark"},
					{Value: "motion-sensor", Label: "Motion Sensor Light"},
				},
			},
			{
				Type: FieldGrid,
				Fields: []Field{
					{
						Key: "8-door-type", Type: FieldSelect, Label: "Door Type", Required: true,
						Options: []Option{
							{Value: "hinged-outward", Label: "Hinged — Opens Outward"},
							{Value: "hinged-inward", Label: "Hinged — Opens Inward"},
							{Value: "sliding", Label: "Sliding"},
							{Value: "folding", Label: "Folding"},
						},
					},
					{
						Key: "8-door-width", Type: FieldSelect, Label: "Door Width", Required: true,
						Options: []Option{
							{Value: "wide", Label: "Wide (>32 inches)"},
							{Value: "standard", Label: "Standard (30-32 in)"},
							{Value: "narrow", Label: "Narrow (<30 inches)"},
						},
					},
				},
			},
		},
	},
}

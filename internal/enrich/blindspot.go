package enrich

import (
	"github.com/wattgod/training-plans-component/internal/model"
)

// MastersAge is the age from which recovery needs are flagged.
const MastersAge = 45

type blindspotRule struct {
	blindspot model.Blindspot
	// lifestyle rules read answers that only the latest questionnaire asks.
	lifestyle bool
	applies   func(s *model.Submission) bool
}

func oneOf(values ...string) func(model.Text) bool {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(t model.Text) bool {
		_, ok := set[normalized(t)]
		return ok
	}
}

var (
	poorSleep        = oneOf("poor", "fair")
	highStress       = oneOf("high", "very_high", "very-high")
	littleStrength   = oneOf("none", "little")
	minimalEquipment = oneOf("none", "minimal")
	lowHours         = oneOf("<3", "3-5", "4-6")
	noTrainer        = oneOf("no", "none")
)

// blindspotRules run in this order and the output keeps it.
var blindspotRules = []blindspotRule{
	{
		blindspot: model.Blindspot{
			Code:        "recovery_deficit",
			Label:       "Recovery Deficit",
			Description: "Reported sleep quality limits adaptation. Hard days need more spacing and recovery weeks come sooner.",
		},
		lifestyle: true,
		applies:   func(s *model.Submission) bool { return poorSleep(s.SleepQuality) },
	},
	{
		blindspot: model.Blindspot{
			Code:        "life_stress",
			Label:       "Life Stress Load",
			Description: "Outside stress competes with training stress. Weekly load should flex with life.",
		},
		lifestyle: true,
		applies:   func(s *model.Submission) bool { return highStress(s.StressLevel) },
	},
	{
		blindspot: model.Blindspot{
			Code:        "movement_gap",
			Label:       "Movement Quality Gap",
			Description: "Little or no strength work today. Start with foundational mobility and strength before loading.",
		},
		applies: func(s *model.Submission) bool { return littleStrength(s.StrengthCurrent) },
	},
	{
		blindspot: model.Blindspot{
			Code:        "injury_management",
			Label:       "Injury Management",
			Description: "Reported injuries or limitations shape exercise selection and progression.",
		},
		applies: func(s *model.Submission) bool { return s.Injuries.String() != "" },
	},
	{
		blindspot: model.Blindspot{
			Code:        "equipment_limited",
			Label:       "Equipment Limited",
			Description: "Minimal strength equipment. Strength sessions use bodyweight and bands.",
		},
		applies: func(s *model.Submission) bool { return minimalEquipment(s.StrengthEquipment) },
	},
	{
		blindspot: model.Blindspot{
			Code:        "time_crunched",
			Label:       "Time Crunched",
			Description: "Low weekly hours. Intensity and race-specific sessions take priority over volume.",
		},
		applies: func(s *model.Submission) bool { return lowHours(s.HoursPerWeek) },
	},
	{
		blindspot: model.Blindspot{
			Code:        "masters_recovery",
			Label:       "Masters Recovery",
			Description: "Age 45 or older. Longer recovery between hard sessions and year-round strength work.",
		},
		applies: func(s *model.Submission) bool { return parseInt(s.Age) >= MastersAge },
	},
	{
		blindspot: model.Blindspot{
			Code:        "outdoor_only",
			Label:       "Outdoor Only",
			Description: "No indoor trainer. Structured intervals are written for outdoor terrain and weather.",
		},
		applies: func(s *model.Submission) bool { return noTrainer(s.TrainerAccess) },
	},
}

// Blindspots evaluates every rule the schema revision supports against s.
// The first questionnaire collected none of the answers the rules need.
func Blindspots(s *model.Submission, schema model.SchemaVersion) []model.Blindspot {
	out := []model.Blindspot{}
	if !schema.HasProfile() {
		return out
	}
	for _, r := range blindspotRules {
		if r.lifestyle && !schema.HasLifestyle() {
			continue
		}
		if r.applies(s) {
			out = append(out, r.blindspot)
		}
	}
	return out
}

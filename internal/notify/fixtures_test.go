package notify

import (
	"github.com/wattgod/training-plans-component/internal/model"
)

func ptr(v float64) *float64 { return &v }

func testRequest() *Request {
	return &Request{
		RequestID: "tp-sbt-grvl-jane-doe99-m1abc",
		Record: model.EnrichedRecord{
			SchemaVersion: model.SchemaV3,
			Athlete: model.Athlete{
				Name:          "Jane <b>Doe</b>",
				Email:         "jane.doe99@example.com",
				Sex:           "female",
				Age:           50,
				YearsCycling:  "5+",
				WeightLbs:     140,
				WeightKg:      64,
				HeightFt:      5,
				HeightIn:      6,
				HeightTotalIn: 66,
				HeightCm:      168,
				SleepQuality:  "poor",
				StressLevel:   "high",
			},
			Race: model.Race{
				Slug:           "sbt-grvl",
				Name:           "SBT GRVL",
				Date:           "2026-06-28",
				Distance:       "100",
				Goal:           "podium",
				WeeksUntilRace: 17,
			},
			Fitness: model.Fitness{FTP: ptr(220), HRMax: ptr(182)},
			Power:   &model.PowerMetrics{WattsPerKg: 3.46, Category: "Cat3"},
			Schedule: model.Schedule{
				HoursPerWeek:  "8-10",
				TrainerAccess: "no",
				LongRideDays:  []string{"Saturday"},
				IntervalDays:  []string{"Tuesday", "Thursday"},
				OffDays:       []string{},
			},
			Strength: model.Strength{Current: "regular", Want: "yes", Equipment: "full_gym"},
			Blindspots: []model.Blindspot{
				{Code: "recovery_deficit", Label: "Recovery Deficit", Description: "Sleep limits adaptation."},
				{Code: "outdoor_only", Label: "Outdoor Only", Description: "No indoor trainer."},
			},
			Injuries: "",
			Notes:    "Racing with my sister",
		},
	}
}

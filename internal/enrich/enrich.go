// Package enrich derives the enriched record from a validated submission.
package enrich

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wattgod/training-plans-component/internal/model"
)

const (
	cmPerInch = 2.54
	kgPerLb   = 0.453592
)

// Enricher builds EnrichedRecords for one questionnaire revision. It holds
// no mutable state and is safe for concurrent use.
type Enricher struct {
	schema model.SchemaVersion
}

// New creates an Enricher for the schema revision.
func New(schema model.SchemaVersion) *Enricher {
	return &Enricher{schema: schema}
}

// Enrich converts s into an EnrichedRecord. s must already have passed
// validation; unparsable optional numbers become nil rather than errors.
func (e *Enricher) Enrich(s *model.Submission, now time.Time) model.EnrichedRecord {
	weightLbs := parseNumber(s.Weight)
	heightFt := parseInt(s.HeightFt)
	heightIn := parseInt(s.HeightIn)
	totalIn := heightFt*12 + heightIn

	slug := s.RaceSlug.String()
	if slug == "" {
		slug = model.DefaultRaceSlug
	}
	days, _ := model.DaysUntil(s.RaceDate.String(), now)

	rec := model.EnrichedRecord{
		SchemaVersion: e.schema,
		Athlete: model.Athlete{
			Name:          s.Name.String(),
			Email:         s.Email.String(),
			Sex:           s.Sex.String(),
			Age:           parseInt(s.Age),
			YearsCycling:  s.YearsCycling.String(),
			WeightLbs:     weightLbs,
			WeightKg:      PoundsToKg(weightLbs),
			HeightFt:      heightFt,
			HeightIn:      heightIn,
			HeightTotalIn: totalIn,
			HeightCm:      InchesToCm(totalIn),
			SleepQuality:  s.SleepQuality.String(),
			StressLevel:   s.StressLevel.String(),
		},
		Race: model.Race{
			Slug:           slug,
			Name:           s.RaceName.String(),
			Date:           s.RaceDate.String(),
			Distance:       s.RaceDistance.String(),
			Goal:           s.RaceGoal.String(),
			WeeksUntilRace: model.WeeksUntil(days),
		},
		Fitness: model.Fitness{
			FTP:         parseOptional(s.FTP),
			HRMax:       parseOptional(s.HRMax),
			HRThreshold: parseOptional(s.HRThreshold),
			HRResting:   parseOptional(s.HRResting),
			LongestRide: parseOptional(s.LongestRide),
		},
		Schedule: model.Schedule{
			HoursPerWeek:  s.HoursPerWeek.String(),
			TrainerAccess: s.TrainerAccess.String(),
			LongRideDays:  s.LongRideDayList(),
			IntervalDays:  s.IntervalDayList(),
			OffDays:       s.OffDayList(),
		},
		Strength: model.Strength{
			Current:   s.StrengthCurrent.String(),
			Want:      s.StrengthWant.String(),
			Equipment: s.StrengthEquipment.String(),
		},
		Blindspots: Blindspots(s, e.schema),
		Injuries:   s.Injuries.String(),
		Notes:      s.Notes.String(),
	}

	if ftp := rec.Fitness.FTP; ftp != nil && weightLbs > 0 {
		rec.Power = Power(*ftp, weightLbs, rec.Athlete.Sex)
	}
	return rec
}

// InchesToCm converts a height to whole centimeters.
func InchesToCm(inches int) int {
	return int(math.Round(float64(inches) * cmPerInch))
}

// PoundsToKg converts a weight to whole kilograms.
func PoundsToKg(lbs float64) int {
	return int(math.Round(lbs * kgPerLb))
}

func parseOptional(t model.Text) *float64 {
	s := t.String()
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseNumber(t model.Text) float64 {
	if v := parseOptional(t); v != nil {
		return *v
	}
	return 0
}

func parseInt(t model.Text) int {
	return int(math.Round(parseNumber(t)))
}

func normalized(t model.Text) string {
	return strings.ToLower(t.String())
}

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemaVersion identifies a questionnaire revision. Revisions differ in
// which answers are mandatory and which blindspots can be inferred.
type SchemaVersion int

const (
	SchemaV1 SchemaVersion = 1 + iota
	SchemaV2
	SchemaV3

	// SchemaLatest is the revision the live questionnaire posts.
	SchemaLatest = SchemaV3
)

// ParseSchemaVersion accepts "1", "v1", "2", "v2", "3" or "v3".
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v"))
	if err != nil {
		return 0, fmt.Errorf("model: invalid schema version %q", s)
	}
	v := SchemaVersion(n)
	if !v.Valid() {
		return 0, fmt.Errorf("model: unknown schema version %d", n)
	}
	return v, nil
}

// Valid reports whether v is a known revision.
func (v SchemaVersion) Valid() bool {
	return v >= SchemaV1 && v <= SchemaV3
}

func (v SchemaVersion) String() string {
	return "v" + strconv.Itoa(int(v))
}

// HasLifestyle reports whether the revision asks about sleep and stress.
func (v SchemaVersion) HasLifestyle() bool {
	return v >= SchemaV3
}

// HasProfile reports whether the revision asks about trainer access,
// strength training and body measurements.
func (v SchemaVersion) HasProfile() bool {
	return v >= SchemaV2
}

// RequiresDaySelections reports whether at least one long-ride day and one
// interval day must be picked.
func (v SchemaVersion) RequiresDaySelections() bool {
	return v >= SchemaV3
}

// Field is a named questionnaire answer.
type Field struct {
	Key   string
	value func(*Submission) string
}

// Value returns the trimmed answer for this field.
func (f Field) Value(s *Submission) string {
	return f.value(s)
}

func textField(key string, get func(*Submission) Text) Field {
	return Field{Key: key, value: func(s *Submission) string { return get(s).String() }}
}

var (
	FieldName              = textField("name", func(s *Submission) Text { return s.Name })
	FieldEmail             = textField("email", func(s *Submission) Text { return s.Email })
	FieldSex               = textField("sex", func(s *Submission) Text { return s.Sex })
	FieldAge               = textField("age", func(s *Submission) Text { return s.Age })
	FieldWeight            = textField("weight", func(s *Submission) Text { return s.Weight })
	FieldHeightFt          = textField("height_ft", func(s *Submission) Text { return s.HeightFt })
	FieldHeightIn          = textField("height_in", func(s *Submission) Text { return s.HeightIn })
	FieldYearsCycling      = textField("years_cycling", func(s *Submission) Text { return s.YearsCycling })
	FieldSleepQuality      = textField("sleep_quality", func(s *Submission) Text { return s.SleepQuality })
	FieldStressLevel       = textField("stress_level", func(s *Submission) Text { return s.StressLevel })
	FieldRaceName          = textField("race_name", func(s *Submission) Text { return s.RaceName })
	FieldRaceDate          = textField("race_date", func(s *Submission) Text { return s.RaceDate })
	FieldRaceGoal          = textField("race_goal", func(s *Submission) Text { return s.RaceGoal })
	FieldHoursPerWeek      = textField("hours_per_week", func(s *Submission) Text { return s.HoursPerWeek })
	FieldTrainerAccess     = textField("trainer_access", func(s *Submission) Text { return s.TrainerAccess })
	FieldStrengthCurrent   = textField("strength_current", func(s *Submission) Text { return s.StrengthCurrent })
	FieldStrengthEquipment = textField("strength_equipment", func(s *Submission) Text { return s.StrengthEquipment })
	FieldLongRideDay       = Field{Key: "long_ride_day", value: func(s *Submission) string {
		return strings.Join(s.LongRideDayList(), ", ")
	}}
)

var requiredFields = map[SchemaVersion][]Field{
	SchemaV1: {
		FieldName, FieldEmail, FieldAge, FieldWeight,
		FieldRaceName, FieldRaceDate, FieldRaceGoal,
		FieldHoursPerWeek, FieldLongRideDay,
	},
	SchemaV2: {
		FieldName, FieldEmail, FieldSex, FieldAge, FieldWeight, FieldHeightFt, FieldHeightIn,
		FieldYearsCycling,
		FieldRaceName, FieldRaceDate, FieldRaceGoal,
		FieldHoursPerWeek, FieldTrainerAccess, FieldLongRideDay,
		FieldStrengthCurrent, FieldStrengthEquipment,
	},
	SchemaV3: {
		FieldName, FieldEmail, FieldSex, FieldAge, FieldWeight, FieldHeightFt, FieldHeightIn,
		FieldYearsCycling, FieldSleepQuality, FieldStressLevel,
		FieldRaceName, FieldRaceDate, FieldRaceGoal,
		FieldHoursPerWeek, FieldTrainerAccess,
		FieldStrengthCurrent, FieldStrengthEquipment,
	},
}

// RequiredFields returns the mandatory answers of the revision in the order
// the questionnaire presents them.
func (v SchemaVersion) RequiredFields() []Field {
	return requiredFields[v]
}

// Package model defines the questionnaire submission and the enriched record derived from it.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a questionnaire answer. Form clients send most answers as strings
// but numeric inputs sometimes arrive as JSON numbers, so both are accepted.
type Text string

// UnmarshalJSON accepts a JSON string, number, boolean or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*t = ""
		return nil
	case raw == "true" || raw == "false":
		*t = Text(raw)
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: expected string or number, got %.20s", raw)
	}
	*t = Text(n.String())
	return nil
}

// String returns the trimmed answer.
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// StringList is a multi-select answer. Depending on the questionnaire
// version a selection arrives as a single string or as an array of strings;
// both decode to an ordered list with blank entries dropped.
type StringList []string

// UnmarshalJSON accepts a JSON string, an array of strings, or null.
func (l *StringList) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*l = nil
		return nil
	}

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
	} else {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		items = []string{single}
	}

	out := make(StringList, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}

// Values returns the selections as a non-nil slice.
func (l StringList) Values() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// String joins the selections for display and presence checks.
func (l StringList) String() string {
	return strings.Join(l.Values(), ", ")
}

// Submission is one questionnaire response. It is the superset of every
// questionnaire version; which answers are mandatory depends on the
// SchemaVersion it is validated against.
type Submission struct {
	// Identity
	Name  Text `json:"name"`
	Email Text `json:"email"`

	// Anthropometrics
	Sex      Text `json:"sex"`
	Age      Text `json:"age"`
	Weight   Text `json:"weight"`
	HeightFt Text `json:"height_ft"`
	HeightIn Text `json:"height_in"`

	// Experience and lifestyle
	YearsCycling Text `json:"years_cycling"`
	SleepQuality Text `json:"sleep_quality"`
	StressLevel  Text `json:"stress_level"`

	// Race
	RaceSlug     Text `json:"race_slug"`
	RaceName     Text `json:"race_name"`
	RaceDate     Text `json:"race_date"`
	RaceDistance Text `json:"race_distance"`
	RaceGoal     Text `json:"race_goal"`

	// Fitness
	FTP         Text `json:"ftp"`
	HRMax       Text `json:"hr_max"`
	HRThreshold Text `json:"hr_threshold"`
	HRResting   Text `json:"hr_resting"`
	LongestRide Text `json:"longest_ride"`

	// Schedule
	HoursPerWeek  Text       `json:"hours_per_week"`
	TrainerAccess Text       `json:"trainer_access"`
	LongRideDay   StringList `json:"long_ride_day"`
	LongRideDays  StringList `json:"long_ride_days"`
	IntervalDay   StringList `json:"interval_day"`
	IntervalDays  StringList `json:"interval_days"`
	OffDay        StringList `json:"off_day"`
	OffDays       StringList `json:"off_days"`

	// Strength
	StrengthCurrent   Text `json:"strength_current"`
	StrengthWant      Text `json:"strength_want"`
	StrengthEquipment Text `json:"strength_equipment"`

	// Free text
	Injuries Text `json:"injuries"`
	Notes    Text `json:"notes"`

	// Website is never rendered to people; anything in it came from a bot.
	Website Text `json:"website"`
}

// LongRideDayList returns the long-ride selections, preferring the plural
// field used by current questionnaires.
func (s *Submission) LongRideDayList() []string {
	return firstNonEmpty(s.LongRideDays, s.LongRideDay)
}

// IntervalDayList returns the interval-day selections.
func (s *Submission) IntervalDayList() []string {
	return firstNonEmpty(s.IntervalDays, s.IntervalDay)
}

// OffDayList returns the rest-day selections.
func (s *Submission) OffDayList() []string {
	return firstNonEmpty(s.OffDays, s.OffDay)
}

func firstNonEmpty(lists ...StringList) []string {
	for _, l := range lists {
		if v := l.Values(); len(v) > 0 {
			return v
		}
	}
	return []string{}
}

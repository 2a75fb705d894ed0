package notify

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/osteele/liquid"

	"github.com/wattgod/training-plans-component/internal/model"
)

//go:embed templates/notification.html.liquid
var notificationTemplate string

// Email is a rendered notification.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

// Renderer turns a Request into the owner notification email.
type Renderer struct {
	tpl *liquid.Template
}

// NewRenderer parses the notification template.
func NewRenderer() (*Renderer, error) {
	tpl, err := liquid.NewEngine().ParseString(notificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse notification template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render produces the subject, HTML body and plain-text alternative. The
// text part is derived from the HTML and left empty if conversion fails.
func (r *Renderer) Render(req *Request) (*Email, error) {
	html, err := r.tpl.RenderString(bindings(req))
	if err != nil {
		return nil, fmt.Errorf("render notification: %w", err)
	}

	text, convErr := htmltomarkdown.ConvertString(html)
	if convErr != nil {
		text = ""
	}
	return &Email{
		Subject: Subject(&req.Record),
		HTML:    html,
		Text:    text,
	}, nil
}

// Subject summarizes the race, athlete and goal on one line.
func Subject(rec *model.EnrichedRecord) string {
	s := fmt.Sprintf("Training Plan Request: %s - %s (%s)", rec.Race.Name, rec.Athlete.Name, rec.Race.Goal)
	return strings.Join(strings.Fields(s), " ")
}

func bindings(req *Request) liquid.Bindings {
	rec := &req.Record

	blindspots := make([]map[string]interface{}, 0, len(rec.Blindspots))
	for _, b := range rec.Blindspots {
		blindspots = append(blindspots, map[string]interface{}{
			"code":        b.Code,
			"label":       b.Label,
			"description": b.Description,
		})
	}

	b := liquid.Bindings{
		"request_id": req.RequestID,
		"athlete": map[string]interface{}{
			"name":          rec.Athlete.Name,
			"email":         rec.Athlete.Email,
			"sex":           rec.Athlete.Sex,
			"age":           rec.Athlete.Age,
			"years_cycling": rec.Athlete.YearsCycling,
			"weight":        fmt.Sprintf("%s lbs (%d kg)", formatNumber(rec.Athlete.WeightLbs), rec.Athlete.WeightKg),
			"height":        fmt.Sprintf("%d'%d\" (%d cm)", rec.Athlete.HeightFt, rec.Athlete.HeightIn, rec.Athlete.HeightCm),
			"sleep_quality": rec.Athlete.SleepQuality,
			"stress_level":  rec.Athlete.StressLevel,
		},
		"race": map[string]interface{}{
			"name":             rec.Race.Name,
			"slug":             rec.Race.Slug,
			"date":             rec.Race.Date,
			"distance":         rec.Race.Distance,
			"goal":             rec.Race.Goal,
			"weeks_until_race": rec.Race.WeeksUntilRace,
		},
		"fitness": fitnessRows(&rec.Fitness),
		"schedule": map[string]interface{}{
			"hours_per_week": rec.Schedule.HoursPerWeek,
			"trainer_access": rec.Schedule.TrainerAccess,
			"long_ride_days": rec.Schedule.LongRideDays,
			"interval_days":  rec.Schedule.IntervalDays,
			"off_days":       rec.Schedule.OffDays,
		},
		"strength": map[string]interface{}{
			"current":   rec.Strength.Current,
			"want":      rec.Strength.Want,
			"equipment": rec.Strength.Equipment,
		},
		"blindspots": blindspots,
		"injuries":   rec.Injuries,
		"notes":      rec.Notes,
	}

	// Absent keys are falsy in liquid; a nil map is not.
	if rec.Power != nil {
		b["power"] = map[string]interface{}{
			"wpkg":     strconv.FormatFloat(rec.Power.WattsPerKg, 'f', 2, 64),
			"category": rec.Power.Category,
		}
	}
	return b
}

func fitnessRows(f *model.Fitness) []map[string]interface{} {
	fields := []struct {
		label string
		value *float64
		unit  string
	}{
		{"FTP", f.FTP, "W"},
		{"Max HR", f.HRMax, "bpm"},
		{"Threshold HR", f.HRThreshold, "bpm"},
		{"Resting HR", f.HRResting, "bpm"},
		{"Longest ride", f.LongestRide, "mi"},
	}

	rows := make([]map[string]interface{}, 0, len(fields))
	for _, fld := range fields {
		if fld.value == nil {
			continue
		}
		rows = append(rows, map[string]interface{}{
			"label": fld.label,
			"value": formatNumber(*fld.value) + " " + fld.unit,
		})
	}
	return rows
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

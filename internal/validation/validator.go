// Package validation checks questionnaire submissions before they are enriched.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wattgod/training-plans-component/internal/apperror"
	"github.com/wattgod/training-plans-component/internal/model"
)

// MinDaysBeforeRace is the shortest lead time a custom plan can be built for.
const MinDaysBeforeRace = 28

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DisposableDomains lists throwaway inbox providers that are refused.
var DisposableDomains = []string{
	"mailinator.com",
	"guerrillamail.com",
	"10minutemail.com",
	"tempmail.com",
	"temp-mail.org",
	"throwaway.email",
	"yopmail.com",
	"trashmail.com",
	"sharklasers.com",
	"getnada.com",
	"maildrop.cc",
	"dispostable.com",
	"fakeinbox.com",
}

// EmailValidator accepts addresses shaped like local@domain.tld.
var EmailValidator = func(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// Validator runs the submission rules of one questionnaire revision.
type Validator struct {
	v       *validator.Validate
	schema  model.SchemaVersion
	blocked map[string]struct{}
}

// New creates a Validator for the schema revision. extraBlocked extends
// DisposableDomains.
func New(schema model.SchemaVersion, extraBlocked ...string) *Validator {
	val := &Validator{
		v:       validator.New(),
		schema:  schema,
		blocked: make(map[string]struct{}, len(DisposableDomains)+len(extraBlocked)),
	}
	for _, d := range append(append([]string{}, DisposableDomains...), extraBlocked...) {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			val.blocked[d] = struct{}{}
		}
	}

	if err := val.v.RegisterValidation("emailshape", EmailValidator); err != nil {
		panic(err)
	}
	if err := val.v.RegisterValidation("permanentemail", val.permanentEmail); err != nil {
		panic(err)
	}
	return val
}

func (val *Validator) permanentEmail(fl validator.FieldLevel) bool {
	return !val.IsDisposable(fl.Field().String())
}

// IsDisposable reports whether the address belongs to a blocked domain.
func (val *Validator) IsDisposable(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	_, blocked := val.blocked[strings.ToLower(email[at+1:])]
	return blocked
}

// Validate returns nil when s passes every rule, otherwise an
// *apperror.Error for the first rule that fails. Rules run in a fixed order
// and stop at the first failure.
func (val *Validator) Validate(s *model.Submission, now time.Time) error {
	for _, f := range val.schema.RequiredFields() {
		if err := val.v.Var(f.Value(s), "required"); err != nil {
			return apperror.FromValidator(f.Key, Label(f.Key), err)
		}
	}

	email := s.Email.String()
	if err := val.v.Var(email, "emailshape"); err != nil {
		return apperror.FromValidator("email", Label("email"), err)
	}
	if err := val.v.Var(email, "permanentemail"); err != nil {
		return apperror.FromValidator("email", Label("email"), err)
	}

	if err := val.v.Var(s.Website.String(), "isdefault"); err != nil {
		return apperror.FromValidator("website", Label("website"), err)
	}

	raceDate := s.RaceDate.String()
	if err := val.v.Var(raceDate, "datetime="+model.DateLayout); err != nil {
		return apperror.FromValidator("race_date", Label("race_date"), err)
	}
	days, err := model.DaysUntil(raceDate, now)
	if err != nil {
		return apperror.RaceDateInvalid()
	}
	if days < 0 {
		return apperror.RaceDatePast()
	}
	if model.WeeksUntil(days) < MinDaysBeforeRace/7 {
		return apperror.RaceDateTooSoon()
	}

	if val.schema.RequiresDaySelections() {
		if err := val.v.Var(s.LongRideDayList(), "min=1"); err != nil {
			return apperror.FromValidator("long_ride_days", Label("long_ride_days"), err)
		}
		if err := val.v.Var(s.IntervalDayList(), "min=1"); err != nil {
			return apperror.FromValidator("interval_days", Label("interval_days"), err)
		}
	}
	return nil
}

// Label turns a field key into its display name: "height_ft" becomes "Height Ft".
func Label(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Package apperror defines the error taxonomy of the intake service and the
// messages surfaced to callers for each validation rule.
package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Kind classifies an error by how it is reported to the caller.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindInvalidPayload   Kind = "invalid_payload"
	KindForbidden        Kind = "forbidden"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindInternal         Kind = "internal"
)

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidPayload:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Rule identifies the validation check that rejected a submission.
type Rule string

const (
	RuleMissingField    Rule = "missing_field"
	RuleEmailFormat     Rule = "email_format"
	RuleDisposableEmail Rule = "disposable_email"
	RuleHoneypot        Rule = "honeypot"
	RuleRaceDateInvalid Rule = "race_date_invalid"
	RuleRaceDatePast    Rule = "race_date_past"
	RuleRaceDateTooSoon Rule = "race_date_too_soon"
	RuleLongRideDay     Rule = "long_ride_day"
	RuleIntervalDay     Rule = "interval_day"
)

// Error is a classified error whose Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Rule    Rule
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	msgInvalidPayload   = "Invalid request"
	msgForbidden        = "Forbidden"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Internal server error"
)

// Validation returns a validation error for the rule.
func Validation(rule Rule, message string) *Error {
	return &Error{Kind: KindValidation, Rule: rule, Message: message}
}

// InvalidPayload is returned when the body cannot be decoded. The decoder
// error is never exposed.
func InvalidPayload() *Error {
	return &Error{Kind: KindInvalidPayload, Message: msgInvalidPayload}
}

// Forbidden is returned for origins outside the allow-list.
func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: msgForbidden}
}

// MethodNotAllowed is returned for any verb other than POST.
func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: msgMethodNotAllowed}
}

// Internal hides err behind a generic message.
func Internal() *Error {
	return &Error{Kind: KindInternal, Message: msgInternal}
}

// Public returns the caller-facing form of err.
func Public(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal()
}

var (
	errMissingField    = "Missing required field: "
	errEmailFormat     = "Invalid email format"
	errDisposableEmail = "Please use a permanent email address"
	errHoneypot        = "Submission rejected"
	errRaceDateInvalid = "Invalid race date"
	errRaceDatePast    = "Race date must be in the future"
	errRaceDateTooSoon = "Race date must be at least 4 weeks away"
	errLongRideDay     = "Please select at least one long ride day"
	errIntervalDay     = "Please select at least one interval day"
)

type ruleMessage struct {
	rule    Rule
	message string
}

// tagRules maps validator tags, qualified by the field they run against, to
// the rule they enforce.
var tagRules = map[string]ruleMessage{
	"email.emailshape":     {RuleEmailFormat, errEmailFormat},
	"email.permanentemail": {RuleDisposableEmail, errDisposableEmail},
	"website.isdefault":    {RuleHoneypot, errHoneypot},
	"race_date.datetime":   {RuleRaceDateInvalid, errRaceDateInvalid},
	"long_ride_days.min":   {RuleLongRideDay, errLongRideDay},
	"interval_days.min":    {RuleIntervalDay, errIntervalDay},
}

// FromValidator converts the first failure reported by validator/v10 for the
// named field into a validation error. label is the human-readable field name
// used by the required-field message.
func FromValidator(field, label string, err error) *Error {
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) || len(validationErr) == 0 {
		return Validation(RuleMissingField, err.Error())
	}

	tag := validationErr[0].Tag()
	if tag == "required" {
		return Validation(RuleMissingField, errMissingField+label)
	}
	if rm, ok := tagRules[field+"."+tag]; ok {
		return Validation(rm.rule, rm.message)
	}
	return Validation(RuleMissingField, label+" is invalid")
}

// RaceDatePast reports a race date before today.
func RaceDatePast() *Error {
	return Validation(RuleRaceDatePast, errRaceDatePast)
}

// RaceDateTooSoon reports a race date less than four weeks out.
func RaceDateTooSoon() *Error {
	return Validation(RuleRaceDateTooSoon, errRaceDateTooSoon)
}

// RaceDateInvalid reports a race date that is not a calendar date.
func RaceDateInvalid() *Error {
	return Validation(RuleRaceDateInvalid, errRaceDateInvalid)
}

// Package requestid builds the correlation token returned to athletes and
// quoted in notification emails.
package requestid

import (
	"strconv"
	"strings"
	"time"

	"github.com/wattgod/training-plans-component/internal/model"
)

const (
	prefix         = "tp"
	maxLocalPart   = 15
	maxRaceSegment = 10
)

// Generate returns "tp-{race}-{localpart}-{timestamp}" where race is the
// first 10 characters of the race slug, localpart is the lowercased email
// local part with every non-alphanumeric character replaced by "-" and cut to
// 15 characters, and timestamp is now in Unix milliseconds, base 36.
//
// Two submissions from the same address in the same millisecond collide;
// the token is for correlation, not a key.
func Generate(email, raceSlug string, now time.Time) string {
	race := strings.TrimSpace(raceSlug)
	if race == "" {
		race = model.DefaultRaceSlug
	}

	return strings.Join([]string{
		prefix,
		truncate(race, maxRaceSegment),
		truncate(LocalPart(email), maxLocalPart),
		strconv.FormatInt(now.UnixMilli(), 36),
	}, "-")
}

// LocalPart returns the normalized part of email before the "@".
func LocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, strings.ToLower(local))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

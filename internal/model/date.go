package model

import "time"

// DateLayout is the format of race_date.
const DateLayout = "2006-01-02"

// DaysUntil returns the number of calendar days from the date of now to the
// race date. Time of day is ignored and the date is read in now's location.
func DaysUntil(raceDate string, now time.Time) (int, error) {
	d, err := time.ParseInLocation(DateLayout, raceDate, now.Location())
	if err != nil {
		return 0, err
	}
	race := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(race.Sub(today) / (24 * time.Hour)), nil
}

// WeeksUntil floors a day count to whole weeks.
func WeeksUntil(days int) int {
	w := days / 7
	if days%7 != 0 && days < 0 {
		w--
	}
	return w
}

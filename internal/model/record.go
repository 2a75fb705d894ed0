package model

// EnrichedRecord is the typed view of a validated submission plus the
// fields derived from it. It lives for one request only.
type EnrichedRecord struct {
	SchemaVersion SchemaVersion `json:"schema_version"`
	Athlete       Athlete       `json:"athlete"`
	Race          Race          `json:"race"`
	Fitness       Fitness       `json:"fitness"`
	Power         *PowerMetrics `json:"power"`
	Schedule      Schedule      `json:"schedule"`
	Strength      Strength      `json:"strength"`
	Blindspots    []Blindspot   `json:"blindspots"`
	Injuries      string        `json:"injuries"`
	Notes         string        `json:"notes"`
}

// Athlete holds identity, body measurements and lifestyle answers.
type Athlete struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Sex           string  `json:"sex"`
	Age           int     `json:"age"`
	YearsCycling  string  `json:"years_cycling"`
	WeightLbs     float64 `json:"weight_lbs"`
	WeightKg      int     `json:"weight_kg"`
	HeightFt      int     `json:"height_ft"`
	HeightIn      int     `json:"height_in"`
	HeightTotalIn int     `json:"height_total_in"`
	HeightCm      int     `json:"height_cm"`
	SleepQuality  string  `json:"sleep_quality"`
	StressLevel   string  `json:"stress_level"`
}

// Race describes the target event.
type Race struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Date           string `json:"date"`
	Distance       string `json:"distance"`
	Goal           string `json:"goal"`
	WeeksUntilRace int    `json:"weeks_until_race"`
}

// Fitness holds optional self-reported metrics; absent answers are nil.
type Fitness struct {
	FTP         *float64 `json:"ftp"`
	HRMax       *float64 `json:"hr_max"`
	HRThreshold *float64 `json:"hr_threshold"`
	HRResting   *float64 `json:"hr_resting"`
	LongestRide *float64 `json:"longest_ride"`
}

// PowerMetrics is present only when both FTP and weight were supplied.
type PowerMetrics struct {
	WattsPerKg float64 `json:"wpkg"`
	Category   string  `json:"category"`
}

// Schedule holds weekly availability. Day lists are never nil.
type Schedule struct {
	HoursPerWeek  string   `json:"hours_per_week"`
	TrainerAccess string   `json:"trainer_access"`
	LongRideDays  []string `json:"long_ride_days"`
	IntervalDays  []string `json:"interval_days"`
	OffDays       []string `json:"off_days"`
}

// Strength holds strength-training preferences.
type Strength struct {
	Current   string `json:"current"`
	Want      string `json:"want"`
	Equipment string `json:"equipment"`
}

// Blindspot is a training concern inferred from the answers.
type Blindspot struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// DefaultRaceSlug stands in for submissions that did not come from a race page.
const DefaultRaceSlug = "custom"

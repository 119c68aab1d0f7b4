package dashboard

import (
	"time"

	"racedash/models"
)

// NextRace returns the first race starting at or after now. Once the season
// is over it returns the final race with seasonOver set. Races whose date
// cannot be parsed are skipped.
func NextRace(races []models.Race, now time.Time) (race *models.Race, seasonOver bool) {
	if len(races) == 0 {
		return nil, false
	}
	for i := range races {
		start, err := races[i].Start()
		if err != nil {
			continue
		}
		if !start.Before(now) {
			return &races[i], false
		}
	}
	return &races[len(races)-1], true
}

// DaysSinceLastRace counts whole days since the latest race that already
// started. It reports false before the first race of the season.
func DaysSinceLastRace(races []models.Race, now time.Time) (int, bool) {
	var last time.Time
	for _, r := range races {
		start, err := r.Start()
		if err != nil || start.After(now) {
			continue
		}
		if start.After(last) {
			last = start
		}
	}
	if last.IsZero() {
		return 0, false
	}
	return int(now.Sub(last).Hours() / 24), true
}

// Completed reports whether the race has started, which is when results may
// be requested for it.
func Completed(race models.Race, now time.Time) bool {
	start, err := race.Start()
	return err == nil && start.Before(now)
}

package dashboard

import (
	"fmt"
	"strconv"

	"racedash/models"
)

const (
	WinnerNone = ""
	WinnerA    = "A"
	WinnerB    = "B"
)

type Stat struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	A      string `json:"a"`
	B      string `json:"b"`
	Winner string `json:"winner"`
}

type Comparison struct {
	A     models.DriverStandingsItem `json:"a"`
	B     models.DriverStandingsItem `json:"b"`
	Stats []Stat                     `json:"stats"`
}

// Compare puts two drivers of the same standings side by side.
func Compare(drivers []models.DriverStandingsItem, idA, idB string) (Comparison, error) {
	a, ok := findDriver(drivers, idA)
	if !ok {
		return Comparison{}, fmt.Errorf("driver %q is not in the standings", idA)
	}
	b, ok := findDriver(drivers, idB)
	if !ok {
		return Comparison{}, fmt.Errorf("driver %q is not in the standings", idB)
	}

	return Comparison{
		A: a,
		B: b,
		Stats: []Stat{
			{Key: "position", Label: "Championship Position", A: a.Position, B: b.Position, Winner: winner(a.Position, b.Position, true)},
			{Key: "points", Label: "Total Points Accumulated", A: a.Points, B: b.Points, Winner: winner(a.Points, b.Points, false)},
			{Key: "wins", Label: "Grand Prix Wins", A: a.Wins, B: b.Wins, Winner: winner(a.Wins, b.Wins, false)},
		},
	}, nil
}

// winner picks the better of two numeric values; lower is better when
// inverse is set. Ties and unparsable values have no winner.
func winner(valA, valB string, inverse bool) string {
	a, errA := strconv.ParseFloat(valA, 64)
	b, errB := strconv.ParseFloat(valB, 64)
	if errA != nil || errB != nil || a == b {
		return WinnerNone
	}
	if (a > b) != inverse {
		return WinnerA
	}
	return WinnerB
}

// TeammatePair returns the first two drivers whose primary team is
// constructorID, or the top two of the standings when the team has fewer
// than two drivers. ok is false when there are not two drivers at all.
func TeammatePair(drivers []models.DriverStandingsItem, constructorID string) (a, b string, ok bool) {
	var ids []string
	for _, d := range drivers {
		if c, has := d.PrimaryConstructor(); has && c.ConstructorID == constructorID {
			ids = append(ids, d.Driver.DriverID)
			if len(ids) == 2 {
				return ids[0], ids[1], true
			}
		}
	}
	if len(drivers) < 2 {
		return "", "", false
	}
	return drivers[0].Driver.DriverID, drivers[1].Driver.DriverID, true
}

func findDriver(drivers []models.DriverStandingsItem, id string) (models.DriverStandingsItem, bool) {
	for _, d := range drivers {
		if d.Driver.DriverID == id {
			return d, true
		}
	}
	return models.DriverStandingsItem{}, false
}

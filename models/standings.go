package models

import "time"

type ConstructorStandingsItem struct {
	Position     string      `json:"position"`
	PositionText string      `json:"positionText,omitempty"`
	Points       string      `json:"points"`
	Wins         string      `json:"wins"`
	Constructor  Constructor `json:"Constructor"`
}

type DriverStandingsItem struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText,omitempty"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors,omitempty"`
}

// PrimaryConstructor returns the team the driver is listed under first.
func (d DriverStandingsItem) PrimaryConstructor() (Constructor, bool) {
	if len(d.Constructors) == 0 {
		return Constructor{}, false
	}
	return d.Constructors[0], true
}

type Driver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber,omitempty"`
	Code            string `json:"code,omitempty"`
	URL             string `json:"url,omitempty"`
	GivenName       string `json:"givenName,omitempty"`
	FamilyName      string `json:"familyName,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
}

func (d Driver) FullName() string {
	switch {
	case d.GivenName == "":
		return d.FamilyName
	case d.FamilyName == "":
		return d.GivenName
	}
	return d.GivenName + " " + d.FamilyName
}

type Constructor struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url,omitempty"`
	Name          string `json:"name,omitempty"`
	Nationality   string `json:"nationality,omitempty"`
}

type StandingsList struct {
	Season               string                     `json:"season,omitempty"`
	Round                string                     `json:"round,omitempty"`
	DriverStandings      []DriverStandingsItem      `json:"DriverStandings,omitempty"`
	ConstructorStandings []ConstructorStandingsItem `json:"ConstructorStandings,omitempty"`
}

type StandingsTable struct {
	Season         string          `json:"season,omitempty"`
	Round          string          `json:"round,omitempty"`
	StandingsLists []StandingsList `json:"StandingsLists"`
}

// Age is the driver's age in whole years at now. It reports false when the
// date of birth is unknown or malformed.
func (d Driver) Age(now time.Time) (int, bool) {
	born, err := time.Parse(time.DateOnly, d.DateOfBirth)
	if err != nil {
		return 0, false
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, true
}

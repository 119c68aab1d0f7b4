package models

import (
	"fmt"
	"time"
)

type Location struct {
	Lat      string `json:"lat,omitempty"`
	Long     string `json:"long,omitempty"`
	Locality string `json:"locality,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Session is a practice, qualifying or sprint slot of a race weekend.
type Session struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

type Circuit struct {
	CircuitID   string   `json:"circuitId,omitempty"`
	URL         string   `json:"url,omitempty"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

// Result is one classified car of a race, qualifying or sprint. Finishers
// carry Time, everybody else only a Status such as "Retired" or "+1 Lap".
type Result struct {
	Number       string      `json:"number,omitempty"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText,omitempty"`
	Points       string      `json:"points,omitempty"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	Grid         string      `json:"grid,omitempty"`
	Laps         string      `json:"laps,omitempty"`
	Status       string      `json:"status,omitempty"`
	Time         *ResultTime `json:"Time,omitempty"`
	FastestLap   *FastestLap `json:"FastestLap,omitempty"`
	Q1           string      `json:"Q1,omitempty"`
	Q2           string      `json:"Q2,omitempty"`
	Q3           string      `json:"Q3,omitempty"`
}

// Outcome is the finishing time when there is one, the status otherwise.
func (r Result) Outcome() string {
	if r.Time != nil && r.Time.Time != "" {
		return r.Time.Time
	}
	return r.Status
}

type ResultTime struct {
	Millis string `json:"millis,omitempty"`
	Time   string `json:"time"`
}

type AverageSpeed struct {
	Units string `json:"units"`
	Speed string `json:"speed"`
}

type FastestLap struct {
	Rank         string        `json:"rank,omitempty"`
	Lap          string        `json:"lap,omitempty"`
	Time         *ResultTime   `json:"Time,omitempty"`
	AverageSpeed *AverageSpeed `json:"AverageSpeed,omitempty"`
}

type Race struct {
	Season            string   `json:"season,omitempty"`
	Round             string   `json:"round"`
	URL               string   `json:"url,omitempty"`
	RaceName          string   `json:"raceName"`
	Circuit           Circuit  `json:"Circuit"`
	Date              string   `json:"date"`
	Time              string   `json:"time,omitempty"`
	FirstPractice     *Session `json:"FirstPractice,omitempty"`
	SecondPractice    *Session `json:"SecondPractice,omitempty"`
	ThirdPractice     *Session `json:"ThirdPractice,omitempty"`
	Qualifying        *Session `json:"Qualifying,omitempty"`
	Sprint            *Session `json:"Sprint,omitempty"`
	Results           []Result `json:"Results,omitempty"`
	QualifyingResults []Result `json:"QualifyingResults,omitempty"`
	SprintResults     []Result `json:"SprintResults,omitempty"`
}

// Start parses the race date and time as UTC. Races published without a
// start time are assumed to start at midnight.
func (r Race) Start() (time.Time, error) {
	if r.Time == "" {
		return time.Parse(time.DateOnly, r.Date)
	}
	t, err := time.Parse("2006-01-02 15:04:05Z", fmt.Sprintf("%s %s", r.Date, r.Time))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start of round %s: %w", r.Round, err)
	}
	return t, nil
}

func (r Race) HasSprint() bool {
	return r.Sprint != nil && r.Sprint.Date != ""
}

type RaceTable struct {
	Season string `json:"season,omitempty"`
	Round  string `json:"round,omitempty"`
	Races  []Race `json:"Races"`
}

type MRData struct {
	Series         string          `json:"series,omitempty"`
	Limit          string          `json:"limit,omitempty"`
	Offset         string          `json:"offset,omitempty"`
	Total          string          `json:"total,omitempty"`
	RaceTable      *RaceTable      `json:"RaceTable,omitempty"`
	StandingsTable *StandingsTable `json:"StandingsTable,omitempty"`
}

// Object is the envelope every upstream response is wrapped in.
type Object struct {
	MRData *MRData `json:"MRData"`
}

package rest

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"racedash/dashboard"
	"racedash/ergast"
	"racedash/fetcherr"
	"racedash/models"
)

const (
	headerDataSource = "X-Data-Source"
	headerDataStale  = "X-Data-Stale"
)

type Season struct {
	API    gateway
	Loader *dashboard.Loader
}

func InitRestSeason(app fiber.Router, api gateway, loader *dashboard.Loader) Season {
	handler := Season{API: api, Loader: loader}

	group := app.Group("/api/seasons/:season")
	group.Get("/drivers", handler.GetDrivers)
	group.Get("/constructors", handler.GetConstructors)
	group.Get("/schedule", handler.GetSchedule)
	group.Get("/races/:round/results", handler.GetRaceResults)
	group.Get("/races/:round/qualifying", handler.GetQualifyingResults)
	group.Get("/races/:round/sprint", handler.GetSprintResults)
	group.Get("/snapshot", handler.GetSnapshot)
	group.Get("/dashboard", handler.GetDashboard)
	group.Get("/compare", handler.GetCompare)

	return handler
}

func (h *Season) GetDrivers(c *fiber.Ctx) error {
	return standings(c, h.API.DriverStandings(c.UserContext(), c.Params("season")), "Driver standings retrieved")
}

func (h *Season) GetConstructors(c *fiber.Ctx) error {
	return standings(c, h.API.ConstructorStandings(c.UserContext(), c.Params("season")), "Constructor standings retrieved")
}

func (h *Season) GetSchedule(c *fiber.Ctx) error {
	return standings(c, h.API.SeasonSchedule(c.UserContext(), c.Params("season")), "Season schedule retrieved")
}

func (h *Season) GetRaceResults(c *fiber.Ctx) error {
	return raceResults(c, h.API.RaceResults(c.UserContext(), c.Params("season"), c.Params("round")), "Race results")
}

func (h *Season) GetQualifyingResults(c *fiber.Ctx) error {
	return raceResults(c, h.API.QualifyingResults(c.UserContext(), c.Params("season"), c.Params("round")), "Qualifying results")
}

func (h *Season) GetSprintResults(c *fiber.Ctx) error {
	return raceResults(c, h.API.SprintResults(c.UserContext(), c.Params("season"), c.Params("round")), "Sprint results")
}

func (h *Season) GetSnapshot(c *fiber.Ctx) error {
	snap := h.Loader.ColdStart(c.UserContext(), c.Params("season"))
	if snap == nil {
		return notFound(c, "Nothing cached for this season")
	}
	return respond(c, fiber.StatusOK, "SUCCESS", "Cached snapshot retrieved", snap)
}

func (h *Season) GetDashboard(c *fiber.Ctx) error {
	if err := ergast.CheckSeason("dashboard", c.Params("season")); err != nil {
		return badRequest(c, err)
	}
	data, err := h.Loader.Load(c.UserContext(), c.Params("season"))
	c.Set(headerDataStale, fmt.Sprint(data.Stale()))
	if errors.Is(err, fetcherr.ErrSignalLost) {
		return respond(c, fiber.StatusServiceUnavailable, "SIGNAL_LOST",
			"Data link temporarily unavailable. Verify season active status.", data)
	}
	return respond(c, fiber.StatusOK, "SUCCESS", "Season data retrieved", data)
}

// GetCompare compares ?a= and ?b=, or the two drivers of ?team= when
// neither is given.
func (h *Season) GetCompare(c *fiber.Ctx) error {
	out := h.API.DriverStandings(c.UserContext(), c.Params("season"))
	if fetcherr.IsKind(out.Err, fetcherr.KindInvalid) {
		return badRequest(c, out.Err)
	}

	idA, idB := c.Query("a"), c.Query("b")
	if (idA == "") != (idB == "") {
		return badRequest(c, fmt.Errorf("compare needs both a and b, or neither"))
	}
	if idA == "" {
		var ok bool
		if idA, idB, ok = dashboard.TeammatePair(out.Value, c.Query("team")); !ok {
			return notFound(c, "Not enough drivers to compare")
		}
	}

	cmp, err := dashboard.Compare(out.Value, idA, idB)
	if err != nil {
		return notFound(c, err.Error())
	}
	c.Set(headerDataSource, out.Source.String())
	return respond(c, fiber.StatusOK, "SUCCESS", "Drivers compared", cmp)
}

func standings[T any](c *fiber.Ctx, out ergast.Outcome[[]T], message string) error {
	if fetcherr.IsKind(out.Err, fetcherr.KindInvalid) {
		return badRequest(c, out.Err)
	}
	c.Set(headerDataSource, out.Source.String())
	return respond(c, fiber.StatusOK, "SUCCESS", message, out.Value)
}

func raceResults(c *fiber.Ctx, out ergast.Outcome[*models.Race], what string) error {
	if fetcherr.IsKind(out.Err, fetcherr.KindInvalid) {
		return badRequest(c, out.Err)
	}
	if out.Value == nil {
		return notFound(c, what+" not available")
	}
	return respond(c, fiber.StatusOK, "SUCCESS", what+" retrieved", out.Value)
}

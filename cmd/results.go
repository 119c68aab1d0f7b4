package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"racedash/dashboard"
	"racedash/ergast"
	"racedash/models"
	"racedash/service"
)

const (
	sessionRace       = "race"
	sessionQualifying = "qualifying"
	sessionSprint     = "sprint"
)

func newResultsCmd(a *app) *cobra.Command {
	var session string

	resultsCmd := &cobra.Command{
		Use:   "results <round>",
		Short: `Results of one round, or of the latest with "last"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out     ergast.Outcome[*models.Race]
				results func(*models.Race) []models.Result
			)
			switch session {
			case sessionRace:
				out = a.api.RaceResults(cmd.Context(), a.cfg.Season, args[0])
				results = func(r *models.Race) []models.Result { return r.Results }
			case sessionQualifying:
				out = a.api.QualifyingResults(cmd.Context(), a.cfg.Season, args[0])
				results = func(r *models.Race) []models.Result { return r.QualifyingResults }
			case sessionSprint:
				out = a.api.SprintResults(cmd.Context(), a.cfg.Season, args[0])
				results = func(r *models.Race) []models.Result { return r.SprintResults }
			default:
				return fmt.Errorf("unknown session %q, want race, qualifying or sprint", session)
			}

			if out.Value == nil {
				return fmt.Errorf("no %s results for round %s of season %s: %w", session, args[0], a.cfg.Season, out.Err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, round %s\n", out.Value.RaceName, out.Value.Round)
			fmt.Fprintln(cmd.OutOrStdout(), service.ResultsTable(results(out.Value)))
			return nil
		},
	}
	resultsCmd.Flags().StringVar(&session, "session", sessionRace, "race, qualifying or sprint")

	return resultsCmd
}

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print the cached copy of the season without touching the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := a.loader.ColdStart(cmd.Context(), a.cfg.Season)
			if snap == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing cached for season %s\n", a.cfg.Season)
				return nil
			}

			w := cmd.OutOrStdout()
			if snap.Drivers != nil {
				fmt.Fprintln(w, service.DriverStandingsTable(snap.Drivers))
			}
			if snap.Constructors != nil {
				fmt.Fprintln(w, service.ConstructorStandingsTable(snap.Constructors))
			}
			if snap.Schedule != nil {
				fmt.Fprintln(w, service.ScheduleTable(snap.Schedule))
			}
			return nil
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	var team string

	compareCmd := &cobra.Command{
		Use:   "compare [<driver> <driver>]",
		Short: "Compare two drivers, or the two drivers of --team",
		Args:  cobra.MatchAll(cobra.MaximumNArgs(2), func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("compare needs two drivers")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.api.DriverStandings(cmd.Context(), a.cfg.Season)
			reportSource(cmd, out)

			var idA, idB string
			if len(args) == 2 {
				idA, idB = args[0], args[1]
			} else {
				var ok bool
				if idA, idB, ok = dashboard.TeammatePair(out.Value, team); !ok {
					return fmt.Errorf("not enough drivers in season %s to compare", a.cfg.Season)
				}
			}

			cmp, err := dashboard.Compare(out.Value, idA, idB)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.CompareTable(cmp, time.Now()))
			return nil
		},
	}
	compareCmd.Flags().StringVar(&team, "team", "", "constructor id whose drivers are compared | example: --team=ferrari")

	return compareCmd
}

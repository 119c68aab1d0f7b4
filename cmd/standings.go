package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"racedash/service"
)

func newStandingsCmd(a *app) *cobra.Command {
	standingsCmd := &cobra.Command{
		Use:   "standings",
		Short: "Championship standings",
	}

	standingsCmd.AddCommand(&cobra.Command{
		Use:   "drivers",
		Short: "Drivers' championship",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.api.DriverStandings(cmd.Context(), a.cfg.Season)
			reportSource(cmd, out)
			if len(out.Value) == 0 {
				return fmt.Errorf("no driver standings for season %s", a.cfg.Season)
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.DriverStandingsTable(out.Value))
			return nil
		},
	})

	standingsCmd.AddCommand(&cobra.Command{
		Use:   "constructors",
		Short: "Constructors' championship",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.api.ConstructorStandings(cmd.Context(), a.cfg.Season)
			reportSource(cmd, out)
			if len(out.Value) == 0 {
				return fmt.Errorf("no constructor standings for season %s", a.cfg.Season)
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.ConstructorStandingsTable(out.Value))
			return nil
		},
	})

	return standingsCmd
}

func newScheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Season calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.api.SeasonSchedule(cmd.Context(), a.cfg.Season)
			reportSource(cmd, out)
			if len(out.Value) == 0 {
				return fmt.Errorf("no calendar for season %s", a.cfg.Season)
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.ScheduleTable(out.Value))
			return nil
		},
	}
}

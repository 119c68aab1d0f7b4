// Package cmd holds the racedash command line.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"racedash/cache"
	"racedash/config"
	"racedash/dashboard"
	"racedash/ergast"
	"racedash/fetcherr"
	"racedash/service"
)

// app is the object graph shared by every subcommand. It is built once the
// flags are parsed.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	storage cache.Storage
	cache   *cache.Cache
	api     *ergast.ErgastAPI
	loader  *dashboard.Loader
	service *service.ServiceF1
}

func NewRootCmd(log *slog.Logger, level *slog.LevelVar) *cobra.Command {
	v := viper.New()
	config.Init(v)
	a := &app{log: log}

	rootCmd := &cobra.Command{
		Use:           "racedash",
		Short:         "Formula 1 standings, calendar and results with an offline fallback cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init(v, level)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String("season", "current", `season year or "current" | example: --season=2024`)
	flags.String("storage", config.StorageSQLite, "snapshot storage: sqlite, memory, valkey or none")
	flags.Bool("debug", false, "debug logging")
	for _, key := range []string{config.KeySeason, config.KeyStorage, config.KeyDebug} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("error binding flag %s: %v", key, err))
		}
	}

	rootCmd.AddCommand(
		newStandingsCmd(a),
		newScheduleCmd(a),
		newResultsCmd(a),
		newSnapshotCmd(a),
		newCompareCmd(a),
		newServeCmd(a),
		newBotCmd(a),
		newCacheCmd(a),
	)
	return rootCmd
}

func Execute(log *slog.Logger, level *slog.LevelVar) error {
	return NewRootCmd(log, level).Execute()
}

func (a *app) init(v *viper.Viper, level *slog.LevelVar) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Debug && level != nil {
		level.Set(slog.LevelDebug)
	}

	a.storage, err = config.NewStorage(cfg)
	if err != nil {
		// Without storage every cache read misses; live data still works.
		a.log.Warn("Storage unavailable, running without fallback cache",
			slog.String("storage", cfg.Storage),
			slog.Any("error", fetcherr.Storage("open", cfg.Storage, err)))
		a.storage = nil
	} else {
		a.log.Debug("Storage ready", slog.String("storage", cfg.Storage))
	}

	a.cache = cache.New(a.storage, cfg.CachePrefix, a.log)
	a.api = ergast.NewErgastAPI(ergast.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: "racedash",
	}, a.cache, a.log)
	a.loader = dashboard.NewLoader(a.api, a.cache, a.log)
	a.service = service.NewServiceF1(a.api, cfg.Location)
	return nil
}

func (a *app) close() error {
	if a.storage == nil {
		return nil
	}
	if err := a.storage.Close(); err != nil {
		return fmt.Errorf("error closing storage: %w", err)
	}
	return nil
}

// reportSource tells the user on stderr when data did not come live.
func reportSource[T any](cmd *cobra.Command, out ergast.Outcome[T]) {
	if out.Err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "source: %s (live fetch failed: %v)\n", out.Source, out.Err)
}

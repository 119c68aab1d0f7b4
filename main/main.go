package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"racedash/cmd"
)

func init() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("No .env file found")
	} else {
		slog.Info("Successfull read .env")
	}
}

func main() {
	level := new(slog.LevelVar)
	log := setupLogger(level)

	if err := cmd.Execute(log, level); err != nil {
		log.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func setupLogger(level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

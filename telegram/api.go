// Package telegram runs the Telegram chat bot with slash commands.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
)

type messageService interface {
	GetDriverStandingsMessage(ctx context.Context, season string) (string, error)
	GetConstructorStandingsMessage(ctx context.Context, season string) (string, error)
	GetCalendarMessage(ctx context.Context, season string) (string, error)
	GetNextRaceMessage(ctx context.Context, season string, now time.Time) (string, error)
	GetRaceResultsMessage(ctx context.Context, season, round string) (string, error)
	GetCountDaysAfterRaceMessage(ctx context.Context, season string, now time.Time) (string, error)
	GetCompareMessage(ctx context.Context, season, idA, idB string) (string, error)
}

// answerFunc renders the reply to one command.
type answerFunc func(ctx context.Context, msg *telego.Message) (string, error)

type TgAPI struct {
	bot            *telego.Bot
	season         string
	messageService messageService
	handler        *th.BotHandler
}

func NewTGAPI(token, season string, messageService messageService) (*TgAPI, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("error create tg bot from token: %w", err)
	}

	return &TgAPI{bot: bot, season: season, messageService: messageService}, nil
}

// Run blocks until ctx is cancelled.
func (tg *TgAPI) Run(ctx context.Context, log *slog.Logger) error {
	updates, err := tg.bot.UpdatesViaLongPolling(nil)
	if err != nil {
		return fmt.Errorf("error taking updates from long poll: %w", err)
	}
	defer tg.bot.StopLongPolling()

	tg.handler, err = th.NewBotHandler(tg.bot, updates)
	if err != nil {
		return fmt.Errorf("error creating bot handler: %w", err)
	}
	tg.messageHandler(ctx, log)

	go tg.handler.Start()
	log.Info("Start telegram long polling", slog.String("season", tg.season))

	<-ctx.Done()
	tg.handler.Stop()
	return nil
}

func (tg *TgAPI) commands() map[string]answerFunc {
	return map[string]answerFunc{
		"driverstandings": func(ctx context.Context, _ *telego.Message) (string, error) {
			return tg.messageService.GetDriverStandingsMessage(ctx, tg.season)
		},
		"constructorstandings": func(ctx context.Context, _ *telego.Message) (string, error) {
			return tg.messageService.GetConstructorStandingsMessage(ctx, tg.season)
		},
		"calendar": func(ctx context.Context, _ *telego.Message) (string, error) {
			return tg.messageService.GetCalendarMessage(ctx, tg.season)
		},
		"nextrace": func(ctx context.Context, msg *telego.Message) (string, error) {
			return tg.messageService.GetNextRaceMessage(ctx, tg.season, getDateFromMessage(msg.Date))
		},
		"lastrace": func(ctx context.Context, _ *telego.Message) (string, error) {
			return tg.messageService.GetRaceResultsMessage(ctx, tg.season, "last")
		},
		"daysafterrace": func(ctx context.Context, msg *telego.Message) (string, error) {
			return tg.messageService.GetCountDaysAfterRaceMessage(ctx, tg.season, getDateFromMessage(msg.Date))
		},
		"compare": func(ctx context.Context, msg *telego.Message) (string, error) {
			idA, idB, ok := compareArgs(msg.Text)
			if !ok {
				return "Usage: /compare <driver> <driver>, e.g. /compare norris piastri", nil
			}
			return tg.messageService.GetCompareMessage(ctx, tg.season, idA, idB)
		},
	}
}

func (tg *TgAPI) messageHandler(ctx context.Context, log *slog.Logger) {
	for name, answer := range tg.commands() {
		tg.handler.Handle(func(bot *telego.Bot, update telego.Update) {
			log.Info(
				"MESSAGE info",
				slog.Int64("peer_id", update.Message.Chat.ID),
				slog.String("text", update.Message.Text))

			messageToUser, err := answer(ctx, update.Message)
			if err != nil {
				log.Error("Error preparing answer", slog.String("command", name), slog.Any("error", err))
			}

			_, err = bot.SendMessage(tu.Message(
				tu.ID(update.Message.Chat.ID),
				messageToUser,
			))
			if err != nil {
				log.Error("Error sending message", slog.String("command", name), slog.Any("error", err))
			}
		}, th.CommandEqual(name))
	}
}

// compareArgs reads the two driver ids of "/compare a b".
func compareArgs(text string) (string, string, bool) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) != 3 {
		return "", "", false
	}
	return fields[1], fields[2], true
}

func getDateFromMessage(userTimestamp int64) time.Time {
	return time.Unix(userTimestamp, 0)
}

// Package vk runs the VK community chat bot on top of the long poll API.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SevereCloud/vksdk/v2/api"
	"github.com/SevereCloud/vksdk/v2/api/params"
	"github.com/SevereCloud/vksdk/v2/events"
	"github.com/SevereCloud/vksdk/v2/longpoll-bot"

	"racedash/models"
)

const (
	kbRows = 2
	kbCols = 4
)

const helloMessage = `Hi! I am a bot that shares Formula 1 data :)
Standings and the calendar keep working from the last saved copy when the data service is down.
Write "what can you do" to see everything I understand.`

const helpMessage = `Commands I understand (anywhere in your message):
• calendar - grand prix list of the season
• constructor standings or cs - the constructors' championship
• driver standings - the drivers' championship
• next race - information about the next grand prix
• race results / qualifying results / sprint results - results of the last grand prix
• last gp - card of the last grand prix
• rounds - pick a grand prix from the calendar
• days without f1 or dwf - days since the last race
• compare <driver> <driver> - two drivers side by side, e.g. compare norris piastri`

type messageService interface {
	GetDriverStandingsMessage(ctx context.Context, season string) (string, error)
	GetConstructorStandingsMessage(ctx context.Context, season string) (string, error)
	GetCalendarMessage(ctx context.Context, season string) (string, error)
	GetNextRaceMessage(ctx context.Context, season string, now time.Time) (string, error)
	GetCountDaysAfterRaceMessage(ctx context.Context, season string, now time.Time) (string, error)
	GetRaceResultsMessage(ctx context.Context, season, round string) (string, error)
	GetQualifyingResultsMessage(ctx context.Context, season, round string) (string, error)
	GetSprintResultsMessage(ctx context.Context, season, round string) (string, error)
	GetCompareMessage(ctx context.Context, season, idA, idB string) (string, error)
	GetGPInfo(ctx context.Context, season, round string, now time.Time) (models.Race, error)
	GetRoundCount(ctx context.Context, season string) int
}

type eventService interface {
	GetGPInfo(ctx context.Context, season, round string, now time.Time) (models.Race, error)
	GetRoundCount(ctx context.Context, season string) int
}

type VkAPI struct {
	lp             *longpoll.LongPoll
	season         string
	messageService messageService
	eventService   eventService
}

func NewVKAPI(token, season string, messageService messageService, eventService eventService) (*VkAPI, error) {
	vk := api.NewVK(token)

	group, err := vk.GroupsGetByID(api.Params{})
	if err != nil {
		return nil, fmt.Errorf("error groups get by id: %w", err)
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("error groups get by id: token is not bound to a community")
	}

	lp, err := longpoll.NewLongPoll(vk, group[0].ID)
	if err != nil {
		return nil, fmt.Errorf("error creating new long poll: %w", err)
	}

	return &VkAPI{lp: lp, season: season, messageService: messageService, eventService: eventService}, nil
}

// Run blocks until ctx is cancelled or the long poll fails.
func (vk *VkAPI) Run(ctx context.Context, log *slog.Logger) error {
	vk.messageHandler(log)
	vk.eventHandler(log)

	log.Info("Start longpoll", slog.String("season", vk.season))
	if err := vk.lp.RunWithContext(ctx); err != nil {
		return fmt.Errorf("error running long poll: %w", err)
	}
	return nil
}

func (vk *VkAPI) messageHandler(log *slog.Logger) {
	vk.lp.MessageNew(func(ctx context.Context, obj events.MessageNewObject) {
		log.Info(
			"MESSAGE info",
			slog.Int("peer_id", obj.Message.PeerID),
			slog.String("text", obj.Message.Text))

		peerID := obj.Message.PeerID
		userDate := time.Unix(int64(obj.Message.Date), 0)

		textPayload, err := extractCommand(obj.Message.Payload)
		if err != nil {
			log.Error("Error reading payload", slog.Any("error", err))
		}

		if textPayload != nil {
			command := getCommand(*textPayload)
			raceID, ok := payloadNumber(*textPayload)
			if !ok {
				log.Info("Payload without round", slog.String("payload", *textPayload))
				return
			}
			round := strconv.Itoa(raceID)

			var messageToUser string
			switch command {
			case commandRaceRes:
				messageToUser, err = vk.messageService.GetRaceResultsMessage(ctx, vk.season, round)
			case commandQualRes:
				messageToUser, err = vk.messageService.GetQualifyingResultsMessage(ctx, vk.season, round)
			case commandSprRes:
				messageToUser, err = vk.messageService.GetSprintResultsMessage(ctx, vk.season, round)
			default:
				log.Info("Payload command not recognized", slog.String("payload", *textPayload))
				return
			}
			vk.reply(log, peerID, string(command), messageToUser, err, nil, nil)
			return
		}

		messageText := strings.ToLower(obj.Message.Text)
		command := getCommand(messageText)
		raceID := "last"

		switch command {
		case commandHello:
			vk.reply(log, peerID, "hello", helloMessage, nil, nil, nil)

		case commandHelp:
			vk.reply(log, peerID, "help", helpMessage, nil, nil, nil)

		case commandDrSt:
			messageToUser, err := vk.messageService.GetDriverStandingsMessage(ctx, vk.season)
			vk.reply(log, peerID, "driverStandings", messageToUser, err, nil, nil)

		case commandCld:
			messageToUser, err := vk.messageService.GetCalendarMessage(ctx, vk.season)
			vk.reply(log, peerID, "calendar", messageToUser, err, nil, nil)

		case commandNxRc:
			messageToUser, err := vk.messageService.GetNextRaceMessage(ctx, vk.season, userDate)
			vk.reply(log, peerID, "nextRace", messageToUser, err, nil, nil)

		case commandConsStFull, commandConsSt:
			messageToUser, err := vk.messageService.GetConstructorStandingsMessage(ctx, vk.season)
			vk.reply(log, peerID, "constructorStandings", messageToUser, err, nil, nil)

		case commandLstRc:
			messageToUser, err := vk.messageService.GetRaceResultsMessage(ctx, vk.season, raceID)
			vk.reply(log, peerID, "lastRace", messageToUser, err, nil, nil)

		case commandLstQual:
			messageToUser, err := vk.messageService.GetQualifyingResultsMessage(ctx, vk.season, raceID)
			vk.reply(log, peerID, "lastQualifying", messageToUser, err, nil, nil)

		case commandLstSpr:
			messageToUser, err := vk.messageService.GetSprintResultsMessage(ctx, vk.season, raceID)
			vk.reply(log, peerID, "lastSprint", messageToUser, err, nil, nil)

		case commandDaysAfterRace, commandDaysAfterRaceCut:
			messageToUser, err := vk.messageService.GetCountDaysAfterRaceMessage(ctx, vk.season, userDate)
			vk.reply(log, peerID, "daysAfterRace", messageToUser, err, nil, nil)

		case commandCompare:
			idA, idB, _ := parseCompare(messageText)
			messageToUser, err := vk.messageService.GetCompareMessage(ctx, vk.season, idA, idB)
			vk.reply(log, peerID, "compare", messageToUser, err, nil, nil)

		case commandLstGP:
			crsl, err := vk.carousel(ctx, raceID, userDate)
			if err != nil {
				vk.reply(log, peerID, "lastGP", "No grand prix has started this season yet.", err, nil, nil)
				break
			}
			vk.reply(log, peerID, "lastGP", "Grand prix info:", nil, nil, &crsl)

		case commandGPs:
			kb, err := vk.keyboard(ctx, 1)
			if err != nil {
				log.Error("Error creating keyboard", slog.Any("error", err))
				break
			}
			vk.reply(log, peerID, "rounds", "F1 rounds:", nil, &kb, nil)

		default:
			log.Info("Command in message not recognized", slog.String("text", obj.Message.Text))
		}
	})
}

func (vk *VkAPI) eventHandler(log *slog.Logger) {
	vk.lp.MessageEvent(func(ctx context.Context, obj events.MessageEventObject) {
		log.Info(
			"EVENT info",
			slog.Int("peer_id", obj.PeerID),
			slog.Any("text", obj.Payload))

		payloadCommand, err := extractCommand(string(obj.Payload))
		if err != nil || payloadCommand == nil {
			log.Error("Error reading payload", slog.Any("error", err))
			return
		}
		number, _ := payloadNumber(*payloadCommand)

		switch getEventCommand(*payloadCommand) {
		case commandGpList:
			kb, err := vk.keyboard(ctx, number)
			if err != nil {
				log.Error("Error making keyboard", slog.Any("error", err))
				break
			}
			vk.reply(log, obj.PeerID, "gpList", "Rounds updated", nil, &kb, nil)

		case commandGpInfo:
			crsl, err := vk.carousel(ctx, strconv.Itoa(number), time.Now())
			if err != nil {
				vk.reply(log, obj.PeerID, "gpInfo", "This grand prix is not on the calendar.", err, nil, nil)
				break
			}
			vk.reply(log, obj.PeerID, "gpInfo", "Grand prix info:", nil, nil, &crsl)

		default:
			log.Info("Event not recognized", slog.String("payload", *payloadCommand))
			return
		}

		if err := sendEventMessageToUser(vk.lp.VK, obj.PeerID, obj.EventID, obj.UserID); err != nil {
			log.Error("Error with sending event-answer to user", slog.Int("peer_id", obj.PeerID), slog.Any("error", err))
		}
	})
}

// reply logs a failed lookup and sends the message anyway: the service
// always renders something the user can read.
func (vk *VkAPI) reply(log *slog.Logger, peerID int, command, messageToUser string, lookupErr error, keyboard, template *string) {
	if lookupErr != nil {
		log.Error("Error preparing answer", slog.String("command", command), slog.Any("error", lookupErr))
	}
	if err := sendMessageToUser(messageToUser, peerID, vk.lp.VK, keyboard, template); err != nil {
		log.Error("Error with sending message-answer to user",
			slog.String("command", command),
			slog.Int("peer_id", peerID),
			slog.Any("error", err))
	}
}

func (vk *VkAPI) keyboard(ctx context.Context, page int) (string, error) {
	kb, err := makeKeyboard(kbRows, kbCols, page, vk.eventService.GetRoundCount(ctx, vk.season), false)
	if err != nil {
		return "", err
	}
	jsKb, err := json.Marshal(kb)
	if err != nil {
		return "", fmt.Errorf("error marshal keyboard: %w", err)
	}
	return string(jsKb), nil
}

func (vk *VkAPI) carousel(ctx context.Context, round string, now time.Time) (string, error) {
	race, err := vk.eventService.GetGPInfo(ctx, vk.season, round, now)
	if err != nil {
		return "", err
	}
	jsCrsl, err := json.Marshal(Carousel{Type: "carousel", Elements: []CarouselItem{makeCarouselGPItem(race)}})
	if err != nil {
		return "", fmt.Errorf("error marshal carousel: %w", err)
	}
	return string(jsCrsl), nil
}

func sendMessageToUser(messageToUser string, peerID int, vk *api.VK, keyboard, template *string) error {
	b := params.NewMessagesSendBuilder()
	b.Message(messageToUser)
	b.RandomID(0)
	b.PeerID(peerID)

	if keyboard != nil {
		b.Keyboard(*keyboard)
	}
	if template != nil {
		b.Template(*template)
	}

	msgID, err := vk.MessagesSend(b.Params)
	if err != nil {
		return fmt.Errorf("error sending message to user: %w", err)
	}
	slog.Debug("Message-answer sent", slog.Int("id", msgID))
	return nil
}

func sendEventMessageToUser(vk *api.VK, peerID int, eventID string, userID int) error {
	prms := params.NewMessagesSendMessageEventAnswerBuilder()
	prms.PeerID(peerID)
	prms.EventID(eventID)
	prms.UserID(userID)

	resp, err := vk.MessagesSendMessageEventAnswer(prms.Params)
	if err != nil {
		return fmt.Errorf("error sending event answer to user: %w", err)
	}
	slog.Debug("Response sent MessageEvent", slog.Int("id", resp))
	return nil
}

func extractCommand(payload string) (*string, error) {
	if payload == "" {
		return nil, nil
	}
	var pl Payload
	if err := json.Unmarshal([]byte(payload), &pl); err != nil {
		return nil, fmt.Errorf("error unmarshal command in payload message: %w", err)
	}
	slog.Debug("Command from payload", slog.String("command", pl.Command))
	return &pl.Command, nil
}

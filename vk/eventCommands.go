package vk

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	commandGpInfo  eventCommand = `^gpPage_\d{1,2}$`
	commandGpList  eventCommand = `^gpListPage_\d{1,2}$`
	commandNothing eventCommand = ``
)

type eventCommand string

func getEventCommand(event string) eventCommand {
	eventCommands := []eventCommand{
		commandGpInfo,
		commandGpList,
	}

	for _, eventCommand := range eventCommands {
		matched, _ := regexp.MatchString(string(eventCommand), event)

		if matched {
			return eventCommand
		}
	}

	return commandNothing
}

// payloadNumber returns the number after the last underscore of a payload
// command such as gpListPage_2 or raceRes_14.
func payloadNumber(payload string) (int, bool) {
	i := strings.LastIndex(payload, "_")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(payload[i+1:])
	return n, err == nil
}

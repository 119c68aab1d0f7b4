package vk

import "regexp"

const (
	commandDrSt             command = `driver.*standings`
	commandCld              command = `calendar`
	commandNxRc             command = `next.*race`
	commandConsStFull       command = `constructor.*(standings|cup)`
	commandConsSt           command = `^cs$`
	commandLstQual          command = `quali.*results?`
	commandLstSpr           command = `sprint.*results?`
	commandLstRc            command = `race.*results?|last race`
	commandHelp             command = `what can you do|^help`
	commandHello            command = `^(start|hello)`
	commandDaysAfterRace    command = `days without (formula|f1)`
	commandDaysAfterRaceCut command = `^dwf$`
	commandCompare          command = `compare\s+(\S+)\s+(\S+)`
	commandLstGP            command = `last gp`
	commandGPs              command = `rounds`
	commandRaceRes          command = `raceRes_\d{1,2}`
	commandQualRes          command = `qualRes_\d{1,2}`
	commandSprRes           command = `sprRes_\d{1,2}`
	commandUnknown          command = ``
)

type command string

var commands = []command{
	commandRaceRes,
	commandQualRes,
	commandSprRes,
	commandDrSt,
	commandCld,
	commandNxRc,
	commandConsStFull,
	commandConsSt,
	commandLstQual,
	commandLstSpr,
	commandLstRc,
	commandHelp,
	commandHello,
	commandDaysAfterRace,
	commandDaysAfterRaceCut,
	commandCompare,
	commandLstGP,
	commandGPs,
}

var compareArgs = regexp.MustCompile(string(commandCompare))

func getCommand(message string) command {
	for _, command := range commands {
		matched, _ := regexp.MatchString(string(command), message)

		if matched {
			return command
		}
	}

	return commandUnknown
}

// parseCompare extracts the two driver ids of a "compare a b" message.
func parseCompare(message string) (string, string, bool) {
	m := compareArgs.FindStringSubmatch(message)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

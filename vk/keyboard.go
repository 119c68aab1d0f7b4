package vk

import (
	"fmt"

	"racedash/models"
)

type Kb struct {
	Inline  bool       `json:"inline,omitempty"`
	Buttons [][]Button `json:"buttons"`
}

type Button struct {
	Action ActionBtn `json:"action"`
	Color  string    `json:"color,omitempty"`
}

type ActionBtn struct {
	TypeAction string `json:"type"`
	Link       string `json:"link,omitempty"`
	Label      string `json:"label,omitempty"`
	Payload    string `json:"payload,omitempty"`
}

type Carousel struct {
	Type     string         `json:"type"`
	Elements []CarouselItem `json:"elements"`
}

type CarouselItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PhotoID     string     `json:"photo_id,omitempty"`
	Action      *ActionBtn `json:"action,omitempty"`
	Buttons     []Button   `json:"buttons"`
}

type Payload struct {
	Command string `json:"command"`
}

// makeKeyboard lays out round buttons numbered 1..countEl, row x col per
// page, with navigation to the neighbouring pages underneath.
func makeKeyboard(row, col, numPage, countEl int, inline bool) (Kb, error) {
	var button Button
	btnsRow := make([]Button, 0, col)
	buttons := [][]Button{}
	sizeKb := row * col

	visKb := countEl - sizeKb*(numPage-1)
	if visKb > sizeKb {
		visKb = sizeKb
	}
	if numPage < 1 || visKb <= 0 {
		return Kb{}, fmt.Errorf("cannot build keyboard: %d rounds have no page %d with %d buttons per page", countEl, numPage, sizeKb)
	}
	addedNum := sizeKb * (numPage - 1)
	for i := 1; i <= visKb; i++ {
		button = Button{Action: ActionBtn{TypeAction: "callback", Label: fmt.Sprintf("%d", i+addedNum), Payload: fmt.Sprintf(`{"command" : "gpPage_%d"}`, i+addedNum)}}
		btnsRow = append(btnsRow, button)

		if (i%col == 0) || (i == visKb) {
			buttons = append(buttons, btnsRow)
			btnsRow = nil
		}
	}

	lastPage := (countEl + sizeKb - 1) / sizeKb
	var nav []Button
	if numPage > 1 {
		nav = append(nav, navButton("Back", numPage-1))
	}
	switch {
	case numPage < lastPage:
		nav = append(nav, navButton("Next", numPage+1))
	case numPage > 2:
		nav = append(nav, navButton("To start", 1))
	}
	if len(nav) > 0 {
		buttons = append(buttons, nav)
	}

	return Kb{Inline: inline, Buttons: buttons}, nil
}

func navButton(label string, page int) Button {
	return Button{Action: ActionBtn{TypeAction: "callback", Label: label, Payload: fmt.Sprintf(`{"command" : "gpListPage_%d"}`, page)}, Color: "primary"}
}

func makeCarouselGPItem(race models.Race) CarouselItem {
	buttonsArray := make([]Button, 0, 3)
	buttonsArray = append(buttonsArray,
		Button{Action: ActionBtn{TypeAction: "text", Label: "Race results", Payload: fmt.Sprintf(`{"command" : "raceRes_%s"}`, race.Round)}},
		Button{Action: ActionBtn{TypeAction: "text", Label: "Qualifying results", Payload: fmt.Sprintf(`{"command" : "qualRes_%s"}`, race.Round)}})

	if race.HasSprint() {
		buttonsArray = append(buttonsArray,
			Button{Action: ActionBtn{TypeAction: "text", Label: "Sprint results", Payload: fmt.Sprintf(`{"command" : "sprRes_%s"}`, race.Round)}})
	}

	when := race.Date
	if race.Time != "" {
		when += ", " + race.Time
	}

	item := CarouselItem{
		Title:       race.RaceName,
		Description: fmt.Sprintf("%s\n%s", race.Circuit.CircuitName, when),
		Buttons:     buttonsArray,
	}
	if race.URL != "" {
		item.Action = &ActionBtn{TypeAction: "open_link", Link: race.URL}
	}
	return item
}

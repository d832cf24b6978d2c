package flow

import "strings"

// EventKind classifies an inbound update.
type EventKind int

const (
	// EventText is a plain text message.
	EventText EventKind = iota + 1
	// EventContact is a shared contact card.
	EventContact
	// EventCallback is an inline button press carrying an action tag.
	EventCallback
	// EventCommand is a bot command or the gift trigger phrase.
	EventCommand
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventContact:
		return "contact"
	case EventCallback:
		return "callback"
	case EventCommand:
		return "command"
	}
	return "unknown"
}

// Commands understood in any state.
const (
	CommandStart  = "/start"
	CommandGift   = "/gift"
	CommandCancel = "/cancel"
	CommandAdmin  = "/admin"
)

// Callback action tags.
const (
	ActionApprovedList = "approved_list"
	ActionReview       = "review"
	ActionApprove      = "approve"
	ActionReject       = "reject"
	ActionStop         = "stop"
)

// GiftButtonText is the reply-keyboard label that starts the intake form.
const GiftButtonText = "🎁 Get your gift"

// Contact is the structured payload of a shared contact.
type Contact struct {
	Phone string
	// UserID is the Telegram account the contact belongs to, 0 when unknown.
	UserID int64
}

// Event is a classified inbound update.
type Event struct {
	Kind   EventKind
	UserID int64
	// Text holds the message body for EventText.
	Text string
	// Action holds the command for EventCommand or the tag for EventCallback.
	Action  string
	Contact *Contact
}

// TextEvent classifies a text message. The gift button label is treated as
// the /gift command.
func TextEvent(userID int64, text string) Event {
	if strings.TrimSpace(text) == GiftButtonText {
		return Event{Kind: EventCommand, UserID: userID, Action: CommandGift}
	}
	return Event{Kind: EventText, UserID: userID, Text: text}
}

// CommandEvent builds a command event.
func CommandEvent(userID int64, command string) Event {
	return Event{Kind: EventCommand, UserID: userID, Action: command}
}

// CallbackEvent builds an inline button event.
func CallbackEvent(userID int64, action string) Event {
	return Event{Kind: EventCallback, UserID: userID, Action: action}
}

// ContactEvent builds a contact-share event.
func ContactEvent(userID int64, phone string, owner int64) Event {
	return Event{Kind: EventContact, UserID: userID, Contact: &Contact{Phone: phone, UserID: owner}}
}

func (e Event) trigger() trigger {
	switch e.Kind {
	case EventCallback, EventCommand:
		return trigger{kind: e.Kind, action: e.Action}
	}
	return trigger{kind: e.Kind}
}

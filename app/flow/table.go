package flow

import (
	"context"

	"github.com/m3rciful/giftbot/core/telegram/state"
)

type trigger struct {
	kind   EventKind
	action string
}

type step func(e *Engine, ctx context.Context, ev Event) Response

var (
	onText    = trigger{kind: EventText}
	onContact = trigger{kind: EventContact}
)

func onCallback(action string) trigger { return trigger{kind: EventCallback, action: action} }

// globalSteps apply regardless of the current state.
var globalSteps = map[trigger]step{
	{kind: EventCommand, action: CommandStart}:  (*Engine).start,
	{kind: EventCommand, action: CommandCancel}: (*Engine).cancel,
	{kind: EventCommand, action: CommandGift}:   (*Engine).requestGift,
	{kind: EventCommand, action: CommandAdmin}:  (*Engine).beginAdmin,
}

// transitions lists, per state, the triggers it accepts. Anything else falls
// through to Engine.unhandled.
var transitions = map[state.State]map[trigger]step{
	StateIdle: {},
	StateName: {
		onText: (*Engine).collectName,
	},
	StateEmail: {
		onText: (*Engine).collectEmail,
	},
	StateBirthYear: {
		onText: (*Engine).collectBirthYear,
	},
	StateContact: {
		onContact: (*Engine).commit,
		onText:    (*Engine).askContactAgain,
	},
	StateAdminAuth: {
		onText: (*Engine).authenticate,
	},
	StateAdminMain: {
		onCallback(ActionApprovedList): (*Engine).approvedList,
		onCallback(ActionReview):       (*Engine).startReview,
	},
	StateAdminReview: {
		onCallback(ActionApprovedList): (*Engine).approvedList,
		onCallback(ActionReview):       (*Engine).startReview,
		onCallback(ActionApprove):      (*Engine).approve,
		onCallback(ActionReject):       (*Engine).reject,
		onCallback(ActionStop):         (*Engine).stopReview,
	},
}

// States lists every state known to the transition table.
func States() []state.State {
	return []state.State{
		StateIdle,
		StateName,
		StateEmail,
		StateBirthYear,
		StateContact,
		StateAdminAuth,
		StateAdminMain,
		StateAdminReview,
	}
}

package handlers

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/giftbot/app/flow"
	"github.com/m3rciful/giftbot/core/telegram/keyboard"
)

const (
	labelShareContact = "📱 Share contact"
	labelApprovedList = "📋 Approved list"
	labelReview       = "🔍 Review applications"
	labelApprove      = "✅ Approve"
	labelReject       = "❌ Reject"
	labelStop         = "⏹ Stop review"
)

func markup(kb flow.Keyboard) *tele.ReplyMarkup {
	switch kb {
	case flow.KeyboardUserMain:
		return keyboard.Reply([]string{flow.GiftButtonText})
	case flow.KeyboardRemove:
		return keyboard.Remove()
	case flow.KeyboardContact:
		return keyboard.Contact(labelShareContact)
	case flow.KeyboardAdminMain:
		return keyboard.Column(
			keyboard.Button{Text: labelApprovedList, Unique: flow.ActionApprovedList},
			keyboard.Button{Text: labelReview, Unique: flow.ActionReview},
		)
	case flow.KeyboardReview:
		return keyboard.Grid(
			[]keyboard.Button{
				{Text: labelApprove, Unique: flow.ActionApprove},
				{Text: labelReject, Unique: flow.ActionReject},
			},
			[]keyboard.Button{
				{Text: labelStop, Unique: flow.ActionStop},
			},
		)
	}
	return nil
}

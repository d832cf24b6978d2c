package flow

import (
	"fmt"
	"strings"

	"github.com/m3rciful/giftbot/app/registry"
)

const (
	msgWelcome        = "Welcome! 🎉\nPress the button below to get your gift:"
	msgCancelled      = "Cancelled. Press the button whenever you are ready."
	msgIdleHint       = "Press the button below to get your gift."
	msgAlreadyPending = "⏳ Your application is already under review!"
	msgGiftFailed     = "⚠️ We could not deliver your gift right now. Please try again later."

	msgAskName      = "📝 To begin, enter your full name:"
	msgAskEmail     = "📧 Your email address?"
	msgBadEmail     = "❌ Invalid email! Please enter it again:"
	msgAskYear      = "What is your birth year?"
	msgBadYearFmt   = "❌ The year must be a number between 1900 and %d!"
	msgAskContact   = "👌 Last step: share your contact using the button below."
	msgForeignPhone = "❌ Please share your own contact."
	msgDuplicate    = "❌ You have already submitted an application!"
	msgSubmitted    = "✅ Your details are saved! Please wait for the administrator's approval."

	msgAskPassword    = "🔑 Enter the administrator password:"
	msgWrongPassword  = "❌ Wrong password!"
	msgAdminPanel     = "Administrator panel:"
	msgApprovedEmpty  = "📭 The approved list is empty"
	msgExportCaption  = "📊 Approved applications export"
	msgExportFailed   = "⚠️ Export failed, please try again"
	msgBackToMenu     = "Back to the main menu:"
	msgNothingPending = "📭 There are no applications to review"
	msgAllProcessed   = "✅ All applications processed! Back to the menu:"
	msgReviewStopped  = "⏹ Review stopped. Back to the menu:"
	msgMenuInactive   = "This menu is no longer active"
	msgGiftNotSent    = "⚠️ Approved, but the gift could not be delivered"

	phoneNotProvided = "not provided"
)

func badYear(current int) string {
	return fmt.Sprintf(msgBadYearFmt, current)
}

// formatApplication renders a review card; position is zero-based.
func formatApplication(position int, app registry.Application) string {
	phone := app.Phone
	if phone == "" {
		phone = phoneNotProvided
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📝 Application #%d\n", position+1)
	fmt.Fprintf(&b, "👤 Name: %s\n", app.Name)
	fmt.Fprintf(&b, "📧 Email: %s\n", app.Email)
	fmt.Fprintf(&b, "🎂 Birth year: %d\n", app.BirthYear)
	fmt.Fprintf(&b, "📱 Phone: %s", phone)
	return b.String()
}

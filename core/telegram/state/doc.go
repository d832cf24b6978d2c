// Package state provides a lightweight session manager for Telegram bots.
// It tracks a conversation state tag and temporary data per user and knows
// nothing about the bot's domain; transition rules live with the caller.
package state

// Package lineutil provides helpers for building LINE reply messages.
package lineutil

import (
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// SenderName is the display name attached to every bot reply so messages
// keep a consistent identity in group chats.
const SenderName = "Sermon Finder"

// Action is an alias for the LINE SDK action interface for convenience.
type Action = messaging_api.ActionInterface

// QuickReplyItem represents an item in a quick reply.
type QuickReplyItem struct {
	ImageURL string
	Action   Action
}

// GetSender returns the bot's reply sender.
func GetSender() *messaging_api.Sender {
	return &messaging_api.Sender{Name: SenderName}
}

// NewTextMessage creates a text message with the bot sender.
// LINE API limits: max 5000 characters per text message. The limit counts
// characters, so the trigger counts runes, not bytes.
func NewTextMessage(text string) *messaging_api.TextMessage {
	if utf8.RuneCountInString(text) > 5000 {
		text = TruncateRunes(text, 4997) + "..."
	}
	return &messaging_api.TextMessage{
		Text:   text,
		Sender: GetSender(),
	}
}

// NewMessageAction creates a message action that sends text when tapped.
func NewMessageAction(label, text string) Action {
	return &messaging_api.MessageAction{
		Label: label,
		Text:  text,
	}
}

// NewQuickReply creates a quick reply component from items.
// LINE API limits: max 13 items.
func NewQuickReply(items []QuickReplyItem) *messaging_api.QuickReply {
	if len(items) > 13 {
		items = items[:13]
	}
	quickReplyItems := make([]messaging_api.QuickReplyItem, len(items))
	for i, item := range items {
		qrItem := messaging_api.QuickReplyItem{
			Type:   "action",
			Action: item.Action,
		}
		if item.ImageURL != "" {
			qrItem.ImageUrl = item.ImageURL
		}
		quickReplyItems[i] = qrItem
	}
	return &messaging_api.QuickReply{Items: quickReplyItems}
}

// QuickReplyMoreAction returns the "More results" quick reply item. Tapping
// it sends the literal text "more", which the extractor resolves to the most
// recent topic.
func QuickReplyMoreAction() QuickReplyItem {
	return QuickReplyItem{Action: NewMessageAction("➡️ More results", "more")}
}

// WithQuickReply attaches a quick reply to a text message and returns it.
func WithQuickReply(msg *messaging_api.TextMessage, items []QuickReplyItem) *messaging_api.TextMessage {
	if len(items) > 0 {
		msg.QuickReply = NewQuickReply(items)
	}
	return msg
}

// TruncateRunes shortens text to at most n runes without splitting a
// multi-byte character.
func TruncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// Package bot routes LINE webhook events to conversation modules and owns
// the session lifecycle commands (start/reset, follow).
package bot

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Handler is one conversation module.
type Handler interface {
	// Name identifies the module in logs.
	Name() string

	// CanHandle reports whether this module claims the message. The
	// registry asks modules in registration order; a catch-all module
	// registers last.
	CanHandle(text string) bool

	// HandleMessage processes a text message and returns the reply
	// messages (max 5 per LINE reply).
	HandleMessage(ctx context.Context, text string) []messaging_api.MessageInterface
}

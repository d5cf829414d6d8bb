// File: internal/domain/ports/adapter/chat.go
package adapter

import (
	"context"

	"slack-translate-bot/internal/domain/model"
)

// LanguagePicker describes the interactive selection control shown on first contact.
type LanguagePicker struct {
	Prompt      string
	Placeholder string
	ActionID    string
	Options     []model.Language
}

// ChatPlatform is the outbound port to the messaging platform.
type ChatPlatform interface {
	// BotUserID is the bot's own user id, resolved once at startup.
	BotUserID() string
	// PostEphemeral sends text visible only to userID in channelID.
	PostEphemeral(ctx context.Context, channelID, userID, text string) error
	// PostLanguagePicker sends the picker block as an ephemeral message.
	PostLanguagePicker(ctx context.Context, channelID, userID string, picker LanguagePicker) error
	// ChannelMembers lists user ids that belong to channelID.
	ChannelMembers(ctx context.Context, channelID string) ([]string, error)
}

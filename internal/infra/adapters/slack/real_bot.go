package slack

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"slack-translate-bot/internal/config"
	"slack-translate-bot/internal/domain/ports/adapter"
)

var _ adapter.ChatPlatform = (*RealSlackAdapter)(nil)

// RealSlackAdapter talks to the Slack Web API with a bot token.
type RealSlackAdapter struct {
	api       *slack.Client
	botUserID string
	log       *zerolog.Logger
}

// NewRealSlackAdapter builds the client and resolves the bot's own user id via auth.test.
func NewRealSlackAdapter(ctx context.Context, cfg *config.BotConfig, logger *zerolog.Logger) (*RealSlackAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("slack token is empty")
	}

	var opts []slack.Option
	if u := strings.TrimSpace(cfg.APIURL); u != "" {
		opts = append(opts, slack.OptionAPIURL(strings.TrimRight(u, "/")+"/"))
	}
	api := slack.New(cfg.Token, opts...)

	auth, err := api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth.test: %w", err)
	}
	logger.Info().Str("bot_user_id", auth.UserID).Str("team", auth.Team).Msg("slack identity resolved")

	return &RealSlackAdapter{api: api, botUserID: auth.UserID, log: logger}, nil
}

func (r *RealSlackAdapter) BotUserID() string { return r.botUserID }

func (r *RealSlackAdapter) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := r.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("chat.postEphemeral: %w", err)
	}
	return nil
}

func (r *RealSlackAdapter) PostLanguagePicker(ctx context.Context, channelID, userID string, picker adapter.LanguagePicker) error {
	_, err := r.api.PostEphemeralContext(ctx, channelID, userID,
		slack.MsgOptionText(picker.Prompt, false),
		slack.MsgOptionBlocks(PickerBlocks(picker)...),
	)
	if err != nil {
		return fmt.Errorf("chat.postEphemeral (picker): %w", err)
	}
	return nil
}

func (r *RealSlackAdapter) ChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	var (
		members []string
		cursor  string
	)
	for {
		page, next, err := r.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     200,
		})
		if err != nil {
			return nil, fmt.Errorf("conversations.members: %w", err)
		}
		members = append(members, page...)
		if next == "" {
			return members, nil
		}
		cursor = next
	}
}

// PickerBlocks renders the language picker as a section with a static select accessory.
func PickerBlocks(picker adapter.LanguagePicker) []slack.Block {
	opts := make([]*slack.OptionBlockObject, 0, len(picker.Options))
	for _, l := range picker.Options {
		opts = append(opts, slack.NewOptionBlockObject(
			l.Value,
			slack.NewTextBlockObject(slack.PlainTextType, l.Label, false, false),
			nil,
		))
	}
	sel := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic,
		slack.NewTextBlockObject(slack.PlainTextType, picker.Placeholder, false, false),
		picker.ActionID,
		opts...,
	)
	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, picker.Prompt, false, false),
		nil,
		slack.NewAccessory(sel),
	)
	return []slack.Block{section}
}

package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/infra/logging"
	"slack-translate-bot/internal/usecase"
)

// MessageEvent is the part of a platform message callback the bot cares about.
type MessageEvent struct {
	Channel string
	User    string
	Text    string
	BotID   string
	SubType string
}

// BlockActionEvent is one action from an interactive payload.
type BlockActionEvent struct {
	UserID    string
	UserName  string
	ChannelID string
	ActionID  string
	Value     string
}

// subtypes that never carry a fresh human message
var ignoredSubTypes = map[string]struct{}{
	"bot_message":     {},
	"message_changed": {},
	"message_deleted": {},
	"channel_join":    {},
	"channel_leave":   {},
}

// Dispatcher routes inbound events to onboarding or translation.
type Dispatcher struct {
	onboarding  usecase.OnboardingUseCase
	translation usecase.TranslationUseCase
	botUserID   string
	log         *zerolog.Logger
}

func NewDispatcher(onboarding usecase.OnboardingUseCase, translation usecase.TranslationUseCase, botUserID string, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		onboarding:  onboarding,
		translation: translation,
		botUserID:   botUserID,
		log:         logger,
	}
}

// Ignores reports whether ev originates from the bot itself or is not a user message.
func (d *Dispatcher) Ignores(ev MessageEvent) bool {
	if ev.User == "" || ev.User == d.botUserID || ev.BotID != "" {
		return true
	}
	_, skip := ignoredSubTypes[ev.SubType]
	return skip
}

// HandleMessage gates the sender through onboarding and translates once configured.
func (d *Dispatcher) HandleMessage(ctx context.Context, ev MessageEvent) error {
	if d.Ignores(ev) {
		return nil
	}
	ctx = logging.WithUserID(ctx, ev.User)
	ctx = logging.WithChannelID(ctx, ev.Channel)
	log := logging.With(ctx, d.log)

	proceed, err := d.onboarding.Gate(ctx, ev.Channel, ev.User)
	if err != nil {
		return fmt.Errorf("onboarding gate: %w", err)
	}
	if !proceed || strings.TrimSpace(ev.Text) == "" {
		return nil
	}

	report, err := d.translation.Translate(ctx, ev.User, ev.Text, ev.Channel)
	if err != nil {
		if errors.Is(err, domain.ErrIncompletePreference) {
			log.Warn().Err(err).Msg("sender record incomplete, translation skipped")
			return nil
		}
		return fmt.Errorf("translate: %w", err)
	}
	log.Debug().Str("pass_id", report.PassID).Int("delivered", report.Delivered).Msg("message handled")
	return nil
}

// HandleBlockAction completes onboarding for the language picker; other actions are ignored.
func (d *Dispatcher) HandleBlockAction(ctx context.Context, ev BlockActionEvent) error {
	if ev.ActionID != usecase.SelectLanguageActionID {
		logging.With(ctx, d.log).Debug().Str("action_id", ev.ActionID).Msg("ignoring unknown action")
		return nil
	}
	ctx = logging.WithUserID(ctx, ev.UserID)
	ctx = logging.WithChannelID(ctx, ev.ChannelID)

	name := ev.UserName
	if name == "" {
		name = ev.UserID
	}
	return d.onboarding.Complete(ctx, usecase.LanguageSelection{
		UserID:      ev.UserID,
		DisplayName: name,
		Language:    ev.Value,
		ChannelID:   ev.ChannelID,
	})
}

package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/domain/ports/adapter"
	"slack-translate-bot/internal/domain/ports/repository"
	"slack-translate-bot/internal/infra/i18n"
	"slack-translate-bot/internal/infra/logging"
	"slack-translate-bot/internal/infra/metrics"
)

// Compile-time check
var _ TranslationUseCase = (*translationUC)(nil)

// TranslationOptions are the optional behaviours of a translation pass.
type TranslationOptions struct {
	// ChannelMembersOnly limits targets to members of the message's channel.
	ChannelMembersOnly bool
	// DedupeByLanguage makes one generator call per distinct target language.
	DedupeByLanguage bool
}

// Report summarises one translation pass.
type Report struct {
	PassID    string
	Targets   int
	Delivered int
	Failed    int
	Skipped   int
}

// TranslationUseCase fans one message out to every user who reads another language.
type TranslationUseCase interface {
	Translate(ctx context.Context, senderID, text, channelID string) (*Report, error)
}

type translationUC struct {
	prefs repository.PreferenceRepository
	gen   adapter.TextGenerator
	chat  adapter.ChatPlatform
	tr    *i18n.Translator
	opts  TranslationOptions
	log   *zerolog.Logger
	dev   bool
}

func NewTranslationUseCase(
	prefs repository.PreferenceRepository,
	gen adapter.TextGenerator,
	chat adapter.ChatPlatform,
	tr *i18n.Translator,
	opts TranslationOptions,
	logger *zerolog.Logger,
	dev bool,
) *translationUC {
	return &translationUC{
		prefs: prefs,
		gen:   gen,
		chat:  chat,
		tr:    tr,
		opts:  opts,
		log:   logger,
		dev:   dev,
	}
}

func newPassID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// BuildPrompt renders the instruction sent to the generator.
func (u *translationUC) BuildPrompt(src, dst, text string) string {
	return u.tr.T("translate_prompt", src, dst, text)
}

func (u *translationUC) Translate(ctx context.Context, senderID, text, channelID string) (*Report, error) {
	defer logging.TraceDuration(u.log, "TranslationUC.Translate")()

	report := &Report{PassID: newPassID()}
	ctx = logging.WithPassID(ctx, report.PassID)
	log := logging.With(ctx, u.log)

	sender, err := u.prefs.Get(ctx, senderID)
	if err != nil {
		return report, fmt.Errorf("load sender preference: %w", err)
	}
	if !sender.IsConfigured() {
		metrics.IncTranslationPass("aborted")
		return report, domain.ErrIncompletePreference
	}
	senderName := sender.DisplayName
	if senderName == "" {
		senderName = sender.UserID
	}

	all, err := u.prefs.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list preferences: %w", err)
	}

	var members map[string]struct{}
	if u.opts.ChannelMembersOnly {
		ids, err := u.chat.ChannelMembers(ctx, channelID)
		if err != nil {
			return report, fmt.Errorf("list channel members: %w", err)
		}
		members = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			members[id] = struct{}{}
		}
	}

	// language (lower-cased) -> delivered text, only used with DedupeByLanguage
	cache := map[string]string{}

	for _, target := range all {
		if target.UserID == sender.UserID {
			continue
		}
		if members != nil {
			if _, ok := members[target.UserID]; !ok {
				continue
			}
		}
		report.Targets++
		if !target.IsConfigured() || target.SameLanguage(sender.Language) {
			report.Skipped++
			metrics.IncTranslation("skipped")
			continue
		}

		key := strings.ToLower(strings.TrimSpace(target.Language))
		body, cached := cache[key]
		if !u.opts.DedupeByLanguage || !cached {
			var ok bool
			body, ok = u.generate(ctx, log, sender.Language, target.Language, text)
			if !ok {
				report.Failed++
			}
			if u.opts.DedupeByLanguage {
				cache[key] = body
			}
		}

		msg := u.tr.T("translated_message", senderName, body)
		if err := u.chat.PostEphemeral(ctx, channelID, target.UserID, msg); err != nil {
			log.Error().Err(err).Str("target", target.UserID).Msg("failed to deliver translation")
			metrics.IncTranslation("delivery_failed")
			continue
		}
		report.Delivered++
		metrics.IncTranslation("delivered")
	}

	metrics.IncTranslationPass("completed")
	log.Info().
		Int("targets", report.Targets).
		Int("delivered", report.Delivered).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("translation pass done")
	return report, nil
}

// generate returns the translated text, or the failure placeholder and false.
func (u *translationUC) generate(ctx context.Context, log *zerolog.Logger, src, dst, text string) (string, bool) {
	out, err := u.gen.Generate(ctx, u.BuildPrompt(src, dst, text))
	if err == nil {
		return out, true
	}

	ev := log.Error().Err(err).Str("from", src).Str("to", dst).Str("text", logging.Redact(text, u.dev))
	var genErr *adapter.GenerationError
	if errors.As(err, &genErr) {
		ev = ev.Str("kind", string(genErr.Kind))
		if genErr.Raw != "" {
			ev = ev.Str("raw_response", genErr.Raw)
		}
	}
	ev.Msg("translation failed")
	metrics.IncTranslation("failed")
	return u.tr.T("translation_failed", failureDetail(err)), false
}

func failureDetail(err error) string {
	var genErr *adapter.GenerationError
	if errors.As(err, &genErr) && genErr.Err != nil {
		return fmt.Sprintf("%s: %v", genErr.Kind, genErr.Err)
	}
	return err.Error()
}

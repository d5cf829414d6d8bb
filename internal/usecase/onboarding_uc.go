package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/domain/model"
	"slack-translate-bot/internal/domain/ports/adapter"
	"slack-translate-bot/internal/domain/ports/repository"
	"slack-translate-bot/internal/infra/i18n"
	"slack-translate-bot/internal/infra/logging"
	"slack-translate-bot/internal/infra/metrics"
)

// SelectLanguageActionID is the action id carried by the language picker.
const SelectLanguageActionID = "select_language"

// Compile-time check
var _ OnboardingUseCase = (*onboardingUC)(nil)

// LanguageSelection is what a user submitted through the picker.
type LanguageSelection struct {
	UserID      string
	DisplayName string
	Language    string
	ChannelID   string
}

// OnboardingUseCase walks a user from first contact to a stored language.
type OnboardingUseCase interface {
	// Gate reports whether the user's message may be translated. Unknown users get
	// the picker, users still choosing get a reminder; neither proceeds.
	Gate(ctx context.Context, channelID, userID string) (bool, error)
	// Complete stores the selection and confirms it to the user.
	Complete(ctx context.Context, sel LanguageSelection) error
}

type onboardingUC struct {
	prefs repository.PreferenceRepository
	chat  adapter.ChatPlatform
	tr    *i18n.Translator
	log   *zerolog.Logger
}

func NewOnboardingUseCase(prefs repository.PreferenceRepository, chat adapter.ChatPlatform, tr *i18n.Translator, logger *zerolog.Logger) *onboardingUC {
	return &onboardingUC{
		prefs: prefs,
		chat:  chat,
		tr:    tr,
		log:   logger,
	}
}

func (u *onboardingUC) Gate(ctx context.Context, channelID, userID string) (bool, error) {
	defer logging.TraceDuration(u.log, "OnboardingUC.Gate")()

	pref, err := u.prefs.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("load preference: %w", err)
	}

	switch pref.State() {
	case model.StateUnknown:
		pending, err := model.NewPendingPreference(userID)
		if err != nil {
			return false, err
		}
		if err := u.prefs.Put(ctx, pending); err != nil {
			return false, fmt.Errorf("save pending preference: %w", err)
		}
		metrics.IncOnboardingTransition(string(model.StateAwaitingLanguage))
		logging.With(ctx, u.log).Info().Msg("new user, asking for language")

		if err := u.chat.PostLanguagePicker(ctx, channelID, userID, u.picker()); err != nil {
			return false, fmt.Errorf("post language picker: %w", err)
		}
		return false, nil

	case model.StateAwaitingLanguage:
		if err := u.chat.PostEphemeral(ctx, channelID, userID, u.tr.T("reminder")); err != nil {
			return false, fmt.Errorf("post reminder: %w", err)
		}
		return false, nil

	default:
		return true, nil
	}
}

func (u *onboardingUC) Complete(ctx context.Context, sel LanguageSelection) error {
	defer logging.TraceDuration(u.log, "OnboardingUC.Complete")()

	pref, err := model.NewConfiguredPreference(sel.UserID, sel.DisplayName, sel.Language)
	if err != nil {
		return err
	}
	if err := u.prefs.Put(ctx, pref); err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	metrics.IncOnboardingTransition(string(model.StateConfigured))
	logging.With(ctx, u.log).Info().
		Str("language", pref.Language).
		Bool("listed", model.IsSupportedLanguage(pref.Language)).
		Msg("language saved")

	if err := u.chat.PostEphemeral(ctx, sel.ChannelID, sel.UserID, u.tr.T("confirmation", pref.Language)); err != nil {
		return fmt.Errorf("post confirmation: %w", err)
	}
	return nil
}

func (u *onboardingUC) picker() adapter.LanguagePicker {
	return adapter.LanguagePicker{
		Prompt:      u.tr.T("welcome"),
		Placeholder: u.tr.T("placeholder"),
		ActionID:    SelectLanguageActionID,
		Options:     model.SupportedLanguages(),
	}
}

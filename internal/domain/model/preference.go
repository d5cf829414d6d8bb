package model

import (
	"strings"

	"slack-translate-bot/internal/domain"
)

// OnboardingState is derived from a stored preference (or its absence).
type OnboardingState string

const (
	StateUnknown          OnboardingState = "unknown"
	StateAwaitingLanguage OnboardingState = "awaiting_language"
	StateConfigured       OnboardingState = "configured"
)

// UserPreference is the per-user record kept by the preference store.
// Empty DisplayName/Language mean "not set yet".
type UserPreference struct {
	UserID                    string
	DisplayName               string
	Language                  string
	AwaitingLanguageSelection bool
}

// NewPendingPreference builds the record written on first contact.
func NewPendingPreference(userID string) (*UserPreference, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &UserPreference{UserID: userID, AwaitingLanguageSelection: true}, nil
}

// NewConfiguredPreference builds the record written when a user picks a language.
func NewConfiguredPreference(userID, displayName, language string) (*UserPreference, error) {
	userID = strings.TrimSpace(userID)
	language = strings.TrimSpace(language)
	if userID == "" || language == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &UserPreference{
		UserID:      userID,
		DisplayName: strings.TrimSpace(displayName),
		Language:    language,
	}, nil
}

func (p *UserPreference) State() OnboardingState {
	switch {
	case p == nil:
		return StateUnknown
	case p.AwaitingLanguageSelection:
		return StateAwaitingLanguage
	default:
		return StateConfigured
	}
}

// IsConfigured reports whether the record can take part in translation.
func (p *UserPreference) IsConfigured() bool {
	return p.State() == StateConfigured && p.Language != ""
}

// SameLanguage compares languages case-insensitively; free-text entries
// like "spanish" and "Spanish" are the same target.
func (p *UserPreference) SameLanguage(other string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Language), strings.TrimSpace(other))
}

func (p *UserPreference) Clone() *UserPreference {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

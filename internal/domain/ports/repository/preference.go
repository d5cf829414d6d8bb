package repository

import (
	"context"

	"slack-translate-bot/internal/domain/model"
)

// PreferenceRepository is the port for per-user language preferences.
// Get returns domain.ErrNotFound when no record exists for the user.
type PreferenceRepository interface {
	Get(ctx context.Context, userID string) (*model.UserPreference, error)
	Put(ctx context.Context, pref *model.UserPreference) error
	List(ctx context.Context) ([]*model.UserPreference, error)
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/domain/model"
	"slack-translate-bot/internal/domain/ports/repository"
	"slack-translate-bot/internal/infra/metrics"
)

// Ensure the adapter implements the port interface.
var _ repository.PreferenceRepository = (*PreferenceRepo)(nil)

// PreferenceRepo stores every user as one field of a single hash.
// HSET replaces a single field, so concurrent writers for different users never clobber each other.
type PreferenceRepo struct {
	client RedisClient
	key    string
}

type prefValue struct {
	Username           *string `json:"username"`
	Language           *string `json:"language"`
	WaitingForLanguage bool    `json:"waiting_for_language"`
}

func NewPreferenceRepo(client RedisClient, key string) *PreferenceRepo {
	if key == "" {
		key = "user_preferences"
	}
	return &PreferenceRepo{client: client, key: key}
}

func (r *PreferenceRepo) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	data, err := r.client.HGet(ctx, r.key, userID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		metrics.IncStoreError("redis", "get")
		return nil, fmt.Errorf("redis hget %s: %w", userID, err)
	}
	return decodePref(userID, data)
}

func (r *PreferenceRepo) Put(ctx context.Context, pref *model.UserPreference) error {
	if pref == nil || pref.UserID == "" {
		return domain.ErrInvalidArgument
	}
	v := prefValue{WaitingForLanguage: pref.AwaitingLanguageSelection}
	if pref.DisplayName != "" {
		name := pref.DisplayName
		v.Username = &name
	}
	if pref.Language != "" {
		lang := pref.Language
		v.Language = &lang
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key, pref.UserID, string(data)); err != nil {
		metrics.IncStoreError("redis", "put")
		return fmt.Errorf("redis hset %s: %w", pref.UserID, err)
	}
	return nil
}

func (r *PreferenceRepo) List(ctx context.Context) ([]*model.UserPreference, error) {
	all, err := r.client.HGetAll(ctx, r.key)
	if err != nil {
		metrics.IncStoreError("redis", "list")
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	out := make([]*model.UserPreference, 0, len(all))
	for id, data := range all {
		p, err := decodePref(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func decodePref(userID, data string) (*model.UserPreference, error) {
	var v prefValue
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		metrics.IncStoreError("redis", "decode")
		return nil, fmt.Errorf("decode preference %s: %w", userID, err)
	}
	p := &model.UserPreference{UserID: userID, AwaitingLanguageSelection: v.WaitingForLanguage}
	if v.Username != nil {
		p.DisplayName = *v.Username
	}
	if v.Language != nil {
		p.Language = *v.Language
	}
	return p, nil
}

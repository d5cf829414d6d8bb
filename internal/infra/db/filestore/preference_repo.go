package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/domain/model"
	"slack-translate-bot/internal/domain/ports/repository"
	"slack-translate-bot/internal/infra/metrics"
)

var _ repository.PreferenceRepository = (*PreferenceFile)(nil)

// record is the on-disk shape of one user entry.
type record struct {
	Username           *string `json:"username"`
	Language           *string `json:"language"`
	WaitingForLanguage bool    `json:"waiting_for_language"`
}

// PreferenceFile keeps every preference in one JSON object keyed by user id.
// Each access reads the whole file; each mutation rewrites it. I/O failures are
// logged and never returned: a bad read is an empty mapping, a bad write is a no-op.
type PreferenceFile struct {
	path string
	log  *zerolog.Logger

	// serializes load-modify-save within this process
	mu sync.Mutex
}

func NewPreferenceFile(path string, logger *zerolog.Logger) *PreferenceFile {
	return &PreferenceFile{path: path, log: logger}
}

func (f *PreferenceFile) Path() string { return f.path }

// Load returns the full mapping, or an empty one if the file is absent or unreadable.
func (f *PreferenceFile) Load(ctx context.Context) map[string]*model.UserPreference {
	out := map[string]*model.UserPreference{}

	b, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			metrics.IncStoreError("file", "load")
			f.log.Error().Err(err).Str("path", f.path).Msg("Error loading preferences")
		}
		return out
	}
	if len(b) == 0 {
		return out
	}

	var raw map[string]record
	if err := json.Unmarshal(b, &raw); err != nil {
		metrics.IncStoreError("file", "decode")
		f.log.Error().Err(err).Str("path", f.path).Msg("Error loading preferences")
		return out
	}
	for id, r := range raw {
		out[id] = fromRecord(id, r)
	}
	return out
}

// Save overwrites the file with the full mapping.
func (f *PreferenceFile) Save(ctx context.Context, prefs map[string]*model.UserPreference) {
	raw := make(map[string]record, len(prefs))
	for id, p := range prefs {
		if p == nil {
			continue
		}
		raw[id] = toRecord(p)
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		metrics.IncStoreError("file", "encode")
		f.log.Error().Err(err).Msg("Error saving preferences")
		return
	}
	if err := writeFileAtomic(f.path, b, 0o644); err != nil {
		metrics.IncStoreError("file", "save")
		f.log.Error().Err(err).Str("path", f.path).Msg("Error saving preferences")
	}
}

func (f *PreferenceFile) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	p, ok := f.Load(ctx)[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Put replaces the user's record. Save failures are swallowed, so the
// returned error is only ever about the input.
func (f *PreferenceFile) Put(ctx context.Context, pref *model.UserPreference) error {
	if pref == nil || pref.UserID == "" {
		return domain.ErrInvalidArgument
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	prefs := f.Load(ctx)
	prefs[pref.UserID] = pref.Clone()
	f.Save(ctx, prefs)
	return nil
}

func (f *PreferenceFile) List(ctx context.Context) ([]*model.UserPreference, error) {
	prefs := f.Load(ctx)
	out := make([]*model.UserPreference, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func fromRecord(id string, r record) *model.UserPreference {
	p := &model.UserPreference{UserID: id, AwaitingLanguageSelection: r.WaitingForLanguage}
	if r.Username != nil {
		p.DisplayName = *r.Username
	}
	if r.Language != nil {
		p.Language = *r.Language
	}
	return p
}

func toRecord(p *model.UserPreference) record {
	r := record{WaitingForLanguage: p.AwaitingLanguageSelection}
	if p.DisplayName != "" {
		name := p.DisplayName
		r.Username = &name
	}
	if p.Language != "" {
		lang := p.Language
		r.Language = &lang
	}
	return r
}

// writeFileAtomic writes to a temp file in the same directory and renames it over path.
func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp for %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp for %s: %w", path, err)
	}
	return nil
}

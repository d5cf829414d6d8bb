// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/domain/model"
	"slack-translate-bot/internal/domain/ports/adapter"
	"slack-translate-bot/internal/infra/i18n"
)

// --- Mock PreferenceRepository

type MockPreferenceRepo struct {
	mu      sync.RWMutex
	records map[string]*model.UserPreference
	puts    int

	GetErr error
	PutErr error
}

func NewMockPreferenceRepo(seed ...*model.UserPreference) *MockPreferenceRepo {
	m := &MockPreferenceRepo{records: make(map[string]*model.UserPreference)}
	for _, p := range seed {
		m.records[p.UserID] = p.Clone()
	}
	return m
}

func (m *MockPreferenceRepo) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *MockPreferenceRepo) Put(ctx context.Context, pref *model.UserPreference) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[pref.UserID] = pref.Clone()
	m.puts++
	return nil
}

func (m *MockPreferenceRepo) List(ctx context.Context) ([]*model.UserPreference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.UserPreference, 0, len(m.records))
	for _, p := range m.records {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *MockPreferenceRepo) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// --- Mock ChatPlatform

type sentMessage struct {
	ChannelID string
	UserID    string
	Text      string
}

type MockChat struct {
	mu       sync.Mutex
	Messages []sentMessage
	Pickers  []adapter.LanguagePicker
	Members  []string

	PostErr    error
	PostErrFor string // only fail deliveries to this user when set
}

func (m *MockChat) BotUserID() string { return "UBOT" }

func (m *MockChat) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	if m.PostErr != nil && (m.PostErrFor == "" || m.PostErrFor == userID) {
		return m.PostErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, sentMessage{ChannelID: channelID, UserID: userID, Text: text})
	return nil
}

func (m *MockChat) PostLanguagePicker(ctx context.Context, channelID, userID string, picker adapter.LanguagePicker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pickers = append(m.Pickers, picker)
	return nil
}

func (m *MockChat) ChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	return m.Members, nil
}

func (m *MockChat) MessagesTo(userID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.Messages {
		if msg.UserID == userID {
			out = append(out, msg.Text)
		}
	}
	return out
}

// --- Mock TextGenerator

type MockGenerator struct {
	mu      sync.Mutex
	Prompts []string
	Reply   func(prompt string) (string, error)
}

func (m *MockGenerator) Provider() string { return "mock" }
func (m *MockGenerator) Model() string    { return "mock-1" }

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.Reply == nil {
		return "", errors.New("no reply configured")
	}
	return m.Reply(prompt)
}

func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// --- Helpers

// newTestLogger writes to io.Discard to keep test output clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator() *i18n.Translator {
	tr, err := i18n.NewDefault("en")
	if err != nil {
		panic(err)
	}
	return tr
}

func configured(id, name, lang string) *model.UserPreference {
	p, err := model.NewConfiguredPreference(id, name, lang)
	if err != nil {
		panic(err)
	}
	return p
}

func pending(id string) *model.UserPreference {
	p, err := model.NewPendingPreference(id)
	if err != nil {
		panic(err)
	}
	return p
}

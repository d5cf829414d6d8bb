//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/domain/ports/adapter"
	"slack-translate-bot/internal/usecase"
)

func echoSpanish(prompt string) (string, error) {
	return "Hola", nil
}

func TestTranslationUseCase_BuildPrompt(t *testing.T) {
	uc := usecase.NewTranslationUseCase(NewMockPreferenceRepo(), &MockGenerator{}, &MockChat{}, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

	got := uc.BuildPrompt("English", "Spanish", "Hello")
	want := "Translate the following sentence from English to Spanish. Respond only with the translated sentence and nothing else:\n\nHello"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestTranslationUseCase_Translate(t *testing.T) {
	ctx := context.Background()

	t.Run("one call and one delivery per differing target", func(t *testing.T) {
		repo := NewMockPreferenceRepo(
			configured("A", "alice", "English"),
			configured("B", "bob", "Spanish"),
			configured("C", "carla", "Spanish"),
		)
		gen := &MockGenerator{Reply: echoSpanish}
		chat := &MockChat{}
		uc := usecase.NewTranslationUseCase(repo, gen, chat, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		report, err := uc.Translate(ctx, "A", "Hello", "C1")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if gen.Calls() != 2 {
			t.Errorf("expected 2 generator calls, got %d", gen.Calls())
		}
		for _, id := range []string{"B", "C"} {
			msgs := chat.MessagesTo(id)
			if len(msgs) != 1 || msgs[0] != "Translated message from @alice:\n\n Hola" {
				t.Errorf("messages to %s = %q", id, msgs)
			}
		}
		if len(chat.MessagesTo("A")) != 0 {
			t.Error("sender must not receive a translation")
		}
		if report.PassID == "" || report.Targets != 2 || report.Delivered != 2 || report.Failed != 0 || report.Skipped != 0 {
			t.Errorf("unexpected report: %+v", report)
		}
		if !strings.Contains(gen.Prompts[0], "from English to Spanish") {
			t.Errorf("unexpected prompt %q", gen.Prompts[0])
		}
	})

	t.Run("same language targets are skipped", func(t *testing.T) {
		repo := NewMockPreferenceRepo(
			configured("A", "alice", "English"),
			configured("B", "bob", "english"),
		)
		gen := &MockGenerator{Reply: echoSpanish}
		chat := &MockChat{}
		uc := usecase.NewTranslationUseCase(repo, gen, chat, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		report, err := uc.Translate(ctx, "A", "Hello", "C1")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if gen.Calls() != 0 || len(chat.Messages) != 0 {
			t.Errorf("expected no calls and no messages, got %d calls, %d messages", gen.Calls(), len(chat.Messages))
		}
		if report.Skipped != 1 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("users still choosing a language are skipped", func(t *testing.T) {
		repo := NewMockPreferenceRepo(configured("A", "alice", "English"), pending("B"))
		gen := &MockGenerator{Reply: echoSpanish}
		chat := &MockChat{}
		uc := usecase.NewTranslationUseCase(repo, gen, chat, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		if _, err := uc.Translate(ctx, "A", "Hello", "C1"); err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if gen.Calls() != 0 || len(chat.Messages) != 0 {
			t.Error("pending users must not be translated for")
		}
	})

	t.Run("generation failure delivers a placeholder and continues", func(t *testing.T) {
		repo := NewMockPreferenceRepo(
			configured("A", "alice", "English"),
			configured("B", "bob", "German"),
			configured("C", "carla", "Spanish"),
		)
		gen := &MockGenerator{Reply: func(prompt string) (string, error) {
			if strings.Contains(prompt, "to German") {
				return "", &adapter.GenerationError{Kind: adapter.FailureMissingField, Raw: `{"candidates":[]}`, Err: errors.New("no text")}
			}
			return "Hola", nil
		}}
		chat := &MockChat{}
		uc := usecase.NewTranslationUseCase(repo, gen, chat, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		report, err := uc.Translate(ctx, "A", "Hello", "C1")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		bob := chat.MessagesTo("B")
		if len(bob) != 1 || !strings.HasPrefix(bob[0], "Translated message from @alice:\n\n ⚠️ Failed to translate: ") {
			t.Errorf("bob got %q", bob)
		}
		if !strings.Contains(bob[0], "missing_field") {
			t.Errorf("placeholder should name the failure: %q", bob[0])
		}
		if carla := chat.MessagesTo("C"); len(carla) != 1 || !strings.HasSuffix(carla[0], "Hola") {
			t.Errorf("carla got %q", carla)
		}
		if report.Failed != 1 || report.Delivered != 2 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("delivery failure is counted and the loop continues", func(t *testing.T) {
		repo := NewMockPreferenceRepo(
			configured("A", "alice", "English"),
			configured("B", "bob", "German"),
			configured("C", "carla", "Spanish"),
		)
		chat := &MockChat{PostErr: errors.New("channel_not_found"), PostErrFor: "B"}
		uc := usecase.NewTranslationUseCase(repo, &MockGenerator{Reply: echoSpanish}, chat, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		report, err := uc.Translate(ctx, "A", "Hello", "C1")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if report.Delivered != 1 || len(chat.MessagesTo("C")) != 1 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("sender without a language aborts the pass", func(t *testing.T) {
		repo := NewMockPreferenceRepo(pending("A"), configured("B", "bob", "Spanish"))
		gen := &MockGenerator{Reply: echoSpanish}
		chat := &MockChat{}
		uc := usecase.NewTranslationUseCase(repo, gen, chat, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		_, err := uc.Translate(ctx, "A", "Hello", "C1")
		if !errors.Is(err, domain.ErrIncompletePreference) {
			t.Fatalf("expected ErrIncompletePreference, got %v", err)
		}
		if gen.Calls() != 0 || len(chat.Messages) != 0 {
			t.Error("nothing should be sent")
		}
	})

	t.Run("unknown sender is not found", func(t *testing.T) {
		uc := usecase.NewTranslationUseCase(NewMockPreferenceRepo(), &MockGenerator{}, &MockChat{}, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		if _, err := uc.Translate(ctx, "A", "Hello", "C1"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("sender without a display name is shown by id", func(t *testing.T) {
		repo := NewMockPreferenceRepo(configured("A", "", "English"), configured("B", "bob", "Spanish"))
		chat := &MockChat{}
		uc := usecase.NewTranslationUseCase(repo, &MockGenerator{Reply: echoSpanish}, chat, newTestTranslator(), usecase.TranslationOptions{}, newTestLogger(), false)

		if _, err := uc.Translate(ctx, "A", "Hello", "C1"); err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if msgs := chat.MessagesTo("B"); len(msgs) != 1 || msgs[0] != "Translated message from @A:\n\n Hola" {
			t.Errorf("got %q", msgs)
		}
	})
}

func TestTranslationUseCase_Options(t *testing.T) {
	ctx := context.Background()
	seed := func() *MockPreferenceRepo {
		return NewMockPreferenceRepo(
			configured("A", "alice", "English"),
			configured("B", "bob", "Spanish"),
			configured("C", "carla", "Spanish"),
			configured("D", "dora", "German"),
		)
	}

	t.Run("dedupe by language calls once per language", func(t *testing.T) {
		gen := &MockGenerator{Reply: echoSpanish}
		chat := &MockChat{}
		uc := usecase.NewTranslationUseCase(seed(), gen, chat, newTestTranslator(), usecase.TranslationOptions{DedupeByLanguage: true}, newTestLogger(), false)

		report, err := uc.Translate(ctx, "A", "Hello", "C1")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if gen.Calls() != 2 {
			t.Errorf("expected 2 calls (Spanish, German), got %d", gen.Calls())
		}
		if report.Delivered != 3 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("channel members only", func(t *testing.T) {
		gen := &MockGenerator{Reply: echoSpanish}
		chat := &MockChat{Members: []string{"A", "D"}}
		uc := usecase.NewTranslationUseCase(seed(), gen, chat, newTestTranslator(), usecase.TranslationOptions{ChannelMembersOnly: true}, newTestLogger(), false)

		report, err := uc.Translate(ctx, "A", "Hello", "C1")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if report.Targets != 1 || len(chat.MessagesTo("D")) != 1 || len(chat.MessagesTo("B")) != 0 {
			t.Errorf("unexpected fan-out: %+v", report)
		}
	})
}

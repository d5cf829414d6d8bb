//go:build !integration

package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"slack-translate-bot/internal/domain/ports/adapter"
)

func newOpenAITestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_Generate(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK, `{
  "id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Bonjour"}}]
}`)
	o, err := NewOpenAIAdapter("sk-test", "", srv.URL, 0)
	if err != nil {
		t.Fatalf("NewOpenAIAdapter: %v", err)
	}
	got, err := o.Generate(context.Background(), "Translate")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Bonjour" {
		t.Fatalf("got %q", got)
	}
	if o.Model() != "gpt-4o-mini" {
		t.Fatalf("default model = %q", o.Model())
	}
}

func TestOpenAI_Generate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   adapter.FailureKind
	}{
		{"empty choices", http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, adapter.FailureMissingField},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, adapter.FailureAPI},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newOpenAITestServer(t, tc.status, tc.body)
			o, _ := NewOpenAIAdapter("sk-test", "gpt-4o-mini", srv.URL, 0)

			_, err := o.Generate(context.Background(), "x")
			var genErr *adapter.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			if genErr.Kind != tc.want {
				t.Fatalf("kind = %s, want %s", genErr.Kind, tc.want)
			}
			if genErr.Raw == "" {
				t.Fatalf("expected raw body to be captured")
			}
		})
	}
}

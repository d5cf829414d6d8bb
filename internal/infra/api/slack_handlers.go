package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"slack-translate-bot/internal/application"
	"slack-translate-bot/internal/infra/logging"
	"slack-translate-bot/internal/infra/metrics"
)

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	l := logging.With(r.Context(), s.log)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	outer, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		l.Warn().Err(err).Msg("unparsable event payload")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch outer.Type {
	case slackevents.URLVerification:
		var ch slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &ch); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		metrics.IncSlackEvent("url_verification")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(ch.Challenge))
		return

	case slackevents.CallbackEvent:
		metrics.IncSlackEvent(outer.InnerEvent.Type)
		if msg, ok := outer.InnerEvent.Data.(*slackevents.MessageEvent); ok {
			s.dispatchMessage(r.Context(), application.MessageEvent{
				Channel: msg.Channel,
				User:    msg.User,
				Text:    msg.Text,
				BotID:   msg.BotID,
				SubType: msg.SubType,
			})
		}

	default:
		metrics.IncSlackEvent(outer.Type)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) dispatchMessage(ctx context.Context, ev application.MessageEvent) {
	l := logging.With(ctx, s.log)
	if s.pool == nil {
		if err := s.events.HandleMessage(ctx, ev); err != nil {
			l.Error().Err(err).Msg("message handling failed")
		}
		return
	}

	// the request context ends with the response; keep its values only
	detached := context.WithoutCancel(ctx)
	err := s.pool.Submit(func(context.Context) error {
		tctx, cancel := context.WithTimeout(detached, s.cfg.RequestTimeout)
		defer cancel()
		return s.events.HandleMessage(tctx, ev)
	})
	if err != nil {
		l.Warn().Err(err).Msg("message dropped")
	}
}

func (s *Server) handleInteractive(w http.ResponseWriter, r *http.Request) {
	l := logging.With(r.Context(), s.log)

	var ic slack.InteractionCallback
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &ic); err != nil {
		l.Error().Err(err).Msg("unparsable interaction payload")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	metrics.IncSlackEvent(string(ic.Type))
	if ic.Type != slack.InteractionTypeBlockActions {
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, action := range ic.ActionCallback.BlockActions {
		if action == nil {
			continue
		}
		err := s.events.HandleBlockAction(r.Context(), application.BlockActionEvent{
			UserID:    ic.User.ID,
			UserName:  ic.User.Name,
			ChannelID: ic.Channel.ID,
			ActionID:  action.ActionID,
			Value:     action.SelectedOption.Value,
		})
		if err != nil {
			l.Error().Err(err).Str("action_id", action.ActionID).Msg("interaction handling failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

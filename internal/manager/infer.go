package manager

import (
	"context"
	"time"

	"github.com/google/uuid"

	"visiond/internal/prompt"
)

// Complete runs one chat completion against the shared session and returns
// the content of the first choice. Calls are serialized; callers beyond the
// queue depth, or waiting longer than MaxWait, get a too-busy error.
func (m *Manager) Complete(ctx context.Context, msgs []prompt.Message) (string, error) {
	m.mu.RLock()
	sess, state := m.session, m.state
	m.mu.RUnlock()
	if sess == nil || state != StateReady {
		return "", ErrDependencyUnavailable("inference session not ready (state=" + string(state) + ")")
	}

	release, err := m.beginGeneration(ctx)
	if err != nil {
		if IsTooBusy(err) {
			inferenceTotal.WithLabelValues("busy").Inc()
		}
		return "", err
	}
	defer release()

	id := uuid.NewString()
	start := time.Now()
	m.logger.Debug().Str("completion_id", id).Int("messages", len(msgs)).Msg("chat completion start")
	resp, err := sess.ChatCompletion(ctx, ChatRequest{Messages: msgs})
	dur := time.Since(start)
	inferenceDuration.Observe(dur.Seconds())
	if err != nil {
		inferenceTotal.WithLabelValues("error").Inc()
		m.recordError(err)
		m.logger.Warn().Str("completion_id", id).Dur("dur", dur).Err(err).Msg("chat completion failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		inferenceTotal.WithLabelValues("error").Inc()
		m.recordError(ErrNoChoices)
		return "", ErrNoChoices
	}
	inferenceTotal.WithLabelValues("ok").Inc()
	m.completions.Add(1)
	m.logger.Debug().Str("completion_id", id).Dur("dur", dur).Int("completion_tokens", resp.Usage.CompletionTokens).Msg("chat completion done")
	return resp.Choices[0].Message.Content, nil
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	m.err = err.Error()
	m.mu.Unlock()
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tourney-bot/internal/bot"
	"tourney-bot/internal/notify"

	"github.com/rs/zerolog/log"
)

// Sink delivers outbound actions by POSTing them as JSON to the
// configured endpoint. With no endpoint configured it logs and drops,
// which is enough for local runs.
//
// Sink satisfies both the dispatcher's and the notifier's sender
// interfaces, so direct replies and broadcasts leave through the same
// pipe.
type Sink struct {
	endpoint string
	inner    *http.Client
}

func NewSink(endpoint string, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Sink{endpoint: endpoint, inner: &http.Client{Timeout: timeout}}
}

func (s *Sink) SendAction(ctx context.Context, action bot.OutboundAction) error {
	if s.endpoint == "" {
		log.Info().Int64("recipient", action.Recipient).Str("text", action.Text).Msg("outbound action dropped (no sink endpoint)")
		return nil
	}
	return s.postJSON(ctx, action)
}

// Send adapts notifier broadcasts onto the same outbound pipe.
func (s *Sink) Send(ctx context.Context, recipient int64, msg notify.Message) error {
	return s.SendAction(ctx, bot.OutboundAction{Recipient: recipient, Text: msg.Text, ImageRef: msg.ImageRef})
}

func (s *Sink) postJSON(ctx context.Context, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("sink responded with status %d", resp.StatusCode)
}

// Package notify fans a message out to an audience. Delivery is
// best-effort by contract: a failed recipient is logged and skipped,
// never retried, and never fails the operation that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tourney-bot/internal/store"
)

type AudienceResolver interface {
	ListKnownUsers(ctx context.Context) ([]int64, error)
	ListParticipants(ctx context.Context, tournamentID int64) ([]store.Participant, error)
}

type Config struct {
	AdminIDs        []int64
	PublicChannelID int64
	Workers         int
	Buffer          int
	SendTimeout     time.Duration
}

type job struct {
	recipient int64
	msg       Message
}

type Notifier struct {
	cfg      Config
	resolver AudienceResolver
	sender   Sender

	dispatchCh chan job
	done       chan struct{}
}

func New(cfg Config, resolver AudienceResolver, sender Sender) *Notifier {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 2048
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	return &Notifier{
		cfg:        cfg,
		resolver:   resolver,
		sender:     sender,
		dispatchCh: make(chan job, cfg.Buffer),
		done:       make(chan struct{}),
	}
}

func (n *Notifier) Start(ctx context.Context) {
	for i := 0; i < n.cfg.Workers; i++ {
		go n.worker(ctx)
	}
	go func() {
		<-ctx.Done()
		close(n.done)
	}()
}

// Broadcast resolves the audience and queues one delivery per recipient.
// It returns only resolution errors; delivery failures are swallowed.
func (n *Notifier) Broadcast(ctx context.Context, audience Audience, msg Message) error {
	recipients, err := n.resolve(ctx, audience)
	if err != nil {
		return err
	}
	for _, recipient := range recipients {
		select {
		case n.dispatchCh <- job{recipient: recipient, msg: msg}:
		default:
			log.Warn().Int64("recipient", recipient).Msg("notify queue full, dropping delivery")
		}
	}
	return nil
}

func (n *Notifier) resolve(ctx context.Context, audience Audience) ([]int64, error) {
	switch audience.kind {
	case audienceAll:
		return n.resolver.ListKnownUsers(ctx)
	case audienceParticipants:
		rows, err := n.resolver.ListParticipants(ctx, audience.tournamentID)
		if err != nil {
			return nil, err
		}
		out := make([]int64, 0, len(rows))
		for _, p := range rows {
			out = append(out, p.UserID)
		}
		return out, nil
	case audienceChannel:
		if n.cfg.PublicChannelID == 0 {
			return nil, nil
		}
		return []int64{n.cfg.PublicChannelID}, nil
	case audienceAdmins:
		return n.cfg.AdminIDs, nil
	}
	return nil, nil
}

func (n *Notifier) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.done:
			return
		case j := <-n.dispatchCh:
			n.deliver(ctx, j)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, j job) {
	sendCtx, cancel := context.WithTimeout(ctx, n.cfg.SendTimeout)
	defer cancel()
	if err := n.sender.Send(sendCtx, j.recipient, j.msg); err != nil {
		log.Warn().Err(err).Int64("recipient", j.recipient).Msg("notify delivery failed")
	}
}

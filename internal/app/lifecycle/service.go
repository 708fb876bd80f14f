// Package lifecycle enforces tournament and participant state-transition
// invariants. It is the only writer of durable records; notifications are
// post-commit side effects and never roll anything back.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tourney-bot/internal/notify"
	"tourney-bot/internal/store"
)

type CreateFields struct {
	Game        string
	Mode        string
	MaxPlayers  int64
	EntryFee    int64
	PrizePlaces int64
	Prizes      []int64
	MapPhoto    string
	Description string
}

type Service struct {
	store    *store.Store
	notifier *notify.Notifier
}

func NewService(st *store.Store, notifier *notify.Notifier) *Service {
	return &Service{store: st, notifier: notifier}
}

// CreateTournament validates the collected fields and persists a new
// active tournament. The wizard already validated each answer; this is a
// defensive re-check before the write. A previously used idemKey returns
// the tournament it created instead of inserting again.
func (s *Service) CreateTournament(ctx context.Context, f CreateFields, idemKey string) (*store.Tournament, error) {
	if f.MaxPlayers < 1 {
		return nil, &ValidationError{Reason: "capacity must be at least 1"}
	}
	if f.EntryFee < 0 {
		return nil, &ValidationError{Reason: "entry fee cannot be negative"}
	}
	if int64(len(f.Prizes)) != f.PrizePlaces {
		return nil, &ValidationError{Reason: fmt.Sprintf("expected %d prize amounts, got %d", f.PrizePlaces, len(f.Prizes))}
	}
	for i, p := range f.Prizes {
		if p < 0 {
			return nil, &ValidationError{Reason: fmt.Sprintf("prize for place %d cannot be negative", i+1)}
		}
	}

	created, err := s.store.CreateTournament(ctx, store.Tournament{
		Game:        f.Game,
		Mode:        f.Mode,
		MaxPlayers:  f.MaxPlayers,
		EntryFee:    f.EntryFee,
		PrizePlaces: f.PrizePlaces,
		Prizes:      f.Prizes,
		MapPhoto:    f.MapPhoto,
		Description: f.Description,
	}, idemKey)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("tournament_id", created.ID).Str("game", created.Game).Msg("tournament created")
	return created, nil
}

// RegisterParticipant upserts the (tournament, user) registration row with
// payment pending and tells the admins to expect a payment proof. A
// repeated registration overwrites the row, it never duplicates it.
func (s *Service) RegisterParticipant(ctx context.Context, tournamentID, userID int64, nickname, proofRef string) error {
	banned, err := s.store.IsBanned(ctx, userID)
	if err != nil {
		return err
	}
	if banned {
		return ErrBanned
	}

	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if t.Status != store.TournamentActive {
		return ErrNotActive
	}

	if err := s.store.UpsertParticipant(ctx, store.Participant{
		TournamentID: tournamentID,
		UserID:       userID,
		Nickname:     nickname,
		PaymentPhoto: proofRef,
	}); err != nil {
		return err
	}
	log.Info().Int64("tournament_id", tournamentID).Int64("user_id", userID).Msg("participant registered")

	s.announce(ctx, notify.Admins(), notify.Message{
		Text:     fmt.Sprintf("New registration for tournament #%d: %s (user %d). Payment proof attached.", tournamentID, nickname, userID),
		ImageRef: proofRef,
	})
	return nil
}

// ConfirmPayment marks the participant's payment confirmed. Confirming an
// already confirmed payment is a no-op, not an error.
func (s *Service) ConfirmPayment(ctx context.Context, tournamentID, userID int64) error {
	p, err := s.store.GetParticipant(ctx, tournamentID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if p.PaymentStatus == store.PaymentConfirmed {
		return nil
	}
	if err := s.store.ConfirmPayment(ctx, tournamentID, userID); err != nil {
		return err
	}
	log.Info().Int64("tournament_id", tournamentID).Int64("user_id", userID).Msg("payment confirmed")
	return nil
}

// AssignLink publishes the join link for an active tournament and
// broadcasts it to all known users and the public channel.
func (s *Service) AssignLink(ctx context.Context, tournamentID int64, link string) error {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if t.Status != store.TournamentActive {
		return ErrNotActive
	}
	if err := s.store.SetTournamentLink(ctx, tournamentID, link); err != nil {
		return err
	}
	log.Info().Int64("tournament_id", tournamentID).Msg("join link assigned")

	msg := notify.Message{Text: fmt.Sprintf("Tournament #%d (%s, %s) is starting. Join link: %s", t.ID, t.Game, t.Mode, link)}
	s.announce(ctx, notify.AllUsers(), msg)
	s.announce(ctx, notify.Channel(), msg)
	return nil
}

// FinishTournament is the one-way active -> finished transition. Every
// participant of that tournament is invited to submit a result.
func (s *Service) FinishTournament(ctx context.Context, tournamentID int64) error {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if t.Status == store.TournamentFinished {
		return ErrAlreadyFinished
	}
	if err := s.store.SetTournamentStatus(ctx, tournamentID, store.TournamentFinished); err != nil {
		return err
	}
	log.Info().Int64("tournament_id", tournamentID).Msg("tournament finished")

	s.announce(ctx, notify.Participants(tournamentID), notify.Message{
		Text: fmt.Sprintf("Tournament #%d (%s) has finished. Reply with your result to claim a prize place.", t.ID, t.Game),
	})
	return nil
}

// BanUser records a ban. It always succeeds; banning twice refreshes the
// record.
func (s *Service) BanUser(ctx context.Context, userID int64, reason string) error {
	if err := s.store.UpsertBan(ctx, userID, reason); err != nil {
		return err
	}
	log.Info().Int64("user_id", userID).Str("reason", reason).Msg("user banned")
	return nil
}

func (s *Service) announce(ctx context.Context, audience notify.Audience, msg notify.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Broadcast(ctx, audience, msg); err != nil {
		log.Warn().Err(err).Msg("audience resolution failed, announcement skipped")
	}
}

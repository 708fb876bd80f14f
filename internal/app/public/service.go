// Package public serves the stateless read commands: tournament listings
// and a user's own registrations. It never writes.
package public

import (
	"context"
	"errors"

	"tourney-bot/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) ActiveTournaments(ctx context.Context) (*TournamentsResponse, error) {
	items, err := s.store.ListTournaments(ctx, store.TournamentActive)
	if err != nil {
		return nil, err
	}
	out := make([]TournamentItem, 0, len(items))
	for _, it := range items {
		out = append(out, toItem(it))
	}
	return &TournamentsResponse{Items: out}, nil
}

func (s *Service) Tournament(ctx context.Context, id int64) (*TournamentItem, error) {
	if id <= 0 {
		return nil, ErrInvalidRequest
	}
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	item := toItem(*t)
	return &item, nil
}

func (s *Service) MyRegistrations(ctx context.Context, userID int64) (*RegistrationsResponse, error) {
	if userID == 0 {
		return nil, ErrInvalidRequest
	}
	regs, err := s.store.ListUserRegistrations(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]RegistrationItem, 0, len(regs))
	for _, r := range regs {
		out = append(out, RegistrationItem{
			TournamentID:     r.TournamentID,
			Game:             r.Game,
			Mode:             r.Mode,
			TournamentStatus: r.TournamentStatus,
			Nickname:         r.Nickname,
			PaymentStatus:    r.PaymentStatus,
			JoinedAt:         r.JoinedAt,
		})
	}
	return &RegistrationsResponse{Items: out}, nil
}

func toItem(t store.Tournament) TournamentItem {
	var prizeSum int64
	for _, p := range t.Prizes {
		prizeSum += p
	}
	return TournamentItem{
		ID:          t.ID,
		Game:        t.Game,
		Mode:        t.Mode,
		MaxPlayers:  t.MaxPlayers,
		EntryFee:    t.EntryFee,
		PrizePlaces: t.PrizePlaces,
		Prizes:      t.Prizes,
		Description: t.Description,
		Link:        t.Link,
		Status:      t.Status,
		Fund:        t.MaxPlayers * t.EntryFee,
		PrizeSum:    prizeSum,
		CreatedAt:   t.CreatedAt,
	}
}

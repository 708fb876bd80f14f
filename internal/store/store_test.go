package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTournament() Tournament {
	return Tournament{
		Game:        "Brawl Stars",
		Mode:        "Solo Showdown",
		MaxPlayers:  16,
		EntryFee:    100,
		PrizePlaces: 2,
		Prizes:      []int64{500, 200},
	}
}

func TestCreateAndGetTournament(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTournament(ctx, sampleTournament(), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.Status != TournamentActive {
		t.Fatalf("status = %q, want active", created.Status)
	}

	got, err := s.GetTournament(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Game != "Brawl Stars" || got.MaxPlayers != 16 || got.EntryFee != 100 {
		t.Fatalf("unexpected tournament: %+v", got)
	}
	if len(got.Prizes) != 2 || got.Prizes[0] != 500 || got.Prizes[1] != 200 {
		t.Fatalf("prizes = %v, want [500 200]", got.Prizes)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to round-trip")
	}
}

func TestCreateTournamentIdempotencyKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := NewIdempotencyKey()

	first, err := s.CreateTournament(ctx, sampleTournament(), key)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := s.CreateTournament(ctx, sampleTournament(), key)
	if err != nil {
		t.Fatalf("retried create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("retry created a second tournament: %d vs %d", first.ID, second.ID)
	}

	all, err := s.ListTournaments(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 tournament, got %d", len(all))
	}
}

func TestGetTournamentNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetTournament(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListTournamentsByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.CreateTournament(ctx, sampleTournament(), "")
	b, _ := s.CreateTournament(ctx, sampleTournament(), "")
	if err := s.SetTournamentStatus(ctx, a.ID, TournamentFinished); err != nil {
		t.Fatalf("finish: %v", err)
	}

	active, err := s.ListTournaments(ctx, TournamentActive)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Fatalf("unexpected active list: %+v", active)
	}
}

func TestUpsertParticipantOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr, _ := s.CreateTournament(ctx, sampleTournament(), "")

	p := Participant{TournamentID: tr.ID, UserID: 7, Nickname: "alpha", PaymentPhoto: "photo-1"}
	if err := s.UpsertParticipant(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p.Nickname = "beta"
	p.PaymentPhoto = "photo-2"
	if err := s.UpsertParticipant(ctx, p); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	rows, err := s.ListParticipants(ctx, tr.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 participant row, got %d", len(rows))
	}
	if rows[0].Nickname != "beta" || rows[0].PaymentPhoto != "photo-2" {
		t.Fatalf("latest values not retained: %+v", rows[0])
	}
	if rows[0].PaymentStatus != PaymentPending {
		t.Fatalf("status = %q, want pending", rows[0].PaymentStatus)
	}
}

func TestConfirmPayment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr, _ := s.CreateTournament(ctx, sampleTournament(), "")
	_ = s.UpsertParticipant(ctx, Participant{TournamentID: tr.ID, UserID: 7, Nickname: "alpha"})

	if err := s.ConfirmPayment(ctx, tr.ID, 7); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	got, err := s.GetParticipant(ctx, tr.ID, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PaymentStatus != PaymentConfirmed {
		t.Fatalf("status = %q, want confirmed", got.PaymentStatus)
	}

	if err := s.ConfirmPayment(ctx, tr.ID, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("confirm missing row: err = %v, want ErrNotFound", err)
	}
}

func TestListUserRegistrations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr, _ := s.CreateTournament(ctx, sampleTournament(), "")
	_ = s.UpsertParticipant(ctx, Participant{TournamentID: tr.ID, UserID: 7, Nickname: "alpha"})

	regs, err := s.ListUserRegistrations(ctx, 7)
	if err != nil {
		t.Fatalf("list registrations: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(regs))
	}
	if regs[0].Game != "Brawl Stars" || regs[0].TournamentStatus != TournamentActive {
		t.Fatalf("unexpected registration: %+v", regs[0])
	}
}

func TestBans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	banned, err := s.IsBanned(ctx, 13)
	if err != nil || banned {
		t.Fatalf("IsBanned before ban = %v, %v", banned, err)
	}
	if err := s.UpsertBan(ctx, 13, "spam"); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if err := s.UpsertBan(ctx, 13, "spam again"); err != nil {
		t.Fatalf("re-ban: %v", err)
	}
	rec, err := s.GetBan(ctx, 13)
	if err != nil {
		t.Fatalf("get ban: %v", err)
	}
	if rec.Reason != "spam again" {
		t.Fatalf("reason = %q, want latest", rec.Reason)
	}
}

func TestKnownUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []int64{3, 1, 3, 2} {
		if err := s.TouchUser(ctx, id); err != nil {
			t.Fatalf("touch %d: %v", id, err)
		}
	}
	users, err := s.ListKnownUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 3 || users[0] != 1 || users[2] != 3 {
		t.Fatalf("unexpected users: %v", users)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "durable.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tr, err := s.CreateTournament(ctx, sampleTournament(), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.GetTournament(ctx, tr.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Game != tr.Game {
		t.Fatalf("unexpected tournament after reopen: %+v", got)
	}
}

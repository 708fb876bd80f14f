package lifecycle

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tourney-bot/internal/notify"
	"tourney-bot/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st, nil), st
}

func validFields() CreateFields {
	return CreateFields{
		Game:        "Brawl Stars",
		Mode:        "Solo Showdown",
		MaxPlayers:  16,
		EntryFee:    100,
		PrizePlaces: 2,
		Prizes:      []int64{500, 200},
	}
}

func TestCreateTournamentStoresPrizeList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTournament(ctx, validFields(), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.Prizes) != 2 || created.Prizes[0] != 500 || created.Prizes[1] != 200 {
		t.Fatalf("prizes = %v, want [500 200]", created.Prizes)
	}
	if int64(len(created.Prizes)) != created.PrizePlaces {
		t.Fatalf("prize list length %d != prize places %d", len(created.Prizes), created.PrizePlaces)
	}
}

func TestCreateTournamentRejectsMismatchedPrizeCount(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	f := validFields()
	f.PrizePlaces = 6
	_, err := svc.CreateTournament(ctx, f, "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	all, _ := st.ListTournaments(ctx, "")
	if len(all) != 0 {
		t.Fatalf("rejected creation still persisted: %v", all)
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateFields)
	}{
		{"zero capacity", func(f *CreateFields) { f.MaxPlayers = 0 }},
		{"negative fee", func(f *CreateFields) { f.EntryFee = -1 }},
		{"negative prize", func(f *CreateFields) { f.Prizes = []int64{500, -1} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.mutate(&f)
			if _, err := svc.CreateTournament(ctx, f, ""); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterParticipantUpsert(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	tr, _ := svc.CreateTournament(ctx, validFields(), "")

	if err := svc.RegisterParticipant(ctx, tr.ID, 7, "alpha", "proof-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.RegisterParticipant(ctx, tr.ID, 7, "beta", "proof-2"); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	rows, _ := st.ListParticipants(ctx, tr.ID)
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(rows))
	}
	if rows[0].Nickname != "beta" || rows[0].PaymentPhoto != "proof-2" {
		t.Fatalf("latest registration not retained: %+v", rows[0])
	}
}

func TestRegisterParticipantUnknownTournament(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.RegisterParticipant(context.Background(), 99, 7, "alpha", "p"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBannedUserCannotRegister(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	tr, _ := svc.CreateTournament(ctx, validFields(), "")

	if err := svc.BanUser(ctx, 13, "abuse"); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if err := svc.RegisterParticipant(ctx, tr.ID, 13, "cheater", "p"); !errors.Is(err, ErrBanned) {
		t.Fatalf("err = %v, want ErrBanned", err)
	}
	if _, err := st.GetParticipant(ctx, tr.ID, 13); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("banned registration left a participant row: %v", err)
	}
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	tr, _ := svc.CreateTournament(ctx, validFields(), "")
	_ = svc.RegisterParticipant(ctx, tr.ID, 7, "alpha", "p")

	if err := svc.ConfirmPayment(ctx, tr.ID, 7); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if err := svc.ConfirmPayment(ctx, tr.ID, 7); err != nil {
		t.Fatalf("second confirm should be a no-op: %v", err)
	}
	p, _ := st.GetParticipant(ctx, tr.ID, 7)
	if p.PaymentStatus != store.PaymentConfirmed {
		t.Fatalf("status = %q, want confirmed", p.PaymentStatus)
	}

	if err := svc.ConfirmPayment(ctx, tr.ID, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("confirm missing participant: err = %v, want ErrNotFound", err)
	}
}

func TestFinishTournamentIsOneWay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tr, _ := svc.CreateTournament(ctx, validFields(), "")

	if err := svc.FinishTournament(ctx, tr.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := svc.FinishTournament(ctx, tr.ID); !errors.Is(err, ErrAlreadyFinished) {
		t.Fatalf("second finish: err = %v, want ErrAlreadyFinished", err)
	}
	if err := svc.AssignLink(ctx, tr.ID, "https://example.com/join"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("assign link after finish: err = %v, want ErrNotActive", err)
	}
	if err := svc.RegisterParticipant(ctx, tr.ID, 7, "late", "p"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("register after finish: err = %v, want ErrNotActive", err)
	}
}

func TestAssignLink(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	tr, _ := svc.CreateTournament(ctx, validFields(), "")

	if err := svc.AssignLink(ctx, tr.ID, "https://example.com/join"); err != nil {
		t.Fatalf("assign link: %v", err)
	}
	got, _ := st.GetTournament(ctx, tr.ID)
	if got.Link != "https://example.com/join" {
		t.Fatalf("link = %q", got.Link)
	}

	if err := svc.AssignLink(ctx, 99, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("assign link unknown id: err = %v, want ErrNotFound", err)
	}
}

type captureSender struct {
	deliveries chan capturedDelivery
}

type capturedDelivery struct {
	recipient int64
	msg       notify.Message
}

func (c *captureSender) Send(_ context.Context, recipient int64, msg notify.Message) error {
	c.deliveries <- capturedDelivery{recipient: recipient, msg: msg}
	return nil
}

func TestRegisterParticipantNotifiesAdmins(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sender := &captureSender{deliveries: make(chan capturedDelivery, 4)}
	notifier := notify.New(notify.Config{AdminIDs: []int64{1000}, Workers: 1}, st, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	svc := NewService(st, notifier)
	tr, _ := svc.CreateTournament(ctx, validFields(), "")
	if err := svc.RegisterParticipant(ctx, tr.ID, 7, "alpha", "proof-ref"); err != nil {
		t.Fatalf("register: %v", err)
	}

	select {
	case d := <-sender.deliveries:
		if d.recipient != 1000 {
			t.Fatalf("recipient = %d, want admin 1000", d.recipient)
		}
		if d.msg.ImageRef != "proof-ref" {
			t.Fatalf("image ref = %q, want proof-ref", d.msg.ImageRef)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("admin notification never delivered")
	}
}

package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tourney-bot/internal/store"
)

type fakeResolver struct {
	users        []int64
	participants map[int64][]store.Participant
}

func (f *fakeResolver) ListKnownUsers(context.Context) ([]int64, error) {
	return f.users, nil
}

func (f *fakeResolver) ListParticipants(_ context.Context, id int64) ([]store.Participant, error) {
	return f.participants[id], nil
}

type recordingSender struct {
	mu       sync.Mutex
	sent     []int64
	failFor  map[int64]error
	deliverC chan int64
}

func newRecordingSender(capacity int) *recordingSender {
	return &recordingSender{failFor: map[int64]error{}, deliverC: make(chan int64, capacity)}
}

func (r *recordingSender) Send(_ context.Context, recipient int64, _ Message) error {
	r.mu.Lock()
	err := r.failFor[recipient]
	if err == nil {
		r.sent = append(r.sent, recipient)
	}
	r.mu.Unlock()
	r.deliverC <- recipient
	return err
}

func (r *recordingSender) waitDeliveries(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.deliverC:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func (r *recordingSender) delivered() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.sent...)
}

func TestBroadcastAllUsers(t *testing.T) {
	resolver := &fakeResolver{users: []int64{1, 2, 3}}
	sender := newRecordingSender(8)
	n := New(Config{Workers: 1}, resolver, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	if err := n.Broadcast(ctx, AllUsers(), Message{Text: "hello"}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	sender.waitDeliveries(t, 3)
	if got := sender.delivered(); len(got) != 3 {
		t.Fatalf("delivered = %v, want 3 recipients", got)
	}
}

func TestBroadcastOneFailureDoesNotStopOthers(t *testing.T) {
	resolver := &fakeResolver{users: []int64{1, 2, 3}}
	sender := newRecordingSender(8)
	sender.failFor[2] = errors.New("unreachable")
	n := New(Config{Workers: 1}, resolver, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	if err := n.Broadcast(ctx, AllUsers(), Message{Text: "hello"}); err != nil {
		t.Fatalf("broadcast should not surface delivery failures: %v", err)
	}
	sender.waitDeliveries(t, 3)
	got := sender.delivered()
	if len(got) != 2 {
		t.Fatalf("delivered = %v, want recipients 1 and 3", got)
	}
}

func TestBroadcastParticipants(t *testing.T) {
	resolver := &fakeResolver{participants: map[int64][]store.Participant{
		5: {{UserID: 10}, {UserID: 20}},
	}}
	sender := newRecordingSender(8)
	n := New(Config{Workers: 1}, resolver, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	if err := n.Broadcast(ctx, Participants(5), Message{Text: "submit results"}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	sender.waitDeliveries(t, 2)
	got := sender.delivered()
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Fatalf("delivered = %v, want [10 20]", got)
	}
}

func TestBroadcastChannelAndAdmins(t *testing.T) {
	resolver := &fakeResolver{}
	sender := newRecordingSender(8)
	n := New(Config{Workers: 1, AdminIDs: []int64{100, 200}, PublicChannelID: -50}, resolver, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	if err := n.Broadcast(ctx, Channel(), Message{Text: "new link"}); err != nil {
		t.Fatalf("broadcast channel: %v", err)
	}
	if err := n.Broadcast(ctx, Admins(), Message{Text: "new registration"}); err != nil {
		t.Fatalf("broadcast admins: %v", err)
	}
	sender.waitDeliveries(t, 3)
	got := sender.delivered()
	if len(got) != 3 {
		t.Fatalf("delivered = %v, want channel + 2 admins", got)
	}
}

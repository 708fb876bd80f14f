package store

import "time"

const (
	TournamentActive   = "active"
	TournamentFinished = "finished"

	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
)

type Tournament struct {
	ID          int64
	Game        string
	Mode        string
	MaxPlayers  int64
	EntryFee    int64
	PrizePlaces int64
	Prizes      []int64
	MapPhoto    string
	Description string
	Link        string
	Status      string
	CreatedAt   time.Time
}

type Participant struct {
	TournamentID  int64
	UserID        int64
	Nickname      string
	PaymentStatus string
	PaymentPhoto  string
	JoinedAt      time.Time
}

// Registration is a participant row joined with its tournament, for the
// "my tournaments" listing.
type Registration struct {
	Participant
	Game             string
	Mode             string
	TournamentStatus string
}

type BanRecord struct {
	UserID   int64
	BannedAt time.Time
	Reason   string
}

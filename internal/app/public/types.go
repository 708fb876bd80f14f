package public

import "time"

type TournamentItem struct {
	ID          int64   `json:"id"`
	Game        string  `json:"game"`
	Mode        string  `json:"mode"`
	MaxPlayers  int64   `json:"max_players"`
	EntryFee    int64   `json:"entry_fee"`
	PrizePlaces int64   `json:"prize_places"`
	Prizes      []int64 `json:"prizes"`
	Description string  `json:"description,omitempty"`
	Link        string  `json:"link,omitempty"`
	Status      string  `json:"status"`
	// Fund is the maximum pool: capacity times entry fee.
	Fund      int64     `json:"fund"`
	PrizeSum  int64     `json:"prize_sum"`
	CreatedAt time.Time `json:"created_at"`
}

type TournamentsResponse struct {
	Items []TournamentItem `json:"items"`
}

type RegistrationItem struct {
	TournamentID     int64     `json:"tournament_id"`
	Game             string    `json:"game"`
	Mode             string    `json:"mode"`
	TournamentStatus string    `json:"tournament_status"`
	Nickname         string    `json:"nickname"`
	PaymentStatus    string    `json:"payment_status"`
	JoinedAt         time.Time `json:"joined_at"`
}

type RegistrationsResponse struct {
	Items []RegistrationItem `json:"items"`
}

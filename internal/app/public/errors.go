package public

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrTournamentNotFound = errors.New("tournament_not_found")
)

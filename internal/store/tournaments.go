package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const tournamentColumns = `id, game, mode, max_players, entry_fee, prize_places, prizes, map_photo, description, link, status, created_at`

// CreateTournament inserts a new tournament and assigns its id. When idemKey
// is non-empty and was already used, the previously created tournament is
// returned instead of inserting a second row.
func (s *Store) CreateTournament(ctx context.Context, t Tournament, idemKey string) (*Tournament, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if idemKey != "" {
		var existingID int64
		err := tx.QueryRowContext(ctx,
			`SELECT tournament_id FROM creation_keys WHERE key = ?`, idemKey).Scan(&existingID)
		switch {
		case err == nil:
			existing, getErr := scanTournament(tx.QueryRowContext(ctx,
				`SELECT `+tournamentColumns+` FROM tournaments WHERE id = ?`, existingID))
			if getErr != nil {
				return nil, getErr
			}
			return existing, tx.Commit()
		case !errors.Is(err, sql.ErrNoRows):
			return nil, err
		}
	}

	prizes, err := json.Marshal(t.Prizes)
	if err != nil {
		return nil, fmt.Errorf("encode prizes: %w", err)
	}
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tournaments (game, mode, max_players, entry_fee, prize_places, prizes, map_photo, description, link, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)`,
		t.Game, t.Mode, t.MaxPlayers, t.EntryFee, t.PrizePlaces, string(prizes),
		t.MapPhoto, t.Description, TournamentActive, now.Format(timeFormat))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if idemKey != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO creation_keys (key, tournament_id, created_at) VALUES (?, ?, ?)`,
			idemKey, id, now.Format(timeFormat)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := t
	created.ID = id
	created.Link = ""
	created.Status = TournamentActive
	created.CreatedAt = now
	return &created, nil
}

func (s *Store) GetTournament(ctx context.Context, id int64) (*Tournament, error) {
	return scanTournament(s.DB.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = ?`, id))
}

// ListTournaments returns tournaments filtered by status, newest first.
// An empty status returns everything.
func (s *Store) ListTournaments(ctx context.Context, status string) ([]Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) SetTournamentLink(ctx context.Context, id int64, link string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE tournaments SET link = ? WHERE id = ?`, link, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) SetTournamentStatus(ctx context.Context, id int64, status string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE tournaments SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTournament(row rowScanner) (*Tournament, error) {
	var t Tournament
	var prizes, createdAt string
	err := row.Scan(&t.ID, &t.Game, &t.Mode, &t.MaxPlayers, &t.EntryFee, &t.PrizePlaces,
		&prizes, &t.MapPhoto, &t.Description, &t.Link, &t.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(prizes), &t.Prizes); err != nil {
		return nil, fmt.Errorf("decode prizes for tournament %d: %w", t.ID, err)
	}
	t.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for tournament %d: %w", t.ID, err)
	}
	return &t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertParticipant writes the registration row for (tournament, user).
// Re-registration overwrites nickname and proof and resets the payment
// status to pending; it never creates a second row.
func (s *Store) UpsertParticipant(ctx context.Context, p Participant) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO participants (tournament_id, user_id, nickname, payment_status, payment_photo, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tournament_id, user_id) DO UPDATE SET
		   nickname = excluded.nickname,
		   payment_status = excluded.payment_status,
		   payment_photo = excluded.payment_photo,
		   joined_at = excluded.joined_at`,
		p.TournamentID, p.UserID, p.Nickname, PaymentPending, p.PaymentPhoto,
		time.Now().UTC().Format(timeFormat))
	return err
}

func (s *Store) GetParticipant(ctx context.Context, tournamentID, userID int64) (*Participant, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT tournament_id, user_id, nickname, payment_status, payment_photo, joined_at
		 FROM participants WHERE tournament_id = ? AND user_id = ?`, tournamentID, userID)
	return scanParticipant(row)
}

func (s *Store) ConfirmPayment(ctx context.Context, tournamentID, userID int64) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE participants SET payment_status = ? WHERE tournament_id = ? AND user_id = ?`,
		PaymentConfirmed, tournamentID, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) ListParticipants(ctx context.Context, tournamentID int64) ([]Participant, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT tournament_id, user_id, nickname, payment_status, payment_photo, joined_at
		 FROM participants WHERE tournament_id = ? ORDER BY joined_at`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) ListUserRegistrations(ctx context.Context, userID int64) ([]Registration, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT p.tournament_id, p.user_id, p.nickname, p.payment_status, p.payment_photo, p.joined_at,
		        t.game, t.mode, t.status
		 FROM participants p
		 JOIN tournaments t ON t.id = p.tournament_id
		 WHERE p.user_id = ? ORDER BY p.joined_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Registration
	for rows.Next() {
		var r Registration
		var joinedAt string
		if err := rows.Scan(&r.TournamentID, &r.UserID, &r.Nickname, &r.PaymentStatus,
			&r.PaymentPhoto, &joinedAt, &r.Game, &r.Mode, &r.TournamentStatus); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeFormat, joinedAt)
		if err != nil {
			return nil, fmt.Errorf("parse joined_at: %w", err)
		}
		r.JoinedAt = parsed
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanParticipant(row rowScanner) (*Participant, error) {
	var p Participant
	var joinedAt string
	err := row.Scan(&p.TournamentID, &p.UserID, &p.Nickname, &p.PaymentStatus, &p.PaymentPhoto, &joinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.JoinedAt, err = time.Parse(timeFormat, joinedAt)
	if err != nil {
		return nil, fmt.Errorf("parse joined_at: %w", err)
	}
	return &p, nil
}

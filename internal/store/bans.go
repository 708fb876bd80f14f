package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// UpsertBan records or refreshes a ban. Banning an already banned user
// updates the timestamp and reason.
func (s *Store) UpsertBan(ctx context.Context, userID int64, reason string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO banned_users (user_id, banned_at, reason) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET banned_at = excluded.banned_at, reason = excluded.reason`,
		userID, time.Now().UTC().Format(timeFormat), reason)
	return err
}

func (s *Store) GetBan(ctx context.Context, userID int64) (*BanRecord, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT user_id, banned_at, reason FROM banned_users WHERE user_id = ?`, userID)
	var b BanRecord
	var bannedAt string
	err := row.Scan(&b.UserID, &bannedAt, &b.Reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.BannedAt, err = time.Parse(timeFormat, bannedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) IsBanned(ctx context.Context, userID int64) (bool, error) {
	_, err := s.GetBan(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

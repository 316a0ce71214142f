package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/focusbot/core/logger"
	"log/slog"
)

// Store owns all persisted user and session state. Every operation is
// fail-fast: persistence errors propagate to the caller so the dialogue
// handler can report the failure instead of silently losing state.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an established database connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetOrCreateUser looks a user up by Telegram ID and inserts a row with
// default flags when absent. Safe to call repeatedly; the second return
// value reports whether creation occurred on this call.
func (s *Store) GetOrCreateUser(ctx context.Context, telegramID int64) (User, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (telegram_id) VALUES ($1) ON CONFLICT (telegram_id) DO NOTHING`,
		telegramID,
	)
	if err != nil {
		return User{}, false, fmt.Errorf("create user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return User{}, false, fmt.Errorf("create user: %w", err)
	}
	created := affected > 0

	var user User
	if err := s.db.GetContext(ctx, &user,
		`SELECT telegram_id, is_on_session, is_setting_date FROM users WHERE telegram_id = $1`,
		telegramID,
	); err != nil {
		return User{}, false, fmt.Errorf("read user: %w", err)
	}

	if created {
		logger.SVCUsers.LogAttrs(ctx, slog.LevelInfo, "user.created",
			slog.Int64("user_id", telegramID),
		)
	}
	return user, created, nil
}

// GetUserByTelegramID returns the user record or ErrUserNotFound.
func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user,
		`SELECT telegram_id, is_on_session, is_setting_date FROM users WHERE telegram_id = $1`,
		telegramID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("read user: %w", err)
	}
	return user, nil
}

// StartSession opens a new session at startedAt. The user flag flip and the
// session insert run in one transaction, and the flip is conditional on the
// flag being clear, so two interleaved starts for the same user cannot both
// succeed: the loser gets ErrSessionOpen. Starting for a Telegram ID without
// a user row fails with ErrUserNotFound.
func (s *Store) StartSession(ctx context.Context, telegramID int64, startedAt time.Time) (Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET is_on_session = TRUE WHERE telegram_id = $1 AND is_on_session = FALSE`,
		telegramID,
	)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	if affected == 0 {
		var onSession bool
		err := tx.GetContext(ctx, &onSession,
			`SELECT is_on_session FROM users WHERE telegram_id = $1`,
			telegramID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrUserNotFound
		}
		if err != nil {
			return Session{}, fmt.Errorf("start session: %w", err)
		}
		return Session{}, ErrSessionOpen
	}

	var sess Session
	if err := tx.GetContext(ctx, &sess,
		`INSERT INTO sessions (user_id, started_at) VALUES ($1, $2)
		 RETURNING id, user_id, started_at, ended_at`,
		telegramID, startedAt.UnixMilli(),
	); err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}

	logger.SVCSessions.LogAttrs(ctx, slog.LevelInfo, "session.started",
		slog.Int64("user_id", telegramID),
		slog.Int64("session_id", sess.ID),
	)
	return sess, nil
}

// OpenSession returns the user's currently open session or ErrNoOpenSession.
func (s *Store) OpenSession(ctx context.Context, telegramID int64) (Session, error) {
	var sess Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT id, user_id, started_at, ended_at FROM sessions
		 WHERE user_id = $1 AND ended_at IS NULL
		 ORDER BY started_at DESC LIMIT 1`,
		telegramID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoOpenSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	return sess, nil
}

// StopSession closes the user's open session and clears the on-session flag
// in one transaction, so the flag cannot desync from the session rows. It
// returns the just-closed session, or ErrNoOpenSession when nothing is open.
func (s *Store) StopSession(ctx context.Context, telegramID int64) (Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("stop session: %w", err)
	}
	defer tx.Rollback()

	var sess Session
	err = tx.GetContext(ctx, &sess,
		`UPDATE sessions SET ended_at = $1 WHERE user_id = $2 AND ended_at IS NULL
		 RETURNING id, user_id, started_at, ended_at`,
		time.Now().UnixMilli(), telegramID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoOpenSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("stop session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET is_on_session = FALSE WHERE telegram_id = $1`,
		telegramID,
	); err != nil {
		return Session{}, fmt.Errorf("stop session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Session{}, fmt.Errorf("stop session: %w", err)
	}

	logger.SVCSessions.LogAttrs(ctx, slog.LevelInfo, "session.stopped",
		slog.Int64("user_id", telegramID),
		slog.Int64("session_id", sess.ID),
		slog.Int("minutes", sess.Minutes()),
	)
	return sess, nil
}

// SessionsEndedAfter returns every session for the user that ended strictly
// after the cutoff. A session that started before the cutoff but ended after
// it is included: it took place inside the queried window.
func (s *Store) SessionsEndedAfter(ctx context.Context, telegramID int64, since time.Time) ([]Session, error) {
	var sessions []Session
	if err := s.db.SelectContext(ctx, &sessions,
		`SELECT id, user_id, started_at, ended_at FROM sessions
		 WHERE user_id = $1 AND ended_at > $2
		 ORDER BY started_at`,
		telegramID, since.UnixMilli(),
	); err != nil {
		return nil, fmt.Errorf("sessions ended after: %w", err)
	}
	return sessions, nil
}

// SumIntervalsSince sums the full duration of every session that ended after
// the cutoff and reports the total in hours rounded to one decimal place.
func (s *Store) SumIntervalsSince(ctx context.Context, telegramID int64, since time.Time) (float64, error) {
	sessions, err := s.SessionsEndedAfter(ctx, telegramID, since)
	if err != nil {
		return 0, err
	}
	hours := SumIntervalHours(sessions)
	logger.SVCSessions.LogAttrs(ctx, slog.LevelDebug, "sessions.summed",
		slog.Int64("user_id", telegramID),
		slog.Int("count", len(sessions)),
		slog.Float64("hours", hours),
	)
	return hours, nil
}

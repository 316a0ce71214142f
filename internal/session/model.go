package session

import (
	"database/sql"
	"math"
	"time"
)

// User mirrors one row of the users table. IsOnSession is true iff exactly
// one session for this user has a null end time. IsSettingDate is reserved
// and not mutated by any current flow.
type User struct {
	TelegramID    int64 `db:"telegram_id"`
	IsOnSession   bool  `db:"is_on_session"`
	IsSettingDate bool  `db:"is_setting_date"`
}

// Session mirrors one row of the sessions table. Timestamps are stored as
// millisecond epoch values; a null EndedAtMS means the session is open.
type Session struct {
	ID          int64         `db:"id"`
	UserID      int64         `db:"user_id"`
	StartedAtMS int64         `db:"started_at"`
	EndedAtMS   sql.NullInt64 `db:"ended_at"`
}

// Open reports whether the session has not been closed yet.
func (s Session) Open() bool {
	return !s.EndedAtMS.Valid
}

// StartedAt returns the start timestamp in the local timezone.
func (s Session) StartedAt() time.Time {
	return time.UnixMilli(s.StartedAtMS)
}

// EndedAt returns the end timestamp, or the zero time for an open session.
func (s Session) EndedAt() time.Time {
	if !s.EndedAtMS.Valid {
		return time.Time{}
	}
	return time.UnixMilli(s.EndedAtMS.Int64)
}

// Duration returns the full elapsed time of a closed session.
// Open sessions have zero duration until they are stopped.
func (s Session) Duration() time.Duration {
	if !s.EndedAtMS.Valid {
		return 0
	}
	return time.Duration(s.EndedAtMS.Int64-s.StartedAtMS) * time.Millisecond
}

// Minutes returns the session duration rounded to whole minutes.
func (s Session) Minutes() int {
	return int(math.Round(float64(s.Duration()) / float64(time.Minute)))
}

// SumIntervalHours sums the full duration of every given session and converts
// milliseconds to hours rounded to one decimal place. Sessions that straddle
// a cutoff contribute their entire duration, not the clipped portion.
func SumIntervalHours(sessions []Session) float64 {
	var totalMS int64
	for _, s := range sessions {
		if !s.EndedAtMS.Valid {
			continue
		}
		totalMS += s.EndedAtMS.Int64 - s.StartedAtMS
	}
	hours := float64(totalMS) / 1000 / 60 / 60
	return math.Round(hours*10) / 10
}

// DayStart returns local-clock midnight of the day containing t.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

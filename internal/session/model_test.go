package session

import (
	"database/sql"
	"testing"
	"time"
)

func closed(startMS, endMS int64) Session {
	return Session{
		UserID:      1,
		StartedAtMS: startMS,
		EndedAtMS:   sql.NullInt64{Int64: endMS, Valid: true},
	}
}

func TestSumIntervalHours(t *testing.T) {
	// One hour plus half an hour since t=0.
	sessions := []Session{
		closed(0, 3600000),
		closed(7200000, 9000000),
	}
	if got := SumIntervalHours(sessions); got != 1.5 {
		t.Fatalf("SumIntervalHours = %v, want 1.5", got)
	}
}

func TestSumIntervalHoursRoundsToOneDecimal(t *testing.T) {
	// 10 minutes = 0.1666... h, rounds to 0.2.
	sessions := []Session{closed(0, 10*60*1000)}
	if got := SumIntervalHours(sessions); got != 0.2 {
		t.Fatalf("SumIntervalHours = %v, want 0.2", got)
	}
}

func TestSumIntervalHoursSkipsOpenSessions(t *testing.T) {
	sessions := []Session{
		closed(0, 3600000),
		{UserID: 1, StartedAtMS: 3600000},
	}
	if got := SumIntervalHours(sessions); got != 1.0 {
		t.Fatalf("SumIntervalHours = %v, want 1.0", got)
	}
}

func TestSumIntervalHoursEmpty(t *testing.T) {
	if got := SumIntervalHours(nil); got != 0 {
		t.Fatalf("SumIntervalHours(nil) = %v, want 0", got)
	}
}

func TestSessionDurationRoundTrip(t *testing.T) {
	start := time.Date(2024, 6, 22, 6, 15, 0, 0, time.Local)
	end := time.Date(2024, 6, 22, 7, 0, 0, 0, time.Local)
	s := closed(start.UnixMilli(), end.UnixMilli())

	if got := s.Duration(); got != end.Sub(start) {
		t.Fatalf("Duration = %v, want %v", got, end.Sub(start))
	}
	if got := s.Minutes(); got != 45 {
		t.Fatalf("Minutes = %d, want 45", got)
	}
	if !s.StartedAt().Equal(start) || !s.EndedAt().Equal(end) {
		t.Fatalf("timestamps did not round trip: %v %v", s.StartedAt(), s.EndedAt())
	}
}

func TestOpenSessionHasNoDuration(t *testing.T) {
	s := Session{UserID: 1, StartedAtMS: 1000}
	if !s.Open() {
		t.Fatal("session without ended_at must report open")
	}
	if s.Duration() != 0 || s.Minutes() != 0 {
		t.Fatalf("open session duration = %v", s.Duration())
	}
	if !s.EndedAt().IsZero() {
		t.Fatalf("open session EndedAt = %v, want zero", s.EndedAt())
	}
}

func TestDayStart(t *testing.T) {
	now := time.Date(2024, 6, 22, 6, 30, 15, 999, time.Local)
	midnight := DayStart(now)
	if midnight.Hour() != 0 || midnight.Minute() != 0 || midnight.Second() != 0 || midnight.Nanosecond() != 0 {
		t.Fatalf("DayStart = %v, not a midnight", midnight)
	}
	if midnight.Day() != now.Day() || midnight.Month() != now.Month() || midnight.Year() != now.Year() {
		t.Fatalf("DayStart moved the date: %v", midnight)
	}
}

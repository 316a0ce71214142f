package handlers

import (
	"fmt"
	"time"
)

const (
	btnStartSession    = "▶️ Start session"
	btnContinueSession = "▶️ Continue session"
	btnEndSession      = "⏹ End session"
	btnNewSession      = "🔄 Start new session"
	btnMainPage        = "↩️ Main menu"
	btnShowStats       = "📊 Today's stats"
)

const mainPageText = "*Focus tracker*\n\n" +
	"Start a session when you sit down to work and end it when you are done. " +
	"Every finished session counts towards your daily total."

const cannotAccessText = "*You are on a session right now*\n\n" +
	"Finish it before moving on, or get back to work."

const noOpenSessionText = "There is no session to end. Start one from the main menu with /start."

func sessionText(startedAt time.Time) string {
	return fmt.Sprintf("*Session running*\n\nStarted at %s. Press the button below when you are done.",
		startedAt.Format("15:04"))
}

func summaryText(minutes int, hoursToday float64) string {
	return fmt.Sprintf("*Session finished*\n\nThis session took %d min.\nToday you have focused for %.1f h in total.",
		minutes, hoursToday)
}

func statsText(hoursToday float64) string {
	return fmt.Sprintf("*Today*\n\nFocused for %.1f h so far.", hoursToday)
}

package tui

import (
	"time"

	"github.com/MKhiriev/go-tool-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the active page of [RootModel]. A non-nil Payload is
// delivered to the new page instead of its Init command.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// AuthResult is produced by the login and register forms.
type AuthResult struct {
	Login string
	Err   error
}

// ContinueOffline finishes the auth flow without a session.
type ContinueOffline struct{}

type tickMsg time.Time

type snapshotMsg struct {
	online      bool
	status      models.SyncStatus
	paused      bool
	pending     int
	deadLetters int
	lastSync    time.Time
	hasLastSync bool
	history     []models.Event
	err         error
}

type toastMsg models.Toast

type syncDoneMsg struct {
	result models.SyncResult
}

type pauseToggledMsg struct {
	paused bool
	err    error
}

type requeuedMsg struct {
	count int
	err   error
}

type copiedMsg struct {
	err error
}

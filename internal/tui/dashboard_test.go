package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/mock"
	"github.com/MKhiriev/go-tool-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type dashboardFixture struct {
	engine       *mock.MockSyncEngine
	scheduler    *mock.MockSyncScheduler
	queue        *mock.MockQueueInspector
	connectivity *mock.MockConnectivityMonitor
	bus          *mock.MockEventBus
	toasts       chan models.Toast
	model        *DashboardModel
	copied       string
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &dashboardFixture{
		engine:       mock.NewMockSyncEngine(ctrl),
		scheduler:    mock.NewMockSyncScheduler(ctrl),
		queue:        mock.NewMockQueueInspector(ctrl),
		connectivity: mock.NewMockConnectivityMonitor(ctrl),
		bus:          mock.NewMockEventBus(ctrl),
		toasts:       make(chan models.Toast, 4),
	}
	f.model = NewDashboardModel(context.Background(), DashboardServices{
		Engine:       f.engine,
		Scheduler:    f.scheduler,
		Queue:        f.queue,
		Connectivity: f.connectivity,
		Bus:          f.bus,
		Toasts:       f.toasts,
	}, models.NewAppBuildInfo("1.2.0", "2026-10-01", "abc123"))
	f.model.copyToClipboard = func(s string) error {
		f.copied = s
		return nil
	}
	return f
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// run executes cmd and feeds the produced message back into the model.
func (f *dashboardFixture) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := f.model.Update(cmd())
	return next
}

func TestDashboard_RefreshShowsSnapshot(t *testing.T) {
	f := newDashboardFixture(t)
	last := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	f.connectivity.EXPECT().IsOnline().Return(false)
	f.engine.EXPECT().Status().Return(models.SyncStatusPartial)
	f.scheduler.EXPECT().Paused().Return(true)
	f.queue.EXPECT().Pending(gomock.Any()).Return(3, nil)
	f.queue.EXPECT().DeadLetters(gomock.Any()).Return([]models.DeadLetter{{}, {}}, nil)
	f.engine.EXPECT().LastSync(gomock.Any()).Return(last, true)
	f.bus.EXPECT().History().Return([]models.Event{{Type: models.EventQueueAdded, At: last}})

	f.run(t, f.model.cmdRefresh())

	view := f.model.View()
	assert.Contains(t, view, "OFFLINE")
	assert.Contains(t, view, "partial (auto-sync paused)")
	assert.Contains(t, view, "3 pending")
	assert.Contains(t, view, "Dead letters  │ 2")
	assert.Contains(t, view, models.EventQueueAdded)
	assert.Contains(t, view, "version 1.2.0")
}

func TestDashboard_RefreshKeepsLatestHistory(t *testing.T) {
	f := newDashboardFixture(t)

	history := make([]models.Event, maxHistory+3)
	for i := range history {
		history[i] = models.Event{Type: "e"}
	}
	history[len(history)-1].Type = models.EventSyncComplete
	history[0].Type = "oldest"

	f.connectivity.EXPECT().IsOnline().Return(true)
	f.engine.EXPECT().Status().Return(models.SyncStatusIdle)
	f.scheduler.EXPECT().Paused().Return(false)
	f.queue.EXPECT().Pending(gomock.Any()).Return(0, nil)
	f.queue.EXPECT().DeadLetters(gomock.Any()).Return(nil, nil)
	f.engine.EXPECT().LastSync(gomock.Any()).Return(time.Time{}, false)
	f.bus.EXPECT().History().Return(history)

	f.run(t, f.model.cmdRefresh())

	assert.Len(t, f.model.snap.history, maxHistory)
	view := f.model.View()
	assert.Contains(t, view, "ONLINE")
	assert.Contains(t, view, "never")
	assert.NotContains(t, view, "oldest")
}

func TestDashboard_ForceSync(t *testing.T) {
	f := newDashboardFixture(t)
	result := models.SyncResult{Success: true, Synced: 2, Status: models.SyncStatusSuccess}
	f.engine.EXPECT().ForceSync(gomock.Any()).Return(result)

	_, cmd := f.model.Update(keyPress('s'))
	assert.True(t, f.model.syncing)

	_, again := f.model.Update(keyPress('s'))
	assert.Nil(t, again, "a second press while syncing is ignored")

	f.run(t, cmd)

	assert.False(t, f.model.syncing)
	require.NotNil(t, f.model.lastResult)
	assert.Equal(t, "success: 2 synced, 0 failed, 0 dead-lettered", f.model.status)
}

func TestDashboard_TogglePause(t *testing.T) {
	f := newDashboardFixture(t)
	gomock.InOrder(
		f.scheduler.EXPECT().Paused().Return(false),
		f.scheduler.EXPECT().Pause(gomock.Any()).Return(nil),
	)

	_, cmd := f.model.Update(keyPress('p'))
	msg := cmd()
	assert.Equal(t, pauseToggledMsg{paused: true}, msg)

	f.model.Update(msg)
	assert.Equal(t, "Auto-sync paused", f.model.status)
}

func TestDashboard_ResumeFailureShowsError(t *testing.T) {
	f := newDashboardFixture(t)
	f.scheduler.EXPECT().Paused().Return(true)
	f.scheduler.EXPECT().Resume(gomock.Any()).Return(errors.New("store closed"))

	_, cmd := f.model.Update(keyPress('p'))
	f.model.Update(cmd())

	assert.Contains(t, f.model.View(), "store closed")

	f.model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, f.model.errMsg)
}

func TestDashboard_RequeueTriggersSync(t *testing.T) {
	f := newDashboardFixture(t)
	f.queue.EXPECT().RequeueAll(gomock.Any()).Return(2, nil)
	f.scheduler.EXPECT().Trigger()

	_, cmd := f.model.Update(keyPress('r'))
	msg := cmd()
	require.Equal(t, requeuedMsg{count: 2}, msg)

	f.model.Update(msg)
	assert.Equal(t, "Requeued 2 dead letter(s)", f.model.status)
}

func TestDashboard_RequeueNothingSkipsTrigger(t *testing.T) {
	f := newDashboardFixture(t)
	f.queue.EXPECT().RequeueAll(gomock.Any()).Return(0, nil)

	_, cmd := f.model.Update(keyPress('r'))

	assert.Equal(t, requeuedMsg{}, cmd())
}

func TestDashboard_CopyReport(t *testing.T) {
	f := newDashboardFixture(t)

	_, cmd := f.model.Update(keyPress('c'))
	assert.Nil(t, cmd)
	assert.Equal(t, "No sync report yet", f.model.status)

	f.model.Update(syncDoneMsg{result: models.SyncResult{Synced: 1, Status: models.SyncStatusSuccess}})
	_, cmd = f.model.Update(keyPress('c'))
	f.model.Update(cmd())

	var copied models.SyncResult
	require.NoError(t, json.Unmarshal([]byte(f.copied), &copied))
	assert.Equal(t, 1, copied.Synced)
	assert.Equal(t, "Sync report copied to clipboard", f.model.status)
}

func TestDashboard_ToastsAreCappedAndRelistened(t *testing.T) {
	f := newDashboardFixture(t)

	for i := 0; i < maxToasts+2; i++ {
		_, cmd := f.model.Update(toastMsg{Level: models.ToastInfo, Text: "toast"})
		assert.NotNil(t, cmd)
	}
	assert.Len(t, f.model.toasts, maxToasts)

	f.toasts <- models.Toast{Level: models.ToastWarning, Text: "offline"}
	assert.Equal(t, toastMsg{Level: models.ToastWarning, Text: "offline"}, f.model.cmdWaitToast()())

	close(f.toasts)
	assert.Nil(t, f.model.cmdWaitToast()())
}

func TestDashboard_Quit(t *testing.T) {
	f := newDashboardFixture(t)

	_, cmd := f.model.Update(keyPress('q'))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestDescribeResult(t *testing.T) {
	assert.Equal(t, models.MsgDeviceOffline,
		describeResult(models.SyncResult{Message: models.MsgDeviceOffline, Status: models.SyncStatusOffline}))
	assert.Equal(t, "Sync already in progress",
		describeResult(models.SyncResult{Skipped: true, Message: "Sync already in progress"}))
	assert.Equal(t, "error: 0 synced, 1 failed, 0 dead-lettered (sync aborted: boom)",
		describeResult(models.SyncResult{Failed: 1, Status: models.SyncStatusError, Message: "sync aborted: boom"}))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	refreshInterval = time.Second
	maxToasts       = 5
	maxHistory      = 8
)

// DashboardServices are the client services shown and driven by the
// dashboard.
type DashboardServices struct {
	Engine       service.SyncEngine
	Scheduler    service.SyncScheduler
	Queue        service.QueueInspector
	Connectivity service.ConnectivityMonitor
	Bus          service.EventBus
	// Toasts may be nil.
	Toasts <-chan models.Toast
}

// DashboardModel shows connectivity, sync state, the queue and recent
// notifications. Keys: s force sync, p pause/resume auto-sync, r requeue
// dead letters, c copy the last sync report, q quit.
type DashboardModel struct {
	ctx       context.Context
	services  DashboardServices
	buildInfo models.AppBuildInfo

	spinner    spinner.Model
	syncing    bool
	snap       snapshotMsg
	lastResult *models.SyncResult
	toasts     []models.Toast
	status     string
	errMsg     string

	copyToClipboard func(string) error
}

func NewDashboardModel(ctx context.Context, services DashboardServices, buildInfo models.AppBuildInfo) *DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return &DashboardModel{
		ctx:             ctx,
		services:        services,
		buildInfo:       buildInfo,
		spinner:         s,
		copyToClipboard: clipboard.WriteAll,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.cmdRefresh(), cmdTick(), m.cmdWaitToast(), m.spinner.Tick)
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		return m, tea.Batch(m.cmdRefresh(), cmdTick())
	case snapshotMsg:
		m.snap = msg
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil
	case toastMsg:
		m.toasts = append(m.toasts, models.Toast(msg))
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		return m, m.cmdWaitToast()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case syncDoneMsg:
		m.syncing = false
		result := msg.result
		m.lastResult = &result
		m.status = describeResult(result)
		return m, m.cmdRefresh()
	case pauseToggledMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = "Auto-sync resumed"
		if msg.paused {
			m.status = "Auto-sync paused"
		}
		return m, m.cmdRefresh()
	case requeuedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Requeued %d dead letter(s)", msg.count)
		return m, m.cmdRefresh()
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "clipboard: " + msg.err.Error()
			return m, nil
		}
		m.status = "Sync report copied to clipboard"
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.errMsg != "" && (key.Matches(msg, keys.esc) || key.Matches(msg, keys.enter)) {
		m.errMsg = ""
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = ""
		return m, m.cmdForceSync()
	case key.Matches(msg, keys.pause):
		return m, m.cmdTogglePause()
	case key.Matches(msg, keys.requeue):
		return m, m.cmdRequeue()
	case key.Matches(msg, keys.copy):
		if m.lastResult == nil {
			m.status = "No sync report yet"
			return m, nil
		}
		return m, m.cmdCopyReport(*m.lastResult)
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(m.buildInfo.String())
	b.WriteString("\n\n")

	if m.snap.online {
		b.WriteString(onlineStyle.Render("● ONLINE"))
	} else {
		b.WriteString(offlineStyle.Render("● OFFLINE: changes are queued locally"))
	}
	b.WriteString("\n\n")

	syncLine := string(m.snap.status)
	if m.syncing {
		syncLine = m.spinner.View() + " syncing"
	}
	if m.snap.paused {
		syncLine += " (auto-sync paused)"
	}
	fmt.Fprintf(&b, "Sync          │ %s\n", syncLine)
	fmt.Fprintf(&b, "Queue         │ %d pending\n", m.snap.pending)
	fmt.Fprintf(&b, "Dead letters  │ %d\n", m.snap.deadLetters)
	fmt.Fprintf(&b, "Last sync     │ %s\n", formatTime(m.snap.lastSync, m.snap.hasLastSync))
	if m.lastResult != nil {
		fmt.Fprintf(&b, "Last report   │ %s\n", describeResult(*m.lastResult))
	}

	if len(m.toasts) > 0 {
		b.WriteString("\nNotifications\n")
		for i := len(m.toasts) - 1; i >= 0; i-- {
			t := m.toasts[i]
			style, ok := toastStyles[string(t.Level)]
			if !ok {
				style = helpStyle
			}
			b.WriteString("  ")
			b.WriteString(style.Render(fmt.Sprintf("%s  %s", t.At.Local().Format("15:04:05"), t.Text)))
			b.WriteString("\n")
		}
	}

	if len(m.snap.history) > 0 {
		b.WriteString("\nEvents\n")
		for i := len(m.snap.history) - 1; i >= 0; i-- {
			e := m.snap.history[i]
			fmt.Fprintf(&b, "  %s  %s\n", e.At.Local().Format("15:04:05"), e.Type)
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(fitText(m.status, 80))
		b.WriteString("\n")
	}

	page := renderPage("DASHBOARD", strings.TrimRight(b.String(), "\n"),
		"s: sync │ p: pause/resume │ r: requeue dead letters │ c: copy report │ q: quit")

	if m.errMsg != "" {
		return page + "\n\n" + errorOverlayModel{message: m.errMsg}.View()
	}
	return appStyle.Render(page)
}

func describeResult(r models.SyncResult) string {
	if r.Skipped || (r.Message != "" && r.Synced == 0 && r.Failed == 0 && r.DeadLettered == 0) {
		return r.Message
	}
	text := fmt.Sprintf("%s: %d synced, %d failed, %d dead-lettered", r.Status, r.Synced, r.Failed, r.DeadLettered)
	if r.Message != "" {
		text += " (" + r.Message + ")"
	}
	return text
}

func cmdTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *DashboardModel) cmdRefresh() tea.Cmd {
	ctx, s := m.ctx, m.services

	return func() tea.Msg {
		snap := snapshotMsg{
			online: s.Connectivity.IsOnline(),
			status: s.Engine.Status(),
			paused: s.Scheduler.Paused(),
		}

		var err error
		if snap.pending, err = s.Queue.Pending(ctx); err != nil {
			snap.err = err
		}
		letters, err := s.Queue.DeadLetters(ctx)
		if err != nil {
			snap.err = err
		}
		snap.deadLetters = len(letters)
		snap.lastSync, snap.hasLastSync = s.Engine.LastSync(ctx)

		history := s.Bus.History()
		if len(history) > maxHistory {
			history = history[len(history)-maxHistory:]
		}
		snap.history = history

		return snap
	}
}

func (m *DashboardModel) cmdWaitToast() tea.Cmd {
	toasts := m.services.Toasts
	if toasts == nil {
		return nil
	}

	return func() tea.Msg {
		toast, ok := <-toasts
		if !ok {
			return nil
		}
		return toastMsg(toast)
	}
}

func (m *DashboardModel) cmdForceSync() tea.Cmd {
	ctx, engine := m.ctx, m.services.Engine
	return func() tea.Msg {
		return syncDoneMsg{result: engine.ForceSync(ctx)}
	}
}

func (m *DashboardModel) cmdTogglePause() tea.Cmd {
	ctx, scheduler := m.ctx, m.services.Scheduler
	return func() tea.Msg {
		if scheduler.Paused() {
			return pauseToggledMsg{paused: false, err: scheduler.Resume(ctx)}
		}
		return pauseToggledMsg{paused: true, err: scheduler.Pause(ctx)}
	}
}

func (m *DashboardModel) cmdRequeue() tea.Cmd {
	ctx, queue, scheduler := m.ctx, m.services.Queue, m.services.Scheduler
	return func() tea.Msg {
		n, err := queue.RequeueAll(ctx)
		if err == nil && n > 0 {
			scheduler.Trigger()
		}
		return requeuedMsg{count: n, err: err}
	}
}

func (m *DashboardModel) cmdCopyReport(result models.SyncResult) tea.Cmd {
	copyFn := m.copyToClipboard
	return func() tea.Msg {
		report, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{err: copyFn(string(report))}
	}
}

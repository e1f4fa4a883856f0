// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-tool-keeper/models"
)

// DefaultToastBuffer is the number of undelivered toasts kept by a Notifier.
const DefaultToastBuffer = 16

// Toast texts of connectivity changes.
const (
	MsgToastOffline = "You are offline, changes will be queued"
	MsgToastOnline  = "Back online, syncing queued changes"
)

// Notifier turns bus events into user-facing toasts. When the consumer
// falls behind the oldest pending toast is dropped.
type Notifier struct {
	toasts chan models.Toast
	mu     sync.Mutex
	now    func() time.Time

	unsubscribe []func()
}

// NewNotifier subscribes to bus. Close releases the subscriptions.
func NewNotifier(bus EventBus, buffer int) *Notifier {
	if buffer <= 0 {
		buffer = DefaultToastBuffer
	}
	n := &Notifier{toasts: make(chan models.Toast, buffer), now: time.Now}

	n.unsubscribe = []func(){
		bus.On(models.EventSyncComplete, n.onSyncComplete),
		bus.On(models.EventDeadLetter, n.onDeadLetter),
		bus.On(models.EventNetworkOffline, func(models.Event) { n.push(models.ToastWarning, MsgToastOffline) }),
		bus.On(models.EventNetworkOnline, func(models.Event) { n.push(models.ToastInfo, MsgToastOnline) }),
	}
	return n
}

// Toasts is the delivery channel consumed by the dashboard.
func (n *Notifier) Toasts() <-chan models.Toast {
	return n.toasts
}

func (n *Notifier) Close() {
	for _, unsubscribe := range n.unsubscribe {
		unsubscribe()
	}
}

func (n *Notifier) onSyncComplete(e models.Event) {
	res, ok := e.Payload.(models.SyncResult)
	if !ok || res.Skipped || res.Status == models.SyncStatusOffline {
		return
	}

	switch res.Status {
	case models.SyncStatusSuccess:
		if res.Synced == 0 {
			return
		}
		n.push(models.ToastSuccess, res.Message)
	case models.SyncStatusPartial:
		n.push(models.ToastWarning, res.Message)
	default:
		n.push(models.ToastError, res.Message)
	}
}

func (n *Notifier) onDeadLetter(e models.Event) {
	dl, ok := e.Payload.(models.DeadLetter)
	if !ok {
		return
	}
	n.push(models.ToastError, fmt.Sprintf("%s on %s failed permanently: %s", dl.Action, dl.Table, dl.Reason))
}

func (n *Notifier) push(level models.ToastLevel, text string) {
	toast := models.Toast{Level: level, Text: text, At: n.now().UTC()}

	n.mu.Lock()
	defer n.mu.Unlock()
	for {
		select {
		case n.toasts <- toast:
			return
		default:
		}
		select {
		case <-n.toasts:
		default:
		}
	}
}

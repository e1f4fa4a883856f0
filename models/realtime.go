// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// RealtimeMessageType is the kind of a realtime channel frame.
type RealtimeMessageType string

const (
	RealtimeSubscribe   RealtimeMessageType = "subscribe"
	RealtimeUnsubscribe RealtimeMessageType = "unsubscribe"
	RealtimeEvent       RealtimeMessageType = "event"
	RealtimePing        RealtimeMessageType = "ping"
)

// RealtimeMessage is a JSON frame exchanged over the realtime channel.
// Channel is a table name; Event is set on server pushed change frames.
type RealtimeMessage struct {
	Type    RealtimeMessageType `json:"type"`
	Channel string              `json:"channel,omitempty"`
	Event   *ChangeEvent        `json:"event,omitempty"`
	Payload json.RawMessage     `json:"payload,omitempty"`
}

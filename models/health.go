// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Health states reported by GET /api/health.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthReport is the body of GET /api/health.
type HealthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

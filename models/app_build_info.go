// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
)

const buildInfoUnknown = "N/A"

// AppBuildInfo carries build metadata injected with -ldflags. Empty values
// render as "N/A".
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

// NewAppBuildInfo constructs [AppBuildInfo] from the provided build metadata.
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: orUnknown(buildVersion),
		buildDate:    orUnknown(buildDate),
		buildCommit:  orUnknown(buildCommit),
	}
}

func (a AppBuildInfo) BuildVersion() string { return orUnknown(a.buildVersion) }

func (a AppBuildInfo) BuildDate() string { return orUnknown(a.buildDate) }

func (a AppBuildInfo) BuildCommit() string { return orUnknown(a.buildCommit) }

// String formats the build info for startup banners and the TUI header.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("version %s (%s, commit %s)", a.BuildVersion(), a.BuildDate(), a.BuildCommit())
}

// VersionResponse is the body of GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// MarshalJSON encodes the build info as a [VersionResponse].
func (a AppBuildInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(VersionResponse{
		Version: a.BuildVersion(),
		Date:    a.BuildDate(),
		Commit:  a.BuildCommit(),
	})
}

func orUnknown(s string) string {
	if s == "" {
		return buildInfoUnknown
	}
	return s
}

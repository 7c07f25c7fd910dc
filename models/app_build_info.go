// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo holds the version, date and commit stamped into a binary by
// -ldflags. Empty fields mean the binary was built without them.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{version: version, date: date, commit: commit}
}

func (a AppBuildInfo) BuildVersion() string { return a.version }

func (a AppBuildInfo) BuildDate() string { return a.date }

func (a AppBuildInfo) BuildCommit() string { return a.commit }

// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release.
const BuildVersion = "v1.2.0"

// buildInfo is the VCS stamp the Go toolchain embeds in the binary.
type buildInfo struct {
	commit   string
	date     string
	modified bool
}

// Revision describes the commit the binary was built from, such as
// "2025-03-01-1a2b3c4d" or "2025-03-01-1a2b3c4d+dirty".
func (b buildInfo) Revision() string {
	if len(b.commit) < 8 {
		return "unknown"
	}

	day, _, _ := strings.Cut(b.date, "T")

	rev := day + "-" + b.commit[:8]
	if b.modified {
		rev += "+dirty"
	}

	return rev
}

func readBuildInfo() buildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return buildInfo{}
	}

	var b buildInfo

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.commit = s.Value
		case "vcs.time":
			b.date = s.Value
		case "vcs.modified":
			b.modified = s.Value == "true"
		}
	}

	return b
}

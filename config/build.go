// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release of uitext.
const BuildVersion string = "v0.4.0"

const shortRevisionLength = 8

type buildInfo struct {
	VcsRevision string
	VcsTime     string
	VcsModified bool
}

// Revision returns "<date>-<short revision>", with "+dirty" for modified
// trees, or "unknown" outside a VCS build.
func (b *buildInfo) Revision() string {
	if b.VcsRevision == "" {
		return "unknown"
	}

	rev := b.VcsRevision
	if len(rev) > shortRevisionLength {
		rev = rev[:shortRevisionLength]
	}

	s := strings.Split(b.VcsTime, "T")[0] + "-" + rev
	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

func (b *buildInfo) load() {
	if info, ok := debug.ReadBuildInfo(); ok {
		b.VcsRevision = getBuildSetting(info.Settings, "vcs.revision")
		b.VcsTime = getBuildSetting(info.Settings, "vcs.time")
		b.VcsModified = getBuildSetting(info.Settings, "vcs.modified") == "true"
	}
}

func getBuildSetting(settings []debug.BuildSetting, key string) string {
	for _, kv := range settings {
		if key == kv.Key {
			return kv.Value
		}
	}

	return ""
}

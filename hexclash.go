// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package hexclash is the authoritative server for a turn-based hex skirmish game.
package hexclash

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 3,
		Patch: 0,
		Build: semver.Commit(),
	}
)

func Version() semver.Version {
	return version
}

package control

import (
	"math"
	"os"
	"time"
)

// Status describes the motor daemon's externally published state, derived
// fresh from the filesystem every tick.
type Status struct {
	IsMoving               bool
	SecondsSinceLastMotion float64
}

// ReadStatus reads the two status files the motor daemon publishes.
// A missing mtime file is treated as "motion unknown, infinitely stale" so
// the controller defaults to auto-move-disabled rather than guessing.
func ReadStatus(isActivePath, lastActiveMtimePath string) Status {
	_, err := os.Stat(isActivePath)
	isMoving := err == nil

	info, err := os.Stat(lastActiveMtimePath)
	if err != nil {
		return Status{IsMoving: isMoving, SecondsSinceLastMotion: math.Inf(1)}
	}

	return Status{
		IsMoving:               isMoving,
		SecondsSinceLastMotion: time.Since(info.ModTime()).Seconds(),
	}
}

package entities

import (
	"fmt"
	"time"
)

// Mode is the system-wide governance mode. It controls how much autonomy
// the mitigation pipeline has: AUTO executes, REVIEW defers to a human,
// SAFE blocks all execution.
type Mode string

const (
	ModeAuto   Mode = "AUTO"
	ModeReview Mode = "REVIEW"
	ModeSafe   Mode = "SAFE"
)

// GovernanceConfigID is the well-known key of the single live
// GovernanceConfig row.
const GovernanceConfigID = "governance"

// Rank orders modes by restrictiveness: AUTO < REVIEW < SAFE.
// Automatic escalation may only increase rank.
func (m Mode) Rank() int {
	switch m {
	case ModeAuto:
		return 0
	case ModeReview:
		return 1
	case ModeSafe:
		return 2
	}
	return -1
}

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m.Rank() >= 0
}

// ParseMode validates a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown governance mode %q (want AUTO, REVIEW or SAFE)", s)
	}
	return m, nil
}

// GovernanceConfig is the singleton record holding the current governance
// mode. UpdatedBy is empty for system-initiated escalations and carries the
// administrator identity for human-initiated changes.
type GovernanceConfig struct {
	ID          string    `json:"id"`
	CurrentMode Mode      `json:"current_mode"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package domain

import (
	"time"
)

type CommandEventType string

const (
	CommandEventUpdate CommandEventType = "COMMAND_UPDATE"
	CommandEventDelete CommandEventType = "COMMAND_DELETED"
)

// CommandEvent is what per-device subscribers receive when a command changes
// state or is cancelled. NewStatus is empty for deletions.
type CommandEvent struct {
	Type      CommandEventType `json:"type"`
	CommandID ID               `json:"command_id"`
	DeviceID  string           `json:"device_id"`
	NewStatus CommandStatus    `json:"new_status,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

package domain

import (
	"errors"
	"fmt"
	"time"

	"acs-console/internal/infra/utils"
)

// CommandStatus represents the lifecycle of a dispatched command. Transitions
// only move forward: pending commands become succeeded or failed, terminal
// commands never change again.
type CommandStatus string

const (
	CommandStatusPending   CommandStatus = "pending"
	CommandStatusSucceeded CommandStatus = "succeeded"
	CommandStatusFailed    CommandStatus = "failed"
)

func (s CommandStatus) IsTerminal() bool {
	return s == CommandStatusSucceeded || s == CommandStatusFailed
}

var ErrAlreadyTerminal = errors.New("command already in a terminal state")

// Command is one requested device operation tracked from submission to its
// terminal state. DeviceID and Kind together form the dedup lane: at most one
// pending command may exist per lane.
type Command struct {
	ID              ID
	DeviceID        string
	Kind            string
	Status          CommandStatus
	RequestPayload  map[string]any
	ResponsePayload map[string]any
	ExternalID      *string
	CreatedAt       utils.Time
	CreatedBy       ID
}

func (c Command) IsPending() bool {
	return c.Status == CommandStatusPending
}

// MarkTerminal moves the command into a terminal state. The response payload
// is left untouched when nil is given.
func (c *Command) MarkTerminal(status CommandStatus, responsePayload map[string]any) error {
	if c.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if !status.IsTerminal() {
		return fmt.Errorf("%q is not a terminal status", status)
	}

	c.Status = status
	if responsePayload != nil {
		c.ResponsePayload = responsePayload
	}

	return nil
}

func NewCommandBuilder() *commandBuilder {
	return &commandBuilder{}
}

type commandBuilder struct {
	actions []commandHandler
}

type commandHandler func(v *Command) error

func (b *commandBuilder) WithDeviceID(value string) *commandBuilder {
	b.actions = append(b.actions, func(c *Command) error {
		c.DeviceID = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithKind(value string) *commandBuilder {
	b.actions = append(b.actions, func(c *Command) error {
		c.Kind = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithRequestPayload(value map[string]any) *commandBuilder {
	b.actions = append(b.actions, func(c *Command) error {
		c.RequestPayload = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithExternalID(value string) *commandBuilder {
	b.actions = append(b.actions, func(c *Command) error {
		c.ExternalID = &value
		return nil
	})
	return b
}

func (b *commandBuilder) WithCreatedBy(value ID) *commandBuilder {
	b.actions = append(b.actions, func(c *Command) error {
		c.CreatedBy = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithStatus(value CommandStatus) *commandBuilder {
	b.actions = append(b.actions, func(c *Command) error {
		c.Status = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithResponsePayload(value map[string]any) *commandBuilder {
	b.actions = append(b.actions, func(c *Command) error {
		c.ResponsePayload = value
		return nil
	})
	return b
}

func (b *commandBuilder) Build() (Command, error) {
	result := Command{
		ID:        ID(utils.GenerateUUID()),
		Status:    CommandStatusPending,
		CreatedAt: utils.Time{Time: time.Now()},
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return Command{}, err
		}
	}

	if result.DeviceID == "" {
		return Command{}, errors.New("device id is required")
	}
	if result.Kind == "" {
		return Command{}, errors.New("kind is required")
	}

	return result, nil
}

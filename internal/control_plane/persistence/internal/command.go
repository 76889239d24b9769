package internal

import (
	"errors"

	"acs-console/internal/control_plane/domain"
	"acs-console/internal/infra/utils"

	"database/sql/driver"
	"encoding/json"
)

type CommandSet []Command

func (CommandSet) TableName() string {
	return "device_commands"
}

func (s CommandSet) ToDomain() []domain.Command {
	result := make([]domain.Command, len(s))
	for i, v := range s {
		result[i] = v.ToDomain()
	}

	return result
}

// Command is the persisted form of a dispatched command. The partial unique
// index on (device_id, kind) where status is pending is what actually
// enforces the one-pending-per-lane rule.
type Command struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	DeviceID        string     `json:"device_id" gorm:"uniqueIndex:idx_pending_lane,where:status = 'pending'"`
	Kind            string     `json:"kind" gorm:"uniqueIndex:idx_pending_lane,where:status = 'pending'"`
	Status          string     `json:"status" gorm:"index"`
	RequestPayload  JSONMap    `json:"request_payload" gorm:"type:json"`
	ResponsePayload JSONMap    `json:"response_payload" gorm:"type:json"`
	ExternalID      *string    `json:"external_id"`
	CreatedAt       utils.Time `json:"created_at" gorm:"index"`
	CreatedBy       string     `json:"created_by"`
}

func (Command) TableName() string {
	return "device_commands"
}

type JSONMap map[string]any

func (v JSONMap) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *JSONMap) Scan(value any) error {
	if value == nil {
		*v = nil
		return nil
	}

	var data []byte
	switch typed := value.(type) {
	case string:
		data = []byte(typed)
	case []byte:
		data = typed
	default:
		return errors.New("type assertion to string or []byte failed")
	}

	return json.Unmarshal(data, v)
}

func (c Command) ToDomain() domain.Command {
	return domain.Command{
		ID:              domain.ID(c.ID),
		DeviceID:        c.DeviceID,
		Kind:            c.Kind,
		Status:          domain.CommandStatus(c.Status),
		RequestPayload:  c.RequestPayload,
		ResponsePayload: c.ResponsePayload,
		ExternalID:      c.ExternalID,
		CreatedAt:       c.CreatedAt,
		CreatedBy:       domain.ID(c.CreatedBy),
	}
}

func FromCommand(cmd domain.Command) Command {
	return Command{
		ID:              cmd.ID.String(),
		DeviceID:        cmd.DeviceID,
		Kind:            cmd.Kind,
		Status:          string(cmd.Status),
		RequestPayload:  JSONMap(cmd.RequestPayload),
		ResponsePayload: JSONMap(cmd.ResponsePayload),
		ExternalID:      cmd.ExternalID,
		CreatedAt:       cmd.CreatedAt,
		CreatedBy:       cmd.CreatedBy.String(),
	}
}

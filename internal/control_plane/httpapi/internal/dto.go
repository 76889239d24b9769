package internal

import (
	"acs-console/internal/control_plane/domain"
	"acs-console/internal/infra/utils"
)

type CommandCreateRequest struct {
	DeviceID   string         `json:"device_id"`
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters"`
}

type WifiPasswordRequest struct {
	Password string `json:"password"`
}

// WebhookTaskResultRequest mirrors the ACS callback body, so the field names
// follow the ACS convention rather than ours.
type WebhookTaskResultRequest struct {
	DeviceID string         `json:"deviceId"`
	Fault    map[string]any `json:"fault"`
}

type CommandResponse struct {
	ID              string         `json:"id"`
	DeviceID        string         `json:"device_id"`
	Kind            string         `json:"kind"`
	Status          string         `json:"status"`
	RequestPayload  map[string]any `json:"request_payload,omitempty"`
	ResponsePayload map[string]any `json:"response_payload,omitempty"`
	ExternalID      *string        `json:"external_id,omitempty"`
	CreatedAt       utils.Time     `json:"created_at"`
	CreatedBy       string         `json:"created_by"`
}

func FromCommand(cmd domain.Command) CommandResponse {
	return CommandResponse{
		ID:              cmd.ID.String(),
		DeviceID:        cmd.DeviceID,
		Kind:            cmd.Kind,
		Status:          string(cmd.Status),
		RequestPayload:  cmd.RequestPayload,
		ResponsePayload: cmd.ResponsePayload,
		ExternalID:      cmd.ExternalID,
		CreatedAt:       cmd.CreatedAt,
		CreatedBy:       cmd.CreatedBy.String(),
	}
}

func FromCommands(commands []domain.Command) []CommandResponse {
	result := make([]CommandResponse, len(commands))
	for i, cmd := range commands {
		result[i] = FromCommand(cmd)
	}

	return result
}

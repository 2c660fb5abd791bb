package websocket

import "github.com/uwplan/planner-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionValidate Action = "validate"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
	// ID is echoed back so clients can match replies to edits.
	ID string `json:"id,omitempty"`
}

// ValidateRequest asks for a schedule to be validated.
type ValidateRequest struct {
	RequestEnvelope
	model.ValidateScheduleRequest
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventValidated Event = "validated"
	EventPong      Event = "pong"
	EventError     Event = "error"
)

type ValidatedResponse struct {
	Event  Event                           `json:"event"`
	ID     string                          `json:"id,omitempty"`
	Result *model.ScheduleValidationOutput `json:"result"`
}

type ErrorResponse struct {
	Event  Event             `json:"event"`
	ID     string            `json:"id,omitempty"`
	Code   string            `json:"code"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type PongResponse struct {
	Event Event  `json:"event"`
	ID    string `json:"id,omitempty"`
}

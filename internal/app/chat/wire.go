/*
Package chat is the websocket transport for the relay: it owns the live connections,
the room-scoped multicast index, and the wire envelope exchanged with clients.

This file defines the envelope and payload shapes. Inbound and outbound event names are
part of the client contract and must stay stable.
*/
package chat

import (
	"encoding/json"

	"github.com/Alanshi2019/Ichat/internal/pkg/errs"
	"github.com/Alanshi2019/Ichat/internal/pkg/randx"
)

// Inbound event names, sent by clients.
const (
	EventJoin         = "join"
	EventSendMessage  = "sendMessage"
	EventSendLocation = "sendLocation"
)

// EventAck is the outbound per-event acknowledgment, correlated by tempID.
const EventAck = "ack"

// InboundEnvelope is the frame clients send. The payload shape depends on the type;
// tempID, when present, asks for an acknowledgment frame.
type InboundEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	TempID  string          `json:"tempID,omitempty"`
}

// JoinPayload carries the join request fields.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// LocationPayload carries a coordinate pair for sendLocation.
type LocationPayload struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Envelope is the frame delivered to clients.
type Envelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// NewEnvelope wraps an event payload with a unique message ID.
func NewEnvelope(event string, payload any) Envelope {
	return Envelope{
		ID:      randx.MessageID(),
		Type:    event,
		Payload: payload,
	}
}

// ErrorPayload is the client-facing form of a business error.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AckPayload acknowledges one inbound event. Error is present only on failure;
// Confirmation carries the fixed sendLocation confirmation string.
type AckPayload struct {
	TempID       string        `json:"tempId"`
	Error        *ErrorPayload `json:"error,omitempty"`
	Confirmation string        `json:"confirmation,omitempty"`
}

// newAckPayload builds an AckPayload from a handler result.
func newAckPayload(tempID string, customErr *errs.CustomError, confirmation string) AckPayload {
	ack := AckPayload{TempID: tempID, Confirmation: confirmation}
	if customErr != nil {
		ack.Error = &ErrorPayload{Code: customErr.Code, Message: customErr.Message}
	}
	return ack
}

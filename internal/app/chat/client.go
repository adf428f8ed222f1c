/*
Package chat is the websocket transport for the relay.

This file defines the Client struct, representing an active websocket connection.
It manages the connection lifecycle, the read/write pumps, and the dispatch of inbound
events into the session protocol, including per-event acknowledgments.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Alanshi2019/Ichat/internal/app/session"
	"github.com/Alanshi2019/Ichat/internal/pkg/errs"
	"github.com/Alanshi2019/Ichat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the websocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the per-client buffered send queue capacity.
	sendQueueSize = 256
)

// Client represents an active websocket connection and its protocol session.
type Client struct {
	// id is the opaque connection identifier shared with the session and roster.
	id string

	hub *Hub

	// underlying websocket connection object.
	conn *websocket.Conn

	// sess is the per-connection protocol state machine.
	sess *session.Session

	// room is the normalized room the client subscribed to; written by Hub.Join
	// and read by Hub.Unregister, both under the hub lock.
	room string

	// send is the buffered queue of frames waiting for the write pump.
	send chan []byte

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, sess *session.Session) *Client {
	clientLogger := logx.Logger().With().
		Str("conn_id", sess.ConnID()).
		Logger()

	return &Client{
		id:     sess.ConnID(),
		hub:    hub,
		conn:   conn,
		sess:   sess,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// ReadPump handles reading frames from the websocket connection.
// It handles heartbeats (Pong), event dispatch, and performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundFrame(frame)
	}
}

// cleanupOnDisconnect tears the connection down when the read pump terminates.
// The hub unregistration comes first so that the leave notices issued by the session
// reach only the remaining room members.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Unregister(c.id)
	c.sess.Disconnect()

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame parses one inbound envelope and dispatches it to the session.
func (c *Client) processInboundFrame(frame []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame", frame).
			Msg("Client sent invalid JSON")
		return
	}

	switch envelope.Type {
	case EventJoin:
		c.handleJoin(envelope.Payload, envelope.TempID)

	case EventSendMessage:
		c.handleSendMessage(envelope.Payload, envelope.TempID)

	case EventSendLocation:
		c.handleSendLocation(envelope.Payload, envelope.TempID)

	default:
		c.logger.Warn().Str("event_type", envelope.Type).Msg("Client sent unsupported event type")
		c.ack(envelope.TempID, errs.NewError(errs.ErrUnsupportedEvent), "")
	}
}

// handleJoin processes the join event and acknowledges the result.
func (c *Client) handleJoin(payload json.RawMessage, tempID string) {
	var join JoinPayload
	if err := json.Unmarshal(payload, &join); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid join payload")
		c.ack(tempID, errs.NewError(errs.ErrInvalidJSONFormat), "")
		return
	}

	c.ack(tempID, c.sess.Join(join.Username, join.Room), "")
}

// handleSendMessage processes the sendMessage event. The payload is the message text.
func (c *Client) handleSendMessage(payload json.RawMessage, tempID string) {
	var text string
	if err := json.Unmarshal(payload, &text); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
		c.ack(tempID, errs.NewError(errs.ErrInvalidJSONFormat), "")
		return
	}

	c.ack(tempID, c.sess.SendMessage(text), "")
}

// handleSendLocation processes the sendLocation event. A successful share always
// acknowledges with the fixed confirmation string.
func (c *Client) handleSendLocation(payload json.RawMessage, tempID string) {
	var location LocationPayload
	if err := json.Unmarshal(payload, &location); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid sendLocation payload")
		c.ack(tempID, errs.NewError(errs.ErrInvalidJSONFormat), "")
		return
	}

	confirmation, customErr := c.sess.SendLocation(location.Lat, location.Long)
	c.ack(tempID, customErr, confirmation)
}

// ack sends the per-event acknowledgment back to this connection.
// Events sent without a tempID did not ask for one.
func (c *Client) ack(tempID string, customErr *errs.CustomError, confirmation string) {
	if tempID == "" {
		return
	}

	frame, err := json.Marshal(NewEnvelope(EventAck, newAckPayload(tempID, customErr, confirmation)))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal ack frame")
		return
	}

	c.enqueue(frame)
}

// enqueue places a frame on the send queue without blocking.
// A full queue means a slow consumer; the frame is dropped and logged, never queued
// at the expense of the fan-out path.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping frame")
	}
}

// WritePump handles writing frames from the send queue to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send queue to the websocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic Ping to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

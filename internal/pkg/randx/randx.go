/*
Package randx provides generators for the opaque identifiers used across the chat relay.

Connection IDs stand in for the transport-level socket identity and message IDs give
every outbound envelope a unique handle for client-side de-duplication.
*/
package randx

import "github.com/google/uuid"

// ConnectionID generates an opaque identifier for a live connection.
// The ID is unique for the connection's lifetime and never reused while it is open.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

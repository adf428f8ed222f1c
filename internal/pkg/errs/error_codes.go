/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that an inbound message was not valid JSON.
	ErrInvalidJSONFormat = 1002

	// ErrUnsupportedEvent indicates that the client sent an event type the server does not handle.
	ErrUnsupportedEvent = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1004
)

// 2xxx: Session and Roster Business Logic Errors
const (
	// ErrMissingField indicates that the display name or room was empty after trimming.
	ErrMissingField = 2101

	// ErrNameTaken indicates that the display name is already in use in the target room.
	ErrNameTaken = 2102

	// ErrAlreadyJoined indicates that this connection already joined a room.
	ErrAlreadyJoined = 2103

	// ErrNotJoined indicates that a message was sent before a successful join.
	ErrNotJoined = 2201

	// ErrProfanityRejected indicates that the message content was vetoed by the profanity filter.
	ErrProfanityRejected = 2202
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
